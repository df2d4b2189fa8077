package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedRole(t *testing.T) {
	assert.True(t, AllowedRole(ToggleUserStatus, Admin))
	assert.False(t, AllowedRole(ToggleUserStatus, User))
	assert.False(t, AllowedRole("unknown", Admin))
}

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole("admin"))
	assert.True(t, IsValidRole("user"))
	assert.False(t, IsValidRole("superadmin"))
}
