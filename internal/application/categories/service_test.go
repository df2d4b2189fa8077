package categories

import (
	"context"
	"testing"

	"inventory-backend/internal/infrastructure/database"
	"inventory-backend/internal/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *Service {
	t.Helper()
	db, err := database.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return &Service{DB: db}
}

func TestAddListDelete(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	e, err := s.Add(ctx, "vendor", "  Lenovo ")
	require.NoError(t, err)
	assert.Equal(t, "Lenovo", e.Value)
	assert.NotZero(t, e.ID)

	_, err = s.Add(ctx, "vendor", "Dell")
	require.NoError(t, err)

	list, err := s.List(ctx, "vendor")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Dell", list[0].Value)
	assert.Equal(t, "Lenovo", list[1].Value)

	require.NoError(t, s.Delete(ctx, "vendor", e.ID))
	list, err = s.List(ctx, "vendor")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAdd_CaseInsensitiveDuplicate(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	_, err := s.Add(ctx, "department", "Finance")
	require.NoError(t, err)

	_, err = s.Add(ctx, "department", "FINANCE")
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	list, err := s.List(ctx, "department")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAdd_Empty(t *testing.T) {
	_, err := newService(t).Add(context.Background(), "cadre", "   ")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestHardwareTypeColumns(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	e, err := s.Add(ctx, "hardware_type", "Laptop")
	require.NoError(t, err)

	list, err := s.List(ctx, "hardware_type")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, Entry{ID: e.ID, Value: "Laptop"}, list[0])
}

func TestUnknownCategory(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	_, err := s.List(ctx, "users; DROP TABLE assets")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	_, err = s.Add(ctx, "nope", "x")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.True(t, apperr.Is(s.Delete(ctx, "nope", 1), apperr.KindValidation))
}

func TestDelete_NotFound(t *testing.T) {
	err := newService(t).Delete(context.Background(), "building", 42)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestNames(t *testing.T) {
	assert.Contains(t, Names(), "operational_status")
	assert.Len(t, Names(), 9)
}
