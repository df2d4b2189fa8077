package database

import (
	"context"
	"errors"
	"testing"

	"inventory-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTest(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open("sqlite", "file::memory:")
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("oracle", "x")
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestTransaction_RollsBackOnError(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := Transaction(ctx, db, func(tx *gorm.DB) error {
		if err := tx.Create(&domain.Vendor{LookupEntry: domain.LookupEntry{Name: "Dell"}}).Error; err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var n int64
	require.NoError(t, db.Model(&domain.Vendor{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestTransaction_Commits(t *testing.T) {
	db := openTest(t)
	err := Transaction(context.Background(), db, func(tx *gorm.DB) error {
		return ForUpdate(tx).Create(&domain.Vendor{LookupEntry: domain.LookupEntry{Name: "HP"}}).Error
	})
	require.NoError(t, err)

	var v domain.Vendor
	require.NoError(t, db.First(&v).Error)
	assert.Equal(t, "HP", v.Name)
}

func TestLedgerRowsAreImmutable(t *testing.T) {
	db := openTest(t)
	row := domain.AssetTransfer{AssetID: 1, NewOwnerFullname: "A", NewCadre: "c", NewDepartment: "d"}
	require.NoError(t, db.Create(&row).Error)

	assert.ErrorIs(t, db.Model(&row).Update("new_owner_fullname", "B").Error, domain.ErrLedgerImmutable)
	assert.ErrorIs(t, db.Delete(&row).Error, domain.ErrLedgerImmutable)
}

func TestQuote(t *testing.T) {
	db := openTest(t)
	assert.Equal(t, "`user`", Quote(db, "user"))
}

func TestPing(t *testing.T) {
	assert.NoError(t, Ping(context.Background(), openTest(t)))
}
