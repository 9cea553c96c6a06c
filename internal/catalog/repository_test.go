package catalog

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/registrapos/registra/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

func seedProducts(t *testing.T, db *gorm.DB) {
	t.Helper()
	products := []domain.Product{
		{Code: "4912345678901", Name: "おーいお茶", Price: 150},
		{Code: "4912345678902", Name: "カップヌードル", Price: 250},
	}
	for i := range products {
		require.NoError(t, db.Create(&products[i]).Error)
	}
}

func TestFindByCode(t *testing.T) {
	db := newTestDB(t)
	seedProducts(t, db)
	repo := NewGormProductRepository(db)

	product, err := repo.FindByCode(context.Background(), "4912345678901")
	require.NoError(t, err)
	assert.Equal(t, "4912345678901", product.Code)
	assert.Equal(t, "おーいお茶", product.Name)
	assert.Equal(t, 150, product.Price)
}

func TestFindByCodeNotFound(t *testing.T) {
	db := newTestDB(t)
	seedProducts(t, db)
	repo := NewGormProductRepository(db)

	product, err := repo.FindByCode(context.Background(), "0000000000000")
	assert.Nil(t, product)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestFindByCodeExactMatch(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	require.NoError(t, db.Create(&domain.Product{Code: "ABC123", Name: "sample", Price: 100}).Error)

	// no normalization: only the exact string matches
	_, err := repo.FindByCode(context.Background(), "abc123")
	assert.ErrorIs(t, err, ErrProductNotFound)

	product, err := repo.FindByCode(context.Background(), "ABC123")
	require.NoError(t, err)
	assert.Equal(t, "ABC123", product.Code)
}

func TestGetByID(t *testing.T) {
	db := newTestDB(t)
	seedProducts(t, db)
	repo := NewGormProductRepository(db)

	product, err := repo.FindByCode(context.Background(), "4912345678902")
	require.NoError(t, err)

	byID, err := repo.GetByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.Code, byID.Code)

	_, err = repo.GetByID(context.Background(), 99999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}
