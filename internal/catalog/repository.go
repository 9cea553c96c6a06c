package catalog

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/registrapos/registra/internal/domain"
)

// ErrProductNotFound is returned when a JAN code has no catalog match.
// A miss is a normal outcome, callers must not treat it as a store fault.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository interface for product master data access
type ProductRepository interface {
	// FindByCode retrieves a product by its JAN code (exact match)
	FindByCode(ctx context.Context, code string) (*domain.Product, error)

	// GetByID retrieves a product by primary key
	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// Count returns the number of products in the master
	Count(ctx context.Context) (int64, error)
}

// GormProductRepository is the GORM implementation of ProductRepository
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GORM-based repository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) FindByCode(ctx context.Context, code string) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&product).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrProductNotFound
	case err != nil:
		return nil, errors.Wrap(err, "query product by code")
	}
	return &product, nil
}

func (r *GormProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).First(&product, id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrProductNotFound
	case err != nil:
		return nil, errors.Wrap(err, "query product by id")
	}
	return &product, nil
}

func (r *GormProductRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Product{}).Count(&total).Error; err != nil {
		return 0, errors.Wrap(err, "count products")
	}
	return total, nil
}
