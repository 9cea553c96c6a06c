package checkout

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/registrapos/registra/internal/domain"
)

// ErrTransactionNotFound is returned when no transaction exists for an id.
var ErrTransactionNotFound = errors.New("transaction not found")

// TransactionRepository handles database operations for transactions and
// their line items. Every method takes effect on the *gorm.DB it was built
// with, so the same implementation serves both a pooled handle and a
// statement inside db.Transaction.
type TransactionRepository interface {
	// Create inserts a new transaction row; the store assigns the id
	Create(ctx context.Context, trd *domain.Transaction) error

	// AppendDetail inserts one line item at the given 1-based position
	AppendDetail(ctx context.Context, detail *domain.TransactionDetail) error

	// GetByID retrieves a transaction by id
	GetByID(ctx context.Context, id int64) (*domain.Transaction, error)

	// ListDetails retrieves all line items of a transaction in position order
	ListDetails(ctx context.Context, trdID int64) ([]*domain.TransactionDetail, error)

	// SumDetails recomputes the total from persisted line items
	SumDetails(ctx context.Context, trdID int64) (int, error)

	// UpdateTotal persists the total onto the transaction row
	UpdateTotal(ctx context.Context, trdID int64, total int) error

	// ListRecent retrieves the newest transactions, most recent first
	ListRecent(ctx context.Context, limit int) ([]*domain.Transaction, error)
}

// GormTransactionRepository is the GORM implementation of TransactionRepository
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GORM-based repository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *GormTransactionRepository) WithTx(tx *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: tx}
}

func (r *GormTransactionRepository) Create(ctx context.Context, trd *domain.Transaction) error {
	if err := r.db.WithContext(ctx).Create(trd).Error; err != nil {
		return errors.Wrap(err, "insert transaction")
	}
	return nil
}

func (r *GormTransactionRepository) AppendDetail(ctx context.Context, detail *domain.TransactionDetail) error {
	if err := r.db.WithContext(ctx).Create(detail).Error; err != nil {
		return errors.Wrap(err, "insert transaction detail")
	}
	return nil
}

func (r *GormTransactionRepository) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	var trd domain.Transaction
	err := r.db.WithContext(ctx).Where("trd_id = ?", id).First(&trd).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrTransactionNotFound
	case err != nil:
		return nil, errors.Wrap(err, "query transaction")
	}
	return &trd, nil
}

func (r *GormTransactionRepository) ListDetails(ctx context.Context, trdID int64) ([]*domain.TransactionDetail, error) {
	var details []*domain.TransactionDetail
	err := r.db.WithContext(ctx).
		Where("trd_id = ?", trdID).
		Order("dtl_id ASC").
		Find(&details).Error
	if err != nil {
		return nil, errors.Wrap(err, "query transaction details")
	}
	return details, nil
}

func (r *GormTransactionRepository) SumDetails(ctx context.Context, trdID int64) (int, error) {
	// COALESCE keeps the zero-detail case at 0 instead of NULL
	var total int
	err := r.db.WithContext(ctx).
		Model(&domain.TransactionDetail{}).
		Where("trd_id = ?", trdID).
		Select("COALESCE(SUM(prd_price), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, errors.Wrap(err, "sum transaction details")
	}
	return total, nil
}

func (r *GormTransactionRepository) UpdateTotal(ctx context.Context, trdID int64, total int) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Where("trd_id = ?", trdID).
		Update("total_amt", total)
	if res.Error != nil {
		return errors.Wrap(res.Error, "update transaction total")
	}
	if res.RowsAffected == 0 {
		// MySQL also reports zero rows when the stored value is unchanged,
		// so a repeated finalize with the same total is not a failure.
		var count int64
		if err := r.db.WithContext(ctx).Model(&domain.Transaction{}).
			Where("trd_id = ?", trdID).Count(&count).Error; err != nil {
			return errors.Wrap(err, "verify transaction exists")
		}
		if count == 0 {
			return ErrTransactionNotFound
		}
	}
	return nil
}

func (r *GormTransactionRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Transaction, error) {
	var rows []*domain.Transaction
	err := r.db.WithContext(ctx).
		Order("trd_id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "query recent transactions")
	}
	return rows, nil
}
