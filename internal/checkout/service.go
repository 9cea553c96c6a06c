package checkout

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/registrapos/registra/internal/catalog"
	"github.com/registrapos/registra/internal/domain"
	"github.com/registrapos/registra/pkg/metrics"
)

// ErrNoItems is returned when a purchase request carries no JAN codes.
var ErrNoItems = errors.New("purchase requires at least one jan code")

// Register identity stamped onto every transaction row.
type RegisterInfo struct {
	StoreCd        string
	PosNo          string
	DefaultCashier string
}

// Receipt is the result of a completed purchase.
type Receipt struct {
	TransactionID int64                       `json:"transaction_id"`
	RefNo         string                      `json:"ref_no"`
	TotalPrice    int                         `json:"total_price"`
	Details       []*domain.TransactionDetail `json:"details"`
}

// Service runs the purchase protocol: open a transaction, append one line
// item per JAN code, finalize the total. The whole sequence executes inside
// a single database transaction so a failure at any step leaves no trace.
type Service struct {
	db       *gorm.DB
	products catalog.ProductRepository
	trdRepo  *GormTransactionRepository
	register RegisterInfo
	refNode  *snowflake.Node
}

// NewService creates a new checkout service.
func NewService(db *gorm.DB, products catalog.ProductRepository, register RegisterInfo, nodeID int64) (*Service, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, errors.Wrap(err, "init receipt number node")
	}
	return &Service{
		db:       db,
		products: products,
		trdRepo:  NewGormTransactionRepository(db),
		register: register,
		refNode:  node,
	}, nil
}

// Purchase resolves every JAN code against the catalog, records the
// transaction with its line items and the recomputed total, and returns the
// receipt. Any unresolved code fails the whole request with
// catalog.ErrProductNotFound and nothing is persisted.
func (s *Service) Purchase(ctx context.Context, janCodes []string, cashierCode string) (*Receipt, error) {
	if len(janCodes) == 0 {
		return nil, ErrNoItems
	}
	if cashierCode == "" {
		cashierCode = s.register.DefaultCashier
	}

	// Resolve codes before touching the write path, a miss is the common
	// failure and should not cost a transaction rollback.
	resolved := make([]*domain.Product, 0, len(janCodes))
	for _, code := range janCodes {
		product, err := s.products.FindByCode(ctx, code)
		if err != nil {
			if errors.Is(err, catalog.ErrProductNotFound) {
				metrics.ProductLookupMisses.Inc()
				return nil, errors.Wrapf(err, "jan code %s", code)
			}
			return nil, err
		}
		resolved = append(resolved, product)
	}

	receipt := &Receipt{RefNo: s.refNode.Generate().String()}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.trdRepo.WithTx(tx)

		trd := &domain.Transaction{
			RefNo:    receipt.RefNo,
			Datetime: time.Now(),
			EmpCd:    cashierCode,
			StoreCd:  s.register.StoreCd,
			PosNo:    s.register.PosNo,
			TotalAmt: 0,
		}
		if err := repo.Create(ctx, trd); err != nil {
			return err
		}

		for i, product := range resolved {
			detail := &domain.TransactionDetail{
				TrdID:    trd.ID,
				DtlID:    i + 1,
				PrdID:    product.ID,
				PrdCode:  product.Code,
				PrdName:  product.Name,
				PrdPrice: product.Price,
			}
			if err := repo.AppendDetail(ctx, detail); err != nil {
				return err
			}
			receipt.Details = append(receipt.Details, detail)
		}

		// Recompute from persisted rows rather than trusting the loop
		// accumulator, the stored rows are the source of truth.
		total, err := repo.SumDetails(ctx, trd.ID)
		if err != nil {
			return err
		}
		if err := repo.UpdateTotal(ctx, trd.ID, total); err != nil {
			return err
		}

		receipt.TransactionID = trd.ID
		receipt.TotalPrice = total
		return nil
	})
	if err != nil {
		zap.L().Error("purchase failed",
			zap.Strings("jan_codes", janCodes),
			zap.String("emp_cd", cashierCode),
			zap.Error(err))
		return nil, err
	}

	metrics.PurchasesTotal.Inc()
	metrics.SaleAmountTotal.Add(float64(receipt.TotalPrice))

	zap.L().Info("purchase completed",
		zap.Int64("trd_id", receipt.TransactionID),
		zap.String("ref_no", receipt.RefNo),
		zap.Int("items", len(receipt.Details)),
		zap.Int("total", receipt.TotalPrice))
	return receipt, nil
}

// FinalizeTotal recomputes a transaction's total from its persisted line
// items and writes it back. Running it twice is harmless, the recomputed
// value does not change. Kept as a standalone operation for the two-step
// register flow and for the reconciliation job.
func (s *Service) FinalizeTotal(ctx context.Context, trdID int64) (int, error) {
	if _, err := s.trdRepo.GetByID(ctx, trdID); err != nil {
		return 0, err
	}
	total, err := s.trdRepo.SumDetails(ctx, trdID)
	if err != nil {
		return 0, err
	}
	if err := s.trdRepo.UpdateTotal(ctx, trdID, total); err != nil {
		return 0, err
	}
	return total, nil
}

// GetReceipt reads back a transaction with its line items.
func (s *Service) GetReceipt(ctx context.Context, trdID int64) (*domain.Transaction, []*domain.TransactionDetail, error) {
	trd, err := s.trdRepo.GetByID(ctx, trdID)
	if err != nil {
		return nil, nil, err
	}
	details, err := s.trdRepo.ListDetails(ctx, trdID)
	if err != nil {
		return nil, nil, err
	}
	return trd, details, nil
}

// ListRecent returns the newest transactions, most recent first.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]*domain.Transaction, error) {
	return s.trdRepo.ListRecent(ctx, limit)
}

// Reconcile scans recent transactions and repairs any whose stored total has
// diverged from the sum of its line items. Returns the number repaired.
func (s *Service) Reconcile(ctx context.Context, limit int) (int, error) {
	rows, err := s.trdRepo.ListRecent(ctx, limit)
	if err != nil {
		return 0, err
	}
	repaired := 0
	for _, trd := range rows {
		total, err := s.trdRepo.SumDetails(ctx, trd.ID)
		if err != nil {
			return repaired, err
		}
		if total == trd.TotalAmt {
			continue
		}
		zap.L().Warn("transaction total mismatch",
			zap.Int64("trd_id", trd.ID),
			zap.Int("stored", trd.TotalAmt),
			zap.Int("computed", total))
		if err := s.trdRepo.UpdateTotal(ctx, trd.ID, total); err != nil {
			return repaired, err
		}
		repaired++
	}
	if repaired > 0 {
		metrics.ReconcileRepairs.Add(float64(repaired))
	}
	return repaired, nil
}
