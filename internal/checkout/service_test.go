package checkout

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/registrapos/registra/internal/catalog"
	"github.com/registrapos/registra/internal/domain"
)

var testRegister = RegisterInfo{
	StoreCd:        "30",
	PosNo:          "90",
	DefaultCashier: "9999999999",
}

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

	products := []domain.Product{
		{Code: "4912345678901", Name: "おーいお茶", Price: 150},
		{Code: "4912345678902", Name: "カップヌードル", Price: 250},
		{Code: "4912345678903", Name: "ポテトチップス", Price: 180},
	}
	for i := range products {
		require.NoError(t, db.Create(&products[i]).Error)
	}
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc, err := NewService(db, catalog.NewGormProductRepository(db), testRegister, 1)
	require.NoError(t, err)
	return svc, db
}

func TestPurchase(t *testing.T) {
	svc, db := newTestService(t)

	receipt, err := svc.Purchase(context.Background(), []string{"4912345678901", "4912345678902"}, "")
	require.NoError(t, err)

	assert.Equal(t, 400, receipt.TotalPrice)
	assert.NotEmpty(t, receipt.RefNo)
	require.Len(t, receipt.Details, 2)

	// line items keep input order with 1-based positions
	assert.Equal(t, 1, receipt.Details[0].DtlID)
	assert.Equal(t, "4912345678901", receipt.Details[0].PrdCode)
	assert.Equal(t, 150, receipt.Details[0].PrdPrice)
	assert.Equal(t, 2, receipt.Details[1].DtlID)
	assert.Equal(t, "4912345678902", receipt.Details[1].PrdCode)
	assert.Equal(t, 250, receipt.Details[1].PrdPrice)

	var trd domain.Transaction
	require.NoError(t, db.First(&trd, receipt.TransactionID).Error)
	assert.Equal(t, 400, trd.TotalAmt)
	assert.Equal(t, "9999999999", trd.EmpCd) // default cashier applied
	assert.Equal(t, "30", trd.StoreCd)
	assert.Equal(t, "90", trd.PosNo)
	assert.False(t, trd.Datetime.IsZero())
}

func TestPurchaseCashierCode(t *testing.T) {
	svc, db := newTestService(t)

	receipt, err := svc.Purchase(context.Background(), []string{"4912345678903"}, "1234567890")
	require.NoError(t, err)

	var trd domain.Transaction
	require.NoError(t, db.First(&trd, receipt.TransactionID).Error)
	assert.Equal(t, "1234567890", trd.EmpCd)
}

func TestPurchaseSequentialIDs(t *testing.T) {
	svc, _ := newTestService(t)

	var last int64
	for i := 0; i < 5; i++ {
		receipt, err := svc.Purchase(context.Background(), []string{"4912345678901"}, "")
		require.NoError(t, err)
		assert.Greater(t, receipt.TransactionID, last)
		last = receipt.TransactionID
	}
}

func TestPurchaseUnknownCodeLeavesNoTrace(t *testing.T) {
	svc, db := newTestService(t)

	_, err := svc.Purchase(context.Background(), []string{"4912345678901", "0000000000000"}, "")
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	assert.Contains(t, err.Error(), "0000000000000")

	// the whole request fails, nothing is persisted
	var trdCount, dtlCount int64
	require.NoError(t, db.Model(&domain.Transaction{}).Count(&trdCount).Error)
	require.NoError(t, db.Model(&domain.TransactionDetail{}).Count(&dtlCount).Error)
	assert.Zero(t, trdCount)
	assert.Zero(t, dtlCount)
}

func TestPurchaseNoItems(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Purchase(context.Background(), nil, "")
	assert.ErrorIs(t, err, ErrNoItems)
}

func TestPurchaseSnapshotSurvivesCatalogChange(t *testing.T) {
	svc, db := newTestService(t)

	receipt, err := svc.Purchase(context.Background(), []string{"4912345678901"}, "")
	require.NoError(t, err)

	// a later catalog price change must not rewrite history
	require.NoError(t, db.Model(&domain.Product{}).
		Where("code = ?", "4912345678901").
		Update("price", 999).Error)

	_, details, err := svc.GetReceipt(context.Background(), receipt.TransactionID)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, 150, details[0].PrdPrice)
	assert.Equal(t, "おーいお茶", details[0].PrdName)
}

func TestFinalizeTotalIdempotent(t *testing.T) {
	svc, db := newTestService(t)

	receipt, err := svc.Purchase(context.Background(), []string{"4912345678901", "4912345678902"}, "")
	require.NoError(t, err)

	first, err := svc.FinalizeTotal(context.Background(), receipt.TransactionID)
	require.NoError(t, err)
	second, err := svc.FinalizeTotal(context.Background(), receipt.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 400, second)

	var trd domain.Transaction
	require.NoError(t, db.First(&trd, receipt.TransactionID).Error)
	assert.Equal(t, 400, trd.TotalAmt)
}

func TestFinalizeTotalNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.FinalizeTotal(context.Background(), 424242)
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestGetReceiptNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	_, _, err := svc.GetReceipt(context.Background(), 424242)
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestReconcileRepairsDriftedTotal(t *testing.T) {
	svc, db := newTestService(t)

	receipt, err := svc.Purchase(context.Background(), []string{"4912345678901", "4912345678902"}, "")
	require.NoError(t, err)

	// simulate a half-finalized transaction left by an older register build
	require.NoError(t, db.Model(&domain.Transaction{}).
		Where("trd_id = ?", receipt.TransactionID).
		Update("total_amt", 0).Error)

	repaired, err := svc.Reconcile(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, 1, repaired)

	var trd domain.Transaction
	require.NoError(t, db.First(&trd, receipt.TransactionID).Error)
	assert.Equal(t, 400, trd.TotalAmt)

	// a clean second pass repairs nothing
	repaired, err = svc.Reconcile(context.Background(), 100)
	require.NoError(t, err)
	assert.Zero(t, repaired)
}
