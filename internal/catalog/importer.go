package catalog

import (
	"io"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/registrapos/registra/internal/domain"
)

// productRecord is one row of the product master CSV (code,name,price header).
type productRecord struct {
	Code  string `csv:"code"`
	Name  string `csv:"name"`
	Price int    `csv:"price"`
}

// ImportMaster loads the product master from a CSV stream. Existing codes are
// left untouched so a re-import never rewrites prices under a running
// register; new codes are inserted.
func ImportMaster(db *gorm.DB, r io.Reader) (int, error) {
	var records []*productRecord
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return 0, errors.Wrap(err, "parse product master csv")
	}

	imported := 0
	for _, rec := range records {
		if rec.Code == "" {
			continue
		}
		var count int64
		if err := db.Model(&domain.Product{}).Where("code = ?", rec.Code).Count(&count).Error; err != nil {
			return imported, errors.Wrap(err, "check product code")
		}
		if count > 0 {
			continue
		}
		now := time.Now()
		p := domain.Product{
			Code:      rec.Code,
			Name:      rec.Name,
			Price:     rec.Price,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := db.Create(&p).Error; err != nil {
			zap.L().Error("failed to import product",
				zap.String("code", rec.Code),
				zap.Error(err))
			return imported, errors.Wrap(err, "insert product")
		}
		imported++
	}

	zap.L().Info("product master import finished",
		zap.Int("rows", len(records)),
		zap.Int("imported", imported))
	return imported, nil
}
