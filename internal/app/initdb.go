package app

import (
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/registrapos/registra/internal/catalog"
	"github.com/registrapos/registra/internal/domain"
)

// checkDemoProducts seeds a handful of catalog rows so a fresh install can
// answer lookups before the first master import runs.
func (a *Application) checkDemoProducts() {
	defaultProducts := []domain.Product{
		{Code: "4912345678901", Name: "おーいお茶", Price: 150},
		{Code: "4912345678902", Name: "カップヌードル", Price: 250},
		{Code: "4912345678903", Name: "ポテトチップス", Price: 180},
		{Code: "4912345678904", Name: "ボールペン(黒)", Price: 120},
	}

	for _, p := range defaultProducts {
		var count int64
		a.gormDB.Model(&domain.Product{}).Where("code = ?", p.Code).Count(&count)
		if count == 0 {
			p.CreatedAt = time.Now()
			p.UpdatedAt = time.Now()
			if err := a.gormDB.Create(&p).Error; err != nil {
				zap.L().Error("failed to create default product", zap.String("code", p.Code), zap.Error(err))
			} else {
				zap.L().Info("initialized default product", zap.String("code", p.Code), zap.String("name", p.Name))
			}
		}
	}
}

// ImportProductMaster loads the product master CSV from the given path.
func (a *Application) ImportProductMaster(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = catalog.ImportMaster(a.gormDB, f)
	return err
}
