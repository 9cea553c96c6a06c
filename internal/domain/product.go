package domain

import "time"

// Product is one row of the product master. The catalog is read-only from
// this system's point of view, rows come from the master CSV import.
type Product struct {
	ID        int64     `gorm:"column:prd_id;primaryKey;autoIncrement" json:"id"`
	Code      string    `gorm:"column:code;size:13;uniqueIndex" json:"code"` // JAN code
	Name      string    `gorm:"column:name;size:50" json:"name"`
	Price     int       `gorm:"column:price" json:"price"` // unit price in yen
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "m_product"
}
