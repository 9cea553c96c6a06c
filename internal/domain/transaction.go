package domain

import "time"

// Transaction is one purchase event. The primary key trd_id is assigned by
// the store's auto increment, which keeps ids unique under concurrent
// registers. TotalAmt starts at zero and is written by the finalize step.
type Transaction struct {
	ID       int64     `gorm:"column:trd_id;primaryKey;autoIncrement" json:"transaction_id"`
	RefNo    string    `gorm:"column:ref_no;size:20;index" json:"ref_no"` // receipt reference number
	Datetime time.Time `gorm:"column:datetime" json:"datetime"`
	EmpCd    string    `gorm:"column:emp_cd;size:10" json:"emp_cd"`     // cashier code
	StoreCd  string    `gorm:"column:store_cd;size:5" json:"store_cd"`  // store code
	PosNo    string    `gorm:"column:pos_no;size:3" json:"pos_no"`      // register/terminal number
	TotalAmt int       `gorm:"column:total_amt" json:"total_amt"`
}

// TableName Specify table name
func (Transaction) TableName() string {
	return "t_transaction"
}

// TransactionDetail is one line item of a transaction. Product fields are a
// denormalized snapshot taken at time of sale, not a live reference, so later
// catalog changes never rewrite history.
type TransactionDetail struct {
	TrdID    int64  `gorm:"column:trd_id;primaryKey;autoIncrement:false;uniqueIndex:uix_trd_dtl" json:"transaction_id"`
	DtlID    int    `gorm:"column:dtl_id;primaryKey;autoIncrement:false;uniqueIndex:uix_trd_dtl" json:"detail_id"` // 1-based position
	PrdID    int64  `gorm:"column:prd_id" json:"product_id"`
	PrdCode  string `gorm:"column:prd_code;size:13" json:"product_code"`
	PrdName  string `gorm:"column:prd_name;size:50" json:"product_name"`
	PrdPrice int    `gorm:"column:prd_price" json:"product_price"`
}

// TableName Specify table name
func (TransactionDetail) TableName() string {
	return "t_transaction_detail"
}
