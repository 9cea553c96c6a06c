package domain

var Tables = []interface{}{
	// Catalog
	&Product{},
	// Checkout
	&Transaction{},
	&TransactionDetail{},
}
