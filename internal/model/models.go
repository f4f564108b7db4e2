package model

// All lists every persisted entity in migration order.
func All() []interface{} {
	return []interface{}{
		&Client{},
		&Product{},
		&ClientProductPrice{},
		&Sale{},
		&SaleItem{},
		&Invoice{},
		&InvoiceItem{},
	}
}
