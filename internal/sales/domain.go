package sales

// Sale represents one completed sale event. Code is a soft reference to
// a product's natural key; a sale may outlive the referenced product and
// is never cascade-deleted. Profit is a snapshot computed at sale time
// and never recomputed when the product's costs later change.
type Sale struct {
	ID           int64   `db:"id" json:"id"`
	Code         string  `db:"code" json:"code"`
	SellingPrice float64 `db:"selling_price" json:"sellingPrice"`
	Profit       float64 `db:"profit" json:"profit"`
	SoldAt       string  `db:"sold_at" json:"soldAt"`
}

// ProductCosts carries the cost fields read at the moment of sale.
type ProductCosts struct {
	PurchasePrice float64 `db:"purchase_price"`
	ShippingCost  float64 `db:"shipping_cost"`
}
