package expenses

// Expense represents one standalone cost entry, unrelated to any product.
type Expense struct {
	ID        int64   `db:"id" json:"id"`
	Title     string  `db:"title" json:"title"`
	Amount    float64 `db:"amount" json:"amount"`
	Category  string  `db:"category" json:"category"`
	Note      string  `db:"note" json:"note"`
	CreatedAt string  `db:"created_at" json:"createdAt"`
}
