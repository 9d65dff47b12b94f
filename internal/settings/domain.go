package settings

import "github.com/shopledger/shopledger/internal/money"

// Settings is the single per-store configuration record. StoreID is
// generated once on first start and stamped into exported snapshots.
type Settings struct {
	StoreID        string           `db:"store_id" json:"storeId"`
	DisplayName    string           `db:"display_name" json:"displayName"`
	CurrencySymbol string           `db:"currency_symbol" json:"currencySymbol"`
	CurrencyCode   string           `db:"currency_code" json:"currencyCode"`
	LabelStyle     money.LabelStyle `db:"label_style" json:"labelStyle"`
}

// Formatter builds a money formatter from the stored currency fields.
func (s Settings) Formatter() *money.Formatter {
	return money.NewFormatter(s.CurrencySymbol, s.CurrencyCode, s.LabelStyle)
}
