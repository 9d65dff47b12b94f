package inventory

import "strings"

// Product represents one inventory item. Code is the caller-assigned
// natural key used for barcode lookup and as the join key to sales;
// ID is the store-assigned identity.
type Product struct {
	ID            int64    `json:"id"`
	Code          string   `json:"code"`
	Title         string   `json:"title"`
	Category      string   `json:"category"`
	Size          string   `json:"size"`
	Color         string   `json:"color"`
	PurchasePrice float64  `json:"purchasePrice"`
	ShippingCost  float64  `json:"shippingCost"`
	ListPrice     float64  `json:"listPrice"`
	Notes         string   `json:"notes"`
	Tags          []string `json:"tags"`
	Photo         []byte   `json:"photo,omitempty"`
	CreatedAt     string   `json:"createdAt"`
	UpdatedAt     string   `json:"updatedAt"`
}

// Status classifies a product by the existence of sales for its code.
// There is no stored flag; the status is derived at query time.
type Status string

const (
	// StatusAvailable selects products with no recorded sale.
	StatusAvailable Status = "available"
	// StatusSold selects products with at least one recorded sale.
	StatusSold Status = "sold"
	// StatusAll bypasses the status filter.
	StatusAll Status = "all"
)

// ListFilter restricts a product listing. Empty fields match everything.
type ListFilter struct {
	Search   string
	Status   Status
	Category string
	Tag      string
}

const tagSeparator = "|"

// EncodeTags serialises a tag set for storage and CSV interchange.
func EncodeTags(tags []string) string {
	return strings.Join(tags, tagSeparator)
}

// DecodeTags parses a |-joined tag string, dropping empty entries.
func DecodeTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, tagSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// HasTag reports tag membership in the product's tag set.
func (p Product) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
