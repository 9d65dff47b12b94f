package interchange

import (
	"github.com/shopledger/shopledger/internal/expenses"
	"github.com/shopledger/shopledger/internal/inventory"
	"github.com/shopledger/shopledger/internal/sales"
)

// SnapshotVersion identifies the snapshot layout emitted by this build.
const SnapshotVersion = 1

// Snapshot is the full-store JSON backup payload. Products and sales
// are required on import; expenses stayed optional for snapshots taken
// before the expense ledger existed.
type Snapshot struct {
	Products   []inventory.Product `json:"products"`
	Sales      []sales.Sale        `json:"sales"`
	Expenses   []expenses.Expense  `json:"expenses"`
	ExportedAt string              `json:"exportedAt"`
	StoreID    string              `json:"storeId"`
	Version    int                 `json:"version"`
}

// ImportReport counts what a bulk import actually landed. Skipped
// covers records the best-effort JSON path dropped, duplicates included.
type ImportReport struct {
	Products int `json:"products"`
	Sales    int `json:"sales"`
	Expenses int `json:"expenses"`
	Skipped  int `json:"skipped"`
}
