// Package fees quotes the charges applicable to an application. The
// calculator is a pure function over the effective fee schedule; it is
// recomputed on every type or category change and keeps no state.
package fees

import (
	"github.com/shopspring/decimal"

	"licentia/pkg/domain"
)

// FeeStructure is one entry of the effective fee schedule. Empty
// ApplicationTypes or Categories means "applies to all".
type FeeStructure struct {
	ID               string                   `json:"id"`
	Label            string                   `json:"label"`
	Amount           decimal.Decimal          `json:"amount"`
	ApplicationTypes []domain.ApplicationType `json:"application_types"`
	Categories       []domain.LicenseCategory `json:"categories"`
}

// LineItem is one charged fee on a quote.
type LineItem struct {
	FeeID  string          `json:"fee_id"`
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// Quote is the set of applicable fees and their total.
type Quote struct {
	Items []LineItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// Empty reports whether no fee applied.
func (q Quote) Empty() bool { return len(q.Items) == 0 }
