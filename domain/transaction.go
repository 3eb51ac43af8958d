package domain

import "github.com/shopspring/decimal"

// TransactionEntry is one sale or return event. Entries reference the
// medicine by name only; there is no key back into the inventory.
type TransactionEntry struct {
	Date     string          `json:"date"`
	Medicine string          `json:"medicine"`
	Quantity int64           `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"`
}
