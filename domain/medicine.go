package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the textual date format used throughout the ledger,
// e.g. "2026, 08, 31".
const DateLayout = "2006, 01, 02"

// Kind enumerates the stocked medicine forms.
type Kind int64

const (
	KindSyrup Kind = iota
	KindTablet
)

func (k Kind) String() string {
	if k == KindTablet {
		return "Tablet"
	}
	return "Syrup"
}

// Unit is the display label for one quantity of this kind.
func (k Kind) Unit() string {
	if k == KindTablet {
		return "strip"
	}
	return "bottle"
}

func (k Kind) Valid() bool {
	return k == KindSyrup || k == KindTablet
}

// Medicine is one stock line of the inventory.
type Medicine struct {
	ID                int64           `db:"id" json:"id"`
	Name              string          `db:"name" json:"name"`
	Brand             string          `db:"brand" json:"brand"`
	ManufacturingDate string          `db:"manufacturing_date" json:"manufacturing_date"`
	ExpiryDate        string          `db:"expiry_date" json:"expiry_date"`
	Kind              Kind            `db:"kind" json:"kind"`
	Quantity          int64           `db:"quantity" json:"quantity"`
	UnitPrice         decimal.Decimal `db:"unit_price" json:"unit_price"`
	Amount            decimal.Decimal `db:"amount" json:"amount"`
}

// NewMedicine builds a stock line with its amount derived from quantity and
// unit price.
func NewMedicine(id int64, name, brand, manDate, expDate string, kind Kind, quantity int64, unitPrice decimal.Decimal) Medicine {
	return Medicine{
		ID:                id,
		Name:              name,
		Brand:             brand,
		ManufacturingDate: manDate,
		ExpiryDate:        expDate,
		Kind:              kind,
		Quantity:          quantity,
		UnitPrice:         unitPrice,
		Amount:            unitPrice.Mul(decimal.NewFromInt(quantity)),
	}
}

// SetQuantity changes the on-hand quantity and keeps the derived amount
// consistent with it. Every quantity mutation must go through here.
func (m *Medicine) SetQuantity(quantity int64) {
	m.Quantity = quantity
	m.Amount = m.UnitPrice.Mul(decimal.NewFromInt(quantity))
}

// ParseDate parses a ledger date string such as "2026, 08, 31".
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// Today is the current calendar date at UTC midnight, comparable with
// ParseDate results.
func Today() time.Time {
	year, month, day := time.Now().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
