package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ItemRef string

type RentalPeriod struct {
	Days int `json:"days"`
}

// PriceSnapshot is captured on guest lines at add time so totals need no catalog lookup.
type PriceSnapshot struct {
	Price       decimal.Decimal `json:"price"`
	RentalPrice decimal.Decimal `json:"rentalPrice"`
}

type Cart struct {
	OwnerID string
	Items   []CartLine
}

type CartLine struct {
	ItemRef      ItemRef
	Quantity     int
	Purchase     bool
	RentalPeriod *RentalPeriod

	// guest lines only
	PriceSnapshot *PriceSnapshot
	// authenticated lines only
	ResolvedItem *Item

	AddedAt time.Time
}

// Days is the rental length of the line, at least 1.
func (l CartLine) Days() int {
	if l.RentalPeriod == nil || l.RentalPeriod.Days < 1 {
		return 1
	}
	return l.RentalPeriod.Days
}

func (c Cart) Line(ref ItemRef) (CartLine, bool) {
	for _, line := range c.Items {
		if line.ItemRef == ref {
			return line, true
		}
	}
	return CartLine{}, false
}
