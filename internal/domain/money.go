package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

// Item is the catalog record the remote cart service resolves a line to.
type Item struct {
	Ref         ItemRef
	Name        string
	Price       Money
	RentalPrice Money
}
