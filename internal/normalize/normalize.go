package normalize

import (
	"fmt"
	"strings"

	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/shopspring/decimal"
)

// Input is one of ProductInput, PayloadInput or StoredLineInput.
type Input interface {
	isInput()
}

// ProductInput is a catalog product offered to the cart as is.
// Its price fields become the line's price snapshot.
type ProductInput struct {
	ID          domain.ItemRef
	Price       decimal.Decimal
	RentalPrice decimal.Decimal

	Quantity     int
	Purchase     *bool
	RentalPeriod *domain.RentalPeriod
}

// PayloadInput is already shaped like the remote add payload.
type PayloadInput struct {
	ItemRef       domain.ItemRef
	Quantity      int
	Purchase      *bool
	RentalPeriod  *domain.RentalPeriod
	PriceSnapshot *domain.PriceSnapshot
}

// StoredLineInput is a line read back from the guest cart store.
type StoredLineInput struct {
	Line domain.CartLine
}

func (ProductInput) isInput()    {}
func (PayloadInput) isInput()    {}
func (StoredLineInput) isInput() {}

// Normalize converts any accepted input into a canonical cart line.
// Zero quantity means 1, nil purchase means true.
func Normalize(in Input) (domain.CartLine, error) {
	switch v := in.(type) {
	case ProductInput:
		snapshot := &domain.PriceSnapshot{Price: v.Price, RentalPrice: v.RentalPrice}
		return build(v.ID, v.Quantity, v.Purchase, v.RentalPeriod, snapshot)
	case *ProductInput:
		if v == nil {
			return domain.CartLine{}, domain.NewValidationError("input", "is nil")
		}
		return Normalize(*v)
	case PayloadInput:
		return build(v.ItemRef, v.Quantity, v.Purchase, v.RentalPeriod, v.PriceSnapshot)
	case *PayloadInput:
		if v == nil {
			return domain.CartLine{}, domain.NewValidationError("input", "is nil")
		}
		return Normalize(*v)
	case StoredLineInput:
		if IsCanonical(v.Line) {
			return v.Line, nil
		}
		purchase := v.Line.Purchase
		line, err := build(v.Line.ItemRef, v.Line.Quantity, &purchase, v.Line.RentalPeriod, v.Line.PriceSnapshot)
		if err != nil {
			return domain.CartLine{}, err
		}
		line.ResolvedItem = v.Line.ResolvedItem
		line.AddedAt = v.Line.AddedAt
		return line, nil
	case *StoredLineInput:
		if v == nil {
			return domain.CartLine{}, domain.NewValidationError("input", "is nil")
		}
		return Normalize(*v)
	case nil:
		return domain.CartLine{}, domain.NewValidationError("input", "is nil")
	default:
		return domain.CartLine{}, domain.NewValidationError("input", fmt.Sprintf("unsupported shape %T", in))
	}
}

// IsCanonical reports whether the line already satisfies every cart line invariant.
func IsCanonical(line domain.CartLine) bool {
	if line.ItemRef == "" || strings.TrimSpace(string(line.ItemRef)) != string(line.ItemRef) {
		return false
	}
	if line.Quantity < 1 {
		return false
	}
	if line.Purchase && line.RentalPeriod != nil {
		return false
	}
	if !line.Purchase && (line.RentalPeriod == nil || line.RentalPeriod.Days < 1) {
		return false
	}
	if s := line.PriceSnapshot; s != nil && (s.Price.IsNegative() || s.RentalPrice.IsNegative()) {
		return false
	}
	return true
}

// ToPayload builds the add payload the remote cart service expects for a line.
func ToPayload(line domain.CartLine) domain.AddPayload {
	payload := domain.AddPayload{
		Item:     line.ItemRef,
		Quantity: line.Quantity,
		Purchase: line.Purchase,
	}
	if !line.Purchase {
		payload.RentalPeriod = &domain.RentalPeriod{Days: line.Days()}
	}
	return payload
}

func build(ref domain.ItemRef, quantity int, purchase *bool, period *domain.RentalPeriod, snapshot *domain.PriceSnapshot) (domain.CartLine, error) {
	ref = domain.ItemRef(strings.TrimSpace(string(ref)))
	if ref == "" {
		return domain.CartLine{}, domain.NewValidationError("itemRef", "is empty")
	}

	if quantity < 0 {
		return domain.CartLine{}, domain.NewValidationError("quantity", "must be a positive integer")
	}
	if quantity == 0 {
		quantity = 1
	}

	line := domain.CartLine{
		ItemRef:  ref,
		Quantity: quantity,
		Purchase: purchase == nil || *purchase,
	}

	if !line.Purchase {
		days := 1
		if period != nil {
			if period.Days < 0 {
				return domain.CartLine{}, domain.NewValidationError("rentalPeriod.days", "must be at least 1")
			}
			if period.Days > 0 {
				days = period.Days
			}
		}
		line.RentalPeriod = &domain.RentalPeriod{Days: days}
	}

	if snapshot != nil {
		if snapshot.Price.IsNegative() || snapshot.RentalPrice.IsNegative() {
			return domain.CartLine{}, domain.NewValidationError("priceSnapshot", "must not be negative")
		}
		s := *snapshot
		line.PriceSnapshot = &s
	}

	return line, nil
}
