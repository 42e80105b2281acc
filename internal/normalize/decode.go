package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/shopspring/decimal"
)

// flexRef accepts identifiers stored either as JSON strings or numbers.
type flexRef string

func (f *flexRef) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexRef(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("identifier must be a string or a number: %w", err)
	}
	*f = flexRef(n.String())

	return nil
}

type rawProduct struct {
	ID          *flexRef            `json:"id"`
	MongoID     *flexRef            `json:"_id"`
	Price       decimal.NullDecimal `json:"price"`
	RentalPrice decimal.NullDecimal `json:"rentalPrice"`
}

type rawLine struct {
	ItemRef *flexRef        `json:"itemRef"`
	ItemID  *flexRef        `json:"itemId"`
	Item    json.RawMessage `json:"item"`

	Quantity      *int                  `json:"quantity"`
	Purchase      *bool                 `json:"purchase"`
	RentalPeriod  *domain.RentalPeriod  `json:"rentalPeriod"`
	PriceSnapshot *domain.PriceSnapshot `json:"priceSnapshot"`

	rawProduct
}

// Decode classifies one JSON line of any shape the cart has ever stored.
// The result still has to go through Normalize.
func Decode(raw []byte) (Input, error) {
	var r rawLine
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	quantity := 0
	if r.Quantity != nil {
		quantity = *r.Quantity
	}

	// canonical guest line as written by the guest store
	if r.ItemRef != nil && r.Quantity != nil && r.Purchase != nil && r.PriceSnapshot != nil {
		return StoredLineInput{Line: domain.CartLine{
			ItemRef:       domain.ItemRef(*r.ItemRef),
			Quantity:      quantity,
			Purchase:      *r.Purchase,
			RentalPeriod:  r.RentalPeriod,
			PriceSnapshot: r.PriceSnapshot,
		}}, nil
	}

	payload := PayloadInput{
		Quantity:      quantity,
		Purchase:      r.Purchase,
		RentalPeriod:  r.RentalPeriod,
		PriceSnapshot: r.snapshot(),
	}

	switch {
	case r.ItemRef != nil:
		payload.ItemRef = domain.ItemRef(*r.ItemRef)
		return payload, nil
	case r.ItemID != nil:
		payload.ItemRef = domain.ItemRef(*r.ItemID)
		return payload, nil
	}

	item := bytes.TrimSpace(r.Item)
	if len(item) > 0 && !bytes.Equal(item, []byte("null")) {
		// populated line: "item" is the product record itself
		if item[0] == '{' {
			var p rawProduct
			if err := json.Unmarshal(item, &p); err != nil {
				return nil, fmt.Errorf("json.Unmarshal item: %w", err)
			}
			if id := p.id(); id != "" {
				return p.input(id, quantity, r.Purchase, r.RentalPeriod), nil
			}
		} else {
			var ref flexRef
			if err := json.Unmarshal(item, &ref); err != nil {
				return nil, fmt.Errorf("json.Unmarshal item: %w", err)
			}
			payload.ItemRef = domain.ItemRef(ref)
			return payload, nil
		}
	}

	if id := r.id(); id != "" {
		return r.input(id, quantity, r.Purchase, r.RentalPeriod), nil
	}

	return nil, domain.NewValidationError("itemRef", "line carries no identifier")
}

func (r rawLine) snapshot() *domain.PriceSnapshot {
	if r.PriceSnapshot != nil {
		return r.PriceSnapshot
	}
	if !r.Price.Valid && !r.RentalPrice.Valid {
		return nil
	}
	return &domain.PriceSnapshot{
		Price:       r.Price.Decimal,
		RentalPrice: r.RentalPrice.Decimal,
	}
}

func (p rawProduct) id() domain.ItemRef {
	switch {
	case p.ID != nil && *p.ID != "":
		return domain.ItemRef(*p.ID)
	case p.MongoID != nil:
		return domain.ItemRef(*p.MongoID)
	}
	return ""
}

func (p rawProduct) input(id domain.ItemRef, quantity int, purchase *bool, period *domain.RentalPeriod) ProductInput {
	return ProductInput{
		ID:           id,
		Price:        p.Price.Decimal,
		RentalPrice:  p.RentalPrice.Decimal,
		Quantity:     quantity,
		Purchase:     purchase,
		RentalPeriod: period,
	}
}
