package normalize_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/normalize"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		input     normalize.Input
		want      domain.CartLine
		wantField string
	}{
		{
			name:  "payload with defaults: ok",
			input: normalize.PayloadInput{ItemRef: "A"},
			want:  domain.CartLine{ItemRef: "A", Quantity: 1, Purchase: true},
		},
		{
			name: "payload rental keeps period: ok",
			input: normalize.PayloadInput{
				ItemRef:       "B",
				Quantity:      2,
				Purchase:      ptr(false),
				RentalPeriod:  &domain.RentalPeriod{Days: 3},
				PriceSnapshot: &domain.PriceSnapshot{RentalPrice: decimal.NewFromInt(5)},
			},
			want: domain.CartLine{
				ItemRef:       "B",
				Quantity:      2,
				RentalPeriod:  &domain.RentalPeriod{Days: 3},
				PriceSnapshot: &domain.PriceSnapshot{RentalPrice: decimal.NewFromInt(5)},
			},
		},
		{
			name:  "rental without period defaults to one day: ok",
			input: normalize.PayloadInput{ItemRef: "B", Purchase: ptr(false)},
			want:  domain.CartLine{ItemRef: "B", Quantity: 1, RentalPeriod: &domain.RentalPeriod{Days: 1}},
		},
		{
			name:  "purchase drops rental period: ok",
			input: normalize.PayloadInput{ItemRef: "C", Purchase: ptr(true), RentalPeriod: &domain.RentalPeriod{Days: 7}},
			want:  domain.CartLine{ItemRef: "C", Quantity: 1, Purchase: true},
		},
		{
			name:  "item ref is trimmed: ok",
			input: normalize.PayloadInput{ItemRef: "  D "},
			want:  domain.CartLine{ItemRef: "D", Quantity: 1, Purchase: true},
		},
		{
			name: "product maps to snapshot: ok",
			input: normalize.ProductInput{
				ID:          "P",
				Price:       decimal.NewFromInt(50),
				RentalPrice: decimal.NewFromInt(20),
				Quantity:    3,
			},
			want: domain.CartLine{
				ItemRef:       "P",
				Quantity:      3,
				Purchase:      true,
				PriceSnapshot: &domain.PriceSnapshot{Price: decimal.NewFromInt(50), RentalPrice: decimal.NewFromInt(20)},
			},
		},
		{
			name:  "product pointer: ok",
			input: &normalize.ProductInput{ID: "P"},
			want: domain.CartLine{
				ItemRef:       "P",
				Quantity:      1,
				Purchase:      true,
				PriceSnapshot: &domain.PriceSnapshot{},
			},
		},
		{
			name: "canonical stored line passes through: ok",
			input: normalize.StoredLineInput{Line: domain.CartLine{
				ItemRef:  "S",
				Quantity: 4,
				Purchase: true,
			}},
			want: domain.CartLine{ItemRef: "S", Quantity: 4, Purchase: true},
		},
		{
			name: "non-canonical stored line gets defaults: ok",
			input: normalize.StoredLineInput{Line: domain.CartLine{
				ItemRef: "S",
			}},
			want: domain.CartLine{ItemRef: "S", Quantity: 1, RentalPeriod: &domain.RentalPeriod{Days: 1}},
		},
		{
			name:      "empty item ref: error",
			input:     normalize.PayloadInput{ItemRef: " "},
			wantField: "itemRef",
		},
		{
			name:      "product without id: error",
			input:     normalize.ProductInput{Price: decimal.NewFromInt(1)},
			wantField: "itemRef",
		},
		{
			name:      "negative quantity: error",
			input:     normalize.PayloadInput{ItemRef: "A", Quantity: -1},
			wantField: "quantity",
		},
		{
			name:      "negative rental days: error",
			input:     normalize.PayloadInput{ItemRef: "A", Purchase: ptr(false), RentalPeriod: &domain.RentalPeriod{Days: -2}},
			wantField: "rentalPeriod.days",
		},
		{
			name:      "negative price: error",
			input:     normalize.ProductInput{ID: "A", Price: decimal.NewFromInt(-1)},
			wantField: "priceSnapshot",
		},
		{
			name:      "nil input: error",
			input:     nil,
			wantField: "input",
		},
		{
			name:      "nil payload pointer: error",
			input:     (*normalize.PayloadInput)(nil),
			wantField: "input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalize.Normalize(tt.input)
			if tt.wantField != "" {
				var vErr *domain.ValidationError
				require.True(t, errors.As(err, &vErr), "want ValidationError, got %v", err)
				assert.Equal(t, tt.wantField, vErr.Field)
				assert.Empty(t, cmp.Diff(domain.CartLine{}, got))
				return
			}
			require.NoError(t, err)

			assert.Empty(t, cmp.Diff(tt.want, got, decimalComparer))
			assert.True(t, normalize.IsCanonical(got))
		})
	}
}

func TestNormalize_DoesNotAliasInput(t *testing.T) {
	period := &domain.RentalPeriod{Days: 2}
	snapshot := &domain.PriceSnapshot{RentalPrice: decimal.NewFromInt(3)}

	line, err := normalize.Normalize(normalize.PayloadInput{
		ItemRef:       "A",
		Purchase:      ptr(false),
		RentalPeriod:  period,
		PriceSnapshot: snapshot,
	})
	require.NoError(t, err)

	period.Days = 9
	snapshot.RentalPrice = decimal.NewFromInt(99)

	assert.Equal(t, 2, line.RentalPeriod.Days)
	assert.True(t, line.PriceSnapshot.RentalPrice.Equal(decimal.NewFromInt(3)))
}

func TestToPayload(t *testing.T) {
	tests := []struct {
		name string
		line domain.CartLine
		want domain.AddPayload
	}{
		{
			name: "purchase line",
			line: domain.CartLine{ItemRef: "A", Quantity: 2, Purchase: true},
			want: domain.AddPayload{Item: "A", Quantity: 2, Purchase: true},
		},
		{
			name: "rental line",
			line: domain.CartLine{ItemRef: "B", Quantity: 1, RentalPeriod: &domain.RentalPeriod{Days: 4}},
			want: domain.AddPayload{Item: "B", Quantity: 1, RentalPeriod: &domain.RentalPeriod{Days: 4}},
		},
		{
			name: "price snapshot is not forwarded",
			line: domain.CartLine{ItemRef: "C", Quantity: 1, Purchase: true, PriceSnapshot: &domain.PriceSnapshot{Price: decimal.NewFromInt(10)}},
			want: domain.AddPayload{Item: "C", Quantity: 1, Purchase: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, cmp.Diff(tt.want, normalize.ToPayload(tt.line)))
		})
	}
}

var decimalComparer = cmp.Comparer(func(x, y decimal.Decimal) bool {
	return x.Equal(y)
})

func ptr[T any](v T) *T {
	return &v
}
