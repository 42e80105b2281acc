package cart

import (
	"context"

	"github.com/nikolayk812/storefront-cart/internal/domain"
)

// CartStrategy is one backing store of the cart. The Service delegates to exactly one at a time.
type CartStrategy interface {
	Add(ctx context.Context, line domain.CartLine) error
	Remove(ctx context.Context, ref domain.ItemRef, purchase bool) error
	SetQuantity(ctx context.Context, ref domain.ItemRef, quantity int, purchase bool) error
	Clear(ctx context.Context) error
	Lines(ctx context.Context) ([]domain.CartLine, error)
}

func cloneLine(line domain.CartLine) domain.CartLine {
	if line.RentalPeriod != nil {
		period := *line.RentalPeriod
		line.RentalPeriod = &period
	}
	if line.PriceSnapshot != nil {
		snapshot := *line.PriceSnapshot
		line.PriceSnapshot = &snapshot
	}
	if line.ResolvedItem != nil {
		item := *line.ResolvedItem
		line.ResolvedItem = &item
	}
	return line
}

func cloneLines(lines []domain.CartLine) []domain.CartLine {
	out := make([]domain.CartLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, cloneLine(line))
	}
	return out
}
