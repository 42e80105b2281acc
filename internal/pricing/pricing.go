package pricing

import (
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/shopspring/decimal"
)

// LineView is the source-agnostic shape the calculator works on.
type LineView struct {
	Purchase        bool
	Quantity        int
	Days            int
	UnitPrice       decimal.Decimal
	RentalUnitPrice decimal.Decimal
}

// ViewOf reads prices from the resolved item when the line has one, otherwise from the snapshot.
// Missing prices count as zero.
func ViewOf(line domain.CartLine) LineView {
	view := LineView{
		Purchase: line.Purchase,
		Quantity: line.Quantity,
		Days:     line.Days(),
	}

	switch {
	case line.ResolvedItem != nil:
		view.UnitPrice = line.ResolvedItem.Price.Amount
		view.RentalUnitPrice = line.ResolvedItem.RentalPrice.Amount
	case line.PriceSnapshot != nil:
		view.UnitPrice = line.PriceSnapshot.Price
		view.RentalUnitPrice = line.PriceSnapshot.RentalPrice
	}

	return view
}

func LineTotal(v LineView) decimal.Decimal {
	quantity := decimal.NewFromInt(int64(v.Quantity))

	if v.Purchase {
		return v.UnitPrice.Mul(quantity)
	}

	days := decimal.NewFromInt(int64(max(v.Days, 1)))
	return v.RentalUnitPrice.Mul(quantity).Mul(days)
}

func Total(views []LineView) decimal.Decimal {
	total := decimal.Zero
	for _, v := range views {
		total = total.Add(LineTotal(v))
	}
	return total
}

func CartTotal(lines []domain.CartLine) decimal.Decimal {
	views := make([]LineView, 0, len(lines))
	for _, line := range lines {
		views = append(views, ViewOf(line))
	}
	return Total(views)
}

func ItemCount(lines []domain.CartLine) int {
	count := 0
	for _, line := range lines {
		count += line.Quantity
	}
	return count
}
