package cart_test

import (
	"context"
	"sync"

	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// memoryGuestStore is a GuestCartStore that keeps the last saved lines.
type memoryGuestStore struct {
	mu    sync.Mutex
	lines []domain.CartLine
	saves int
}

func (m *memoryGuestStore) Load(context.Context) []domain.CartLine {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.CartLine, len(m.lines))
	copy(out, m.lines)
	return out
}

func (m *memoryGuestStore) Save(_ context.Context, lines []domain.CartLine) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lines = lines
	m.saves++
}

func (m *memoryGuestStore) saved() ([]domain.CartLine, int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.lines, m.saves
}

type remoteKey struct {
	ref      domain.ItemRef
	purchase bool
}

// fakeRemote mimics the remote cart service: it merges by (item, mode) and resolves items from a catalog.
type fakeRemote struct {
	mu      sync.Mutex
	catalog map[domain.ItemRef]domain.Item
	order   []remoteKey
	lines   map[remoteKey]domain.CartLine
	err     error

	adds    []domain.AddPayload
	removes []domain.RemovePayload
	updates []domain.UpdatePayload
	clears  int
}

func newFakeRemote(items ...domain.Item) *fakeRemote {
	catalog := map[domain.ItemRef]domain.Item{}
	for _, item := range items {
		catalog[item.Ref] = item
	}
	return &fakeRemote{
		catalog: catalog,
		lines:   map[remoteKey]domain.CartLine{},
	}
}

func (f *fakeRemote) failWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.err = err
}

func (f *fakeRemote) Cart(context.Context) ([]domain.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}

	out := make([]domain.CartLine, 0, len(f.order))
	for _, key := range f.order {
		line := f.lines[key]
		item := f.catalog[key.ref]
		line.ResolvedItem = &item
		out = append(out, line)
	}
	return out, nil
}

func (f *fakeRemote) AddToCart(_ context.Context, payload domain.AddPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.adds = append(f.adds, payload)
	if f.err != nil {
		return f.err
	}

	key := remoteKey{ref: payload.Item, purchase: payload.Purchase}
	if line, ok := f.lines[key]; ok {
		line.Quantity += payload.Quantity
		f.lines[key] = line
		return nil
	}

	f.order = append(f.order, key)
	f.lines[key] = domain.CartLine{
		ItemRef:      payload.Item,
		Quantity:     payload.Quantity,
		Purchase:     payload.Purchase,
		RentalPeriod: payload.RentalPeriod,
	}
	return nil
}

func (f *fakeRemote) RemoveCartItem(_ context.Context, payload domain.RemovePayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.removes = append(f.removes, payload)
	if f.err != nil {
		return f.err
	}

	key := remoteKey{ref: payload.ItemID, purchase: payload.Purchase}
	delete(f.lines, key)
	for i, k := range f.order {
		if k == key {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeRemote) UpdateCartItem(_ context.Context, payload domain.UpdatePayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.updates = append(f.updates, payload)
	if f.err != nil {
		return f.err
	}

	key := remoteKey{ref: payload.ItemID, purchase: payload.Purchase}
	if line, ok := f.lines[key]; ok {
		line.Quantity = payload.Quantity
		f.lines[key] = line
	}
	return nil
}

func (f *fakeRemote) ClearCart(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.clears++
	if f.err != nil {
		return f.err
	}

	f.order = nil
	f.lines = map[remoteKey]domain.CartLine{}
	return nil
}

func catalogItem(ref domain.ItemRef, price, rentalPrice int64) domain.Item {
	return domain.Item{
		Ref:         ref,
		Name:        string(ref),
		Price:       domain.Money{Amount: decimal.NewFromInt(price), Currency: currency.EUR},
		RentalPrice: domain.Money{Amount: decimal.NewFromInt(rentalPrice), Currency: currency.EUR},
	}
}
