package cart

import (
	"context"
	"math"
	"sync"

	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/port"
)

// LocalCartStrategy is the guest cart: an in-memory line set loaded once from the store
// and written back synchronously after every mutation.
//
// Lines are keyed by item ref only. Remove and SetQuantity ignore the purchase flag.
type LocalCartStrategy struct {
	mu    sync.Mutex
	store port.GuestCartStore
	lines []domain.CartLine
}

func NewLocalCartStrategy(ctx context.Context, store port.GuestCartStore) *LocalCartStrategy {
	return &LocalCartStrategy{
		store: store,
		lines: store.Load(ctx),
	}
}

func (s *LocalCartStrategy) Add(ctx context.Context, line domain.CartLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.index(line.ItemRef); i >= 0 {
		if line.Quantity > math.MaxInt-s.lines[i].Quantity {
			return domain.NewValidationError("quantity", "merged quantity is too large")
		}
		s.lines[i].Quantity += line.Quantity
	} else {
		line = cloneLine(line)
		line.ResolvedItem = nil
		if line.PriceSnapshot == nil {
			line.PriceSnapshot = &domain.PriceSnapshot{}
		}
		s.lines = append(s.lines, line)
	}

	s.persist(ctx)
	return nil
}

func (s *LocalCartStrategy) Remove(ctx context.Context, ref domain.ItemRef, _ bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(ref)
	if i < 0 {
		return nil
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)

	s.persist(ctx)
	return nil
}

func (s *LocalCartStrategy) SetQuantity(ctx context.Context, ref domain.ItemRef, quantity int, _ bool) error {
	if quantity < 1 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(ref)
	if i < 0 {
		return nil
	}
	s.lines[i].Quantity = quantity

	s.persist(ctx)
	return nil
}

func (s *LocalCartStrategy) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = []domain.CartLine{}

	s.persist(ctx)
	return nil
}

func (s *LocalCartStrategy) Lines(_ context.Context) ([]domain.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return cloneLines(s.lines), nil
}

func (s *LocalCartStrategy) index(ref domain.ItemRef) int {
	for i := range s.lines {
		if s.lines[i].ItemRef == ref {
			return i
		}
	}
	return -1
}

// persist must be called with mu held.
func (s *LocalCartStrategy) persist(ctx context.Context) {
	s.store.Save(ctx, cloneLines(s.lines))
}
