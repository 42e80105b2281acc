package cart

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/normalize"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"github.com/nikolayk812/storefront-cart/internal/pricing"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/nikolayk812/storefront-cart/internal/cart"

type Op string

const (
	OpAdd         Op = "add"
	OpRemove      Op = "remove"
	OpSetQuantity Op = "set_quantity"
	OpClear       Op = "clear"
	OpSession     Op = "session"
)

type ChangeEvent struct {
	Op            Op
	Authenticated bool
}

type Listener func(ChangeEvent)

// RemoteCartFactory binds the remote cart service to a signed-in user.
type RemoteCartFactory func(userID uuid.UUID) port.RemoteCart

type Option func(*Service)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

type subscription struct {
	id int
	fn Listener
}

// Service is the single cart entry point. It routes every call to the guest cart or to the
// signed-in user's remote cart, depending on the current session.
//
// Signing in does not merge the guest cart into the remote one; the guest cart is kept in
// memory and becomes active again on sign-out.
type Service struct {
	mu      sync.RWMutex
	session domain.Session
	active  CartStrategy
	local   *LocalCartStrategy
	remote  RemoteCartFactory

	listeners []subscription
	nextID    int

	logger *zap.Logger
	tracer trace.Tracer
}

func NewService(ctx context.Context, guest port.GuestCartStore, remote RemoteCartFactory, opts ...Option) *Service {
	s := &Service{
		remote: remote,
		logger: zap.NewNop(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.local = NewLocalCartStrategy(ctx, guest)
	s.active = s.local

	return s
}

// SetSession selects the backing store for the given authentication state.
func (s *Service) SetSession(session domain.Session) error {
	s.mu.Lock()

	if session.Authenticated() {
		if s.remote == nil {
			s.mu.Unlock()
			return fmt.Errorf("remote cart is not configured")
		}
		s.active = NewRemoteCartStrategy(s.remote(session.UserID), s.tracer, s.logger)
	} else {
		s.active = s.local
	}
	s.session = session

	s.mu.Unlock()

	s.logger.Info("cart session changed", zap.Bool("authenticated", session.Authenticated()))
	s.notify(OpSession, session.Authenticated())

	return nil
}

func (s *Service) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.session.Authenticated()
}

// AddLine normalizes the input and adds it to the active cart.
// The guest cart merges by item ref; the remote cart service applies its own merge.
func (s *Service) AddLine(ctx context.Context, in normalize.Input) error {
	line, err := normalize.Normalize(in)
	if err != nil {
		return err
	}

	strategy, authenticated := s.current()

	if err := strategy.Add(ctx, line); err != nil {
		return err
	}

	s.logger.Debug("cart line added",
		zap.String("item_ref", string(line.ItemRef)),
		zap.Int("quantity", line.Quantity),
		zap.Bool("purchase", line.Purchase),
		zap.Bool("authenticated", authenticated))
	s.notify(OpAdd, authenticated)

	return nil
}

func (s *Service) RemoveLine(ctx context.Context, ref domain.ItemRef, purchase bool) error {
	ref, err := validRef(ref)
	if err != nil {
		return err
	}

	strategy, authenticated := s.current()

	if err := strategy.Remove(ctx, ref, purchase); err != nil {
		return err
	}

	s.logger.Debug("cart line removed",
		zap.String("item_ref", string(ref)),
		zap.Bool("authenticated", authenticated))
	s.notify(OpRemove, authenticated)

	return nil
}

// SetQuantity overwrites the quantity of a line. A quantity below 1 is ignored.
func (s *Service) SetQuantity(ctx context.Context, ref domain.ItemRef, quantity int, purchase bool) error {
	ref, err := validRef(ref)
	if err != nil {
		return err
	}

	if quantity < 1 {
		return nil
	}

	strategy, authenticated := s.current()

	if err := strategy.SetQuantity(ctx, ref, quantity, purchase); err != nil {
		return err
	}

	s.logger.Debug("cart line quantity set",
		zap.String("item_ref", string(ref)),
		zap.Int("quantity", quantity),
		zap.Bool("authenticated", authenticated))
	s.notify(OpSetQuantity, authenticated)

	return nil
}

func (s *Service) Clear(ctx context.Context) error {
	strategy, authenticated := s.current()

	if err := strategy.Clear(ctx); err != nil {
		return err
	}

	s.logger.Debug("cart cleared", zap.Bool("authenticated", authenticated))
	s.notify(OpClear, authenticated)

	return nil
}

// Cart is the read model of the active cart.
func (s *Service) Cart(ctx context.Context) (domain.Cart, error) {
	s.mu.RLock()
	strategy, session := s.active, s.session
	s.mu.RUnlock()

	lines, err := strategy.Lines(ctx)
	if err != nil {
		return domain.Cart{}, err
	}

	var ownerID string
	if session.Authenticated() {
		ownerID = session.UserID.String()
	}

	return domain.Cart{
		OwnerID: ownerID,
		Items:   lines,
	}, nil
}

func (s *Service) Total(ctx context.Context) (decimal.Decimal, error) {
	strategy, _ := s.current()

	lines, err := strategy.Lines(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	return pricing.CartTotal(lines), nil
}

func (s *Service) ItemCount(ctx context.Context) (int, error) {
	strategy, _ := s.current()

	lines, err := strategy.Lines(ctx)
	if err != nil {
		return 0, err
	}

	return pricing.ItemCount(lines), nil
}

// Subscribe registers a listener called after every successful mutation and session change.
// Listeners run synchronously on the caller's goroutine. A nil listener is ignored.
func (s *Service) Subscribe(fn Listener) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()

			for i, sub := range s.listeners {
				if sub.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Service) current() (CartStrategy, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.active, s.session.Authenticated()
}

func (s *Service) notify(op Op, authenticated bool) {
	s.mu.RLock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, sub := range s.listeners {
		listeners = append(listeners, sub.fn)
	}
	s.mu.RUnlock()

	event := ChangeEvent{Op: op, Authenticated: authenticated}
	for _, fn := range listeners {
		fn(event)
	}
}

func validRef(ref domain.ItemRef) (domain.ItemRef, error) {
	ref = domain.ItemRef(strings.TrimSpace(string(ref)))
	if ref == "" {
		return "", domain.NewValidationError("itemRef", "is empty")
	}
	return ref, nil
}
