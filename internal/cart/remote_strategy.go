package cart

import (
	"context"

	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/normalize"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// RemoteCartStrategy forwards every operation to the remote cart service.
// It keeps no state, does no merging and never retries.
type RemoteCartStrategy struct {
	remote port.RemoteCart
	tracer trace.Tracer
	logger *zap.Logger
}

func NewRemoteCartStrategy(remote port.RemoteCart, tracer trace.Tracer, logger *zap.Logger) *RemoteCartStrategy {
	return &RemoteCartStrategy{
		remote: remote,
		tracer: tracer,
		logger: logger,
	}
}

func (s *RemoteCartStrategy) Add(ctx context.Context, line domain.CartLine) error {
	payload := normalize.ToPayload(line)

	return s.call(ctx, "add", func(ctx context.Context) error {
		return s.remote.AddToCart(ctx, payload)
	},
		attribute.String("item.ref", string(payload.Item)),
		attribute.Bool("item.purchase", payload.Purchase),
		attribute.Int("item.quantity", payload.Quantity),
	)
}

func (s *RemoteCartStrategy) Remove(ctx context.Context, ref domain.ItemRef, purchase bool) error {
	payload := domain.RemovePayload{ItemID: ref, Purchase: purchase}

	return s.call(ctx, "remove", func(ctx context.Context) error {
		return s.remote.RemoveCartItem(ctx, payload)
	},
		attribute.String("item.ref", string(ref)),
		attribute.Bool("item.purchase", purchase),
	)
}

func (s *RemoteCartStrategy) SetQuantity(ctx context.Context, ref domain.ItemRef, quantity int, purchase bool) error {
	if quantity < 1 {
		return nil
	}

	payload := domain.UpdatePayload{ItemID: ref, Quantity: quantity, Purchase: purchase}

	return s.call(ctx, "update", func(ctx context.Context) error {
		return s.remote.UpdateCartItem(ctx, payload)
	},
		attribute.String("item.ref", string(ref)),
		attribute.Bool("item.purchase", purchase),
		attribute.Int("item.quantity", quantity),
	)
}

func (s *RemoteCartStrategy) Clear(ctx context.Context) error {
	return s.call(ctx, "clear", s.remote.ClearCart)
}

func (s *RemoteCartStrategy) Lines(ctx context.Context) ([]domain.CartLine, error) {
	var lines []domain.CartLine

	err := s.call(ctx, "get", func(ctx context.Context) error {
		var err error
		lines, err = s.remote.Cart(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return cloneLines(lines), nil
}

func (s *RemoteCartStrategy) call(ctx context.Context, op string, fn func(context.Context) error, attrs ...attribute.KeyValue) error {
	ctx, span := s.tracer.Start(ctx, "cart.remote."+op, trace.WithAttributes(attrs...))
	defer span.End()

	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Warn("remote cart call failed", zap.String("op", op), zap.Error(err))

		return &domain.RemoteCartError{Op: op, Err: err}
	}

	return nil
}
