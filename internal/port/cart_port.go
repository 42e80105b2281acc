package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront-cart/internal/domain"
)

// CartRepository is the backing store of the remote cart service, scoped by cart owner.
type CartRepository interface {
	GetCart(ctx context.Context, ownerID uuid.UUID) (domain.Cart, error)
	AddItem(ctx context.Context, ownerID uuid.UUID, payload domain.AddPayload) error
	UpdateItem(ctx context.Context, ownerID uuid.UUID, payload domain.UpdatePayload) (bool, error)
	DeleteItem(ctx context.Context, ownerID uuid.UUID, payload domain.RemovePayload) (bool, error)
	ClearCart(ctx context.Context, ownerID uuid.UUID) (int64, error)

	UpsertItem(ctx context.Context, item domain.Item) error
}

// RemoteCart is the signed-in user's cart as exposed by the remote cart service.
// It owns merge semantics; callers forward payloads and re-read Cart afterwards.
type RemoteCart interface {
	Cart(ctx context.Context) ([]domain.CartLine, error)
	AddToCart(ctx context.Context, payload domain.AddPayload) error
	RemoveCartItem(ctx context.Context, payload domain.RemovePayload) error
	UpdateCartItem(ctx context.Context, payload domain.UpdatePayload) error
	ClearCart(ctx context.Context) error
}

// GuestCartStore persists the guest cart. Failures are recovered inside the store.
type GuestCartStore interface {
	Load(ctx context.Context) []domain.CartLine
	Save(ctx context.Context, lines []domain.CartLine)
}
