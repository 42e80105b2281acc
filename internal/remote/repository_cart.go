package remote

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/port"
)

// repositoryCart serves one user's cart straight from the cart repository.
type repositoryCart struct {
	repo    port.CartRepository
	ownerID uuid.UUID
}

func NewRepositoryCart(repo port.CartRepository, ownerID uuid.UUID) port.RemoteCart {
	return &repositoryCart{
		repo:    repo,
		ownerID: ownerID,
	}
}

func (c *repositoryCart) Cart(ctx context.Context) ([]domain.CartLine, error) {
	cart, err := c.repo.GetCart(ctx, c.ownerID)
	if err != nil {
		return nil, fmt.Errorf("repo.GetCart: %w", err)
	}

	return cart.Items, nil
}

func (c *repositoryCart) AddToCart(ctx context.Context, payload domain.AddPayload) error {
	if payload.Quantity < 1 {
		return fmt.Errorf("quantity[%d] must be positive", payload.Quantity)
	}

	if err := c.repo.AddItem(ctx, c.ownerID, payload); err != nil {
		return fmt.Errorf("repo.AddItem: %w", err)
	}

	return nil
}

func (c *repositoryCart) RemoveCartItem(ctx context.Context, payload domain.RemovePayload) error {
	if _, err := c.repo.DeleteItem(ctx, c.ownerID, payload); err != nil {
		return fmt.Errorf("repo.DeleteItem: %w", err)
	}

	return nil
}

func (c *repositoryCart) UpdateCartItem(ctx context.Context, payload domain.UpdatePayload) error {
	if payload.Quantity < 1 {
		return fmt.Errorf("quantity[%d] must be positive", payload.Quantity)
	}

	if _, err := c.repo.UpdateItem(ctx, c.ownerID, payload); err != nil {
		return fmt.Errorf("repo.UpdateItem: %w", err)
	}

	return nil
}

func (c *repositoryCart) ClearCart(ctx context.Context) error {
	if _, err := c.repo.ClearCart(ctx, c.ownerID); err != nil {
		return fmt.Errorf("repo.ClearCart: %w", err)
	}

	return nil
}
