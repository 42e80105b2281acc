package repository

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront-cart/internal/db"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"golang.org/x/text/currency"
)

var ErrItemNotFound = errors.New("item not found")

type cartRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewCart(pool *pgxpool.Pool) port.CartRepository {
	return &cartRepository{
		q:    db.New(pool),
		pool: pool,
	}
}

func NewCartWithTx(tx pgx.Tx) port.CartRepository {
	return &cartRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (r *cartRepository) GetCart(ctx context.Context, ownerID uuid.UUID) (domain.Cart, error) {
	if ownerID == uuid.Nil {
		return domain.Cart{}, fmt.Errorf("ownerID is empty")
	}

	rows, err := r.q.GetCart(ctx, ownerID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("q.GetCart: %w", err)
	}

	lines, err := mapGetCartRowsToDomain(rows)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("mapGetCartRowsToDomain: %w", err)
	}

	return domain.Cart{
		OwnerID: ownerID.String(),
		Items:   lines,
	}, nil
}

// AddItem merges the payload into the (owner, item, mode) line, creating it if absent.
func (r *cartRepository) AddItem(ctx context.Context, ownerID uuid.UUID, payload domain.AddPayload) error {
	if ownerID == uuid.Nil {
		return fmt.Errorf("ownerID is empty")
	}
	if payload.Item == "" {
		return fmt.Errorf("item is empty")
	}
	quantity, err := toInt4("quantity", payload.Quantity)
	if err != nil {
		return err
	}

	var rentalDays pgtype.Int4
	if !payload.Purchase {
		days := int32(1)
		if payload.RentalPeriod != nil && payload.RentalPeriod.Days > 0 {
			if days, err = toInt4("rental days", payload.RentalPeriod.Days); err != nil {
				return err
			}
		}
		rentalDays = pgtype.Int4{Int32: days, Valid: true}
	}

	_, err = withTx(ctx, r.pool, r.q, func(q *db.Queries) (struct{}, error) {
		if _, err := q.GetItem(ctx, string(payload.Item)); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return struct{}{}, fmt.Errorf("item[%s]: %w", payload.Item, ErrItemNotFound)
			}
			return struct{}{}, fmt.Errorf("q.GetItem: %w", err)
		}

		err := q.AddItem(ctx, db.AddItemParams{
			OwnerID:    ownerID,
			ItemRef:    string(payload.Item),
			Purchase:   payload.Purchase,
			Quantity:   quantity,
			RentalDays: rentalDays,
		})
		if err != nil {
			return struct{}{}, fmt.Errorf("q.AddItem: %w", err)
		}

		return struct{}{}, nil
	})
	if err != nil {
		return fmt.Errorf("withTx: %w", err)
	}

	return nil
}

func (r *cartRepository) UpdateItem(ctx context.Context, ownerID uuid.UUID, payload domain.UpdatePayload) (bool, error) {
	if ownerID == uuid.Nil {
		return false, fmt.Errorf("ownerID is empty")
	}
	quantity, err := toInt4("quantity", payload.Quantity)
	if err != nil {
		return false, err
	}

	rowsAffected, err := r.q.UpdateItemQuantity(ctx, db.UpdateItemQuantityParams{
		OwnerID:  ownerID,
		ItemRef:  string(payload.ItemID),
		Purchase: payload.Purchase,
		Quantity: quantity,
	})
	if err != nil {
		return false, fmt.Errorf("q.UpdateItemQuantity: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, ownerID uuid.UUID, payload domain.RemovePayload) (bool, error) {
	if ownerID == uuid.Nil {
		return false, fmt.Errorf("ownerID is empty")
	}

	rowsAffected, err := r.q.DeleteItem(ctx, db.DeleteItemParams{
		OwnerID:  ownerID,
		ItemRef:  string(payload.ItemID),
		Purchase: payload.Purchase,
	})
	if err != nil {
		return false, fmt.Errorf("q.DeleteItem: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *cartRepository) ClearCart(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	if ownerID == uuid.Nil {
		return 0, fmt.Errorf("ownerID is empty")
	}

	rowsAffected, err := r.q.ClearCart(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("q.ClearCart: %w", err)
	}

	return rowsAffected, nil
}

// UpsertItem writes a catalog record. Both prices must share one currency.
func (r *cartRepository) UpsertItem(ctx context.Context, item domain.Item) error {
	if item.Ref == "" {
		return fmt.Errorf("item ref is empty")
	}
	if item.Price.Amount.IsNegative() || item.RentalPrice.Amount.IsNegative() {
		return fmt.Errorf("item[%s] has a negative price", item.Ref)
	}
	if item.RentalPrice.Currency != (currency.Unit{}) && item.RentalPrice.Currency != item.Price.Currency {
		return fmt.Errorf("rental currency[%s] differs from price currency[%s]", item.RentalPrice.Currency, item.Price.Currency)
	}

	err := r.q.UpsertItem(ctx, db.UpsertItemParams{
		ItemRef:           string(item.Ref),
		Name:              item.Name,
		PriceAmount:       item.Price.Amount,
		RentalPriceAmount: item.RentalPrice.Amount,
		PriceCurrency:     item.Price.Currency.String(),
	})
	if err != nil {
		return fmt.Errorf("q.UpsertItem: %w", err)
	}

	return nil
}

// toInt4 checks that a positive count fits the INTEGER columns of cart_items.
func toInt4(name string, v int) (int32, error) {
	if v < 1 {
		return 0, fmt.Errorf("%s[%d] is not positive", name, v)
	}
	if v > math.MaxInt32 {
		return 0, fmt.Errorf("%s[%d] exceeds %d", name, v, math.MaxInt32)
	}
	return int32(v), nil
}

func mapGetCartRowToDomain(row db.GetCartRow) (domain.CartLine, error) {
	parsedCurrency, err := currency.ParseISO(row.PriceCurrency)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	line := domain.CartLine{
		ItemRef:  domain.ItemRef(row.ItemRef),
		Quantity: int(row.Quantity),
		Purchase: row.Purchase,
		ResolvedItem: &domain.Item{
			Ref:         domain.ItemRef(row.ItemRef),
			Name:        row.Name,
			Price:       domain.Money{Amount: row.PriceAmount, Currency: parsedCurrency},
			RentalPrice: domain.Money{Amount: row.RentalPriceAmount, Currency: parsedCurrency},
		},
		AddedAt: row.CreatedAt,
	}
	if row.RentalDays.Valid {
		line.RentalPeriod = &domain.RentalPeriod{Days: int(row.RentalDays.Int32)}
	}

	return line, nil
}

func mapGetCartRowsToDomain(rows []db.GetCartRow) ([]domain.CartLine, error) {
	var lines []domain.CartLine

	for _, row := range rows {
		line, err := mapGetCartRowToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapGetCartRowToDomain: %w", err)
		}

		lines = append(lines, line)
	}

	return lines, nil
}
