package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/surplus/internal/db"
	"github.com/nikolayk812/surplus/internal/domain"
	"github.com/nikolayk812/surplus/internal/port"
)

type cartRepository struct {
	q *db.Queries
}

func NewCart(pool *pgxpool.Pool) port.CartRepository {
	return &cartRepository{
		q: db.New(pool),
	}
}

func NewCartWithTx(tx pgx.Tx) port.CartRepository {
	return &cartRepository{
		q: db.New(tx), // use provided transaction instead
	}
}

// cartLineJSON is the persisted shape of a cart line inside carts.lines
type cartLineJSON struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
	SellerID  string    `json:"sellerId"`
}

func (r *cartRepository) GetCart(ctx context.Context, clientID string) (domain.Cart, error) {
	return r.getCart(ctx, clientID, r.q.GetCart, "q.GetCart")
}

// GetCartForUpdate only locks an existing row, a cart that was never written has nothing to lock.
func (r *cartRepository) GetCartForUpdate(ctx context.Context, clientID string) (domain.Cart, error) {
	return r.getCart(ctx, clientID, r.q.GetCartForUpdate, "q.GetCartForUpdate")
}

func (r *cartRepository) getCart(
	ctx context.Context,
	clientID string,
	get func(context.Context, string) (db.Cart, error),
	name string,
) (domain.Cart, error) {
	c := domain.Cart{ClientID: clientID}

	if clientID == "" {
		return c, fmt.Errorf("clientID is empty")
	}

	dbCart, err := get(ctx, clientID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// carts are created lazily on the first write
			return c, nil
		}
		return c, fmt.Errorf("%s: %w", name, err)
	}

	return mapDBCartToDomain(dbCart)
}

func (r *cartRepository) SaveCart(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	var c domain.Cart

	if cart.ClientID == "" {
		return c, fmt.Errorf("clientID is empty")
	}

	lines := make([]cartLineJSON, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		if err := line.Validate(); err != nil {
			return c, fmt.Errorf("line.Validate: %w", err)
		}

		lines = append(lines, cartLineJSON{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			SellerID:  line.SellerID,
		})
	}

	payload, err := json.Marshal(lines)
	if err != nil {
		return c, fmt.Errorf("json.Marshal: %w", err)
	}

	dbCart, err := r.q.UpsertCart(ctx, db.UpsertCartParams{
		ClientID: cart.ClientID,
		Lines:    payload,
	})
	if err != nil {
		return c, fmt.Errorf("q.UpsertCart: %w", err)
	}

	return mapDBCartToDomain(dbCart)
}

func mapDBCartToDomain(row db.Cart) (domain.Cart, error) {
	var lines []cartLineJSON
	if err := json.Unmarshal(row.Lines, &lines); err != nil {
		return domain.Cart{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	items := make([]domain.CartLine, 0, len(lines))
	for _, line := range lines {
		items = append(items, domain.CartLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			SellerID:  line.SellerID,
		})
	}

	return domain.Cart{
		ClientID:  row.ClientID,
		Lines:     items,
		UpdatedAt: row.UpdatedAt,
	}, nil
}
