package httpapi

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nikolayk812/surplus/internal/auth"
	"github.com/nikolayk812/surplus/internal/domain"
)

type CartService interface {
	AddLine(ctx context.Context, clientID string, productID uuid.UUID, quantity int) (domain.Cart, error)
	RemoveLine(ctx context.Context, clientID string, productID uuid.UUID) (domain.Cart, error)
	Clear(ctx context.Context, clientID string) error
	Get(ctx context.Context, clientID string) (domain.Cart, error)
}

type CheckoutService interface {
	Checkout(ctx context.Context, clientID, idempotencyKey string) (domain.Order, error)
}

type OrderStateMachine interface {
	Approve(ctx context.Context, orderID uuid.UUID, sellerID string) (domain.Order, error)
	Reject(ctx context.Context, orderID uuid.UUID, sellerID string) (domain.Order, error)
	Cancel(ctx context.Context, orderID uuid.UUID, clientID string) (domain.Order, error)
	Complete(ctx context.Context, orderID uuid.UUID, sellerID string) (domain.Order, error)
}

type SellerOrderView interface {
	ListForSeller(ctx context.Context, sellerID string, query domain.SellerOrderQuery) ([]domain.SellerOrder, error)
}

type ClientOrderView interface {
	ListForClient(ctx context.Context, clientID string) ([]domain.ClientOrder, error)
	GetState(ctx context.Context, orderID uuid.UUID, clientID string) (domain.OrderState, error)
}

type Catalogue interface {
	UpsertProduct(ctx context.Context, sellerID string, product domain.Product) (domain.Product, error)
	ListAvailable(ctx context.Context) ([]domain.Product, error)
	ListForSeller(ctx context.Context, sellerID string) ([]domain.Product, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error)
}

type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Deps struct {
	Carts        CartService
	Checkout     CheckoutService
	StateMachine OrderStateMachine
	SellerOrders SellerOrderView
	ClientOrders ClientOrderView
	Catalogue    Catalogue
	Tokens       TokenValidator
	HealthChecks map[string]HealthCheck
}

type Handler struct {
	carts        CartService
	checkout     CheckoutService
	stateMachine OrderStateMachine
	sellerOrders SellerOrderView
	clientOrders ClientOrderView
	catalogue    Catalogue
	tokens       TokenValidator
	healthChecks map[string]HealthCheck
}

func NewHandler(deps Deps) (*Handler, error) {
	switch {
	case deps.Carts == nil:
		return nil, errors.New("carts is nil")
	case deps.Checkout == nil:
		return nil, errors.New("checkout is nil")
	case deps.StateMachine == nil:
		return nil, errors.New("state machine is nil")
	case deps.SellerOrders == nil:
		return nil, errors.New("seller orders is nil")
	case deps.ClientOrders == nil:
		return nil, errors.New("client orders is nil")
	case deps.Catalogue == nil:
		return nil, errors.New("catalogue is nil")
	case deps.Tokens == nil:
		return nil, errors.New("tokens is nil")
	}

	return &Handler{
		carts:        deps.Carts,
		checkout:     deps.Checkout,
		stateMachine: deps.StateMachine,
		sellerOrders: deps.SellerOrders,
		clientOrders: deps.ClientOrders,
		catalogue:    deps.Catalogue,
		tokens:       deps.Tokens,
		healthChecks: deps.HealthChecks,
	}, nil
}
