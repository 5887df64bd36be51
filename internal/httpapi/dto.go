package httpapi

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/surplus/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const dateLayout = time.DateOnly

type cartLineRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type cartResponse struct {
	ClientID  string             `json:"client_id"`
	Lines     []cartLineResponse `json:"lines"`
	UpdatedAt *time.Time         `json:"updated_at,omitempty"`
}

type cartLineResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	SellerID  string    `json:"seller_id"`
	Quantity  int       `json:"quantity"`
}

func toCartResponse(cart domain.Cart) cartResponse {
	resp := cartResponse{
		ClientID: cart.ClientID,
		Lines: lo.Map(cart.Lines, func(l domain.CartLine, _ int) cartLineResponse {
			return cartLineResponse{ProductID: l.ProductID, SellerID: l.SellerID, Quantity: l.Quantity}
		}),
	}
	if !cart.UpdatedAt.IsZero() {
		resp.UpdatedAt = &cart.UpdatedAt
	}
	return resp
}

type orderResponse struct {
	ID        uuid.UUID           `json:"id"`
	ClientID  string              `json:"client_id"`
	Sellers   []string            `json:"sellers"`
	State     domain.OrderState   `json:"state"`
	Lines     []orderLineResponse `json:"lines"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

type orderLineResponse struct {
	ProductID   uuid.UUID `json:"product_id"`
	SellerID    string    `json:"seller_id"`
	Quantity    int       `json:"quantity"`
	ProductName string    `json:"product_name,omitempty"`
}

func toOrderResponse(order domain.Order, names map[uuid.UUID]string) orderResponse {
	return orderResponse{
		ID:       order.ID,
		ClientID: order.ClientID,
		Sellers:  order.Sellers,
		State:    order.State,
		Lines: lo.Map(order.Lines, func(l domain.OrderLine, _ int) orderLineResponse {
			return orderLineResponse{
				ProductID:   l.ProductID,
				SellerID:    l.SellerID,
				Quantity:    l.Quantity,
				ProductName: names[l.ProductID],
			}
		}),
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}
}

type orderStateResponse struct {
	OrderID uuid.UUID         `json:"order_id"`
	State   domain.OrderState `json:"state"`
}

type sellerOrderResponse struct {
	OrderID   uuid.UUID                 `json:"order_id"`
	ClientID  string                    `json:"client_id"`
	State     domain.OrderState         `json:"state"`
	Lines     []sellerOrderLineResponse `json:"lines"`
	CreatedAt time.Time                 `json:"created_at"`
}

type sellerOrderLineResponse struct {
	ProductID         uuid.UUID            `json:"product_id"`
	Quantity          int                  `json:"quantity"`
	ProductName       string               `json:"product_name"`
	QuantityAvailable int                  `json:"quantity_available"`
	ProductStatus     domain.ProductStatus `json:"product_status"`
}

func toSellerOrderResponse(order domain.SellerOrder, _ int) sellerOrderResponse {
	return sellerOrderResponse{
		OrderID:  order.OrderID,
		ClientID: order.ClientID,
		State:    order.State,
		Lines: lo.Map(order.Lines, func(l domain.SellerOrderLine, _ int) sellerOrderLineResponse {
			return sellerOrderLineResponse(l)
		}),
		CreatedAt: order.CreatedAt,
	}
}

type moneyDTO struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

type productRequest struct {
	Name     string   `json:"name"`
	Price    moneyDTO `json:"price"`
	Quantity int      `json:"quantity"`
	Status   string   `json:"status,omitempty"`
	Expiry   string   `json:"expiry"`
	// Version is the one last read, required on update.
	Version int64 `json:"version,omitempty"`
}

func (req productRequest) toDomain(id uuid.UUID) (domain.Product, error) {
	var p domain.Product

	unit, err := currency.ParseISO(req.Price.Currency)
	if err != nil {
		return p, fmt.Errorf("currency[%s] is not valid: %w", req.Price.Currency, domain.ErrValidation)
	}

	expiry, err := time.Parse(dateLayout, req.Expiry)
	if err != nil {
		return p, fmt.Errorf("expiry[%s] is not a date: %w", req.Expiry, domain.ErrValidation)
	}

	var status domain.ProductStatus
	if req.Status != "" {
		status, err = domain.ToProductStatus(req.Status)
		if err != nil {
			return p, fmt.Errorf("%s: %w", err, domain.ErrValidation)
		}
	}

	return domain.Product{
		ID:       id,
		Name:     req.Name,
		Price:    domain.Money{Amount: req.Price.Amount, Currency: unit},
		Quantity: req.Quantity,
		Status:   status,
		Expiry:   expiry,
		Version:  req.Version,
	}, nil
}

type productResponse struct {
	ID       uuid.UUID            `json:"id"`
	SellerID string               `json:"seller_id"`
	Name     string               `json:"name"`
	Price    moneyDTO             `json:"price"`
	Quantity int                  `json:"quantity"`
	Status   domain.ProductStatus `json:"status"`
	Expiry   string               `json:"expiry"`
	Version  int64                `json:"version"`
}

func toProductResponse(p domain.Product, _ int) productResponse {
	return productResponse{
		ID:       p.ID,
		SellerID: p.SellerID,
		Name:     p.Name,
		Price:    moneyDTO{Amount: p.Price.Amount, Currency: p.Price.Currency.String()},
		Quantity: p.Quantity,
		Status:   p.Status,
		Expiry:   p.Expiry.Format(dateLayout),
		Version:  p.Version,
	}
}
