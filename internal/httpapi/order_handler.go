package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/nikolayk812/surplus/internal/domain"
	"github.com/samber/lo"
)

const idempotencyKeyHeader = "Idempotency-Key"

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.checkout.Checkout(r.Context(), subject(r), r.Header.Get(idempotencyKeyHeader))
	if err != nil {
		writeError(w, r, "Handler.placeOrder", err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(order, nil))
}

func (h *Handler) listClientOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.clientOrders.ListForClient(r.Context(), subject(r))
	if err != nil {
		writeError(w, r, "Handler.listClientOrders", err)
		return
	}

	writeJSON(w, http.StatusOK, lo.Map(orders, func(o domain.ClientOrder, _ int) orderResponse {
		return toOrderResponse(o.Order, o.ProductNames)
	}))
}

func (h *Handler) getOrderState(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, "Handler.getOrderState", err)
		return
	}

	state, err := h.clientOrders.GetState(r.Context(), orderID, subject(r))
	if err != nil {
		writeError(w, r, "Handler.getOrderState", err)
		return
	}

	writeJSON(w, http.StatusOK, orderStateResponse{OrderID: orderID, State: state})
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Handler.cancelOrder", h.stateMachine.Cancel)
}

func (h *Handler) approveOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Handler.approveOrder", h.stateMachine.Approve)
}

func (h *Handler) rejectOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Handler.rejectOrder", h.stateMachine.Reject)
}

func (h *Handler) completeOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Handler.completeOrder", h.stateMachine.Complete)
}

type transitionFunc func(ctx context.Context, orderID uuid.UUID, actorID string) (domain.Order, error)

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, method string, apply transitionFunc) {
	orderID, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, method, err)
		return
	}

	order, err := apply(r.Context(), orderID, subject(r))
	if err != nil {
		writeError(w, r, method, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order, nil))
}

func (h *Handler) listSellerOrders(w http.ResponseWriter, r *http.Request) {
	query, err := sellerOrderQuery(r)
	if err != nil {
		writeError(w, r, "Handler.listSellerOrders", err)
		return
	}

	orders, err := h.sellerOrders.ListForSeller(r.Context(), subject(r), query)
	if err != nil {
		writeError(w, r, "Handler.listSellerOrders", err)
		return
	}

	writeJSON(w, http.StatusOK, lo.Map(orders, toSellerOrderResponse))
}

// sellerOrderQuery reads repeated ?state= params and an optional ?sort=.
func sellerOrderQuery(r *http.Request) (domain.SellerOrderQuery, error) {
	var query domain.SellerOrderQuery

	for _, raw := range r.URL.Query()["state"] {
		state, err := domain.ToOrderState(raw)
		if err != nil {
			return query, fmt.Errorf("state[%s]: %s: %w", raw, err, domain.ErrValidation)
		}
		query.States = append(query.States, state)
	}

	query.Sort = domain.SellerOrderSort(r.URL.Query().Get("sort"))

	return query, query.Validate()
}
