package httpapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nikolayk812/surplus/internal/domain"
)

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.carts.Get(r.Context(), subject(r))
	if err != nil {
		writeError(w, r, "Handler.getCart", err)
		return
	}

	writeJSON(w, http.StatusOK, toCartResponse(cart))
}

func (h *Handler) addCartLine(w http.ResponseWriter, r *http.Request) {
	var req cartLineRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, "Handler.addCartLine", err)
		return
	}

	cart, err := h.carts.AddLine(r.Context(), subject(r), req.ProductID, req.Quantity)
	if err != nil {
		writeError(w, r, "Handler.addCartLine", err)
		return
	}

	writeJSON(w, http.StatusOK, toCartResponse(cart))
}

func (h *Handler) removeCartLine(w http.ResponseWriter, r *http.Request) {
	productID, err := uuidParam(r, "productID")
	if err != nil {
		writeError(w, r, "Handler.removeCartLine", err)
		return
	}

	cart, err := h.carts.RemoveLine(r.Context(), subject(r), productID)
	if err != nil {
		writeError(w, r, "Handler.removeCartLine", err)
		return
	}

	writeJSON(w, http.StatusOK, toCartResponse(cart))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Clear(r.Context(), subject(r)); err != nil {
		writeError(w, r, "Handler.clearCart", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s[%s] is not a uuid: %w", name, raw, domain.ErrValidation)
	}

	return id, nil
}
