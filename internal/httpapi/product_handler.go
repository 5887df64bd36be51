package httpapi

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

func (h *Handler) listAvailableProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogue.ListAvailable(r.Context())
	if err != nil {
		writeError(w, r, "Handler.listAvailableProducts", err)
		return
	}

	writeJSON(w, http.StatusOK, lo.Map(products, toProductResponse))
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, "Handler.getProduct", err)
		return
	}

	product, err := h.catalogue.GetProduct(r.Context(), productID)
	if err != nil {
		writeError(w, r, "Handler.getProduct", err)
		return
	}

	writeJSON(w, http.StatusOK, toProductResponse(product, 0))
}

func (h *Handler) listSellerProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogue.ListForSeller(r.Context(), subject(r))
	if err != nil {
		writeError(w, r, "Handler.listSellerProducts", err)
		return
	}

	writeJSON(w, http.StatusOK, lo.Map(products, toProductResponse))
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	h.upsertProduct(w, r, "Handler.createProduct", uuid.Nil, http.StatusCreated)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, "Handler.updateProduct", err)
		return
	}

	h.upsertProduct(w, r, "Handler.updateProduct", productID, http.StatusOK)
}

func (h *Handler) upsertProduct(w http.ResponseWriter, r *http.Request, method string, productID uuid.UUID, status int) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, method, err)
		return
	}

	product, err := req.toDomain(productID)
	if err != nil {
		writeError(w, r, method, err)
		return
	}

	saved, err := h.catalogue.UpsertProduct(r.Context(), subject(r), product)
	if err != nil {
		writeError(w, r, method, err)
		return
	}

	writeJSON(w, status, toProductResponse(saved, 0))
}
