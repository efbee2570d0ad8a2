package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/glamournym/nymshop/internal/cart"
	"github.com/glamournym/nymshop/internal/currency"
	"github.com/glamournym/nymshop/internal/pricing"
)

type cartResponse struct {
	Items         []cart.LineItem `json:"items"`
	TotalQuantity int             `json:"totalQuantity"`
	Summary       summaryResponse `json:"summary"`
}

type summaryResponse struct {
	Subtotal  decimal.Decimal  `json:"subtotal"`
	Discount  decimal.Decimal  `json:"discount"`
	Shipping  decimal.Decimal  `json:"shipping"`
	Total     decimal.Decimal  `json:"total"`
	Formatted formattedSummary `json:"formatted"`
}

type formattedSummary struct {
	Subtotal string `json:"subtotal"`
	Discount string `json:"discount"`
	Shipping string `json:"shipping"`
	Total    string `json:"total"`
}

func newSummaryResponse(summary pricing.Summary) summaryResponse {
	return summaryResponse{
		Subtotal: summary.Subtotal,
		Discount: summary.Discount,
		Shipping: summary.Shipping,
		Total:    summary.Total,
		Formatted: formattedSummary{
			Subtotal: currency.Format(summary.Subtotal),
			Discount: currency.Format(summary.Discount),
			Shipping: currency.Format(summary.Shipping),
			Total:    currency.Format(summary.Total),
		},
	}
}

func (h *Handlers) newCartResponse() cartResponse {
	items := h.cartStore.Items()
	return cartResponse{
		Items:         items,
		TotalQuantity: h.cartStore.TotalQuantity(),
		Summary:       newSummaryResponse(pricing.Compute(items)),
	}
}

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(r.Context(), w, http.StatusOK, h.newCartResponse())
}

type addItemRequest struct {
	Name     string `json:"name" validate:"required"`
	Price    int64  `json:"price" validate:"gte=0"`
	Size     string `json:"size" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=1"`
}

func (h *Handlers) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}
	if err := payloadValidator.Struct(req); err != nil {
		h.loggerFromContext(ctx).Warn("rejected cart item", "error", err)
		h.writeError(ctx, w, http.StatusBadRequest, "name and size are required, price must be >= 0 and quantity >= 1")
		return
	}

	item := h.cartStore.Add(ctx, req.Name, cart.Amount(req.Price), req.Size, req.Quantity)
	h.loggerFromContext(ctx).Info("item added to cart",
		"item_id", item.ID,
		"name", item.Name,
		"quantity", item.Quantity,
	)

	h.writeJSON(ctx, w, http.StatusCreated, struct {
		Item cart.LineItem `json:"item"`
		Cart cartResponse  `json:"cart"`
	}{Item: item, Cart: h.newCartResponse()})
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateItem sets the quantity of a cart line. A quantity of zero or below
// removes the line, mirroring the decrement-to-zero flow in the UI.
func (h *Handlers) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	itemID := mux.Vars(r)["id"]

	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	h.cartStore.UpdateQuantity(ctx, itemID, req.Quantity)
	h.writeJSON(ctx, w, http.StatusOK, h.newCartResponse())
}

func (h *Handlers) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.cartStore.Remove(ctx, mux.Vars(r)["id"])
	h.writeJSON(ctx, w, http.StatusOK, h.newCartResponse())
}

func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.cartStore.Clear(ctx)
	h.writeJSON(ctx, w, http.StatusOK, h.newCartResponse())
}
