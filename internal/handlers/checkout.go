package handlers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/glamournym/nymshop/internal/pricing"
)

type checkoutResponse struct {
	Number      string          `json:"number"`
	CreatedAt   time.Time       `json:"createdAt"`
	Total       decimal.Decimal `json:"total"`
	DocumentURL string          `json:"documentUrl"`
	Summary     summaryResponse `json:"summary"`
}

// Checkout turns the current cart into a receipt. The cart is cleared only
// after the receipt is durably recorded, so a failed checkout leaves the
// customer's selection intact for a retry.
func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.loggerFromContext(ctx)

	items := h.cartStore.Items()
	if len(items) == 0 {
		h.writeError(ctx, w, http.StatusBadRequest, "cart is empty")
		return
	}

	summary := pricing.Compute(items)
	record, err := h.receipts.Generate(ctx, items, summary)
	if err != nil {
		logger.Error("checkout failed", "error", err)
		h.writeError(ctx, w, http.StatusInternalServerError, "could not generate the receipt, please try again")
		return
	}

	h.cartStore.Clear(ctx)
	logger.Info("checkout completed",
		"receipt_number", record.Number,
		"total", record.Total.String(),
		"lines", len(items),
	)

	h.writeJSON(ctx, w, http.StatusCreated, checkoutResponse{
		Number:      record.Number,
		CreatedAt:   record.CreatedAt,
		Total:       record.Total,
		DocumentURL: "/receipts/" + record.Number,
		Summary:     newSummaryResponse(summary),
	})
}
