package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/glamournym/nymshop/internal/currency"
	"github.com/glamournym/nymshop/internal/storage"
)

// maxReceiptAge is how long receipts survive an explicit prune request.
const maxReceiptAge = 30 * 24 * time.Hour

type receiptSummary struct {
	Number         string          `json:"number"`
	CreatedAt      time.Time       `json:"createdAt"`
	Total          decimal.Decimal `json:"total"`
	TotalFormatted string          `json:"totalFormatted"`
	DocumentURL    string          `json:"documentUrl"`
}

func (h *Handlers) ListReceipts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records := h.history.List(ctx)
	summaries := make([]receiptSummary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, receiptSummary{
			Number:         record.Number,
			CreatedAt:      record.CreatedAt,
			Total:          record.Total,
			TotalFormatted: currency.Format(record.Total),
			DocumentURL:    "/receipts/" + record.Number,
		})
	}

	h.writeJSON(ctx, w, http.StatusOK, struct {
		Receipts []receiptSummary `json:"receipts"`
	}{Receipts: summaries})
}

// GetReceiptDocument serves the stored printable document for one receipt.
func (h *Handlers) GetReceiptDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	number := mux.Vars(r)["number"]

	record, err := h.history.Get(ctx, number)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.writeError(ctx, w, http.StatusNotFound, "receipt not found")
			return
		}
		h.loggerFromContext(ctx).Error("failed to load receipt", "error", err, "number", number)
		h.writeError(ctx, w, http.StatusInternalServerError, "could not load the receipt")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(record.Document)); err != nil {
		h.loggerFromContext(ctx).Error("failed to write receipt document", "error", err, "number", number)
	}
}

func (h *Handlers) PruneReceipts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pruned, err := h.history.PruneOlderThan(ctx, maxReceiptAge)
	if err != nil {
		h.loggerFromContext(ctx).Error("receipt prune failed", "error", err, "pruned", pruned)
		h.writeError(ctx, w, http.StatusInternalServerError, "could not prune receipts")
		return
	}

	h.loggerFromContext(ctx).Info("receipts pruned", "count", pruned)
	h.writeJSON(ctx, w, http.StatusOK, map[string]int{"pruned": pruned})
}
