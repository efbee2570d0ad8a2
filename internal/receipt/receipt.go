package receipt

// Package receipt turns a finalized cart snapshot plus its pricing summary
// into a printable document and a bounded history record.

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/glamournym/nymshop/internal/cart"
	"github.com/glamournym/nymshop/internal/catalog"
	"github.com/glamournym/nymshop/internal/ident"
	"github.com/glamournym/nymshop/internal/pricing"
)

// Record is one completed checkout as persisted in the history. The JSON
// field names are part of the persisted-state contract.
type Record struct {
	Number    string          `json:"number"`
	CreatedAt time.Time       `json:"createdAt"`
	Total     decimal.Decimal `json:"total"`
	Document  string          `json:"document"`
}

type Generator struct {
	shop    catalog.ShopInfo
	history *History
	logger  *slog.Logger
}

func NewGenerator(shop catalog.ShopInfo, history *History, logger *slog.Logger) (*Generator, error) {
	if history == nil {
		return nil, fmt.Errorf("receipt history is required")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if shop.ReceiptPrefix == "" {
		shop.ReceiptPrefix = catalog.DefaultReceiptPrefix
	}

	return &Generator{
		shop:    shop,
		history: history,
		logger:  logger,
	}, nil
}

// Generate builds the printable document for the snapshot, assigns a fresh
// receipt number, and appends the record to the history. On any failure
// nothing is persisted and the caller's cart must be left untouched.
func (g *Generator) Generate(ctx context.Context, items []cart.LineItem, summary pricing.Summary) (Record, error) {
	if len(items) == 0 {
		return Record{}, fmt.Errorf("cannot generate a receipt for an empty cart")
	}

	number := ident.ReceiptNumber(g.shop.ReceiptPrefix)
	createdAt := time.Now()

	document, err := renderDocument(g.shop, number, createdAt, items, summary)
	if err != nil {
		return Record{}, fmt.Errorf("failed to render receipt document: %w", err)
	}

	record := Record{
		Number:    number,
		CreatedAt: createdAt.UTC(),
		Total:     summary.Total,
		Document:  document,
	}

	if err := g.history.Append(ctx, record); err != nil {
		return Record{}, fmt.Errorf("failed to persist receipt %s: %w", number, err)
	}

	g.logger.Info("receipt generated", "number", number, "total", summary.Total.String(), "lines", len(items))
	return record, nil
}
