package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/glamournym/nymshop/internal/cart"
	"github.com/glamournym/nymshop/internal/catalog"
	"github.com/glamournym/nymshop/internal/config"
	"github.com/glamournym/nymshop/internal/logging"
	"github.com/glamournym/nymshop/internal/receipt"
)

const maxRequestBodyBytes = 64 << 10 // 64 KB

// Handlers provides the HTTP request handlers for the storefront API. Only
// validated primitives cross this boundary; the UI layer never reaches the
// stores directly.
type Handlers struct {
	config    *config.Config
	cartStore *cart.Store
	receipts  *receipt.Generator
	history   *receipt.History
	catalog   *catalog.ShopCatalog
	logger    *slog.Logger
}

type Dependencies struct {
	Config    *config.Config
	CartStore *cart.Store
	Receipts  *receipt.Generator
	History   *receipt.History
	Catalog   *catalog.ShopCatalog
	Logger    *slog.Logger
}

func New(deps Dependencies) (*Handlers, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if deps.Config == nil {
		return nil, fmt.Errorf("handlers dependencies: config is required")
	}
	if deps.CartStore == nil {
		return nil, fmt.Errorf("handlers dependencies: cartStore is required")
	}
	if deps.Receipts == nil {
		return nil, fmt.Errorf("handlers dependencies: receipts is required")
	}
	if deps.History == nil {
		return nil, fmt.Errorf("handlers dependencies: history is required")
	}
	if deps.Catalog == nil {
		return nil, fmt.Errorf("handlers dependencies: catalog is required")
	}

	return &Handlers{
		config:    deps.Config,
		cartStore: deps.CartStore,
		receipts:  deps.Receipts,
		history:   deps.History,
		catalog:   deps.Catalog,
		logger:    logger.With("component", "handlers"),
	}, nil
}

var payloadValidator = validator.New()

func (h *Handlers) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, h.logger)
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handlers) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.loggerFromContext(ctx).Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) writeError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	h.writeJSON(ctx, w, status, map[string]string{"error": message})
}

// decodeJSON reads and decodes a bounded request body. Unknown fields are
// rejected so typos at the boundary fail loudly instead of defaulting.
func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
