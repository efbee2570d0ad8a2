package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/glamournym/nymshop/internal/cart"
	"github.com/glamournym/nymshop/internal/catalog"
	"github.com/glamournym/nymshop/internal/config"
	"github.com/glamournym/nymshop/internal/receipt"
	"github.com/glamournym/nymshop/internal/storage"
)

func testCatalog() *catalog.ShopCatalog {
	return &catalog.ShopCatalog{
		Shop: catalog.ShopInfo{
			Name:          "GLAMOUR NYM",
			Tagline:       "Moda que te define",
			ReceiptPrefix: "NYM",
		},
		Products: []catalog.ProductConfig{
			{Name: "Pantalón Clásico", UnitPrice: 89900, Sizes: []string{"S", "M", "L"}, Active: true},
			{Name: "Blusa Elegante", UnitPrice: 65900, Sizes: []string{"S", "M"}, Active: true},
			{Name: "Vestido de Gala", UnitPrice: 249900, Sizes: []string{"M"}, Active: false},
		},
	}
}

func newTestHandlers(t *testing.T) *Handlers {
	t.Helper()
	ctx := context.Background()

	provider, err := storage.NewProvider(ctx, storage.Config{Provider: "memory"})
	if err != nil {
		t.Fatalf("NewProvider() = %v", err)
	}
	t.Cleanup(func() {
		if err := provider.Close(); err != nil {
			t.Errorf("provider.Close() = %v", err)
		}
	})

	shopCatalog := testCatalog()
	history, err := receipt.NewHistory(provider, nil)
	if err != nil {
		t.Fatalf("NewHistory() = %v", err)
	}
	generator, err := receipt.NewGenerator(shopCatalog.Shop, history, nil)
	if err != nil {
		t.Fatalf("NewGenerator() = %v", err)
	}

	h, err := New(Dependencies{
		Config:    &config.Config{},
		CartStore: cart.NewStore(ctx, provider, nil),
		Receipts:  generator,
		History:   history,
		Catalog:   shopCatalog,
	})
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	return h
}

// newTestRouter mirrors the production route table so path variables and
// route templates resolve the same way in tests.
func newTestRouter(h *Handlers) *mux.Router {
	r := mux.NewRouter()
	r.Use(h.RequestLogger)
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/api/catalog", h.GetCatalog).Methods(http.MethodGet)
	r.HandleFunc("/api/cart", h.GetCart).Methods(http.MethodGet)
	r.HandleFunc("/api/cart", h.ClearCart).Methods(http.MethodDelete)
	r.HandleFunc("/api/cart/items", h.AddItem).Methods(http.MethodPost)
	r.HandleFunc("/api/cart/items/{id}", h.UpdateItem).Methods(http.MethodPatch)
	r.HandleFunc("/api/cart/items/{id}", h.RemoveItem).Methods(http.MethodDelete)
	r.HandleFunc("/api/checkout", h.Checkout).Methods(http.MethodPost)
	r.HandleFunc("/api/receipts", h.ListReceipts).Methods(http.MethodGet)
	r.HandleFunc("/api/receipts/prune", h.PruneReceipts).Methods(http.MethodPost)
	r.HandleFunc("/receipts/{number}", h.GetReceiptDocument).Methods(http.MethodGet)
	return r
}

func doRequest(t *testing.T, router *mux.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeCart(t *testing.T, body []byte) cartResponse {
	t.Helper()
	var resp cartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("failed to decode cart response: %v", err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	t.Parallel()

	router := newTestRouter(newTestHandlers(t))
	w := doRequest(t, router, http.MethodGet, "/healthz", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if got := w.Header().Get("X-Request-ID"); got == "" {
		t.Error("expected an X-Request-ID header")
	}
}

func TestGetCatalog(t *testing.T) {
	t.Parallel()

	router := newTestRouter(newTestHandlers(t))
	w := doRequest(t, router, http.MethodGet, "/api/catalog", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp catalogResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode catalog response: %v", err)
	}
	if resp.Shop.Name != "GLAMOUR NYM" {
		t.Errorf("shop name = %q, want %q", resp.Shop.Name, "GLAMOUR NYM")
	}
	if len(resp.Products) != 2 {
		t.Fatalf("len(products) = %d, want 2 (inactive products excluded)", len(resp.Products))
	}
	if resp.Products[0].UnitPriceFormatted != "$89.900" {
		t.Errorf("formatted price = %q, want %q", resp.Products[0].UnitPriceFormatted, "$89.900")
	}
}

func TestAddItem(t *testing.T) {
	t.Parallel()

	router := newTestRouter(newTestHandlers(t))

	w := doRequest(t, router, http.MethodPost, "/api/cart/items",
		`{"name":"Pantalón Clásico","price":89900,"size":"M","quantity":2}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var resp struct {
		Item cart.LineItem `json:"item"`
		Cart cartResponse  `json:"cart"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Item.Quantity != 2 {
		t.Errorf("item quantity = %d, want 2", resp.Item.Quantity)
	}
	if resp.Cart.TotalQuantity != 2 {
		t.Errorf("totalQuantity = %d, want 2", resp.Cart.TotalQuantity)
	}
	if got := resp.Cart.Summary.Formatted.Subtotal; got != "$179.800" {
		t.Errorf("formatted subtotal = %q, want %q", got, "$179.800")
	}

	// Same name and size merges into the existing line.
	w = doRequest(t, router, http.MethodPost, "/api/cart/items",
		`{"name":"Pantalón Clásico","price":89900,"size":"M","quantity":1}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	cartNow := decodeCart(t, doRequest(t, router, http.MethodGet, "/api/cart", "").Body.Bytes())
	if len(cartNow.Items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(cartNow.Items))
	}
	if cartNow.Items[0].Quantity != 3 {
		t.Errorf("merged quantity = %d, want 3", cartNow.Items[0].Quantity)
	}
}

func TestAddItemValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"price":89900,"size":"M","quantity":1}`},
		{"missing size", `{"name":"Pantalón Clásico","price":89900,"quantity":1}`},
		{"negative price", `{"name":"Pantalón Clásico","price":-1,"size":"M","quantity":1}`},
		{"zero quantity", `{"name":"Pantalón Clásico","price":89900,"size":"M","quantity":0}`},
		{"unknown field", `{"name":"Pantalón Clásico","price":89900,"size":"M","quantity":1,"color":"red"}`},
		{"not json", `not json`},
	}

	router := newTestRouter(newTestHandlers(t))
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodPost, "/api/cart/items", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}

	cartNow := decodeCart(t, doRequest(t, router, http.MethodGet, "/api/cart", "").Body.Bytes())
	if len(cartNow.Items) != 0 {
		t.Errorf("len(items) = %d, want 0 after rejected adds", len(cartNow.Items))
	}
}

func TestUpdateAndRemoveItem(t *testing.T) {
	t.Parallel()

	router := newTestRouter(newTestHandlers(t))
	w := doRequest(t, router, http.MethodPost, "/api/cart/items",
		`{"name":"Blusa Elegante","price":65900,"size":"S","quantity":1}`)
	var added struct {
		Item cart.LineItem `json:"item"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &added); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	w = doRequest(t, router, http.MethodPatch, "/api/cart/items/"+added.Item.ID, `{"quantity":4}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if got := decodeCart(t, w.Body.Bytes()).Items[0].Quantity; got != 4 {
		t.Errorf("quantity = %d, want 4", got)
	}

	// Zero quantity drops the line.
	w = doRequest(t, router, http.MethodPatch, "/api/cart/items/"+added.Item.ID, `{"quantity":0}`)
	if got := len(decodeCart(t, w.Body.Bytes()).Items); got != 0 {
		t.Errorf("len(items) = %d, want 0", got)
	}

	// Removing an unknown line is a no-op, not an error.
	w = doRequest(t, router, http.MethodDelete, "/api/cart/items/item_123_abcdefghi", "")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestClearCart(t *testing.T) {
	t.Parallel()

	router := newTestRouter(newTestHandlers(t))
	doRequest(t, router, http.MethodPost, "/api/cart/items",
		`{"name":"Blusa Elegante","price":65900,"size":"S","quantity":2}`)

	w := doRequest(t, router, http.MethodDelete, "/api/cart", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	resp := decodeCart(t, w.Body.Bytes())
	if len(resp.Items) != 0 || resp.TotalQuantity != 0 {
		t.Errorf("cart not empty after clear: %+v", resp)
	}
	// An empty cart still quotes base shipping.
	if got := resp.Summary.Formatted.Total; got != "$15.000" {
		t.Errorf("empty cart total = %q, want %q", got, "$15.000")
	}
}

func TestCheckout(t *testing.T) {
	t.Parallel()

	router := newTestRouter(newTestHandlers(t))
	doRequest(t, router, http.MethodPost, "/api/cart/items",
		`{"name":"Pantalón Clásico","price":89900,"size":"M","quantity":2}`)

	w := doRequest(t, router, http.MethodPost, "/api/checkout", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var resp checkoutResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode checkout response: %v", err)
	}
	if !strings.HasPrefix(resp.Number, "NYM-") {
		t.Errorf("receipt number = %q, want NYM- prefix", resp.Number)
	}
	// 179800 subtotal: no discount, reduced shipping.
	if got := resp.Summary.Formatted.Total; got != "$189.800" {
		t.Errorf("total = %q, want %q", got, "$189.800")
	}

	// The cart is cleared once the receipt is recorded.
	cartNow := decodeCart(t, doRequest(t, router, http.MethodGet, "/api/cart", "").Body.Bytes())
	if len(cartNow.Items) != 0 {
		t.Errorf("len(items) = %d, want 0 after checkout", len(cartNow.Items))
	}

	// The printable document is served from the history.
	doc := doRequest(t, router, http.MethodGet, resp.DocumentURL, "")
	if doc.Code != http.StatusOK {
		t.Fatalf("document status = %d, want %d", doc.Code, http.StatusOK)
	}
	if ct := doc.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
	if !strings.Contains(doc.Body.String(), resp.Number) {
		t.Error("document does not contain the receipt number")
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	t.Parallel()

	router := newTestRouter(newTestHandlers(t))
	w := doRequest(t, router, http.MethodPost, "/api/checkout", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	receipts := doRequest(t, router, http.MethodGet, "/api/receipts", "")
	var listed struct {
		Receipts []receiptSummary `json:"receipts"`
	}
	if err := json.Unmarshal(receipts.Body.Bytes(), &listed); err != nil {
		t.Fatalf("failed to decode receipts response: %v", err)
	}
	if len(listed.Receipts) != 0 {
		t.Errorf("len(receipts) = %d, want 0", len(listed.Receipts))
	}
}

func TestListReceipts(t *testing.T) {
	t.Parallel()

	router := newTestRouter(newTestHandlers(t))
	for i := 0; i < 3; i++ {
		doRequest(t, router, http.MethodPost, "/api/cart/items",
			`{"name":"Blusa Elegante","price":65900,"size":"S","quantity":1}`)
		if w := doRequest(t, router, http.MethodPost, "/api/checkout", ""); w.Code != http.StatusCreated {
			t.Fatalf("checkout status = %d, want %d", w.Code, http.StatusCreated)
		}
	}

	w := doRequest(t, router, http.MethodGet, "/api/receipts", "")
	var listed struct {
		Receipts []receiptSummary `json:"receipts"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("failed to decode receipts response: %v", err)
	}
	if len(listed.Receipts) != 3 {
		t.Fatalf("len(receipts) = %d, want 3", len(listed.Receipts))
	}
	for _, summary := range listed.Receipts {
		if summary.TotalFormatted != "$80.900" { // 65900 + 15000 shipping
			t.Errorf("totalFormatted = %q, want %q", summary.TotalFormatted, "$80.900")
		}
		if summary.DocumentURL != "/receipts/"+summary.Number {
			t.Errorf("documentUrl = %q, want %q", summary.DocumentURL, "/receipts/"+summary.Number)
		}
	}
}

func TestGetReceiptDocumentNotFound(t *testing.T) {
	t.Parallel()

	router := newTestRouter(newTestHandlers(t))
	w := doRequest(t, router, http.MethodGet, "/receipts/NYM-20250101000000-1234", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestPruneReceipts(t *testing.T) {
	t.Parallel()

	router := newTestRouter(newTestHandlers(t))
	doRequest(t, router, http.MethodPost, "/api/cart/items",
		`{"name":"Blusa Elegante","price":65900,"size":"S","quantity":1}`)
	doRequest(t, router, http.MethodPost, "/api/checkout", "")

	w := doRequest(t, router, http.MethodPost, "/api/receipts/prune", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp map[string]int
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode prune response: %v", err)
	}
	// A just-created receipt is well inside the retention window.
	if resp["pruned"] != 0 {
		t.Errorf("pruned = %d, want 0", resp["pruned"])
	}
}

func TestNewRequiresDependencies(t *testing.T) {
	t.Parallel()

	if _, err := New(Dependencies{}); err == nil {
		t.Error("New() with no dependencies succeeded, want error")
	}
}
