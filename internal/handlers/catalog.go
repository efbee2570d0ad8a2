package handlers

import (
	"net/http"

	"github.com/glamournym/nymshop/internal/currency"
)

type catalogProduct struct {
	Name               string   `json:"name"`
	UnitPrice          int64    `json:"unitPrice"`
	UnitPriceFormatted string   `json:"unitPriceFormatted"`
	Sizes              []string `json:"sizes"`
}

type catalogResponse struct {
	Shop struct {
		Name    string `json:"name"`
		Tagline string `json:"tagline"`
	} `json:"shop"`
	Products []catalogProduct `json:"products"`
}

// GetCatalog returns the shop identity and the active product list. Inactive
// products stay out of the response entirely.
func (h *Handlers) GetCatalog(w http.ResponseWriter, r *http.Request) {
	active := h.catalog.ActiveProducts()

	resp := catalogResponse{Products: make([]catalogProduct, 0, len(active))}
	resp.Shop.Name = h.catalog.Shop.Name
	resp.Shop.Tagline = h.catalog.Shop.Tagline
	for _, product := range active {
		resp.Products = append(resp.Products, catalogProduct{
			Name:               product.Name,
			UnitPrice:          product.UnitPrice,
			UnitPriceFormatted: currency.FormatInt(product.UnitPrice),
			Sizes:              product.Sizes,
		})
	}

	h.writeJSON(r.Context(), w, http.StatusOK, resp)
}
