package catalog

// Package catalog provides shop.yaml parsing: the shop identity block used
// on receipts and the product list the storefront renders.

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type ShopCatalog struct {
	Shop     ShopInfo        `yaml:"shop"`
	Products []ProductConfig `yaml:"products"`
}

type ShopInfo struct {
	Name          string `yaml:"name"`
	Tagline       string `yaml:"tagline"`
	Address       string `yaml:"address"`
	Phone         string `yaml:"phone"`
	Email         string `yaml:"email"`
	TaxID         string `yaml:"tax_id"`
	ReceiptPrefix string `yaml:"receipt_prefix"`
}

type ProductConfig struct {
	Name      string   `yaml:"name"`
	UnitPrice int64    `yaml:"unit_price"`
	Sizes     []string `yaml:"sizes"`
	Active    bool     `yaml:"active"`
}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(content []byte) (*ShopCatalog, error) {
	var cat ShopCatalog
	if err := yaml.Unmarshal(content, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cat.Shop.ReceiptPrefix == "" {
		cat.Shop.ReceiptPrefix = DefaultReceiptPrefix
	}

	return &cat, nil
}

// ParseFile reads and parses a shop.yaml from disk.
func (p *Parser) ParseFile(path string) (*ShopCatalog, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return p.Parse(content)
}

const DefaultReceiptPrefix = "NYM"

// ActiveProducts returns the products the storefront should offer, in file
// order.
func (c *ShopCatalog) ActiveProducts() []ProductConfig {
	active := make([]ProductConfig, 0, len(c.Products))
	for _, product := range c.Products {
		if product.Active {
			active = append(active, product)
		}
	}
	return active
}
