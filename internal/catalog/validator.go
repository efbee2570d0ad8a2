package catalog

import (
	"fmt"
	"regexp"
	"strings"
)

type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

var receiptPrefixRegex = regexp.MustCompile(`^[A-Z][A-Z0-9]{1,7}$`)

// IsValidReceiptPrefix validates the receipt-number prefix format
// (2-8 uppercase alphanumerics, letter first).
func IsValidReceiptPrefix(prefix string) bool {
	return receiptPrefixRegex.MatchString(prefix)
}

func (v *Validator) Validate(cat *ShopCatalog) error {
	if err := v.validateShop(&cat.Shop); err != nil {
		return fmt.Errorf("shop validation failed: %w", err)
	}

	if len(cat.Products) == 0 {
		return fmt.Errorf("at least one product is required")
	}

	names := make(map[string]bool)
	for i, product := range cat.Products {
		if err := v.validateProduct(&product); err != nil {
			return fmt.Errorf("product %d validation failed: %w", i, err)
		}

		if names[product.Name] {
			return fmt.Errorf("duplicate product name: %s", product.Name)
		}
		names[product.Name] = true
	}

	return nil
}

func (v *Validator) validateShop(shop *ShopInfo) error {
	if strings.TrimSpace(shop.Name) == "" {
		return fmt.Errorf("shop name is required")
	}

	if !IsValidReceiptPrefix(shop.ReceiptPrefix) {
		return fmt.Errorf("receipt prefix must be 2-8 uppercase alphanumerics starting with a letter")
	}

	return nil
}

func (v *Validator) validateProduct(product *ProductConfig) error {
	if strings.TrimSpace(product.Name) == "" {
		return fmt.Errorf("product name is required")
	}

	if product.UnitPrice <= 0 {
		return fmt.Errorf("product unit price must be positive")
	}

	sizes := make(map[string]bool)
	for _, size := range product.Sizes {
		if strings.TrimSpace(size) == "" {
			return fmt.Errorf("product sizes cannot be blank")
		}
		if sizes[size] {
			return fmt.Errorf("duplicate size %q for product %s", size, product.Name)
		}
		sizes[size] = true
	}

	return nil
}
