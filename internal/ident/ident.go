package ident

// Package ident generates the opaque identifiers persisted by the cart and
// the receipt history. Both formats combine a clock component with a random
// suffix; neither is cryptographic, and neither needs to be — collisions
// within one resolution window are defeated by the suffix alone.

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

const (
	lineItemPrefix  = "item"
	suffixAlphabet  = "abcdefghijklmnopqrstuvwxyz0123456789"
	suffixLength    = 9
	receiptTimeForm = "20060102150405"
)

// LineItemID returns a cart-line identifier: "item_<unix-millis>_<suffix>",
// millisecond resolution plus nine random base36 characters.
func LineItemID() string {
	return fmt.Sprintf("%s_%d_%s", lineItemPrefix, time.Now().UnixMilli(), randomSuffix(suffixLength))
}

// ReceiptNumber returns a receipt number: "PREFIX-YYYYMMDDHHMMSS-NNNN",
// second resolution plus a random four-digit suffix (1000-9999).
func ReceiptNumber(prefix string) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, time.Now().Format(receiptTimeForm), 1000+rand.Intn(9000))
}

func randomSuffix(length int) string {
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		b.WriteByte(suffixAlphabet[rand.Intn(len(suffixAlphabet))])
	}
	return b.String()
}
