package cart

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Amount is a whole-unit price. Its decoder also accepts the historical
// string form ("$89.900") found in carts persisted by earlier releases,
// reducing it to its digits; anything unreadable becomes 0 rather than
// failing the whole cart load.
type Amount int64

func (a *Amount) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*a = Amount(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = ParseAmount(s)
		return nil
	}

	*a = 0
	return nil
}

// ParseAmount strips every non-digit character from a formatted price and
// parses the remainder, returning 0 when no digits remain.
func ParseAmount(value string) Amount {
	var digits strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0
	}
	n, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		return 0
	}
	return Amount(n)
}

// LineItem is one product+size selection in the cart. The JSON field names
// are part of the persisted-state contract.
type LineItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UnitPrice Amount    `json:"unitPrice"`
	Size      string    `json:"size"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
}
