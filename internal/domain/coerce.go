package domain

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ClampQuantity enforces the minimum quantity of 1.
func ClampQuantity(q int) int {
	if q < 1 {
		return 1
	}
	return q
}

// ParseQuantity reads the leading base-10 integer of s, the way form inputs
// arrive. Anything without a leading integer becomes 1.
func ParseQuantity(s string) int {
	s = strings.TrimSpace(s)

	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 1
	}

	n, err := strconv.Atoi(s[:end])
	if errors.Is(err, strconv.ErrRange) && s[0] != '-' {
		return math.MaxInt
	}
	if err != nil {
		return 1
	}

	return ClampQuantity(n)
}

// QuantityFromJSON accepts a JSON number or string. Fractions are truncated
// and values beyond the int range saturate at math.MaxInt.
func QuantityFromJSON(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 1
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ParseQuantity(s)
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 1
	}

	if i, err := strconv.ParseInt(n.String(), 10, strconv.IntSize); err == nil {
		return ClampQuantity(int(i))
	}

	// fractions, exponents and out-of-range integers
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return 1
	}
	d = d.Truncate(0)
	if d.GreaterThan(decimal.NewFromInt(int64(math.MaxInt))) {
		return math.MaxInt
	}
	if d.LessThan(decimal.NewFromInt(1)) {
		return 1
	}

	return int(d.IntPart())
}

// AddQuantity sums two quantities, saturating at math.MaxInt.
func AddQuantity(a, b int) int {
	if b > 0 && a > math.MaxInt-b {
		return math.MaxInt
	}
	return ClampQuantity(a + b)
}

// ParsePrice reads a price from a JSON number or numeric string.
// Absent, invalid and negative prices become zero.
func ParsePrice(raw json.RawMessage) decimal.Decimal {
	if len(raw) == 0 || string(raw) == "null" {
		return decimal.Zero
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			return decimal.Zero
		}
		raw = json.RawMessage(s)
	}

	d, err := decimal.NewFromString(string(raw))
	if err != nil {
		return decimal.Zero
	}

	return NonNegative(d)
}

func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
