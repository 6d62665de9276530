package extract

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// NormalizePrice converts localized price text ("R$ 49,99", "$99.99",
// "1.234,56") into a decimal value.
//
// The disambiguation policy between comma and dot:
//   - Both present: whichever occurs last is the decimal separator; the other
//     is a thousands separator and is removed.
//   - Only comma: treated as the decimal separator. This makes a
//     thousands-only comma ("1,234") parse as 1.234. The ambiguity is known
//     and the behavior is deliberate, not something to silently correct.
//   - Only dot or neither: parsed as-is.
//
// Returns ErrPriceNotFound if the remaining text is not a valid number.
func NormalizePrice(raw string) (decimal.Decimal, error) {
	cleaned := stripNonNumeric(raw)
	if cleaned == "" {
		return decimal.Decimal{}, fmt.Errorf("normalize %q: %w", raw, ErrPriceNotFound)
	}

	lastComma := strings.LastIndex(cleaned, ",")
	lastDot := strings.LastIndex(cleaned, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			// 1.234,56 → comma is decimal
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		} else {
			// 1,234.56 → dot is decimal
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastComma >= 0:
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	price, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("normalize %q: %w", raw, ErrPriceNotFound)
	}
	return price, nil
}

// stripNonNumeric removes everything except digits, dots, and commas.
// Currency symbols, spaces, and letters all disappear here.
func stripNonNumeric(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
