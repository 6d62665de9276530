package extract

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePrice(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "brazilian currency", raw: "R$ 49,99", want: "49.99"},
		{name: "dot thousands comma decimal", raw: "1.234,56", want: "1234.56"},
		{name: "comma thousands dot decimal", raw: "1,234.56", want: "1234.56"},
		{name: "dollar sign", raw: "$99.99", want: "99.99"},
		{name: "plain number", raw: "99.99", want: "99.99"},
		{name: "integer", raw: "199", want: "199"},
		{name: "currency suffix", raw: "49,90 EUR", want: "49.9"},
		{name: "surrounding whitespace", raw: "  R$ 12,00  ", want: "12"},
		{name: "large grouped value", raw: "R$ 1.234.567,89", want: "1234567.89"},

		// Thousands-only comma: reproduced ambiguity, not a bug to fix.
		{name: "thousands-only comma", raw: "1,234", want: "1.234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePrice(tt.raw)
			require.NoError(t, err)
			want, err := decimal.NewFromString(tt.want)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "want %s, got %s", want, got)
		})
	}
}

func TestNormalizePriceFailures(t *testing.T) {
	for _, raw := range []string{"", "abc", "R$", "...", ",,", "1.2.3,4,5"} {
		t.Run(fmt.Sprintf("raw=%q", raw), func(t *testing.T) {
			_, err := NormalizePrice(raw)
			assert.ErrorIs(t, err, ErrPriceNotFound)
		})
	}
}

// TestNormalizePriceRoundTrip formats two-fraction-digit decimals in a
// comma-decimal locale style and normalizes them back.
func TestNormalizePriceRoundTrip(t *testing.T) {
	values := []string{"0.01", "9.90", "49.99", "1234.56", "999999.99"}

	for _, v := range values {
		d, err := decimal.NewFromString(v)
		require.NoError(t, err)

		// 1234.56 → "1234,56" (comma-decimal formatting)
		localized := "R$ " + d.StringFixed(2)
		localized = replaceLast(localized, ".", ",")

		got, err := NormalizePrice(localized)
		require.NoError(t, err, "input %q", localized)
		assert.True(t, d.Equal(got), "round trip %q: want %s, got %s", localized, d, got)
	}
}

func replaceLast(s, old, new string) string {
	for i := len(s) - len(old); i >= 0; i-- {
		if s[i:i+len(old)] == old {
			return s[:i] + new + s[i+len(old):]
		}
	}
	return s
}

func TestNormalizePriceErrorIsWrapped(t *testing.T) {
	_, err := NormalizePrice("abc")
	assert.True(t, errors.Is(err, ErrPriceNotFound))
	assert.Contains(t, err.Error(), "abc")
}
