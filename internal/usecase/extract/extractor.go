package extract

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/shopspring/decimal"
)

// heuristicSelectors is the ordered list of common price selectors tried when
// no explicit selector is supplied. The first selector whose element yields a
// normalizable number wins, so this must stay an ordered slice, not a set.
var heuristicSelectors = []string{
	".price",
	".current-price",
	"#current-price",
	"[data-price]",
	".product-price",
	".preco",
	`span[class*="price"]`,
	`div[class*="price"]`,
}

// ExtractPrice locates a price in product page markup.
//
// If cssSelector is non-empty it is compiled and tried first. When it matches
// an element, that element is trusted exclusively: its trimmed text either
// normalizes into a price or the whole extraction fails with ErrPriceNotFound,
// even if a heuristic elsewhere in the page would have succeeded. An explicit
// selector that matches nothing falls through to the heuristics.
//
// The heuristic path walks heuristicSelectors in order. A matching element
// whose text does not normalize is skipped, not fatal, and the next selector
// is tried. No match across all heuristics returns ErrPriceNotFound.
//
// The function is pure with respect to its inputs; it performs no I/O.
func ExtractPrice(markup string, cssSelector string) (decimal.Decimal, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse markup: %w", ErrPriceNotFound)
	}

	if cssSelector != "" {
		// ユーザー指定セレクタは cascadia.Compile で検証する
		// (goquery の Find は不正なセレクタで panic するため)
		matcher, err := cascadia.Compile(cssSelector)
		if err != nil {
			slog.Warn("invalid custom css selector",
				slog.String("selector", cssSelector),
				slog.Any("error", err))
			return decimal.Decimal{}, fmt.Errorf("compile selector %q: %w", cssSelector, ErrPriceNotFound)
		}
		if sel := doc.FindMatcher(matcher).First(); sel.Length() > 0 {
			// Explicit selector is trusted to locate the element, not
			// guaranteed to yield a number: no heuristic fallback from here.
			return NormalizePrice(strings.TrimSpace(sel.Text()))
		}
	}

	for _, selector := range heuristicSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		price, err := NormalizePrice(strings.TrimSpace(sel.Text()))
		if err != nil {
			// Matched element without a parseable number: keep searching.
			continue
		}
		return price, nil
	}

	return decimal.Decimal{}, ErrPriceNotFound
}
