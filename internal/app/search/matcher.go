// Package search ranks catalog products against a free-text query.
package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/PabloGalante/shopchat/internal/domain"
)

// Match returns the products of catalog that contain at least one query
// word, best first. A product's score is the number of distinct query words
// found anywhere in its searchable text; equal scores keep catalog order.
//
// When the query has no usable words, or nothing matches, the catalog is
// returned unchanged so a non-empty catalog never yields an empty result.
func Match(catalog []domain.Product, query string) []domain.Product {
	words := QueryWords(query)
	if len(words) == 0 {
		return catalog
	}

	type scored struct {
		product domain.Product
		score   int
	}

	var hits []scored
	for _, p := range catalog {
		hay := Haystack(p)
		score := 0
		for _, w := range words {
			if strings.Contains(hay, w) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{product: p, score: score})
		}
	}

	if len(hits) == 0 {
		return catalog
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	out := make([]domain.Product, len(hits))
	for i, h := range hits {
		out[i] = h.product
	}
	return out
}

// Top returns at most n products.
func Top(products []domain.Product, n int) []domain.Product {
	if n >= 0 && len(products) > n {
		return products[:n]
	}
	return products
}

// QueryWords lowercases query, splits it on whitespace and drops
// single-character and repeated words.
func QueryWords(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	seen := make(map[string]struct{}, len(fields))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) <= 1 {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		words = append(words, f)
	}
	return words
}

// Haystack is the lowercase searchable text of p: title, type, tags, vendor
// and the description without markup.
func Haystack(p domain.Product) string {
	parts := make([]string, 0, 4+len(p.Tags))
	parts = append(parts, p.Title, p.Type)
	parts = append(parts, p.Tags...)
	parts = append(parts, p.Vendor, StripHTML(p.Description))
	return strings.ToLower(strings.Join(parts, " "))
}

// StripHTML returns the text content of s with tags removed and entities
// decoded.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}

	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.TextToken:
			b.Write(z.Text())
			b.WriteByte(' ')
		}
	}
}
