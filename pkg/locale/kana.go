// Package locale holds language-dependent comparison rules. User lists are
// ordered by their kana reading under Japanese collation, matching the
// gojūon order users expect rather than raw code-point order.
package locale

import (
	"sort"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var (
	collatorMu sync.Mutex
	collator   = collate.New(language.Japanese)
)

// CompareKana orders two kana readings under Japanese collation. It returns
// -1, 0 or 1 like strings.Compare.
func CompareKana(a, b string) int {
	collatorMu.Lock()
	defer collatorMu.Unlock()
	return collator.CompareString(a, b)
}

// SortByKana sorts items in place by their kana key. The sort is stable so
// users sharing a reading keep their relative insertion order.
func SortByKana[T any](items []T, kana func(T) string) {
	collatorMu.Lock()
	defer collatorMu.Unlock()
	sort.SliceStable(items, func(i, j int) bool {
		return collator.CompareString(kana(items[i]), kana(items[j])) < 0
	})
}
