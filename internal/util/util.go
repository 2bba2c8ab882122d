// Package util contains small text and slice helpers shared by the rest of
// NightRunner.
package util

import (
	"sort"
	"strings"
	"unicode"
)

// MakeTextList joins items into an English list using the given conjunction,
// with an oxford comma when there are more than two items. For example,
// MakeTextList([]string{"a", "b", "c"}, "or") gives "a, b, or c".
func MakeTextList(items []string, conj string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " " + conj + " " + items[1]
	default:
		last := conj + " " + items[len(items)-1]
		parts := append(append([]string{}, items[:len(items)-1]...), last)
		return strings.Join(parts, ", ")
	}
}

// WithArticle gives s with the indefinite article for it in front.
func WithArticle(s string) string {
	if s == "" {
		return ""
	}
	return ArticleFor(s, false) + " " + s
}

// ArticleFor returns the article for the given string. It will be capitalized
// the same as the string. If definite is true, the returned value will be "the"
// capitalized as described; otherwise, it will be "a"/"an" capitalized as
// described.
func ArticleFor(s string, definite bool) string {
	sRunes := []rune(s)
	if len(sRunes) < 1 {
		return ""
	}

	leadingUpper := unicode.IsUpper(sRunes[0])
	allCaps := leadingUpper && len(sRunes) > 1 && unicode.IsUpper(sRunes[1])

	if definite {
		switch {
		case allCaps:
			return "THE"
		case leadingUpper:
			return "The"
		default:
			return "the"
		}
	}

	art := "a"
	if leadingUpper {
		art = "A"
	}
	switch unicode.ToLower(sRunes[0]) {
	case 'a', 'e', 'i', 'o', 'u':
		if allCaps {
			art += "N"
		} else {
			art += "n"
		}
	}
	return art
}

// SortBy returns a sorted copy of items, ordered by the less function.
func SortBy[E any](items []E, less func(l, r E) bool) []E {
	sorted := make([]E, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})
	return sorted
}

// SliceIndexOf returns the index of the first element of sl equal to e, or -1
// if there is none.
func SliceIndexOf[E comparable](e E, sl []E) int {
	for i := range sl {
		if sl[i] == e {
			return i
		}
	}
	return -1
}

// InSlice returns whether e is an element of sl.
func InSlice[E comparable](e E, sl []E) bool {
	return SliceIndexOf(e, sl) >= 0
}

// SliceRemove returns a copy of sl with every element equal to e removed.
func SliceRemove[E comparable](e E, sl []E) []E {
	updated := make([]E, 0, len(sl))
	for i := range sl {
		if sl[i] != e {
			updated = append(updated, sl[i])
		}
	}
	return updated
}
