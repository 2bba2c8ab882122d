package world

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Fold returns the form of s used for comparing names and player input: NFC
// normalized, case folded, and with all runs of whitespace collapsed to a single
// space.
func Fold(s string) string {
	folded := cases.Fold().String(norm.NFC.String(s))
	return strings.Join(strings.Fields(folded), " ")
}
