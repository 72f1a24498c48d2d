package text

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var lowerFrench = cases.Lower(language.French)

// Normalize puts s in Unicode NFC form, so that accented letters typed as a
// base letter plus a combining mark compare equal to their precomposed form,
// and trims surrounding whitespace.
func Normalize(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// LowerString lowercases s using French casing rules.
func LowerString(s string) string {
	return lowerFrench.String(s)
}

// Clean is Normalize followed by LowerString.
func Clean(s string) string {
	return LowerString(Normalize(s))
}
