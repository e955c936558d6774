// Where: internal/module/identifier.go
// What: Export identifier derivation from endpoint names.
// Why: Generated modules need a valid bare identifier per endpoint.
package module

import (
	"strings"
	"unicode"
)

// DeriveIdentifier converts a kebab-case endpoint name into a camelCase
// export identifier: each hyphen is removed and the following letter is
// upper-cased ("trading-instruments" becomes "tradingInstruments").
//
// The function is total: leading, trailing, and consecutive hyphens are
// simply dropped, and any other input passes through unchanged. A name
// starting with a digit yields an identifier starting with a digit; the
// caller owns naming endpoints sensibly.
func DeriveIdentifier(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	upperNext := false
	for _, r := range name {
		if r == '-' {
			upperNext = true
			continue
		}
		if upperNext {
			b.WriteRune(unicode.ToUpper(r))
			upperNext = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
