package penalty

import (
	"fmt"
	"unicode"
)

// SymbolSet is the ordered set of the three decision variables.
type SymbolSet [3]string

// DefaultSymbols is the canonical x, y, z ordering.
var DefaultSymbols = SymbolSet{"x", "y", "z"}

// NewSymbolSet validates three distinct identifiers.
func NewSymbolSet(a, b, c string) (SymbolSet, error) {
	s := SymbolSet{a, b, c}
	seen := map[string]bool{}
	for _, name := range s {
		if !isIdent(name) {
			return SymbolSet{}, fmt.Errorf("%w: %q is not an identifier", ErrSymbols, name)
		}
		if seen[name] {
			return SymbolSet{}, fmt.Errorf("%w: %q repeated", ErrSymbols, name)
		}
		seen[name] = true
	}
	return s, nil
}

// Names returns the symbols as a fresh slice in order.
func (s SymbolSet) Names() []string {
	return []string{s[0], s[1], s[2]}
}

// Index returns the position of name, or -1.
func (s SymbolSet) Index(name string) int {
	for i, n := range s {
		if n == name {
			return i
		}
	}
	return -1
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}
