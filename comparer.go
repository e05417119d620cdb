package iomock

import (
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// KeyComparer decides when two canonical paths name the same entry.
type KeyComparer interface {
	// Key returns the lookup key for s. Strings that compare equal share a key.
	Key(s string) string

	// Equal reports whether a and b name the same entry.
	Equal(a, b string) bool

	// Compare orders a and b, returning -1, 0 or +1.
	Compare(a, b string) int
}

var (
	// Ordinal compares paths byte by byte.
	Ordinal KeyComparer = ordinalComparer{}

	// IgnoreCase compares paths after simple Unicode case folding.
	IgnoreCase KeyComparer = &foldComparer{}
)

type ordinalComparer struct{}

func (ordinalComparer) Key(s string) string     { return s }
func (ordinalComparer) Equal(a, b string) bool  { return a == b }
func (ordinalComparer) Compare(a, b string) int { return strings.Compare(a, b) }

// foldComparer folds case one rune at a time with a pooled [cases.Caser];
// a Caser keeps state between calls and must not be shared between
// goroutines. A rune whose fold expands to several runes ("ß" to "ss")
// keeps its own spelling, so names that differ only in such a rune stay
// distinct, as they do on the host.
type foldComparer struct {
	pool sync.Pool
}

func (c *foldComparer) Key(s string) string {
	var caser *cases.Caser
	defer func() {
		if caser != nil {
			c.pool.Put(caser)
		}
	}()

	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if r < utf8.RuneSelf {
			if 'A' <= r && r <= 'Z' {
				r += 'a' - 'A'
			}
			sb.WriteByte(byte(r))
			continue
		}

		if caser == nil {
			caser, _ = c.pool.Get().(*cases.Caser)
			if caser == nil {
				fold := cases.Fold()
				caser = &fold
			}
		}
		if f := caser.String(string(r)); utf8.RuneCountInString(f) == 1 {
			sb.WriteString(f)
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func (c *foldComparer) Equal(a, b string) bool {
	return a == b || c.Key(a) == c.Key(b)
}

func (c *foldComparer) Compare(a, b string) int {
	return strings.Compare(c.Key(a), c.Key(b))
}
