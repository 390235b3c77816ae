// Package passid issues bus pass identifiers and the QR payloads that carry them.
package passid

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
)

const (
	DefaultPrefix = "BP"

	minNumber = 10000000
	maxNumber = 99999999
)

var (
	validRe  = regexp.MustCompile(`^[A-Z0-9]+-[0-9]{8}$`)
	prefixRe = regexp.MustCompile(`^[A-Z0-9]+$`)
)

// Generator produces PREFIX-NNNNNNNN identifiers. Each call is independent and
// carries no uniqueness guarantee; callers rely on the store's unique index.
type Generator struct {
	Prefix string
	// IntN returns a uniform value in [0, n). Defaults to math/rand.
	IntN func(n int) int
}

// NewGenerator upper-cases prefix and rejects one that Valid would not accept back.
func NewGenerator(prefix string) (Generator, error) {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if !prefixRe.MatchString(prefix) {
		return Generator{}, fmt.Errorf("invalid pass id prefix %q: only letters and digits are allowed", prefix)
	}
	return Generator{Prefix: prefix, IntN: rand.Intn}, nil
}

// New returns a fresh identifier with its numeric part in [10000000, 99999999].
func (g Generator) New() string {
	intn := g.IntN
	if intn == nil {
		intn = rand.Intn
	}
	prefix := g.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	n := minNumber + intn(maxNumber-minNumber+1)
	return fmt.Sprintf("%s-%d", prefix, n)
}

// Valid reports whether s has the PREFIX-NNNNNNNN shape with the number in range.
func Valid(s string) bool {
	if !validRe.MatchString(s) {
		return false
	}
	digits := s[strings.LastIndexByte(s, '-')+1:]
	return digits[0] != '0'
}
