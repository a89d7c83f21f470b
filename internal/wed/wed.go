// Package wed implements weighted edit distance between token sequences: a
// position-aligned sum of inner Levenshtein distance between corresponding
// tokens, scaled by a logistic positional weight that favors differences
// near the start of the line over differences near the end.
package wed

import (
	"math"

	"github.com/fidde/logtemplater/internal/levenshtein"
)

// DefaultNu and DefaultScale are the logistic decay parameters used when
// callers don't need to tune them.
const (
	DefaultNu    = 0.0
	DefaultScale = 1.0
)

// Weight returns the logistic decay weight for a 1-based token position.
// It is 1/2 at position 0 (with the default nu/scale) and decays toward 0 as
// position grows, so tokens earlier in a line weigh more heavily than
// tokens later in it.
func Weight(position float64, nu, scale float64) float64 {
	return 1 / (1 + math.Exp(scale*position-nu))
}

// Distance computes the weighted edit distance between two already
// tokenized lines. Tokens are compared position by position (lock-step); if
// the sequences differ in length, the shorter one is conceptually padded
// with empty tokens so the excess tail of the longer sequence still
// contributes its full inner distance, weighted by its position.
//
// The positional counter is incremented before each use, so the first
// token is scored at position 1, not 0.
func Distance(a, b []string, nu, scale float64) float64 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	var total float64
	position := 0.0
	for i := 0; i < n; i++ {
		position++
		var ta, tb string
		if i < len(a) {
			ta = a[i]
		}
		if i < len(b) {
			tb = b[i]
		}
		inner := levenshtein.Distance([]rune(ta), []rune(tb))
		total += float64(inner) * Weight(position, nu, scale)
	}
	return total
}

// Default computes Distance with DefaultNu and DefaultScale.
func Default(a, b []string) float64 {
	return Distance(a, b, DefaultNu, DefaultScale)
}
