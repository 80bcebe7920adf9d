package generators

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// For any hits/steps pair, Euclidean must return exactly steps slots and
// exactly min(max(hits,0),steps) of them true: cardinality is conserved
// regardless of how the hits fold during Bjorklund's pairing.
func TestPropertyEuclideanCardinality(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("pattern length always equals steps", prop.ForAll(
		func(hits, steps int) bool {
			pat := Euclidean(hits, steps)
			return len(pat) == steps
		},
		gen.IntRange(-4, 64),
		gen.IntRange(0, 64),
	))

	properties.Property("true count equals hits clamped to [0,steps]", prop.ForAll(
		func(hits, steps int) bool {
			pat := Euclidean(hits, steps)
			want := hits
			if want < 0 {
				want = 0
			}
			if want > steps {
				want = steps
			}
			got := 0
			for _, b := range pat {
				if b {
					got++
				}
			}
			return got == want
		},
		gen.IntRange(-4, 64),
		gen.IntRange(0, 64),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
