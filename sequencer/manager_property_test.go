package sequencer

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// For any combination of mute/solo flags across any number of tracks, a
// muted track never outputs, and whenever at least one track is soloed,
// only soloed tracks output: solo exclusivity holds regardless of how many
// tracks are soloed or muted at once.
func TestPropertySoloExclusivity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("muted tracks never output, soloed tracks exclude non-soloed when any is soloed", prop.ForAll(
		func(muted, soloed []bool) bool {
			n := len(muted)
			if len(soloed) < n {
				n = len(soloed)
			}
			tracks := make([]*Track, n)
			for i := 0; i < n; i++ {
				tr := NewTrack(i)
				tr.Muted = muted[i]
				tr.Soloed = soloed[i]
				tracks[i] = tr
			}
			m := NewManager(tracks)

			anySoloed := false
			for i := 0; i < n; i++ {
				if soloed[i] {
					anySoloed = true
				}
			}

			for i := 0; i < n; i++ {
				out := m.ShouldOutput(i)
				want := !muted[i] && (!anySoloed || soloed[i])
				if out != want {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Bool()),
		gen.SliceOf(gen.Bool()),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
