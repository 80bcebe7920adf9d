package sequencer

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"seqcore/generators"
)

// A looping clip's Position must always land back inside [LoopStart,
// LoopEnd) after wrapping, for any loop bounds and any number of
// ticksToGenerate-sized advances: wrap conserves position modulo the loop
// length rather than ever drifting outside it.
func TestPropertyLoopWrapStaysInBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("Position stays within [LoopStart,LoopEnd) once playing", prop.ForAll(
		func(loopStart, loopLen uint64, step uint64, advances int) bool {
			loopEnd := loopStart + loopLen + 1 // guarantee loopEnd > loopStart

			c := NewSequencedClip(nil, loopEnd, loopStart, loopEnd)
			c.Mode = Loop
			c.Position = loopStart
			c.Play()

			ctx := generators.Context{TicksToGenerate: step + 1}
			for i := 0; i < advances; i++ {
				c.Generate(ctx)
				if c.Position < c.LoopStart || c.Position >= c.effectiveLoopEnd() {
					return false
				}
			}
			return true
		},
		gen.UInt64Range(0, 1000),
		gen.UInt64Range(0, 1000),
		gen.UInt64Range(0, 100),
		gen.IntRange(0, 50),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
