package generators

import "testing"

func countTrue(pat []bool) int {
	n := 0
	for _, b := range pat {
		if b {
			n++
		}
	}
	return n
}

func TestEuclideanCardinality(t *testing.T) {
	cases := []struct{ hits, steps int }{
		{3, 8}, {4, 16}, {5, 8}, {1, 4}, {0, 8}, {8, 8}, {9, 8},
	}
	for _, c := range cases {
		pat := Euclidean(c.hits, c.steps)
		if len(pat) != c.steps {
			t.Errorf("Euclidean(%d,%d) len = %d, want %d", c.hits, c.steps, len(pat), c.steps)
		}
		want := c.hits
		if want > c.steps {
			want = c.steps
		}
		if want < 0 {
			want = 0
		}
		if got := countTrue(pat); got != want {
			t.Errorf("Euclidean(%d,%d) trues = %d, want %d", c.hits, c.steps, got, want)
		}
	}
}

func TestEuclideanKnownPattern(t *testing.T) {
	// E(3,8) is the canonical tresillo pattern: x..x..x.
	got := Euclidean(3, 8)
	want := []bool{true, false, false, true, false, false, true, false}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Euclidean(3,8)[%d] = %v, want %v (full: %v)", i, got[i], want[i], got)
			break
		}
	}
}
