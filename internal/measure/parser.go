package measure

import (
	"fmt"
	"regexp"
	"strconv"
)

// The workload's stdout contract: one line per timed loop, anywhere in the
// text. Interleaved diagnostics (runtime config dumps, validation sums) are
// tolerated; only these two lines matter.
//
//	Total time for <reps> reps of loop 1 = <float>
//	Total time for <reps> reps of loop 2 = <float>
var loopTimePattern = regexp.MustCompile(`Total time for (\d+) reps of loop ([12]) = ([0-9]+(?:\.[0-9]+)?)`)

// Timings are the two measured durations of one successful run.
type Timings struct {
	Loop1Seconds float64
	Loop2Seconds float64
}

// AvgMillis derives the per-iteration average in milliseconds. Always
// recomputed from the base measurement; never stored alongside it.
func AvgMillis(seconds float64, iterations int) float64 {
	return seconds / float64(iterations) * 1000
}

// ParseError reports stdout that did not satisfy the timing-line contract.
// Raw carries the complete captured text so the mismatch can be replayed.
type ParseError struct {
	Reason string
	Raw    []byte
	Cause  error
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	return "parse failed: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Cause }

// ParseTimings extracts both loop durations from raw stdout. The first
// occurrence of each loop's line wins. iterations is the repetition count
// baked into the artifact; a line reporting a different count does not
// match, since it would mean the artifact and the configuration disagree.
func ParseTimings(raw []byte, iterations int) (Timings, error) {
	if iterations <= 0 {
		return Timings{}, &ParseError{Reason: fmt.Sprintf("iteration count must be positive, got %d", iterations)}
	}

	var t Timings
	found := [2]bool{}
	for _, m := range loopTimePattern.FindAllSubmatch(raw, -1) {
		reps, err := strconv.Atoi(string(m[1]))
		if err != nil || reps != iterations {
			continue
		}
		loop := string(m[2])
		idx := 0
		if loop == "2" {
			idx = 1
		}
		if found[idx] {
			continue
		}
		secs, err := strconv.ParseFloat(string(m[3]), 64)
		if err != nil {
			return Timings{}, &ParseError{
				Reason: fmt.Sprintf("loop %s time %q is not a number", loop, m[3]),
				Raw:    raw,
				Cause:  err,
			}
		}
		if idx == 0 {
			t.Loop1Seconds = secs
		} else {
			t.Loop2Seconds = secs
		}
		found[idx] = true
	}

	if !found[0] || !found[1] {
		missing := "loop 1"
		if found[0] {
			missing = "loop 2"
		} else if !found[1] {
			missing = "loop 1 and loop 2"
		}
		return Timings{}, &ParseError{
			Reason: fmt.Sprintf("no timing line for %s (expected %d reps)", missing, iterations),
			Raw:    raw,
		}
	}
	return t, nil
}
