package sweep

import "fmt"

// GroupState tracks one build group through the sweep.
//
//	Pending -> Built -> Done
//	Pending -> Skipped        (build failure)
type GroupState string

const (
	GroupPending GroupState = "pending"
	GroupBuilt   GroupState = "built"
	GroupSkipped GroupState = "skipped"
	GroupDone    GroupState = "done"
)

// RunState tracks one run variant within a built group.
//
//	Started -> Measured | Failed
type RunState string

const (
	RunStarted  RunState = "started"
	RunMeasured RunState = "measured"
	RunFailed   RunState = "failed"
)

// transitionGroup validates and performs a group state change. The caller
// supplies the expected prior state so a sequencing bug surfaces as an error
// instead of silently corrupting the sweep's bookkeeping.
func transitionGroup(cur *GroupState, from, to GroupState) error {
	if *cur != from {
		return fmt.Errorf("invalid group transition: expected %s, got %s", from, *cur)
	}
	if !allowedGroupTransition(from, to) {
		return fmt.Errorf("disallowed group transition: %s -> %s", from, to)
	}
	*cur = to
	return nil
}

func allowedGroupTransition(from, to GroupState) bool {
	switch from {
	case GroupPending:
		return to == GroupBuilt || to == GroupSkipped
	case GroupBuilt:
		return to == GroupDone
	default:
		return false
	}
}

// allowedRunTransition reports whether a run state change is legal.
func allowedRunTransition(from, to RunState) bool {
	return from == RunStarted && (to == RunMeasured || to == RunFailed)
}
