package txn

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/robmcl4/pysui"
)

// lifecycleState represents a state in the transaction lifecycle
// state machine.
type lifecycleState uint32

const (
	// stateBuilding: commands and inputs may be appended. The only
	// state that accepts builder calls.
	stateBuilding lifecycleState = iota
	// stateAssembled: the transaction data has been finalized. Gas is
	// resolved, the kind is rendered; no further mutation. Execute is
	// the only valid next sequential call.
	stateAssembled
	// stateExecuted: the transaction has been submitted. Terminal.
	stateExecuted
)

func (s lifecycleState) String() string {
	switch s {
	case stateBuilding:
		return "Building"
	case stateAssembled:
		return "Assembled"
	case stateExecuted:
		return "Executed"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// lifecycleGuard enforces the lifecycle state machine. The transaction
// wraps every builder and finalization call with this guard to ensure
// correct call ordering and at-most-once execution. Violations are
// reported as StateError, never recovered automatically.
type lifecycleGuard struct {
	state atomic.Uint32
	// Mutex for sequential calls (finalize, execute).
	seqMu sync.Mutex
}

func newLifecycleGuard() *lifecycleGuard {
	g := &lifecycleGuard{}
	g.state.Store(uint32(stateBuilding))
	return g
}

// State returns the current lifecycle state name.
func (g *lifecycleGuard) State() string {
	return lifecycleState(g.state.Load()).String()
}

// checkBuilding verifies that a mutating builder call is allowed.
func (g *lifecycleGuard) checkBuilding(op string) error {
	if state := lifecycleState(g.state.Load()); state != stateBuilding {
		return &pysui.StateError{Op: op, State: state.String()}
	}
	return nil
}

// checkNotExecuted verifies that a read-only side channel (such as
// inspection) is still allowed.
func (g *lifecycleGuard) checkNotExecuted(op string) error {
	if state := lifecycleState(g.state.Load()); state == stateExecuted {
		return &pysui.StateError{Op: op, State: state.String()}
	}
	return nil
}

// acquireFinalize begins a Building → Assembled transition. Blocks if
// another sequential operation is in progress. Re-finalizing an
// Assembled transaction is allowed; a finalized transaction's data is
// memoized by the caller, so the repeat is metadata-only.
func (g *lifecycleGuard) acquireFinalize(op string) error {
	g.seqMu.Lock()
	if state := lifecycleState(g.state.Load()); state == stateExecuted {
		g.seqMu.Unlock()
		return &pysui.StateError{Op: op, State: state.String()}
	}
	return nil
}

// completeFinalize transitions to Assembled and releases the
// sequential lock.
func (g *lifecycleGuard) completeFinalize() {
	g.state.Store(uint32(stateAssembled))
	g.seqMu.Unlock()
}

// failFinalize releases the sequential lock without a state change,
// leaving the transaction buildable.
func (g *lifecycleGuard) failFinalize() {
	g.seqMu.Unlock()
}

// completeExecute transitions to Executed and releases the sequential
// lock. Called unconditionally after submission returns; remote
// failure does not roll the state back.
func (g *lifecycleGuard) completeExecute() {
	g.state.Store(uint32(stateExecuted))
	g.seqMu.Unlock()
}
