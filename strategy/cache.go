package strategy

import (
	"github.com/niceyeti/robustmdp/num"
)

// Cache is the tagged object the Bellman operator reduces an action block
// through (§4.3): it either records an optimal action, applies a given one,
// or ignores strategies entirely.
type Cache[T num.Real] interface {
	// Extract reduces values (one per action available at source state
	// jSource) to the selected value, recording the chosen action index if
	// the cache is an optimizing one.
	Extract(values []T, jSource int, maximize bool) T

	// StepPostProcess runs once per Bellman step, after every source state
	// has been reduced (used by the time-varying optimizing cache to push
	// the current slab into its history).
	StepPostProcess()
}

// NoneCache performs ordinary max/min reduction with no recorded state;
// used for plain verification with no strategy.
type NoneCache[T num.Real] struct{}

func (NoneCache[T]) Extract(values []T, jSource int, maximize bool) T {
	return reduce(values, maximize)
}

func (NoneCache[T]) StepPostProcess() {}

func reduce[T num.Real](values []T, maximize bool) T {
	best := values[0]
	for _, v := range values[1:] {
		if (maximize && v > best) || (!maximize && v < best) {
			best = v
		}
	}
	return best
}

// GivenCache applies a fixed strategy's action choice without optimizing.
// Sigma maps a source state to the linear action index to use on every
// step; time-varying given strategies go through TimeVaryingGivenCache.
type GivenCache[T num.Real] struct {
	Sigma []int
}

func (g *GivenCache[T]) Extract(values []T, jSource int, maximize bool) T {
	return values[g.Sigma[jSource]]
}

func (g *GivenCache[T]) StepPostProcess() {}

// TimeVaryingGivenCache applies a time-varying given strategy whose slabs
// are in chronological order. Value iteration runs backwards from the
// horizon, so Bellman step s (counted from 0) uses slab len(Slabs)-1-s.
type TimeVaryingGivenCache[T num.Real] struct {
	Slabs [][]int
	step  int
}

func (g *TimeVaryingGivenCache[T]) Extract(values []T, jSource int, maximize bool) T {
	return values[g.Slabs[len(g.Slabs)-1-g.step][jSource]]
}

func (g *TimeVaryingGivenCache[T]) StepPostProcess() {
	g.step++
}

// StationaryCache computes arg-opt per source state and keeps a single slot
// per state across iterations. The sentinel -1 means "not yet set". Policy
// improvement stability (§4.3) comes from anchoring each state's scan to its
// previously-chosen action: that action's value is the starting "best", so a
// tie never dislodges it in favor of an equally-good but different action,
// and the recorded strategy only ever changes when some action is strictly
// better under the current values.
type StationaryCache[T num.Real] struct {
	Actions []int
}

// NewStationaryCache allocates a cache with all slots unset.
func NewStationaryCache[T num.Real](numStates int) *StationaryCache[T] {
	actions := make([]int, numStates)
	for i := range actions {
		actions[i] = -1
	}
	return &StationaryCache[T]{Actions: actions}
}

func (c *StationaryCache[T]) Extract(values []T, jSource int, maximize bool) T {
	bestIdx := 0
	if prev := c.Actions[jSource]; prev >= 0 {
		bestIdx = prev
	}
	best := values[bestIdx]
	for i, v := range values {
		if (maximize && v > best) || (!maximize && v < best) {
			best = v
			bestIdx = i
		}
	}
	c.Actions[jSource] = bestIdx
	return best
}

func (c *StationaryCache[T]) StepPostProcess() {}

// TimeVaryingCache computes arg-opt per source state per step, keeping a
// current slot plus a history list. StepPostProcess pushes a copy of the
// current slot; after the driver finishes, History is in reverse-time
// order and must be reversed to chronological order by the caller.
type TimeVaryingCache[T num.Real] struct {
	Current []int
	History [][]int
}

// NewTimeVaryingCache allocates a cache with an empty current slot.
func NewTimeVaryingCache[T num.Real](numStates int) *TimeVaryingCache[T] {
	return &TimeVaryingCache[T]{Current: make([]int, numStates)}
}

func (c *TimeVaryingCache[T]) Extract(values []T, jSource int, maximize bool) T {
	bestIdx := 0
	best := values[0]
	for i, v := range values[1:] {
		if (maximize && v > best) || (!maximize && v < best) {
			best = v
			bestIdx = i + 1
		}
	}
	c.Current[jSource] = bestIdx
	return best
}

func (c *TimeVaryingCache[T]) StepPostProcess() {
	slab := make([]int, len(c.Current))
	copy(slab, c.Current)
	c.History = append(c.History, slab)
}

// Reversed returns the history in chronological order.
func (c *TimeVaryingCache[T]) Reversed() [][]int {
	out := make([][]int, len(c.History))
	for i, slab := range c.History {
		out[len(out)-1-i] = slab
	}
	return out
}
