package property

import "github.com/niceyeti/robustmdp/num"

// Initialize sets current per the §4.6 hook table's initialize column.
func (p *Property[T]) Initialize(current []T) {
	switch p.Kind {
	case FiniteTimeReachability, InfiniteTimeReachability, ExactTimeReachability,
		FiniteTimeReachAvoid, InfiniteTimeReachAvoid, ExactTimeReachAvoid:
		setAll(current, p.Reach, 1)
	case FiniteTimeSafety, InfiniteTimeSafety, FiniteTimeDFASafety, InfiniteTimeDFASafety:
		setAll(current, p.Avoid, -1)
	case FiniteTimeReward, InfiniteTimeReward:
		copy(current, p.Reward)
	case ExpectedExitTime:
		fillAll(current, 1)
		setAll(current, p.Avoid, 0)
	case FiniteTimeDFAReachability, InfiniteTimeDFAReachability:
		setAll(current, p.Reach, 1)
	}
}

// StepPostprocess runs after each Bellman step per the §4.6 hook table's
// step_postprocess column.
func (p *Property[T]) StepPostprocess(current []T) {
	switch p.Kind {
	case FiniteTimeReachability, InfiniteTimeReachability:
		setAll(current, p.Reach, 1)
	case ExactTimeReachability:
		// no-op
	case FiniteTimeReachAvoid, InfiniteTimeReachAvoid:
		setAll(current, p.Reach, 1)
		setAll(current, p.Avoid, 0)
	case ExactTimeReachAvoid:
		setAll(current, p.Avoid, 0)
	case FiniteTimeSafety, InfiniteTimeSafety, FiniteTimeDFASafety, InfiniteTimeDFASafety:
		setAll(current, p.Avoid, -1)
	case FiniteTimeReward, InfiniteTimeReward:
		for i := range current {
			current[i] = p.Discount*current[i] + p.Reward[i]
		}
	case ExpectedExitTime:
		addAll(current, 1)
		setAll(current, p.Avoid, 0)
	case FiniteTimeDFAReachability, InfiniteTimeDFAReachability:
		setAll(current, p.Reach, 1)
	}
}

// FinalPostprocess runs once after the driver terminates, per the §4.6 hook
// table's final_postprocess column.
func (p *Property[T]) FinalPostprocess(current []T) {
	switch p.Kind {
	case FiniteTimeSafety, InfiniteTimeSafety, FiniteTimeDFASafety, InfiniteTimeDFASafety:
		addAll(current, 1)
	}
}

func setAll[T num.Real](current []T, indices []int, v T) {
	for _, i := range indices {
		current[i] = v
	}
}

func fillAll[T num.Real](current []T, v T) {
	for i := range current {
		current[i] = v
	}
}

func addAll[T num.Real](current []T, delta T) {
	for i := range current {
		current[i] += delta
	}
}
