// Package monitor serves a live view of a running solve over websocket: a
// solve.ProgressFunc feeds a channel of Snapshot values, broadcast to a
// handful of small html/svg views.
package monitor

// Snapshot is one solve iteration's worth of progress: what solve.ProgressFunc
// reports plus a copy of the Channel's values slice, sampled best-effort (the driver
// does not pause for the monitor to keep up; slow consumers just see fewer
// snapshots).
type Snapshot struct {
	Iteration   int
	MaxResidual float64
	Values      []float64
}

// Channel wraps a Go channel as a solve.ProgressFunc sink. The caller owns
// closing the channel once the solve returns; Push drops snapshots rather
// than blocking the solve loop when nobody is listening.
type Channel struct {
	updates chan Snapshot
	values  []float64
}

// NewChannel allocates a buffered snapshot channel. Values is shared by
// reference and Push copies its current contents into each snapshot. The
// solve driver does not write into it (solve.ProgressFunc carries only the
// iteration count and residual), so it holds whatever the caller stores.
func NewChannel(values []float64, buffer int) *Channel {
	return &Channel{updates: make(chan Snapshot, buffer), values: values}
}

// Updates returns the read side for the monitor's view builder.
func (c *Channel) Updates() <-chan Snapshot { return c.updates }

// Push implements solve.ProgressFunc; call it directly as the OnProgress
// field of solve.DenseOptions.
func (c *Channel) Push(k int, maxResidual float64) {
	snap := Snapshot{Iteration: k, MaxResidual: maxResidual, Values: append([]float64(nil), c.values...)}
	select {
	case c.updates <- snap:
	default:
		// Consumer is behind; drop rather than stall the solve loop.
	}
}

// Close shuts down the updates channel. Call once the solve has returned.
func (c *Channel) Close() { close(c.updates) }
