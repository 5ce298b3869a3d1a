// Package ifaces declares the shapes of external systems this engine is
// meant to interoperate with, without implementing any of them: PRISM's
// explicit model format, bmdp-tool's input format, netCDF/JSON result
// export, and a GPU-backed Bellman kernel. All are out of scope for this
// module; the interfaces exist so a future implementation has a contract
// to satisfy and so callers can depend on the shape today.
package ifaces

import (
	"io"

	"github.com/niceyeti/robustmdp/ambiguity"
	"github.com/niceyeti/robustmdp/num"
)

// ModelReader parses an external model description into a dense ambiguity
// set plus the stateptr that segments it into per-state action blocks, the
// shape bellman.DenseStep consumes directly.
type ModelReader[T num.Real] interface {
	ReadModel(r io.Reader) (set *ambiguity.Dense[T], stateptr []int32, err error)
}

// ModelWriter is the reverse: serialize a dense ambiguity set plus stateptr
// to an external format.
type ModelWriter[T num.Real] interface {
	WriteModel(w io.Writer, set *ambiguity.Dense[T], stateptr []int32) error
}

// ResultWriter exports a solved value function and, optionally, an
// extracted strategy, in a result format meant for downstream tooling
// (plotting, further analysis) rather than for this engine to reread.
type ResultWriter[T num.Real] interface {
	WriteResult(w io.Writer, values []T, strategyActions []int) error
}

// BellmanBackend abstracts the per-step reduction so a GPU or otherwise
// accelerated kernel can stand in for bellman.DenseStep/DenseStepParallel
// without the caller changing.
type BellmanBackend[T num.Real] interface {
	Step(v []T, set *ambiguity.Dense[T], stateptr []int32, upperBound, maximize bool, vNext []T) error
}
