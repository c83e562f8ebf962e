package matrix

import (
	"fmt"
	"math"
)

// StrategyKind selects the kernel-dispatch policy a CSR or Hybrid matrix
// uses for SpMV: one of classical, load_balance, merge_path, sparselib, or
// automatical.
type StrategyKind int

const (
	Classical StrategyKind = iota
	LoadBalance
	MergePath
	SparseLib
	Automatical
)

func (k StrategyKind) String() string {
	switch k {
	case Classical:
		return "classical"
	case LoadBalance:
		return "load_balance"
	case MergePath:
		return "merge_path"
	case SparseLib:
		return "sparselib"
	case Automatical:
		return "automatical"
	default:
		return fmt.Sprintf("StrategyKind(%d)", int(k))
	}
}

// Strategy configures CSR's kernel selection. ClassicalLimit and
// LoadBalanceLimit are the row-length thresholds Automatical consults when
// choosing between the classical and load-balance kernels, mirroring
// Ginkgo's `Csr::Strategy` subclass fields collapsed into a plain
// configuration struct instead of parameter-mixin templates.
type Strategy struct {
	Kind             StrategyKind
	ClassicalLimit   int // rows below this nnz/row use the classical kernel
	LoadBalanceLimit int // rows at/above this nnz/row use the load-balance kernel
}

// StrategyOption configures a Strategy via the module's functional-options
// idiom.
type StrategyOption func(*Strategy)

// WithClassicalLimit sets the row-length threshold below which Automatical
// picks the classical kernel.
func WithClassicalLimit(n int) StrategyOption {
	if n < 0 {
		panic("matrix: WithClassicalLimit: negative limit")
	}
	return func(s *Strategy) { s.ClassicalLimit = n }
}

// WithLoadBalanceLimit sets the row-length threshold at/above which
// Automatical picks the load-balance kernel.
func WithLoadBalanceLimit(n int) StrategyOption {
	if n < 0 {
		panic("matrix: WithLoadBalanceLimit: negative limit")
	}
	return func(s *Strategy) { s.LoadBalanceLimit = n }
}

// defaultClassicalLimit and defaultLoadBalanceLimit follow the same order
// of magnitude Ginkgo's csr_kernels.cpp picks for its classical/load-balance
// split (a handful of nonzeros per row versus hundreds).
const (
	defaultClassicalLimit   = 8
	defaultLoadBalanceLimit = 128
)

// NewStrategy builds a Strategy of the given kind with defaulted limits,
// overridable by opts.
func NewStrategy(kind StrategyKind, opts ...StrategyOption) Strategy {
	s := Strategy{Kind: kind, ClassicalLimit: defaultClassicalLimit, LoadBalanceLimit: defaultLoadBalanceLimit}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Resolve returns the concrete kind Automatical should dispatch to for a
// row of the given length, given the strategy's limits; non-Automatical
// strategies return their own kind unchanged.
func (s Strategy) Resolve(rowLen int) StrategyKind {
	if s.Kind != Automatical {
		return s.Kind
	}
	switch {
	case rowLen < s.ClassicalLimit:
		return Classical
	case rowLen >= s.LoadBalanceLimit:
		return LoadBalance
	default:
		return MergePath
	}
}

// HybridStrategyKind selects how Hybrid splits rows between its ELL and COO
// parts.
type HybridStrategyKind int

const (
	// MinimalStorage sizes the ELL part to the smallest width that at least
	// Percentage of the rows fit within, spilling longer rows' excess into
	// COO.
	MinimalStorage HybridStrategyKind = iota
	// ImbalanceBounded sizes the ELL part to the longest row's length, so
	// no row spills into COO unless EllLim is set.
	ImbalanceBounded
	// HybridAutomatic picks between the two using the row-length-variance
	// rule: imbalance_bounded whenever the row-length standard deviation
	// exceeds the mean, else minimal_storage.
	HybridAutomatic
)

// HybridStrategy configures Hybrid's ELL/COO split, keeping the same
// two-field shape
// (`get_ell_num_stored_elements_per_row`/`get_coo_nnz`) Ginkgo's
// csr_kernels.cpp reads off the target Hybrid's strategy object before
// sizing the split, rather than recomputing a histogram inline.
type HybridStrategy struct {
	Kind HybridStrategyKind
	// EllLim, when > 0, is the ELL part's per-row width in place of the
	// kind's own choice; a longer row keeps its first EllLim entries in ELL
	// and spills the rest to COO.
	EllLim int
	// CooLim caps the number of nonzeros the COO part may hold; exceeding
	// it is a construction error, not silently truncated.
	CooLim int
	// Percentage is MinimalStorage's target: the fraction (0,1] of rows
	// that must fit entirely within the ELL part.
	Percentage float64
}

// NewHybridStrategy builds a HybridStrategy with the given kind and
// defaults (Percentage 1.0, unbounded CooLim), overridable by opts.
func NewHybridStrategy(kind HybridStrategyKind, opts ...HybridStrategyOption) HybridStrategy {
	s := HybridStrategy{Kind: kind, Percentage: 1.0, CooLim: -1}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// HybridStrategyOption configures a HybridStrategy.
type HybridStrategyOption func(*HybridStrategy)

// WithEllLimit sets the ELL part's row width (see EllLim); 0 leaves the
// kind's own choice.
func WithEllLimit(n int) HybridStrategyOption {
	if n < 0 {
		panic("matrix: WithEllLimit: negative limit")
	}
	return func(s *HybridStrategy) { s.EllLim = n }
}

// WithCooLimit caps the COO part's nonzero count.
func WithCooLimit(n int) HybridStrategyOption {
	return func(s *HybridStrategy) { s.CooLim = n }
}

// WithPercentage sets MinimalStorage's row-coverage target.
func WithPercentage(p float64) HybridStrategyOption {
	if p <= 0 || p > 1 {
		panic("matrix: WithPercentage: must be in (0,1]")
	}
	return func(s *HybridStrategy) { s.Percentage = p }
}

// ResolveEllWidth picks the ELL part's row width for rowLengths under the
// receiver's kind, resolving HybridAutomatic via pickAutomaticHybridKind.
func (s HybridStrategy) ResolveEllWidth(rowLengths []int) int {
	if s.EllLim > 0 {
		return s.EllLim
	}
	kind := s.Kind
	if kind == HybridAutomatic {
		kind = pickAutomaticHybridKind(rowLengths)
	}
	switch kind {
	case ImbalanceBounded:
		return percentileWidth(rowLengths, 1.0)
	default: // MinimalStorage
		return percentileWidth(rowLengths, s.Percentage)
	}
}

func pickAutomaticHybridKind(rowLengths []int) HybridStrategyKind {
	if len(rowLengths) == 0 {
		return MinimalStorage
	}
	mean := 0.0
	for _, n := range rowLengths {
		mean += float64(n)
	}
	mean /= float64(len(rowLengths))

	variance := 0.0
	for _, n := range rowLengths {
		d := float64(n) - mean
		variance += d * d
	}
	variance /= float64(len(rowLengths))
	stddev := math.Sqrt(variance)

	if stddev > mean {
		return ImbalanceBounded
	}
	return MinimalStorage
}

// percentileWidth returns the smallest width w such that at least
// pct*len(rowLengths) rows have length <= w, by sorting a copy of
// rowLengths.
func percentileWidth(rowLengths []int, pct float64) int {
	if len(rowLengths) == 0 {
		return 0
	}
	sorted := make([]int, len(rowLengths))
	copy(sorted, rowLengths)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1] > sorted[j]; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	idx := int(pct*float64(len(sorted))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
