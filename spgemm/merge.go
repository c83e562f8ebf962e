package spgemm

import (
	"container/heap"

	"github.com/sparsekernel/sparsekernel/dim"
)

// cursor walks one contributing B-row for a single output row of C,
// scaled by the A entry that selected it.
type cursor[V dim.Value, I dim.Index] struct {
	colIdxs []I
	values  []V
	pos     int
	scale   V
}

func (c *cursor[V, I]) done() bool { return c.pos >= len(c.colIdxs) }
func (c *cursor[V, I]) col() I     { return c.colIdxs[c.pos] }
func (c *cursor[V, I]) val() V     { return c.values[c.pos] * c.scale }
func (c *cursor[V, I]) advance()   { c.pos++ }

// mergeRow drains cursors in ascending column order, calling emit once per
// distinct column with the summed contribution from every cursor
// positioned there, then advancing past it. The tier only changes which
// internal algorithm finds the running minimum; the emitted sequence is
// identical across tiers for identical input, which is what lets Count and
// Compute share traversal order.
func mergeRow[V dim.Value, I dim.Index](tier Tier, cursors []*cursor[V, I], emit func(col I, val V)) {
	switch tier {
	case Tier1:
		mergeSequential(cursors, emit)
	default:
		mergeHeap[V, I](cursors, emit)
	}
}

// mergeSequential is the small-fan-in path: a linear scan for the running
// minimum column across all cursors, the sequential-host analogue of the
// source's subwarp shift-register merge for its shortest rows.
func mergeSequential[V dim.Value, I dim.Index](cursors []*cursor[V, I], emit func(col I, val V)) {
	for {
		minIdx := -1
		var minCol I
		for i, c := range cursors {
			if c.done() {
				continue
			}
			if minIdx == -1 || c.col() < minCol {
				minIdx = i
				minCol = c.col()
			}
		}
		if minIdx == -1 {
			return
		}
		var sum V
		for _, c := range cursors {
			if !c.done() && c.col() == minCol {
				sum += c.val()
				c.advance()
			}
		}
		emit(minCol, sum)
	}
}

// heapEntry is one live cursor tracked by the tier2/tier3 heap merge,
// ordered by its current column.
type heapEntry[V dim.Value, I dim.Index] struct {
	cur *cursor[V, I]
}

type rowHeap[V dim.Value, I dim.Index] []heapEntry[V, I]

func (h rowHeap[V, I]) Len() int            { return len(h) }
func (h rowHeap[V, I]) Less(i, j int) bool  { return h[i].cur.col() < h[j].cur.col() }
func (h rowHeap[V, I]) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *rowHeap[V, I]) Push(x any)         { *h = append(*h, x.(heapEntry[V, I])) }
func (h *rowHeap[V, I]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// mergeHeap is the tier2/tier3 path: a container/heap-backed k-way merge.
// Tier2 bounds fan-in to DefaultWarpSize by construction (the caller only
// reaches here with that many cursors); Tier3 has no such bound. The only
// allocation here is the heap of len(cursors) entries.
func mergeHeap[V dim.Value, I dim.Index](cursors []*cursor[V, I], emit func(col I, val V)) {
	h := make(rowHeap[V, I], 0, len(cursors))
	for _, c := range cursors {
		if !c.done() {
			h = append(h, heapEntry[V, I]{cur: c})
		}
	}
	heap.Init(&h)

	for h.Len() > 0 {
		top := h[0].cur
		col := top.col()
		var sum V
		for h.Len() > 0 && h[0].cur.col() == col {
			e := heap.Pop(&h).(heapEntry[V, I])
			sum += e.cur.val()
			e.cur.advance()
			if !e.cur.done() {
				heap.Push(&h, e)
			}
		}
		emit(col, sum)
	}
}
