package distmatrix

import (
	"fmt"
	"sync"

	"github.com/sparsekernel/sparsekernel/dim"
	"github.com/sparsekernel/sparsekernel/kerrors"
)

// team is the shared state every rank's LocalCommunicator in a group
// references: a reusable barrier where the last rank to arrive at a
// collective call computes the result for everyone, mirroring the
// lvlath/core package's sync.RWMutex-guarded shared-state discipline,
// generalized to a condition-variable barrier since collectives need
// rendezvous rather than simple read/write exclusion.
type team[V dim.Value] struct {
	size int

	mu      sync.Mutex
	cond    *sync.Cond
	arrived int
	gen     int
	contrib [][]V
	result  [][]V

	mailboxes []chan []V
}

// LocalCommunicator is the in-process, goroutine/channel-based
// implementation of Communicator. Every rank in a group shares one team;
// construct a group with NewLocalTeam.
type LocalCommunicator[V dim.Value] struct {
	team *team[V]
	rank int
}

// NewLocalTeam returns size LocalCommunicators, one per rank, sharing a
// single in-process collective group.
func NewLocalTeam[V dim.Value](size int) []*LocalCommunicator[V] {
	if size <= 0 {
		panic("distmatrix: NewLocalTeam: size must be > 0")
	}
	t := &team[V]{size: size, contrib: make([][]V, size), result: make([][]V, size)}
	t.cond = sync.NewCond(&t.mu)
	t.mailboxes = make([]chan []V, size)
	for i := range t.mailboxes {
		t.mailboxes[i] = make(chan []V, size)
	}
	comms := make([]*LocalCommunicator[V], size)
	for r := 0; r < size; r++ {
		comms[r] = &LocalCommunicator[V]{team: t, rank: r}
	}
	return comms
}

func (c *LocalCommunicator[V]) Rank() int { return c.rank }
func (c *LocalCommunicator[V]) Size() int { return c.team.size }

// collective is the barrier every SPMD-style call below rendezvouses on:
// each rank contributes its local data; the rank that completes the
// barrier (the last arriver) runs combine once over every rank's
// contribution and the result is handed back per-rank.
func (t *team[V]) collective(rank int, local []V, combine func(contrib [][]V) [][]V) []V {
	t.mu.Lock()
	myGen := t.gen
	t.contrib[rank] = local
	t.arrived++
	if t.arrived == t.size {
		t.result = combine(t.contrib)
		t.contrib = make([][]V, t.size)
		t.arrived = 0
		t.gen++
		t.cond.Broadcast()
	} else {
		for t.gen == myGen {
			t.cond.Wait()
		}
	}
	res := t.result[rank]
	t.mu.Unlock()
	return res
}

func broadcastToAll[V dim.Value](n int, v []V) [][]V {
	out := make([][]V, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func (c *LocalCommunicator[V]) AllGather(local []V) ([]V, error) {
	out := c.team.collective(c.rank, local, func(contrib [][]V) [][]V {
		var all []V
		for _, part := range contrib {
			all = append(all, part...)
		}
		return broadcastToAll(len(contrib), all)
	})
	return out, nil
}

func (c *LocalCommunicator[V]) AllReduceSum(local []V) ([]V, error) {
	return c.allReduce(local, func(acc, v V) V { return acc + v })
}

func (c *LocalCommunicator[V]) AllReduceMin(local []V) ([]V, error) {
	return c.allReduce(local, func(acc, v V) V {
		if v < acc {
			return v
		}
		return acc
	})
}

func (c *LocalCommunicator[V]) AllReduceMax(local []V) ([]V, error) {
	return c.allReduce(local, func(acc, v V) V {
		if v > acc {
			return v
		}
		return acc
	})
}

func (c *LocalCommunicator[V]) allReduce(local []V, combine func(acc, v V) V) ([]V, error) {
	n := len(local)
	out := c.team.collective(c.rank, local, func(contrib [][]V) [][]V {
		acc := make([]V, n)
		copy(acc, contrib[0])
		for _, part := range contrib[1:] {
			for i := 0; i < n && i < len(part); i++ {
				acc[i] = combine(acc[i], part[i])
			}
		}
		return broadcastToAll(len(contrib), acc)
	})
	return out, nil
}

func (c *LocalCommunicator[V]) Gatherv(local []V, root int) ([]V, []int, error) {
	if root < 0 || root >= c.team.size {
		return nil, nil, fmt.Errorf("distmatrix.Gatherv: root %d out of range [0,%d): %w", root, c.team.size, kerrors.ErrOutOfBounds)
	}
	// combine runs only in the last arriver's call, so the per-rank lengths
	// are exchanged by their own collective to reach root whichever rank
	// arrives last.
	lens, err := c.AllGather([]V{V(len(local))})
	if err != nil {
		return nil, nil, err
	}
	out := c.team.collective(c.rank, local, func(contrib [][]V) [][]V {
		var all []V
		for _, part := range contrib {
			all = append(all, part...)
		}
		res := make([][]V, len(contrib))
		res[root] = all
		return res
	})
	if c.rank != root {
		return nil, nil, nil
	}
	counts := make([]int, len(lens))
	for i, l := range lens {
		counts[i] = int(l)
	}
	return out, counts, nil
}

// Scatterv requires every rank to pass the same counts slice (this
// reference implementation does not model MPI's asymmetric "only root
// knows the counts" case); only root's send buffer is consulted.
func (c *LocalCommunicator[V]) Scatterv(send []V, counts []int, root int) ([]V, error) {
	if root < 0 || root >= c.team.size {
		return nil, fmt.Errorf("distmatrix.Scatterv: root %d out of range [0,%d): %w", root, c.team.size, kerrors.ErrOutOfBounds)
	}
	var local []V
	if c.rank == root {
		local = send
	}
	out := c.team.collective(c.rank, local, func(contrib [][]V) [][]V {
		rootData := contrib[root]
		res := make([][]V, len(contrib))
		offset := 0
		for r := 0; r < len(contrib); r++ {
			n := 0
			if r < len(counts) {
				n = counts[r]
			}
			if offset+n <= len(rootData) {
				res[r] = rootData[offset : offset+n]
			}
			offset += n
		}
		return res
	})
	return out, nil
}

func (c *LocalCommunicator[V]) SendRecv(local []V, dest, src int) ([]V, error) {
	if dest < 0 || dest >= c.team.size || src < 0 || src >= c.team.size {
		return nil, fmt.Errorf("distmatrix.SendRecv: dest/src out of range [0,%d): %w", c.team.size, kerrors.ErrOutOfBounds)
	}
	if dest != c.rank {
		c.team.mailboxes[dest] <- local
	}
	if src == c.rank {
		return local, nil
	}
	return <-c.team.mailboxes[c.rank], nil
}
