package runset

// noRun marks a missing prev/next link.
const noRun = -1

// run is one maximal interval of identical bits.
// Its end (exclusive) is the start of the next run, or the chain capacity
// when the run is the tail.
type run struct {
	start   int64
	prev    int
	next    int
	enabled bool
}

// runChain owns the runs of a bitset. Runs live in an arena and link to
// each other by arena index; released slots are recycled through free.
//
// The chain always satisfies:
//   - the head starts at 0 and starts are strictly increasing
//   - adjacent runs never share the same value
//   - the runs partition [0, capacity)
type runChain struct {
	runs     []run
	free     []int
	head     int
	tail     int
	capacity int64
}

func newRunChain(capacity int64, enabled bool) *runChain {
	chain := &runChain{capacity: capacity, head: noRun, tail: noRun}
	chain.head = chain.alloc(0, enabled, noRun, noRun)
	chain.tail = chain.head
	return chain
}

func (chain *runChain) alloc(start int64, enabled bool, prev, next int) int {
	r := run{start: start, enabled: enabled, prev: prev, next: next}
	if n := len(chain.free); n > 0 {
		index := chain.free[n-1]
		chain.free = chain.free[:n-1]
		chain.runs[index] = r
		return index
	}
	chain.runs = append(chain.runs, r)
	return len(chain.runs) - 1
}

func (chain *runChain) release(index int) {
	chain.runs[index] = run{prev: noRun, next: noRun}
	chain.free = append(chain.free, index)
}

func (chain *runChain) end(index int) int64 {
	if next := chain.runs[index].next; next != noRun {
		return chain.runs[next].start
	}
	return chain.capacity
}

func (chain *runChain) length(index int) int64 {
	return chain.end(index) - chain.runs[index].start
}

// count returns the number of live runs.
func (chain *runChain) count() int {
	return len(chain.runs) - len(chain.free)
}

func (chain *runChain) clone() *runChain {
	runs := make([]run, len(chain.runs))
	copy(runs, chain.runs)
	free := make([]int, len(chain.free))
	copy(free, chain.free)
	return &runChain{runs: runs, free: free, head: chain.head, tail: chain.tail, capacity: chain.capacity}
}

// flipLeft flips [run.start, end) where end falls strictly inside the run.
// The flipped prefix joins the predecessor, which is created as the new head
// when the run has none.
func (chain *runChain) flipLeft(index int, end int64) int {
	prev := chain.runs[index].prev
	if prev == noRun {
		prev = chain.alloc(chain.runs[index].start, !chain.runs[index].enabled, noRun, index)
		chain.runs[index].prev = prev
		chain.head = prev
	}
	chain.runs[index].start = end
	return prev
}

// flipRight flips [start, run.end) where start falls strictly inside the run.
// The flipped suffix joins the successor by moving its start back, so no
// node is allocated unless the run is the tail.
func (chain *runChain) flipRight(index int, start int64) int {
	next := chain.runs[index].next
	if next == noRun {
		next = chain.alloc(start, !chain.runs[index].enabled, index, noRun)
		chain.runs[index].next = next
		chain.tail = next
		return next
	}
	chain.runs[next].start = start
	return next
}

// flipSegment flips the whole run. Unless the run is alone, its flipped value
// equals its neighbours' value, so it is spliced out and merged into them.
// The returned run is the one now covering the old run's end, or the
// surviving neighbour when the run was the tail.
func (chain *runChain) flipSegment(index int) int {
	r := chain.runs[index]
	switch {
	case r.prev == noRun && r.next == noRun:
		chain.runs[index].enabled = !r.enabled
		return index
	case r.next == noRun:
		chain.runs[r.prev].next = noRun
		chain.tail = r.prev
		chain.release(index)
		return r.prev
	case r.prev == noRun:
		chain.runs[r.next].prev = noRun
		chain.runs[r.next].start = r.start
		chain.head = r.next
		chain.release(index)
		return r.next
	default:
		after := chain.runs[r.next].next
		chain.runs[r.prev].next = after
		if after == noRun {
			chain.tail = r.prev
		} else {
			chain.runs[after].prev = r.prev
		}
		chain.release(r.next)
		chain.release(index)
		return r.prev
	}
}

// flipMiddle flips [start, end) strictly inside the run, splitting it into
// the untouched prefix, a flipped middle and a suffix with the original value.
func (chain *runChain) flipMiddle(index int, start, end int64) int {
	enabled := chain.runs[index].enabled
	next := chain.runs[index].next
	middle := chain.alloc(start, !enabled, index, noRun)
	suffix := chain.alloc(end, enabled, middle, next)
	chain.runs[middle].next = suffix
	if next == noRun {
		chain.tail = suffix
	} else {
		chain.runs[next].prev = suffix
	}
	chain.runs[index].next = middle
	return middle
}
