package runset

// locate returns the run containing index. The scan starts from the head when
// index lies in the first half of [0, tail.start], otherwise from the tail.
// index must be in [0, capacity).
func (chain *runChain) locate(index int64) int {
	// index <= tail.start - index is 2*index <= tail.start without overflow
	if index <= chain.runs[chain.tail].start-index {
		return chain.walk(chain.head, index)
	}
	current := chain.tail
	for index < chain.runs[current].start {
		current = chain.runs[current].prev
	}
	return current
}

// walk advances from run current to the run containing index.
// index must not precede current's start.
func (chain *runChain) walk(current int, index int64) int {
	for index >= chain.end(current) {
		current = chain.runs[current].next
	}
	return current
}
