package runset

// flip flips [start, end) intersected with the run at index, where start lies
// inside the run. It returns the run that now contains the run's old end, which
// is where a multi-run flip continues.
func (chain *runChain) flip(index int, start, end int64) int {
	runEnd := chain.end(index)
	if start == chain.runs[index].start {
		if end < runEnd {
			return chain.flipLeft(index, end)
		}
		return chain.flipSegment(index)
	}
	if end < runEnd {
		return chain.flipMiddle(index, start, end)
	}
	return chain.flipRight(index, start)
}

// flipAll flips every bit of [start, end), starting at the run containing start.
func (chain *runChain) flipAll(index int, start, end int64) {
	for {
		runEnd := chain.end(index)
		index = chain.flip(index, start, end)
		if end <= runEnd {
			return
		}
		start = runEnd
	}
}

// setAll sets every bit of [start, end) to enabled, starting at the run
// containing start. Runs already holding the value are skipped.
func (chain *runChain) setAll(index int, start, end int64, enabled bool) {
	for {
		runEnd := chain.end(index)
		if chain.runs[index].enabled != enabled {
			index = chain.flip(index, start, end)
		} else if end > runEnd {
			index = chain.runs[index].next
		}
		if end <= runEnd {
			return
		}
		start = runEnd
	}
}

func (chain *runChain) bitCount() int64 {
	var count int64
	for current := chain.head; current != noRun; current = chain.runs[current].next {
		if chain.runs[current].enabled {
			count += chain.length(current)
		}
	}
	return count
}
