package network

// Order is the per-(class, phase) canonical dimension traversal order used
// by both the planner (to decide which hypercube port to consume next while
// simulating a phase's move mask) and the forwarder (to find the next set
// bit after the one just consumed). This replaces the original source's six
// hardcoded order0..order5 arrays with a single 2-D table, built once by
// BuildOrder when a Planner or Forwarder is constructed.
//
// Request phases run ascending, descending, ascending; reply phases run the
// mirror image, descending, ascending, descending. Reversing direction
// between consecutive phases (and between the two classes) is what breaks
// the hypercube's turn-model cycle - the VC partition alone would not be
// deadlock-free without it.
type Order [2][3][]int

// BuildOrder constructs the canonical per-phase orderings for an
// h-dimensional hypercube.
func BuildOrder(h int) Order {
	asc := make([]int, h)
	desc := make([]int, h)
	for d := 0; d < h; d++ {
		asc[d] = d
		desc[d] = h - 1 - d
	}
	return Order{
		ClassRequest: {asc, desc, asc},
		ClassReply:   {desc, asc, desc},
	}
}

// indexOf returns the position of dim within order, or -1 if absent.
func indexOf(order []int, dim int) int {
	for i, d := range order {
		if d == dim {
			return i
		}
	}
	return -1
}

// nextSetBit scans order starting at position from for the first dimension
// whose bit is set in mask, returning its port number (dim+1) and true. The
// second return is false when no such dimension exists at or after from.
func nextSetBit(order []int, from, mask int) (port int, ok bool) {
	for i := from; i < len(order); i++ {
		d := order[i]
		if mask&(1<<uint(d)) != 0 {
			return d + 1, true
		}
	}
	return 0, false
}
