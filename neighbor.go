package reader

// RightNeighbor returns the fragment index directly to the right of the
// fragment at position pos of order. Only the immediate successor in order
// can be the right neighbor: it must start at or after the fragment's right
// edge, and its vertical extent must start or end strictly inside the
// fragment's (or contain it). Fragments on an identical band, or that only
// touch vertically, are not neighbors.
func RightNeighbor(fragments []Fragment, order []int, pos int) (int, bool) {
	if pos < 0 || pos+1 >= len(order) {
		return -1, false
	}
	cur := fragments[order[pos]].Box
	next := fragments[order[pos+1]].Box
	if next.XLeft >= cur.XRight && cur.VerticalBandOverlaps(next) {
		return order[pos+1], true
	}
	return -1, false
}

// LeftNeighbor mirrors RightNeighbor using the immediate predecessor in order.
func LeftNeighbor(fragments []Fragment, order []int, pos int) (int, bool) {
	if pos <= 0 || pos >= len(order) {
		return -1, false
	}
	cur := fragments[order[pos]].Box
	prev := fragments[order[pos-1]].Box
	if prev.XRight <= cur.XLeft && cur.VerticalBandOverlaps(prev) {
		return order[pos-1], true
	}
	return -1, false
}
