package reader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vegarsti/reader/box"
)

// Strategy selects how selected fragments are put into reading order.
type Strategy int

const (
	// Original keeps the recognizer's order.
	Original Strategy = iota
	// XY sorts by rows top to bottom and left to right within a row.
	XY
	// Linear chains each fragment to its nearest neighbor on the right.
	Linear
	// XYLinear applies XY, then Linear to its output.
	XYLinear
)

var strategyNames = map[Strategy]string{
	Original: "original",
	XY:       "xy",
	Linear:   "linear",
	XYLinear: "xy-linear",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

func ParseStrategy(s string) (Strategy, error) {
	for strategy, name := range strategyNames {
		if strings.EqualFold(s, name) {
			return strategy, nil
		}
	}
	return Original, fmt.Errorf("unknown sort strategy %q", s)
}

// Two fragments on different columns share a row when their vertical
// extents overlap by more than this fraction of the lower one.
const sameRowOverlap = 0.15

// Order returns the indices of the selected usable fragments in reading order.
// An empty selection gives an empty order.
func Order(fragments []Fragment, selected []bool, strategy Strategy) []int {
	return Sort(fragments, Selected(fragments, selected), strategy)
}

// Sort permutes indices into fragments according to strategy.
// The input slice is not modified.
func Sort(fragments []Fragment, indices []int, strategy Strategy) []int {
	order := append([]int{}, indices...)
	switch strategy {
	case XY:
		return xyOrder(fragments, order)
	case Linear:
		return linearOrder(fragments, order)
	case XYLinear:
		return linearOrder(fragments, xyOrder(fragments, order))
	default:
		return order
	}
}

type byRow struct {
	fragments []Fragment
	order     []int
}

func (s byRow) Len() int {
	return len(s.order)
}
func (s byRow) Swap(i, j int) {
	s.order[i], s.order[j] = s.order[j], s.order[i]
}

// Less is not transitive on every layout. Fragments stacked in a column are
// ordered top first; fragments side by side on a row are ordered left first.
func (s byRow) Less(i, j int) bool {
	l := s.fragments[s.order[i]].Box
	r := s.fragments[s.order[j]].Box
	// same column
	if l.HorizontalBandIntersects(r) {
		return l.YTop > r.YTop
	}
	// same row
	if l.VerticalOverlapFraction(r) > sameRowOverlap {
		return l.XLeft < r.XLeft
	}
	return l.YTop > r.YTop
}

// xyOrder sorts stably, so fragments the comparator cannot tell apart keep
// their input order. A selection laid out in columns is read one column at
// a time, left to right.
func xyOrder(fragments []Fragment, order []int) []int {
	cols := columns(fragments, order)
	if cols == nil {
		sort.Stable(byRow{fragments: fragments, order: order})
		return order
	}
	sorted := make([]int, 0, len(order))
	for _, col := range cols {
		sort.Stable(byRow{fragments: fragments, order: col})
		sorted = append(sorted, col...)
	}
	return sorted
}

// columns splits order by the disjoint x regions of the fragments, left to
// right. It returns nil unless there are at least two regions and every
// region holds more than one row.
func columns(fragments []Fragment, order []int) [][]int {
	boxes := make([]box.Box, len(order))
	for k, i := range order {
		boxes[k] = fragments[i].Box
	}
	regions := box.XRegions(boxes)
	if len(regions) < 2 {
		return nil
	}
	sort.Sort(byLeft(regions))

	cols := make([][]int, len(regions))
	colBoxes := make([][]box.Box, len(regions))
	assigned := 0
	for k, b := range boxes {
		for r, region := range regions {
			if b.XOverlap(region[0], region[1]) {
				cols[r] = append(cols[r], order[k])
				colBoxes[r] = append(colBoxes[r], b)
				assigned++
				break
			}
		}
	}
	// malformed boxes can fall outside every region
	if assigned != len(order) {
		return nil
	}
	for _, bs := range colBoxes {
		if len(box.YRegions(bs)) < 2 {
			return nil
		}
	}
	return cols
}

type byLeft [][]float64

func (s byLeft) Len() int {
	return len(s)
}
func (s byLeft) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}
func (s byLeft) Less(i, j int) bool {
	return s[i][0] < s[j][0]
}

// linearOrder builds chains of fragments, starting each chain at the first
// fragment not yet emitted and following nearest right-hand neighbors. A chain
// ends when the head has no neighbor or its neighbor was already emitted.
func linearOrder(fragments []Fragment, order []int) []int {
	sorted := make([]int, 0, len(order))
	emitted := make([]bool, len(order))
	head := -1
	for len(sorted) < len(order) {
		if head < 0 {
			for p := range order {
				if !emitted[p] {
					head = p
					break
				}
			}
			emitted[head] = true
			sorted = append(sorted, order[head])
			continue
		}
		next := nearestRight(fragments, order, head)
		if next < 0 || emitted[next] {
			head = -1
			continue
		}
		emitted[next] = true
		sorted = append(sorted, order[next])
		head = next
	}
	return sorted
}

// nearestRight returns the position in order of the fragment with the smallest
// horizontal gap after the fragment at position head, among fragments sharing
// its vertical band and overlapping it by at most one symbol. The first one
// found in order wins ties. It returns -1 if there is none.
func nearestRight(fragments []Fragment, order []int, head int) int {
	h := fragments[order[head]]
	best := -1
	bestGap := 0.0
	for p, i := range order {
		if p == head {
			continue
		}
		c := fragments[i]
		gap := h.Box.HorizontalGap(c.Box)
		if gap < -max(h.symbolWidth(), c.symbolWidth()) {
			continue
		}
		if !h.Box.VerticalBandIntersects(c.Box) {
			continue
		}
		if best < 0 || gap < bestGap {
			best = p
			bestGap = gap
		}
	}
	return best
}
