package box

// Box is a data structure representing a box in an image,
// with normalized x and y float coordinates in [0, 1].
// The origin is the bottom left corner of the image, so y grows upward
// and YTop >= YBottom for a well-formed box.
type Box struct {
	XLeft   float64 `json:"minX"`
	XRight  float64 `json:"maxX"`
	YBottom float64 `json:"minY"`
	YTop    float64 `json:"maxY"`
}

func (b Box) Width() float64 {
	return b.XRight - b.XLeft
}

func (b Box) Height() float64 {
	return b.YTop - b.YBottom
}

// Inside other box o if it is completely inside,
// i.e. all coordinates for the outer box are more extreme or overlap
func (b Box) Inside(o Box) bool {
	return o.XLeft <= b.XLeft && o.XRight >= b.XRight && o.YBottom <= b.YBottom && o.YTop >= b.YTop
}

// Contains reports whether the point (x, y) lies within the box, edges included.
func (b Box) Contains(x, y float64) bool {
	return b.XLeft <= x && x <= b.XRight && b.YBottom <= y && y <= b.YTop
}

// Box's x coordinates overlap with the region of left and right
func (b Box) XOverlap(left float64, right float64) bool {
	// box is to the left
	if b.XRight < left {
		return false
	}
	// box is to the right
	if b.XLeft > right {
		return false
	}
	return true
}

// Box's y coordinates overlap with the region of bottom and top
func (b Box) YOverlap(bottom float64, top float64) bool {
	// box is below
	if b.YTop < bottom {
		return false
	}
	// box is above
	if b.YBottom > top {
		return false
	}
	return true
}

// VerticalBandOverlaps reports whether o's vertical extent starts or ends
// strictly inside b's, or b's starts strictly inside o's. Boxes that only
// touch do not overlap, and neither do boxes with identical extents.
// The test is not symmetric: b is the box being looked from.
func (b Box) VerticalBandOverlaps(o Box) bool {
	return (b.YBottom > o.YBottom && b.YBottom < o.YTop) ||
		(b.YTop > o.YBottom && b.YTop < o.YTop) ||
		(o.YBottom < b.YTop && o.YBottom > b.YBottom)
}

// VerticalBandIntersects reports whether the vertical extents of b and o
// share a strictly positive length. Identical extents intersect.
func (b Box) VerticalBandIntersects(o Box) bool {
	return overlap(b.YBottom, b.YTop, o.YBottom, o.YTop) > 0
}

// HorizontalBandIntersects is VerticalBandIntersects on the x axis.
func (b Box) HorizontalBandIntersects(o Box) bool {
	return overlap(b.XLeft, b.XRight, o.XLeft, o.XRight) > 0
}

// HorizontalGap is the distance from the right edge of b to the left edge of o.
// It is negative when o starts before b ends.
func (b Box) HorizontalGap(o Box) float64 {
	return o.XLeft - b.XRight
}

// VerticalOverlapFraction is the height of the intersection of the two
// vertical extents divided by the smaller of the two heights.
// Boxes without positive height never overlap.
func (b Box) VerticalOverlapFraction(o Box) float64 {
	h := min(b.Height(), o.Height())
	if h <= 0 {
		return 0
	}
	in := overlap(b.YBottom, b.YTop, o.YBottom, o.YTop)
	if in <= 0 {
		return 0
	}
	return in / h
}

// overlap is the length of the intersection of [lo1, hi1] and [lo2, hi2],
// negative if they are disjoint.
func overlap(lo1, hi1, lo2, hi2 float64) float64 {
	return min(hi1, hi2) - max(lo1, lo2)
}

// Find all non-overlapping regions in x direction of coordinates
// where there is at least one box.
func XRegions(boxes []Box) [][]float64 {
	regions := make([][]float64, 0)
	for _, b := range boxes {
		found := false
		for _, region := range regions {
			left := region[0]
			right := region[1]
			if b.XOverlap(left, right) {
				region[0] = min(left, b.XLeft)
				region[1] = max(right, b.XRight)
				found = true
				break
			}
		}
		if !found {
			regions = append(regions, []float64{b.XLeft, b.XRight})
		}
	}
	return mergeRegions(regions)
}

// Find all non-overlapping regions in y direction of coordinates
// where there is at least one box.
func YRegions(boxes []Box) [][]float64 {
	regions := make([][]float64, 0)
	for _, b := range boxes {
		// overlap = has overlap with existing region
		overlap := false
		for _, region := range regions {
			bottom := region[0]
			top := region[1]
			// box overlaps with current region; expand the region
			if b.YOverlap(bottom, top) {
				region[0] = min(bottom, b.YBottom)
				region[1] = max(top, b.YTop)
				overlap = true
				break
			}
		}
		if !overlap {
			regions = append(regions, []float64{b.YBottom, b.YTop})
		}
	}
	// we're likely to have some duplicate regions; merge so we don't have overlap
	return mergeRegions(regions)
}

// Remove duplicates
func mergeRegions(regions [][]float64) [][]float64 {
	newRegions := make([][]float64, 0)
	for _, r := range regions {
		overlap := false
		for i, n := range newRegions {
			// this region (n) is inside other (r); widen it
			if r[0] <= n[0] && n[1] <= r[1] {
				overlap = true
				newRegions[i][0] = r[0]
				newRegions[i][1] = r[1]
				break
			}
			// this region (n) is completely outside other (r)
			if n[0] <= r[0] && r[1] <= n[1] {
				overlap = true
				break
			}
			// this region is to the left, but not on the right
			if n[0] <= r[0] && n[1] <= r[1] && r[0] <= n[1] {
				overlap = true
				newRegions[i][1] = r[1]
				break
			}
			// this region is to the right, but not to the left
			if r[0] <= n[0] && r[1] <= n[1] && n[0] <= r[1] {
				overlap = true
				newRegions[i][0] = r[0]
				break
			}
		}
		if !overlap {
			newRegions = append(newRegions, r)
		}
	}
	return newRegions
}

func min(f1, f2 float64) float64 {
	if f1 < f2 {
		return f1
	}
	return f2
}

func max(f1, f2 float64) float64 {
	if f1 < f2 {
		return f2
	}
	return f1
}
