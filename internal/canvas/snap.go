package canvas

import (
	"math"

	"pixelia/internal/domain"
)

// Snapper adjusts a proposed drag delta for the moving element and
// returns the guides to display while dragging. Deltas are world units.
type Snapper interface {
	Snap(moving domain.Element, all []domain.Element, dx, dy, scale float64) (sdx, sdy float64, guides []domain.AlignmentGuide)
}

// IdentitySnapper never adjusts the delta.
type IdentitySnapper struct{}

func (IdentitySnapper) Snap(_ domain.Element, _ []domain.Element, dx, dy, _ float64) (float64, float64, []domain.AlignmentGuide) {
	return dx, dy, nil
}

// DefaultSnapTolerance is the snap distance in screen pixels.
const DefaultSnapTolerance = 6

// AlignSnapper snaps the edges and center of the moving element to the
// edges and centers of the other elements, independently per axis. When
// no alignment is in range it tries to center the element between its
// nearest neighbours on that axis and reports the equal gap.
type AlignSnapper struct {
	// Tolerance is in screen pixels; it is divided by the zoom so snapping
	// feels the same at every scale.
	Tolerance float64
}

type axisCandidate struct {
	delta float64 // amount to add to the moving box
	dist  float64
	guide domain.AlignmentGuide
	found bool
}

func (c *axisCandidate) consider(delta, threshold float64, g domain.AlignmentGuide) {
	d := math.Abs(delta)
	if d > threshold {
		return
	}
	if !c.found || d < c.dist {
		*c = axisCandidate{delta: delta, dist: d, guide: g, found: true}
	}
}

func (s AlignSnapper) Snap(moving domain.Element, all []domain.Element, dx, dy, scale float64) (float64, float64, []domain.AlignmentGuide) {
	tol := s.Tolerance
	if tol <= 0 {
		tol = DefaultSnapTolerance
	}
	if scale <= 0 {
		scale = 1
	}
	threshold := tol / scale

	m := moving.Bounds()
	m.X += dx
	m.Y += dy

	var anchors []domain.Rect
	for i := range all {
		if all[i].ID == moving.ID || all[i].IsEraser() {
			continue
		}
		anchors = append(anchors, all[i].Bounds())
	}
	if len(anchors) == 0 {
		return dx, dy, nil
	}

	var bx, by axisCandidate
	mxs := [3]float64{m.X, m.X + m.Width/2, m.Right()}
	mys := [3]float64{m.Y, m.Y + m.Height/2, m.Bottom()}
	for _, a := range anchors {
		axs := [3]float64{a.X, a.X + a.Width/2, a.Right()}
		ays := [3]float64{a.Y, a.Y + a.Height/2, a.Bottom()}
		for i, mx := range mxs {
			for j, ax := range axs {
				// centers only align with centers
				if (i == 1) != (j == 1) {
					continue
				}
				bx.consider(ax-mx, threshold, domain.AlignmentGuide{
					Type: domain.AlignVertical,
					Pos:  ax,
					Min:  math.Min(m.Y, a.Y),
					Max:  math.Max(m.Bottom(), a.Bottom()),
				})
			}
		}
		for i, my := range mys {
			for j, ay := range ays {
				if (i == 1) != (j == 1) {
					continue
				}
				by.consider(ay-my, threshold, domain.AlignmentGuide{
					Type: domain.AlignHorizontal,
					Pos:  ay,
					Min:  math.Min(m.X, a.X),
					Max:  math.Max(m.Right(), a.Right()),
				})
			}
		}
	}

	if !bx.found {
		bx = gapCandidate(m, anchors, threshold, true)
	}
	if !by.found {
		by = gapCandidate(m, anchors, threshold, false)
	}

	var guides []domain.AlignmentGuide
	if bx.found {
		dx += bx.delta
		guides = append(guides, bx.guide)
	}
	if by.found {
		dy += by.delta
		guides = append(guides, by.guide)
	}
	return dx, dy, guides
}

// gapCandidate looks for the nearest neighbour on each side of m along one
// axis (among anchors overlapping m on the other axis) and proposes the
// shift that makes both gaps equal.
func gapCandidate(m domain.Rect, anchors []domain.Rect, threshold float64, horizontal bool) axisCandidate {
	lo, hi, crossLo, crossHi := m.X, m.Right(), m.Y, m.Bottom()
	if !horizontal {
		lo, hi, crossLo, crossHi = m.Y, m.Bottom(), m.X, m.Right()
	}

	before, after := math.Inf(-1), math.Inf(1)
	for _, a := range anchors {
		aLo, aHi, aCrossLo, aCrossHi := a.X, a.Right(), a.Y, a.Bottom()
		if !horizontal {
			aLo, aHi, aCrossLo, aCrossHi = a.Y, a.Bottom(), a.X, a.Right()
		}
		if aCrossHi < crossLo || aCrossLo > crossHi {
			continue
		}
		if aHi <= lo && aHi > before {
			before = aHi
		}
		if aLo >= hi && aLo < after {
			after = aLo
		}
	}
	if math.IsInf(before, 0) || math.IsInf(after, 0) {
		return axisCandidate{}
	}

	gapBefore, gapAfter := lo-before, after-hi
	shift := (gapAfter - gapBefore) / 2
	if math.Abs(shift) > threshold {
		return axisCandidate{}
	}
	gap := gapBefore + shift
	g := domain.AlignmentGuide{
		Type:    domain.AlignGapX,
		Pos:     (crossLo + crossHi) / 2,
		Min:     before,
		Max:     after,
		GapSize: gap,
	}
	if !horizontal {
		g.Type = domain.AlignGapY
	}
	return axisCandidate{delta: shift, dist: math.Abs(shift), guide: g, found: true}
}
