package canvas

import "pixelia/internal/domain"

// Selectable reports whether e can ever become selected. Eraser strokes
// are part of the ink, not objects, and never are.
func Selectable(e *domain.Element) bool {
	return !e.IsEraser()
}

// MarqueeSelect returns a copy of elements with IsSelected set exactly for
// those whose bounds overlap the box spanned by a and b. Corner order does
// not matter. Rotation is ignored; the unrotated bounds are tested.
func MarqueeSelect(elements []domain.Element, a, b domain.Point) []domain.Element {
	box := domain.RectFromPoints(a, b)
	out := make([]domain.Element, len(elements))
	for i := range elements {
		out[i] = elements[i]
		out[i].IsSelected = Selectable(&elements[i]) && elements[i].Bounds().Intersects(box)
	}
	return out
}

// selectOnly marks id as the single selected element.
func selectOnly(elements []domain.Element, id string) []domain.Element {
	out := make([]domain.Element, len(elements))
	for i := range elements {
		out[i] = elements[i]
		out[i].IsSelected = elements[i].ID == id
	}
	return out
}

func deselectAll(elements []domain.Element) []domain.Element {
	return selectOnly(elements, "")
}

// Selected returns the selected elements in z-order.
func Selected(elements []domain.Element) []domain.Element {
	var out []domain.Element
	for i := range elements {
		if elements[i].IsSelected {
			out = append(out, elements[i])
		}
	}
	return out
}

func indexOf(elements []domain.Element, id string) int {
	for i := range elements {
		if elements[i].ID == id {
			return i
		}
	}
	return -1
}

// HitTest returns the topmost selectable element whose bounds contain the
// world point p, or nil.
func HitTest(elements []domain.Element, p domain.Point) *domain.Element {
	for i := len(elements) - 1; i >= 0; i-- {
		e := &elements[i]
		if !Selectable(e) {
			continue
		}
		b := e.Bounds()
		if p.X >= b.X && p.X <= b.Right() && p.Y >= b.Y && p.Y <= b.Bottom() {
			return e
		}
	}
	return nil
}
