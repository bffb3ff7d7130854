package canvas

import (
	"math"

	"pixelia/internal/domain"
)

const (
	MinScale = 0.1
	MaxScale = 5.0

	// wheelZoomFactor converts a wheel deltaY into a scale delta.
	wheelZoomFactor = 0.001
)

// Viewport maps world coordinates onto the canvas surface:
//
//	screen = world*Scale + (X, Y)
//
// X and Y are a raw pixel offset and do not depend on Scale.
type Viewport struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
}

// DefaultViewport returns the initial transform for a freshly created
// project. Mobile layouts start further left and zoomed out.
func DefaultViewport(mobile bool) Viewport {
	if mobile {
		return Viewport{X: 20, Y: 100, Scale: 0.8}
	}
	return Viewport{X: 300, Y: 100, Scale: 1}
}

// OpenedViewport returns the transform used when an existing project is
// reopened from the dashboard.
func OpenedViewport(mobile bool) Viewport {
	if mobile {
		return Viewport{X: 50, Y: 100, Scale: 1}
	}
	return Viewport{X: 300, Y: 100, Scale: 1}
}

// WorldToScreen converts a world point to canvas-local screen pixels.
func (v Viewport) WorldToScreen(p domain.Point) domain.Point {
	return domain.Point{X: p.X*v.Scale + v.X, Y: p.Y*v.Scale + v.Y}
}

// ScreenToWorld converts canvas-local screen pixels to a world point.
func (v Viewport) ScreenToWorld(p domain.Point) domain.Point {
	return domain.Point{X: (p.X - v.X) / v.Scale, Y: (p.Y - v.Y) / v.Scale}
}

// Pan translates the offset by a screen-pixel delta.
func (v Viewport) Pan(dx, dy float64) Viewport {
	v.X += dx
	v.Y += dy
	return v
}

// ZoomAbout changes the scale by delta, clamped to [MinScale, MaxScale],
// keeping the world point under anchor (canvas-local pixels) fixed.
func (v Viewport) ZoomAbout(delta float64, anchor domain.Point) Viewport {
	world := v.ScreenToWorld(anchor)
	scale := ClampScale(v.Scale + delta)
	return Viewport{
		X:     anchor.X - world.X*scale,
		Y:     anchor.Y - world.Y*scale,
		Scale: scale,
	}
}

// ClampScale bounds s to the supported zoom range.
func ClampScale(s float64) float64 {
	return math.Min(math.Max(MinScale, s), MaxScale)
}
