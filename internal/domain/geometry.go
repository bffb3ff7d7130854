package domain

import "math"

// Point is a position in world (or screen) coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Rect is an axis-aligned box. Width and Height are never negative.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectFromPoints returns the normalized box spanned by two corners,
// regardless of which corner was dragged first.
func RectFromPoints(a, b Point) Rect {
	return Rect{
		X:      math.Min(a.X, b.X),
		Y:      math.Min(a.Y, b.Y),
		Width:  math.Abs(b.X - a.X),
		Height: math.Abs(b.Y - a.Y),
	}
}

func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the midpoint of the box.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Intersects reports whether the two boxes overlap. Touching edges count.
func (r Rect) Intersects(o Rect) bool {
	return r.X <= o.Right() && r.Right() >= o.X &&
		r.Y <= o.Bottom() && r.Bottom() >= o.Y
}

// Union returns the smallest box containing both r and o.
func (r Rect) Union(o Rect) Rect {
	minX := math.Min(r.X, o.X)
	minY := math.Min(r.Y, o.Y)
	return Rect{
		X:      minX,
		Y:      minY,
		Width:  math.Max(r.Right(), o.Right()) - minX,
		Height: math.Max(r.Bottom(), o.Bottom()) - minY,
	}
}
