package canvas

import "math"

const (
	// rulerBaseStep is the target spacing of major ticks in screen pixels.
	rulerBaseStep = 50
	rulerPadding  = 50
	rulerSubTicks = 4
)

// Tick is one major ruler mark with its minor subdivisions.
type Tick struct {
	Screen float64   `json:"screen"` // pixels along the ruler
	Label  int       `json:"label"`  // rounded world coordinate
	Minor  []float64 `json:"minor"`  // pixels of the subdivision marks
}

// RulerTicks lays out the marks of a ruler of the given pixel length.
// offset is the viewport X for a horizontal ruler and Y for a vertical one.
// The world step is rulerBaseStep/zoom rounded up to a power of two.
func RulerTicks(zoom, offset, length float64) []Tick {
	if zoom <= 0 || length <= 0 {
		return nil
	}
	step := math.Pow(2, math.Ceil(math.Log2(rulerBaseStep/zoom)))
	startWorld := -offset / zoom
	endWorld := startWorld + length/zoom
	sub := step / rulerSubTicks

	var ticks []Tick
	for pos := math.Floor(startWorld/step) * step; pos < endWorld; pos += step {
		screen := pos*zoom + offset
		if screen < -rulerPadding || screen > length+rulerPadding {
			continue
		}
		t := Tick{Screen: screen, Label: int(math.Round(pos))}
		for i := 1; i < rulerSubTicks; i++ {
			t.Minor = append(t.Minor, (pos+sub*float64(i))*zoom+offset)
		}
		ticks = append(ticks, t)
	}
	return ticks
}
