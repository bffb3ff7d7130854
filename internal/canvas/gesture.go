package canvas

import "pixelia/internal/domain"

// Mode names the gesture the editor is currently resolving.
type Mode int

const (
	ModeIdle Mode = iota
	ModePanning
	ModeDrawing
	ModeMoving
	ModeResizing
	ModeRotating
	ModeMarquee
	ModeGuideDrag
)

var modeNames = [...]string{"idle", "panning", "drawing", "moving", "resizing", "rotating", "marquee", "guide-drag"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// gesture is the state of one pointer-down → move* → up interaction.
// Exactly one variant is active; each carries only the data its mode
// needs, so nothing has to be reset field by field on pointer-up.
type gesture interface {
	mode() Mode
}

type idle struct{}

// panning tracks the last client position; deltas are raw pixels.
type panning struct {
	last domain.Point
}

type drawing struct {
	tool   Tool
	points []domain.Point // world
}

// moving drags one element from its snapshot by the client delta since
// start.
type moving struct {
	id       string
	snapshot domain.Element
	start    domain.Point // client
}

type resizing struct {
	id       string
	handle   Handle
	snapshot domain.Element
	start    domain.Point // client
}

type rotating struct {
	id              string
	snapshot        domain.Element
	pivot           domain.Point // world
	initialAngle    float64      // radians
	initialRotation float64      // degrees
}

type marquee struct {
	start   domain.Point // world
	current domain.Point // world
}

type guideDrag struct {
	guide domain.RulerGuide
}

func (idle) mode() Mode       { return ModeIdle }
func (*panning) mode() Mode   { return ModePanning }
func (*drawing) mode() Mode   { return ModeDrawing }
func (*moving) mode() Mode    { return ModeMoving }
func (*resizing) mode() Mode  { return ModeResizing }
func (*rotating) mode() Mode  { return ModeRotating }
func (*marquee) mode() Mode   { return ModeMarquee }
func (*guideDrag) mode() Mode { return ModeGuideDrag }

// Handle is a resize grip: one or two of n, s, e, w.
type Handle string

const (
	HandleN  Handle = "n"
	HandleS  Handle = "s"
	HandleE  Handle = "e"
	HandleW  Handle = "w"
	HandleNW Handle = "nw"
	HandleNE Handle = "ne"
	HandleSW Handle = "sw"
	HandleSE Handle = "se"
)

func (h Handle) has(edge byte) bool {
	for i := 0; i < len(h); i++ {
		if h[i] == edge {
			return true
		}
	}
	return false
}

// minElementSize is the smallest width or height a resize can produce.
const minElementSize = 20

// resizeBox applies a world-space drag of (dx, dy) on handle h to the
// snapshot box. North and west handles move the origin so the opposite
// edge stays put; sizes never drop below minElementSize.
func resizeBox(orig domain.Rect, h Handle, dx, dy float64) domain.Rect {
	r := orig
	if h.has('e') {
		r.Width = max(minElementSize, orig.Width+dx)
	}
	if h.has('w') {
		r.Width = max(minElementSize, orig.Width-dx)
		r.X = orig.X + (orig.Width - r.Width)
	}
	if h.has('s') {
		r.Height = max(minElementSize, orig.Height+dy)
	}
	if h.has('n') {
		r.Height = max(minElementSize, orig.Height-dy)
		r.Y = orig.Y + (orig.Height - r.Height)
	}
	return r
}
