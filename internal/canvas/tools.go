package canvas

import (
	"github.com/google/uuid"

	"pixelia/internal/domain"
)

type Tool string

const (
	ToolSelect      Tool = "SELECT"
	ToolHand        Tool = "HAND"
	ToolPen         Tool = "PEN"
	ToolHighlighter Tool = "HIGHLIGHTER"
	ToolEraser      Tool = "ERASER"
	ToolNote        Tool = "NOTE"
	ToolText        Tool = "TEXT"
	ToolShape       Tool = "SHAPE"
	ToolTable       Tool = "TABLE"
	ToolChart       Tool = "CHART"
	ToolImage       Tool = "IMAGE"
	ToolLine        Tool = "LINE"
	ToolCode        Tool = "CODE"
	ToolCheckbox    Tool = "CHECKBOX"
	ToolSticker     Tool = "STICKER"
)

// Valid reports whether t is one of the known tools.
func (t Tool) Valid() bool {
	switch t {
	case ToolSelect, ToolHand, ToolPen, ToolHighlighter, ToolEraser, ToolNote,
		ToolText, ToolShape, ToolTable, ToolChart, ToolImage, ToolLine,
		ToolCode, ToolCheckbox, ToolSticker:
		return true
	}
	return false
}

// draws reports whether the tool produces a path.
func (t Tool) draws() bool {
	return t == ToolPen || t == ToolHighlighter || t == ToolEraser || t == ToolLine
}

// Pen palette entries that have a matching highlighter color.
const (
	ColorBlack  = "#000000"
	ColorBlue   = "#3b82f6"
	ColorGreen  = "#22c55e"
	ColorRed    = "#ef4444"
	ColorRose   = "#f43f5e"
	ColorPurple = "#a855f7"
)

const (
	NoteYellow = "#fef3c7"

	HighlighterYellow = "rgba(253, 224, 71, 0.5)"
	HighlighterGreen  = "rgba(134, 239, 172, 0.5)"
	HighlighterBlue   = "rgba(147, 197, 253, 0.5)"
	HighlighterPink   = "rgba(249, 168, 212, 0.5)"
	HighlighterOrange = "rgba(253, 186, 116, 0.5)"
	HighlighterPurple = "rgba(216, 180, 254, 0.5)"

	highlighterWidth  = 24
	eraserWidthFactor = 5
	eraserColor       = "black"

	DefaultSticker    = "👍"
	DefaultFontFamily = "Inter, sans-serif"
)

// Stickers is the fixed sticker palette.
var Stickers = []string{
	"👍", "👎", "🔥", "❤️", "✅", "❌", "⭐", "💡",
	"🎉", "🚀", "⚠️", "❓", "1️⃣", "2️⃣", "3️⃣", "💯",
	"😊", "🤔", "😎", "🎓", "📚", "✏️", "💻", "⏰",
}

// highlighterColor picks the semi-transparent highlighter color that
// matches the current pen color. Unknown colors fall back to yellow.
func highlighterColor(pen string) string {
	switch pen {
	case ColorBlue:
		return HighlighterBlue
	case ColorGreen:
		return HighlighterGreen
	case ColorRed, ColorRose:
		return HighlighterPink
	case ColorPurple:
		return HighlighterPurple
	}
	return HighlighterYellow
}

// ToolState is the toolbar configuration that placement and drawing read.
type ToolState struct {
	Tool        Tool             `json:"tool"`
	Color       string           `json:"color"`
	StrokeWidth float64          `json:"strokeWidth"`
	FontSize    float64          `json:"fontSize"`
	ShapeType   domain.ShapeType `json:"shapeType"`
	Sticker     string           `json:"sticker"`
}

// DefaultToolState returns the toolbar state of a fresh editor.
func DefaultToolState() ToolState {
	return ToolState{
		Tool:        ToolSelect,
		Color:       ColorBlack,
		StrokeWidth: 4,
		FontSize:    24,
		ShapeType:   domain.ShapeRectangle,
		Sticker:     DefaultSticker,
	}
}

// colorOr returns the pen color unless it is the default black, in which
// case fallback is used.
func (s ToolState) colorOr(fallback string) string {
	if s.Color == ColorBlack {
		return fallback
	}
	return s.Color
}

// placeElement builds the element a one-shot placement tool drops at pos.
// ok is false for tools that do not place on pointer-down.
func placeElement(s ToolState, pos domain.Point) (el domain.Element, ok bool) {
	el = domain.Element{ID: uuid.NewString(), IsSelected: true}
	box := func(dx, dy, w, h float64) {
		el.X, el.Y, el.Width, el.Height = pos.X-dx, pos.Y-dy, w, h
	}

	switch s.Tool {
	case ToolNote:
		box(100, 75, 200, 150)
		el.Payload = &domain.NoteData{Color: s.colorOr(NoteYellow)}
	case ToolText:
		box(0, 0, 300, 100)
		el.Payload = &domain.TextData{
			Color:          s.Color,
			FontSize:       s.FontSize,
			FontFamily:     DefaultFontFamily,
			FontWeight:     "normal",
			FontStyle:      "normal",
			TextDecoration: "none",
		}
	case ToolCode:
		box(150, 75, 300, 150)
		el.Payload = &domain.CodeData{Language: "javascript", FontSize: 14}
	case ToolCheckbox:
		box(100, 100, 250, 200)
		el.Payload = &domain.CheckboxData{
			Items: []domain.CheckboxItem{{ID: uuid.NewString(), Text: "Task 1"}},
			Color: "#ffffff",
		}
	case ToolSticker:
		box(25, 25, 64, 64)
		sticker := s.Sticker
		if sticker == "" {
			sticker = DefaultSticker
		}
		el.Payload = &domain.StickerData{Content: sticker}
	case ToolShape:
		box(50, 50, 100, 100)
		shape := s.ShapeType
		if shape == "" {
			shape = domain.ShapeRectangle
		}
		el.Payload = &domain.ShapeData{ShapeType: shape, Color: s.colorOr("#e2e8f0")}
	case ToolChart:
		box(150, 100, 300, 200)
		el.Payload = &domain.ChartData{
			ChartType: domain.ChartBar,
			Data:      []float64{10, 25, 15, 30, 20},
			Labels:    []string{"Jan", "Feb", "Mar", "Apr", "May"},
			Color:     s.colorOr(ColorBlue),
		}
	case ToolTable:
		box(150, 75, 300, 150)
		data := make([][]string, 3)
		for i := range data {
			data[i] = make([]string, 3)
		}
		el.Payload = &domain.TableData{Rows: 3, Cols: 3, Data: data, BorderColor: "#e5e7eb"}
	default:
		return domain.Element{}, false
	}
	return el, true
}

// strokeElement turns a finished drawing gesture into a path element.
// ok is false when nothing should be committed.
func strokeElement(s ToolState, tool Tool, points []domain.Point) (el domain.Element, ok bool) {
	if len(points) == 0 {
		return domain.Element{}, false
	}
	path := &domain.PathData{
		Points:      append([]domain.Point(nil), points...),
		Color:       s.Color,
		StrokeWidth: s.StrokeWidth,
	}
	switch tool {
	case ToolLine:
		if len(points) != 2 || points[0] == points[1] {
			return domain.Element{}, false
		}
	case ToolEraser:
		path.Color = eraserColor
		path.StrokeWidth = s.StrokeWidth * eraserWidthFactor
		path.IsEraser = true
	case ToolHighlighter:
		path.Color = highlighterColor(s.Color)
		path.StrokeWidth = highlighterWidth
		path.IsHighlighter = true
	}
	return domain.Element{ID: uuid.NewString(), Payload: path}, true
}

// imageElement centers a decoded image on the given world point.
func imageElement(src string, center domain.Point) domain.Element {
	return domain.Element{
		ID:         uuid.NewString(),
		X:          center.X - 150,
		Y:          center.Y - 150,
		Width:      300,
		Height:     300,
		IsSelected: true,
		Payload:    &domain.ImageData{Src: src},
	}
}
