package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

type Kind string

const (
	KindPath     Kind = "path"
	KindNote     Kind = "note"
	KindText     Kind = "text"
	KindCode     Kind = "code"
	KindCheckbox Kind = "checkbox"
	KindSticker  Kind = "sticker"
	KindShape    Kind = "shape"
	KindChart    Kind = "chart"
	KindTable    Kind = "table"
	KindImage    Kind = "image"
)

type ShapeType string

const (
	ShapeRectangle ShapeType = "RECTANGLE"
	ShapeCircle    ShapeType = "CIRCLE"
	ShapeTriangle  ShapeType = "TRIANGLE"
	ShapeStar      ShapeType = "STAR"
	ShapeDiamond   ShapeType = "DIAMOND"
	ShapeHexagon   ShapeType = "HEXAGON"
	ShapeBubble    ShapeType = "BUBBLE"
	ShapeArrow     ShapeType = "ARROW"
)

type ChartType string

const (
	ChartBar  ChartType = "BAR"
	ChartPie  ChartType = "PIE"
	ChartLine ChartType = "LINE"
)

// Payload is the kind-specific half of an Element. The set of
// implementations is closed: one struct per Kind, all in this file.
type Payload interface {
	Kind() Kind
	clone() Payload
}

// Element is a single item placed on a page.
//
// Every element has an identity, an origin and a rotation. Boxed kinds
// (everything except paths) also carry Width and Height; paths keep their
// extent in the point list, relative to the origin.
type Element struct {
	ID         string
	X          float64
	Y          float64
	Width      float64
	Height     float64
	Rotation   float64 // degrees
	IsSelected bool
	Payload    Payload
}

// Kind returns the discriminant of the element's payload.
func (e *Element) Kind() Kind {
	if e.Payload == nil {
		return ""
	}
	return e.Payload.Kind()
}

// Boxed reports whether the element is sized by Width/Height.
func (e *Element) Boxed() bool { return e.Kind() != KindPath }

// Clone returns a deep copy; no slice is shared with the receiver.
func (e Element) Clone() Element {
	if e.Payload != nil {
		e.Payload = e.Payload.clone()
	}
	return e
}

// CloneElements deep-copies a whole element list.
func CloneElements(els []Element) []Element {
	if els == nil {
		return nil
	}
	out := make([]Element, len(els))
	for i := range els {
		out[i] = els[i].Clone()
	}
	return out
}

// Bounds returns the element's axis-aligned box in world coordinates.
// Rotation is not applied.
func (e *Element) Bounds() Rect {
	if p, ok := e.Payload.(*PathData); ok {
		if len(p.Points) == 0 {
			return Rect{X: e.X, Y: e.Y}
		}
		minX, minY := math.Inf(1), math.Inf(1)
		maxX, maxY := math.Inf(-1), math.Inf(-1)
		for _, pt := range p.Points {
			minX = math.Min(minX, pt.X)
			minY = math.Min(minY, pt.Y)
			maxX = math.Max(maxX, pt.X)
			maxY = math.Max(maxY, pt.Y)
		}
		return Rect{X: e.X + minX, Y: e.Y + minY, Width: maxX - minX, Height: maxY - minY}
	}
	return Rect{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height}
}

// IsEraser reports whether the element is an eraser stroke.
func (e *Element) IsEraser() bool {
	p, ok := e.Payload.(*PathData)
	return ok && p.IsEraser
}

// ── Typed accessors ─────────────────────────────────────────
// Each returns nil unless the element is of that kind.

func (e *Element) Path() *PathData         { p, _ := e.Payload.(*PathData); return p }
func (e *Element) Note() *NoteData         { p, _ := e.Payload.(*NoteData); return p }
func (e *Element) Text() *TextData         { p, _ := e.Payload.(*TextData); return p }
func (e *Element) Code() *CodeData         { p, _ := e.Payload.(*CodeData); return p }
func (e *Element) Checkbox() *CheckboxData { p, _ := e.Payload.(*CheckboxData); return p }
func (e *Element) Sticker() *StickerData   { p, _ := e.Payload.(*StickerData); return p }
func (e *Element) Shape() *ShapeData       { p, _ := e.Payload.(*ShapeData); return p }
func (e *Element) Chart() *ChartData       { p, _ := e.Payload.(*ChartData); return p }
func (e *Element) Table() *TableData       { p, _ := e.Payload.(*TableData); return p }
func (e *Element) Image() *ImageData       { p, _ := e.Payload.(*ImageData); return p }

// ── Payloads ────────────────────────────────────────────────

// PathData is a freehand, highlighter, eraser or straight-line stroke.
// Points are relative to the element origin.
type PathData struct {
	Points        []Point `json:"points"`
	Color         string  `json:"color"`
	StrokeWidth   float64 `json:"strokeWidth"`
	IsEraser      bool    `json:"isEraser,omitempty"`
	IsHighlighter bool    `json:"isHighlighter,omitempty"`
}

func (*PathData) Kind() Kind { return KindPath }
func (p *PathData) clone() Payload {
	c := *p
	c.Points = append([]Point(nil), p.Points...)
	return &c
}

type NoteData struct {
	Text  string `json:"text"`
	Color string `json:"color"`
}

func (*NoteData) Kind() Kind       { return KindNote }
func (p *NoteData) clone() Payload { c := *p; return &c }

type TextData struct {
	Text           string  `json:"text"`
	Color          string  `json:"color"`
	FontSize       float64 `json:"fontSize"`
	FontFamily     string  `json:"fontFamily"`
	FontWeight     string  `json:"fontWeight,omitempty"`
	FontStyle      string  `json:"fontStyle,omitempty"`
	TextDecoration string  `json:"textDecoration,omitempty"`
	Align          string  `json:"align,omitempty"`
}

func (*TextData) Kind() Kind       { return KindText }
func (p *TextData) clone() Payload { c := *p; return &c }

type CodeData struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	FontSize float64 `json:"fontSize"`
}

func (*CodeData) Kind() Kind       { return KindCode }
func (p *CodeData) clone() Payload { c := *p; return &c }

type CheckboxItem struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

type CheckboxData struct {
	Items []CheckboxItem `json:"items"`
	Color string         `json:"color"`
}

func (*CheckboxData) Kind() Kind { return KindCheckbox }
func (p *CheckboxData) clone() Payload {
	c := *p
	c.Items = append([]CheckboxItem(nil), p.Items...)
	return &c
}

type StickerData struct {
	Content string `json:"content"`
}

func (*StickerData) Kind() Kind       { return KindSticker }
func (p *StickerData) clone() Payload { c := *p; return &c }

type ShapeData struct {
	ShapeType ShapeType `json:"shapeType"`
	Color     string    `json:"color"`
}

func (*ShapeData) Kind() Kind       { return KindShape }
func (p *ShapeData) clone() Payload { c := *p; return &c }

type ChartData struct {
	ChartType ChartType `json:"chartType"`
	Data      []float64 `json:"data"`
	Labels    []string  `json:"labels"`
	Color     string    `json:"color"`
}

func (*ChartData) Kind() Kind { return KindChart }
func (p *ChartData) clone() Payload {
	c := *p
	c.Data = append([]float64(nil), p.Data...)
	c.Labels = append([]string(nil), p.Labels...)
	return &c
}

type TableData struct {
	Rows        int        `json:"rows"`
	Cols        int        `json:"cols"`
	Data        [][]string `json:"data"`
	BorderColor string     `json:"borderColor"`
}

func (*TableData) Kind() Kind { return KindTable }
func (p *TableData) clone() Payload {
	c := *p
	if p.Data != nil {
		c.Data = make([][]string, len(p.Data))
		for i, row := range p.Data {
			c.Data[i] = append([]string(nil), row...)
		}
	}
	return &c
}

type ImageData struct {
	Src string `json:"src"`
}

func (*ImageData) Kind() Kind       { return KindImage }
func (p *ImageData) clone() Payload { c := *p; return &c }

// NewPayload returns an empty payload for kind, or nil if kind is unknown.
func NewPayload(kind Kind) Payload {
	switch kind {
	case KindPath:
		return &PathData{}
	case KindNote:
		return &NoteData{}
	case KindText:
		return &TextData{}
	case KindCode:
		return &CodeData{}
	case KindCheckbox:
		return &CheckboxData{}
	case KindSticker:
		return &StickerData{}
	case KindShape:
		return &ShapeData{}
	case KindChart:
		return &ChartData{}
	case KindTable:
		return &TableData{}
	case KindImage:
		return &ImageData{}
	}
	return nil
}

// ── JSON ────────────────────────────────────────────────────
// Elements are stored as one flat object discriminated by "type":
//   {"id":"…","type":"note","x":0,"y":0,"width":200,"height":150,"text":"","color":"#fef3c7"}

type elementHeader struct {
	ID         string   `json:"id"`
	Type       Kind     `json:"type"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Width      *float64 `json:"width,omitempty"`
	Height     *float64 `json:"height,omitempty"`
	Rotation   float64  `json:"rotation"`
	IsSelected bool     `json:"isSelected,omitempty"`
}

func (e Element) MarshalJSON() ([]byte, error) {
	if e.Payload == nil {
		return nil, fmt.Errorf("element %s: no payload", e.ID)
	}
	h := elementHeader{
		ID:         e.ID,
		Type:       e.Payload.Kind(),
		X:          e.X,
		Y:          e.Y,
		Rotation:   e.Rotation,
		IsSelected: e.IsSelected,
	}
	if e.Boxed() {
		w, hh := e.Width, e.Height
		h.Width, h.Height = &w, &hh
	}
	head, err := json.Marshal(h)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(e.Payload)
	if err != nil {
		return nil, fmt.Errorf("element %s: %w", e.ID, err)
	}
	if bytes.Equal(body, []byte("{}")) {
		return head, nil
	}
	// splice the two objects: {head…} + {body…} → {head…,body…}
	out := make([]byte, 0, len(head)+len(body))
	out = append(out, head[:len(head)-1]...)
	out = append(out, ',')
	out = append(out, body[1:]...)
	return out, nil
}

func (e *Element) UnmarshalJSON(data []byte) error {
	var h elementHeader
	if err := json.Unmarshal(data, &h); err != nil {
		return err
	}
	p := NewPayload(h.Type)
	if p == nil {
		return fmt.Errorf("element %s: unknown type %q", h.ID, h.Type)
	}
	if err := json.Unmarshal(data, p); err != nil {
		return fmt.Errorf("element %s: %w", h.ID, err)
	}
	*e = Element{
		ID:         h.ID,
		X:          h.X,
		Y:          h.Y,
		Rotation:   h.Rotation,
		IsSelected: h.IsSelected,
		Payload:    p,
	}
	if h.Width != nil {
		e.Width = *h.Width
	}
	if h.Height != nil {
		e.Height = *h.Height
	}
	return nil
}
