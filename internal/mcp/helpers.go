package mcpserver

import (
	"pixelia/internal/canvas"
	"pixelia/internal/domain"
)

// elementSummary is the agent-facing view of one element. Image sources
// are left out; they can be megabytes of base64.
type elementSummary struct {
	ID       string      `json:"id"`
	Kind     domain.Kind `json:"kind"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	Rotation float64     `json:"rotation,omitempty"`
	Selected bool        `json:"selected,omitempty"`
	Text     string      `json:"text,omitempty"`
	Detail   string      `json:"detail,omitempty"`
}

func summarizeElement(el *domain.Element) elementSummary {
	b := el.Bounds()
	s := elementSummary{
		ID:       el.ID,
		Kind:     el.Kind(),
		X:        b.X,
		Y:        b.Y,
		Width:    b.Width,
		Height:   b.Height,
		Rotation: el.Rotation,
		Selected: el.IsSelected,
	}
	switch p := el.Payload.(type) {
	case *domain.NoteData:
		s.Text = p.Text
	case *domain.TextData:
		s.Text = p.Text
	case *domain.CodeData:
		s.Text, s.Detail = p.Text, p.Language
	case *domain.StickerData:
		s.Text = p.Content
	case *domain.ShapeData:
		s.Detail = string(p.ShapeType)
	case *domain.ChartData:
		s.Detail = string(p.ChartType)
	case *domain.CheckboxData:
		for i, it := range p.Items {
			if i > 0 {
				s.Text += "\n"
			}
			mark := "[ ] "
			if it.Checked {
				mark = "[x] "
			}
			s.Text += mark + it.Text
		}
	case *domain.PathData:
		switch {
		case p.IsEraser:
			s.Detail = "eraser"
		case p.IsHighlighter:
			s.Detail = "highlighter"
		}
	}
	return s
}

func summarizeElements(els []domain.Element) []elementSummary {
	out := make([]elementSummary, len(els))
	for i := range els {
		out[i] = summarizeElement(&els[i])
	}
	return out
}

// canvasSummary is returned by every editor tool so the agent can see
// the effect of its input without listing elements again.
type canvasSummary struct {
	Mode         string          `json:"mode"`
	Tool         canvas.Tool     `json:"tool"`
	ElementCount int             `json:"elementCount"`
	Selected     []string        `json:"selected"`
	Viewport     canvas.Viewport `json:"viewport"`
	CanUndo      bool            `json:"canUndo"`
	CanRedo      bool            `json:"canRedo"`
}

func summarizeCanvas(e *canvas.Editor) canvasSummary {
	els := e.Elements()
	s := canvasSummary{
		Mode:         e.Mode().String(),
		Tool:         e.Tools().Tool,
		ElementCount: len(els),
		Selected:     []string{},
		Viewport:     e.Viewport(),
		CanUndo:      e.History().CanUndo(),
		CanRedo:      e.History().CanRedo(),
	}
	for _, el := range canvas.Selected(els) {
		s.Selected = append(s.Selected, el.ID)
	}
	return s
}
