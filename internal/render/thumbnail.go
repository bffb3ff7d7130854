// Package render rasterizes pages into small preview images for the page
// sidebar and the agent surface.
package render

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"pixelia/internal/domain"
)

// MaxThumbnailSide bounds each side of a rendered thumbnail in pixels.
const MaxThumbnailSide = 4096

const (
	framePadding   = 20 // world units around the content
	maxScale       = 1.0
	patternSpacing = 20 // world units between pattern marks
)

var (
	ink         = color.NRGBA{0, 0, 0, 255}
	paper       = color.NRGBA{255, 255, 255, 255}
	borderGray  = color.NRGBA{229, 231, 235, 255}
	patternGray = color.NRGBA{209, 213, 219, 255}
	codeBg      = color.NRGBA{30, 30, 30, 255}
	codeFg      = color.NRGBA{212, 212, 212, 255}
)

// Thumbnail draws the page fitted into a width x height frame.
func Thumbnail(page *domain.Page, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 || width > MaxThumbnailSide || height > MaxThumbnailSide {
		return nil, fmt.Errorf("invalid thumbnail size %dx%d (each side must be 1..%d)", width, height, MaxThumbnailSide)
	}
	dc := gg.NewContext(width, height)
	bg := colorOr(page.BackgroundColor, paper)
	dc.SetColor(bg)
	dc.Clear()

	frame, ok := contentBounds(page.Elements)
	if !ok {
		return dc.Image(), nil
	}
	frame = domain.Rect{
		X: frame.X - framePadding, Y: frame.Y - framePadding,
		Width: frame.Width + 2*framePadding, Height: frame.Height + 2*framePadding,
	}
	scale := math.Min(maxScale, math.Min(float64(width)/frame.Width, float64(height)/frame.Height))
	ox := (float64(width)-frame.Width*scale)/2 - frame.X*scale
	oy := (float64(height)-frame.Height*scale)/2 - frame.Y*scale

	drawPattern(dc, page.BackgroundPattern, scale, ox, oy)

	dc.Translate(ox, oy)
	dc.Scale(scale, scale)
	for i := range page.Elements {
		drawElement(dc, &page.Elements[i], bg)
	}
	return dc.Image(), nil
}

// ThumbnailDataURL renders the page as a PNG data URL.
func ThumbnailDataURL(page *domain.Page, width, height int) (string, error) {
	img, err := Thumbnail(page, width, height)
	if err != nil {
		return "", err
	}
	return PNGDataURL(img)
}

func contentBounds(els []domain.Element) (domain.Rect, bool) {
	var r domain.Rect
	found := false
	for i := range els {
		b := els[i].Bounds()
		if !found {
			r, found = b, true
			continue
		}
		r = r.Union(b)
	}
	return r, found
}

// drawPattern marks the background in screen space so the pattern stays
// legible however far the content is zoomed out.
func drawPattern(dc *gg.Context, p domain.BackgroundPattern, scale, ox, oy float64) {
	if p == domain.PatternNone || p == "" {
		return
	}
	step := math.Max(patternSpacing*scale, 4)
	w, h := float64(dc.Width()), float64(dc.Height())
	x0, y0 := math.Mod(ox, step), math.Mod(oy, step)

	dc.SetColor(patternGray)
	dc.SetLineWidth(0.5)
	switch p {
	case domain.PatternGrid:
		for x := x0; x < w; x += step {
			dc.DrawLine(x, 0, x, h)
		}
		for y := y0; y < h; y += step {
			dc.DrawLine(0, y, w, y)
		}
		dc.Stroke()
	case domain.PatternLines:
		for y := y0; y < h; y += step {
			dc.DrawLine(0, y, w, y)
		}
		dc.Stroke()
	case domain.PatternDots:
		for x := x0; x < w; x += step {
			for y := y0; y < h; y += step {
				dc.DrawCircle(x, y, 0.75)
			}
		}
		dc.Fill()
	}
}

func drawElement(dc *gg.Context, el *domain.Element, bg color.NRGBA) {
	dc.Push()
	defer dc.Pop()

	// Paths rotate about the center of their point bounds, like boxes.
	if el.Rotation != 0 {
		c := el.Bounds().Center()
		dc.RotateAbout(gg.Radians(el.Rotation), c.X, c.Y)
	}

	switch p := el.Payload.(type) {
	case *domain.PathData:
		drawPath(dc, el, p, bg)
	case *domain.NoteData:
		dc.SetColor(colorOr(p.Color, paper))
		dc.DrawRectangle(el.X, el.Y, el.Width, el.Height)
		dc.Fill()
		drawText(dc, p.Text, sans, 16, ink, el.X+12, el.Y+12, el.Width-24, gg.AlignLeft)
	case *domain.TextData:
		drawText(dc, p.Text, sans, p.FontSize, colorOr(p.Color, ink), el.X, el.Y, el.Width, textAlign(p.Align))
	case *domain.CodeData:
		dc.SetColor(codeBg)
		dc.DrawRoundedRectangle(el.X, el.Y, el.Width, el.Height, 8)
		dc.Fill()
		drawText(dc, p.Text, mono, p.FontSize, codeFg, el.X+12, el.Y+12, el.Width-24, gg.AlignLeft)
	case *domain.CheckboxData:
		drawChecklist(dc, el, p)
	case *domain.StickerData:
		dc.SetFontFace(face(sans, el.Height*0.75))
		dc.SetColor(ink)
		c := el.Bounds().Center()
		dc.DrawStringAnchored(p.Content, c.X, c.Y, 0.5, 0.35)
	case *domain.ShapeData:
		dc.SetColor(colorOr(p.Color, borderGray))
		shapePath(dc, p.ShapeType, el.Bounds())
		dc.Fill()
	case *domain.ChartData:
		drawChart(dc, el, p)
	case *domain.TableData:
		drawTable(dc, el, p)
	case *domain.ImageData:
		drawImage(dc, el, p)
	default:
		log.Printf("[render] no renderer for %s", el.Kind())
	}
}

func drawPath(dc *gg.Context, el *domain.Element, p *domain.PathData, bg color.NRGBA) {
	if len(p.Points) == 0 {
		return
	}
	c := colorOr(p.Color, ink)
	if p.IsEraser {
		c = bg
	}
	dc.SetColor(c)
	dc.SetLineWidth(math.Max(p.StrokeWidth, 1))
	dc.SetLineCapRound()
	dc.SetLineJoinRound()
	if len(p.Points) == 1 {
		pt := p.Points[0]
		dc.DrawCircle(el.X+pt.X, el.Y+pt.Y, p.StrokeWidth/2)
		dc.Fill()
		return
	}
	dc.MoveTo(el.X+p.Points[0].X, el.Y+p.Points[0].Y)
	for _, pt := range p.Points[1:] {
		dc.LineTo(el.X+pt.X, el.Y+pt.Y)
	}
	dc.Stroke()
}

func textAlign(a string) gg.Align {
	switch a {
	case "center":
		return gg.AlignCenter
	case "right":
		return gg.AlignRight
	}
	return gg.AlignLeft
}

func drawText(dc *gg.Context, s string, fam fontFamily, size float64, c color.Color, x, y, width float64, align gg.Align) {
	if s == "" || width <= 0 {
		return
	}
	if size <= 0 {
		size = 16
	}
	dc.SetFontFace(face(fam, size))
	dc.SetColor(c)
	dc.DrawStringWrapped(s, x, y, 0, 0, width, 1.3, align)
}

func drawChecklist(dc *gg.Context, el *domain.Element, p *domain.CheckboxData) {
	dc.SetColor(colorOr(p.Color, paper))
	dc.DrawRoundedRectangle(el.X, el.Y, el.Width, el.Height, 8)
	dc.FillPreserve()
	dc.SetColor(borderGray)
	dc.SetLineWidth(1)
	dc.Stroke()

	const row, box = 28.0, 14.0
	dc.SetFontFace(face(sans, 14))
	for i, item := range p.Items {
		y := el.Y + 16 + float64(i)*row
		if y+row > el.Y+el.Height {
			break
		}
		dc.SetColor(ink)
		dc.DrawRectangle(el.X+12, y, box, box)
		if item.Checked {
			dc.Fill()
		} else {
			dc.Stroke()
		}
		dc.DrawStringAnchored(item.Text, el.X+12+box+8, y+box/2, 0, 0.35)
	}
}

// shapePath traces the outline of a shape inside r.
func shapePath(dc *gg.Context, t domain.ShapeType, r domain.Rect) {
	c := r.Center()
	switch t {
	case domain.ShapeCircle:
		dc.DrawEllipse(c.X, c.Y, r.Width/2, r.Height/2)
	case domain.ShapeTriangle:
		polygon(dc, r, [][2]float64{{0.5, 0}, {1, 1}, {0, 1}})
	case domain.ShapeDiamond:
		polygon(dc, r, [][2]float64{{0.5, 0}, {1, 0.5}, {0.5, 1}, {0, 0.5}})
	case domain.ShapeHexagon:
		polygon(dc, r, [][2]float64{{0.25, 0}, {0.75, 0}, {1, 0.5}, {0.75, 1}, {0.25, 1}, {0, 0.5}})
	case domain.ShapeArrow:
		polygon(dc, r, [][2]float64{{0, 0.3}, {0.6, 0.3}, {0.6, 0}, {1, 0.5}, {0.6, 1}, {0.6, 0.7}, {0, 0.7}})
	case domain.ShapeStar:
		pts := make([][2]float64, 10)
		for i := range pts {
			rad := 0.5
			if i%2 == 1 {
				rad = 0.2
			}
			a := -math.Pi/2 + float64(i)*math.Pi/5
			pts[i] = [2]float64{0.5 + rad*math.Cos(a), 0.5 + rad*math.Sin(a)}
		}
		polygon(dc, r, pts)
	case domain.ShapeBubble:
		dc.DrawRoundedRectangle(r.X, r.Y, r.Width, r.Height*0.8, math.Min(r.Width, r.Height)*0.15)
		polygon(dc, r, [][2]float64{{0.2, 0.79}, {0.4, 0.79}, {0.15, 1}})
	default:
		dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	}
}

// polygon adds a closed subpath through points given as fractions of r.
func polygon(dc *gg.Context, r domain.Rect, pts [][2]float64) {
	dc.NewSubPath()
	for i, p := range pts {
		x, y := r.X+p[0]*r.Width, r.Y+p[1]*r.Height
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
}

func drawChart(dc *gg.Context, el *domain.Element, p *domain.ChartData) {
	dc.SetColor(paper)
	dc.DrawRoundedRectangle(el.X, el.Y, el.Width, el.Height, 8)
	dc.Fill()
	if len(p.Data) == 0 {
		return
	}
	base := colorOr(p.Color, color.NRGBA{59, 130, 246, 255})
	pad := 16.0
	plot := domain.Rect{X: el.X + pad, Y: el.Y + pad, Width: el.Width - 2*pad, Height: el.Height - 2*pad}

	peak := 0.0
	total := 0.0
	for _, v := range p.Data {
		peak = math.Max(peak, v)
		total += math.Max(v, 0)
	}

	switch p.ChartType {
	case domain.ChartPie:
		if total == 0 {
			return
		}
		c := plot.Center()
		radius := math.Min(plot.Width, plot.Height) / 2
		angle := -math.Pi / 2
		for i, v := range p.Data {
			sweep := math.Max(v, 0) / total * 2 * math.Pi
			dc.MoveTo(c.X, c.Y)
			dc.DrawArc(c.X, c.Y, radius, angle, angle+sweep)
			dc.ClosePath()
			dc.SetColor(shade(base, i, len(p.Data)))
			dc.Fill()
			angle += sweep
		}
	case domain.ChartLine:
		if peak <= 0 {
			return
		}
		dc.SetColor(base)
		dc.SetLineWidth(3)
		step := plot.Width / math.Max(float64(len(p.Data)-1), 1)
		for i, v := range p.Data {
			x := plot.X + float64(i)*step
			y := plot.Y + plot.Height - math.Max(v, 0)/peak*plot.Height
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.Stroke()
	default:
		if peak <= 0 {
			return
		}
		dc.SetColor(base)
		slot := plot.Width / float64(len(p.Data))
		for i, v := range p.Data {
			h := math.Max(v, 0) / peak * plot.Height
			dc.DrawRectangle(plot.X+float64(i)*slot+slot*0.15, plot.Y+plot.Height-h, slot*0.7, h)
		}
		dc.Fill()
	}
}

// shade lightens base progressively so pie slices stay distinguishable.
func shade(base color.NRGBA, i, n int) color.NRGBA {
	t := float64(i) / float64(max(n, 1)) * 0.7
	mix := func(c uint8) uint8 { return uint8(float64(c) + (255-float64(c))*t) }
	return color.NRGBA{R: mix(base.R), G: mix(base.G), B: mix(base.B), A: base.A}
}

func drawTable(dc *gg.Context, el *domain.Element, p *domain.TableData) {
	dc.SetColor(paper)
	dc.DrawRectangle(el.X, el.Y, el.Width, el.Height)
	dc.Fill()
	if p.Rows <= 0 || p.Cols <= 0 {
		return
	}
	cw, ch := el.Width/float64(p.Cols), el.Height/float64(p.Rows)

	dc.SetColor(colorOr(p.BorderColor, borderGray))
	dc.SetLineWidth(1)
	for r := 0; r <= p.Rows; r++ {
		y := el.Y + float64(r)*ch
		dc.DrawLine(el.X, y, el.X+el.Width, y)
	}
	for c := 0; c <= p.Cols; c++ {
		x := el.X + float64(c)*cw
		dc.DrawLine(x, el.Y, x, el.Y+el.Height)
	}
	dc.Stroke()

	dc.SetColor(ink)
	dc.SetFontFace(face(sans, math.Min(14, ch*0.6)))
	for r, row := range p.Data {
		for c, cell := range row {
			if r >= p.Rows || c >= p.Cols || cell == "" {
				continue
			}
			dc.DrawStringAnchored(cell, el.X+float64(c)*cw+6, el.Y+float64(r)*ch+ch/2, 0, 0.35)
		}
	}
}

func drawImage(dc *gg.Context, el *domain.Element, p *domain.ImageData) {
	img, err := DecodeDataURL(p.Src)
	if err != nil || el.Width < 1 || el.Height < 1 {
		// Placeholder for remote or unreadable sources.
		dc.SetColor(borderGray)
		dc.DrawRectangle(el.X, el.Y, el.Width, el.Height)
		dc.Fill()
		return
	}
	dst := image.NewRGBA(image.Rect(0, 0, int(el.Width), int(el.Height)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	dc.DrawImage(dst, int(math.Round(el.X)), int(math.Round(el.Y)))
}
