package render_test

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"testing"

	"golang.org/x/image/bmp"

	"pixelia/internal/domain"
	"pixelia/internal/render"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#000000", color.NRGBA{0, 0, 0, 255}},
		{"#3b82f6", color.NRGBA{59, 130, 246, 255}},
		{"#fff", color.NRGBA{255, 255, 255, 255}},
		{"#ff000080", color.NRGBA{255, 0, 0, 128}},
		{"rgba(253, 224, 71, 0.5)", color.NRGBA{253, 224, 71, 128}},
		{"rgb(1,2,3)", color.NRGBA{1, 2, 3, 255}},
		{"Black", color.NRGBA{0, 0, 0, 255}},
	}
	for _, tt := range tests {
		got, err := render.ParseColor(tt.in)
		if err != nil {
			t.Errorf("%s: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "#12", "rgba(1,2,3)", "teal-ish", "#zzzzzz"} {
		if _, err := render.ParseColor(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func samePixel(t *testing.T, img image.Image, x, y int, want color.NRGBA) {
	t.Helper()
	got := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	if got != want {
		t.Errorf("pixel (%d,%d): got %v, want %v", x, y, got, want)
	}
}

func TestThumbnail_EmptyPageIsBackground(t *testing.T) {
	page := domain.NewPage("p")
	page.BackgroundColor = "#112233"

	img, err := render.Thumbnail(page, 40, 30)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("unexpected size %v", b)
	}
	samePixel(t, img, 20, 15, color.NRGBA{0x11, 0x22, 0x33, 255})
}

func TestThumbnail_FitsContent(t *testing.T) {
	page := domain.NewPage("p")
	page.Elements = []domain.Element{{ID: "s", X: 0, Y: 0, Width: 100, Height: 100,
		Payload: &domain.ShapeData{ShapeType: domain.ShapeRectangle, Color: "#ff0000"}}}

	img, err := render.Thumbnail(page, 140, 140)
	if err != nil {
		t.Fatal(err)
	}
	samePixel(t, img, 70, 70, color.NRGBA{255, 0, 0, 255})
	samePixel(t, img, 5, 5, color.NRGBA{255, 255, 255, 255})
}

func TestThumbnail_EveryKindRenders(t *testing.T) {
	page := domain.NewPage("p")
	page.BackgroundPattern = domain.PatternDots
	kinds := []domain.Kind{
		domain.KindPath, domain.KindNote, domain.KindText, domain.KindCode, domain.KindCheckbox,
		domain.KindSticker, domain.KindShape, domain.KindChart, domain.KindTable, domain.KindImage,
	}
	for i, k := range kinds {
		el := domain.Element{ID: string(k), X: float64(i * 120), Y: 0, Width: 100, Height: 80, Rotation: 10,
			Payload: domain.NewPayload(k)}
		page.Elements = append(page.Elements, el)
	}
	page.Elements[0].Path().Points = []domain.Point{{X: 0, Y: 0}, {X: 50, Y: 50}}
	page.Elements[7].Chart().Data = []float64{1, 2, 3}
	page.Elements[7].Chart().ChartType = domain.ChartPie

	url, err := render.ThumbnailDataURL(page, 320, 200)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Errorf("unexpected data URL prefix %.30s", url)
	}
}

func TestThumbnail_InvalidSize(t *testing.T) {
	for _, size := range [][2]int{{0, 10}, {10, -1}, {render.MaxThumbnailSide + 1, 10}, {1 << 30, 1 << 30}} {
		if _, err := render.ThumbnailDataURL(domain.NewPage("p"), size[0], size[1]); err == nil {
			t.Errorf("expected error for %dx%d", size[0], size[1])
		}
	}
}

func TestThumbnail_RotatedPath(t *testing.T) {
	page := domain.NewPage("p")
	page.Elements = []domain.Element{
		// White box pins the frame to 0..100 so the page maps 1:1 with a 20px margin.
		{ID: "frame", Width: 100, Height: 100,
			Payload: &domain.ShapeData{ShapeType: domain.ShapeRectangle, Color: "#ffffff"}},
		{ID: "line", Rotation: 90, Payload: &domain.PathData{
			Points: []domain.Point{{X: 0, Y: 50}, {X: 100, Y: 50}}, Color: "#ff0000", StrokeWidth: 10}},
	}

	img, err := render.Thumbnail(page, 140, 140)
	if err != nil {
		t.Fatal(err)
	}
	// The horizontal stroke turns vertical about its center (50,50).
	samePixel(t, img, 70, 30, color.NRGBA{255, 0, 0, 255})
	samePixel(t, img, 30, 70, color.NRGBA{255, 255, 255, 255})
}

func TestDataURL_RoundTrip(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	draw.Draw(src, src.Bounds(), image.White, image.Point{}, draw.Src)
	src.Set(1, 1, color.RGBA{10, 20, 30, 255})

	var buf bytes.Buffer
	if err := bmp.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}
	mime, cfg, err := render.SniffImage(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if mime != "image/bmp" || cfg.Width != 3 || cfg.Height != 2 {
		t.Errorf("got %s %dx%d", mime, cfg.Width, cfg.Height)
	}

	img, err := render.DecodeDataURL(render.DataURL(mime, buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	samePixel(t, img, 1, 1, color.NRGBA{10, 20, 30, 255})

	if _, err := render.DecodeDataURL("https://example.com/cat.png"); err == nil {
		t.Error("expected error for a remote URL")
	}
}

func TestPNGDataURL(t *testing.T) {
	url, err := render.PNGDataURL(image.NewGray(image.Rect(0, 0, 1, 1)))
	if err != nil {
		t.Fatal(err)
	}
	img, err := render.DecodeDataURL(url)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 1 {
		t.Error("unexpected decoded size")
	}
}
