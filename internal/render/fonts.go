package render

import (
	"log"
	"math"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

type fontFamily int

const (
	sans fontFamily = iota
	mono
)

type faceKey struct {
	family fontFamily
	size   int
}

var (
	fontsOnce sync.Once
	fonts     map[fontFamily]*truetype.Font

	facesMu sync.Mutex
	faces   = map[faceKey]font.Face{}
)

func loadFonts() {
	fonts = map[fontFamily]*truetype.Font{}
	for fam, ttf := range map[fontFamily][]byte{sans: goregular.TTF, mono: gomono.TTF} {
		f, err := truetype.Parse(ttf)
		if err != nil {
			log.Printf("[render] parse font: %v", err)
			continue
		}
		fonts[fam] = f
	}
}

// face returns a cached face of the family at size world units. Sizes are
// rounded so a page with many text sizes does not grow the cache unbounded.
func face(fam fontFamily, size float64) font.Face {
	fontsOnce.Do(loadFonts)
	key := faceKey{fam, int(math.Max(1, math.Round(size)))}

	facesMu.Lock()
	defer facesMu.Unlock()
	if f, ok := faces[key]; ok {
		return f
	}
	ttf, ok := fonts[fam]
	if !ok {
		return basicfont.Face7x13
	}
	f := truetype.NewFace(ttf, &truetype.Options{
		Size:    float64(key.size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	faces[key] = f
	return f
}
