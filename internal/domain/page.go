package domain

type BackgroundPattern string

const (
	PatternNone  BackgroundPattern = "NONE"
	PatternGrid  BackgroundPattern = "GRID"
	PatternDots  BackgroundPattern = "DOTS"
	PatternLines BackgroundPattern = "LINES"
)

const DefaultBackgroundColor = "#ffffff"

type GuideOrientation string

const (
	GuideHorizontal GuideOrientation = "horizontal"
	GuideVertical   GuideOrientation = "vertical"
)

// RulerGuide is a persistent guide line dragged out of a ruler.
// Pos is a world y for horizontal guides and a world x for vertical ones.
type RulerGuide struct {
	Type GuideOrientation `json:"type"`
	Pos  float64          `json:"pos"`
}

// Page is one independent canvas inside a project.
type Page struct {
	ID                string            `json:"id"`
	Elements          []Element         `json:"elements"`
	BackgroundColor   string            `json:"backgroundColor"`
	BackgroundPattern BackgroundPattern `json:"backgroundPattern"`
	Guides            []RulerGuide      `json:"guides,omitempty"`
}

// NewPage returns an empty white page with no pattern.
func NewPage(id string) *Page {
	return &Page{
		ID:                id,
		Elements:          []Element{},
		BackgroundColor:   DefaultBackgroundColor,
		BackgroundPattern: PatternNone,
	}
}

// Clone deep-copies the page, elements and guides included.
func (p *Page) Clone() *Page {
	c := *p
	c.Elements = CloneElements(p.Elements)
	if c.Elements == nil {
		c.Elements = []Element{}
	}
	c.Guides = append([]RulerGuide(nil), p.Guides...)
	return &c
}

// AlignmentGuideType names the four transient guide shapes shown while
// dragging.
type AlignmentGuideType string

const (
	AlignVertical   AlignmentGuideType = "vertical"
	AlignHorizontal AlignmentGuideType = "horizontal"
	AlignGapX       AlignmentGuideType = "gap-x"
	AlignGapY       AlignmentGuideType = "gap-y"
)

// AlignmentGuide is a transient snap indicator. For vertical/horizontal
// guides Pos is the aligned axis value and Min..Max the span of the line;
// gap guides place Pos on the perpendicular axis and report GapSize.
type AlignmentGuide struct {
	Type    AlignmentGuideType `json:"type"`
	Pos     float64            `json:"pos"`
	Min     float64            `json:"min"`
	Max     float64            `json:"max"`
	GapSize float64            `json:"gapSize,omitempty"`
}
