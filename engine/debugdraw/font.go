package debugdraw

import (
	"image"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	atlasFirstRune = ' '
	atlasLastRune  = '~'
	atlasColumns   = 16
	fallbackRune   = '?'
)

// glyphRect is the texture coordinate rectangle of one glyph in the atlas.
type glyphRect struct {
	u0, v0, u1, v1 float32
}

// glyphAtlas packs the printable ASCII glyphs of a fixed-width face into a single
// channel coverage image.
type glyphAtlas struct {
	face *basicfont.Face

	width, height int
	pixels        []byte

	cellWidth, cellHeight int
	glyphs                map[rune]glyphRect
}

func newGlyphAtlas(face *basicfont.Face) *glyphAtlas {
	cellWidth, cellHeight := face.Width, face.Ascent+face.Descent
	count := int(atlasLastRune-atlasFirstRune) + 1
	rows := (count + atlasColumns - 1) / atlasColumns

	img := image.NewAlpha(image.Rect(0, 0, atlasColumns*cellWidth, rows*cellHeight))
	a := &glyphAtlas{
		face:       face,
		width:      img.Rect.Dx(),
		height:     img.Rect.Dy(),
		cellWidth:  cellWidth,
		cellHeight: cellHeight,
		glyphs:     make(map[rune]glyphRect, count),
	}

	dot := fixed.P(0, face.Ascent)
	for r := atlasFirstRune; r <= atlasLastRune; r++ {
		i := int(r - atlasFirstRune)
		cell := image.Rect(0, 0, cellWidth, cellHeight).Add(image.Pt((i%atlasColumns)*cellWidth, (i/atlasColumns)*cellHeight))

		dr, mask, maskp, _, ok := face.Glyph(dot, r)
		if !ok {
			continue
		}
		draw.Draw(img, dr.Sub(dr.Min).Add(cell.Min), mask, maskp, draw.Src)

		a.glyphs[r] = glyphRect{
			u0: float32(cell.Min.X) / float32(a.width),
			v0: float32(cell.Min.Y) / float32(a.height),
			u1: float32(cell.Max.X) / float32(a.width),
			v1: float32(cell.Max.Y) / float32(a.height),
		}
	}

	// image.Alpha rows are tightly packed when the rectangle starts at the origin.
	a.pixels = img.Pix
	return a
}

// lookup returns the atlas rectangle for r, substituting fallbackRune for anything
// outside the atlas.
func (a *glyphAtlas) lookup(r rune) glyphRect {
	if g, ok := a.glyphs[r]; ok {
		return g
	}
	return a.glyphs[fallbackRune]
}

// advance returns the horizontal pen advance in pixels at scale 1.
func (a *glyphAtlas) advance() float32 {
	adv, _ := a.face.GlyphAdvance('M')
	return float32(adv.Round())
}

// measure returns the size of the text block in pixels at scale 1.
func (a *glyphAtlas) measure(text string) (float32, float32) {
	lines := strings.Split(text, "\n")
	var widest fixed.Int26_6
	for _, line := range lines {
		widest = max(widest, font.MeasureString(a.face, line))
	}
	return float32(widest.Round()), float32(len(lines) * a.cellHeight)
}
