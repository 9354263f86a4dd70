package render

import (
	"bytes"
	"image"
	"image/png"

	"golang.org/x/image/draw"

	"github.com/matzehuels/wordtiles/pkg/board"
	"github.com/matzehuels/wordtiles/pkg/errors"
)

// RenderBoard draws g with one glyph per occupied cell. Row r is drawn at
// y = r×tile and column c at x = c×tile; blank cells are transparent.
// Each distinct letter's glyph is fetched once, before the canvas is
// allocated.
func RenderBoard(g *board.Grid, glyphs GlyphSet) (*image.RGBA, error) {
	var tiles [26]image.Image
	for _, letter := range g.Letters() {
		glyph, err := glyphs.Glyph(letter)
		if err != nil {
			return nil, err
		}
		tiles[letter-'A'] = glyph
	}

	tile := glyphs.TileSize()
	n := g.Size()
	img := image.NewRGBA(image.Rect(0, 0, n*tile, n*tile))
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			letter := g.Get(r, c)
			if letter == board.Blank {
				continue
			}
			glyph := tiles[letter-'A']
			dst := image.Rect(c*tile, r*tile, (c+1)*tile, (r+1)*tile)
			draw.Draw(img, dst, glyph, glyph.Bounds().Min, draw.Over)
		}
	}
	return img, nil
}

// Crop returns a copy of img without its fully transparent outer rows and
// columns. A fully transparent image crops to 0×0.
func Crop(img image.Image) *image.RGBA {
	b := img.Bounds()
	minX, minY, maxX, maxY := b.Max.X, b.Max.Y, b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a == 0 {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if maxX < minX {
		return image.NewRGBA(image.Rectangle{})
	}
	out := image.NewRGBA(image.Rect(0, 0, maxX-minX+1, maxY-minY+1))
	draw.Draw(out, out.Bounds(), img, image.Pt(minX, minY), draw.Src)
	return out
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

// RenderText returns the grid as text, one line per row, '.' for blank cells.
func RenderText(g *board.Grid) string { return g.String() }
