package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/wordtiles/pkg/board"
	"github.com/matzehuels/wordtiles/pkg/errors"
	"github.com/matzehuels/wordtiles/pkg/fonts"
)

// DefaultTileSize is the edge length of a letter tile in pixels.
const DefaultTileSize = 64

// GlyphSet supplies square tile images for the letters A-Z.
type GlyphSet interface {
	// Glyph returns the tile for an upper-case letter. The image is
	// TileSize() pixels on each side.
	Glyph(letter byte) (image.Image, error)

	// TileSize returns the edge length of every tile in pixels.
	TileSize() int
}

// Tile colours used by DrawnGlyphs.
var (
	TileFill   = color.RGBA{0xF4, 0xE4, 0xC1, 0xFF}
	TileBorder = color.RGBA{0xB0, 0x8D, 0x57, 0xFF}
	TileInk    = color.RGBA{0x2B, 0x22, 0x1A, 0xFF}
)

// DrawnGlyphs draws tiles with the embedded Go Bold font.
type DrawnGlyphs struct {
	size int

	mu     sync.Mutex
	letter font.Face
	value  font.Face
	tiles  map[byte]*image.RGBA
}

// NewDrawnGlyphs returns a glyph set with tiles of size pixels.
func NewDrawnGlyphs(size int) (*DrawnGlyphs, error) {
	if size < 8 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "tile size %d too small (min 8)", size)
	}
	letter, err := fonts.Face(fonts.Bold, float64(size)*0.6)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load letter font")
	}
	value, err := fonts.Face(fonts.Bold, float64(size)*0.22)
	if err != nil {
		letter.Close()
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load value font")
	}
	return &DrawnGlyphs{
		size:   size,
		letter: letter,
		value:  value,
		tiles:  make(map[byte]*image.RGBA),
	}, nil
}

func (d *DrawnGlyphs) TileSize() int { return d.size }

func (d *DrawnGlyphs) Glyph(letter byte) (image.Image, error) {
	if letter < 'A' || letter > 'Z' {
		return nil, errors.New(errors.ErrCodeGlyphMissing, "no glyph for %q", letter)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.tiles[letter]; ok {
		return t, nil
	}
	t := d.draw(letter)
	d.tiles[letter] = t
	return t, nil
}

// Close releases the font faces.
func (d *DrawnGlyphs) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.letter.Close()
	return d.value.Close()
}

func (d *DrawnGlyphs) draw(letter byte) *image.RGBA {
	n := d.size
	img := image.NewRGBA(image.Rect(0, 0, n, n))
	inset := max(1, n/32)
	draw.Draw(img, img.Bounds(), image.NewUniform(TileBorder), image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(inset, inset, n-inset, n-inset), image.NewUniform(TileFill), image.Point{}, draw.Src)

	// letter, centred on its ink bounds
	s := string(letter)
	b, _ := font.BoundString(d.letter, s)
	w, h := (b.Max.X - b.Min.X).Ceil(), (b.Max.Y - b.Min.Y).Ceil()
	dr := font.Drawer{Dst: img, Src: image.NewUniform(TileInk), Face: d.letter}
	dr.Dot = fixed.P((n-w)/2-b.Min.X.Floor(), (n-h)/2-b.Min.Y.Floor())
	dr.DrawString(s)

	// point value, bottom right
	v := strconv.Itoa(board.LetterValue(letter))
	vb, _ := font.BoundString(d.value, v)
	dr.Face = d.value
	dr.Dot = fixed.P(n-2*inset-(vb.Max.X-vb.Min.X).Ceil()-vb.Min.X.Floor(), n-2*inset-vb.Max.Y.Ceil())
	dr.DrawString(v)
	return img
}

// DirGlyphs loads pre-rendered tiles named <letter>.png from a directory.
type DirGlyphs struct {
	dir  string
	size int

	mu    sync.Mutex
	tiles map[byte]image.Image
}

// NewDirGlyphs returns a glyph set reading from dir. Tiles whose size differs
// from size are scaled.
func NewDirGlyphs(dir string, size int) (*DirGlyphs, error) {
	if size < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "tile size must be positive")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "glyph directory %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "glyph path %s is not a directory", dir)
	}
	return &DirGlyphs{dir: dir, size: size, tiles: make(map[byte]image.Image)}, nil
}

func (d *DirGlyphs) TileSize() int { return d.size }

func (d *DirGlyphs) Glyph(letter byte) (image.Image, error) {
	if letter < 'A' || letter > 'Z' {
		return nil, errors.New(errors.ErrCodeGlyphMissing, "no glyph for %q", letter)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.tiles[letter]; ok {
		return t, nil
	}
	t, err := d.load(letter)
	if err != nil {
		return nil, err
	}
	d.tiles[letter] = t
	return t, nil
}

func (d *DirGlyphs) load(letter byte) (image.Image, error) {
	path := filepath.Join(d.dir, fmt.Sprintf("%c.png", letter))
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeGlyphMissing, err, "glyph %c", letter)
	}
	defer f.Close()

	src, err := png.Decode(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode glyph %s", path)
	}
	if b := src.Bounds(); b.Dx() == d.size && b.Dy() == d.size {
		return src, nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, d.size, d.size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

var (
	_ GlyphSet = (*DrawnGlyphs)(nil)
	_ GlyphSet = (*DirGlyphs)(nil)
)
