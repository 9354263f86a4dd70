package render

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/wordtiles/pkg/errors"
	"github.com/matzehuels/wordtiles/pkg/fonts"
)

// PosterOptions controls poster composition.
type PosterOptions struct {
	Width, Height int

	// Background fills the poster when BackgroundImage is nil.
	Background color.Color
	// BackgroundImage is scaled to cover the poster. Its aspect ratio is
	// kept and the overflow is cropped evenly from both sides.
	BackgroundImage image.Image

	TextColor color.Color

	// BoardWidth is the fraction of the poster width the board is scaled to.
	BoardWidth float64

	TitleSize     float64 // headline font size in pixels
	TitleBaseline int     // headline baseline, from the top
	ScoreSize     float64 // score font size in pixels
	ScoreBaseline int     // score baseline, from the bottom
}

// DefaultPosterOptions returns a 2400×3600 cream poster with the board at 75%
// of the width.
func DefaultPosterOptions() PosterOptions {
	return PosterOptions{
		Width:         2400,
		Height:        3600,
		Background:    color.RGBA{0xFB, 0xF7, 0xEE, 0xFF},
		TextColor:     color.RGBA{0x2B, 0x22, 0x1A, 0xFF},
		BoardWidth:    0.75,
		TitleSize:     200,
		TitleBaseline: 750,
		ScoreSize:     120,
		ScoreBaseline: 750,
	}
}

func (o *PosterOptions) validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "poster size %dx%d must be positive", o.Width, o.Height)
	}
	if o.BoardWidth <= 0 || o.BoardWidth > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "board width ratio %v must be in (0, 1]", o.BoardWidth)
	}
	if o.Background == nil {
		o.Background = color.White
	}
	if o.TextColor == nil {
		o.TextColor = color.Black
	}
	return nil
}

// ComposePoster places boardImg in the middle of a poster, scaled to
// BoardWidth of the poster width with its aspect ratio kept, and writes
// topText and "Word Score: N" centred above and below it. An empty topText
// is skipped.
func ComposePoster(boardImg image.Image, topText string, score int, opts PosterOptions) (*image.RGBA, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	canvas := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	if bg := opts.BackgroundImage; bg != nil && !bg.Bounds().Empty() {
		sr := coverRect(bg.Bounds(), opts.Width, opts.Height)
		draw.CatmullRom.Scale(canvas, canvas.Bounds(), bg, sr, draw.Src, nil)
	} else {
		draw.Draw(canvas, canvas.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)
	}

	if bb := boardImg.Bounds(); !bb.Empty() {
		w := int(float64(opts.Width) * opts.BoardWidth)
		h := w * bb.Dy() / bb.Dx()
		if maxH := int(float64(opts.Height) * opts.BoardWidth); h > maxH {
			h = maxH
			w = h * bb.Dx() / bb.Dy()
		}
		x, y := (opts.Width-w)/2, (opts.Height-h)/2
		draw.CatmullRom.Scale(canvas, image.Rect(x, y, x+w, y+h), boardImg, bb, draw.Over, nil)
	}

	if topText != "" && opts.TitleSize > 0 {
		if err := drawCentred(canvas, topText, opts.TitleSize, opts.TitleBaseline, opts.TextColor); err != nil {
			return nil, err
		}
	}
	if opts.ScoreSize > 0 {
		line := fmt.Sprintf("Word Score: %d", score)
		if err := drawCentred(canvas, line, opts.ScoreSize, opts.Height-opts.ScoreBaseline, opts.TextColor); err != nil {
			return nil, err
		}
	}
	return canvas, nil
}

// coverRect returns the centred part of src with aspect ratio w:h.
func coverRect(src image.Rectangle, w, h int) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	if sw*h > sh*w {
		cw := max(1, sh*w/h)
		x := src.Min.X + (sw-cw)/2
		return image.Rect(x, src.Min.Y, x+cw, src.Max.Y)
	}
	ch := max(1, sw*h/w)
	y := src.Min.Y + (sh-ch)/2
	return image.Rect(src.Min.X, y, src.Max.X, y+ch)
}

func drawCentred(dst *image.RGBA, s string, size float64, baseline int, c color.Color) error {
	face, err := fonts.Face(fonts.Bold, size)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "load poster font")
	}
	defer face.Close()

	d := font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: face}
	adv := d.MeasureString(s)
	d.Dot = fixed.Point26_6{
		X: fixed.I(dst.Bounds().Dx())/2 - adv/2,
		Y: fixed.I(baseline),
	}
	d.DrawString(s)
	return nil
}
