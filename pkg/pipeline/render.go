package pipeline

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/matzehuels/wordtiles/pkg/board"
	"github.com/matzehuels/wordtiles/pkg/errors"
	"github.com/matzehuels/wordtiles/pkg/render"
)

// RenderFromLayout generates artifacts in every requested format.
func RenderFromLayout(l board.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	g, err := l.Grid()
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var boardImg *image.RGBA // shared by png and poster
	for _, format := range opts.Formats {
		var data []byte
		switch format {
		case FormatJSON:
			data, err = board.MarshalLayout(l)
		case FormatTXT:
			data = []byte(l.Text())
		case FormatPNG, FormatPoster:
			if boardImg == nil {
				if boardImg, err = renderBoard(g, opts); err != nil {
					return nil, err
				}
			}
			if format == FormatPNG {
				data, err = render.EncodePNG(boardImg)
			} else {
				data, err = renderPoster(boardImg, l.Score, opts)
			}
		default:
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderBoard(g *board.Grid, opts Options) (*image.RGBA, error) {
	glyphs, closeFn, err := glyphSet(opts)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	img, err := render.RenderBoard(g, glyphs)
	if err != nil {
		return nil, err
	}
	return render.Crop(img), nil
}

func renderPoster(boardImg image.Image, score int, opts Options) ([]byte, error) {
	po := render.DefaultPosterOptions()
	if opts.Poster != nil {
		po = *opts.Poster
	}
	if opts.Background != "" {
		bg, err := loadPNG(opts.Background)
		if err != nil {
			return nil, err
		}
		po.BackgroundImage = bg
	}
	poster, err := render.ComposePoster(boardImg, opts.TopText, score, po)
	if err != nil {
		return nil, err
	}
	return render.EncodePNG(poster)
}

// glyphSet returns pre-rendered tiles when GlyphDir is set and drawn tiles
// otherwise.
func glyphSet(opts Options) (render.GlyphSet, func(), error) {
	if opts.GlyphDir != "" {
		g, err := render.NewDirGlyphs(opts.GlyphDir, opts.TileSize)
		if err != nil {
			return nil, nil, err
		}
		return g, func() {}, nil
	}
	g, err := render.NewDrawnGlyphs(opts.TileSize)
	if err != nil {
		return nil, nil, err
	}
	return g, func() { g.Close() }, nil
}

func loadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "background %s", path)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode background %s", path)
	}
	return img, nil
}
