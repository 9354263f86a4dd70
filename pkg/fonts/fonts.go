// Package fonts provides the typefaces used to draw letter tiles and poster
// text.
//
// The Go fonts ship inside golang.org/x/image, so they are compiled into the
// binary and need no files at run time. Parsed fonts are cached after first
// use; faces are cheap to create per size.
package fonts

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Family selects one of the embedded typefaces.
type Family int

const (
	Bold Family = iota
	Regular
)

var (
	parsed   [2]*opentype.Font
	parseErr [2]error
	once     [2]sync.Once
)

func ttf(f Family) []byte {
	if f == Regular {
		return goregular.TTF
	}
	return gobold.TTF
}

// Font returns the parsed font for f.
func Font(f Family) (*opentype.Font, error) {
	if f != Regular {
		f = Bold
	}
	once[f].Do(func() {
		parsed[f], parseErr[f] = opentype.Parse(ttf(f))
	})
	return parsed[f], parseErr[f]
}

// Face returns a face of f at size points, rendered at 72 DPI so that one
// point equals one pixel. Callers should Close the face when done.
func Face(f Family, size float64) (font.Face, error) {
	fnt, err := Font(f)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
