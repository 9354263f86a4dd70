// Package render turns a finished board into pictures.
//
// # Overview
//
// Rendering happens in three steps:
//
//   - [RenderBoard] draws one glyph tile per occupied cell. The image is
//     Size × tile pixels on each axis; blank cells stay transparent.
//   - [Crop] removes fully transparent outer rows and columns.
//   - [ComposePoster] scales the board onto a poster background and writes
//     the headline above it and "Word Score: N" below it.
//
// [EncodePNG] serialises any of these images. [RenderText] gives the plain
// text form used by the CLI and the txt output format.
//
// # Glyph Sets
//
// A [GlyphSet] supplies the tile image for each letter:
//
//   - [DrawnGlyphs] draws tiles in process with the Go Bold font, letter in
//     the middle and point value in the corner.
//   - [DirGlyphs] loads pre-rendered tiles named A.png through Z.png from a
//     directory, scaling them to the tile size when needed.
//
// Both cache tiles after first use and are safe for concurrent use.
//
//	glyphs, err := render.NewDrawnGlyphs(64)
//	img, err := render.RenderBoard(res.Grid, glyphs)
//	poster, err := render.ComposePoster(render.Crop(img), "Happy Birthday", res.Score, render.DefaultPosterOptions())
//	data, err := render.EncodePNG(poster)
package render
