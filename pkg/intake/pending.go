package intake

import (
	"os"
	"slices"
	"strings"

	"github.com/matzehuels/wordtiles/pkg/errors"
	"github.com/matzehuels/wordtiles/pkg/order"
	"github.com/matzehuels/wordtiles/pkg/pipeline"
)

// Output file names inside an order directory.
const (
	BoardFile  = "boardImage.png"
	PosterFile = "poster.png"
	LayoutFile = "layout.json"
	TextFile   = "board.txt"
	OrderFile  = "order.json" // the processed order, marked completed
)

// FileName returns the output file name for a pipeline format.
func FileName(format string) string {
	switch format {
	case pipeline.FormatPNG:
		return BoardFile
	case pipeline.FormatPoster:
		return PosterFile
	case pipeline.FormatJSON:
		return LayoutFile
	case pipeline.FormatTXT:
		return TextFile
	}
	return format
}

// Pending returns the sorted IDs of orders in jsonDir that have no directory
// in outputDir. File names that are not valid order IDs are skipped. A
// missing outputDir means nothing has been completed yet.
func Pending(jsonDir, outputDir string) ([]string, error) {
	entries, err := os.ReadDir(jsonDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read order directory %s", jsonDir)
	}
	done, err := completed(outputDir)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, order.Ext) {
			continue
		}
		id := strings.TrimSuffix(name, order.Ext)
		if errors.ValidateOrderID(id) != nil || done[id] {
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func completed(outputDir string) (map[string]bool, error) {
	entries, err := os.ReadDir(outputDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read output directory %s", outputDir)
	}
	done := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			done[e.Name()] = true
		}
	}
	return done, nil
}
