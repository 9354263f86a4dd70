package board

import (
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/wordtiles/pkg/errors"
)

func TestLayoutRoundTrip(t *testing.T) {
	res, err := NewEngine(WithSeed(42)).Run([]string{"CAT", "CAR", "ARC"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	data, err := MarshalLayout(res.Layout())
	if err != nil {
		t.Fatalf("MarshalLayout: %v", err)
	}
	if !strings.Contains(string(data), `"axis": "`) {
		t.Errorf("axis should be encoded as text:\n%s", data)
	}

	l, err := UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout: %v", err)
	}
	g, err := l.Grid()
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	if diff := cmp.Diff(res.Grid.Rows(), g.Rows()); diff != "" {
		t.Errorf("grid mismatch (-want +got):\n%s", diff)
	}
	words := l.Words()
	slices.Sort(words)
	if diff := cmp.Diff([]string{"ARC", "CAR", "CAT"}, words); diff != "" {
		t.Errorf("words mismatch (-want +got):\n%s", diff)
	}
	if l.Score != 15 {
		t.Errorf("Score = %d, want 15", l.Score)
	}
}

func TestUnmarshalLayoutRejectsBadRows(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.Code
	}{
		{"not json", `{`, errors.ErrCodeInvalidFormat},
		{"row count", `{"size":2,"rows":["AB"]}`, errors.ErrCodeInvalidFormat},
		{"row width", `{"size":2,"rows":["AB","C"]}`, errors.ErrCodeInvalidFormat},
		{"digit", `{"size":1,"rows":["1"]}`, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalLayout([]byte(tt.data))
			if !errors.Is(err, tt.code) {
				t.Errorf("UnmarshalLayout error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLayoutText(t *testing.T) {
	l := Layout{Size: 2, Rows: []string{"A ", " B"}}
	if got, want := l.Text(), "A.\n.B\n"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}
