package errors

import (
	"strings"
	"testing"
)

func TestValidateWord(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"upper", "HELLO", false},
		{"lower", "hello", false},
		{"mixed", "HeLLo", false},
		{"single letter", "A", false},
		{"max length", strings.Repeat("A", MaxWordLength), false},

		{"empty", "", true},
		{"too long", strings.Repeat("A", MaxWordLength+1), true},
		{"digit", "R2D2", true},
		{"space", "ICE CREAM", true},
		{"hyphen", "X-RAY", true},
		{"accented", "CAFÉ", true},
		{"null byte", "A\x00B", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWord(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateWord(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateWord(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateWords(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		wantErr bool
	}{
		{"single", []string{"CAT"}, false},
		{"duplicates allowed", []string{"CAT", "CAT"}, false},
		{"nil", nil, true},
		{"empty", []string{}, true},
		{"one bad entry", []string{"CAT", "D0G"}, true},
		{"too many", make([]string, MaxWords+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWords(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateWords(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOrderID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "order-1001", false},
		{"uuid", "9b2f7c1e-4a53-4c1b-9a0e-5d3f1f6a7b21", false},
		{"underscore", "shop_42", false},

		{"empty", "", true},
		{"too long", strings.Repeat("x", 129), true},
		{"slash", "a/b", true},
		{"backslash", `a\b`, true},
		{"traversal", "..", true},
		{"hidden", ".orders", true},
		{"newline", "a\nb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOrderID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOrderID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
