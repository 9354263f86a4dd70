package errors

import (
	"strings"
	"unicode"
)

// MaxWordLength is the longest word accepted by the engine boundary.
const MaxWordLength = 32

// MaxWords is the largest word list accepted by the engine boundary.
const MaxWords = 200

// ValidateWord checks that word is a non-empty run of ASCII letters.
// Case is not checked here; callers normalise to upper case before placement.
func ValidateWord(word string) error {
	if word == "" {
		return New(ErrCodeInvalidInput, "word cannot be empty")
	}
	if len(word) > MaxWordLength {
		return New(ErrCodeInvalidInput, "word %q too long (max %d letters)", word, MaxWordLength)
	}
	for i := 0; i < len(word); i++ {
		c := word[i]
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return New(ErrCodeInvalidInput, "word %q contains non-letter character %q", word, c)
		}
	}
	return nil
}

// ValidateWords checks a whole word list: it must be non-empty, bounded in size,
// and every entry must pass [ValidateWord]. Duplicates are allowed.
func ValidateWords(words []string) error {
	if len(words) == 0 {
		return New(ErrCodeInvalidInput, "word list cannot be empty")
	}
	if len(words) > MaxWords {
		return New(ErrCodeInvalidInput, "too many words (max %d)", MaxWords)
	}
	for _, w := range words {
		if err := ValidateWord(w); err != nil {
			return err
		}
	}
	return nil
}

// ValidateOrderID validates an order identifier for use as a directory name.
// It rejects names that could be used for path traversal.
//
// The validation rules are intentionally conservative:
//   - No empty IDs
//   - No control characters
//   - No path separators or traversal sequences
//   - No hidden names (leading dot)
//   - Maximum length of 128 characters
func ValidateOrderID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidOrder, "order ID cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidOrder, "order ID too long (max 128 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidOrder, "order ID contains invalid control characters")
		}
	}
	if strings.ContainsAny(id, `/\`) {
		return New(ErrCodeInvalidOrder, "order ID cannot contain path separators")
	}
	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidOrder, "order ID cannot contain path traversal sequences (..)")
	}
	if strings.HasPrefix(id, ".") {
		return New(ErrCodeInvalidOrder, "order ID cannot start with a dot")
	}
	return nil
}
