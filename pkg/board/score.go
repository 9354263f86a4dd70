package board

// letterValues holds the point value of each letter, A through Z.
var letterValues = [26]int{
	// A-M
	1, 3, 3, 2, 1, 4, 2, 4, 1, 8, 5, 1, 3,
	// N-Z
	1, 1, 3, 10, 1, 1, 1, 1, 4, 4, 8, 4, 10,
}

// LetterValue returns the point value of a letter in either case, or 0 for
// anything that is not a letter.
func LetterValue(letter byte) int {
	letter = upper(letter)
	if letter < 'A' || letter > 'Z' {
		return 0
	}
	return letterValues[letter-'A']
}

// WordScore returns the sum of the letter values of word.
func WordScore(word string) int {
	total := 0
	for i := 0; i < len(word); i++ {
		total += LetterValue(word[i])
	}
	return total
}

// Score sums WordScore over the word list. Letters shared on the grid count
// once per word that uses them.
func Score(words []string) int {
	total := 0
	for _, w := range words {
		total += WordScore(w)
	}
	return total
}
