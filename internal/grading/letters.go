package grading

import "strings"

// MaxOptions is the number of letters available, A through Z.
const MaxOptions = 26

// LetterToIndex maps "A" -> 0, "b" -> 1, and so on. Anything that is not exactly one
// ASCII letter, including padded input such as " b", maps to -1, which never
// addresses an option.
func LetterToIndex(letter string) int {
	l := strings.ToUpper(letter)
	if len(l) != 1 {
		return -1
	}
	c := l[0]
	if c < 'A' || c > 'Z' {
		return -1
	}
	return int(c - 'A')
}

// IndexToLetter is the inverse of LetterToIndex. ok is false outside 0..25.
func IndexToLetter(index int) (letter string, ok bool) {
	if index < 0 || index >= MaxOptions {
		return "", false
	}
	return string(rune('A' + index)), true
}
