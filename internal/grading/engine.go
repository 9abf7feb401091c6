package grading

// Choice is the minimal view of an option needed for grading. Slices of Choice are
// expected in ascending option ID order.
type Choice struct {
	ID        uint
	IsCorrect bool
}

// Selection is the outcome of grading one submitted letter against one question.
type Selection struct {
	// OptionID is nil when the letter did not address any option.
	OptionID  *uint
	IsCorrect bool
}

// Grade resolves letter against choices. Out of range or malformed letters are
// never errors; they produce an empty, incorrect selection.
func Grade(choices []Choice, letter string) Selection {
	idx := LetterToIndex(letter)
	if idx < 0 || idx >= len(choices) {
		return Selection{}
	}
	id := choices[idx].ID
	return Selection{OptionID: &id, IsCorrect: choices[idx].IsCorrect}
}

// Score is the percentage of correct answers. A quiz without questions scores 0.
func Score(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

// SelectedLetter recovers the letter of optionID from its position in choices.
func SelectedLetter(choices []Choice, optionID *uint) *string {
	if optionID == nil {
		return nil
	}
	for i, c := range choices {
		if c.ID == *optionID {
			return letterPtr(i)
		}
	}
	return nil
}

// CorrectLetter returns the letter of the first correct choice, or nil if none is marked.
func CorrectLetter(choices []Choice) *string {
	for i, c := range choices {
		if c.IsCorrect {
			return letterPtr(i)
		}
	}
	return nil
}

func letterPtr(i int) *string {
	l, ok := IndexToLetter(i)
	if !ok {
		return nil
	}
	return &l
}
