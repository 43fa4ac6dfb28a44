package validation

import (
	"fmt"
	"unicode/utf8"
)

const DefaultMaxDescriptionLength = 500

type DescriptionTooLongError struct {
	Max     int
	Overage int
}

func (e *DescriptionTooLongError) Error() string {
	return fmt.Sprintf(
		"Description too big, maximum allowed: %d. Please remove %d characters.",
		e.Max, e.Overage,
	)
}

// ValidateDescription counts characters, not bytes.
func ValidateDescription(text string, maxLength int) error {
	length := utf8.RuneCountInString(text)
	if length > maxLength {
		return &DescriptionTooLongError{Max: maxLength, Overage: length - maxLength}
	}

	return nil
}
