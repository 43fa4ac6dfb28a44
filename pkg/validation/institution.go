package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const DefaultMaxInstitutionLength = 100

type InstitutionTooLongError struct {
	Max int
}

func (e *InstitutionTooLongError) Error() string {
	return fmt.Sprintf("Institution too big, maximum allowed: %d characters.", e.Max)
}

// CleanInstitution trims the value and turns a blank institution into nil.
func CleanInstitution(institution string, maxLength int) (*string, error) {
	institution = strings.TrimSpace(institution)
	if institution == "" {
		return nil, nil
	}

	if utf8.RuneCountInString(institution) > maxLength {
		return nil, &InstitutionTooLongError{Max: maxLength}
	}

	return &institution, nil
}
