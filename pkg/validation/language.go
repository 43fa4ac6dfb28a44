package validation

import (
	"fmt"
	"strings"

	"github.com/prediction-registry/registry/pkg/entities"
)

type UnknownLanguageError struct {
	Name       string
	Suggestion string
}

func (e *UnknownLanguageError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("Unknown language '%s', did you mean '%s'?", e.Name, e.Suggestion)
	}

	return "Unknown language " + e.Name
}

// ResolveLanguage matches name against the vocabulary ignoring case. On a miss
// the first entry containing name is offered as a suggestion, in vocabulary
// order, even when a later entry would be a closer match.
func ResolveLanguage(
	name string, vocabulary []entities.ImplementationLanguage,
) (entities.ImplementationLanguage, error) {
	for _, language := range vocabulary {
		if strings.EqualFold(language.Language, name) {
			return language, nil
		}
	}

	needle := strings.ToLower(name)
	for _, language := range vocabulary {
		if strings.Contains(strings.ToLower(language.Language), needle) {
			return entities.ImplementationLanguage{}, &UnknownLanguageError{
				Name:       name,
				Suggestion: language.Language,
			}
		}
	}

	return entities.ImplementationLanguage{}, &UnknownLanguageError{Name: name}
}
