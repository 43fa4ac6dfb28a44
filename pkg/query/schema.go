package query

import (
	"slices"
	"sort"
)

type ValueKind int

const (
	KindString ValueKind = iota
	KindNumber
	KindDate
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "unknown"
	}
}

// Field is a filterable attribute and the column it is stored in.
type Field struct {
	Column string
	Kind   ValueKind
	// Also lists extra columns; a condition on the field holds when it holds
	// for any of its columns.
	Also []string
}

// Schema lists the filterable keys of one resource. Identifiers in a filter
// ("models.name") must be one of the aliases.
type Schema struct {
	Name    string
	Aliases []string
	Fields  map[string]Field
}

func (s Schema) keys() []string {
	keys := make([]string, 0, len(s.Fields))
	for key := range s.Fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

func (s Schema) acceptsIdentifier(identifier string) bool {
	return identifier == "" || slices.Contains(s.Aliases, identifier)
}

//nolint:gochecknoglobals
var (
	AuthorSchema = Schema{
		Name:    "author",
		Aliases: []string{"author", "authors"},
		Fields: map[string]Field{
			"username":    {Column: "users.username", Kind: KindString},
			"name":        {Column: "users.name", Kind: KindString, Also: []string{"users.username"}},
			"institution": {Column: "authors.institution", Kind: KindString},
		},
	}

	ModelSchema = Schema{
		Name:    "model",
		Aliases: []string{"model", "models"},
		Fields: map[string]Field{
			"id":                      {Column: "models.id", Kind: KindNumber},
			"name":                    {Column: "models.name", Kind: KindString},
			"repository":              {Column: "models.repository", Kind: KindString},
			"implementation_language": {Column: "implementation_languages.language", Kind: KindString},
			"type":                    {Column: "models.type", Kind: KindString},
			"author":                  {Column: "users.username", Kind: KindString},
		},
	}

	PredictionSchema = Schema{
		Name:    "prediction",
		Aliases: []string{"prediction", "predictions"},
		Fields: map[string]Field{
			"id":           {Column: "predictions.id", Kind: KindNumber},
			"model":        {Column: "predictions.model_id", Kind: KindNumber},
			"commit":       {Column: "predictions.commit_id", Kind: KindString},
			"description":  {Column: "predictions.description", Kind: KindString},
			"predict_date": {Column: "predictions.predict_date", Kind: KindDate},
		},
	}
)
