package query_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prediction-registry/registry/pkg/query"
	"github.com/prediction-registry/registry/pkg/query/parser"
)

func TestValidFilters(t *testing.T) {
	t.Parallel()

	samples := []struct {
		input  string
		schema query.Schema
	}{
		{input: "username = 'fccoelho'", schema: query.AuthorSchema},
		{input: "authors.institution ILIKE '%FGV%'", schema: query.AuthorSchema},
		{input: "name LIKE 'ari%' AND type = 'statistical'", schema: query.ModelSchema},
		{input: "implementationLanguage IN ('Python', 'R')", schema: query.ModelSchema},
		{input: "models.author = 'lucas'", schema: query.ModelSchema},
		{input: "id >= 10", schema: query.ModelSchema},
		{input: "model = 3 AND predict_date >= '2024-01-01'", schema: query.PredictionSchema},
		{input: "predictDate < \"2024-12-31\"", schema: query.PredictionSchema},
		{input: "commit != 'abc123'", schema: query.PredictionSchema},
	}

	for _, sample := range samples {
		t.Run(sample.input, func(t *testing.T) {
			t.Parallel()

			_, err := query.ParseFilter(sample.input, sample.schema)
			require.NoError(t, err)
		})
	}
}

func TestInvalidFilters(t *testing.T) {
	t.Parallel()

	samples := []struct {
		input  string
		schema query.Schema
	}{
		{input: "password = 'x'", schema: query.AuthorSchema},
		{input: "models.name = 'x'", schema: query.AuthorSchema},
		{input: "id = '3'", schema: query.ModelSchema},
		{input: "name = 3", schema: query.ModelSchema},
		{input: "id LIKE '3%'", schema: query.ModelSchema},
		{input: "model IN ('1')", schema: query.PredictionSchema},
		{input: "predict_date = 20240101", schema: query.PredictionSchema},
		{input: "predict_date = '01/02/2024'", schema: query.PredictionSchema},
		{input: "name = 'x' OR name = 'y'", schema: query.ModelSchema},
	}

	for _, sample := range samples {
		t.Run(sample.input, func(t *testing.T) {
			t.Parallel()

			_, err := query.ParseFilter(sample.input, sample.schema)
			require.Error(t, err)
		})
	}
}

func TestEmptyFilter(t *testing.T) {
	t.Parallel()

	conditions, err := query.ParseFilter("", query.ModelSchema)
	require.NoError(t, err)
	assert.Empty(t, conditions)
}

func TestConditionsCarryColumnsAndValues(t *testing.T) {
	t.Parallel()

	conditions, err := query.ParseFilter(
		"implementation_language = 'Python' AND predictions.predict_date >= '2024-02-29'",
		query.Schema{
			Name:    "mixed",
			Aliases: []string{"predictions"},
			Fields: map[string]query.Field{
				"implementation_language": query.ModelSchema.Fields["implementation_language"],
				"predict_date":            query.PredictionSchema.Fields["predict_date"],
			},
		},
	)
	require.NoError(t, err)
	require.Len(t, conditions, 2)

	assert.Equal(t, &query.Condition{
		Column:   "implementation_languages.language",
		Kind:     query.KindString,
		Operator: parser.Equals,
		Value:    "Python",
	}, conditions[0])

	assert.Equal(t, &query.Condition{
		Column:   "predictions.predict_date",
		Kind:     query.KindDate,
		Operator: parser.GreaterEquals,
		Value:    time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
	}, conditions[1])
}

func TestNewCondition(t *testing.T) {
	t.Parallel()

	condition, err := query.NewCondition(query.PredictionSchema, "model", parser.Equals, parser.NumberExpr{Value: 12})
	require.NoError(t, err)
	assert.Equal(t, "predictions.model_id", condition.Column)
	assert.InDelta(t, 12.0, condition.Value, 0)

	_, err = query.NewCondition(query.PredictionSchema, "model", parser.Equals, parser.StringExpr{Value: "12"})
	require.Error(t, err)
}
