package validation_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prediction-registry/registry/pkg/entities"
	"github.com/prediction-registry/registry/pkg/validation"
)

func TestValidateDescription(t *testing.T) {
	t.Parallel()

	scenarios := []struct {
		name    string
		input   string
		overage int
	}{
		{name: "empty", input: ""},
		{name: "at limit", input: strings.Repeat("a", 500)},
		{name: "one over", input: strings.Repeat("a", 501), overage: 1},
		{name: "far over", input: strings.Repeat("a", 742), overage: 242},
		{name: "multibyte at limit", input: strings.Repeat("é", 500)},
		{name: "multibyte over", input: strings.Repeat("é", 503), overage: 3},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			t.Parallel()

			err := validation.ValidateDescription(scenario.input, validation.DefaultMaxDescriptionLength)
			if scenario.overage == 0 {
				require.NoError(t, err)

				return
			}

			var tooLong *validation.DescriptionTooLongError
			require.ErrorAs(t, err, &tooLong)
			assert.Equal(t, scenario.overage, tooLong.Overage)
			assert.Contains(t, err.Error(), "maximum allowed: 500")
			assert.Contains(t, err.Error(), "remove "+strconv.Itoa(scenario.overage)+" characters")
		})
	}
}

func TestValidateRepository(t *testing.T) {
	t.Parallel()

	hosts := []string{"github.com"}

	scenarios := []struct {
		name      string
		input     string
		wrongHost bool
		invalid   bool
	}{
		{name: "github repository", input: "https://github.com/owner/model"},
		{name: "github root path", input: "https://github.com/"},
		{name: "gitlab", input: "https://gitlab.com/owner/model", wrongHost: true},
		{name: "github subdomain", input: "https://gist.github.com/owner/1", wrongHost: true},
		{name: "github with port", input: "https://github.com:443/owner/model", wrongHost: true},
		{name: "no scheme", input: "github.com/owner/model", wrongHost: true},
		{name: "empty", input: "", wrongHost: true},
		{name: "github without path", input: "https://github.com", invalid: true},
		{name: "unparsable", input: "https://github.com/%zz", invalid: true},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			t.Parallel()

			err := validation.ValidateRepository(scenario.input, hosts)

			switch {
			case scenario.wrongHost:
				var wrongHost *validation.WrongHostError
				require.ErrorAs(t, err, &wrongHost)
				assert.Equal(t, "Model repository must be on Github", err.Error())
			case scenario.invalid:
				require.ErrorIs(t, err, validation.ErrInvalidRepository)
			default:
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateRepositoryCustomHosts(t *testing.T) {
	t.Parallel()

	hosts := []string{"github.com", "gitlab.com"}

	require.NoError(t, validation.ValidateRepository("https://gitlab.com/owner/model", hosts))

	err := validation.ValidateRepository("https://bitbucket.org/owner/model", hosts)
	require.Error(t, err)
	assert.Equal(t, "Model repository must be on github.com or gitlab.com", err.Error())
}

func vocabulary(names ...string) []entities.ImplementationLanguage {
	languages := make([]entities.ImplementationLanguage, 0, len(names))
	for i, name := range names {
		languages = append(languages, entities.ImplementationLanguage{ID: int32(i + 1), Language: name})
	}

	return languages
}

func TestResolveLanguage(t *testing.T) {
	t.Parallel()

	// Enumerated in ascending name order, the way the store returns it.
	languages := vocabulary("PyPy", "Python", "Rust")

	scenarios := []struct {
		name       string
		input      string
		resolved   string
		suggestion string
		unknown    bool
	}{
		{name: "exact", input: "Python", resolved: "Python"},
		{name: "case insensitive", input: "python", resolved: "Python"},
		{name: "upper case", input: "RUST", resolved: "Rust"},
		{name: "substring suggests first match", input: "py", suggestion: "PyPy", unknown: true},
		{name: "substring with single match", input: "ust", suggestion: "Rust", unknown: true},
		{name: "no match", input: "zzz", unknown: true},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			t.Parallel()

			language, err := validation.ResolveLanguage(scenario.input, languages)
			if !scenario.unknown {
				require.NoError(t, err)
				assert.Equal(t, scenario.resolved, language.Language)

				return
			}

			var unknown *validation.UnknownLanguageError
			require.ErrorAs(t, err, &unknown)
			assert.Equal(t, scenario.suggestion, unknown.Suggestion)
		})
	}
}

func TestUnknownLanguageMessages(t *testing.T) {
	t.Parallel()

	languages := vocabulary("PyPy", "Python", "Rust")

	_, err := validation.ResolveLanguage("py", languages)
	assert.EqualError(t, err, "Unknown language 'py', did you mean 'PyPy'?")

	_, err = validation.ResolveLanguage("zzz", languages)
	assert.EqualError(t, err, "Unknown language zzz")
}

func TestCleanInstitution(t *testing.T) {
	t.Parallel()

	institution, err := validation.CleanInstitution("  FGV EMAp  ", validation.DefaultMaxInstitutionLength)
	require.NoError(t, err)
	require.NotNil(t, institution)
	assert.Equal(t, "FGV EMAp", *institution)

	institution, err = validation.CleanInstitution("   ", validation.DefaultMaxInstitutionLength)
	require.NoError(t, err)
	assert.Nil(t, institution)

	_, err = validation.CleanInstitution(strings.Repeat("x", 101), validation.DefaultMaxInstitutionLength)
	var tooLong *validation.InstitutionTooLongError
	require.ErrorAs(t, err, &tooLong)
}
