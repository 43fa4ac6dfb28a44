package service_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prediction-registry/registry/pkg/auth"
	"github.com/prediction-registry/registry/pkg/config"
	"github.com/prediction-registry/registry/pkg/contract"
	contractservice "github.com/prediction-registry/registry/pkg/contract/service"
	"github.com/prediction-registry/registry/pkg/entities"
	"github.com/prediction-registry/registry/pkg/service"
	"github.com/prediction-registry/registry/pkg/store"
	"github.com/prediction-registry/registry/pkg/store/sql"
	"github.com/prediction-registry/registry/pkg/utils"
)

type fixture struct {
	service *service.RegistryService
	store   *sql.Store
	alice   auth.Principal
	bob     auth.Principal
	carol   auth.Principal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctx := context.Background()
	cfg := config.Default()
	cfg.StoreURL = "sqlite://" + filepath.Join(t.TempDir(), "registry.db")
	cfg.DefaultPageSize = 2
	cfg.MaxPageSize = 3

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	registryStore, err := sql.NewSQLStore(logger, &cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = registryStore.Close() })
	require.NoError(t, registryStore.Migrate(ctx))

	for _, language := range []string{"Python", "PyPy", "Rust"} {
		_, cErr := registryStore.CreateLanguage(ctx, language)
		require.Nil(t, cErr)
	}

	principal := func(username, name string, withAuthor bool) auth.Principal {
		user, cErr := registryStore.CreateUser(ctx, &store.UserInput{Username: username, Name: name, APIKeyHash: "-"})
		require.Nil(t, cErr)

		if withAuthor {
			_, cErr = registryStore.CreateAuthor(ctx, user.ID, nil)
			require.Nil(t, cErr)
		}

		return auth.Principal{UserID: user.ID, Username: username}
	}

	return &fixture{
		service: service.NewRegistryService(&cfg, registryStore),
		store:   registryStore,
		alice:   principal("alice", "Alice Liddell", true),
		bob:     principal("bob", "Bob Stone", true),
		carol:   principal("carol", "Carol", false),
	}
}

func validModel(name string) *contractservice.CreateModel {
	return &contractservice.CreateModel{
		Name:                   name,
		Description:            "weekly dengue nowcast",
		Repository:             "https://github.com/example/" + name,
		ImplementationLanguage: "python",
		Type:                   "nowcast",
	}
}

func validPrediction(modelID int32) *contractservice.PredictionInput {
	return &contractservice.PredictionInput{
		Model:       modelID,
		Commit:      "abc123",
		PredictDate: "2024-01-07",
		Prediction:  json.RawMessage(`{"dates": ["2024-01-07"], "cases": [10]}`),
	}
}

func TestCreateModelValidation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	scenarios := []struct {
		name    string
		mutate  func(input *contractservice.CreateModel)
		code    contract.ErrorCode
		message string
	}{
		{
			name:    "description too long",
			mutate:  func(input *contractservice.CreateModel) { input.Description = strings.Repeat("a", 512) },
			code:    contract.INVALID_PARAMETER_VALUE,
			message: "Description too big, maximum allowed: 500. Please remove 12 characters.",
		},
		{
			name:    "repository off github",
			mutate:  func(input *contractservice.CreateModel) { input.Repository = "https://gitlab.com/example/model" },
			code:    contract.INVALID_PARAMETER_VALUE,
			message: "Model repository must be on Github",
		},
		{
			name:    "repository without path",
			mutate:  func(input *contractservice.CreateModel) { input.Repository = "https://github.com" },
			code:    contract.INVALID_PARAMETER_VALUE,
			message: "Invalid repository",
		},
		{
			name:    "language with suggestion",
			mutate:  func(input *contractservice.CreateModel) { input.ImplementationLanguage = "py" },
			code:    contract.RESOURCE_DOES_NOT_EXIST,
			message: "Unknown language 'py', did you mean 'PyPy'?",
		},
		{
			name:    "unknown language",
			mutate:  func(input *contractservice.CreateModel) { input.ImplementationLanguage = "zzz" },
			code:    contract.RESOURCE_DOES_NOT_EXIST,
			message: "Unknown language zzz",
		},
		{
			name: "description checked before repository",
			mutate: func(input *contractservice.CreateModel) {
				input.Description = strings.Repeat("a", 501)
				input.Repository = "https://gitlab.com/x"
			},
			code:    contract.INVALID_PARAMETER_VALUE,
			message: "Description too big, maximum allowed: 500. Please remove 1 characters.",
		},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			input := validModel("model")
			scenario.mutate(input)

			_, err := f.service.CreateModel(context.Background(), f.alice, input)
			require.NotNil(t, err)
			assert.Equal(t, scenario.code, err.Code)
			assert.Equal(t, scenario.message, err.Message)
		})
	}

	input := validModel("model")
	input.Description = strings.Repeat("a", 500)

	created, err := f.service.CreateModel(context.Background(), f.alice, input)
	require.Nil(t, err)
	assert.Equal(t, "Python", created.ImplementationLanguage)
	assert.Equal(t, "alice", created.Author)
}

func TestCreateModelRequiresAuthor(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	_, err := f.service.CreateModel(context.Background(), f.carol, validModel("orphan"))
	require.NotNil(t, err)
	assert.Equal(t, contract.RESOURCE_DOES_NOT_EXIST, err.Code)
	assert.Equal(t, "Author not found", err.Message)

	_, err = f.service.CreateModel(context.Background(), auth.Principal{}, validModel("anonymous"))
	require.NotNil(t, err)
	assert.Equal(t, contract.UNAUTHENTICATED, err.Code)
}

func TestConcurrentModelCreation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	const attempts = 2

	var wg sync.WaitGroup

	errs := make([]*contract.Error, attempts)
	for i := range attempts {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			_, errs[i] = f.service.CreateModel(context.Background(), f.alice, validModel("contested"))
		}(i)
	}

	wg.Wait()

	var succeeded, conflicted int

	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case err.Code == contract.RESOURCE_ALREADY_EXISTS:
			conflicted++
			assert.Equal(t, "Model contested already exists", err.Message)
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicted)
}

func TestDeleteModelOwnership(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.CreateModel(ctx, f.alice, validModel("alpha"))
	require.Nil(t, err)

	err = f.service.DeleteModel(ctx, f.bob, &contractservice.DeleteModel{ID: created.ID})
	require.NotNil(t, err)
	assert.Equal(t, contract.PERMISSION_DENIED, err.Code)
	assert.Equal(t, "You are not authorized to delete this Model", err.Message)
	assert.Equal(t, 403, err.StatusCode())

	require.Nil(t, f.service.DeleteModel(ctx, f.alice, &contractservice.DeleteModel{ID: created.ID}))

	err = f.service.DeleteModel(ctx, f.alice, &contractservice.DeleteModel{ID: created.ID})
	require.NotNil(t, err)
	assert.Equal(t, "Model not found", err.Message)
}

func TestPredictionOwnership(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	alpha, err := f.service.CreateModel(ctx, f.alice, validModel("alpha"))
	require.Nil(t, err)

	// Any authenticated user may predict with any model.
	prediction, err := f.service.CreatePrediction(ctx, f.carol, validPrediction(alpha.ID))
	require.Nil(t, err)
	assert.Equal(t, f.alice.UserID, prediction.OwnerID)
	assert.JSONEq(t, `{"cases":[10],"dates":["2024-01-07"]}`, string(prediction.Prediction))

	invalid := validPrediction(alpha.ID)
	invalid.Description = strings.Repeat("x", 900)

	for _, input := range []*contractservice.PredictionInput{validPrediction(alpha.ID), invalid} {
		_, err = f.service.UpdatePrediction(ctx, f.bob, &contractservice.UpdatePrediction{
			ID:              prediction.ID,
			PredictionInput: *input,
		})
		require.NotNil(t, err)
		assert.Equal(t, "You are not authorized to update this prediction", err.Message)
	}

	err = f.service.DeletePrediction(ctx, f.carol, &contractservice.DeletePrediction{ID: prediction.ID})
	require.NotNil(t, err)
	assert.Equal(t, "You are not authorized to delete this prediction", err.Message)

	_, err = f.service.UpdatePrediction(ctx, f.alice, &contractservice.UpdatePrediction{
		ID:              prediction.ID,
		PredictionInput: *invalid,
	})
	require.NotNil(t, err)
	assert.Equal(t, "Description too big, maximum allowed: 500. Please remove 400 characters.", err.Message)

	replacement := validPrediction(alpha.ID)
	replacement.Commit = ""
	replacement.PredictDate = "2024-01-14"
	replacement.Prediction = json.RawMessage(`[1, 2]`)

	updated, err := f.service.UpdatePrediction(ctx, f.alice, &contractservice.UpdatePrediction{
		ID:              prediction.ID,
		PredictionInput: *replacement,
	})
	require.Nil(t, err)
	assert.Equal(t, "", updated.Commit)
	assert.Equal(t, "2024-01-14", updated.PredictDate)
	assert.JSONEq(t, `[1,2]`, string(updated.Prediction))

	require.Nil(t, f.service.DeletePrediction(ctx, f.alice, &contractservice.DeletePrediction{ID: prediction.ID}))
}

func TestAuthorizeUpdateTargets(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	alpha, err := f.service.CreateModel(ctx, f.alice, validModel("alpha"))
	require.Nil(t, err)
	prediction, err := f.service.CreatePrediction(ctx, f.alice, validPrediction(alpha.ID))
	require.Nil(t, err)

	scenarios := []struct {
		name      string
		authorize func() *contract.Error
		code      contract.ErrorCode
		message   string
	}{
		{
			name: "owned prediction",
			authorize: func() *contract.Error {
				return f.service.AuthorizePredictionUpdate(ctx, f.alice, &contractservice.GetPrediction{ID: prediction.ID})
			},
		},
		{
			name: "prediction of another user",
			authorize: func() *contract.Error {
				return f.service.AuthorizePredictionUpdate(ctx, f.bob, &contractservice.GetPrediction{ID: prediction.ID})
			},
			code:    contract.PERMISSION_DENIED,
			message: "You are not authorized to update this prediction",
		},
		{
			name: "missing prediction",
			authorize: func() *contract.Error {
				return f.service.AuthorizePredictionUpdate(ctx, f.alice, &contractservice.GetPrediction{ID: prediction.ID + 100})
			},
			code:    contract.RESOURCE_DOES_NOT_EXIST,
			message: "Prediction not found",
		},
		{
			name: "own author",
			authorize: func() *contract.Error {
				return f.service.AuthorizeAuthorUpdate(ctx, f.bob, &contractservice.GetAuthor{Username: "bob"})
			},
		},
		{
			name: "author of another user",
			authorize: func() *contract.Error {
				return f.service.AuthorizeAuthorUpdate(ctx, f.bob, &contractservice.GetAuthor{Username: "alice"})
			},
			code:    contract.PERMISSION_DENIED,
			message: "You are not authorized to update this author",
		},
		{
			name: "user without author",
			authorize: func() *contract.Error {
				return f.service.AuthorizeAuthorUpdate(ctx, f.carol, &contractservice.GetAuthor{Username: "carol"})
			},
			code:    contract.RESOURCE_DOES_NOT_EXIST,
			message: "Author not found",
		},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			err := scenario.authorize()
			if scenario.message == "" {
				require.Nil(t, err)

				return
			}

			require.NotNil(t, err)
			assert.Equal(t, scenario.code, err.Code)
			assert.Equal(t, scenario.message, err.Message)
		})
	}
}

func TestPredictionModelSwapIsNotReauthorized(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	alpha, err := f.service.CreateModel(ctx, f.alice, validModel("alpha"))
	require.Nil(t, err)
	beta, err := f.service.CreateModel(ctx, f.bob, validModel("beta"))
	require.Nil(t, err)

	prediction, err := f.service.CreatePrediction(ctx, f.alice, validPrediction(alpha.ID))
	require.Nil(t, err)

	moved, err := f.service.UpdatePrediction(ctx, f.alice, &contractservice.UpdatePrediction{
		ID:              prediction.ID,
		PredictionInput: *validPrediction(beta.ID),
	})
	require.Nil(t, err)
	assert.Equal(t, beta.ID, moved.Model)
	assert.Equal(t, f.bob.UserID, moved.OwnerID)
}

func TestPredictionNotFound(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	err := f.service.DeletePrediction(ctx, f.alice, &contractservice.DeletePrediction{ID: 404})
	require.NotNil(t, err)
	assert.Equal(t, contract.RESOURCE_DOES_NOT_EXIST, err.Code)
	assert.Contains(t, err.Message, "Prediction")

	_, err = f.service.CreatePrediction(ctx, f.alice, validPrediction(77))
	require.NotNil(t, err)
	assert.Equal(t, "Model '77' not found", err.Message)
}

func TestRejectsNullPrediction(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	alpha, err := f.service.CreateModel(ctx, f.alice, validModel("alpha"))
	require.Nil(t, err)

	input := validPrediction(alpha.ID)
	input.Prediction = json.RawMessage(`null`)

	_, err = f.service.CreatePrediction(ctx, f.alice, input)
	require.NotNil(t, err)
	assert.Equal(t, contract.INVALID_PARAMETER_VALUE, err.Code)

	input = validPrediction(alpha.ID)
	input.PredictDate = "2024-13-01"

	_, err = f.service.CreatePrediction(ctx, f.alice, input)
	require.NotNil(t, err)
	assert.Equal(t, contract.INVALID_PARAMETER_VALUE, err.Code)
}

func TestAuthorUpdateAndDelete(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.UpdateAuthor(ctx, f.bob, &contractservice.UpdateAuthor{
		Username: "alice", Institution: utils.PtrTo("FGV"),
	})
	require.NotNil(t, err)
	assert.Equal(t, "You are not authorized to update this author", err.Message)

	author, err := f.service.UpdateAuthor(ctx, f.alice, &contractservice.UpdateAuthor{
		Username: "alice", Institution: utils.PtrTo("  FGV  "),
	})
	require.Nil(t, err)
	assert.Equal(t, "FGV", utils.Deref(author.Institution))

	author, err = f.service.UpdateAuthor(ctx, f.alice, &contractservice.UpdateAuthor{
		Username: "alice", Institution: utils.PtrTo("   "),
	})
	require.Nil(t, err)
	assert.Nil(t, author.Institution)

	_, err = f.service.UpdateAuthor(ctx, f.alice, &contractservice.UpdateAuthor{
		Username: "alice", Institution: utils.PtrTo(strings.Repeat("i", 101)),
	})
	require.NotNil(t, err)
	assert.Equal(t, contract.INVALID_PARAMETER_VALUE, err.Code)

	_, err = f.service.DeleteAuthor(ctx, f.bob, &contractservice.DeleteAuthor{Username: "alice"})
	require.NotNil(t, err)
	assert.Equal(t, "You are not authorized to delete this author", err.Message)

	message, err := f.service.DeleteAuthor(ctx, f.alice, &contractservice.DeleteAuthor{Username: "alice"})
	require.Nil(t, err)
	assert.Equal(t, "Author 'Alice Liddell' deleted successfully", message.Message)

	_, err = f.service.GetAuthor(ctx, &contractservice.GetAuthor{Username: "alice"})
	require.NotNil(t, err)
	assert.Equal(t, "Author not found", err.Message)
}

func TestListModelsFiltersAndPages(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	for _, name := range []string{"dengue-a", "dengue-b", "dengue_c", "zika"} {
		_, err := f.service.CreateModel(ctx, f.alice, validModel(name))
		require.Nil(t, err)
	}

	rust := validModel("chik")
	rust.ImplementationLanguage = "RUST"
	rust.Type = "forecast"
	_, err := f.service.CreateModel(ctx, f.bob, rust)
	require.Nil(t, err)

	page, err := f.service.ListModels(ctx, &contractservice.ListModels{})
	require.Nil(t, err)
	assert.Equal(t, int64(5), page.Count)
	assert.Equal(t, 3, page.Pages)
	assert.Len(t, page.Items, 2)

	page, err = f.service.ListModels(ctx, &contractservice.ListModels{
		Pagination: contractservice.Pagination{PageSize: 50},
	})
	require.Nil(t, err)
	assert.Len(t, page.Items, 3)

	page, err = f.service.ListModels(ctx, &contractservice.ListModels{Name: "dengue_"})
	require.Nil(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "dengue_c", page.Items[0].Name)

	page, err = f.service.ListModels(ctx, &contractservice.ListModels{ImplementationLanguage: "rust"})
	require.Nil(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "chik", page.Items[0].Name)

	page, err = f.service.ListModels(ctx, &contractservice.ListModels{Type: "forecast", Filter: "author = 'bob'"})
	require.Nil(t, err)
	require.Len(t, page.Items, 1)

	_, err = f.service.ListModels(ctx, &contractservice.ListModels{Filter: "author = "})
	require.NotNil(t, err)
	assert.Equal(t, contract.BAD_REQUEST, err.Code)

	authors, err := f.service.ListAuthors(ctx, &contractservice.ListAuthors{Name: "stone"})
	require.Nil(t, err)
	require.Len(t, authors, 1)
	assert.Equal(t, "bob", authors[0].Username)
	assert.Equal(t, int64(1), authors[0].ModelsCount)
}

func TestListPredictionsByModelAndDate(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	alpha, err := f.service.CreateModel(ctx, f.alice, validModel("alpha"))
	require.Nil(t, err)

	for _, date := range []string{"2024-01-07", "2024-01-14", "2024-01-21"} {
		input := validPrediction(alpha.ID)
		input.PredictDate = date

		_, err = f.service.CreatePrediction(ctx, f.alice, input)
		require.Nil(t, err)
	}

	page, err := f.service.ListPredictions(ctx, &contractservice.ListPredictions{
		Model:           alpha.ID,
		PredictDateFrom: "2024-01-10",
		PredictDateTo:   "2024-01-21",
	})
	require.Nil(t, err)
	assert.Equal(t, int64(2), page.Count)

	dates := make([]string, 0, len(page.Items))
	for _, item := range page.Items {
		dates = append(dates, item.PredictDate)
	}

	assert.ElementsMatch(t, []string{"2024-01-14", "2024-01-21"}, dates)
}

func TestListLanguages(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	languages, err := f.service.ListLanguages(context.Background())
	require.Nil(t, err)
	assert.Equal(t, []entities.ImplementationLanguage{
		{ID: 2, Language: "PyPy"},
		{ID: 1, Language: "Python"},
		{ID: 3, Language: "Rust"},
	}, languages)
}
