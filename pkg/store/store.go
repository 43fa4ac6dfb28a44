package store

import (
	"context"
	"encoding/json"

	"github.com/prediction-registry/registry/pkg/contract"
	"github.com/prediction-registry/registry/pkg/entities"
	"github.com/prediction-registry/registry/pkg/query"
)

type RegistryStore interface {
	UserStore
	AuthorStore
	LanguageStore
	ModelStore
	PredictionStore
}

type UserStore interface {
	CreateUser(ctx context.Context, input *UserInput) (*entities.User, *contract.Error)
	// GetUserCredential returns the user together with its API key hash.
	GetUserCredential(ctx context.Context, username string) (*entities.User, string, *contract.Error)
	SetUserAPIKeyHash(ctx context.Context, username, hash string) *contract.Error
}

type AuthorStore interface {
	CreateAuthor(ctx context.Context, userID int32, institution *string) (*entities.Author, *contract.Error)
	// ListAuthors only returns authors owning at least one model.
	ListAuthors(ctx context.Context, conditions []*query.Condition) ([]*entities.Author, *contract.Error)
	GetAuthor(ctx context.Context, username string) (*entities.Author, *contract.Error)
	GetAuthorByUserID(ctx context.Context, userID int32) (*entities.Author, *contract.Error)
	UpdateAuthorInstitution(ctx context.Context, username string, institution *string) (*entities.Author, *contract.Error)
	// DeleteAuthor removes the author, its models and their predictions.
	// The user account is kept.
	DeleteAuthor(ctx context.Context, username string) *contract.Error
}

type LanguageStore interface {
	// ListLanguages returns the vocabulary in ascending language order.
	ListLanguages(ctx context.Context) ([]entities.ImplementationLanguage, *contract.Error)
	CreateLanguage(ctx context.Context, language string) (*entities.ImplementationLanguage, *contract.Error)
}

type ModelStore interface {
	ListModels(ctx context.Context, options *ListOptions) (*PagedList[*entities.Model], *contract.Error)
	GetModel(ctx context.Context, id int32) (*entities.Model, *contract.Error)
	CreateModel(ctx context.Context, input *ModelInput) (*entities.Model, *contract.Error)
	// DeleteModel removes the model and its predictions.
	DeleteModel(ctx context.Context, id int32) *contract.Error
}

type PredictionStore interface {
	ListPredictions(ctx context.Context, options *ListOptions) (*PagedList[*entities.Prediction], *contract.Error)
	GetPrediction(ctx context.Context, id int32) (*entities.Prediction, *contract.Error)
	CreatePrediction(ctx context.Context, input *PredictionInput) (*entities.Prediction, *contract.Error)
	// UpdatePrediction replaces every writable field of the prediction.
	UpdatePrediction(ctx context.Context, id int32, input *PredictionInput) (*entities.Prediction, *contract.Error)
	DeletePrediction(ctx context.Context, id int32) *contract.Error
}

type UserInput struct {
	Username   string
	Name       string
	APIKeyHash string
}

type ModelInput struct {
	Name                     string
	Description              string
	Repository               string
	ImplementationLanguageID int32
	Type                     string
	// OwnerID is the user whose author will own the model.
	OwnerID int32
}

type PredictionInput struct {
	ModelID     int32
	Description string
	Commit      string
	// PredictDate is formatted as entities.DateLayout.
	PredictDate string
	Prediction  json.RawMessage
}

type ListOptions struct {
	Conditions []*query.Condition
	// Page starts at 1.
	Page     int
	PageSize int
}

type PagedList[T any] struct {
	Items []T   `json:"items"`
	Count int64 `json:"count"`
	Pages int   `json:"pages"`
}
