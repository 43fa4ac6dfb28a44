package service

import (
	"context"
	"encoding/json"

	"github.com/prediction-registry/registry/pkg/auth"
	"github.com/prediction-registry/registry/pkg/contract"
	"github.com/prediction-registry/registry/pkg/entities"
	"github.com/prediction-registry/registry/pkg/store"
)

// RegistryService is the API of the registry. Mutating operations receive the
// authenticated principal explicitly.
type RegistryService interface {
	ListAuthors(ctx context.Context, input *ListAuthors) ([]*entities.Author, *contract.Error)
	GetAuthor(ctx context.Context, input *GetAuthor) (*entities.Author, *contract.Error)
	// AuthorizeAuthorUpdate checks that the author exists and belongs to the
	// principal, before the update body is read.
	AuthorizeAuthorUpdate(ctx context.Context, principal auth.Principal, input *GetAuthor) *contract.Error
	UpdateAuthor(ctx context.Context, principal auth.Principal, input *UpdateAuthor) (*entities.Author, *contract.Error)
	DeleteAuthor(ctx context.Context, principal auth.Principal, input *DeleteAuthor) (*contract.Message, *contract.Error)

	ListModels(ctx context.Context, input *ListModels) (*store.PagedList[*entities.Model], *contract.Error)
	GetModel(ctx context.Context, input *GetModel) (*entities.Model, *contract.Error)
	CreateModel(ctx context.Context, principal auth.Principal, input *CreateModel) (*entities.Model, *contract.Error)
	DeleteModel(ctx context.Context, principal auth.Principal, input *DeleteModel) *contract.Error

	ListPredictions(
		ctx context.Context, input *ListPredictions,
	) (*store.PagedList[*entities.Prediction], *contract.Error)
	GetPrediction(ctx context.Context, input *GetPrediction) (*entities.Prediction, *contract.Error)
	CreatePrediction(
		ctx context.Context, principal auth.Principal, input *PredictionInput,
	) (*entities.Prediction, *contract.Error)
	AuthorizePredictionUpdate(ctx context.Context, principal auth.Principal, input *GetPrediction) *contract.Error
	UpdatePrediction(
		ctx context.Context, principal auth.Principal, input *UpdatePrediction,
	) (*entities.Prediction, *contract.Error)
	DeletePrediction(ctx context.Context, principal auth.Principal, input *DeletePrediction) *contract.Error

	ListLanguages(ctx context.Context) ([]entities.ImplementationLanguage, *contract.Error)
}

type ListAuthors struct {
	Name   string `query:"name"`
	Filter string `query:"filter"`
}

type GetAuthor struct {
	Username string `params:"username" validate:"required"`
}

type UpdateAuthor struct {
	Username    string  `json:"-"           params:"username" validate:"required"`
	Institution *string `json:"institution"`
}

type DeleteAuthor struct {
	Username string `params:"username" validate:"required"`
}

type Pagination struct {
	Page     int `query:"page"      validate:"omitempty,gte=1"`
	PageSize int `query:"page_size" validate:"omitempty,gte=1"`
}

type ListModels struct {
	Pagination
	Name                   string `query:"name"`
	ImplementationLanguage string `query:"implementation_language"`
	Type                   string `query:"type"`
	Filter                 string `query:"filter"`
}

type GetModel struct {
	ID int32 `params:"id" validate:"positiveInteger"`
}

type CreateModel struct {
	Name                   string `json:"name"                    validate:"required,max=100"`
	Description            string `json:"description"`
	Repository             string `json:"repository"`
	ImplementationLanguage string `json:"implementation_language" validate:"required"`
	Type                   string `json:"type"                    validate:"required,max=100"`
}

type DeleteModel struct {
	ID int32 `params:"id" validate:"positiveInteger"`
}

type ListPredictions struct {
	Pagination
	Model           int32  `query:"model"             validate:"omitempty,positiveInteger"`
	PredictDateFrom string `query:"predict_date_from" validate:"omitempty,isoDate"`
	PredictDateTo   string `query:"predict_date_to"   validate:"omitempty,isoDate"`
	Filter          string `query:"filter"`
}

type GetPrediction struct {
	ID int32 `params:"id" validate:"positiveInteger"`
}

// PredictionInput is the body of prediction create and update requests.
type PredictionInput struct {
	Model       int32           `json:"model"        validate:"positiveInteger"`
	Description string          `json:"description"`
	Commit      string          `json:"commit"       validate:"max=100"`
	PredictDate string          `json:"predict_date" validate:"required,isoDate"`
	Prediction  json.RawMessage `json:"prediction"   validate:"jsonValue"`
}

type UpdatePrediction struct {
	PredictionInput
	ID int32 `json:"-" params:"id" validate:"positiveInteger"`
}

type DeletePrediction struct {
	ID int32 `params:"id" validate:"positiveInteger"`
}
