package service

import (
	"context"
	"errors"

	"github.com/prediction-registry/registry/pkg/auth"
	"github.com/prediction-registry/registry/pkg/contract"
	"github.com/prediction-registry/registry/pkg/contract/service"
	"github.com/prediction-registry/registry/pkg/entities"
	"github.com/prediction-registry/registry/pkg/query"
	"github.com/prediction-registry/registry/pkg/query/parser"
	"github.com/prediction-registry/registry/pkg/store"
	"github.com/prediction-registry/registry/pkg/validation"
)

// ListModels implements RegistryService.
func (r *RegistryService) ListModels(
	ctx context.Context,
	input *service.ListModels,
) (*store.PagedList[*entities.Model], *contract.Error) {
	var params []param
	if input.Name != "" {
		params = append(params, contains("name", input.Name))
	}

	if input.ImplementationLanguage != "" {
		params = append(params, equalsIgnoringCase("implementation_language", input.ImplementationLanguage))
	}

	if input.Type != "" {
		params = append(params, param{key: "type", operator: parser.Equals, value: parser.StringExpr{Value: input.Type}})
	}

	conditions, err := listConditions(query.ModelSchema, input.Filter, params...)
	if err != nil {
		return nil, err
	}

	return r.store.ListModels(ctx, r.listOptions(input.Pagination, conditions))
}

// GetModel implements RegistryService.
func (r *RegistryService) GetModel(ctx context.Context, input *service.GetModel) (*entities.Model, *contract.Error) {
	return r.store.GetModel(ctx, input.ID)
}

// CreateModel implements RegistryService. The owning author is always the
// caller's.
func (r *RegistryService) CreateModel(
	ctx context.Context,
	principal auth.Principal,
	input *service.CreateModel,
) (*entities.Model, *contract.Error) {
	if principal.IsAnonymous() {
		return nil, unauthenticated()
	}

	if _, cErr := r.store.GetAuthorByUserID(ctx, principal.UserID); cErr != nil {
		return nil, cErr
	}

	if err := validation.ValidateDescription(input.Description, r.config.MaxDescriptionLength); err != nil {
		return nil, invalidParameter(err)
	}

	if err := validation.ValidateRepository(input.Repository, r.config.AllowedRepositoryHosts); err != nil {
		if errors.Is(err, validation.ErrInvalidRepository) {
			return nil, contract.NewErrorWith(
				contract.INVALID_PARAMETER_VALUE, validation.ErrInvalidRepository.Error(), err,
			)
		}

		return nil, invalidParameter(err)
	}

	vocabulary, cErr := r.store.ListLanguages(ctx)
	if cErr != nil {
		return nil, cErr
	}

	language, err := validation.ResolveLanguage(input.ImplementationLanguage, vocabulary)
	if err != nil {
		return nil, contract.NewErrorWith(contract.RESOURCE_DOES_NOT_EXIST, err.Error(), err)
	}

	return r.store.CreateModel(ctx, &store.ModelInput{
		Name:                     input.Name,
		Description:              input.Description,
		Repository:               input.Repository,
		ImplementationLanguageID: language.ID,
		Type:                     input.Type,
		OwnerID:                  principal.UserID,
	})
}

// DeleteModel implements RegistryService. Predictions of the model are
// deleted with it.
func (r *RegistryService) DeleteModel(
	ctx context.Context,
	principal auth.Principal,
	input *service.DeleteModel,
) *contract.Error {
	model, cErr := r.store.GetModel(ctx, input.ID)
	if cErr != nil {
		return cErr
	}

	if err := auth.Authorize(principal, auth.Principal{UserID: model.OwnerID}); err != nil {
		return permissionDenied("delete", "Model")
	}

	return r.store.DeleteModel(ctx, input.ID)
}
