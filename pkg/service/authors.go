package service

import (
	"context"
	"fmt"

	"github.com/prediction-registry/registry/pkg/auth"
	"github.com/prediction-registry/registry/pkg/contract"
	"github.com/prediction-registry/registry/pkg/contract/service"
	"github.com/prediction-registry/registry/pkg/entities"
	"github.com/prediction-registry/registry/pkg/query"
	"github.com/prediction-registry/registry/pkg/utils"
	"github.com/prediction-registry/registry/pkg/validation"
)

// ListAuthors implements RegistryService.
func (r *RegistryService) ListAuthors(ctx context.Context, input *service.ListAuthors) ([]*entities.Author, *contract.Error) {
	var params []param
	if input.Name != "" {
		params = append(params, contains("name", input.Name))
	}

	conditions, err := listConditions(query.AuthorSchema, input.Filter, params...)
	if err != nil {
		return nil, err
	}

	return r.store.ListAuthors(ctx, conditions)
}

// GetAuthor implements RegistryService.
func (r *RegistryService) GetAuthor(ctx context.Context, input *service.GetAuthor) (*entities.Author, *contract.Error) {
	return r.store.GetAuthor(ctx, input.Username)
}

// ownedAuthor looks the author up and checks that the principal owns it.
func (r *RegistryService) ownedAuthor(
	ctx context.Context,
	principal auth.Principal,
	username, action string,
) (*entities.Author, *contract.Error) {
	author, cErr := r.store.GetAuthor(ctx, username)
	if cErr != nil {
		return nil, cErr
	}

	if err := auth.Authorize(principal, auth.Principal{UserID: author.UserID}); err != nil {
		return nil, permissionDenied(action, "author")
	}

	return author, nil
}

// AuthorizeAuthorUpdate implements RegistryService.
func (r *RegistryService) AuthorizeAuthorUpdate(
	ctx context.Context,
	principal auth.Principal,
	input *service.GetAuthor,
) *contract.Error {
	_, cErr := r.ownedAuthor(ctx, principal, input.Username, "update")

	return cErr
}

// UpdateAuthor implements RegistryService. Only the institution can change.
func (r *RegistryService) UpdateAuthor(
	ctx context.Context,
	principal auth.Principal,
	input *service.UpdateAuthor,
) (*entities.Author, *contract.Error) {
	if _, cErr := r.ownedAuthor(ctx, principal, input.Username, "update"); cErr != nil {
		return nil, cErr
	}

	institution, err := validation.CleanInstitution(utils.Deref(input.Institution), validation.DefaultMaxInstitutionLength)
	if err != nil {
		return nil, invalidParameter(err)
	}

	return r.store.UpdateAuthorInstitution(ctx, input.Username, institution)
}

// DeleteAuthor implements RegistryService. The author's models and their
// predictions go with it.
func (r *RegistryService) DeleteAuthor(
	ctx context.Context,
	principal auth.Principal,
	input *service.DeleteAuthor,
) (*contract.Message, *contract.Error) {
	author, cErr := r.ownedAuthor(ctx, principal, input.Username, "delete")
	if cErr != nil {
		return nil, cErr
	}

	if cErr := r.store.DeleteAuthor(ctx, input.Username); cErr != nil {
		return nil, cErr
	}

	return &contract.Message{Message: fmt.Sprintf("Author '%s' deleted successfully", author.Name)}, nil
}
