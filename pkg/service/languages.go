package service

import (
	"context"

	"github.com/prediction-registry/registry/pkg/contract"
	"github.com/prediction-registry/registry/pkg/entities"
)

// ListLanguages implements RegistryService.
func (r *RegistryService) ListLanguages(ctx context.Context) ([]entities.ImplementationLanguage, *contract.Error) {
	return r.store.ListLanguages(ctx)
}
