package sql

import (
	"context"
	"fmt"

	"github.com/prediction-registry/registry/pkg/contract"
	"github.com/prediction-registry/registry/pkg/entities"
	"github.com/prediction-registry/registry/pkg/store/sql/model"
)

func (s *Store) ListLanguages(ctx context.Context) ([]entities.ImplementationLanguage, *contract.Error) {
	var rows []model.ImplementationLanguage
	if err := s.db.WithContext(ctx).Order("language ASC").Find(&rows).Error; err != nil {
		return nil, contract.NewErrorWith(contract.INTERNAL_ERROR, "failed to list implementation languages", err)
	}

	languages := make([]entities.ImplementationLanguage, 0, len(rows))
	for _, row := range rows {
		languages = append(languages, row.ToEntity())
	}

	return languages, nil
}

func (s *Store) CreateLanguage(ctx context.Context, language string) (*entities.ImplementationLanguage, *contract.Error) {
	row := model.ImplementationLanguage{Language: language}

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, contract.NewError(
				contract.RESOURCE_ALREADY_EXISTS,
				fmt.Sprintf("Language %s already exists", language),
			)
		}

		return nil, contract.NewErrorWith(contract.INTERNAL_ERROR, "failed to create implementation language", err)
	}

	entity := row.ToEntity()

	return &entity, nil
}
