package sql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/prediction-registry/registry/pkg/contract"
	"github.com/prediction-registry/registry/pkg/entities"
	"github.com/prediction-registry/registry/pkg/store"
	"github.com/prediction-registry/registry/pkg/store/sql/model"
)

func modelNotFound() *contract.Error {
	return contract.NewError(contract.RESOURCE_DOES_NOT_EXIST, "Model not found")
}

func preloadModel(transaction *gorm.DB) *gorm.DB {
	return transaction.Preload("Author.User").Preload("ImplementationLanguage")
}

func (s *Store) ListModels(
	ctx context.Context,
	options *store.ListOptions,
) (*store.PagedList[*entities.Model], *contract.Error) {
	transaction := s.db.WithContext(ctx).
		Model(&model.Model{}).
		Joins("JOIN implementation_languages ON implementation_languages.id = models.implementation_language_id").
		Joins("JOIN authors ON authors.id = models.author_id").
		Joins("JOIN users ON users.id = authors.user_id")
	transaction = applyConditions(transaction, options.Conditions).Session(&gorm.Session{})

	page, count, pages, err := paginate(transaction, options)
	if err != nil {
		return nil, contract.NewErrorWith(contract.INTERNAL_ERROR, "failed to list models", err)
	}

	var rows []model.Model
	if err := preloadModel(page).
		Select("models.*").
		Order("models.updated DESC").
		Order("models.id DESC").
		Find(&rows).Error; err != nil {
		return nil, contract.NewErrorWith(contract.INTERNAL_ERROR, "failed to list models", err)
	}

	models := make([]*entities.Model, 0, len(rows))
	for _, row := range rows {
		models = append(models, row.ToEntity())
	}

	return &store.PagedList[*entities.Model]{Items: models, Count: count, Pages: pages}, nil
}

func (s *Store) GetModel(ctx context.Context, id int32) (*entities.Model, *contract.Error) {
	var row model.Model
	if err := preloadModel(s.db.WithContext(ctx)).First(&row, id).Error; err != nil {
		return nil, notFoundOr(err, modelNotFound(), "failed to get model")
	}

	return row.ToEntity(), nil
}

func (s *Store) CreateModel(ctx context.Context, input *store.ModelInput) (*entities.Model, *contract.Error) {
	row := model.Model{
		Name:                     input.Name,
		Description:              input.Description,
		Repository:               input.Repository,
		ImplementationLanguageID: input.ImplementationLanguageID,
		Type:                     input.Type,
	}

	if err := s.db.WithContext(ctx).Transaction(func(transaction *gorm.DB) error {
		var author model.Author
		if err := transaction.Where("user_id = ?", input.OwnerID).First(&author).Error; err != nil {
			return err
		}

		row.AuthorID = author.ID

		// Omit associations, they are only read back.
		if err := transaction.Omit(clause.Associations).Create(&row).Error; err != nil {
			return fmt.Errorf("failed to insert model: %w", err)
		}

		return nil
	}); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, authorNotFound()
		case isDuplicateKey(err):
			return nil, contract.NewError(
				contract.RESOURCE_ALREADY_EXISTS,
				fmt.Sprintf("Model %s already exists", input.Name),
			)
		default:
			return nil, contract.NewErrorWith(contract.INTERNAL_ERROR, "failed to create model", err)
		}
	}

	return s.GetModel(ctx, row.ID)
}

func (s *Store) DeleteModel(ctx context.Context, id int32) *contract.Error {
	if err := s.db.WithContext(ctx).Transaction(func(transaction *gorm.DB) error {
		if err := transaction.Where("model_id = ?", id).Delete(&model.Prediction{}).Error; err != nil {
			return fmt.Errorf("failed to delete predictions of model %d: %w", id, err)
		}

		result := transaction.Delete(&model.Model{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete model %d: %w", id, result.Error)
		}

		if result.RowsAffected != 1 {
			return gorm.ErrRecordNotFound
		}

		return nil
	}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return modelNotFound()
		}

		return contract.NewErrorWith(contract.INTERNAL_ERROR, "failed to delete model", err)
	}

	return nil
}
