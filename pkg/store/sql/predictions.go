package sql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/prediction-registry/registry/pkg/contract"
	"github.com/prediction-registry/registry/pkg/entities"
	"github.com/prediction-registry/registry/pkg/store"
	"github.com/prediction-registry/registry/pkg/store/sql/model"
)

var errModelMissing = errors.New("referenced model does not exist")

func predictionNotFound() *contract.Error {
	return contract.NewError(contract.RESOURCE_DOES_NOT_EXIST, "Prediction not found")
}

func referencedModelNotFound(id int32) *contract.Error {
	return contract.NewError(contract.RESOURCE_DOES_NOT_EXIST, fmt.Sprintf("Model '%d' not found", id))
}

func (s *Store) ListPredictions(
	ctx context.Context,
	options *store.ListOptions,
) (*store.PagedList[*entities.Prediction], *contract.Error) {
	transaction := applyConditions(
		s.db.WithContext(ctx).Model(&model.Prediction{}),
		options.Conditions,
	).Session(&gorm.Session{})

	page, count, pages, err := paginate(transaction, options)
	if err != nil {
		return nil, contract.NewErrorWith(contract.INTERNAL_ERROR, "failed to list predictions", err)
	}

	var rows []model.Prediction
	if err := page.
		Preload("Model.Author").
		Order("predictions.updated DESC").
		Order("predictions.id DESC").
		Find(&rows).Error; err != nil {
		return nil, contract.NewErrorWith(contract.INTERNAL_ERROR, "failed to list predictions", err)
	}

	predictions := make([]*entities.Prediction, 0, len(rows))
	for _, row := range rows {
		predictions = append(predictions, row.ToEntity())
	}

	return &store.PagedList[*entities.Prediction]{Items: predictions, Count: count, Pages: pages}, nil
}

func (s *Store) GetPrediction(ctx context.Context, id int32) (*entities.Prediction, *contract.Error) {
	var row model.Prediction
	if err := s.db.WithContext(ctx).Preload("Model.Author").First(&row, id).Error; err != nil {
		return nil, notFoundOr(err, predictionNotFound(), "failed to get prediction")
	}

	return row.ToEntity(), nil
}

// applyPredictionInput copies every writable field, a prediction update is a
// full replacement.
func applyPredictionInput(row *model.Prediction, input *store.PredictionInput) {
	row.ModelID = input.ModelID
	row.Description = input.Description
	row.Commit = input.Commit
	row.PredictDate = input.PredictDate
	row.Prediction = datatypes.JSON(input.Prediction)
}

func modelExists(transaction *gorm.DB, id int32) error {
	var count int64
	if err := transaction.Model(&model.Model{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up model %d: %w", id, err)
	}

	if count == 0 {
		return errModelMissing
	}

	return nil
}

func (s *Store) CreatePrediction(ctx context.Context, input *store.PredictionInput) (*entities.Prediction, *contract.Error) {
	var row model.Prediction

	applyPredictionInput(&row, input)

	if err := s.db.WithContext(ctx).Transaction(func(transaction *gorm.DB) error {
		if err := modelExists(transaction, input.ModelID); err != nil {
			return err
		}

		if err := transaction.Omit(clause.Associations).Create(&row).Error; err != nil {
			return fmt.Errorf("failed to insert prediction: %w", err)
		}

		return nil
	}); err != nil {
		if errors.Is(err, errModelMissing) {
			return nil, referencedModelNotFound(input.ModelID)
		}

		return nil, contract.NewErrorWith(contract.INTERNAL_ERROR, "failed to create prediction", err)
	}

	return s.GetPrediction(ctx, row.ID)
}

func (s *Store) UpdatePrediction(
	ctx context.Context,
	id int32,
	input *store.PredictionInput,
) (*entities.Prediction, *contract.Error) {
	if err := s.db.WithContext(ctx).Transaction(func(transaction *gorm.DB) error {
		var row model.Prediction
		if err := transaction.First(&row, id).Error; err != nil {
			return err
		}

		if err := modelExists(transaction, input.ModelID); err != nil {
			return err
		}

		applyPredictionInput(&row, input)

		if err := transaction.Omit(clause.Associations).Save(&row).Error; err != nil {
			return fmt.Errorf("failed to update prediction %d: %w", id, err)
		}

		return nil
	}); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, predictionNotFound()
		case errors.Is(err, errModelMissing):
			return nil, referencedModelNotFound(input.ModelID)
		default:
			return nil, contract.NewErrorWith(contract.INTERNAL_ERROR, "failed to update prediction", err)
		}
	}

	return s.GetPrediction(ctx, id)
}

func (s *Store) DeletePrediction(ctx context.Context, id int32) *contract.Error {
	result := s.db.WithContext(ctx).Delete(&model.Prediction{}, id)
	if result.Error != nil {
		return contract.NewErrorWith(contract.INTERNAL_ERROR, "failed to delete prediction", result.Error)
	}

	if result.RowsAffected != 1 {
		return predictionNotFound()
	}

	return nil
}
