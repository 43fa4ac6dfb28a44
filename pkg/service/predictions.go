package service

import (
	"context"

	"github.com/prediction-registry/registry/pkg/auth"
	"github.com/prediction-registry/registry/pkg/contract"
	"github.com/prediction-registry/registry/pkg/contract/service"
	"github.com/prediction-registry/registry/pkg/entities"
	"github.com/prediction-registry/registry/pkg/query"
	"github.com/prediction-registry/registry/pkg/query/parser"
	"github.com/prediction-registry/registry/pkg/store"
	"github.com/prediction-registry/registry/pkg/validation"
)

// ListPredictions implements RegistryService.
func (r *RegistryService) ListPredictions(
	ctx context.Context,
	input *service.ListPredictions,
) (*store.PagedList[*entities.Prediction], *contract.Error) {
	var params []param
	if input.Model != 0 {
		params = append(params, param{
			key: "model", operator: parser.Equals, value: parser.NumberExpr{Value: float64(input.Model)},
		})
	}

	if input.PredictDateFrom != "" {
		params = append(params, param{
			key: "predict_date", operator: parser.GreaterEquals, value: parser.StringExpr{Value: input.PredictDateFrom},
		})
	}

	if input.PredictDateTo != "" {
		params = append(params, param{
			key: "predict_date", operator: parser.LessEquals, value: parser.StringExpr{Value: input.PredictDateTo},
		})
	}

	conditions, err := listConditions(query.PredictionSchema, input.Filter, params...)
	if err != nil {
		return nil, err
	}

	return r.store.ListPredictions(ctx, r.listOptions(input.Pagination, conditions))
}

// GetPrediction implements RegistryService.
func (r *RegistryService) GetPrediction(
	ctx context.Context,
	input *service.GetPrediction,
) (*entities.Prediction, *contract.Error) {
	return r.store.GetPrediction(ctx, input.ID)
}

// predictionInput validates a prediction body and converts it for the store.
func (r *RegistryService) predictionInput(input *service.PredictionInput) (*store.PredictionInput, *contract.Error) {
	if err := validation.ValidateDescription(input.Description, r.config.MaxDescriptionLength); err != nil {
		return nil, invalidParameter(err)
	}

	predictDate, cErr := normalizeDate(input.PredictDate)
	if cErr != nil {
		return nil, cErr
	}

	payload, err := canonicalPayload(input.Prediction)
	if err != nil {
		return nil, invalidParameter(err)
	}

	return &store.PredictionInput{
		ModelID:     input.Model,
		Description: input.Description,
		Commit:      input.Commit,
		PredictDate: predictDate,
		Prediction:  payload,
	}, nil
}

// CreatePrediction implements RegistryService. Any authenticated user may
// predict with any model.
func (r *RegistryService) CreatePrediction(
	ctx context.Context,
	principal auth.Principal,
	input *service.PredictionInput,
) (*entities.Prediction, *contract.Error) {
	if principal.IsAnonymous() {
		return nil, unauthenticated()
	}

	storeInput, cErr := r.predictionInput(input)
	if cErr != nil {
		return nil, cErr
	}

	return r.store.CreatePrediction(ctx, storeInput)
}

// ownedPrediction looks the prediction up and checks that the principal owns
// its model.
func (r *RegistryService) ownedPrediction(
	ctx context.Context,
	principal auth.Principal,
	id int32,
	action string,
) (*entities.Prediction, *contract.Error) {
	prediction, cErr := r.store.GetPrediction(ctx, id)
	if cErr != nil {
		return nil, cErr
	}

	if err := auth.Authorize(principal, auth.Principal{UserID: prediction.OwnerID}); err != nil {
		return nil, permissionDenied(action, "prediction")
	}

	return prediction, nil
}

// AuthorizePredictionUpdate implements RegistryService.
func (r *RegistryService) AuthorizePredictionUpdate(
	ctx context.Context,
	principal auth.Principal,
	input *service.GetPrediction,
) *contract.Error {
	_, cErr := r.ownedPrediction(ctx, principal, input.ID, "update")

	return cErr
}

// UpdatePrediction implements RegistryService. The body replaces the stored
// prediction. Moving it to another model is not checked against the owner of
// that model.
func (r *RegistryService) UpdatePrediction(
	ctx context.Context,
	principal auth.Principal,
	input *service.UpdatePrediction,
) (*entities.Prediction, *contract.Error) {
	if _, cErr := r.ownedPrediction(ctx, principal, input.ID, "update"); cErr != nil {
		return nil, cErr
	}

	storeInput, cErr := r.predictionInput(&input.PredictionInput)
	if cErr != nil {
		return nil, cErr
	}

	return r.store.UpdatePrediction(ctx, input.ID, storeInput)
}

// DeletePrediction implements RegistryService.
func (r *RegistryService) DeletePrediction(
	ctx context.Context,
	principal auth.Principal,
	input *service.DeletePrediction,
) *contract.Error {
	if _, cErr := r.ownedPrediction(ctx, principal, input.ID, "delete"); cErr != nil {
		return cErr
	}

	return r.store.DeletePrediction(ctx, input.ID)
}
