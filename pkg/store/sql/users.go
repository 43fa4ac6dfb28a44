package sql

import (
	"context"
	"fmt"

	"github.com/prediction-registry/registry/pkg/contract"
	"github.com/prediction-registry/registry/pkg/entities"
	"github.com/prediction-registry/registry/pkg/store"
	"github.com/prediction-registry/registry/pkg/store/sql/model"
)

func (s *Store) CreateUser(ctx context.Context, input *store.UserInput) (*entities.User, *contract.Error) {
	user := model.User{
		Username:   input.Username,
		Name:       input.Name,
		APIKeyHash: input.APIKeyHash,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, contract.NewError(
				contract.RESOURCE_ALREADY_EXISTS,
				fmt.Sprintf("User %s already exists", input.Username),
			)
		}

		return nil, contract.NewErrorWith(contract.INTERNAL_ERROR, "failed to create user", err)
	}

	return user.ToEntity(), nil
}

func (s *Store) GetUserCredential(ctx context.Context, username string) (*entities.User, string, *contract.Error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, "", notFoundOr(
			err,
			contract.NewError(contract.RESOURCE_DOES_NOT_EXIST, "User not found"),
			"failed to get user",
		)
	}

	return user.ToEntity(), user.APIKeyHash, nil
}

func (s *Store) SetUserAPIKeyHash(ctx context.Context, username, hash string) *contract.Error {
	result := s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("username = ?", username).
		Update("api_key_hash", hash)
	if result.Error != nil {
		return contract.NewErrorWith(contract.INTERNAL_ERROR, "failed to update user", result.Error)
	}

	if result.RowsAffected != 1 {
		return contract.NewError(contract.RESOURCE_DOES_NOT_EXIST, "User not found")
	}

	return nil
}
