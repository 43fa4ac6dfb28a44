package sql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/prediction-registry/registry/pkg/contract"
	"github.com/prediction-registry/registry/pkg/entities"
	"github.com/prediction-registry/registry/pkg/query"
	"github.com/prediction-registry/registry/pkg/store/sql/model"
)

const authorModelsCount = "(SELECT COUNT(*) FROM models WHERE models.author_id = authors.id)"

func authorNotFound() *contract.Error {
	return contract.NewError(contract.RESOURCE_DOES_NOT_EXIST, "Author not found")
}

// authors selects author rows joined with their user, along with the number
// of models each one owns.
func (s *Store) authors(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&model.Author{}).
		Joins("JOIN users ON users.id = authors.user_id").
		Select("authors.*, " + authorModelsCount + " AS models_count").
		Preload("User")
}

func userIDByUsername(database *gorm.DB, username string) *gorm.DB {
	return database.Model(&model.User{}).Select("id").Where("username = ?", username)
}

func (s *Store) CreateAuthor(ctx context.Context, userID int32, institution *string) (*entities.Author, *contract.Error) {
	author := model.Author{UserID: userID, Institution: institution}

	if err := s.db.WithContext(ctx).Create(&author).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, contract.NewError(contract.RESOURCE_ALREADY_EXISTS, "Author already exists for this user")
		}

		return nil, contract.NewErrorWith(contract.INTERNAL_ERROR, "failed to create author", err)
	}

	return s.getAuthor(ctx, "authors.id = ?", author.ID)
}

func (s *Store) ListAuthors(ctx context.Context, conditions []*query.Condition) ([]*entities.Author, *contract.Error) {
	transaction := s.authors(ctx).
		Where("EXISTS (SELECT 1 FROM models WHERE models.author_id = authors.id)")
	transaction = applyConditions(transaction, conditions)

	var rows []model.Author
	if err := transaction.Order("authors.updated DESC").Order("authors.id DESC").Find(&rows).Error; err != nil {
		return nil, contract.NewErrorWith(contract.INTERNAL_ERROR, "failed to list authors", err)
	}

	authors := make([]*entities.Author, 0, len(rows))
	for _, row := range rows {
		authors = append(authors, row.ToEntity())
	}

	return authors, nil
}

func (s *Store) GetAuthor(ctx context.Context, username string) (*entities.Author, *contract.Error) {
	return s.getAuthor(ctx, "users.username = ?", username)
}

func (s *Store) GetAuthorByUserID(ctx context.Context, userID int32) (*entities.Author, *contract.Error) {
	return s.getAuthor(ctx, "authors.user_id = ?", userID)
}

func (s *Store) getAuthor(ctx context.Context, where string, arg interface{}) (*entities.Author, *contract.Error) {
	var author model.Author
	if err := s.authors(ctx).Where(where, arg).First(&author).Error; err != nil {
		return nil, notFoundOr(err, authorNotFound(), "failed to get author")
	}

	return author.ToEntity(), nil
}

func (s *Store) UpdateAuthorInstitution(
	ctx context.Context,
	username string,
	institution *string,
) (*entities.Author, *contract.Error) {
	result := s.db.WithContext(ctx).
		Model(&model.Author{}).
		Where("user_id = (?)", userIDByUsername(s.db.WithContext(ctx), username)).
		Updates(map[string]interface{}{"institution": institution})
	if result.Error != nil {
		return nil, contract.NewErrorWith(contract.INTERNAL_ERROR, "failed to update author", result.Error)
	}

	if result.RowsAffected != 1 {
		return nil, authorNotFound()
	}

	return s.GetAuthor(ctx, username)
}

func (s *Store) DeleteAuthor(ctx context.Context, username string) *contract.Error {
	if err := s.db.WithContext(ctx).Transaction(func(transaction *gorm.DB) error {
		var author model.Author
		if err := transaction.
			Where("user_id = (?)", userIDByUsername(transaction, username)).
			First(&author).Error; err != nil {
			return err
		}

		models := transaction.Model(&model.Model{}).Select("id").Where("author_id = ?", author.ID)

		if err := transaction.Where("model_id IN (?)", models).Delete(&model.Prediction{}).Error; err != nil {
			return fmt.Errorf("failed to delete predictions of author %q: %w", username, err)
		}

		if err := transaction.Where("author_id = ?", author.ID).Delete(&model.Model{}).Error; err != nil {
			return fmt.Errorf("failed to delete models of author %q: %w", username, err)
		}

		result := transaction.Delete(&author)
		if result.Error != nil {
			return fmt.Errorf("failed to delete author %q: %w", username, result.Error)
		}

		if result.RowsAffected != 1 {
			return gorm.ErrRecordNotFound
		}

		return nil
	}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return authorNotFound()
		}

		return contract.NewErrorWith(contract.INTERNAL_ERROR, "failed to delete author", err)
	}

	return nil
}
