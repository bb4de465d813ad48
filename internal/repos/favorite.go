package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/foodgram-backend/internal/logger"
	"github.com/foodgram/foodgram-backend/internal/types"
)

type FavoriteRepo interface {
	// Create relies on the (user_id, recipe_id) unique index to arbitrate
	// concurrent duplicate inserts; callers check gorm.ErrDuplicatedKey.
	Create(ctx context.Context, tx *gorm.DB, favorite *types.Favorite) (*types.Favorite, error)
	Delete(ctx context.Context, tx *gorm.DB, userID, recipeID uuid.UUID) (bool, error)
	GetRecipeIDSet(ctx context.Context, tx *gorm.DB, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]struct{}, error)
}

type favoriteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFavoriteRepo(db *gorm.DB, baseLog *logger.Logger) FavoriteRepo {
	repoLog := baseLog.With("repo", "FavoriteRepo")
	return &favoriteRepo{db: db, log: repoLog}
}

func (fr *favoriteRepo) Create(ctx context.Context, tx *gorm.DB, favorite *types.Favorite) (*types.Favorite, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	if err := transaction.WithContext(ctx).Create(favorite).Error; err != nil {
		return nil, err
	}
	return favorite, nil
}

func (fr *favoriteRepo) Delete(ctx context.Context, tx *gorm.DB, userID, recipeID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	result := transaction.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&types.Favorite{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (fr *favoriteRepo) GetRecipeIDSet(ctx context.Context, tx *gorm.DB, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	set := make(map[uuid.UUID]struct{}, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return set, nil
	}

	var ids []uuid.UUID
	if err := transaction.WithContext(ctx).
		Model(&types.Favorite{}).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}
