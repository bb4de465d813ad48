package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/foodgram-backend/internal/logger"
	"github.com/foodgram/foodgram-backend/internal/types"
)

type ShoppingCartRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entry *types.ShoppingCart) (*types.ShoppingCart, error)
	Delete(ctx context.Context, tx *gorm.DB, userID, recipeID uuid.UUID) (bool, error)
	GetRecipeIDSet(ctx context.Context, tx *gorm.DB, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]struct{}, error)
}

type shoppingCartRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewShoppingCartRepo(db *gorm.DB, baseLog *logger.Logger) ShoppingCartRepo {
	repoLog := baseLog.With("repo", "ShoppingCartRepo")
	return &shoppingCartRepo{db: db, log: repoLog}
}

func (sr *shoppingCartRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.ShoppingCart) (*types.ShoppingCart, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if err := transaction.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (sr *shoppingCartRepo) Delete(ctx context.Context, tx *gorm.DB, userID, recipeID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	result := transaction.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&types.ShoppingCart{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (sr *shoppingCartRepo) GetRecipeIDSet(ctx context.Context, tx *gorm.DB, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	set := make(map[uuid.UUID]struct{}, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return set, nil
	}

	var ids []uuid.UUID
	if err := transaction.WithContext(ctx).
		Model(&types.ShoppingCart{}).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}
