package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/foodgram-backend/internal/logger"
	"github.com/foodgram/foodgram-backend/internal/types"
)

// RecipeTagRow is a tag joined with the recipe it is attached to.
type RecipeTagRow struct {
	RecipeID uuid.UUID `json:"recipe_id"`
	TagID    uuid.UUID `json:"tag_id"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
	Slug     string    `json:"slug"`
}

type RecipeTagRepo interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, links []*types.RecipeTag) ([]*types.RecipeTag, error)
	GetTagsByRecipeIDs(ctx context.Context, tx *gorm.DB, recipeIDs []uuid.UUID) ([]*RecipeTagRow, error)
	DeleteByRecipeID(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) error
}

type recipeTagRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecipeTagRepo(db *gorm.DB, baseLog *logger.Logger) RecipeTagRepo {
	repoLog := baseLog.With("repo", "RecipeTagRepo")
	return &recipeTagRepo{db: db, log: repoLog}
}

func (rr *recipeTagRepo) CreateBatch(ctx context.Context, tx *gorm.DB, links []*types.RecipeTag) ([]*types.RecipeTag, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if len(links) == 0 {
		return []*types.RecipeTag{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (rr *recipeTagRepo) GetTagsByRecipeIDs(ctx context.Context, tx *gorm.DB, recipeIDs []uuid.UUID) ([]*RecipeTagRow, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*RecipeTagRow
	if len(recipeIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Table("recipe_tag").
		Select("recipe_tag.recipe_id AS recipe_id, tag.id AS tag_id, tag.name AS name, tag.color AS color, tag.slug AS slug").
		Joins("JOIN tag ON tag.id = recipe_tag.tag_id").
		Where("recipe_tag.recipe_id IN ?", recipeIDs).
		Order("tag.name ASC").
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *recipeTagRepo) DeleteByRecipeID(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	return transaction.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Delete(&types.RecipeTag{}).Error
}
