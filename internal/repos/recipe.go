package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/foodgram-backend/internal/logger"
	"github.com/foodgram/foodgram-backend/internal/types"
)

// RecipeListFilter mirrors the query surface of the recipe list endpoint.
// TagSlugs are AND-combined: a recipe must carry every requested slug.
type RecipeListFilter struct {
	AuthorID    *uuid.UUID
	TagSlugs    []string
	FavoritedBy *uuid.UUID
	InCartOf    *uuid.UUID
	Offset      int
	Limit       int
}

type RecipeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, recipes []*types.Recipe) ([]*types.Recipe, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, recipeIDs []uuid.UUID) ([]*types.Recipe, error)
	List(ctx context.Context, tx *gorm.DB, filter RecipeListFilter) ([]*types.Recipe, int64, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) error
}

type recipeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecipeRepo(db *gorm.DB, baseLog *logger.Logger) RecipeRepo {
	repoLog := baseLog.With("repo", "RecipeRepo")
	return &recipeRepo{db: db, log: repoLog}
}

func (rr *recipeRepo) Create(ctx context.Context, tx *gorm.DB, recipes []*types.Recipe) ([]*types.Recipe, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if len(recipes) == 0 {
		return []*types.Recipe{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (rr *recipeRepo) GetByIDs(ctx context.Context, tx *gorm.DB, recipeIDs []uuid.UUID) ([]*types.Recipe, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.Recipe
	if len(recipeIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", recipeIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *recipeRepo) List(ctx context.Context, tx *gorm.DB, filter RecipeListFilter) ([]*types.Recipe, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	base := transaction.WithContext(ctx).Model(&types.Recipe{})
	base = applyRecipeFilter(base, transaction, filter)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := transaction.WithContext(ctx).Model(&types.Recipe{})
	query = applyRecipeFilter(query, transaction, filter).Order("created_at DESC")
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var results []*types.Recipe
	if err := query.Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func applyRecipeFilter(query *gorm.DB, db *gorm.DB, filter RecipeListFilter) *gorm.DB {
	if filter.AuthorID != nil {
		query = query.Where("author_id = ?", *filter.AuthorID)
	}
	for _, slug := range filter.TagSlugs {
		query = query.Where(
			"id IN (?)",
			db.Table("recipe_tag").
				Select("recipe_tag.recipe_id").
				Joins("JOIN tag ON tag.id = recipe_tag.tag_id").
				Where("tag.slug = ?", slug),
		)
	}
	if filter.FavoritedBy != nil {
		query = query.Where(
			"id IN (?)",
			db.Table("favorite").
				Select("favorite.recipe_id").
				Where("favorite.user_id = ?", *filter.FavoritedBy),
		)
	}
	if filter.InCartOf != nil {
		query = query.Where(
			"id IN (?)",
			db.Table("shopping_cart").
				Select("shopping_cart.recipe_id").
				Where("shopping_cart.user_id = ?", *filter.InCartOf),
		)
	}
	return query
}

func (rr *recipeRepo) UpdateFields(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if len(fields) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Model(&types.Recipe{}).
		Where("id = ?", recipeID).
		Updates(fields).Error
}

func (rr *recipeRepo) Delete(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	return transaction.WithContext(ctx).
		Where("id = ?", recipeID).
		Delete(&types.Recipe{}).Error
}
