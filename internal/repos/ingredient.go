package repos

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/foodgram-backend/internal/logger"
	"github.com/foodgram/foodgram-backend/internal/types"
)

type IngredientRepo interface {
	Create(ctx context.Context, tx *gorm.DB, ingredients []*types.Ingredient) ([]*types.Ingredient, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Ingredient, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ingredientIDs []uuid.UUID) ([]*types.Ingredient, error)
	SearchByNamePrefix(ctx context.Context, tx *gorm.DB, prefix string) ([]*types.Ingredient, error)
}

type ingredientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIngredientRepo(db *gorm.DB, baseLog *logger.Logger) IngredientRepo {
	repoLog := baseLog.With("repo", "IngredientRepo")
	return &ingredientRepo{db: db, log: repoLog}
}

func (ir *ingredientRepo) Create(ctx context.Context, tx *gorm.DB, ingredients []*types.Ingredient) ([]*types.Ingredient, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	if len(ingredients) == 0 {
		return []*types.Ingredient{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (ir *ingredientRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Ingredient, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	var results []*types.Ingredient
	if err := transaction.WithContext(ctx).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ir *ingredientRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ingredientIDs []uuid.UUID) ([]*types.Ingredient, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	var results []*types.Ingredient
	if len(ingredientIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ingredientIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// SearchByNamePrefix is a case-insensitive prefix match. LIKE wildcards in
// the user-supplied prefix are escaped so "кар%" matches literally.
func (ir *ingredientRepo) SearchByNamePrefix(ctx context.Context, tx *gorm.DB, prefix string) ([]*types.Ingredient, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	var results []*types.Ingredient
	if err := transaction.WithContext(ctx).
		Where("LOWER(name) LIKE LOWER(?) || '%'", escapeLike(prefix)).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}
