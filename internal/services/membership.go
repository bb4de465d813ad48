package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/foodgram-backend/internal/apierr"
	"github.com/foodgram/foodgram-backend/internal/dto"
	"github.com/foodgram/foodgram-backend/internal/logger"
	"github.com/foodgram/foodgram-backend/internal/repos"
	"github.com/foodgram/foodgram-backend/internal/requestdata"
	"github.com/foodgram/foodgram-backend/internal/types"
)

// FavoriteService and ShoppingCartService manage the two per-user recipe
// sets. Adding an already present pair fails, as does removing an absent
// one; the unique index decides the winner when two identical adds race.

type FavoriteService interface {
	Add(ctx context.Context, recipeID uuid.UUID) (*dto.ShortRecipeResponse, error)
	Remove(ctx context.Context, recipeID uuid.UUID) error
}

type favoriteService struct {
	db           *gorm.DB
	log          *logger.Logger
	recipeRepo   repos.RecipeRepo
	favoriteRepo repos.FavoriteRepo
}

func NewFavoriteService(
	db *gorm.DB,
	log *logger.Logger,
	recipeRepo repos.RecipeRepo,
	favoriteRepo repos.FavoriteRepo,
) FavoriteService {
	serviceLog := log.With("service", "FavoriteService")
	return &favoriteService{
		db:           db,
		log:          serviceLog,
		recipeRepo:   recipeRepo,
		favoriteRepo: favoriteRepo,
	}
}

func (fs *favoriteService) Add(ctx context.Context, recipeID uuid.UUID) (*dto.ShortRecipeResponse, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("not logged in")
	}

	var short *dto.ShortRecipeResponse
	err := fs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := getRecipe(ctx, tx, fs.recipeRepo, recipeID)
		if err != nil {
			return err
		}
		_, err = fs.favoriteRepo.Create(ctx, tx, &types.Favorite{
			ID:       uuid.New(),
			UserID:   rd.UserID,
			RecipeID: recipe.ID,
		})
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apierr.Conflict("recipe is already in favorites")
		}
		if err != nil {
			return apierr.Internal(err)
		}
		short = shortRecipe(recipe)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return short, nil
}

func (fs *favoriteService) Remove(ctx context.Context, recipeID uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return apierr.Unauthorized("not logged in")
	}
	removed, err := fs.favoriteRepo.Delete(ctx, nil, rd.UserID, recipeID)
	if err != nil {
		return apierr.Internal(err)
	}
	if !removed {
		return apierr.NotFound("recipe is not in favorites")
	}
	return nil
}

type ShoppingCartService interface {
	Add(ctx context.Context, recipeID uuid.UUID) (*dto.ShortRecipeResponse, error)
	Remove(ctx context.Context, recipeID uuid.UUID) error
}

type shoppingCartService struct {
	db               *gorm.DB
	log              *logger.Logger
	recipeRepo       repos.RecipeRepo
	shoppingCartRepo repos.ShoppingCartRepo
}

func NewShoppingCartService(
	db *gorm.DB,
	log *logger.Logger,
	recipeRepo repos.RecipeRepo,
	shoppingCartRepo repos.ShoppingCartRepo,
) ShoppingCartService {
	serviceLog := log.With("service", "ShoppingCartService")
	return &shoppingCartService{
		db:               db,
		log:              serviceLog,
		recipeRepo:       recipeRepo,
		shoppingCartRepo: shoppingCartRepo,
	}
}

func (scs *shoppingCartService) Add(ctx context.Context, recipeID uuid.UUID) (*dto.ShortRecipeResponse, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("not logged in")
	}

	var short *dto.ShortRecipeResponse
	err := scs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := getRecipe(ctx, tx, scs.recipeRepo, recipeID)
		if err != nil {
			return err
		}
		_, err = scs.shoppingCartRepo.Create(ctx, tx, &types.ShoppingCart{
			ID:       uuid.New(),
			UserID:   rd.UserID,
			RecipeID: recipe.ID,
		})
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apierr.Conflict("recipe is already in the shopping cart")
		}
		if err != nil {
			return apierr.Internal(err)
		}
		short = shortRecipe(recipe)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return short, nil
}

func (scs *shoppingCartService) Remove(ctx context.Context, recipeID uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return apierr.Unauthorized("not logged in")
	}
	removed, err := scs.shoppingCartRepo.Delete(ctx, nil, rd.UserID, recipeID)
	if err != nil {
		return apierr.Internal(err)
	}
	if !removed {
		return apierr.NotFound("recipe is not in the shopping cart")
	}
	return nil
}

func getRecipe(ctx context.Context, tx *gorm.DB, recipeRepo repos.RecipeRepo, recipeID uuid.UUID) (*types.Recipe, error) {
	recipes, err := recipeRepo.GetByIDs(ctx, tx, []uuid.UUID{recipeID})
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if len(recipes) == 0 {
		return nil, apierr.NotFound("recipe %s not found", recipeID)
	}
	return recipes[0], nil
}

func shortRecipe(recipe *types.Recipe) *dto.ShortRecipeResponse {
	return &dto.ShortRecipeResponse{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}
}
