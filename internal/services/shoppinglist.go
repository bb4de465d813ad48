package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/foodgram/foodgram-backend/internal/apierr"
	"github.com/foodgram/foodgram-backend/internal/logger"
	"github.com/foodgram/foodgram-backend/internal/repos"
	"github.com/foodgram/foodgram-backend/internal/requestdata"
)

const ShoppingListFilename = "shopping_list.txt"

type ShoppingListService interface {
	// BuildReport flattens the caller's cart into one aggregated text
	// document. The same ingredient appearing in several recipes collapses
	// into a single line with the summed amount.
	BuildReport(ctx context.Context) (string, error)
}

type shoppingListService struct {
	db                   *gorm.DB
	log                  *logger.Logger
	recipeIngredientRepo repos.RecipeIngredientRepo
}

func NewShoppingListService(
	db *gorm.DB,
	log *logger.Logger,
	recipeIngredientRepo repos.RecipeIngredientRepo,
) ShoppingListService {
	serviceLog := log.With("service", "ShoppingListService")
	return &shoppingListService{
		db:                   db,
		log:                  serviceLog,
		recipeIngredientRepo: recipeIngredientRepo,
	}
}

func (sls *shoppingListService) BuildReport(ctx context.Context) (string, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return "", apierr.Unauthorized("not logged in")
	}

	totals, err := sls.recipeIngredientRepo.SumByIngredientForUser(ctx, nil, rd.UserID)
	if err != nil {
		return "", apierr.Internal(err)
	}
	return RenderShoppingList(totals), nil
}

// RenderShoppingList writes one line per aggregated ingredient. Rows arrive
// already ordered by ingredient name.
func RenderShoppingList(totals []*repos.IngredientTotal) string {
	var b strings.Builder
	for _, row := range totals {
		fmt.Fprintf(&b, "%s (%s) — %d\n", row.Name, row.MeasurementUnit, row.Total)
	}
	return b.String()
}
