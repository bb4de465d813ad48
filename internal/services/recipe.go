package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/foodgram-backend/internal/apierr"
	"github.com/foodgram/foodgram-backend/internal/dto"
	"github.com/foodgram/foodgram-backend/internal/logger"
	"github.com/foodgram/foodgram-backend/internal/normalization"
	"github.com/foodgram/foodgram-backend/internal/repos"
	"github.com/foodgram/foodgram-backend/internal/requestdata"
	"github.com/foodgram/foodgram-backend/internal/types"
)

// RecipeListParams is the query surface of the recipe listing endpoint.
// IsFavorited and IsInShoppingCart are ignored for anonymous callers.
type RecipeListParams struct {
	AuthorID         *uuid.UUID
	TagSlugs         []string
	IsFavorited      bool
	IsInShoppingCart bool
	Offset           int
	Limit            int
}

type RecipeService interface {
	Create(ctx context.Context, req dto.RecipeWriteRequest) (*dto.RecipeResponse, error)
	Update(ctx context.Context, recipeID uuid.UUID, req dto.RecipeUpdateRequest) (*dto.RecipeResponse, error)
	Delete(ctx context.Context, recipeID uuid.UUID) error
	GetByID(ctx context.Context, recipeID uuid.UUID) (*dto.RecipeResponse, error)
	List(ctx context.Context, params RecipeListParams) (*dto.Page[dto.RecipeResponse], error)
}

type recipeService struct {
	db                   *gorm.DB
	log                  *logger.Logger
	userRepo             repos.UserRepo
	tagRepo              repos.TagRepo
	ingredientRepo       repos.IngredientRepo
	recipeRepo           repos.RecipeRepo
	recipeIngredientRepo repos.RecipeIngredientRepo
	recipeTagRepo        repos.RecipeTagRepo
	favoriteRepo         repos.FavoriteRepo
	shoppingCartRepo     repos.ShoppingCartRepo
	subscriptionRepo     repos.SubscriptionRepo
}

func NewRecipeService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	tagRepo repos.TagRepo,
	ingredientRepo repos.IngredientRepo,
	recipeRepo repos.RecipeRepo,
	recipeIngredientRepo repos.RecipeIngredientRepo,
	recipeTagRepo repos.RecipeTagRepo,
	favoriteRepo repos.FavoriteRepo,
	shoppingCartRepo repos.ShoppingCartRepo,
	subscriptionRepo repos.SubscriptionRepo,
) RecipeService {
	serviceLog := log.With("service", "RecipeService")
	return &recipeService{
		db:                   db,
		log:                  serviceLog,
		userRepo:             userRepo,
		tagRepo:              tagRepo,
		ingredientRepo:       ingredientRepo,
		recipeRepo:           recipeRepo,
		recipeIngredientRepo: recipeIngredientRepo,
		recipeTagRepo:        recipeTagRepo,
		favoriteRepo:         favoriteRepo,
		shoppingCartRepo:     shoppingCartRepo,
		subscriptionRepo:     subscriptionRepo,
	}
}

func (rs *recipeService) Create(ctx context.Context, req dto.RecipeWriteRequest) (*dto.RecipeResponse, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("not logged in")
	}

	name := normalization.TrimInputString(req.Name)
	text := normalization.TrimInputString(req.Text)
	if name == "" {
		return nil, apierr.Validation("recipe name is required")
	}
	if text == "" {
		return nil, apierr.Validation("recipe text is required")
	}
	if req.CookingTime < 1 {
		return nil, apierr.Validation("cooking_time must be at least 1")
	}
	if err := validateIngredients(req.Ingredients); err != nil {
		return nil, err
	}
	if err := validateTagIDs(req.Tags); err != nil {
		return nil, err
	}

	recipe := &types.Recipe{
		ID:          uuid.New(),
		AuthorID:    rd.UserID,
		Name:        name,
		ImageURL:    req.Image,
		Text:        text,
		CookingTime: req.CookingTime,
	}

	err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := rs.checkIngredientsExist(ctx, tx, req.Ingredients); err != nil {
			return err
		}
		if err := rs.checkTagsExist(ctx, tx, req.Tags); err != nil {
			return err
		}
		if _, err := rs.recipeRepo.Create(ctx, tx, []*types.Recipe{recipe}); err != nil {
			return apierr.Internal(err)
		}
		if err := rs.createLineItems(ctx, tx, recipe.ID, req.Ingredients); err != nil {
			return err
		}
		if err := rs.createTagLinks(ctx, tx, recipe.ID, req.Tags); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	rs.log.Info("Recipe created", "recipe_id", recipe.ID.String(), "author_id", recipe.AuthorID.String())
	return rs.GetByID(ctx, recipe.ID)
}

func (rs *recipeService) Update(ctx context.Context, recipeID uuid.UUID, req dto.RecipeUpdateRequest) (*dto.RecipeResponse, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("not logged in")
	}

	fields := map[string]any{}
	if req.Name != nil {
		name := normalization.TrimInputString(*req.Name)
		if name == "" {
			return nil, apierr.Validation("recipe name cannot be empty")
		}
		fields["name"] = name
	}
	if req.Text != nil {
		text := normalization.TrimInputString(*req.Text)
		if text == "" {
			return nil, apierr.Validation("recipe text cannot be empty")
		}
		fields["text"] = text
	}
	if req.Image != nil {
		fields["image_url"] = *req.Image
	}
	if req.CookingTime != nil {
		if *req.CookingTime < 1 {
			return nil, apierr.Validation("cooking_time must be at least 1")
		}
		fields["cooking_time"] = *req.CookingTime
	}
	// A supplied empty set is an error; an absent set keeps the current one.
	if req.Ingredients != nil {
		if err := validateIngredients(req.Ingredients); err != nil {
			return nil, err
		}
	}
	if req.Tags != nil {
		if err := validateTagIDs(req.Tags); err != nil {
			return nil, err
		}
	}

	err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := rs.getOwnedRecipe(ctx, tx, recipeID, rd.UserID)
		if err != nil {
			return err
		}

		if len(fields) > 0 {
			if err := rs.recipeRepo.UpdateFields(ctx, tx, recipe.ID, fields); err != nil {
				return apierr.Internal(err)
			}
		}
		if req.Ingredients != nil {
			if err := rs.checkIngredientsExist(ctx, tx, req.Ingredients); err != nil {
				return err
			}
			if err := rs.recipeIngredientRepo.DeleteByRecipeID(ctx, tx, recipe.ID); err != nil {
				return apierr.Internal(err)
			}
			if err := rs.createLineItems(ctx, tx, recipe.ID, req.Ingredients); err != nil {
				return err
			}
		}
		if req.Tags != nil {
			if err := rs.checkTagsExist(ctx, tx, req.Tags); err != nil {
				return err
			}
			if err := rs.recipeTagRepo.DeleteByRecipeID(ctx, tx, recipe.ID); err != nil {
				return apierr.Internal(err)
			}
			if err := rs.createTagLinks(ctx, tx, recipe.ID, req.Tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rs.GetByID(ctx, recipeID)
}

func (rs *recipeService) Delete(ctx context.Context, recipeID uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return apierr.Unauthorized("not logged in")
	}
	return rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := rs.getOwnedRecipe(ctx, tx, recipeID, rd.UserID)
		if err != nil {
			return err
		}
		// Line items, tag links and membership rows go with the recipe via
		// the ON DELETE CASCADE constraints.
		if err := rs.recipeRepo.Delete(ctx, tx, recipe.ID); err != nil {
			return apierr.Internal(err)
		}
		return nil
	})
}

func (rs *recipeService) GetByID(ctx context.Context, recipeID uuid.UUID) (*dto.RecipeResponse, error) {
	recipes, err := rs.recipeRepo.GetByIDs(ctx, nil, []uuid.UUID{recipeID})
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if len(recipes) == 0 {
		return nil, apierr.NotFound("recipe %s not found", recipeID)
	}
	responses, err := rs.buildResponses(ctx, nil, recipes)
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

func (rs *recipeService) List(ctx context.Context, params RecipeListParams) (*dto.Page[dto.RecipeResponse], error) {
	filter := repos.RecipeListFilter{
		AuthorID: params.AuthorID,
		TagSlugs: params.TagSlugs,
		Offset:   params.Offset,
		Limit:    params.Limit,
	}
	if rd := requestdata.GetRequestData(ctx); rd != nil {
		if params.IsFavorited {
			userID := rd.UserID
			filter.FavoritedBy = &userID
		}
		if params.IsInShoppingCart {
			userID := rd.UserID
			filter.InCartOf = &userID
		}
	}

	recipes, total, err := rs.recipeRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	responses, err := rs.buildResponses(ctx, nil, recipes)
	if err != nil {
		return nil, err
	}
	page := dto.NewPage(total, responses)
	return &page, nil
}

func (rs *recipeService) getOwnedRecipe(ctx context.Context, tx *gorm.DB, recipeID, userID uuid.UUID) (*types.Recipe, error) {
	recipes, err := rs.recipeRepo.GetByIDs(ctx, tx, []uuid.UUID{recipeID})
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if len(recipes) == 0 {
		return nil, apierr.NotFound("recipe %s not found", recipeID)
	}
	recipe := recipes[0]
	if recipe.AuthorID != userID {
		return nil, apierr.Forbidden("only the author can modify this recipe")
	}
	return recipe, nil
}

func (rs *recipeService) checkIngredientsExist(ctx context.Context, tx *gorm.DB, items []dto.IngredientAmount) error {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	found, err := rs.ingredientRepo.GetByIDs(ctx, tx, ids)
	if err != nil {
		return apierr.Internal(err)
	}
	if len(found) != len(ids) {
		return apierr.Validation("one or more ingredients do not exist")
	}
	return nil
}

func (rs *recipeService) checkTagsExist(ctx context.Context, tx *gorm.DB, tagIDs []uuid.UUID) error {
	found, err := rs.tagRepo.GetByIDs(ctx, tx, tagIDs)
	if err != nil {
		return apierr.Internal(err)
	}
	if len(found) != len(tagIDs) {
		return apierr.Validation("one or more tags do not exist")
	}
	return nil
}

func (rs *recipeService) createLineItems(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, items []dto.IngredientAmount) error {
	rows := make([]*types.RecipeIngredient, 0, len(items))
	for _, item := range items {
		rows = append(rows, &types.RecipeIngredient{
			ID:           uuid.New(),
			RecipeID:     recipeID,
			IngredientID: item.ID,
			Amount:       item.Amount,
		})
	}
	if _, err := rs.recipeIngredientRepo.CreateBatch(ctx, tx, rows); err != nil {
		return apierr.Internal(err)
	}
	return nil
}

func (rs *recipeService) createTagLinks(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, tagIDs []uuid.UUID) error {
	rows := make([]*types.RecipeTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		rows = append(rows, &types.RecipeTag{
			ID:       uuid.New(),
			RecipeID: recipeID,
			TagID:    tagID,
		})
	}
	if _, err := rs.recipeTagRepo.CreateBatch(ctx, tx, rows); err != nil {
		return apierr.Internal(err)
	}
	return nil
}

// buildResponses hydrates authors, line items, tags and the viewer's
// membership flags with one query per concern.
func (rs *recipeService) buildResponses(ctx context.Context, tx *gorm.DB, recipes []*types.Recipe) ([]dto.RecipeResponse, error) {
	if len(recipes) == 0 {
		return []dto.RecipeResponse{}, nil
	}

	recipeIDs := make([]uuid.UUID, 0, len(recipes))
	authorIDSet := map[uuid.UUID]struct{}{}
	authorIDs := make([]uuid.UUID, 0, len(recipes))
	for _, recipe := range recipes {
		recipeIDs = append(recipeIDs, recipe.ID)
		if _, seen := authorIDSet[recipe.AuthorID]; !seen {
			authorIDSet[recipe.AuthorID] = struct{}{}
			authorIDs = append(authorIDs, recipe.AuthorID)
		}
	}

	authors, err := rs.userRepo.GetByIDs(ctx, tx, authorIDs)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	authorByID := make(map[uuid.UUID]*types.User, len(authors))
	for _, author := range authors {
		authorByID[author.ID] = author
	}

	lineItems, err := rs.recipeIngredientRepo.GetLineItemsByRecipeIDs(ctx, tx, recipeIDs)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	itemsByRecipe := map[uuid.UUID][]dto.RecipeIngredientResponse{}
	for _, item := range lineItems {
		itemsByRecipe[item.RecipeID] = append(itemsByRecipe[item.RecipeID], dto.RecipeIngredientResponse{
			ID:              item.IngredientID,
			Name:            item.Name,
			MeasurementUnit: item.MeasurementUnit,
			Amount:          item.Amount,
		})
	}

	tagRows, err := rs.recipeTagRepo.GetTagsByRecipeIDs(ctx, tx, recipeIDs)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	tagsByRecipe := map[uuid.UUID][]dto.TagResponse{}
	for _, row := range tagRows {
		tagsByRecipe[row.RecipeID] = append(tagsByRecipe[row.RecipeID], dto.TagResponse{
			ID:    row.TagID,
			Name:  row.Name,
			Color: row.Color,
			Slug:  row.Slug,
		})
	}

	favorited := map[uuid.UUID]struct{}{}
	inCart := map[uuid.UUID]struct{}{}
	subscribedAuthors := map[uuid.UUID]struct{}{}
	if rd := requestdata.GetRequestData(ctx); rd != nil {
		favorited, err = rs.favoriteRepo.GetRecipeIDSet(ctx, tx, rd.UserID, recipeIDs)
		if err != nil {
			return nil, apierr.Internal(err)
		}
		inCart, err = rs.shoppingCartRepo.GetRecipeIDSet(ctx, tx, rd.UserID, recipeIDs)
		if err != nil {
			return nil, apierr.Internal(err)
		}
		subscribedAuthors, err = rs.subscriptionRepo.GetAuthorIDSet(ctx, tx, rd.UserID, authorIDs)
		if err != nil {
			return nil, apierr.Internal(err)
		}
	}

	responses := make([]dto.RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		author, ok := authorByID[recipe.AuthorID]
		if !ok {
			return nil, apierr.Internal(fmt.Errorf("recipe %s has no author row", recipe.ID))
		}
		_, isSubscribed := subscribedAuthors[recipe.AuthorID]
		_, isFavorited := favorited[recipe.ID]
		_, isInCart := inCart[recipe.ID]

		items := itemsByRecipe[recipe.ID]
		if items == nil {
			items = []dto.RecipeIngredientResponse{}
		}
		tags := tagsByRecipe[recipe.ID]
		if tags == nil {
			tags = []dto.TagResponse{}
		}

		responses = append(responses, dto.RecipeResponse{
			ID:               recipe.ID,
			Author:           dto.NewUserResponse(author, isSubscribed),
			Name:             recipe.Name,
			Image:            recipe.ImageURL,
			Text:             recipe.Text,
			CookingTime:      recipe.CookingTime,
			Ingredients:      items,
			Tags:             tags,
			IsFavorited:      isFavorited,
			IsInShoppingCart: isInCart,
			CreatedAt:        recipe.CreatedAt,
		})
	}
	return responses, nil
}

func validateIngredients(items []dto.IngredientAmount) error {
	if len(items) == 0 {
		return apierr.Validation("a recipe needs at least one ingredient")
	}
	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		if item.Amount < 1 {
			return apierr.Validation("ingredient amount must be at least 1")
		}
		if _, dup := seen[item.ID]; dup {
			return apierr.Validation("duplicate ingredient %s", item.ID)
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}

func validateTagIDs(tagIDs []uuid.UUID) error {
	if len(tagIDs) == 0 {
		return apierr.Validation("a recipe needs at least one tag")
	}
	seen := make(map[uuid.UUID]struct{}, len(tagIDs))
	for _, tagID := range tagIDs {
		if _, dup := seen[tagID]; dup {
			return apierr.Validation("duplicate tag %s", tagID)
		}
		seen[tagID] = struct{}{}
	}
	return nil
}
