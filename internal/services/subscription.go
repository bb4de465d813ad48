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

type SubscriptionService interface {
	Subscribe(ctx context.Context, authorID uuid.UUID) (*dto.AuthorWithRecipesResponse, error)
	Unsubscribe(ctx context.Context, authorID uuid.UUID) error
	// ListSubscriptions returns the followed authors in subscription order.
	// recipesLimit caps the embedded recipe previews per author; zero means
	// no cap.
	ListSubscriptions(ctx context.Context, offset, limit, recipesLimit int) (*dto.Page[dto.AuthorWithRecipesResponse], error)
}

type subscriptionService struct {
	db               *gorm.DB
	log              *logger.Logger
	userRepo         repos.UserRepo
	recipeRepo       repos.RecipeRepo
	subscriptionRepo repos.SubscriptionRepo
}

func NewSubscriptionService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	recipeRepo repos.RecipeRepo,
	subscriptionRepo repos.SubscriptionRepo,
) SubscriptionService {
	serviceLog := log.With("service", "SubscriptionService")
	return &subscriptionService{
		db:               db,
		log:              serviceLog,
		userRepo:         userRepo,
		recipeRepo:       recipeRepo,
		subscriptionRepo: subscriptionRepo,
	}
}

func (ss *subscriptionService) Subscribe(ctx context.Context, authorID uuid.UUID) (*dto.AuthorWithRecipesResponse, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("not logged in")
	}
	if rd.UserID == authorID {
		return nil, apierr.Validation("cannot subscribe to yourself")
	}

	var author *types.User
	err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		authors, err := ss.userRepo.GetByIDs(ctx, tx, []uuid.UUID{authorID})
		if err != nil {
			return apierr.Internal(err)
		}
		if len(authors) == 0 {
			return apierr.NotFound("user %s not found", authorID)
		}
		author = authors[0]

		_, err = ss.subscriptionRepo.Create(ctx, tx, &types.Subscription{
			ID:       uuid.New(),
			UserID:   rd.UserID,
			AuthorID: authorID,
		})
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apierr.Conflict("already subscribed to this author")
		}
		if err != nil {
			return apierr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ss.buildAuthorResponse(ctx, author, 0)
}

func (ss *subscriptionService) Unsubscribe(ctx context.Context, authorID uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return apierr.Unauthorized("not logged in")
	}
	removed, err := ss.subscriptionRepo.Delete(ctx, nil, rd.UserID, authorID)
	if err != nil {
		return apierr.Internal(err)
	}
	if !removed {
		return apierr.NotFound("not subscribed to this author")
	}
	return nil
}

func (ss *subscriptionService) ListSubscriptions(ctx context.Context, offset, limit, recipesLimit int) (*dto.Page[dto.AuthorWithRecipesResponse], error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("not logged in")
	}

	authors, total, err := ss.subscriptionRepo.ListAuthors(ctx, nil, rd.UserID, offset, limit)
	if err != nil {
		return nil, apierr.Internal(err)
	}

	results := make([]dto.AuthorWithRecipesResponse, 0, len(authors))
	for _, author := range authors {
		resp, err := ss.buildAuthorResponse(ctx, author, recipesLimit)
		if err != nil {
			return nil, err
		}
		results = append(results, *resp)
	}
	page := dto.NewPage(total, results)
	return &page, nil
}

func (ss *subscriptionService) buildAuthorResponse(ctx context.Context, author *types.User, recipesLimit int) (*dto.AuthorWithRecipesResponse, error) {
	filter := repos.RecipeListFilter{AuthorID: &author.ID, Limit: recipesLimit}
	recipes, recipesCount, err := ss.recipeRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, apierr.Internal(err)
	}

	previews := make([]dto.ShortRecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		previews = append(previews, *shortRecipe(recipe))
	}

	return &dto.AuthorWithRecipesResponse{
		UserResponse: dto.NewUserResponse(author, true),
		Recipes:      previews,
		RecipesCount: recipesCount,
	}, nil
}
