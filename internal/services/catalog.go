package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/foodgram-backend/internal/apierr"
	"github.com/foodgram/foodgram-backend/internal/clients/redis"
	"github.com/foodgram/foodgram-backend/internal/dto"
	"github.com/foodgram/foodgram-backend/internal/logger"
	"github.com/foodgram/foodgram-backend/internal/normalization"
	"github.com/foodgram/foodgram-backend/internal/repos"
)

const (
	cacheKeyTags        = "catalog:tags"
	cacheKeyIngredients = "catalog:ingredients"
)

// CatalogService serves the two read-mostly reference tables. Both full
// listings sit behind an optional redis cache; prefix search always hits
// postgres because the keyspace of prefixes is unbounded.
type CatalogService interface {
	ListTags(ctx context.Context) ([]dto.TagResponse, error)
	GetTag(ctx context.Context, tagID uuid.UUID) (*dto.TagResponse, error)
	ListIngredients(ctx context.Context, namePrefix string) ([]dto.IngredientResponse, error)
	GetIngredient(ctx context.Context, ingredientID uuid.UUID) (*dto.IngredientResponse, error)
}

type catalogService struct {
	db             *gorm.DB
	log            *logger.Logger
	tagRepo        repos.TagRepo
	ingredientRepo repos.IngredientRepo
	cache          redis.Cache
}

// NewCatalogService accepts a nil cache; every lookup then goes to postgres.
func NewCatalogService(
	db *gorm.DB,
	log *logger.Logger,
	tagRepo repos.TagRepo,
	ingredientRepo repos.IngredientRepo,
	cache redis.Cache,
) CatalogService {
	serviceLog := log.With("service", "CatalogService")
	return &catalogService{
		db:             db,
		log:            serviceLog,
		tagRepo:        tagRepo,
		ingredientRepo: ingredientRepo,
		cache:          cache,
	}
}

func (cs *catalogService) ListTags(ctx context.Context) ([]dto.TagResponse, error) {
	var cached []dto.TagResponse
	if cs.cache != nil {
		hit, err := cs.cache.GetJSON(ctx, cacheKeyTags, &cached)
		if err != nil {
			cs.log.Warn("Tag cache read failed", "error", err)
		} else if hit {
			return cached, nil
		}
	}

	tags, err := cs.tagRepo.GetAll(ctx, nil)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	results := make([]dto.TagResponse, 0, len(tags))
	for _, tag := range tags {
		results = append(results, dto.NewTagResponse(tag))
	}

	if cs.cache != nil {
		if err := cs.cache.SetJSON(ctx, cacheKeyTags, results); err != nil {
			cs.log.Warn("Tag cache write failed", "error", err)
		}
	}
	return results, nil
}

func (cs *catalogService) GetTag(ctx context.Context, tagID uuid.UUID) (*dto.TagResponse, error) {
	tags, err := cs.tagRepo.GetByIDs(ctx, nil, []uuid.UUID{tagID})
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if len(tags) == 0 {
		return nil, apierr.NotFound("tag %s not found", tagID)
	}
	resp := dto.NewTagResponse(tags[0])
	return &resp, nil
}

func (cs *catalogService) ListIngredients(ctx context.Context, namePrefix string) ([]dto.IngredientResponse, error) {
	prefix := normalization.TrimInputString(namePrefix)

	if prefix != "" {
		found, err := cs.ingredientRepo.SearchByNamePrefix(ctx, nil, prefix)
		if err != nil {
			return nil, apierr.Internal(err)
		}
		results := make([]dto.IngredientResponse, 0, len(found))
		for _, ing := range found {
			results = append(results, dto.NewIngredientResponse(ing))
		}
		return results, nil
	}

	var cached []dto.IngredientResponse
	if cs.cache != nil {
		hit, err := cs.cache.GetJSON(ctx, cacheKeyIngredients, &cached)
		if err != nil {
			cs.log.Warn("Ingredient cache read failed", "error", err)
		} else if hit {
			return cached, nil
		}
	}

	all, err := cs.ingredientRepo.GetAll(ctx, nil)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	results := make([]dto.IngredientResponse, 0, len(all))
	for _, ing := range all {
		results = append(results, dto.NewIngredientResponse(ing))
	}

	if cs.cache != nil {
		if err := cs.cache.SetJSON(ctx, cacheKeyIngredients, results); err != nil {
			cs.log.Warn("Ingredient cache write failed", "error", err)
		}
	}
	return results, nil
}

func (cs *catalogService) GetIngredient(ctx context.Context, ingredientID uuid.UUID) (*dto.IngredientResponse, error) {
	found, err := cs.ingredientRepo.GetByIDs(ctx, nil, []uuid.UUID{ingredientID})
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if len(found) == 0 {
		return nil, apierr.NotFound("ingredient %s not found", ingredientID)
	}
	resp := dto.NewIngredientResponse(found[0])
	return &resp, nil
}
