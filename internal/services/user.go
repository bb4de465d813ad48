package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/foodgram-backend/internal/apierr"
	"github.com/foodgram/foodgram-backend/internal/dto"
	"github.com/foodgram/foodgram-backend/internal/logger"
	"github.com/foodgram/foodgram-backend/internal/repos"
	"github.com/foodgram/foodgram-backend/internal/requestdata"
)

type UserService interface {
	GetMe(ctx context.Context) (*dto.UserResponse, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
	List(ctx context.Context, offset, limit int) (*dto.Page[dto.UserResponse], error)
}

type userService struct {
	db               *gorm.DB
	log              *logger.Logger
	userRepo         repos.UserRepo
	subscriptionRepo repos.SubscriptionRepo
}

func NewUserService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	subscriptionRepo repos.SubscriptionRepo,
) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{
		db:               db,
		log:              serviceLog,
		userRepo:         userRepo,
		subscriptionRepo: subscriptionRepo,
	}
}

func (us *userService) GetMe(ctx context.Context) (*dto.UserResponse, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("not logged in")
	}
	return us.GetByID(ctx, rd.UserID)
}

func (us *userService) GetByID(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if len(users) == 0 {
		return nil, apierr.NotFound("user %s not found", userID)
	}
	user := users[0]

	isSubscribed := false
	if rd := requestdata.GetRequestData(ctx); rd != nil && rd.UserID != user.ID {
		isSubscribed, err = us.subscriptionRepo.Exists(ctx, nil, rd.UserID, user.ID)
		if err != nil {
			return nil, apierr.Internal(err)
		}
	}

	resp := dto.NewUserResponse(user, isSubscribed)
	return &resp, nil
}

func (us *userService) List(ctx context.Context, offset, limit int) (*dto.Page[dto.UserResponse], error) {
	users, total, err := us.userRepo.List(ctx, nil, offset, limit)
	if err != nil {
		return nil, apierr.Internal(err)
	}

	// Annotate in one round trip rather than per row.
	subscribed := map[uuid.UUID]struct{}{}
	if rd := requestdata.GetRequestData(ctx); rd != nil && len(users) > 0 {
		ids := make([]uuid.UUID, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
		}
		subscribed, err = us.subscriptionRepo.GetAuthorIDSet(ctx, nil, rd.UserID, ids)
		if err != nil {
			return nil, apierr.Internal(err)
		}
	}

	results := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		_, isSubscribed := subscribed[u.ID]
		results = append(results, dto.NewUserResponse(u, isSubscribed))
	}
	page := dto.NewPage(total, results)
	return &page, nil
}
