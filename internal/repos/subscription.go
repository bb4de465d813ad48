package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/foodgram-backend/internal/logger"
	"github.com/foodgram/foodgram-backend/internal/types"
)

type SubscriptionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, subscription *types.Subscription) (*types.Subscription, error)
	Delete(ctx context.Context, tx *gorm.DB, userID, authorID uuid.UUID) (bool, error)
	Exists(ctx context.Context, tx *gorm.DB, userID, authorID uuid.UUID) (bool, error)
	GetAuthorIDSet(ctx context.Context, tx *gorm.DB, userID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]struct{}, error)
	ListAuthors(ctx context.Context, tx *gorm.DB, userID uuid.UUID, offset, limit int) ([]*types.User, int64, error)
}

type subscriptionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubscriptionRepo(db *gorm.DB, baseLog *logger.Logger) SubscriptionRepo {
	repoLog := baseLog.With("repo", "SubscriptionRepo")
	return &subscriptionRepo{db: db, log: repoLog}
}

func (sr *subscriptionRepo) Create(ctx context.Context, tx *gorm.DB, subscription *types.Subscription) (*types.Subscription, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if err := transaction.WithContext(ctx).Create(subscription).Error; err != nil {
		return nil, err
	}
	return subscription, nil
}

func (sr *subscriptionRepo) Delete(ctx context.Context, tx *gorm.DB, userID, authorID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	result := transaction.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&types.Subscription{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (sr *subscriptionRepo) Exists(ctx context.Context, tx *gorm.DB, userID, authorID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Subscription{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (sr *subscriptionRepo) GetAuthorIDSet(ctx context.Context, tx *gorm.DB, userID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	set := make(map[uuid.UUID]struct{}, len(authorIDs))
	if len(authorIDs) == 0 {
		return set, nil
	}

	var ids []uuid.UUID
	if err := transaction.WithContext(ctx).
		Model(&types.Subscription{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func (sr *subscriptionRepo) ListAuthors(ctx context.Context, tx *gorm.DB, userID uuid.UUID, offset, limit int) ([]*types.User, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var total int64
	if err := transaction.WithContext(ctx).
		Model(&types.Subscription{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := transaction.WithContext(ctx).
		Table(`"user"`).
		Joins(`JOIN subscription ON subscription.author_id = "user".id`).
		Where("subscription.user_id = ?", userID).
		Order("subscription.created_at ASC")
	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var results []*types.User
	if err := query.Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}
