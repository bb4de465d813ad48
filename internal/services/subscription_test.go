package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/foodgram/foodgram-backend/internal/repos"
	"github.com/foodgram/foodgram-backend/internal/repos/testutil"
)

func TestSubscriptionServiceSelfSubscribe(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, db, testutil.UniqueEmail("narcissist"))
	cleanupSeeded(t, db, []uuid.UUID{user.ID}, nil, nil)

	log := testutil.Logger(t)
	svc := NewSubscriptionService(
		db,
		log,
		repos.NewUserRepo(db, log),
		repos.NewRecipeRepo(db, log),
		repos.NewSubscriptionRepo(db, log),
	)

	_, err := svc.Subscribe(asUser(user.ID), user.ID)
	assertValidationError(t, err)

	var count int64
	if err := db.Table("subscription").Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("Count subscriptions: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no subscription row after rejected self-subscribe, got %d", count)
	}
}
