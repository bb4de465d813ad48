package repos

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/foodgram-backend/internal/repos/testutil"
	"github.com/foodgram/foodgram-backend/internal/types"
)

func TestSubscriptionRepoDuplicatePair(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewSubscriptionRepo(db, testutil.Logger(t))
	ctx := context.Background()

	follower := testutil.SeedUser(t, ctx, tx, testutil.UniqueEmail("follower"))
	author := testutil.SeedUser(t, ctx, tx, testutil.UniqueEmail("author"))

	if _, err := repo.Create(ctx, tx, &types.Subscription{ID: uuid.New(), UserID: follower.ID, AuthorID: author.ID}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	err := tx.Transaction(func(inner *gorm.DB) error {
		_, err := repo.Create(ctx, inner, &types.Subscription{ID: uuid.New(), UserID: follower.ID, AuthorID: author.ID})
		return err
	})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected duplicated key error, got %v", err)
	}

	var count int64
	if err := tx.Model(&types.Subscription{}).
		Where("user_id = ? AND author_id = ?", follower.ID, author.ID).
		Count(&count).Error; err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one subscription row, got %d", count)
	}
}

func TestSubscriptionRepoDelete(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewSubscriptionRepo(db, testutil.Logger(t))
	ctx := context.Background()

	follower := testutil.SeedUser(t, ctx, tx, testutil.UniqueEmail("follower"))
	author := testutil.SeedUser(t, ctx, tx, testutil.UniqueEmail("author"))

	if _, err := repo.Create(ctx, tx, &types.Subscription{ID: uuid.New(), UserID: follower.ID, AuthorID: author.ID}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	removed, err := repo.Delete(ctx, tx, follower.ID, author.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !removed {
		t.Fatal("expected first delete to remove a row")
	}

	removed, err = repo.Delete(ctx, tx, follower.ID, author.ID)
	if err != nil {
		t.Fatalf("Delete (absent): %v", err)
	}
	if removed {
		t.Fatal("expected second delete to report no row")
	}
}

func TestSubscriptionRepoListAuthors(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewSubscriptionRepo(db, testutil.Logger(t))
	ctx := context.Background()

	follower := testutil.SeedUser(t, ctx, tx, testutil.UniqueEmail("follower"))
	first := testutil.SeedUser(t, ctx, tx, testutil.UniqueEmail("first"))
	second := testutil.SeedUser(t, ctx, tx, testutil.UniqueEmail("second"))
	stranger := testutil.SeedUser(t, ctx, tx, testutil.UniqueEmail("stranger"))

	if _, err := repo.Create(ctx, tx, &types.Subscription{ID: uuid.New(), UserID: follower.ID, AuthorID: first.ID}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.Create(ctx, tx, &types.Subscription{ID: uuid.New(), UserID: follower.ID, AuthorID: second.ID}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.Create(ctx, tx, &types.Subscription{ID: uuid.New(), UserID: stranger.ID, AuthorID: first.ID}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	authors, total, err := repo.ListAuthors(ctx, tx, follower.ID, 0, 0)
	if err != nil {
		t.Fatalf("ListAuthors: %v", err)
	}
	if total != 2 || len(authors) != 2 {
		t.Fatalf("ListAuthors: expected 2 authors, total=%d len=%d", total, len(authors))
	}
	if authors[0].ID != first.ID || authors[1].ID != second.ID {
		t.Fatalf("ListAuthors: expected subscription order, got %v then %v", authors[0].ID, authors[1].ID)
	}

	page, total, err := repo.ListAuthors(ctx, tx, follower.ID, 1, 1)
	if err != nil {
		t.Fatalf("ListAuthors (paged): %v", err)
	}
	if total != 2 || len(page) != 1 || page[0].ID != second.ID {
		t.Fatalf("ListAuthors (paged): unexpected page: total=%d len=%d", total, len(page))
	}

	set, err := repo.GetAuthorIDSet(ctx, tx, follower.ID, []uuid.UUID{first.ID, stranger.ID})
	if err != nil {
		t.Fatalf("GetAuthorIDSet: %v", err)
	}
	if _, ok := set[first.ID]; !ok {
		t.Fatal("GetAuthorIDSet: missing subscribed author")
	}
	if _, ok := set[stranger.ID]; ok {
		t.Fatal("GetAuthorIDSet: contains unsubscribed author")
	}
}
