package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/foodgram/foodgram-backend/internal/repos/testutil"
)

func TestUserRepoExistsChecks(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, testutil.UniqueEmail("exists"))

	taken, err := repo.EmailExists(ctx, tx, user.Email)
	if err != nil {
		t.Fatalf("EmailExists: %v", err)
	}
	if !taken {
		t.Fatal("expected seeded email to exist")
	}

	taken, err = repo.EmailExists(ctx, tx, testutil.UniqueEmail("missing"))
	if err != nil {
		t.Fatalf("EmailExists (absent): %v", err)
	}
	if taken {
		t.Fatal("expected unknown email to be free")
	}

	taken, err = repo.UsernameExists(ctx, tx, user.Username)
	if err != nil {
		t.Fatalf("UsernameExists: %v", err)
	}
	if !taken {
		t.Fatal("expected seeded username to exist")
	}
}

func TestUserRepoList(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	ctx := context.Background()

	first := testutil.SeedUser(t, ctx, tx, testutil.UniqueEmail("first"))
	second := testutil.SeedUser(t, ctx, tx, testutil.UniqueEmail("second"))

	users, total, err := repo.List(ctx, tx, 0, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total < 2 {
		t.Fatalf("List: expected at least 2 users, got %d", total)
	}

	position := map[uuid.UUID]int{}
	for i, u := range users {
		position[u.ID] = i
	}
	firstPos, ok := position[first.ID]
	if !ok {
		t.Fatal("List: missing first seeded user")
	}
	secondPos, ok := position[second.ID]
	if !ok {
		t.Fatal("List: missing second seeded user")
	}
	if firstPos > secondPos {
		t.Fatalf("List: expected creation order, got %d then %d", firstPos, secondPos)
	}
}

func TestUserRepoGetByEmails(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, testutil.UniqueEmail("byemail"))

	found, err := repo.GetByEmails(ctx, tx, []string{user.Email})
	if err != nil {
		t.Fatalf("GetByEmails: %v", err)
	}
	if len(found) != 1 || found[0].ID != user.ID {
		t.Fatalf("GetByEmails: unexpected result: %+v", found)
	}
}
