package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/dalemusser/nexa/internal/app/store/users"
	"github.com/dalemusser/nexa/internal/domain/models"
	"github.com/dalemusser/nexa/internal/testutil"
)

func strPtr(s string) *string { return &s }

func TestStore_CreateNormalizes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		ID:    "uid-1",
		Name:  "  Ada   Lovelace ",
		Email: " Ada@Example.COM ",
		Phone: strPtr("   "),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Name != "Ada Lovelace" {
		t.Errorf("Name = %q", created.Name)
	}
	if created.Email != "ada@example.com" {
		t.Errorf("Email = %q", created.Email)
	}
	if created.Phone != nil {
		t.Errorf("blank phone should be dropped, got %q", *created.Phone)
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	found, err := store.GetByEmail(ctx, "ADA@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if found.ID != "uid-1" {
		t.Errorf("GetByEmail ID = %q", found.ID)
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{ID: "a", Name: "A", Email: "dup@example.com"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, models.User{ID: "b", Name: "B", Email: "DUP@example.com"})
	if !errors.Is(err, userstore.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GetByID(ctx, "missing"); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_GetByIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fx.CreateUser(ctx, "A", "a@example.com")
	b := fx.CreateUser(ctx, "B", "b@example.com")

	got, err := store.GetByIDs(ctx, []string{a.ID, b.ID, "ghost"})
	if err != nil {
		t.Fatalf("GetByIDs failed: %v", err)
	}
	if len(got) != 2 || got[a.ID].Name != "A" || got[b.ID].Name != "B" {
		t.Errorf("unexpected result %+v", got)
	}
}

func TestStore_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{ID: "u", Name: "Old", Email: "old@example.com", Phone: strPtr("555")}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := store.Update(ctx, "u", userstore.Patch{Name: strPtr("New Name"), Phone: strPtr("")})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Name != "New Name" || updated.NameCI != "new name" {
		t.Errorf("name not updated: %+v", updated)
	}
	if updated.Email != "old@example.com" {
		t.Errorf("email changed unexpectedly: %q", updated.Email)
	}
	if updated.Phone != nil {
		t.Errorf("phone should be removed, got %q", *updated.Phone)
	}

	same, err := store.Update(ctx, "u", userstore.Patch{})
	if err != nil {
		t.Fatalf("empty Update failed: %v", err)
	}
	if same.Name != "New Name" {
		t.Errorf("empty patch changed user: %+v", same)
	}

	if _, err := store.Update(ctx, "ghost", userstore.Patch{Name: strPtr("x")}); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
