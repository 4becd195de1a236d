package usersvc_test

import (
	"net/http"
	"testing"

	usersvc "github.com/dalemusser/nexa/internal/app/services/users"
	"github.com/dalemusser/nexa/internal/app/system/apperr"
	"github.com/dalemusser/nexa/internal/app/system/inputval"
	"github.com/dalemusser/nexa/internal/domain/models"
	"github.com/dalemusser/nexa/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestService_Get(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := usersvc.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "Ada", "ada@example.com")
	got, err := svc.Get(ctx, u.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Email != "ada@example.com" {
		t.Errorf("Email = %q", got.Email)
	}

	if _, err := svc.Get(ctx, "ghost"); !apperr.HasStatus(err, http.StatusNotFound) {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestService_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := usersvc.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "Ada", "ada@example.com")
	if _, err := db.Collection("users").UpdateByID(ctx, u.ID, bson.M{"$set": bson.M{"phone": "555"}}); err != nil {
		t.Fatalf("seed phone: %v", err)
	}

	updated, changed, err := svc.Update(ctx, u.ID, usersvc.UpdateInput{
		Name:  inputval.Some("Ada King"),
		Phone: inputval.OptString{Set: true, Null: true},
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Name != "Ada King" {
		t.Errorf("Name = %q", updated.Name)
	}
	if updated.Phone != nil {
		t.Errorf("phone should be removed, got %q", *updated.Phone)
	}
	if len(changed) != 2 {
		t.Errorf("changed = %v", changed)
	}
}

func TestService_Update_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := usersvc.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "Ada", "ada@example.com")
	other := fx.CreateUser(ctx, "Bob", "bob@example.com")

	tests := []struct {
		name  string
		in    usersvc.UpdateInput
		field string
	}{
		{"short name", usersvc.UpdateInput{Name: inputval.Some("A")}, "name"},
		{"markup-only name", usersvc.UpdateInput{Name: inputval.Some("<b></b>")}, "name"},
		{"bad email", usersvc.UpdateInput{Email: inputval.Some("nope")}, "email"},
		{"taken email", usersvc.UpdateInput{Email: inputval.Some(other.Email)}, "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Update(ctx, u.ID, tt.in)
			ae, ok := apperr.As(err)
			if !ok || ae.Code != apperr.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			if _, ok := ae.Fields[tt.field]; !ok {
				t.Errorf("expected field %q in %v", tt.field, ae.Fields)
			}
		})
	}
}

func TestService_Companies(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := usersvc.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "Ada", "ada@example.com")
	c := fx.CreateCompany(ctx, "Acme")
	fx.AddMembership(ctx, c.ID, u.ID, models.RoleAdmin)

	orphan := fx.CreateCompany(ctx, "Gone")
	fx.AddMembership(ctx, orphan.ID, u.ID, models.RoleViewer)
	if _, err := db.Collection("companies").DeleteOne(ctx, bson.M{"_id": orphan.ID}); err != nil {
		t.Fatalf("delete company: %v", err)
	}

	list, err := svc.Companies(ctx, u.ID)
	if err != nil {
		t.Fatalf("Companies failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 company, got %d", len(list))
	}
	got := list[0]
	if got.CompanyID != c.ID.Hex() || got.CompanyName != "Acme" || got.Role != models.RoleAdmin {
		t.Errorf("unexpected membership %+v", got)
	}

	none, err := svc.Companies(ctx, "nobody")
	if err != nil {
		t.Fatalf("Companies failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no companies, got %d", len(none))
	}
}
