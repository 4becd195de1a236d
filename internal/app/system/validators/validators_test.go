package validators_test

import (
	"testing"
	"time"

	"github.com/dalemusser/nexa/internal/app/system/validators"
	"github.com/dalemusser/nexa/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("first EnsureAll failed: %v", err)
	}
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("second EnsureAll failed: %v", err)
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}
	have := map[string]bool{}
	for _, n := range names {
		have[n] = true
	}
	for _, want := range []string{"users", "companies", "memberships", "invitations", "notifications", "credentials", "audit_events"} {
		if !have[want] {
			t.Errorf("collection %s not created", want)
		}
	}
}

func TestEnsureAll_RejectsBadMembershipRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	memberships := db.Collection("memberships")
	_, err := memberships.InsertOne(ctx, bson.M{
		"user_id":    "u1",
		"company_id": primitive.NewObjectID(),
		"role":       "superuser",
		"joined_at":  time.Now(),
	})
	if err == nil {
		t.Error("expected validator to reject unknown role")
	}

	_, err = memberships.InsertOne(ctx, bson.M{
		"user_id":    "u1",
		"company_id": primitive.NewObjectID(),
		"role":       "viewer",
		"joined_at":  time.Now(),
	})
	if err != nil {
		t.Errorf("valid membership rejected: %v", err)
	}
}

func TestEnsureAll_CompanyOptionalFieldsAcceptNull(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	_, err := db.Collection("companies").InsertOne(ctx, bson.M{
		"name":       "Acme",
		"email":      "info@acme.test",
		"phone":      "555",
		"address":    bson.M{"street": "1 Main"},
		"website":    nil,
		"created_at": time.Now(),
	})
	if err != nil {
		t.Errorf("company with null website rejected: %v", err)
	}
}
