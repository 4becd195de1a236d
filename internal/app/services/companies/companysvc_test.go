package companysvc_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	companysvc "github.com/dalemusser/nexa/internal/app/services/companies"
	notificationsvc "github.com/dalemusser/nexa/internal/app/services/notifications"
	"github.com/dalemusser/nexa/internal/app/system/apperr"
	"github.com/dalemusser/nexa/internal/app/system/inputval"
	"github.com/dalemusser/nexa/internal/app/system/txn"
	"github.com/dalemusser/nexa/internal/domain/models"
	"github.com/dalemusser/nexa/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newService(db *mongo.Database) *companysvc.Service {
	return companysvc.New(db, txn.New(db, zap.NewNop()), notificationsvc.New(db), zap.NewNop())
}

func validInput() companysvc.Input {
	return companysvc.Input{
		Name:  "Acme Corp",
		Email: "hello@acme.test",
		Phone: "555-010-0000",
		Address: companysvc.AddressInput{
			Street: "1 Loop", City: "Austin", State: "TX", PostalCode: "73301", Country: "United States",
		},
		Description: "<b>Widgets</b> and more",
	}
}

func count(t *testing.T, ctx context.Context, db *mongo.Database, coll string, filter bson.M) int64 {
	t.Helper()
	n, err := db.Collection(coll).CountDocuments(ctx, filter)
	if err != nil {
		t.Fatalf("count %s: %v", coll, err)
	}
	return n
}

func TestService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newService(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c, err := svc.Create(ctx, validInput(), "owner-uid")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if c.Website != nil || c.Industry != nil {
		t.Errorf("empty optional fields should be nil: website=%v industry=%v", c.Website, c.Industry)
	}
	if c.Description == nil || *c.Description != "Widgets and more" {
		t.Errorf("Description = %v", c.Description)
	}

	var m models.Membership
	if err := db.Collection("memberships").FindOne(ctx, bson.M{"company_id": c.ID}).Decode(&m); err != nil {
		t.Fatalf("owner membership missing: %v", err)
	}
	if m.UserID != "owner-uid" || m.Role != models.RoleOwner {
		t.Errorf("unexpected membership %+v", m)
	}
}

func TestService_Create_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newService(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	in := validInput()
	in.Name = "A"
	in.Address.City = ""
	in.Website = "ftp://acme.test"

	_, err := svc.Create(ctx, in, "owner-uid")
	ae, ok := apperr.As(err)
	if !ok || ae.Code != apperr.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"name", "address.city", "website"} {
		if _, ok := ae.Fields[field]; !ok {
			t.Errorf("expected error for %q, got %v", field, ae.Fields)
		}
	}
	if n := count(t, ctx, db, "companies", bson.M{}); n != 0 {
		t.Errorf("companies written: %d", n)
	}
}

func TestService_Get(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newService(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c := fx.CreateCompany(ctx, "Acme")
	got, err := svc.Get(ctx, c.ID.Hex())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "Acme" {
		t.Errorf("Name = %q", got.Name)
	}

	for _, id := range []string{"bogus", primitive.NewObjectID().Hex()} {
		if _, err := svc.Get(ctx, id); !apperr.HasStatus(err, http.StatusNotFound) {
			t.Errorf("Get(%q): expected 404, got %v", id, err)
		}
	}
}

func TestService_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newService(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	in := validInput()
	in.Website = "https://acme.test"
	c, err := svc.Create(ctx, in, "owner-uid")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("clear website", func(t *testing.T) {
		got, changed, err := svc.Update(ctx, c.ID.Hex(), companysvc.Patch{Website: inputval.Some("")}, "owner-uid")
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if got.Website != nil {
			t.Errorf("website should be null, got %q", *got.Website)
		}
		if len(changed) != 1 || changed[0] != "website" {
			t.Errorf("changed = %v", changed)
		}
	})

	t.Run("empty patch", func(t *testing.T) {
		got, changed, err := svc.Update(ctx, c.ID.Hex(), companysvc.Patch{}, "owner-uid")
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if got.Name != c.Name || got.Address != c.Address || len(changed) != 0 {
			t.Errorf("empty patch changed company: %+v %v", got, changed)
		}
	})

	t.Run("address merge", func(t *testing.T) {
		got, _, err := svc.Update(ctx, c.ID.Hex(), companysvc.Patch{
			Address: &companysvc.AddressPatch{City: inputval.Some("Dallas")},
		}, "owner-uid")
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if got.Address.City != "Dallas" || got.Address.Street != "1 Loop" {
			t.Errorf("unexpected address %+v", got.Address)
		}
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name  string
			patch companysvc.Patch
			field string
		}{
			{"short name", companysvc.Patch{Name: inputval.Some("x")}, "name"},
			{"markup-only name", companysvc.Patch{Name: inputval.Some("<i></i>")}, "name"},
			{"blank city", companysvc.Patch{Address: &companysvc.AddressPatch{City: inputval.Some("")}}, "address.city"},
			{"short street", companysvc.Patch{Address: &companysvc.AddressPatch{Street: inputval.Some("AB")}}, "address.street"},
			{"short postal code", companysvc.Patch{Address: &companysvc.AddressPatch{PostalCode: inputval.Some("12")}}, "address.postalCode"},
			{"blank country", companysvc.Patch{Address: &companysvc.AddressPatch{Country: inputval.Some("")}}, "address.country"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, _, err := svc.Update(ctx, c.ID.Hex(), tt.patch, "owner-uid")
				ae, ok := apperr.As(err)
				if !ok || ae.Code != apperr.CodeValidation || ae.Status != http.StatusBadRequest {
					t.Fatalf("expected 400 validation error, got %v", err)
				}
				if _, ok := ae.Fields[tt.field]; !ok {
					t.Errorf("expected error for %q, got %v", tt.field, ae.Fields)
				}
			})
		}

		stored, err := svc.Get(ctx, c.ID.Hex())
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if stored.Name == "" || stored.Address.City == "" || stored.Address.Country == "" {
			t.Errorf("rejected patch reached the store: %+v", stored)
		}
	})

	t.Run("name markup stripped", func(t *testing.T) {
		got, _, err := svc.Update(ctx, c.ID.Hex(), companysvc.Patch{Name: inputval.Some("<b>Acme Labs</b>")}, "owner-uid")
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if got.Name != "Acme Labs" {
			t.Errorf("name = %q, want %q", got.Name, "Acme Labs")
		}
	})
}

func TestValidateInput_MarkupOnlyFields(t *testing.T) {
	in := validInput()
	in.Name = "<i></i>"
	fields := companysvc.ValidateInput(in)
	if _, ok := fields["name"]; !ok {
		t.Fatalf("expected error for name, got %v", fields)
	}

	in = validInput()
	in.Description = "<script>alert(1)</script>"
	if fields := companysvc.ValidateInput(in); fields != nil {
		t.Errorf("stripped description should be accepted as empty, got %v", fields)
	}
	if got := in.Company().Description; got != nil {
		t.Errorf("description = %q, want nil", *got)
	}
}

func TestService_Create_MarkupOnlyName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newService(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	in := validInput()
	in.Name = "<i></i>"
	_, err := svc.Create(ctx, in, "owner-uid")
	ae, ok := apperr.As(err)
	if !ok || ae.Status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
	if _, ok := ae.Fields["name"]; !ok {
		t.Errorf("expected error for name, got %v", ae.Fields)
	}
	if n := count(t, ctx, db, "companies", bson.M{}); n != 0 {
		t.Errorf("companies written: %d", n)
	}
}

func TestService_Update_Authorization(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newService(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c := fx.CreateCompany(ctx, "Acme")
	fx.AddMembership(ctx, c.ID, "admin", models.RoleAdmin)
	fx.AddMembership(ctx, c.ID, "member", models.RoleMember)
	fx.AddMembership(ctx, c.ID, "viewer", models.RoleViewer)

	patch := companysvc.Patch{Name: inputval.Some("Renamed")}
	tests := []struct {
		uid    string
		status int
	}{
		{"member", http.StatusForbidden},
		{"viewer", http.StatusForbidden},
		{"stranger", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.uid, func(t *testing.T) {
			_, _, err := svc.Update(ctx, c.ID.Hex(), patch, tt.uid)
			if !apperr.HasStatus(err, tt.status) {
				t.Errorf("expected %d, got %v", tt.status, err)
			}
		})
	}

	if _, _, err := svc.Update(ctx, primitive.NewObjectID().Hex(), patch, "admin"); !apperr.HasStatus(err, http.StatusNotFound) {
		t.Errorf("expected 404 for missing company, got %v", err)
	}

	got, _, err := svc.Update(ctx, c.ID.Hex(), patch, "admin")
	if err != nil {
		t.Fatalf("admin Update failed: %v", err)
	}
	if got.Name != "Renamed" {
		t.Errorf("Name = %q", got.Name)
	}
}

func TestService_Members(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newService(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c := fx.CreateCompany(ctx, "Acme")
	owner := fx.CreateUser(ctx, "Olivia", "olivia@example.com")
	fx.AddMembership(ctx, c.ID, owner.ID, models.RoleOwner)
	time.Sleep(5 * time.Millisecond)
	fx.AddMembership(ctx, c.ID, "ghost-uid", models.RoleMember)
	fx.AddMembership(ctx, c.ID, "viewer-uid", models.RoleViewer)

	members, err := svc.Members(ctx, c.ID.Hex(), owner.ID)
	if err != nil {
		t.Fatalf("Members failed: %v", err)
	}
	if len(members) != 3 {
		t.Fatalf("expected 3 members, got %d", len(members))
	}
	if members[0].UserID != owner.ID || members[0].Name != "Olivia" {
		t.Errorf("first member = %+v", members[0])
	}
	if members[1].Name != companysvc.UnknownUserName || members[1].Email != "" {
		t.Errorf("missing profile should be unknown user, got %+v", members[1])
	}

	for _, uid := range []string{"ghost-uid", "viewer-uid"} {
		if _, err := svc.Members(ctx, c.ID.Hex(), uid); !apperr.HasStatus(err, http.StatusForbidden) {
			t.Errorf("%s: expected 403, got %v", uid, err)
		}
	}
}

func TestService_AddMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newService(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c := fx.CreateCompany(ctx, "Acme")
	owner := fx.CreateUser(ctx, "Olivia", "olivia@example.com")
	admin := fx.CreateUser(ctx, "Adam", "adam@example.com")
	member := fx.CreateUser(ctx, "Mia", "mia@example.com")
	invited := fx.CreateUser(ctx, "Ivan", "ivan@example.com")
	fresh := fx.CreateUser(ctx, "Fay", "fay@example.com")
	fx.AddMembership(ctx, c.ID, owner.ID, models.RoleOwner)
	fx.AddMembership(ctx, c.ID, admin.ID, models.RoleAdmin)
	fx.AddMembership(ctx, c.ID, member.ID, models.RoleMember)
	fx.CreateInvitation(ctx, c.ID, invited.ID, owner.ID, models.RoleViewer, models.InvitationPending)

	tests := []struct {
		name      string
		requester string
		in        companysvc.AddMemberInput
		status    int
		code      string
	}{
		{"bad role", owner.ID, companysvc.AddMemberInput{Email: fresh.Email, Role: "boss"}, http.StatusBadRequest, apperr.CodeValidation},
		{"member cannot add", member.ID, companysvc.AddMemberInput{Email: fresh.Email, Role: models.RoleViewer}, http.StatusForbidden, apperr.CodeForbidden},
		{"admin grants owner to unknown", admin.ID, companysvc.AddMemberInput{Email: "nobody@example.com", Role: models.RoleOwner}, http.StatusForbidden, apperr.CodeForbidden},
		{"admin grants owner to member", admin.ID, companysvc.AddMemberInput{Email: member.Email, Role: models.RoleOwner}, http.StatusForbidden, apperr.CodeForbidden},
		{"unregistered", owner.ID, companysvc.AddMemberInput{Email: "nobody@example.com", Role: models.RoleMember}, http.StatusNotFound, apperr.CodeUserNotRegistered},
		{"already member", owner.ID, companysvc.AddMemberInput{Email: member.Email, Role: models.RoleAdmin}, http.StatusConflict, apperr.CodeAlreadyMember},
		{"pending invitation", admin.ID, companysvc.AddMemberInput{Email: invited.Email, Role: models.RoleMember}, http.StatusConflict, apperr.CodePendingInvitation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddMember(ctx, c.ID.Hex(), tt.requester, tt.in)
			ae, ok := apperr.As(err)
			if !ok {
				t.Fatalf("expected app error, got %v", err)
			}
			if ae.Status != tt.status || ae.Code != tt.code {
				t.Errorf("got %d %s, want %d %s", ae.Status, ae.Code, tt.status, tt.code)
			}
		})
	}

	if n := count(t, ctx, db, "invitations", bson.M{}); n != 1 {
		t.Errorf("failed attempts wrote invitations: %d", n)
	}

	res, err := svc.AddMember(ctx, c.ID.Hex(), admin.ID, companysvc.AddMemberInput{Email: " FAY@example.com ", Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	if !res.InvitationSent || res.UserID != fresh.ID || res.JoinedAt != "" || res.Role != models.RoleAdmin {
		t.Errorf("unexpected result %+v", res)
	}

	invID, _ := primitive.ObjectIDFromHex(res.InvitationID)
	var note models.Notification
	if err := db.Collection("notifications").FindOne(ctx, bson.M{"invitation_id": invID}).Decode(&note); err != nil {
		t.Fatalf("notification missing: %v", err)
	}
	if note.UserID != fresh.ID || note.Data.CompanyName != "Acme" || note.Data.InviterName != "Adam" || note.Read {
		t.Errorf("unexpected notification %+v", note)
	}
	if n := count(t, ctx, db, "memberships", bson.M{"user_id": fresh.ID}); n != 0 {
		t.Errorf("membership created before acceptance")
	}
}
