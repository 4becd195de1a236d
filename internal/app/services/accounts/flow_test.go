package accountsvc_test

import (
	"testing"

	accountsvc "github.com/dalemusser/nexa/internal/app/services/accounts"
	companysvc "github.com/dalemusser/nexa/internal/app/services/companies"
	invitationsvc "github.com/dalemusser/nexa/internal/app/services/invitations"
	notificationsvc "github.com/dalemusser/nexa/internal/app/services/notifications"
	usersvc "github.com/dalemusser/nexa/internal/app/services/users"
	"github.com/dalemusser/nexa/internal/app/system/txn"
	"github.com/dalemusser/nexa/internal/domain/models"
	"github.com/dalemusser/nexa/internal/testutil"
	"go.uber.org/zap"
)

// Register an owner, create a company, invite a second user as admin and
// have them accept.
func TestOnboardingFlow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	log := zap.NewNop()
	tx := txn.New(db, log)
	notes := notificationsvc.New(db)
	companies := companysvc.New(db, tx, notes, log)
	invitations := invitationsvc.New(db, tx, notes, log)
	users := usersvc.New(db)
	accounts := accountsvc.New(db, testutil.NewFakeProvider(), tx, companies, accountsvc.Config{}, log)

	owner, err := accounts.Register(ctx, accountsvc.RegisterInput{User: accountsvc.RegisterUser{
		Name: "Olivia", Email: "olivia@example.com", Password: "Secret123",
	}})
	if err != nil {
		t.Fatalf("register owner: %v", err)
	}
	invitee, err := accounts.Register(ctx, accountsvc.RegisterInput{User: accountsvc.RegisterUser{
		Name: "Ivan", Email: "ivan@example.com", Password: "Secret123",
	}})
	if err != nil {
		t.Fatalf("register invitee: %v", err)
	}

	company, err := companies.Create(ctx, *validCompany(), owner.UID)
	if err != nil {
		t.Fatalf("create company: %v", err)
	}

	added, err := companies.AddMember(ctx, company.ID.Hex(), owner.UID, companysvc.AddMemberInput{
		Email: "ivan@example.com", Role: models.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("add member: %v", err)
	}

	unread, err := notes.UnreadCount(ctx, invitee.UID)
	if err != nil || unread != 1 {
		t.Fatalf("invitee unread = %d, err = %v", unread, err)
	}

	if _, err := invitations.Accept(ctx, added.InvitationID, invitee.UID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	members, err := companies.Members(ctx, company.ID.Hex(), invitee.UID)
	if err != nil {
		t.Fatalf("new admin listing members: %v", err)
	}
	if len(members) != 2 || members[0].Role != models.RoleOwner || members[1].Role != models.RoleAdmin {
		t.Errorf("unexpected members %+v", members)
	}

	mine, err := users.Companies(ctx, invitee.UID)
	if err != nil {
		t.Fatalf("user companies: %v", err)
	}
	if len(mine) != 1 || mine[0].CompanyName != "Acme" || mine[0].Role != models.RoleAdmin {
		t.Errorf("unexpected companies %+v", mine)
	}

	unread, _ = notes.UnreadCount(ctx, invitee.UID)
	if unread != 0 {
		t.Errorf("notification not marked read: %d", unread)
	}
}
