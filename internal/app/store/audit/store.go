// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event categories
const (
	CategoryAuth  = "auth"
	CategoryAdmin = "admin"
)

// Auth event types
const (
	EventRegisterSuccess            = "register_success"
	EventRegisterFailed             = "register_failed"
	EventLoginSuccess               = "login_success"
	EventLoginFailedBadCredentials  = "login_failed_bad_credentials"
	EventLoginFailedUserDisabled    = "login_failed_user_disabled"
	EventLoginFailedRateLimit       = "login_failed_rate_limit"
	EventLoginFailedProfileNotFound = "login_failed_profile_not_found"
	EventTokenRefreshed             = "token_refreshed"
)

// Admin event types
const (
	EventUserUpdated        = "user_updated"
	EventCompanyCreated     = "company_created"
	EventCompanyUpdated     = "company_updated"
	EventMemberInvited      = "member_invited"
	EventInvitationAccepted = "invitation_accepted"
	EventInvitationDeclined = "invitation_declined"
)

// Event is one audit record. User and actor ids are identity provider uids.
type Event struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty"`
	Timestamp time.Time           `bson:"timestamp"`
	CompanyID *primitive.ObjectID `bson:"company_id,omitempty"`

	Category  string `bson:"category"`
	EventType string `bson:"event_type"`

	UserID  string `bson:"user_id,omitempty"`  // affected user
	ActorID string `bson:"actor_id,omitempty"` // who performed an admin action

	IP        string `bson:"ip"`
	UserAgent string `bson:"user_agent,omitempty"`

	Success       bool   `bson:"success"`
	FailureReason string `bson:"failure_reason,omitempty"`

	Details map[string]string `bson:"details,omitempty"`
}

// QueryFilter narrows Query. Zero fields are ignored.
type QueryFilter struct {
	CompanyID *primitive.ObjectID
	UserID    string
	Category  string
	EventType string
	Since     *time.Time
	Limit     int64
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_events")}
}

// Log inserts event, filling ID and Timestamp when unset.
func (s *Store) Log(ctx context.Context, event Event) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, event)
	return err
}

// Query returns matching events, newest first. Limit defaults to 100.
func (s *Store) Query(ctx context.Context, f QueryFilter) ([]Event, error) {
	q := bson.M{}
	if f.CompanyID != nil {
		q["company_id"] = *f.CompanyID
	}
	if f.UserID != "" {
		q["user_id"] = f.UserID
	}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.EventType != "" {
		q["event_type"] = f.EventType
	}
	if f.Since != nil {
		q["timestamp"] = bson.M{"$gte": *f.Since}
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	events := []Event{}
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
