// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Spec is the desired index set of one collection.
type Spec struct {
	Collection string
	Indexes    []mongo.IndexModel
}

// Specs lists every index the app relies on.
func Specs() []Spec {
	return []Spec{
		{Collection: "users", Indexes: []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_users_email"),
			},
			{
				Keys:    bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}},
				Options: options.Index().SetName("idx_users_nameci_id"),
			},
		}},
		{Collection: "companies", Indexes: []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}},
				Options: options.Index().SetName("idx_companies_nameci_id"),
			},
		}},
		{Collection: "memberships", Indexes: []mongo.IndexModel{
			// One membership per (user, company).
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "company_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_memberships_user_company"),
			},
			// Members listing in join order.
			{
				Keys:    bson.D{{Key: "company_id", Value: 1}, {Key: "joined_at", Value: 1}},
				Options: options.Index().SetName("idx_memberships_company_joined"),
			},
		}},
		{Collection: "invitations", Indexes: []mongo.IndexModel{
			{
				Keys: bson.D{
					{Key: "company_id", Value: 1},
					{Key: "user_id", Value: 1},
					{Key: "status", Value: 1},
				},
				Options: options.Index().SetName("idx_invitations_company_user_status"),
			},
			{
				Keys: bson.D{
					{Key: "user_id", Value: 1},
					{Key: "status", Value: 1},
					{Key: "created_at", Value: -1},
				},
				Options: options.Index().SetName("idx_invitations_user_status_created"),
			},
		}},
		{Collection: "notifications", Indexes: []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_notifications_user_created"),
			},
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "read", Value: 1}},
				Options: options.Index().SetName("idx_notifications_user_read"),
			},
			{
				Keys:    bson.D{{Key: "invitation_id", Value: 1}},
				Options: options.Index().SetName("idx_notifications_invitation"),
			},
			// Retention sweep.
			{
				Keys:    bson.D{{Key: "read", Value: 1}, {Key: "created_at", Value: 1}},
				Options: options.Index().SetName("idx_notifications_read_created"),
			},
		}},
		{Collection: "credentials", Indexes: []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_credentials_email"),
			},
		}},
		{Collection: "audit_events", Indexes: []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "timestamp", Value: -1}},
				Options: options.Index().SetName("idx_audit_timestamp"),
			},
			{
				Keys:    bson.D{{Key: "company_id", Value: 1}, {Key: "timestamp", Value: -1}},
				Options: options.Index().SetName("idx_audit_company_timestamp"),
			},
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}},
				Options: options.Index().SetName("idx_audit_user_timestamp"),
			},
			{
				Keys: bson.D{
					{Key: "category", Value: 1},
					{Key: "event_type", Value: 1},
					{Key: "timestamp", Value: -1},
				},
				Options: options.Index().SetName("idx_audit_category_type_timestamp"),
			},
		}},
	}
}

/*
EnsureAll reconciles every Spec. Each step is idempotent; problems are
collected so startup fails with the full list.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string
	for _, s := range Specs() {
		if err := ensureIndexSet(ctx, db.Collection(s.Collection), s.Indexes); err != nil {
			problems = append(problems, s.Collection+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func isUnique(p *bool) bool { return p != nil && *p }

func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

func listIndexes(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]existingIndex{}
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out, cur.Err()
}

// ensureIndexSet creates missing indexes, reuses matching ones, and drops and
// recreates an index whose name or uniqueness differs from the desired model.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	existing, err := listIndexes(ctx, coll)
	if err != nil {
		// The collection may not exist yet; CreateOne will create it.
		existing = map[string]existingIndex{}
	}

	var errs []string
	for _, m := range models {
		name, unique := "", false
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = isUnique(m.Options.Unique)
		}
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()
		log := zap.L().With(
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", unique))

		ex, found := existing[sig]
		if found && isUnique(ex.Unique) == unique && (name == "" || ex.Name == name) {
			log.Debug("reusing existing index")
			continue
		}
		if found {
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s: drop %s failed: %v", name, ex.Name, err))
				continue
			}
			log.Info("dropped index to recreate", zap.String("old_name", ex.Name))
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if unique && isDuplicateKeyErr(err) {
				errs = append(errs, fmt.Sprintf("%s: cannot create unique index on (%s), duplicates present", name, sig))
			} else {
				errs = append(errs, fmt.Sprintf("%s: %v", name, err))
			}
			log.Warn("index ensure failed", zap.Error(err))
			continue
		}
		log.Info("index ensured", zap.Duration("took", time.Since(start)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
