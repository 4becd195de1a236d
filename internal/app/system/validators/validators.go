// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/nexa/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates the app's collections and attaches JSON-Schema
// validators. Deployments without collMod support are logged and skipped.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	existing := map[string]bool{}
	if names, err := db.ListCollectionNames(ctx, bson.M{}); err == nil {
		for _, n := range names {
			existing[n] = true
		}
	}

	for _, c := range collections() {
		if !existing[c.name] {
			if err := db.CreateCollection(ctx, c.name); err != nil && !isNamespaceExistsErr(err) {
				problems = append(problems, c.name+": "+err.Error())
				continue
			}
			zap.L().Info("created collection", zap.String("collection", c.name))
		}
		if c.schema == nil {
			continue
		}
		if err := setValidator(ctx, db, c.name, c.schema); err != nil {
			if isUnsupported(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", c.name))
				continue
			}
			problems = append(problems, c.name+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

type collection struct {
	name   string
	schema bson.M
}

func collections() []collection {
	return []collection{
		{"users", usersSchema()},
		{"companies", companiesSchema()},
		{"memberships", membershipsSchema()},
		{"invitations", invitationsSchema()},
		{"notifications", notificationsSchema()},
		{"credentials", nil},
		{"audit_events", nil},
	}
}

func setValidator(ctx context.Context, db *mongo.Database, name string, schema bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: schema},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

func isNamespaceExistsErr(err error) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 48 {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

// isUnsupported matches NoSuchCommand (59) and NotImplemented (115).
func isUnsupported(err error) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || ce.Code == 115) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "no such command") ||
		strings.Contains(s, "not implemented") ||
		strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

func roleEnum() bson.A {
	out := bson.A{}
	for _, r := range models.CompanyRoles {
		out = append(out, r)
	}
	return out
}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"_id", "name", "email", "created_at"},
			"properties": bson.M{
				"_id":        nonBlank,
				"name":       nonBlank,
				"email":      nonBlank,
				"phone":      bson.M{"bsonType": bson.A{"string", "null"}},
				"created_at": bson.M{"bsonType": "date"},
			},
		},
	}
}

func companiesSchema() bson.M {
	optString := bson.M{"bsonType": bson.A{"string", "null"}}
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "email", "phone", "address", "created_at"},
			"properties": bson.M{
				"name":        nonBlank,
				"email":       nonBlank,
				"phone":       bson.M{"bsonType": "string"},
				"address":     bson.M{"bsonType": "object"},
				"website":     optString,
				"description": optString,
				"industry":    optString,
				"created_at":  bson.M{"bsonType": "date"},
			},
		},
	}
}

func membershipsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"user_id", "company_id", "role", "joined_at"},
			"properties": bson.M{
				"user_id":    nonBlank,
				"company_id": bson.M{"bsonType": "objectId"},
				"role":       bson.M{"enum": roleEnum()},
				"joined_at":  bson.M{"bsonType": "date"},
			},
		},
	}
}

func invitationsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"company_id", "user_id", "invited_by", "role", "status", "created_at"},
			"properties": bson.M{
				"company_id": bson.M{"bsonType": "objectId"},
				"user_id":    nonBlank,
				"invited_by": nonBlank,
				"role":       bson.M{"enum": roleEnum()},
				"status": bson.M{"enum": bson.A{
					models.InvitationPending, models.InvitationAccepted, models.InvitationDeclined,
				}},
				"created_at":   bson.M{"bsonType": "date"},
				"responded_at": bson.M{"bsonType": bson.A{"date", "null"}},
			},
		},
	}
}

func notificationsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"user_id", "type", "read", "created_at"},
			"properties": bson.M{
				"user_id":       nonBlank,
				"type":          bson.M{"enum": bson.A{models.NotificationCompanyInvitation}},
				"read":          bson.M{"bsonType": "bool"},
				"invitation_id": bson.M{"bsonType": bson.A{"objectId", "null"}},
				"created_at":    bson.M{"bsonType": "date"},
			},
		},
	}
}
