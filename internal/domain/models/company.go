// internal/domain/models/company.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address is embedded in Company. All subfields are always present in API
// output; missing values read back as "".
type Address struct {
	Street     string `bson:"street" json:"street"`
	City       string `bson:"city" json:"city"`
	State      string `bson:"state" json:"state"`
	PostalCode string `bson:"postal_code" json:"postalCode"`
	Country    string `bson:"country" json:"country"`
}

// Company is a tenant. Website, Description and Industry are nil when unset
// or explicitly cleared.
type Company struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Email       string             `bson:"email" json:"email"`
	Phone       string             `bson:"phone" json:"phone"`
	Address     Address            `bson:"address" json:"address"`
	Website     *string            `bson:"website" json:"website"`
	Description *string            `bson:"description" json:"description"`
	Industry    *string            `bson:"industry" json:"industry"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}
