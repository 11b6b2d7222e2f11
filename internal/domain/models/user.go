// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account that can own vacations, post, comment,
// and like content.
//
// NOTE:
//   - Friendships are not embedded on User. Use the friendships
//     collection to discover a user's friends.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username    string             `bson:"username" json:"username"`
	UsernameCI  string             `bson:"username_ci" json:"username_ci"` // lowercase, diacritics-stripped
	Email       string             `bson:"email" json:"email"`
	FirstName   string             `bson:"first_name,omitempty" json:"first_name,omitempty"`
	LastName    string             `bson:"last_name,omitempty" json:"last_name,omitempty"`
	Avatar      string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`

	AuthMethod   string `bson:"auth_method,omitempty" json:"auth_method,omitempty"` // "password" | "google"
	PasswordHash string `bson:"password_hash,omitempty" json:"-"`

	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at" json:"updated_at"`
	LastActiveAt *time.Time `bson:"last_active_at,omitempty" json:"last_active_at,omitempty"`
}
