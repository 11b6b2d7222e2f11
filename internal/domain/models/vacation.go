// internal/domain/models/vacation.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Share status values for a vacation. The sharing policy on the
// vacation governs visibility of the vacation and of every post
// inside it (posts carry no policy of their own).
const (
	SharePublic    = "public"
	ShareProtected = "protected"
	ShareOnlyMe    = "onlyme"
)

// ValidShareStatus reports whether s is a recognized sharing policy.
// Unrecognized values must always be treated as deny.
func ValidShareStatus(s string) bool {
	return s == SharePublic || s == ShareProtected || s == ShareOnlyMe
}

// Vacation is the root content entity: a trip a user documents with posts.
//
// Invariants (maintained by the vacations store, relied on by policy code):
//   - UserID (the owner) is always present in MemberList.
//   - ShareList is populated only when ShareStatus is "protected", and then
//     it is a superset of MemberList. For any other status it is nil.
type Vacation struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`

	ShareStatus string               `bson:"share_status" json:"share_status"`
	MemberList  []primitive.ObjectID `bson:"member_list" json:"member_list"`
	ShareList   []primitive.ObjectID `bson:"share_list,omitempty" json:"share_list,omitempty"`

	StartingTime time.Time `bson:"starting_time,omitempty" json:"starting_time,omitempty"`
	EndingTime   time.Time `bson:"ending_time,omitempty" json:"ending_time,omitempty"`

	Views int64 `bson:"views" json:"views"`

	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	LastUpdateAt time.Time `bson:"last_update_at" json:"last_update_at"`
}
