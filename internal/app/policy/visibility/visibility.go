// Package visibility translates a vacation's sharing policy and the
// requesting principal into a storage-level filter predicate.
//
// The predicate runs inside the aggregation ($match), not after the
// query, so unauthorized documents are never loaded at all. It is the
// only gate for list visibility; there is no post-filtering step, so it
// must be exact.
package visibility

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tripnest/tripnest/internal/domain/models"
)

// FeedType selects which public disjunct applies to a listing.
type FeedType string

const (
	// NewFeed lists everything visible to the principal.
	NewFeed FeedType = "newFeed"

	// UserProfile lists only vacations the principal is a member of.
	UserProfile FeedType = "userProfile"
)

// ParseFeedType maps the raw query value to a FeedType,
// defaulting to NewFeed for anything unrecognized.
func ParseFeedType(s string) FeedType {
	if s == string(UserProfile) {
		return UserProfile
	}
	return NewFeed
}

// Predicate builds the visibility filter for the querying principal u.
// A vacation is admitted when any of the three disjuncts holds:
//
//  1. public; unconditionally for NewFeed, for UserProfile only when
//     u is in the member list,
//  2. protected and u is in the share list,
//  3. onlyme and u is the owner.
//
// Any document whose share_status matches none of the modeled policies
// is excluded (default-deny).
func Predicate(u primitive.ObjectID, feed FeedType) bson.M {
	public := bson.M{"share_status": models.SharePublic}
	if feed == UserProfile {
		public = bson.M{"share_status": models.SharePublic, "member_list": u}
	}

	return bson.M{"$or": bson.A{
		public,
		bson.M{"share_status": models.ShareProtected, "share_list": u},
		bson.M{"share_status": models.ShareOnlyMe, "user_id": u},
	}}
}
