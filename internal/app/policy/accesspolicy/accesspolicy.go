// Package accesspolicy resolves read/interact and author-mutation rights
// for a principal against a target entity.
//
// Authorization rules:
//   - CheckAuthor gates update/delete of content the principal must own
//     outright (own comment, own resource) regardless of visibility.
//   - CheckPermission gates read/interact rights and may delegate through
//     a parent entity: a post has no visibility of its own, so the parent
//     vacation is the authorizing document.
//   - Unmodeled sharing policies never default-allow.
//
// Target types are an explicit registry mapping each model type to its
// collection and delegation rule. The resolver is constructed once in
// bootstrap and passed to features; adding an attachable type is a
// registry entry, not a new conditional.
package accesspolicy

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tripnest/tripnest/internal/app/system/apperr"
	"github.com/tripnest/tripnest/internal/domain/models"
)

// Registered target type names. These double as the collection names
// used in polymorphic model_type fields.
const (
	TypeVacations = "vacations"
	TypePosts     = "posts"
	TypeAlbums    = "albums"
	TypeComments  = "comments"
	TypeLikes     = "likes"
	TypeResources = "resources"
)

// Rule describes how one target type is resolved.
type Rule struct {
	// Collection is the Mongo collection holding the type.
	Collection string

	// ParentType and ParentField delegate permission checks to a parent
	// entity: the check loads the target, then re-runs against
	// (ParentType, doc[ParentField]). Empty ParentType means the type
	// carries its own sharing policy.
	ParentType  string
	ParentField string
}

// AuthDoc is the authorizing document returned by a successful check.
// OwnerID is always populated so callers can derive a notification
// receiver without re-querying; it must never be left implicit.
type AuthDoc struct {
	ID          primitive.ObjectID
	OwnerID     primitive.ObjectID
	ShareStatus string
	MemberList  []primitive.ObjectID
	ShareList   []primitive.ObjectID
}

// IsMember reports whether u is in the authorizing document's member list.
func (d AuthDoc) IsMember(u primitive.ObjectID) bool {
	for _, m := range d.MemberList {
		if m == u {
			return true
		}
	}
	return false
}

// Resolver evaluates authorization against the document store.
type Resolver struct {
	db    *mongo.Database
	rules map[string]Rule
}

// New creates a Resolver with an empty registry. Use Register to add
// target types, or NewDefault for the standard set.
func New(db *mongo.Database) *Resolver {
	return &Resolver{db: db, rules: make(map[string]Rule)}
}

// NewDefault creates a Resolver with the standard target types
// registered: vacations are the policy root, posts and albums delegate
// to their vacation, and comments/likes/resources are ownable
// attachments.
func NewDefault(db *mongo.Database) *Resolver {
	r := New(db)
	r.Register(TypeVacations, Rule{Collection: "vacations"})
	r.Register(TypePosts, Rule{Collection: "posts", ParentType: TypeVacations, ParentField: "vacation_id"})
	r.Register(TypeAlbums, Rule{Collection: "albums", ParentType: TypeVacations, ParentField: "vacation_id"})
	r.Register(TypeComments, Rule{Collection: "comments"})
	r.Register(TypeLikes, Rule{Collection: "likes"})
	r.Register(TypeResources, Rule{Collection: "resources"})
	return r
}

// Register adds or replaces the rule for a target type.
func (r *Resolver) Register(targetType string, rule Rule) {
	r.rules[targetType] = rule
}

// Registered reports whether targetType has a rule.
func (r *Resolver) Registered(targetType string) bool {
	_, ok := r.rules[targetType]
	return ok
}

// authFields is the superset of fields any check needs; types without a
// field simply decode it as zero.
type authFields struct {
	ID          primitive.ObjectID   `bson:"_id"`
	UserID      primitive.ObjectID   `bson:"user_id"`
	ShareStatus string               `bson:"share_status"`
	MemberList  []primitive.ObjectID `bson:"member_list"`
	ShareList   []primitive.ObjectID `bson:"share_list"`
	VacationID  primitive.ObjectID   `bson:"vacation_id"`
}

func (f authFields) authDoc() AuthDoc {
	return AuthDoc{
		ID:          f.ID,
		OwnerID:     f.UserID,
		ShareStatus: f.ShareStatus,
		MemberList:  f.MemberList,
		ShareList:   f.ShareList,
	}
}

func (r *Resolver) load(ctx context.Context, rule Rule, id primitive.ObjectID, targetType string) (authFields, error) {
	var f authFields
	err := r.db.Collection(rule.Collection).FindOne(ctx, bson.M{"_id": id}).Decode(&f)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return authFields{}, apperr.NotFoundf("%s not found", targetType)
	}
	if err != nil {
		return authFields{}, apperr.Wrap(err, "loading "+targetType)
	}
	return f, nil
}

// CheckAuthor loads the target and grants only if the principal owns the
// document outright. It returns the authorizing document for in-place
// mutation by the caller.
func (r *Resolver) CheckAuthor(ctx context.Context, targetType string, targetID, principal primitive.ObjectID) (AuthDoc, error) {
	rule, ok := r.rules[targetType]
	if !ok {
		return AuthDoc{}, apperr.Validationf(
			[]apperr.FieldError{{Field: "type", Message: "unknown model type"}},
			"unknown model type %q", targetType)
	}
	f, err := r.load(ctx, rule, targetID, targetType)
	if err != nil {
		return AuthDoc{}, err
	}
	if f.UserID != principal {
		return AuthDoc{}, apperr.Forbiddenf("user is not the author of this %s", targetType)
	}
	return f.authDoc(), nil
}

// CheckPermission resolves read/interact rights for the principal,
// walking to the parent entity for delegated types. The returned AuthDoc
// is the document whose sharing policy actually governed the decision.
func (r *Resolver) CheckPermission(ctx context.Context, principal primitive.ObjectID, targetType string, targetID primitive.ObjectID) (AuthDoc, error) {
	rule, ok := r.rules[targetType]
	if !ok {
		return AuthDoc{}, apperr.Validationf(
			[]apperr.FieldError{{Field: "type", Message: "unknown model type"}},
			"unknown model type %q", targetType)
	}

	f, err := r.load(ctx, rule, targetID, targetType)
	if err != nil {
		return AuthDoc{}, err
	}

	// Delegated types have no policy of their own; the parent decides.
	if rule.ParentType != "" {
		parentID := f.VacationID
		if parentID.IsZero() {
			return AuthDoc{}, apperr.NotFoundf("%s has no parent %s", targetType, rule.ParentType)
		}
		return r.CheckPermission(ctx, principal, rule.ParentType, parentID)
	}

	switch f.ShareStatus {
	case models.SharePublic:
		return f.authDoc(), nil
	case models.ShareProtected:
		for _, u := range f.ShareList {
			if u == principal {
				return f.authDoc(), nil
			}
		}
		return AuthDoc{}, apperr.Forbiddenf("this %s has not been shared with the user", targetType)
	case models.ShareOnlyMe:
		if f.UserID == principal {
			return f.authDoc(), nil
		}
		return AuthDoc{}, apperr.Forbiddenf("this %s is private", targetType)
	default:
		// Unmodeled policy must never default-allow.
		return AuthDoc{}, apperr.Forbiddenf("unrecognized sharing policy on this %s", targetType)
	}
}
