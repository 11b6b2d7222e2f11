// internal/app/store/vacations/vacationstore.go

// Package vacationstore owns the vacations collection and the list
// invariants the policy layer relies on:
//   - the owner is always present in member_list,
//   - share_list exists only for protected vacations and is then a
//     superset of member_list.
//
// Both are enforced here at create/update time rather than trusted from
// client input.
package vacationstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tripnest/tripnest/internal/app/system/apperr"
	"github.com/tripnest/tripnest/internal/app/system/htmlsanitize"
	"github.com/tripnest/tripnest/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("vacations")}
}

// GetByID loads a vacation by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Vacation, error) {
	var v models.Vacation
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

// NormalizeLists computes the stored member and share lists from client
// input for a vacation owned by owner.
//
// The member list is the submitted list with the owner added and
// duplicates removed (just the owner when nothing was submitted). For
// protected vacations the share list is the union of that member list
// and the submitted share list; for any other status it is nil.
func NormalizeLists(owner primitive.ObjectID, shareStatus string, memberList, shareList []primitive.ObjectID) (members, share []primitive.ObjectID) {
	members = dedupe(append([]primitive.ObjectID{owner}, memberList...))
	if shareStatus == models.ShareProtected {
		share = dedupe(append(append([]primitive.ObjectID{}, members...), shareList...))
	}
	return members, share
}

func dedupe(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func validateTimes(start, end time.Time) error {
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return apperr.Validationf(
			[]apperr.FieldError{{Field: "endingTime", Message: "endingTime must be after startingTime"}},
			"invalid endingTime")
	}
	return nil
}

func validateShareStatus(status string) error {
	if !models.ValidShareStatus(status) {
		return apperr.Validationf(
			[]apperr.FieldError{{Field: "shareStatus", Message: "shareStatus must be public, protected, or onlyme"}},
			"invalid shareStatus %q", status)
	}
	return nil
}

// Create validates and inserts a new vacation for owner, normalizing
// the member and share lists.
func (s *Store) Create(ctx context.Context, owner primitive.ObjectID, v models.Vacation) (models.Vacation, error) {
	if err := validateShareStatus(v.ShareStatus); err != nil {
		return models.Vacation{}, err
	}
	if err := validateTimes(v.StartingTime, v.EndingTime); err != nil {
		return models.Vacation{}, err
	}

	now := time.Now().UTC()
	v.ID = primitive.NewObjectID()
	v.UserID = owner
	v.Description = htmlsanitize.Sanitize(v.Description)
	v.MemberList, v.ShareList = NormalizeLists(owner, v.ShareStatus, v.MemberList, v.ShareList)
	v.Views = 0
	v.CreatedAt = now
	v.LastUpdateAt = now

	if _, err := s.c.InsertOne(ctx, v); err != nil {
		return models.Vacation{}, apperr.Wrap(err, "inserting vacation")
	}
	return v, nil
}

// UpdateParams are the mutable vacation fields. Nil pointers leave the
// stored value unchanged; list fields are always renormalized because a
// share status change invalidates the previous share list.
type UpdateParams struct {
	Title        *string
	Description  *string
	ShareStatus  *string
	MemberList   []primitive.ObjectID
	ShareList    []primitive.ObjectID
	StartingTime *time.Time
	EndingTime   *time.Time
}

// Update validates and applies params to the vacation owned by owner,
// returning the updated document. The caller must already have resolved
// author rights on the vacation.
func (s *Store) Update(ctx context.Context, cur models.Vacation, owner primitive.ObjectID, p UpdateParams) (models.Vacation, error) {
	if p.Title != nil {
		cur.Title = *p.Title
	}
	if p.Description != nil {
		cur.Description = htmlsanitize.Sanitize(*p.Description)
	}
	if p.ShareStatus != nil {
		cur.ShareStatus = *p.ShareStatus
	}
	if p.StartingTime != nil {
		cur.StartingTime = *p.StartingTime
	}
	if p.EndingTime != nil {
		cur.EndingTime = *p.EndingTime
	}

	if err := validateShareStatus(cur.ShareStatus); err != nil {
		return models.Vacation{}, err
	}
	if err := validateTimes(cur.StartingTime, cur.EndingTime); err != nil {
		return models.Vacation{}, err
	}

	memberInput := p.MemberList
	if memberInput == nil {
		memberInput = cur.MemberList
	}
	shareInput := p.ShareList
	if shareInput == nil {
		shareInput = cur.ShareList
	}
	cur.MemberList, cur.ShareList = NormalizeLists(owner, cur.ShareStatus, memberInput, shareInput)
	cur.LastUpdateAt = time.Now().UTC()

	_, err := s.c.ReplaceOne(ctx, bson.M{"_id": cur.ID}, cur)
	if err != nil {
		return models.Vacation{}, apperr.Wrap(err, "updating vacation")
	}
	return cur, nil
}

// Touch stamps last_update_at, pushing the vacation up in recency
// sorts. Called when a post inside it changes.
func (s *Store) Touch(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"last_update_at": time.Now().UTC()}})
	return err
}

// IncrementViews bumps the view counter.
func (s *Store) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$inc": bson.M{"views": 1}})
	return err
}

// Delete removes a vacation by ID. Returns the number of documents
// deleted (0 or 1). Cascading removal of posts and attachments is
// orchestrated by the caller.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
