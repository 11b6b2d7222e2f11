// Package vacationfeed runs the vacation listing and detail
// aggregations: visibility filter, friend-aware ordering, pagination
// envelope, and the cross-collection enrichments (author info, post and
// interaction counts, cover path).
package vacationfeed

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tripnest/tripnest/internal/app/policy/visibility"
	"github.com/tripnest/tripnest/internal/app/system/pipeline"
)

// Feed lists the vacations visible to principal for the given feed
// type, one page at a time. ok is false when the visible set is empty.
func Feed(ctx context.Context, db *mongo.Database, principal primitive.ObjectID, feed visibility.FeedType, page int) (pipeline.Envelope, bool, error) {
	enrich := []mongo.Pipeline{
		postCounts(),
		pipeline.ResourcePath("vacations", "cover"),
	}
	if feed == visibility.NewFeed {
		enrich = append(enrich, pipeline.UserInfo("username", "avatar"))
	}
	enrich = append(enrich, mongo.Pipeline{
		bson.D{{Key: "$addFields", Value: bson.M{
			"likes":                 bson.M{"$sum": "$posts.likes"},
			"comments":              bson.M{"$sum": "$posts.comments"},
			"posts":                 bson.M{"$size": "$posts"},
			"author_info.is_friend": "$is_friend",
		}}},
	})

	fields := []string{
		"title", "cover", "share_status", "posts", "views",
		"likes", "comments", "starting_time", "ending_time", "last_update_at",
	}
	if feed == visibility.NewFeed {
		fields = append(fields, "author_info")
	}

	p := pipeline.Build(pipeline.Spec{
		Filter:          visibility.Predicate(principal, feed),
		Principal:       principal,
		AnnotateFriends: true,
		Page:            page,
		Enrich:          enrich,
		DataFields:      fields,
	})
	return pipeline.Run(ctx, db.Collection("vacations"), p)
}

// postCounts joins the vacation's posts and, per post, its like and
// comment totals. The feed sums these per-post counts into the
// vacation-level likes/comments fields.
func postCounts() mongo.Pipeline {
	perPost := mongo.Pipeline{}
	perPost = append(perPost, pipeline.CountLookup("likes", "posts", "likes")...)
	perPost = append(perPost, pipeline.CountLookup("comments", "posts", "comments")...)
	perPost = append(perPost, bson.D{{Key: "$project", Value: bson.M{
		"likes": 1, "comments": 1,
	}}})

	return mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "posts",
			"localField":   "_id",
			"foreignField": "vacation_id",
			"pipeline":     perPost,
			"as":           "posts",
		}}},
	}
}

// Detail loads one vacation with author identity, the principal's
// membership flag, and the member count. Visibility is checked by the
// caller before the query runs.
func Detail(ctx context.Context, db *mongo.Database, id, principal primitive.ObjectID) (bson.M, error) {
	p := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"_id": id}}},
	}
	p = append(p, pipeline.UserInfo("username", "avatar", "first_name", "last_name")...)
	p = append(p, pipeline.MemberCount()...)
	p = append(p, pipeline.ResourcePath("vacations", "cover")...)
	p = append(p, bson.D{{Key: "$addFields", Value: bson.M{
		"is_member": bson.M{"$in": bson.A{principal, bson.M{"$ifNull": bson.A{"$member_list", bson.A{}}}}},
	}}})

	cur, err := db.Collection("vacations").Aggregate(ctx, p)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		return nil, cur.Err()
	}
	var out bson.M
	if err := cur.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
