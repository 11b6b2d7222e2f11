// Package postfeed runs the post listing aggregation for one vacation.
package postfeed

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tripnest/tripnest/internal/app/system/pipeline"
)

// ListByVacation pages through a vacation's posts, newest first, each
// with the author's identity and its like and comment totals. The
// caller checks the vacation's visibility before running the query.
func ListByVacation(ctx context.Context, db *mongo.Database, vacationID primitive.ObjectID, page int) (pipeline.Envelope, bool, error) {
	enrich := []mongo.Pipeline{
		pipeline.UserInfo("username", "avatar"),
		pipeline.CountLookup("likes", "posts", "likes"),
		pipeline.CountLookup("comments", "posts", "comments"),
	}

	p := pipeline.Build(pipeline.Spec{
		Filter:     bson.M{"vacation_id": vacationID},
		Sort:       bson.D{{Key: "created_at", Value: -1}},
		Page:       page,
		Enrich:     enrich,
		DataFields: []string{"author_info", "content", "location", "likes", "comments", "created_at", "last_update_at"},
	})
	return pipeline.Run(ctx, db.Collection("posts"), p)
}
