// Package interactions runs the comment and like listing aggregations
// for one target document (a vacation or a post).
package interactions

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tripnest/tripnest/internal/app/system/pipeline"
)

func targetFilter(modelType string, modelID primitive.ObjectID) bson.M {
	return bson.M{"model_type": modelType, "model_id": modelID}
}

// ListComments pages through the comments attached to one target,
// newest first, each with the author's public identity.
// ok is false when the target has no comments at all.
func ListComments(ctx context.Context, db *mongo.Database, modelType string, modelID primitive.ObjectID, page int) (pipeline.Envelope, bool, error) {
	p := pipeline.Build(pipeline.Spec{
		Filter:     targetFilter(modelType, modelID),
		Sort:       bson.D{{Key: "created_at", Value: -1}},
		Page:       page,
		Enrich:     []mongo.Pipeline{pipeline.UserInfo("username", "avatar")},
		DataFields: []string{"author_info", "content", "created_at"},
	})
	return pipeline.Run(ctx, db.Collection("comments"), p)
}

// ListLikes pages through the likes attached to one target, newest
// first; each row carries only the liker's public identity.
func ListLikes(ctx context.Context, db *mongo.Database, modelType string, modelID primitive.ObjectID, page int) (pipeline.Envelope, bool, error) {
	p := pipeline.Build(pipeline.Spec{
		Filter:     targetFilter(modelType, modelID),
		Sort:       bson.D{{Key: "created_at", Value: -1}},
		Page:       page,
		Enrich:     []mongo.Pipeline{pipeline.UserInfo("username", "avatar")},
		DataFields: []string{"author_info"},
	})
	return pipeline.Run(ctx, db.Collection("likes"), p)
}
