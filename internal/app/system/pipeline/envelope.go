// internal/app/system/pipeline/envelope.go
package pipeline

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Meta is the pagination metadata block of a list envelope.
type Meta struct {
	Total int64 `bson:"total" json:"total"`
	Page  int   `bson:"page" json:"page"`
	Pages int64 `bson:"pages" json:"pages"`
}

// Envelope is the reshaped result of a listing pipeline.
type Envelope struct {
	Meta Meta     `bson:"meta" json:"meta"`
	Data []bson.M `bson:"data" json:"data"`
}

// Run executes a built pipeline against coll and decodes the single
// envelope document. ok is false only when the filtered set itself is
// empty (total == 0), the "no content" sentinel; a valid page past the
// end of a non-empty set is an envelope with empty data, not the
// sentinel.
func Run(ctx context.Context, coll *mongo.Collection, p mongo.Pipeline) (env Envelope, ok bool, err error) {
	cur, err := coll.Aggregate(ctx, p)
	if err != nil {
		return Envelope{}, false, err
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		return Envelope{}, false, cur.Err()
	}
	if err := cur.Decode(&env); err != nil {
		return Envelope{}, false, err
	}
	if env.Meta.Total == 0 {
		return Envelope{}, false, nil
	}
	return env, true, nil
}
