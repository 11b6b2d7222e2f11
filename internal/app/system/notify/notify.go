// Package notify carries notification intents from successful mutations
// to the dispatcher.
//
// The core's obligation ends at producing an Intent after an authorized
// mutation; delivery (and any fan-out) belongs to the dispatcher
// implementation. The receiver is always the owner of the authorizing
// document returned by the preceding permission check, never derived
// from anything else.
package notify

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Intent describes one pending notification.
type Intent struct {
	ModelType  string
	ModelID    primitive.ObjectID
	ReceiverID primitive.ObjectID
	ActorID    primitive.ObjectID
	Action     string // models.ActionLike | models.ActionComment
}

// Dispatcher accepts intents produced by mutations. Implementations own
// persistence and delivery.
type Dispatcher interface {
	Dispatch(ctx context.Context, in Intent) error
}

// Nop discards intents. Used in tests.
type Nop struct{}

func (Nop) Dispatch(context.Context, Intent) error { return nil }

// Logging wraps a Dispatcher and logs dispatch failures instead of
// propagating them: a failed notification must never fail the mutation
// that produced it.
type Logging struct {
	Next Dispatcher
	Log  *zap.Logger
}

func (l Logging) Dispatch(ctx context.Context, in Intent) error {
	if err := l.Next.Dispatch(ctx, in); err != nil {
		l.Log.Error("notification dispatch failed",
			zap.String("model_type", in.ModelType),
			zap.String("model_id", in.ModelID.Hex()),
			zap.String("action", in.Action),
			zap.Error(err))
	}
	return nil
}
