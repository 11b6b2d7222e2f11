// internal/domain/models/resource.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ResourceRef binds an uploaded resource to exactly one owning field of
// exactly one entity, e.g. {Model: "vacations", Field: "cover", ID: ...}.
type ResourceRef struct {
	Model string             `bson:"model" json:"model"`
	Field string             `bson:"field" json:"field"`
	ID    primitive.ObjectID `bson:"_id" json:"id"`
}

// Resource is an uploaded asset (cover image, attachment). An unbound
// resource has an empty Ref slice; binding claims it for a single owner
// field and a resource is never re-bound once claimed.
type Resource struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`

	Name string        `bson:"name" json:"name"`
	Type string        `bson:"type" json:"type"` // MIME type as uploaded
	Size int64         `bson:"size" json:"size"`
	Path string        `bson:"path" json:"path"` // stored file path relative to the storage root
	Ref  []ResourceRef `bson:"ref" json:"ref"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
