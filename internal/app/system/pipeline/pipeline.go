// Package pipeline assembles the multi-stage aggregation used by every
// listing endpoint: visibility filter, friend annotation, sort,
// pagination metadata, cross-entity enrichment, and response reshaping.
//
// Stage order is a hard contract because later stages depend on fields
// introduced by earlier ones (the sort reads is_friend, the facet's
// window and count both read the sorted set). Callers never
// concatenate raw stage arrays; they fill in a Spec and the fixed
// assembly in Build enforces the ordering.
package pipeline

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tripnest/tripnest/internal/app/system/paging"
)

// Spec describes one listing query. Filter and Page are required;
// the rest default to off.
type Spec struct {
	// Filter is the storage-level visibility predicate ($match). It is
	// the only gate for list visibility; no post-filtering exists.
	Filter bson.M

	// Principal is the querying user, used for friend annotation.
	// Annotation (and the is_friend sort key) is enabled by AnnotateFriends.
	Principal       primitive.ObjectID
	AnnotateFriends bool

	// Sort overrides the default friend-recency ordering. Interaction
	// listings sort by created_at alone.
	Sort bson.D

	// Page is the requested 1-based page; the window is applied to the
	// already-sorted set.
	Page     int
	PageSize int // defaults to paging.PageSize

	// Enrich stages join auxiliary data (author info, counts, resource
	// paths) after the window so they never alter the row count.
	Enrich []mongo.Pipeline

	// DataFields is the projection for each row of the data array.
	// Fields not listed here (raw ref arrays, lookup scratch fields)
	// are dropped by the reshape stage.
	DataFields []string
}

// Build assembles the full pipeline in the contractual order:
// filter, friend-annotate, sort, then a facet holding the paginate
// window plus enrichment on one side and the total count on the other,
// reshaped into the {meta, data} envelope. The facet always emits one
// document, so an empty page of a non-empty filtered set still carries
// its meta; only a zero total marks the set itself as empty.
func Build(s Spec) mongo.Pipeline {
	size := s.PageSize
	if size <= 0 {
		size = paging.PageSize
	}
	page := s.Page
	if page < 1 {
		page = 1
	}

	p := mongo.Pipeline{Match(s.Filter)}

	if s.AnnotateFriends {
		p = append(p, FriendAnnotate(s.Principal)...)
	}
	if len(s.Sort) > 0 {
		p = append(p, bson.D{{Key: "$sort", Value: s.Sort}})
	} else {
		p = append(p, SortByFriendRecency())
	}

	window := mongo.Pipeline{
		bson.D{{Key: "$skip", Value: paging.Skip(page, size)}},
		bson.D{{Key: "$limit", Value: size}},
	}
	for _, e := range s.Enrich {
		window = append(window, e...)
	}
	window = append(window, ProjectRow(s.DataFields))

	p = append(p, FacetReshape(page, size, window)...)
	return p
}

// Match is the visibility filter stage.
func Match(filter bson.M) bson.D {
	return bson.D{{Key: "$match", Value: filter}}
}

// FriendAnnotate joins the friendships collection and adds a boolean
// is_friend per candidate, relative to the querying principal. Must run
// before the sort, which uses is_friend as its primary key.
func FriendAnnotate(principal primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.M{
			"from": "friendships",
			"let":  bson.M{"author": "$user_id"},
			"pipeline": mongo.Pipeline{
				bson.D{{Key: "$match", Value: bson.M{
					"$expr": bson.M{"$and": bson.A{
						bson.M{"$eq": bson.A{"$user_id", principal}},
						bson.M{"$eq": bson.A{"$friend_id", "$$author"}},
					}},
				}}},
			},
			"as": "friend_edge",
		}}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"is_friend": bson.M{"$gt": bson.A{bson.M{"$size": "$friend_edge"}, 0}},
		}}},
	}
}

// SortByFriendRecency pushes friends' content first, then the most
// recently updated, then the most recently created. The three-key chain
// is the deterministic tie-break contract for feeds.
func SortByFriendRecency() bson.D {
	return bson.D{{Key: "$sort", Value: bson.D{
		{Key: "is_friend", Value: -1},
		{Key: "last_update_at", Value: -1},
		{Key: "created_at", Value: -1},
	}}}
}

// FacetReshape runs the sorted candidates through two facets: data is
// the windowed (and enriched) page, meta counts every filtered
// candidate independent of the window. The follow-up stage folds the
// count facet into meta = {total, page, pages}, defaulting total to 0
// so the envelope shape holds even for an empty set.
func FacetReshape(page, pageSize int, window mongo.Pipeline) mongo.Pipeline {
	total := bson.M{"$ifNull": bson.A{
		bson.M{"$arrayElemAt": bson.A{"$meta.total", 0}}, 0,
	}}
	return mongo.Pipeline{
		bson.D{{Key: "$facet", Value: bson.M{
			"meta": mongo.Pipeline{bson.D{{Key: "$count", Value: "total"}}},
			"data": window,
		}}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"meta": bson.M{
				"total": total,
				"page":  page,
				"pages": bson.M{"$ceil": bson.M{
					"$divide": bson.A{total, pageSize},
				}},
			},
		}}},
	}
}

// UserInfo joins the author's identity onto each row as author_info,
// projecting only the requested user fields (e.g. username, avatar).
func UserInfo(fields ...string) mongo.Pipeline {
	proj := bson.M{"_id": 0}
	for _, f := range fields {
		proj[f] = 1
	}
	return mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.M{
			"from": "users",
			"let":  bson.M{"author": "$user_id"},
			"pipeline": mongo.Pipeline{
				bson.D{{Key: "$match", Value: bson.M{
					"$expr": bson.M{"$eq": bson.A{"$_id", "$$author"}},
				}}},
				bson.D{{Key: "$project", Value: proj}},
			},
			"as": "author_info",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{
			"path":                       "$author_info",
			"preserveNullAndEmptyArrays": true,
		}}},
	}
}

// CountLookup counts attachments of one model type (likes, comments)
// pointing at each row and stores the count under the as field.
func CountLookup(from, modelType, as string) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.M{
			"from": from,
			"let":  bson.M{"id": "$_id"},
			"pipeline": mongo.Pipeline{
				bson.D{{Key: "$match", Value: bson.M{
					"$expr": bson.M{"$and": bson.A{
						bson.M{"$eq": bson.A{"$model_type", modelType}},
						bson.M{"$eq": bson.A{"$model_id", "$$id"}},
					}},
				}}},
				bson.D{{Key: "$count", Value: "n"}},
			},
			"as": as + "_lookup",
		}}},
		bson.D{{Key: "$addFields", Value: bson.M{
			as: bson.M{"$ifNull": bson.A{
				bson.M{"$arrayElemAt": bson.A{"$" + as + "_lookup.n", 0}}, 0,
			}},
		}}},
	}
}

// MemberCount adds the size of the member list as members.
func MemberCount() mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$addFields", Value: bson.M{
			"members": bson.M{"$size": bson.M{"$ifNull": bson.A{"$member_list", bson.A{}}}},
		}}},
	}
}

// ResourcePath resolves the stored path of the resource bound to the
// given owner field (e.g. a vacation's cover image) onto each row.
func ResourcePath(model, field string) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.M{
			"from": "resources",
			"let":  bson.M{"id": "$_id"},
			"pipeline": mongo.Pipeline{
				bson.D{{Key: "$match", Value: bson.M{
					"$expr": bson.M{"$gt": bson.A{
						bson.M{"$size": bson.M{"$filter": bson.M{
							"input": "$ref",
							"as":    "r",
							"cond": bson.M{"$and": bson.A{
								bson.M{"$eq": bson.A{"$$r.model", model}},
								bson.M{"$eq": bson.A{"$$r.field", field}},
								bson.M{"$eq": bson.A{"$$r._id", "$$id"}},
							}},
						}}}, 0,
					}},
				}}},
				bson.D{{Key: "$project", Value: bson.M{"_id": 0, "path": 1}}},
			},
			"as": field + "_lookup",
		}}},
		bson.D{{Key: "$addFields", Value: bson.M{
			field: bson.M{"$arrayElemAt": bson.A{"$" + field + "_lookup.path", 0}},
		}}},
	}
}

// ProjectRow is the final stage of the data facet: each row keeps only
// the requested fields plus id, dropping internal-only fields (raw ref
// arrays, lookup scratch fields) from the response.
func ProjectRow(dataFields []string) bson.D {
	row := bson.M{"_id": 0, "id": "$_id"}
	for _, f := range dataFields {
		row[f] = "$" + f
	}
	return bson.D{{Key: "$project", Value: row}}
}
