package mongo

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dealspot/dealspot/internal/core/domain"
	"github.com/dealspot/dealspot/internal/core/ports"
)

// Sort field maps translate API sort keys into document fields.
var (
	dealSortFields = map[string]string{
		"createdAt": "created_at",
		"updatedAt": "updated_at",
		"title":     "title",
		"price":     "price",
		"discount":  "discount_percent",
		"likes":     "like_count",
		"score":     "score",
		"clicks":    "click_count",
		"views":     "view_count",
		"expiresAt": "expires_at",
	}
	userSortFields = map[string]string{
		"createdAt": "created_at",
		"username":  "username",
		"email":     "email",
		"role":      "role",
	}
	storeSortFields = map[string]string{
		"createdAt": "created_at",
		"updatedAt": "updated_at",
		"name":      "name",
	}
	commentSortFields = map[string]string{
		"createdAt": "created_at",
		"likes":     "like_count",
	}
	userStoreSortFields = map[string]string{
		"createdAt": "created_at",
	}
	subscriberSortFields = map[string]string{
		"email":        "email",
		"subscribedAt": "subscribed_at",
	}
)

// findOptions builds sort and window options. _id is always appended as a
// tie-breaker so skip/limit windows over the same query never overlap.
func findOptions(sort domain.Sort, fields map[string]string, page domain.Page) *options.FindOptions {
	dir := 1
	if sort.Desc {
		dir = -1
	}

	order := bson.D{}
	if field, ok := fields[sort.Field]; ok {
		order = append(order, bson.E{Key: field, Value: dir})
	}
	order = append(order, bson.E{Key: "_id", Value: dir})

	opts := options.Find().SetSort(order)
	if page.Skip > 0 {
		opts.SetSkip(page.Skip)
	}
	if page.Limit > 0 {
		opts.SetLimit(page.Limit)
	}
	return opts
}

// contains is a case-insensitive literal substring match.
func contains(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func dealFilter(f ports.DealFilter) bson.M {
	q := bson.M{}
	if f.Search != "" {
		q["$or"] = bson.A{
			bson.M{"title": contains(f.Search)},
			bson.M{"description": contains(f.Search)},
		}
	}
	if f.StoreID != "" {
		q["store_id"] = f.StoreID
	}
	if f.DealTypeID != "" {
		q["deal_type_id"] = f.DealTypeID
	}
	if f.UserStoreID != "" {
		q["user_store_id"] = f.UserStoreID
	}
	if f.AuthorID != "" {
		q["author_id"] = f.AuthorID
	}
	switch len(f.Statuses) {
	case 0:
	case 1:
		q["status"] = string(f.Statuses[0])
	default:
		in := make(bson.A, len(f.Statuses))
		for i, s := range f.Statuses {
			in[i] = string(s)
		}
		q["status"] = bson.M{"$in": in}
	}
	if f.Featured != nil {
		q["featured"] = *f.Featured
	}

	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		q["price"] = price
	}

	if !f.ActiveAt.IsZero() {
		active := bson.A{
			bson.M{"never_expires": true},
			bson.M{"expires_at": nil},
			bson.M{"expires_at": bson.M{"$gt": f.ActiveAt}},
		}
		if _, ok := q["$or"]; ok {
			q["$and"] = bson.A{bson.M{"$or": q["$or"]}, bson.M{"$or": active}}
			delete(q, "$or")
		} else {
			q["$or"] = active
		}
	}

	created := bson.M{}
	if !f.CreatedFrom.IsZero() {
		created["$gte"] = f.CreatedFrom
	}
	if !f.CreatedTo.IsZero() {
		created["$lt"] = f.CreatedTo
	}
	if len(created) > 0 {
		q["created_at"] = created
	}
	return q
}

func userFilter(f ports.UserFilter) bson.M {
	q := bson.M{}
	if f.Search != "" {
		q["$or"] = bson.A{
			bson.M{"username": contains(f.Search)},
			bson.M{"email": contains(f.Search)},
		}
	}
	if f.Role != "" {
		q["role"] = f.Role
	}
	if f.Blocked != nil {
		q["blocked"] = *f.Blocked
	}
	return q
}

func storeFilter(f ports.StoreFilter) bson.M {
	q := bson.M{}
	if f.Search != "" {
		q["name"] = contains(f.Search)
	}
	return q
}

func userStoreFilter(f ports.UserStoreFilter) bson.M {
	q := bson.M{}
	if f.Approved != nil {
		q["approved"] = *f.Approved
	}
	return q
}

func commentFilter(f ports.CommentFilter) bson.M {
	q := bson.M{}
	if f.DealID != "" {
		q["deal_id"] = f.DealID
	}
	if f.AuthorID != "" {
		q["author_id"] = f.AuthorID
	}
	if f.Search != "" {
		q["body"] = contains(f.Search)
	}
	if !f.IncludeDeleted {
		q["deleted"] = bson.M{"$ne": true}
	}
	return q
}

func subscriberFilter(f ports.SubscriberFilter) bson.M {
	q := bson.M{}
	if f.Search != "" {
		q["email"] = contains(f.Search)
	}
	if f.Active != nil {
		q["active"] = *f.Active
	}
	return q
}
