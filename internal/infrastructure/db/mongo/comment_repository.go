package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dealspot/dealspot/internal/core/domain"
	"github.com/dealspot/dealspot/internal/core/ports"
)

type CommentRepository struct {
	col *mongo.Collection
}

func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{col: db.Collection(collectionComments)}
}

var _ ports.CommentRepository = (*CommentRepository)(nil)

type commentDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	DealID     string             `bson:"deal_id"`
	AuthorID   string             `bson:"author_id"`
	AuthorName string             `bson:"author_name"`
	ParentID   *string            `bson:"parent_id"`
	Body       string             `bson:"body"`
	LikeCount  int64              `bson:"like_count"`
	Deleted    bool               `bson:"deleted"`
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}

func (doc *commentDoc) toDomain() *domain.Comment {
	return &domain.Comment{
		ID:         doc.ID.Hex(),
		DealID:     doc.DealID,
		AuthorID:   doc.AuthorID,
		AuthorName: doc.AuthorName,
		ParentID:   doc.ParentID,
		Body:       doc.Body,
		LikeCount:  doc.LikeCount,
		Deleted:    doc.Deleted,
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}
}

func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, commentDoc{
		DealID:     c.DealID,
		AuthorID:   c.AuthorID,
		AuthorName: c.AuthorName,
		ParentID:   c.ParentID,
		Body:       c.Body,
		CreatedAt:  c.CreatedAt.UTC(),
		UpdatedAt:  c.UpdatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	c.ID = insertedHex(res)
	return nil
}

func (r *CommentRepository) FindByID(ctx context.Context, id string) (*domain.Comment, error) {
	oid, err := objectID(id, domain.ErrCommentNotFound)
	if err != nil {
		return nil, err
	}
	var doc commentDoc
	if err := findOne(ctx, r.col, bson.M{"_id": oid}, &doc, domain.ErrCommentNotFound); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

// SoftDelete flags the comment; the document stays so replies keep their parent.
func (r *CommentRepository) SoftDelete(ctx context.Context, id string) error {
	return updateByID(ctx, r.col, id, bson.M{"$set": bson.M{
		"deleted":    true,
		"updated_at": time.Now().UTC(),
	}}, domain.ErrCommentNotFound)
}

func (r *CommentRepository) AdjustLikes(ctx context.Context, id string, by int64) (*domain.Comment, error) {
	oid, err := objectID(id, domain.ErrCommentNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc commentDoc
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"like_count": by}}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, fmt.Errorf("adjust likes: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CommentRepository) Find(ctx context.Context, filter ports.CommentFilter, sort domain.Sort, page domain.Page) ([]*domain.Comment, error) {
	return findAll(ctx, r.col, commentFilter(filter), findOptions(sort, commentSortFields, page), (*commentDoc).toDomain)
}

func (r *CommentRepository) Count(ctx context.Context, filter ports.CommentFilter) (int64, error) {
	return count(ctx, r.col, commentFilter(filter))
}
