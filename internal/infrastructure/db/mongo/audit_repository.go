package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trackshift/arena-web/internal/core/domain"
)

const auditCollection = "auth_audit"

// AuditRepository appends auth outcomes to the auth_audit collection.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type auditDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	SessionID string             `bson:"session_id"`
	UserID    string             `bson:"user_id,omitempty"`
	Email     string             `bson:"email,omitempty"`
	Action    string             `bson:"action"`
	Outcome   string             `bson:"outcome"`
	Detail    string             `bson:"detail,omitempty"`
	At        primitive.DateTime `bson:"at"`
}

// EnsureIndexes creates the lookup indexes. Safe to call on every start.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "session_id", Value: 1}}, Options: options.Index().SetSparse(true)},
	})
	if err != nil {
		return fmt.Errorf("create audit indexes: %w", err)
	}
	return nil
}

func (r *AuditRepository) Insert(ctx context.Context, e domain.AuthAuditEntry) error {
	doc := auditDoc{
		SessionID: e.SessionID,
		UserID:    e.UserID,
		Email:     e.Email,
		Action:    e.Action,
		Outcome:   e.Outcome,
		Detail:    e.Detail,
		At:        primitive.NewDateTimeFromTime(e.At),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}
