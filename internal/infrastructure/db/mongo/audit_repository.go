package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/user-admin/internal/core/domain"
)

const collectionAudit = "audit_log"

// AuditRepository appends audit entries to the audit_log collection.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAudit)}
}

func (r *AuditRepository) Insert(ctx context.Context, entry domain.AuditEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"_id":    entry.ID,
		"uid":    entry.UID,
		"action": string(entry.Action),
		"at":     entry.At.UTC(),
	}
	if entry.ExpiresAt != nil {
		doc["expires_at"] = entry.ExpiresAt.UTC()
	}

	_, err := r.col.InsertOne(ctx, doc)
	return err
}

func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "uid", Value: 1}, {Key: "at", Value: -1}},
	})
	return err
}
