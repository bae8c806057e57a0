package firestore

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/99minutos/user-admin/internal/core/domain"
)

const collectionAudit = "audit_log"

type AuditRepository struct {
	client *firestore.Client
}

func NewAuditRepository(client *firestore.Client) *AuditRepository {
	return &AuditRepository{client: client}
}

func (r *AuditRepository) Insert(ctx context.Context, entry domain.AuditEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := map[string]any{
		"uid":    entry.UID,
		"action": string(entry.Action),
		"at":     entry.At.UTC(),
	}
	if entry.ExpiresAt != nil {
		doc["expiresAt"] = entry.ExpiresAt.UTC()
	}

	_, err := r.client.Collection(collectionAudit).Doc(entry.ID).Create(ctx, doc)
	return err
}
