package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/99minutos/user-admin/internal/core/domain"
)

type AuditRepository struct {
	db *pgxpool.Pool
}

func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Insert(ctx context.Context, entry domain.AuditEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.db.Exec(ctx,
		`INSERT INTO audit_log (id, uid, action, expires_at, at) VALUES ($1, $2, $3, $4, $5)`,
		entry.ID, entry.UID, string(entry.Action), entry.ExpiresAt, entry.At.UTC(),
	)
	return err
}
