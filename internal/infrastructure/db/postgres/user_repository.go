package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/99minutos/user-admin/internal/core/domain"
)

const userColumns = `uid, email, banned, is_admin, admin_expires_at, created_at`

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Get(ctx context.Context, uid string) (*domain.UserRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE uid = $1`, uid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}

// Upsert inserts the row with the patch applied over defaults; on conflict
// only the columns named by the patch are updated.
func (r *UserRepository) Upsert(ctx context.Context, uid string, patch domain.UserPatch) (*domain.UserRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := domain.NewUserRecord(uid, "", time.Now())
	row.Apply(patch)

	var sets []string
	if patch.Email != nil {
		sets = append(sets, "email = EXCLUDED.email")
	}
	if patch.Banned != nil {
		sets = append(sets, "banned = EXCLUDED.banned")
	}
	if patch.Admin != nil {
		sets = append(sets, "is_admin = EXCLUDED.is_admin", "admin_expires_at = EXCLUDED.admin_expires_at")
	}
	if len(sets) == 0 {
		// A no-op update still lets RETURNING yield the existing row.
		sets = append(sets, "uid = EXCLUDED.uid")
	}

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (uid) DO UPDATE SET ` + strings.Join(sets, ", ") + `
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRow(ctx, query,
		row.UID, row.Email, row.Banned, row.IsAdmin, row.AdminExpiresAt, row.CreatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, uid, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx,
		`INSERT INTO users (uid, email, created_at) VALUES ($1, $2, $3) ON CONFLICT (uid) DO NOTHING`,
		uid, email, time.Now().UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("insert user: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *UserRepository) ListAdmins(ctx context.Context) ([]domain.UserRecord, error) {
	return r.query(ctx, `SELECT `+userColumns+` FROM users WHERE is_admin ORDER BY uid`)
}

func (r *UserRepository) ListAll(ctx context.Context) ([]domain.UserRecord, error) {
	return r.query(ctx, `SELECT `+userColumns+` FROM users ORDER BY uid`)
}

func (r *UserRepository) DemoteAdmins(ctx context.Context, uids []string) (int64, error) {
	if len(uids) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx,
		`UPDATE users SET is_admin = FALSE, admin_expires_at = NULL WHERE uid = ANY($1) AND is_admin`,
		uids,
	)
	if err != nil {
		return 0, fmt.Errorf("demote admins: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *UserRepository) query(ctx context.Context, sql string, args ...any) ([]domain.UserRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	out := make([]domain.UserRecord, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func scanUser(row pgx.Row) (*domain.UserRecord, error) {
	var (
		u       domain.UserRecord
		expires *time.Time
	)
	if err := row.Scan(&u.UID, &u.Email, &u.Banned, &u.IsAdmin, &expires, &u.CreatedAt); err != nil {
		return nil, err
	}
	if expires != nil {
		t := expires.UTC()
		u.AdminExpiresAt = &t
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}
