package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/99minutos/user-admin/internal/core/domain"
)

type AdminRepository struct {
	db *pgxpool.Pool
}

func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (*domain.AdminAccount, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	a, err := scanAdmin(r.db.QueryRow(ctx,
		`SELECT id, username, password_hash, uid, created_at, updated_at FROM admin_accounts WHERE username = $1`,
		username,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("select admin account: %w", err)
	}
	return a, nil
}

func (r *AdminRepository) Save(ctx context.Context, account *domain.AdminAccount) (*domain.AdminAccount, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `
		INSERT INTO admin_accounts (username, password_hash, uid, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (username) DO UPDATE
		SET password_hash = EXCLUDED.password_hash, uid = EXCLUDED.uid, updated_at = EXCLUDED.updated_at
		RETURNING id, username, password_hash, uid, created_at, updated_at`

	a, err := scanAdmin(r.db.QueryRow(ctx, query,
		account.Username, account.PasswordHash, account.UID, account.CreatedAt, account.UpdatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("save admin account: %w", err)
	}
	return a, nil
}

func scanAdmin(row pgx.Row) (*domain.AdminAccount, error) {
	var (
		a  domain.AdminAccount
		id int64
	)
	if err := row.Scan(&id, &a.Username, &a.PasswordHash, &a.UID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.ID = strconv.FormatInt(id, 10)
	return &a, nil
}
