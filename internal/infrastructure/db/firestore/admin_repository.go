package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/99minutos/user-admin/internal/core/domain"
)

const collectionAdmins = "admins"

// AdminRepository keeps operator accounts at admins/{username}.
type AdminRepository struct {
	client *firestore.Client
}

func NewAdminRepository(client *firestore.Client) *AdminRepository {
	return &AdminRepository{client: client}
}

type adminDoc struct {
	Username     string    `firestore:"username"`
	PasswordHash string    `firestore:"password_hash"`
	UID          string    `firestore:"uid"`
	CreatedAt    time.Time `firestore:"created_at"`
	UpdatedAt    time.Time `firestore:"updated_at"`
}

func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (*domain.AdminAccount, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	snap, err := r.client.Collection(collectionAdmins).Doc(username).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get admin account: %w", err)
	}

	var d adminDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, fmt.Errorf("decode admin account: %w", err)
	}
	return &domain.AdminAccount{
		ID:           snap.Ref.ID,
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		UID:          d.UID,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}

// Save upserts by username inside a transaction so created_at survives a
// password reset.
func (r *AdminRepository) Save(ctx context.Context, account *domain.AdminAccount) (*domain.AdminAccount, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ref := r.client.Collection(collectionAdmins).Doc(account.Username)
	d := adminDoc{
		Username:     account.Username,
		PasswordHash: account.PasswordHash,
		UID:          account.UID,
		CreatedAt:    account.CreatedAt,
		UpdatedAt:    account.UpdatedAt,
	}

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		switch {
		case status.Code(err) == codes.NotFound:
		case err != nil:
			return err
		default:
			var prev adminDoc
			if err := snap.DataTo(&prev); err != nil {
				return err
			}
			d.CreatedAt = prev.CreatedAt
		}
		return tx.Set(ref, d)
	})
	if err != nil {
		return nil, fmt.Errorf("save admin account: %w", err)
	}

	return &domain.AdminAccount{
		ID:           account.Username,
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		UID:          d.UID,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}
