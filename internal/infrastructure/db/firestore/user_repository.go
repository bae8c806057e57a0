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

const collectionUsers = "users"

// UserRepository keeps one document per user at users/{uid}.
type UserRepository struct {
	client *firestore.Client
}

func NewUserRepository(client *firestore.Client) *UserRepository {
	return &UserRepository{client: client}
}

func (r *UserRepository) doc(uid string) *firestore.DocumentRef {
	return r.client.Collection(collectionUsers).Doc(uid)
}

func (r *UserRepository) Get(ctx context.Context, uid string) (*domain.UserRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	snap, err := r.doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return decode(snap)
}

// Upsert runs in a transaction so that defaults are only written for a
// document that does not exist yet.
func (r *UserRepository) Upsert(ctx context.Context, uid string, patch domain.UserPatch) (*domain.UserRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ref := r.doc(uid)
	var out *domain.UserRecord
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		var rec *domain.UserRecord
		switch {
		case status.Code(err) == codes.NotFound:
			rec = domain.NewUserRecord(uid, "", time.Now())
		case err != nil:
			return err
		default:
			if rec, err = decode(snap); err != nil {
				return err
			}
		}

		rec.Apply(patch)
		out = rec
		return tx.Set(ref, rec)
	})
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return out, nil
}

func (r *UserRepository) Create(ctx context.Context, uid, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.doc(uid).Create(ctx, domain.NewUserRecord(uid, email, time.Now()))
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return false, nil
		}
		return false, fmt.Errorf("create user: %w", err)
	}
	return true, nil
}

func (r *UserRepository) ListAdmins(ctx context.Context) ([]domain.UserRecord, error) {
	return r.all(ctx, r.client.Collection(collectionUsers).Where("isAdmin", "==", true))
}

func (r *UserRepository) ListAll(ctx context.Context) ([]domain.UserRecord, error) {
	return r.all(ctx, r.client.Collection(collectionUsers).Query)
}

// DemoteAdmins commits one write batch. Firestore caps a batch at 500
// writes, so larger sets are split into consecutive batches.
func (r *UserRepository) DemoteAdmins(ctx context.Context, uids []string) (int64, error) {
	const maxBatch = 500

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var n int64
	for start := 0; start < len(uids); start += maxBatch {
		end := min(start+maxBatch, len(uids))

		batch := r.client.Batch()
		for _, uid := range uids[start:end] {
			batch.Update(r.doc(uid), []firestore.Update{
				{Path: "isAdmin", Value: false},
				{Path: "adminExpiresAt", Value: nil},
			})
		}
		if _, err := batch.Commit(ctx); err != nil {
			return n, fmt.Errorf("demote admins: %w", err)
		}
		n += int64(end - start)
	}
	return n, nil
}

func (r *UserRepository) all(ctx context.Context, q firestore.Query) ([]domain.UserRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	snaps, err := q.OrderBy(firestore.DocumentID, firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}

	out := make([]domain.UserRecord, 0, len(snaps))
	for _, s := range snaps {
		rec, err := decode(s)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, nil
}

func decode(snap *firestore.DocumentSnapshot) (*domain.UserRecord, error) {
	var rec domain.UserRecord
	if err := snap.DataTo(&rec); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", snap.Ref.ID, err)
	}
	rec.UID = snap.Ref.ID
	return &rec, nil
}
