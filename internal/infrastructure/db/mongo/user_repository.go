package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/user-admin/internal/core/domain"
)

const collectionUsers = "users"

// UserRepository stores one document per user, keyed by uid in _id.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

func (r *UserRepository) Get(ctx context.Context, uid string) (*domain.UserRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var u domain.UserRecord
	if err := r.col.FindOne(ctx, bson.M{"_id": uid}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

// Upsert writes the patch with $set and fills defaults for every field the
// patch leaves out with $setOnInsert, so an existing record keeps them.
func (r *UserRepository) Upsert(ctx context.Context, uid string, patch domain.UserPatch) (*domain.UserRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{}
	onInsert := bson.M{"createdAt": time.Now().UTC()}

	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.Banned != nil {
		set["banned"] = *patch.Banned
	} else {
		onInsert["banned"] = false
	}
	if patch.Admin != nil {
		set["isAdmin"] = patch.Admin.IsAdmin
		set["adminExpiresAt"] = adminExpiry(patch.Admin)
	} else {
		onInsert["isAdmin"] = false
		onInsert["adminExpiresAt"] = nil
	}

	update := bson.M{"$setOnInsert": onInsert}
	if len(set) > 0 {
		update["$set"] = set
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var u domain.UserRecord
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": uid}, update, opts).Decode(&u); err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, uid, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"banned":         false,
		"isAdmin":        false,
		"adminExpiresAt": nil,
		"createdAt":      time.Now().UTC(),
	}
	if email != "" {
		doc["email"] = email
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": uid},
		bson.M{"$setOnInsert": doc},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, fmt.Errorf("create user: %w", err)
	}
	return res.UpsertedCount == 1, nil
}

func (r *UserRepository) ListAdmins(ctx context.Context) ([]domain.UserRecord, error) {
	return r.find(ctx, bson.M{"isAdmin": true})
}

func (r *UserRepository) ListAll(ctx context.Context) ([]domain.UserRecord, error) {
	return r.find(ctx, bson.M{})
}

// DemoteAdmins clears the admin flag of all uids with a single UpdateMany.
func (r *UserRepository) DemoteAdmins(ctx context.Context, uids []string) (int64, error) {
	if len(uids) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": uids}, "isAdmin": true},
		bson.M{"$set": bson.M{"isAdmin": false, "adminExpiresAt": nil}},
	)
	if err != nil {
		return 0, fmt.Errorf("demote admins: %w", err)
	}
	return res.ModifiedCount, nil
}

// EnsureIndexes creates the isAdmin index used by the listing and the sweeper.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "isAdmin", Value: 1}},
	})
	return err
}

func (r *UserRepository) find(ctx context.Context, filter bson.M) ([]domain.UserRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}

	out := make([]domain.UserRecord, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return out, nil
}

func adminExpiry(s *domain.AdminState) any {
	if !s.IsAdmin || s.ExpiresAt == nil {
		return nil
	}
	return s.ExpiresAt.UTC()
}
