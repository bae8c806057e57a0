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

	"github.com/99minutos/user-admin/internal/core/domain"
)

const collectionAdmins = "admin_accounts"

type AdminRepository struct {
	coll *mongo.Collection
}

func NewAdminRepository(db *mongo.Database) *AdminRepository {
	return &AdminRepository{coll: db.Collection(collectionAdmins)}
}

type mongoAdmin struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	PasswordHash string             `bson:"password_hash"`
	UID          string             `bson:"uid"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (*domain.AdminAccount, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ma mongoAdmin
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find admin account: %w", err)
	}
	return ma.toDomain(), nil
}

// Save upserts by username; created_at is only written on insert.
func (r *AdminRepository) Save(ctx context.Context, account *domain.AdminAccount) (*domain.AdminAccount, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"password_hash": account.PasswordHash,
			"uid":           account.UID,
			"updated_at":    account.UpdatedAt.Unix(),
		},
		"$setOnInsert": bson.M{
			"username":   account.Username,
			"created_at": account.CreatedAt.Unix(),
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var ma mongoAdmin
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"username": account.Username}, update, opts).Decode(&ma); err != nil {
		return nil, fmt.Errorf("save admin account: %w", err)
	}
	return ma.toDomain(), nil
}

func (r *AdminRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (m mongoAdmin) toDomain() *domain.AdminAccount {
	return &domain.AdminAccount{
		ID:           m.ID.Hex(),
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		UID:          m.UID,
		CreatedAt:    unixToTime(m.CreatedAt),
		UpdatedAt:    unixToTime(m.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
