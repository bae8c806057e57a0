// Package firestore is the Cloud Firestore backend of the user store,
// accessed through the Firebase Admin SDK.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const defaultTimeout = 10 * time.Second

// Config identifies the Firebase project and its service-account key.
type Config struct {
	ProjectID string
	// CredentialsJSON is the service-account key file contents. When empty,
	// application default credentials are used.
	CredentialsJSON string
}

// Connect initialises the Firebase app and returns its Firestore client.
func Connect(ctx context.Context, cfg Config) (*firestore.Client, error) {
	var opts []option.ClientOption
	if cfg.CredentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	}

	var fbCfg *firebase.Config
	if cfg.ProjectID != "" {
		fbCfg = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, fbCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return client, nil
}

// Ping reads at most one user document to confirm the project is reachable.
func Ping(ctx context.Context, client *firestore.Client) error {
	_, err := client.Collection(collectionUsers).Limit(1).Documents(ctx).Next()
	if err != nil && !errors.Is(err, iterator.Done) {
		return fmt.Errorf("firestore ping: %w", err)
	}
	return nil
}
