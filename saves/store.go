// Package saves persists JSON documents under string keys. The contract
// is one document per key; callers own the document schema.
package saves

import "context"

//go:generate mockgen -destination=mock/mock_store.go -package=mocksaves -source=store.go

// Store is the file-per-key persistence contract. Values are marshaled to
// JSON on Save and unmarshaled into out on Load. Load and Delete return a
// CodeNotFound error when the key has never been saved.
type Store interface {
	Save(ctx context.Context, key string, value any) error
	Load(ctx context.Context, key string, out any) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]string, error)
}
