// Package settings is a small key/value store for ledger state that has to
// survive restarts, such as the session stamp and the signed-out flag.
package settings

import "context"

type Repository interface {
	// Get returns (nil, nil) for absent keys.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
