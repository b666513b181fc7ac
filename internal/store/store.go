// Package store provides the durable key-value layer beneath the
// engine. A store holds three independent JSON documents, one per
// collection, and never interprets their contents. There is no
// cross-key atomicity: each Save is its own write.
package store

import "context"

// Document keys, one per engine collection.
const (
	KeyTransactions   = "transactions"
	KeyRecurringRules = "recurring_rules"
	KeyCategories     = "categories"
)

// Store is the persistence contract consumed by the engine.
//
// Load returns (nil, nil) for an absent key. Implementations return
// bytes exactly as previously saved; the engine owns serialization.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Close() error
}
