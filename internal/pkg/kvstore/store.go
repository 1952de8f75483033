// Package kvstore is the persistence port for every piece of storefront state.
//
// Records are addressed by a two-level Key (namespace, owner) and always
// written as a whole value. There is no incremental update and no conflict
// detection: the last writer wins.
package kvstore

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when no record exists for a key.
var ErrNotFound = errors.New("kvstore: record not found")

// Namespace groups records of the same kind.
type Namespace string

const (
	NamespaceCart            Namespace = "cart"
	NamespaceWishlist        Namespace = "wishlist"
	NamespaceSessionIdentity Namespace = "session_identity"
	NamespaceOrders          Namespace = "orders"
	NamespaceCoins           Namespace = "coins"
	NamespaceLastOrder       Namespace = "last_order"
	NamespaceSagaJournal     Namespace = "saga_journal"
)

// Key addresses a single record. Owner is the browser id for browser-scoped
// namespaces and the username for identity-scoped ones.
type Key struct {
	Namespace Namespace
	Owner     string
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s", k.Namespace, k.Owner)
}

// Store is implemented by the memory, Redis and SQLite backends.
type Store interface {
	Get(ctx context.Context, key Key) ([]byte, error)
	Set(ctx context.Context, key Key, value []byte) error
	Delete(ctx context.Context, key Key) error
}
