// Package store defines the session persistence contract shared by
// both client runtimes. Each runtime plugs in its own backend: the
// web client keeps the triple in browser cookies, the terminal client
// in a local SQLite database.
package store

import (
	"github.com/logitrack/clients/pkg/models"
)

// Snapshot is the persisted session triple. The three fields are
// written and deleted together; partial writes never leave a token
// behind without its companions.
type Snapshot struct {
	Access  string
	Refresh string
	User    models.User
}

type Store interface {
	// Save persists the triple atomically, replacing any previous one.
	Save(user models.User, access, refresh string) error

	// Load returns the stored triple. ok is false when no access token
	// is stored or when the storage medium is unreadable: storage
	// failures are treated as "no session", not surfaced as a session.
	// The user record may be absent even when ok is true if the medium
	// expired it independently (cookies do); callers treat that as a
	// cache miss, not a session.
	Load() (snap Snapshot, ok bool, err error)

	// Clear removes the triple. Clearing an empty store is a no-op.
	Clear() error

	// HasToken is the fast presence check route guards use. It must
	// not do I/O beyond the local storage medium and must not attempt
	// to validate the token.
	HasToken() bool
}
