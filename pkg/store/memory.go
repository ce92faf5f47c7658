package store

import (
	"errors"
	"sync"

	"github.com/logitrack/clients/pkg/models"
)

// Memory is an in-process Store used by tests and as a scratch store
// for short-lived flows that must not touch durable state.
type Memory struct {
	mu   sync.Mutex
	snap *Snapshot

	// FailWrites makes Save/Clear return an error, for exercising the
	// fail-closed paths in tests.
	FailWrites bool
}

var errWriteFailed = errors.New("store: write failed")

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Save(user models.User, access, refresh string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return errWriteFailed
	}
	m.snap = &Snapshot{Access: access, Refresh: refresh, User: user}
	return nil
}

func (m *Memory) Load() (Snapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap == nil {
		return Snapshot{}, false, nil
	}
	return *m.snap, true, nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return errWriteFailed
	}
	m.snap = nil
	return nil
}

func (m *Memory) HasToken() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap != nil && m.snap.Access != ""
}
