// Package filestore keeps the session triple in a small SQLite
// key-value table under the user's state directory, the same storage
// medium the mobile client's async storage sits on. Save and Clear
// run in one transaction each, so the triple is never half-written.
package filestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/logitrack/clients/pkg/models"
	"github.com/logitrack/clients/pkg/store"
)

const (
	keyToken   = "@LogiTrack:token"
	keyRefresh = "@LogiTrack:refreshToken"
	keyUser    = "@LogiTrack:user"
)

var sessionKeys = []string{keyToken, keyRefresh, keyUser}

type kvEntry struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value string `gorm:"column:value"`
}

func (kvEntry) TableName() string { return "kv" }

type Store struct {
	db *gorm.DB
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, fmt.Errorf("migrate state db: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Save(user models.User, access, refresh string) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	entries := []kvEntry{
		{Key: keyToken, Value: access},
		{Key: keyRefresh, Value: refresh},
		{Key: keyUser, Value: string(raw)},
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&entries).Error
	})
}

func (s *Store) Load() (store.Snapshot, bool, error) {
	var entries []kvEntry
	if err := s.db.Where("key IN ?", sessionKeys).Find(&entries).Error; err != nil {
		// unreadable storage means no session, never a broken one
		return store.Snapshot{}, false, err
	}
	byKey := make(map[string]string, len(entries))
	for _, e := range entries {
		byKey[e.Key] = e.Value
	}

	snap := store.Snapshot{
		Access:  byKey[keyToken],
		Refresh: byKey[keyRefresh],
	}
	if snap.Access == "" {
		return store.Snapshot{}, false, nil
	}
	if raw := byKey[keyUser]; raw != "" {
		var user models.User
		if json.Unmarshal([]byte(raw), &user) == nil {
			snap.User = user
		}
	}
	return snap, true, nil
}

func (s *Store) Clear() error {
	return s.db.Where("key IN ?", sessionKeys).Delete(&kvEntry{}).Error
}

func (s *Store) HasToken() bool {
	var count int64
	if err := s.db.Model(&kvEntry{}).
		Where("key = ? AND value <> ''", keyToken).
		Count(&count).Error; err != nil {
		return false
	}
	return count > 0
}
