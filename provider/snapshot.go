package provider

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/buntdb"

	"github.com/jonwraymond/appdiscovery/index"
)

const snapshotKeyPrefix = "app:"

// InMemorySnapshot is the path that opens a SnapshotStore without a file.
const InMemorySnapshot = ":memory:"

// SnapshotStore persists the last known app list between runs.
type SnapshotStore struct {
	db *buntdb.DB
}

// OpenSnapshotStore opens or creates the snapshot database at path.
// Use InMemorySnapshot for a store that lives only as long as the process.
func OpenSnapshotStore(path string) (*SnapshotStore, error) {
	if path != InMemorySnapshot {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("create snapshot dir: %w", err)
		}
	}
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	return &SnapshotStore{db: db}, nil
}

// Save replaces the stored list with the apps carried by items, in order.
// Items whose payload is not an App are skipped.
func (s *SnapshotStore) Save(items []index.Item) error {
	return s.db.Update(func(tx *buntdb.Tx) error {
		if err := tx.DeleteAll(); err != nil {
			return err
		}
		n := 0
		for _, item := range items {
			app, ok := appOf(item)
			if !ok {
				continue
			}
			value, err := json.Marshal(app)
			if err != nil {
				return err
			}
			key := fmt.Sprintf("%s%08d", snapshotKeyPrefix, n)
			if _, _, err := tx.Set(key, string(value), nil); err != nil {
				return err
			}
			n++
		}
		return nil
	})
}

// Load returns the stored apps in the order they were saved.
func (s *SnapshotStore) Load() ([]App, error) {
	var (
		apps      []App
		decodeErr error
	)
	err := s.db.View(func(tx *buntdb.Tx) error {
		return tx.AscendKeys(snapshotKeyPrefix+"*", func(key, value string) bool {
			var app App
			if err := json.Unmarshal([]byte(value), &app); err != nil {
				decodeErr = fmt.Errorf("decode %s: %w", key, err)
				return false
			}
			apps = append(apps, app)
			return true
		})
	})
	if err != nil {
		return nil, err
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	return apps, nil
}

// Close closes the database.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

func appOf(item index.Item) (App, bool) {
	switch p := item.Payload.(type) {
	case App:
		return p, true
	case *App:
		if p != nil {
			return *p, true
		}
	}
	return App{}, false
}
