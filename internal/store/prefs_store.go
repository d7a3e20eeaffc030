package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"agentdash/internal/types"
)

var (
	bucketUIPrefs = []byte("ui_prefs")
	keyUIPrefs    = []byte("prefs")
)

type UIPrefsStore interface {
	Load(ctx context.Context) (*types.UIPrefs, error)
	Save(ctx context.Context, prefs *types.UIPrefs) error
	Close() error
}

type BboltPrefsStore struct {
	db *bolt.DB
}

func NewBboltPrefsStore(path string) (*BboltPrefsStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("prefs db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketUIPrefs)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BboltPrefsStore{db: db}, nil
}

func (s *BboltPrefsStore) Load(ctx context.Context) (*types.UIPrefs, error) {
	prefs := &types.UIPrefs{}
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketUIPrefs)
		if b == nil {
			return nil
		}
		raw := b.Get(keyUIPrefs)
		if len(raw) == 0 {
			return nil
		}
		return json.Unmarshal(raw, prefs)
	})
	if err != nil {
		return nil, err
	}
	return prefs, nil
}

func (s *BboltPrefsStore) Save(ctx context.Context, prefs *types.UIPrefs) error {
	if prefs == nil {
		return errors.New("prefs are required")
	}
	raw, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketUIPrefs)
		if b == nil {
			return errors.New("ui prefs bucket missing")
		}
		return b.Put(keyUIPrefs, raw)
	})
}

func (s *BboltPrefsStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
