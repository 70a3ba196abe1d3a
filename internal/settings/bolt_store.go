package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
	"gopkg.in/yaml.v3"
)

// boltStore keeps one YAML-encoded record per application in the
// organization's bucket.
type boltStore struct {
	db     *bolt.DB
	bucket []byte
	key    []byte
}

func openBoltStore(path, org, app string) (*boltStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create settings directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open settings db: %w", err)
	}

	s := &boltStore{db: db, bucket: []byte(org), key: []byte(app)}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(s.bucket)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init settings bucket: %w", err)
	}
	return s, nil
}

func (b *boltStore) Load() (Settings, error) {
	s := Default()
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(b.bucket)
		if bucket == nil {
			return fmt.Errorf("settings bucket %q missing", b.bucket)
		}
		raw := bucket.Get(b.key)
		if raw == nil {
			return nil
		}
		return yaml.Unmarshal(raw, &s)
	})
	if err != nil {
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return s, nil
}

func (b *boltStore) Store(s Settings) error {
	raw, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(b.bucket)
		if bucket == nil {
			return fmt.Errorf("settings bucket %q missing", b.bucket)
		}
		return bucket.Put(b.key, raw)
	})
}

func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}
