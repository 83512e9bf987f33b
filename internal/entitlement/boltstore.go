package entitlement

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	bolt "github.com/boltdb/bolt"
)

const bucketName = "premium_users"

// BoltStore keeps records in a single embedded database file. No external
// database process is required; each Put commits inside one write transaction,
// which gives both the atomic-replace and the durability guarantee.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) the database file and ensures the bucket
// exists. CreateBucketIfNotExists is safe to run on every startup.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) Get(ctx context.Context, userID int64) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rec Record
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		v := b.Get(key(userID))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &rec)
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *BoltStore) Put(ctx context.Context, rec *Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return b.Put(key(rec.UserID), data)
	})
}

func key(userID int64) []byte {
	return []byte(strconv.FormatInt(userID, 10))
}
