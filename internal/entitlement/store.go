package entitlement

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the durable expiry mapping. Put must be durable before it returns;
// a concurrent Get sees either the old or the new record, never a torn one.
type Store interface {
	Get(ctx context.Context, userID int64) (*Record, error)
	Put(ctx context.Context, rec *Record) error
}

// ErrNotFound is returned by Get when the user has no record.
var ErrNotFound = errors.New("entitlement record not found")

// GormStore keeps records in a relational table. The upsert is a single
// statement, so last-write-wins holds for concurrent grants to one user.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(ctx context.Context, userID int64) (*Record, error) {
	var rec Record
	if err := s.db.WithContext(ctx).First(&rec, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (s *GormStore) Put(ctx context.Context, rec *Record) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"expires_at", "updated_at"}),
		}).
		Create(rec).Error
}
