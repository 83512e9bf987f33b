package entitlement

import "time"

// Record maps a user to the moment their premium access lapses. A record is
// active iff now < ExpiresAt; an absent record means the user was never
// granted anything. Records are never deleted, only overwritten.
type Record struct {
	UserID    int64     `gorm:"primaryKey" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Record) TableName() string { return "premium_users" }
