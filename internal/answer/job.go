package answer

import "time"

type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// Job modes: plain web answer or web answer with statute analysis.
const (
	ModeWeb   = "web"
	ModeLegal = "legal"
)

// Job is one queued question. The worker runs the search, stores the answer
// and delivers it to the chat the question came from.
type Job struct {
	ID string `gorm:"primaryKey;size:26"` // ULID length

	UserID int64 `gorm:"index;not null"`
	ChatID int64 `gorm:"not null"`

	Query string `gorm:"type:text;not null"`
	Mode  string `gorm:"type:varchar(16);not null"`

	IdempotencyKey *string `gorm:"type:varchar(128);index:uniq_user_idempo,unique" json:"idempotency_key"`

	Status JobStatus `gorm:"type:varchar(16);index;not null"`

	// Filled when succeeded
	Answer *string `gorm:"type:text"`

	// Filled when failed
	Error *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Job) TableName() string { return "answer_jobs" }
