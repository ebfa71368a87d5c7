package homework

import "time"

type JobStatus string

// Job lifecycle: pending -> processing -> completed | failed. Completed and
// failed are terminal; every transition in the repo is guarded by the
// expected current status so a terminal row can never move again.
const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

type Job struct {
	ID string `gorm:"primaryKey;size:26"` // ULID length

	UserID uint64 `gorm:"index;not null"`

	// Submitted problem: an image plus an optional note from the student.
	ImageBase64    string `gorm:"type:mediumtext;not null"`
	ImageMediaType string `gorm:"type:varchar(64);not null"`
	Note           string `gorm:"type:text"`

	Status JobStatus `gorm:"type:varchar(16);index;not null"`

	// Filled when completed
	Solution *string `gorm:"type:text"`

	// Filled when failed
	FailureReason *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Job) TableName() string { return "homework_jobs" }
