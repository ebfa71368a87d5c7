package skill

import "time"

// Tier buckets a mastery score so cached content can be shared across all
// users at the same level for a lesson.
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// Thresholds are inclusive lower bounds: a score of exactly 0.7 is high.
const (
	highThreshold   = 0.7
	mediumThreshold = 0.4
)

func TierForScore(score float64) Tier {
	switch {
	case score >= highThreshold:
		return TierHigh
	case score >= mediumThreshold:
		return TierMedium
	default:
		return TierLow
	}
}

// MidpointScore returns a representative mastery score for a tier; the
// warmer uses it to build prompts without a concrete user.
func (t Tier) MidpointScore() float64 {
	switch t {
	case TierHigh:
		return 0.9
	case TierMedium:
		return 0.6
	default:
		return 0.3
	}
}

// AllTiers in warming order.
func AllTiers() []Tier { return []Tier{TierLow, TierMedium, TierHigh} }

type Record struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID   uint64 `gorm:"not null;index:uniq_skill_user_lesson,unique,priority:1" json:"user_id"`
	LessonID uint64 `gorm:"not null;index:uniq_skill_user_lesson,unique,priority:2" json:"lesson_id"`

	MasteryScore float64   `gorm:"not null" json:"mastery_score"`
	Confidence   Tier      `gorm:"type:varchar(8);not null" json:"confidence"`
	LastAttempt  time.Time `gorm:"not null" json:"last_attempt"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (Record) TableName() string { return "skill_records" }
