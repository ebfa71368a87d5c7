package models

import "time"

type Lesson struct {
	ID      uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Unit    string `gorm:"type:varchar(128);index;not null" json:"unit"`
	Title   string `gorm:"type:varchar(255);not null" json:"title"`
	Summary string `gorm:"type:text" json:"summary"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Lesson) TableName() string { return "lessons" }
