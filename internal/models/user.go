package models

import "time"

type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Username     string `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"type:varchar(128);not null" json:"-"`

	// AI-generation budget. QuotaUsed only ever grows; QuotaLimit is fixed
	// at registration.
	QuotaUsed  int `gorm:"not null;default:0" json:"quota_used"`
	QuotaLimit int `gorm:"not null" json:"quota_limit"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
