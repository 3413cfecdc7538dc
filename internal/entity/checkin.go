package entity

import "time"

// Checkin is the daily survey record, at most one per user per calendar date.
// Re-submitting on the same date overwrites the survey fields only.
type Checkin struct {
	Base

	UserID string `gorm:"uniqueIndex:idx_checkins_user_date"`
	User   User   `gorm:"foreignKey:UserID"`

	CheckinDate time.Time `gorm:"uniqueIndex:idx_checkins_user_date"`

	Mood      int
	Wins      string
	Struggles string
	Focus     string
}
