package entity

import (
	"database/sql"
	"time"

	"github.com/stridehq/backend/pkg/enum"
)

type StreakType string

var (
	StreakCheckin = enum.New(StreakType("checkin"))
)

// Streak is the single mutable row per (user, type). Invariant after every
// update: LongestCount >= CurrentCount.
type Streak struct {
	CreatedAt time.Time
	UpdatedAt time.Time

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	Type StreakType `gorm:"primaryKey"`

	CurrentCount    int
	LongestCount    int
	LastCheckinDate sql.NullTime
}
