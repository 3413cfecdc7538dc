package entity

import (
	"database/sql"
	"time"

	"github.com/stridehq/backend/pkg/enum"
)

type MilestoneType string

var (
	// MilestoneCheckinStreak unlocks automatically once the user's best
	// streak reaches the requirement. No human verification.
	MilestoneCheckinStreak = enum.New(MilestoneType("checkin_streak"))

	// MilestoneManual requires proof submission and admin approval.
	MilestoneManual = enum.New(MilestoneType("manual"))
)

type Milestone struct {
	Base

	Title       string
	Description string
	Points      int64

	Type             MilestoneType
	RequirementValue int
	Icon             string

	IsActive  bool
	SortOrder int
}

// UserMilestone is a claim record. A nil VerifiedBy means the claim is
// pending review. Rejection hard-deletes the row (no DeletedAt here) so the
// unique (user, milestone) index lets the pair be resubmitted.
type UserMilestone struct {
	ID        string `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	UserID string `gorm:"uniqueIndex:idx_user_milestones_user_milestone"`
	User   User   `gorm:"foreignKey:UserID"`

	MilestoneID string    `gorm:"uniqueIndex:idx_user_milestones_user_milestone"`
	Milestone   Milestone `gorm:"foreignKey:MilestoneID"`

	Notes       string
	CompletedAt time.Time
	VerifiedBy  sql.NullString
}
