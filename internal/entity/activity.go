package entity

import "github.com/stridehq/backend/pkg/enum"

type ActivityType string

var (
	ActivityCheckin    = enum.New(ActivityType("checkin"))
	ActivityMilestone  = enum.New(ActivityType("milestone"))
	ActivityRedemption = enum.New(ActivityType("redemption"))
)

type Activity struct {
	Base

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	Type         ActivityType
	Title        string
	Description  string
	PointsEarned int64
	Metadata     Map
	IsPublic     bool
}
