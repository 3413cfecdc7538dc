package entity

import (
	"database/sql"

	"github.com/stridehq/backend/pkg/enum"
)

// Reward is a shop catalog entry. A null Quantity means unlimited stock.
// ClaimedCount is only ever moved by the conditional increment in the
// repository, which is what keeps ClaimedCount <= Quantity under concurrency.
type Reward struct {
	Base

	Title       string
	Description string
	ImageURL    string

	PointCost    int64
	Quantity     sql.NullInt64
	ClaimedCount int64

	IsActive  bool
	ExpiresAt sql.NullTime
}

type RedemptionStatus string

var (
	RedemptionPending   = enum.New(RedemptionStatus("pending"))
	RedemptionFulfilled = enum.New(RedemptionStatus("fulfilled"))
	RedemptionCancelled = enum.New(RedemptionStatus("cancelled"))
)

// Redemption moves pending -> fulfilled or pending -> cancelled, never out of
// a terminal state. PointCost snapshots the reward's price at redemption time
// so a later cancellation refunds what was actually paid.
type Redemption struct {
	Base

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	RewardID string
	Reward   Reward `gorm:"foreignKey:RewardID"`

	Status     RedemptionStatus
	PointCost  int64
	AdminNotes string

	FulfilledAt sql.NullTime
}
