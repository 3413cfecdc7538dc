package entity

import "github.com/stridehq/backend/pkg/enum"

type TransactionType string

var (
	TransactionCheckin     = enum.New(TransactionType("checkin"))
	TransactionStreakBonus = enum.New(TransactionType("streak_bonus"))
	TransactionMilestone   = enum.New(TransactionType("milestone"))
	TransactionAdminGrant  = enum.New(TransactionType("admin_grant"))
	TransactionRedemption  = enum.New(TransactionType("redemption"))
	TransactionRefund      = enum.New(TransactionType("refund"))
)

// PointTransaction is one row of the append-only points ledger. A user's
// balance is always SUM(amount) over their rows; rows are never updated or
// deleted. Redemption rows carry a negative amount, everything else is
// non-negative by convention.
type PointTransaction struct {
	Base

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	Amount   int64
	Type     TransactionType
	Reason   string
	Metadata Map
}
