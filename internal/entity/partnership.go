package entity

import "github.com/stridehq/backend/pkg/enum"

type PartnershipStatus string

var (
	PartnershipPending = enum.New(PartnershipStatus("pending"))
	PartnershipActive  = enum.New(PartnershipStatus("active"))
	PartnershipEnded   = enum.New(PartnershipStatus("ended"))
)

// Partnership pairs two members for accountability. At most one non-ended
// partnership may exist per unordered {sender, receiver} pair.
type Partnership struct {
	Base

	SenderID string
	Sender   User `gorm:"foreignKey:SenderID"`

	ReceiverID string
	Receiver   User `gorm:"foreignKey:ReceiverID"`

	Status PartnershipStatus
}
