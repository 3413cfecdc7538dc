package model

import (
	"time"

	"github.com/stridehq/backend/internal/entity"
)

const DefaultTimeLayout string = time.RFC3339Nano
const DefaultDateLayout string = "2006-01-02"

func ConvertUser(user *entity.User, includeSensitive bool) User {
	if user == nil {
		return User{}
	}

	clientUser := User{
		ID:        user.ID,
		Username:  user.Username,
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt.Format(DefaultTimeLayout),
	}

	if includeSensitive {
		clientUser.Role = string(user.Role)
	}

	return clientUser
}

func ConvertCheckin(checkin *entity.Checkin) Checkin {
	if checkin == nil {
		return Checkin{}
	}

	return Checkin{
		ID:          checkin.ID,
		UserID:      checkin.UserID,
		CheckinDate: checkin.CheckinDate.Format(DefaultDateLayout),
		Mood:        checkin.Mood,
		Wins:        checkin.Wins,
		Struggles:   checkin.Struggles,
		Focus:       checkin.Focus,
		CreatedAt:   checkin.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertStreak(streak *entity.Streak) Streak {
	if streak == nil {
		return Streak{}
	}

	clientStreak := Streak{
		Type:         string(streak.Type),
		CurrentCount: streak.CurrentCount,
		LongestCount: streak.LongestCount,
	}

	if streak.LastCheckinDate.Valid {
		clientStreak.LastCheckinDate = streak.LastCheckinDate.Time.Format(DefaultDateLayout)
	}

	return clientStreak
}

func ConvertPointTransaction(tx *entity.PointTransaction) PointTransaction {
	if tx == nil {
		return PointTransaction{}
	}

	return PointTransaction{
		ID:        tx.ID,
		UserID:    tx.UserID,
		Amount:    tx.Amount,
		Type:      string(tx.Type),
		Reason:    tx.Reason,
		Metadata:  tx.Metadata,
		CreatedAt: tx.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertMilestone(milestone *entity.Milestone) Milestone {
	if milestone == nil {
		return Milestone{}
	}

	return Milestone{
		ID:               milestone.ID,
		Title:            milestone.Title,
		Description:      milestone.Description,
		Points:           milestone.Points,
		Type:             string(milestone.Type),
		RequirementValue: milestone.RequirementValue,
		Icon:             milestone.Icon,
		IsActive:         milestone.IsActive,
		SortOrder:        milestone.SortOrder,
	}
}

func ConvertUserMilestone(userMilestone *entity.UserMilestone, milestone *entity.Milestone) UserMilestone {
	if userMilestone == nil {
		return UserMilestone{}
	}

	clientUserMilestone := UserMilestone{
		ID:          userMilestone.ID,
		UserID:      userMilestone.UserID,
		MilestoneID: userMilestone.MilestoneID,
		Notes:       userMilestone.Notes,
		CompletedAt: userMilestone.CompletedAt.Format(DefaultTimeLayout),
		Milestone:   ConvertMilestone(milestone),
	}

	if userMilestone.VerifiedBy.Valid {
		clientUserMilestone.VerifiedBy = userMilestone.VerifiedBy.String
	}

	return clientUserMilestone
}

func ConvertReward(reward *entity.Reward) Reward {
	if reward == nil {
		return Reward{}
	}

	clientReward := Reward{
		ID:           reward.ID,
		Title:        reward.Title,
		Description:  reward.Description,
		ImageURL:     reward.ImageURL,
		PointCost:    reward.PointCost,
		ClaimedCount: reward.ClaimedCount,
		IsActive:     reward.IsActive,
	}

	if reward.Quantity.Valid {
		quantity := reward.Quantity.Int64
		clientReward.Quantity = &quantity
	}

	if reward.ExpiresAt.Valid {
		clientReward.ExpiresAt = reward.ExpiresAt.Time.Format(DefaultTimeLayout)
	}

	return clientReward
}

func ConvertRedemption(redemption *entity.Redemption, reward *entity.Reward) Redemption {
	if redemption == nil {
		return Redemption{}
	}

	clientRedemption := Redemption{
		ID:         redemption.ID,
		UserID:     redemption.UserID,
		RewardID:   redemption.RewardID,
		Status:     string(redemption.Status),
		PointCost:  redemption.PointCost,
		AdminNotes: redemption.AdminNotes,
		CreatedAt:  redemption.CreatedAt.Format(DefaultTimeLayout),
		Reward:     ConvertReward(reward),
	}

	if redemption.FulfilledAt.Valid {
		clientRedemption.FulfilledAt = redemption.FulfilledAt.Time.Format(DefaultTimeLayout)
	}

	return clientRedemption
}

func ConvertPartnership(partnership *entity.Partnership) Partnership {
	if partnership == nil {
		return Partnership{}
	}

	return Partnership{
		ID:         partnership.ID,
		SenderID:   partnership.SenderID,
		ReceiverID: partnership.ReceiverID,
		Status:     string(partnership.Status),
		CreatedAt:  partnership.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertActivity(activity *entity.Activity) Activity {
	if activity == nil {
		return Activity{}
	}

	return Activity{
		ID:           activity.ID,
		UserID:       activity.UserID,
		Type:         string(activity.Type),
		Title:        activity.Title,
		Description:  activity.Description,
		PointsEarned: activity.PointsEarned,
		Metadata:     activity.Metadata,
		CreatedAt:    activity.CreatedAt.Format(DefaultTimeLayout),
	}
}
