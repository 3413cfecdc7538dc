package domain

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/stridehq/backend/internal/common"
	"github.com/stridehq/backend/internal/domain/statistic"
	"github.com/stridehq/backend/internal/entity"
	"github.com/stridehq/backend/internal/model"
	"github.com/stridehq/backend/internal/repository"
	"github.com/stridehq/backend/pkg/dateutil"
	"github.com/stridehq/backend/pkg/errorx"
	"github.com/stridehq/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type CheckinDomain interface {
	Checkin(context.Context, *model.CheckinRequest) (*model.CheckinResponse, error)
	GetStreak(context.Context, *model.GetStreakRequest) (*model.GetStreakResponse, error)
	GetCheckins(context.Context, *model.GetCheckinsRequest) (*model.GetCheckinsResponse, error)
}

type checkinDomain struct {
	checkinRepo          repository.CheckinRepository
	streakRepo           repository.StreakRepository
	pointTransactionRepo repository.PointTransactionRepository
	activityRepo         repository.ActivityRepository
	leaderboard          statistic.Leaderboard
	userLocker           *common.UserLocker
}

func NewCheckinDomain(
	checkinRepo repository.CheckinRepository,
	streakRepo repository.StreakRepository,
	pointTransactionRepo repository.PointTransactionRepository,
	activityRepo repository.ActivityRepository,
	leaderboard statistic.Leaderboard,
	userLocker *common.UserLocker,
) *checkinDomain {
	return &checkinDomain{
		checkinRepo:          checkinRepo,
		streakRepo:           streakRepo,
		pointTransactionRepo: pointTransactionRepo,
		activityRepo:         activityRepo,
		leaderboard:          leaderboard,
		userLocker:           userLocker,
	}
}

// Checkin records today's survey. The first check-in of a calendar day
// advances the streak and awards points; a repeated check-in on the same day
// only overwrites the survey fields.
func (d *checkinDomain) Checkin(
	ctx context.Context, req *model.CheckinRequest,
) (*model.CheckinResponse, error) {
	if req.Mood < 1 || req.Mood > 5 {
		return nil, errorx.New(errorx.BadRequest, "Mood must be between 1 and 5")
	}

	userID := xcontext.RequestUserID(ctx)
	d.userLocker.Lock(userID)
	defer d.userLocker.Unlock(userID)

	pointsConfigs := xcontext.Configs(ctx).Points
	loc := pointsConfigs.Location()
	now := time.Now()
	today := dateutil.Day(now, loc)

	existing, err := d.checkinRepo.Get(ctx, userID, today)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get today checkin: %v", err)
		return nil, errorx.Unknown
	}

	checkin := &entity.Checkin{
		Base:        entity.Base{ID: uuid.NewString()},
		UserID:      userID,
		CheckinDate: today,
		Mood:        req.Mood,
		Wins:        req.Wins,
		Struggles:   req.Struggles,
		Focus:       req.Focus,
	}

	if err := d.checkinRepo.Upsert(ctx, checkin); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upsert checkin: %v", err)
		return nil, errorx.Unknown
	}

	if existing != nil {
		// Same-day repeat. The survey is refreshed but no streak movement
		// and no points.
		checkin.Base = existing.Base
		streak, err := d.getOrZeroStreak(ctx, userID)
		if err != nil {
			return nil, err
		}

		return &model.CheckinResponse{
			Checkin:      model.ConvertCheckin(checkin),
			Streak:       model.ConvertStreak(streak),
			AlreadyToday: true,
		}, nil
	}

	streak, err := d.getOrZeroStreak(ctx, userID)
	if err != nil {
		return nil, err
	}

	switch {
	case streak.LastCheckinDate.Valid &&
		dateutil.SameDay(streak.LastCheckinDate.Time, now, loc):
		// A streak row already stamped today without a check-in row means an
		// earlier partial write. Keep the count instead of resetting it.
	case streak.LastCheckinDate.Valid &&
		dateutil.IsYesterday(streak.LastCheckinDate.Time, now, loc):
		streak.CurrentCount++
	default:
		streak.CurrentCount = 1
	}

	if streak.CurrentCount > streak.LongestCount {
		streak.LongestCount = streak.CurrentCount
	}

	streak.LastCheckinDate = sql.NullTime{Time: today, Valid: true}
	if err := d.streakRepo.Upsert(ctx, streak); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upsert streak: %v", err)
		return nil, errorx.Unknown
	}

	pointsEarned := pointsConfigs.DailyCheckin
	err = d.pointTransactionRepo.Create(ctx, &entity.PointTransaction{
		Base:     entity.Base{ID: uuid.NewString()},
		UserID:   userID,
		Amount:   pointsEarned,
		Type:     entity.TransactionCheckin,
		Reason:   "Daily check-in",
		Metadata: entity.Map{"checkin_date": today.Format(model.DefaultDateLayout)},
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create checkin transaction: %v", err)
		return nil, errorx.Unknown
	}

	// Streak bonuses fire only when the count lands exactly on a tier.
	var streakBonus int64
	var bonusLabel string
	for _, tier := range pointsConfigs.StreakTiers {
		if streak.CurrentCount != tier.Days {
			continue
		}

		err = d.pointTransactionRepo.Create(ctx, &entity.PointTransaction{
			Base:     entity.Base{ID: uuid.NewString()},
			UserID:   userID,
			Amount:   tier.Bonus,
			Type:     entity.TransactionStreakBonus,
			Reason:   tier.Label,
			Metadata: entity.Map{"streak_days": tier.Days},
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create streak bonus transaction: %v", err)
			return nil, errorx.Unknown
		}

		streakBonus = tier.Bonus
		bonusLabel = tier.Label
	}

	activityTitle := "Checked in"
	if bonusLabel != "" {
		activityTitle = bonusLabel
	}

	err = d.activityRepo.Create(ctx, &entity.Activity{
		Base:         entity.Base{ID: uuid.NewString()},
		UserID:       userID,
		Type:         entity.ActivityCheckin,
		Title:        activityTitle,
		PointsEarned: pointsEarned + streakBonus,
		Metadata:     entity.Map{"streak": streak.CurrentCount},
		IsPublic:     true,
	})
	if err != nil {
		// The feed is best-effort, the check-in already succeeded.
		xcontext.Logger(ctx).Errorf("Cannot create checkin activity: %v", err)
	}

	d.leaderboard.ChangePointLeaderboard(ctx, pointsEarned+streakBonus, userID)
	d.leaderboard.SetStreakLeaderboard(ctx, int64(streak.CurrentCount), userID)

	return &model.CheckinResponse{
		Checkin:      model.ConvertCheckin(checkin),
		Streak:       model.ConvertStreak(streak),
		PointsEarned: pointsEarned,
		StreakBonus:  streakBonus,
	}, nil
}

func (d *checkinDomain) GetStreak(
	ctx context.Context, req *model.GetStreakRequest,
) (*model.GetStreakResponse, error) {
	userID := req.UserID
	if userID == "" {
		userID = xcontext.RequestUserID(ctx)
	}

	streak, err := d.getOrZeroStreak(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.GetStreakResponse{Streak: model.ConvertStreak(streak)}, nil
}

func (d *checkinDomain) GetCheckins(
	ctx context.Context, req *model.GetCheckinsRequest,
) (*model.GetCheckinsResponse, error) {
	if req.Limit == 0 {
		req.Limit = xcontext.Configs(ctx).ApiServer.DefaultLimit
	}

	if req.Limit < 0 {
		return nil, errorx.New(errorx.BadRequest, "Limit must be positive")
	}

	if req.Limit > xcontext.Configs(ctx).ApiServer.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit")
	}

	userID := req.UserID
	if userID == "" {
		userID = xcontext.RequestUserID(ctx)
	}

	checkins, err := d.checkinRepo.GetListByUserID(ctx, userID, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get checkins: %v", err)
		return nil, errorx.Unknown
	}

	clientCheckins := []model.Checkin{}
	for _, c := range checkins {
		clientCheckins = append(clientCheckins, model.ConvertCheckin(&c))
	}

	return &model.GetCheckinsResponse{Checkins: clientCheckins}, nil
}

func (d *checkinDomain) getOrZeroStreak(
	ctx context.Context, userID string,
) (*entity.Streak, error) {
	streak, err := d.streakRepo.Get(ctx, userID, entity.StreakCheckin)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get streak: %v", err)
			return nil, errorx.Unknown
		}

		streak = &entity.Streak{UserID: userID, Type: entity.StreakCheckin}
	}

	return streak, nil
}
