package testutil

import (
	"context"
	"database/sql"
	"reflect"

	"github.com/google/uuid"
	"github.com/stridehq/backend/internal/entity"
	"github.com/stridehq/backend/internal/repository"
)

// SampleUser creates a user with randomized fields, overwritten by any
// non-zero field of init. It returns the created user.
func SampleUser(ctx context.Context, init *entity.User) (entity.User, error) {
	sample := &entity.User{
		Base:     entity.Base{ID: uuid.NewString()},
		Username: uuid.NewString(),
		Role:     entity.RoleUser,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := repository.NewUserRepository().Create(ctx, sample); err != nil {
		return *sample, err
	}

	return *sample, nil
}

func SampleMilestone(ctx context.Context, init *entity.Milestone) (entity.Milestone, error) {
	sample := &entity.Milestone{
		Base:             entity.Base{ID: uuid.NewString()},
		Title:            uuid.NewString(),
		Points:           100,
		Type:             entity.MilestoneManual,
		RequirementValue: 0,
		IsActive:         true,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := repository.NewMilestoneRepository().Create(ctx, sample); err != nil {
		return *sample, err
	}

	return *sample, nil
}

func SampleReward(ctx context.Context, init *entity.Reward) (entity.Reward, error) {
	sample := &entity.Reward{
		Base:      entity.Base{ID: uuid.NewString()},
		Title:     uuid.NewString(),
		PointCost: 50,
		IsActive:  true,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := repository.NewRewardRepository().Create(ctx, sample); err != nil {
		return *sample, err
	}

	return *sample, nil
}

// LimitedReward is SampleReward with a fixed stock quantity.
func LimitedReward(ctx context.Context, quantity int64, init *entity.Reward) (entity.Reward, error) {
	sample := &entity.Reward{Quantity: sql.NullInt64{Int64: quantity, Valid: true}}
	if init != nil {
		overwriteFields(sample, *init)
		sample.Quantity = sql.NullInt64{Int64: quantity, Valid: true}
	}

	return SampleReward(ctx, sample)
}

func overwriteFields[T any](origin *T, overwrite T) {
	originValue := reflect.ValueOf(origin).Elem()
	overwriteValue := reflect.ValueOf(overwrite)

	for i := 0; i < overwriteValue.NumField(); i++ {
		overwriteField := overwriteValue.Field(i)
		if overwriteField.Interface() != reflect.Zero(overwriteField.Type()).Interface() {
			originValue.Field(i).Set(overwriteField)
		}
	}
}
