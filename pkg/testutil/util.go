package testutil

import (
	"context"
	"time"

	"github.com/stridehq/backend/config"
	"github.com/stridehq/backend/migration"
	"github.com/stridehq/backend/pkg/logger"
	"github.com/stridehq/backend/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func MockContext() context.Context {
	// TranslateError surfaces unique-index violations as
	// gorm.ErrDuplicatedKey, which the claim and submit flows rely on.
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		panic(err)
	}

	// A second pooled connection would see its own empty in-memory
	// database, so keep everything on one.
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	cfg := config.Configs{
		ApiServer: config.ServerConfigs{
			MaxLimit:     50,
			DefaultLimit: 20,
		},
		Auth: config.AuthConfigs{
			TokenSecret: "secret",
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: config.Duration(time.Minute),
			},
		},
		Points: config.PointsConfigs{
			DailyCheckin: 10,
			StreakTiers: []config.StreakTierConfigs{
				{Days: 7, Bonus: 50, Label: "7 Day Streak!"},
				{Days: 30, Bonus: 200, Label: "30 Day Streak!"},
				{Days: 100, Bonus: 1000, Label: "100 Day Streak!"},
			},
		},
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithDB(ctx, db)

	if err := migration.AutoMigrate(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = MockContext()
	}

	return xcontext.WithRequestUserID(ctx, userID)
}
