package main

import (
	"context"

	"github.com/stridehq/backend/migration"
	"github.com/stridehq/backend/pkg/xcontext"
)

func migrate(ctx context.Context) error {
	if err := migration.AutoMigrate(ctx); err != nil {
		return err
	}

	xcontext.Logger(ctx).Infof("Migration completed")
	return nil
}
