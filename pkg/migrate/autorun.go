package migrate

import (
	"context"
	"fmt"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/config"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/db"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/db/models"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/logger"
)

// MaybeRunDev brings the schema up to date in dev when the auto-migrate flag
// is set. Postgres runs the goose migrations; sqlite is created from the models.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dialect": client.Dialect()})

	if client.Dialect() == DialectSQLite {
		logg.Info(ctx, "creating sqlite schema from models (dev auto-run)")
		if err := client.DB().WithContext(ctx).AutoMigrate(models.All()...); err != nil {
			return fmt.Errorf("auto-migrating sqlite schema: %w", err)
		}
	} else {
		sqlDB, err := client.SQL()
		if err != nil {
			return fmt.Errorf("extracting sql.DB: %w", err)
		}
		source, err := Source("")
		if err != nil {
			return err
		}
		runner, err := NewRunner(sqlDB, DialectPostgres, source)
		if err != nil {
			return err
		}
		logg.Info(ctx, "running goose migrations (dev auto-run)")
		if err := runner.Up(ctx); err != nil {
			return err
		}
	}

	if cfg.FeatureFlags.SeedCatalog {
		if err := SeedCatalog(ctx, client.DB()); err != nil {
			return fmt.Errorf("seeding catalog: %w", err)
		}
		logg.Info(ctx, "catalog seed applied")
	}

	logg.Info(ctx, "dev migrations completed")
	return nil
}
