package migration

import (
	"github.com/lumonlabs/severatee/internal/config"
	"github.com/lumonlabs/severatee/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// Non-postgres stores are for local development only.
			log.Warn("skipping SQL migrations for non-postgres database", zap.String("type", cfg.DBType))
			if err := seed.AutoMigrate(conn); err != nil {
				return err
			}
		}

		if cfg.BootstrapDefaults {
			return seed.EnsureDefaultWorkspaceAndAdmin(conn)
		}
		return nil
	}),
)
