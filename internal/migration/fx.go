package migration

import (
	"context"

	"github.com/smallbiznis/feedbackrelay/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}

		if cfg.DBType == "sqlite" {
			if err := ApplySQLiteSchema(context.Background(), sqlDB); err != nil {
				return err
			}
			log.Info("sqlite schema applied")
			return nil
		}

		if err := RunMigrations(sqlDB); err != nil {
			return err
		}
		log.Info("migrations applied")
		return nil
	}),
)
