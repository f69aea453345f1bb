package migration

import (
	"strings"

	"github.com/smallbiznis/estate/internal/config"
	"github.com/smallbiznis/estate/internal/seed"
	"github.com/smallbiznis/estate/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, dbCfg db.Config, log *zap.Logger) error {
		if err := Migrate(conn, dbCfg); err != nil {
			return err
		}

		if !cfg.SeedFeeCategories {
			return nil
		}
		seeded, err := seed.EnsureFeeCategories(conn)
		if err != nil {
			return err
		}
		if seeded > 0 {
			log.Named("migrations").Info("seeded fee categories", zap.Int("count", seeded))
		}
		return nil
	}),
)

// Migrate picks the migration strategy for the configured database type.
func Migrate(conn *gorm.DB, dbCfg db.Config) error {
	if !strings.EqualFold(strings.TrimSpace(dbCfg.Type), db.TypePostgres) {
		return AutoMigrate(conn)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return RunMigrations(sqlDB)
}
