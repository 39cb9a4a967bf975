package migration

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/venuebook/internal/config"
	"github.com/smallbiznis/venuebook/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, node *snowflake.Node, log *zap.Logger) error {
		if err := Apply(conn, cfg.DBType); err != nil {
			return err
		}
		created, err := seed.EnsureCanonicalTiers(conn, node)
		if err != nil {
			return err
		}
		if created > 0 {
			log.Info("seeded membership tiers", zap.Int("created", created))
		}
		return nil
	}),
)
