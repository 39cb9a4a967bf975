package observability

import (
	"testing"
	"time"

	"github.com/smallbiznis/venuebook/internal/config"
	"github.com/stretchr/testify/assert"
	gormlogger "gorm.io/gorm/logger"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("OTEL_ENABLED", "")
	t.Setenv("GORM_LOG_LEVEL", "")
	t.Setenv("GORM_SLOW_THRESHOLD_MS", "")
	t.Setenv("DEPLOYMENT_ENV", "")
	t.Setenv("SERVICE_VERSION", "")

	cfg := LoadConfig(config.Config{AppName: "", Environment: "development", AppVersion: "1.2.3"})

	assert.Equal(t, "venuebook", cfg.ServiceName)
	assert.Equal(t, "1.2.3", cfg.Version)
	assert.False(t, cfg.OtelEnabled)
	assert.True(t, cfg.Debug())
	assert.Equal(t, 200*time.Millisecond, cfg.GormSlowThreshold)
}

func TestGormLoggerConfigFromEnv(t *testing.T) {
	t.Setenv("GORM_LOG_LEVEL", "info")
	t.Setenv("GORM_SLOW_THRESHOLD_MS", "50")

	cfg := provideGormLoggerConfig(LoadConfig(config.Config{Environment: "production"}))

	assert.Equal(t, gormlogger.Info, cfg.Level)
	assert.Equal(t, 50*time.Millisecond, cfg.SlowThreshold)
}
