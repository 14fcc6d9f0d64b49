package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"WarrantyDesk/internal/config"
)

func TestNewDefaultRebuildConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("WARRANTY_REBUILD_CRON", "")
		cfg := NewDefaultRebuildConfig()
		assert.Equal(t, config.DefaultRebuildSchedule, cfg.Schedule)
		assert.Equal(t, config.DefaultTimeZone, cfg.TimeZone)
	})

	t.Run("env override", func(t *testing.T) {
		t.Setenv("WARRANTY_REBUILD_CRON", "30 5 * * *")
		assert.Equal(t, "30 5 * * *", NewDefaultRebuildConfig().Schedule)
	})
}

func TestRunRebuildScheduler(t *testing.T) {
	job := newTestJob(t, t.TempDir())

	t.Run("starts with a valid config", func(t *testing.T) {
		c, err := RunRebuildScheduler(&RebuildConfig{Schedule: "0 6 * * *", TimeZone: "UTC"}, job)
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Len(t, c.Entries(), 1)
		c.Stop()
	})

	t.Run("fills empty fields from defaults", func(t *testing.T) {
		cfg := &RebuildConfig{}
		c, err := RunRebuildScheduler(cfg, job)
		require.NoError(t, err)
		assert.Equal(t, config.DefaultRebuildSchedule, cfg.Schedule)
		assert.Equal(t, config.DefaultTimeZone, cfg.TimeZone)
		c.Stop()
	})

	t.Run("rejects an unknown timezone", func(t *testing.T) {
		_, err := RunRebuildScheduler(&RebuildConfig{Schedule: "0 6 * * *", TimeZone: "Mars/Olympus"}, job)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid timezone")
	})

	t.Run("rejects a malformed schedule", func(t *testing.T) {
		_, err := RunRebuildScheduler(&RebuildConfig{Schedule: "every day at six", TimeZone: "UTC"}, job)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to schedule")
	})
}

func TestCronService(t *testing.T) {
	job := newTestJob(t, t.TempDir())

	t.Run("start and stop", func(t *testing.T) {
		svc := NewCronService(map[string]interface{}{"rebuild_schedule": "0 6 * * *", "timezone": "UTC"}, job)
		assert.Equal(t, "cron", svc.Name())
		require.NoError(t, svc.Start())
		require.NoError(t, svc.Stop())
	})

	t.Run("bad override surfaces on start", func(t *testing.T) {
		svc := NewCronService(map[string]interface{}{"timezone": "Nowhere/At All"}, job)
		err := svc.Start()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to start rebuild scheduler")
	})

	t.Run("stop before start is safe", func(t *testing.T) {
		svc := NewCronService(nil, job)
		assert.NoError(t, svc.Stop())
	})
}
