package jobs

import (
	"fmt"
	"log"
	"time"

	"WarrantyDesk/internal/config"
	"WarrantyDesk/internal/logger"
	"WarrantyDesk/internal/serviceiface"

	"github.com/robfig/cron/v3"
)

type CronService struct {
	config map[string]interface{}
	job    *RebuildJob
	cron   *cron.Cron
}

func NewCronService(cfg map[string]interface{}, job *RebuildJob) serviceiface.Service {
	return &CronService{
		config: cfg,
		job:    job,
	}
}

func (s *CronService) Name() string {
	return "cron"
}

func (s *CronService) Start() error {
	log.Println("🚀 Starting cron service...")

	rebuildCfg := NewDefaultRebuildConfig()

	// Override schedule from services.yaml if provided
	if s.config != nil {
		if schedule, ok := s.config["rebuild_schedule"].(string); ok && schedule != "" {
			rebuildCfg.Schedule = schedule
		}
		if tz, ok := s.config["timezone"].(string); ok && tz != "" {
			rebuildCfg.TimeZone = tz
		}
	}

	c, err := RunRebuildScheduler(rebuildCfg, s.job)
	if err != nil {
		return fmt.Errorf("failed to start rebuild scheduler: %v", err)
	}
	s.cron = c

	logger.Audit("Cron service started with rebuild schedule %q", rebuildCfg.Schedule)
	log.Println("Cron service started, warranty rebuild scheduled")
	return nil
}

func (s *CronService) Stop() error {
	if s.cron != nil {
		s.cron.Stop()
	}
	log.Println("Cron service stopped.")
	return nil
}

type RebuildConfig struct {
	Schedule string
	TimeZone string
}

func NewDefaultRebuildConfig() *RebuildConfig {
	return &RebuildConfig{
		Schedule: config.RebuildSchedule(),
		TimeZone: config.DefaultTimeZone,
	}
}

// RunRebuildScheduler registers the nightly dataset rebuild and starts
// the cron runner. The caller keeps the returned handle for shutdown.
func RunRebuildScheduler(cfg *RebuildConfig, job *RebuildJob) (*cron.Cron, error) {
	if cfg.Schedule == "" {
		cfg.Schedule = config.RebuildSchedule()
	}
	if cfg.TimeZone == "" {
		cfg.TimeZone = config.DefaultTimeZone
	}

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone for rebuild scheduler: %v", err)
	}

	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc(cfg.Schedule, func() {
		logger.Audit("Running warranty rebuild at %s", time.Now().In(loc))
		if rebuilt := job.Run(false); rebuilt {
			logger.Audit("Scheduled warranty rebuild completed at %s", time.Now().In(loc))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule rebuild cron job: %v", err)
	}

	c.Start()
	return c, nil
}
