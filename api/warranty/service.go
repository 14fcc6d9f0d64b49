package warranty

import (
	"log"

	"WarrantyDesk/internal/jobs"
	"WarrantyDesk/internal/serviceiface"
)

type WarrantyService struct {
	config map[string]interface{}
	job    *jobs.RebuildJob
}

func NewWarrantyService(cfg map[string]interface{}, job *jobs.RebuildJob) serviceiface.Service {
	return &WarrantyService{config: cfg, job: job}
}

func (s *WarrantyService) Name() string {
	return "warranty"
}

func (s *WarrantyService) Start() error {
	// Build the first dataset before the listener comes up so the
	// dashboard never sees a half-initialized store.
	s.job.Run(true)
	go StartWarrantyService(s.job)
	return nil
}

func (s *WarrantyService) Stop() error {
	log.Println("Warranty Service stopped.")
	return nil
}
