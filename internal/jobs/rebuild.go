package jobs

import (
	"fmt"
	"log"
	"sync"
	"time"

	"WarrantyDesk/api/constants"
	"WarrantyDesk/internal/checksum"
	"WarrantyDesk/internal/dashboard"
	"WarrantyDesk/internal/logger"
	"WarrantyDesk/internal/notification"
	"WarrantyDesk/internal/warranty"
)

// RebuildJob owns the load-aggregate-swap pipeline. The cron scheduler
// and the manual refresh endpoint share one instance so rebuilds never
// overlap.
type RebuildJob struct {
	Loader  *warranty.Loader
	Store   *warranty.Store
	Matcher *checksum.Matcher
	Notices *notification.NotificationService
	Events  *dashboard.SSEServer

	mu sync.Mutex
}

func NewRebuildJob(loader *warranty.Loader, store *warranty.Store, matcher *checksum.Matcher, notices *notification.NotificationService, events *dashboard.SSEServer) *RebuildJob {
	return &RebuildJob{
		Loader:  loader,
		Store:   store,
		Matcher: matcher,
		Notices: notices,
		Events:  events,
	}
}

// Run rebuilds the aggregated dataset and swaps it into the store.
// When force is false the rebuild is skipped if none of the source
// workbooks changed since the last run. Returns whether a new dataset
// was published.
func (j *RebuildJob) Run(force bool) bool {
	j.mu.Lock()
	defer j.mu.Unlock()

	fp := checksum.Fingerprint(j.Loader.SourcePaths())
	changed := j.Matcher.Changed(fp)
	if !changed && !force {
		log.Println("Warranty rebuild skipped, source workbooks unchanged")
		return false
	}

	started := time.Now()
	sources := warranty.LoadSources(j.Loader)
	dataset := warranty.BuildDataset(sources)
	dataset.Fingerprint = fp
	j.Store.Swap(dataset)

	logger.Audit("Warranty dataset v%d rebuilt in %s", dataset.Version, time.Since(started).Round(time.Millisecond))

	if j.Notices != nil {
		j.Notices.AddNotification("rebuild", fmt.Sprintf("Warranty data refreshed at %s", dataset.BuiltAt.Format(constants.DateTimeFormat)))
	}
	if j.Events != nil {
		j.Events.Broadcast(map[string]interface{}{
			"type":    "rebuild",
			"version": dataset.Version,
			"time":    dataset.BuiltAt.Format(time.RFC3339),
		})
	}
	return true
}
