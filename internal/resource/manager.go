package resource

import (
	"fmt"
	"os"
	"sync"
	"time"

	"WarrantyDesk/internal/config"
	"WarrantyDesk/internal/dashboard"
	"WarrantyDesk/internal/logger"
	"WarrantyDesk/internal/serviceiface"
	"WarrantyDesk/internal/warranty"
)

// SourceStatus records the last observed state of one source workbook.
type SourceStatus struct {
	Path     string    `json:"path"`
	Present  bool      `json:"present"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

type ResourceManager struct {
	resources         map[string]interface{}
	mu                sync.RWMutex
	stopChan          chan struct{}
	heartbeatInterval time.Duration
	loader            *warranty.Loader
	store             *warranty.Store
}

var globalManager *ResourceManager

func GetManager() *ResourceManager {
	return globalManager
}

func NewResourceManagerService(cfg map[string]interface{}, loader *warranty.Loader, store *warranty.Store) serviceiface.Service {
	interval := 5 * time.Minute // default
	if val, ok := cfg["heartbeat_interval"]; ok {
		fmt.Println("Configuring heartbeat interval:", val)
		switch v := val.(type) {
		case string:
			if d, err := time.ParseDuration(v); err == nil {
				interval = d
			}
		case float64:
			interval = time.Duration(v) * time.Second
		}
	}
	rm := &ResourceManager{
		resources:         make(map[string]interface{}),
		stopChan:          make(chan struct{}),
		heartbeatInterval: interval,
		loader:            loader,
		store:             store,
	}
	globalManager = rm
	return rm
}

func (rm *ResourceManager) Name() string { return "resourcemanager" }

func (rm *ResourceManager) Start() error {
	rm.AddResource("data_dir", config.DataDir())
	if rm.store != nil {
		rm.AddResource("store", rm.store)
	}
	rm.checkSources()
	if logger.GlobalLogger != nil {
		logger.GlobalLogger.LogAudit("ResourceManager started")
	}
	go rm.heartbeatLoop()
	return nil
}

func (rm *ResourceManager) Stop() error {
	close(rm.stopChan)
	return nil
}

func (rm *ResourceManager) heartbeatLoop() {
	ticker := time.NewTicker(rm.heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-rm.stopChan:
			return
		case <-ticker.C:
			fmt.Println("ResourceManager: source check at", time.Now())
			rm.checkSources()
			if sse := dashboard.GetSSEServer(); sse != nil {
				sse.CleanupDeadConnections()
			}
			if logger.GlobalLogger != nil {
				logger.GlobalLogger.LogAudit(rm.heartbeatLine())
			}
		}
	}
}

// heartbeatLine summarizes dataset freshness and connection state for the
// audit trail.
func (rm *ResourceManager) heartbeatLine() string {
	clients := dashboard.GetClientCount()
	if rm.store == nil {
		return fmt.Sprintf("heartbeat check at %v, %d sse client(s)", time.Now(), clients)
	}
	snapshot := rm.store.Snapshot()
	return fmt.Sprintf("heartbeat: dataset v%d built %s ago, %d sse client(s)",
		snapshot.Version, time.Since(snapshot.BuiltAt).Round(time.Second), clients)
}

// checkSources stats every known source workbook and records its state.
// Missing files are logged but never fatal, the dashboard serves empty
// sections for them.
func (rm *ResourceManager) checkSources() {
	if rm.loader == nil {
		return
	}
	names := []string{
		config.WarrantyLedgerFile,
		config.PendingClaimsFile,
		config.CompensationFile,
		config.PRApprovalFile,
	}
	for _, name := range names {
		status := SourceStatus{}
		if path := rm.loader.FindFile(name); path != "" {
			status.Path = path
			if info, err := os.Stat(path); err == nil {
				status.Present = true
				status.Size = info.Size()
				status.Modified = info.ModTime()
			}
		}
		if !status.Present && logger.GlobalLogger != nil {
			logger.GlobalLogger.LogAudit(fmt.Sprintf("Source workbook %s not found", name))
		}
		rm.AddResource(name, status)
	}
}

// SourceStatuses returns the recorded state of every source workbook.
func (rm *ResourceManager) SourceStatuses() map[string]SourceStatus {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	out := make(map[string]SourceStatus)
	for key, res := range rm.resources {
		if status, ok := res.(SourceStatus); ok {
			out[key] = status
		}
	}
	return out
}

func (rm *ResourceManager) AddResource(key string, resource interface{}) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.resources[key] = resource
}

func (rm *ResourceManager) GetResource(key string) (interface{}, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	resource, exists := rm.resources[key]
	return resource, exists
}

func (rm *ResourceManager) RemoveResource(key string) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	delete(rm.resources, key)
}

func (rm *ResourceManager) ListResources() []string {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	keys := make([]string, 0, len(rm.resources))
	for key := range rm.resources {
		keys = append(keys, key)
	}
	return keys
}
