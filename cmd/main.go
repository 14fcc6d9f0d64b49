package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"WarrantyDesk/api"
	"WarrantyDesk/api/auth"
	"WarrantyDesk/internal/appmanager"
	"WarrantyDesk/internal/checksum"
	"WarrantyDesk/internal/config"
	"WarrantyDesk/internal/dashboard"
	"WarrantyDesk/internal/jobs"
	"WarrantyDesk/internal/notification"
	"WarrantyDesk/internal/warranty"
)

func main() {
	// Load .env for local dev
	_ = godotenv.Load("../.env")

	// Shared pipeline used by the warranty service, the cron rebuild
	// and the resource manager
	loader := warranty.NewLoader(config.DataDir())
	store := warranty.NewStore()
	notices := notification.NewNotificationService(0)
	events := dashboard.NewSSEServer()
	job := jobs.NewRebuildJob(loader, store, checksum.NewMatcher(), notices, events)
	appmanager.SetRebuildJob(job)

	manager := appmanager.NewAppManager()

	// Load service configs from YAML
	servicesCfg, err := appmanager.LoadServiceSequence("../services.yaml")
	if err != nil {
		log.Fatal("failed to load service sequence:", err)
	}

	// Automatically register all services
	manager.AutoRegisterServices(servicesCfg)

	// Start all services
	if err := manager.StartAll(); err != nil {
		log.Fatal("failed to start:", err)
	}

	// --- Wire AuthService to Gateway ---
	authSvcIface := manager.GetServiceByName("auth")
	if authSvcIface == nil {
		log.Fatal("Auth service not found in manager")
	}
	realAuthSvc, ok := authSvcIface.(*auth.AuthService)
	if !ok {
		log.Fatal("Auth service type assertion failed")
	}
	api.SetAuthService(realAuthSvc)

	// Graceful shutdown handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	// Stop all services
	events.Stop()
	if err := manager.StopAll(); err != nil {
		log.Fatal("failed to stop:", err)
	}
}
