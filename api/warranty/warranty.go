package warranty

import (
	"log"
	"net/http"

	"WarrantyDesk/api"
	"WarrantyDesk/api/auth"
	"WarrantyDesk/internal/config"
	"WarrantyDesk/internal/jobs"

	"github.com/gorilla/mux"
)

func StartWarrantyService(job *jobs.RebuildJob) {
	authSvc := auth.GetGlobalAuthService()
	if authSvc == nil {
		log.Fatalf("Warranty Service requires the auth service to be registered first")
	}
	guard := api.SessionMiddleware(authSvc)

	router := mux.NewRouter()

	// --- Pages ---
	router.HandleFunc("/login-page", LoginPage).Methods("GET")
	router.HandleFunc("/dashboard", DashboardPage).Methods("GET")
	router.HandleFunc("/", DashboardPage).Methods("GET")

	// --- Data Routes ---
	router.Handle("/api/warranty-data", guard(GetWarrantyData(job.Store))).Methods("GET")
	router.Handle("/api/export-to-excel", guard(ExportToExcel(job.Store))).Methods("POST")
	router.Handle("/api/vehicle-images", guard(GetVehicleImages())).Methods("GET")

	// --- Dashboard Event Routes ---
	router.Handle("/api/notifications", guard(GetNotifications(job.Notices))).Methods("GET")
	router.Handle("/api/events", guard(StreamEvents(job.Events))).Methods("GET")
	router.Handle("/api/refresh", guard(RefreshData(job))).Methods("POST")

	router.HandleFunc("/api/health", HealthCheck(job.Store)).Methods("GET")

	port := config.WarrantyPort()
	log.Println("Warranty Service started on :" + port)
	err := http.ListenAndServe(":"+port, router)
	if err != nil {
		log.Fatalf("Warranty Service failed: %v", err)
	}
}
