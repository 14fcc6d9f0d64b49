package warranty

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"WarrantyDesk/api"
	"WarrantyDesk/api/constants"
	"WarrantyDesk/internal/config"
	"WarrantyDesk/internal/dashboard"
	"WarrantyDesk/internal/jobs"
	"WarrantyDesk/internal/logger"
	"WarrantyDesk/internal/notification"
	"WarrantyDesk/internal/resource"
	data "WarrantyDesk/internal/warranty"
)

// GetWarrantyData returns the latest aggregated snapshot. The response
// body is the bare section map the dashboard binds to, no envelope.
func GetWarrantyData(store *data.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := store.Snapshot()
		api.RespondWithJSON(w, http.StatusOK, snapshot.Payload())
	}
}

// ExportToExcel builds a styled workbook for one summary type and
// streams it back as a download.
func ExportToExcel(store *data.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Type     string `json:"type"`
			Division string `json:"division"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}

		snapshot := store.Snapshot()
		filename, payload, err := data.Export(snapshot, req.Type, req.Division)
		if err != nil {
			switch {
			case errors.Is(err, data.ErrInvalidExportType):
				api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidExportType)
			case errors.Is(err, data.ErrExportNoData):
				api.RespondWithError(w, http.StatusNotFound, constants.ErrExportNoData)
			default:
				api.RespondWithError(w, http.StatusInternalServerError, constants.FormatError(constants.ErrExportFailed, err))
			}
			return
		}

		logger.Audit("Export %s (%s) generated for user %s, %d bytes", req.Type, req.Division, api.GetUserIDFromCtx(r.Context()), len(payload))

		w.Header().Set(constants.HeaderDisposition, fmt.Sprintf("attachment; filename=\"%s\"", filename))
		w.Header().Set(constants.ContentTypeText, constants.ContentTypeXLSX)
		http.ServeContent(w, r, filename, time.Now(), bytes.NewReader(payload))
	}
}

type VehicleImage struct {
	Name string `json:"name"`
	Data string `json:"data"`
}

var (
	vehicleImagesOnce sync.Once
	vehicleImages     []VehicleImage
)

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
}

// loadVehicleImages reads the artwork folder once and keeps the base64
// payloads in memory. Branding images (logo, hero banners) sort ahead
// of the vehicle shots.
func loadVehicleImages() []VehicleImage {
	vehicleImagesOnce.Do(func() {
		vehicleImages = []VehicleImage{}

		dir := config.ImagesDir()
		entries, err := os.ReadDir(dir)
		if err != nil {
			api.LogError("Vehicle image folder unavailable: %v", err)
			return
		}

		var branding, vehicles []VehicleImage
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			if !imageExtensions[strings.ToLower(filepath.Ext(name))] {
				continue
			}
			raw, err := os.ReadFile(filepath.Join(dir, name))
			if err != nil {
				api.LogError("Could not load image %s: %v", name, err)
				continue
			}
			img := VehicleImage{Name: name, Data: base64.StdEncoding.EncodeToString(raw)}
			lower := strings.ToLower(name)
			if strings.Contains(lower, "mahindra") || strings.Contains(lower, "logo") || strings.Contains(lower, "hero") {
				branding = append(branding, img)
			} else {
				vehicles = append(vehicles, img)
			}
		}

		vehicleImages = append(vehicleImages, branding...)
		vehicleImages = append(vehicleImages, vehicles...)
		api.LogInfo("Loaded %d vehicle image(s)", len(vehicleImages))
	})
	return vehicleImages
}

// GetVehicleImages returns the login page artwork, base64 encoded.
func GetVehicleImages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		api.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"images": loadVehicleImages(),
		})
	}
}

// GetNotifications returns recent dataset notices, newest first.
func GetNotifications(notices *notification.NotificationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		api.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			constants.ValueSuccess: true,
			"notifications":        notices.GetNotifications(),
		})
	}
}

// StreamEvents hands the connection to the SSE server. The stream stays
// open until the client disconnects.
func StreamEvents(events *dashboard.SSEServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events.HandleSSE(w, r, api.GetUserIDFromCtx(r.Context()))
	}
}

// RefreshData forces an immediate rebuild regardless of source
// checksums.
func RefreshData(job *jobs.RebuildJob) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.Audit("Manual rebuild requested by user %s", api.GetUserIDFromCtx(r.Context()))
		job.Run(true)
		snapshot := job.Store.Snapshot()
		api.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			constants.ValueSuccess: true,
			"message":              constants.SuccessRebuild,
			"version":              snapshot.Version,
			"built_at":             snapshot.BuiltAt.Format(constants.DateTimeFormat),
		})
	}
}

// HealthCheck reports dataset freshness and source workbook state.
func HealthCheck(store *data.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := store.Snapshot()
		payload := map[string]interface{}{
			"status":      "ok",
			"version":     snapshot.Version,
			"built_at":    snapshot.BuiltAt.Format(constants.DateTimeFormat),
			"sse_clients": dashboard.GetClientCount(),
		}
		if rm := resource.GetManager(); rm != nil {
			payload["sources"] = rm.SourceStatuses()
		}
		api.RespondWithJSON(w, http.StatusOK, payload)
	}
}
