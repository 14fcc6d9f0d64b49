package warranty

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"WarrantyDesk/api/constants"
	"WarrantyDesk/internal/checksum"
	"WarrantyDesk/internal/jobs"
	"WarrantyDesk/internal/notification"
	data "WarrantyDesk/internal/warranty"
)

func seededStore() *data.Store {
	ledger := &data.SourceTable{
		Name: "warranty-debit",
		Columns: []string{
			"Dealer Location", "Fiscal Month", "Total Claim Amount",
			"Credit Note Amount", "Debit Note Amount", "Claim arbitration ID",
			"Claim Invoice Date", "Claim No", "Claim Date", "Chassis No",
			"Ro Id", "Claim Type",
		},
		Rows: []data.Row{
			{
				"Dealer Location":      "AMRAVATI",
				"Fiscal Month":         "Apr",
				"Total Claim Amount":   decimal.NewFromInt(1000),
				"Credit Note Amount":   decimal.NewFromInt(1000),
				"Debit Note Amount":    decimal.NewFromInt(0),
				"Claim arbitration ID": "",
				"Claim No":             "900110022",
				"Ro Id":                "5001",
			},
		},
	}
	store := data.NewStore()
	store.Swap(data.BuildDataset(&data.Sources{Ledger: ledger}))
	return store
}

func TestGetWarrantyData(t *testing.T) {
	handler := GetWarrantyData(seededStore())

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/warranty-data", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, constants.ContentTypeJSON, rec.Header().Get("Content-Type"))

	var payload map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
	for _, key := range []string{"credit", "debit", "arbitration", "currentMonth", "compensation", "prApproval"} {
		require.Contains(t, payload, key, "payload keys are bound by the dashboard")
		assert.NotEqual(t, "null", string(payload[key]))
	}

	var credit []map[string]any
	require.NoError(t, json.Unmarshal(payload["credit"], &credit))
	require.Len(t, credit, 2)
	assert.Equal(t, "AMT", credit[0]["Division"])
	assert.Equal(t, "Grand Total", credit[1]["Division"])
	assert.Equal(t, 1000.0, credit[0]["Total Credit"])
}

func TestExportToExcel(t *testing.T) {
	handler := ExportToExcel(seededStore())

	post := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodPost, "/api/export-excel", strings.NewReader(body)))
		return rec
	}

	t.Run("malformed body", func(t *testing.T) {
		rec := post("{")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), constants.ErrInvalidJSON)
	})

	t.Run("unknown export type", func(t *testing.T) {
		rec := post(`{"type":"excel","division":"All"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), constants.ErrInvalidExportType)
	})

	t.Run("empty dataset", func(t *testing.T) {
		emptyHandler := ExportToExcel(data.NewStore())
		rec := httptest.NewRecorder()
		emptyHandler(rec, httptest.NewRequest(http.MethodPost, "/api/export-excel", strings.NewReader(`{"type":"credit","division":"All"}`)))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), constants.ErrExportNoData)
	})

	t.Run("streams the workbook", func(t *testing.T) {
		rec := post(`{"type":"credit","division":"All"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, constants.ContentTypeXLSX, rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), `attachment; filename="All_credit_`)

		f, err := excelize.OpenReader(rec.Body)
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, []string{"Credit"}, f.GetSheetList())
	})
}

func TestGetNotifications(t *testing.T) {
	notices := notification.NewNotificationService(5)
	notices.AddNotification("rebuild", "first")
	notices.AddNotification("rebuild", "second")
	handler := GetNotifications(notices)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/notifications", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success       bool `json:"success"`
		Notifications []struct {
			Kind    string `json:"kind"`
			Message string `json:"message"`
		} `json:"notifications"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Notifications, 2)
	assert.Equal(t, "second", resp.Notifications[0].Message, "newest first")
}

func TestRefreshData(t *testing.T) {
	job := jobs.NewRebuildJob(
		data.NewLoader(t.TempDir()),
		data.NewStore(),
		checksum.NewMatcher(),
		nil,
		nil,
	)
	handler := RefreshData(job)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/api/refresh", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Version uint64 `json:"version"`
		BuiltAt string `json:"built_at"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, constants.SuccessRebuild, resp.Message)
	assert.Equal(t, uint64(1), resp.Version)
	assert.NotEmpty(t, resp.BuiltAt)

	t.Run("each refresh publishes a new version", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodPost, "/api/refresh", nil))
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, uint64(2), resp.Version)
	})
}

func TestHealthCheck(t *testing.T) {
	handler := HealthCheck(seededStore())

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp["status"])
	assert.EqualValues(t, 1, resp["version"])
	assert.Contains(t, resp, "sse_clients")
	assert.NotContains(t, resp, "sources", "no source report without a resource manager")
}

func TestGetVehicleImages(t *testing.T) {
	dir := t.TempDir()
	logo := []byte("logo-bytes")
	vehicle := []byte("vehicle-bytes")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zz-mahindra-logo.png"), logo, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alto.jpg"), vehicle, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "thumbs"), 0o755))
	t.Setenv("IMAGES_DIR", dir)

	handler := GetVehicleImages()
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/vehicle-images", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Images []VehicleImage `json:"images"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Images, 2, "non-image files and folders are skipped")

	t.Run("branding sorts ahead of vehicles", func(t *testing.T) {
		assert.Equal(t, "zz-mahindra-logo.png", resp.Images[0].Name)
		assert.Equal(t, "alto.jpg", resp.Images[1].Name)
	})

	t.Run("payloads are plain base64", func(t *testing.T) {
		raw, err := base64.StdEncoding.DecodeString(resp.Images[0].Data)
		require.NoError(t, err)
		assert.Equal(t, logo, raw)
	})

	t.Run("the folder is read once", func(t *testing.T) {
		t.Setenv("IMAGES_DIR", t.TempDir())
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/api/vehicle-images", nil))
		var again struct {
			Images []VehicleImage `json:"images"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&again))
		assert.Len(t, again.Images, 2, "cached on first load")
	})
}
