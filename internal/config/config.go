package config

import (
	"os"
	"path/filepath"
)

const (
	DefaultTimeZone = "Asia/Kolkata"

	// Listener ports. The gateway is the only public surface; the warranty
	// service sits behind it.
	DefaultGatewayPort  = "8081"
	DefaultWarrantyPort = "5143"

	// Source workbooks resolved against DATA_DIR by the loader.
	WarrantyLedgerFile  = "Warranty Debit.xlsx"
	WarrantyLedgerSheet = "Sheet1"
	PendingClaimsFile   = "Pending Warranty Claim Details.xlsx"
	PendingClaimsSheet  = "Pending Warranty Claim Details"
	CompensationFile    = "Transit_Claims_Merged.xlsx"
	PRApprovalFile      = "Pr_Approval_Claims_Merged.xlsx"
	CredentialsFile     = "UserID.xlsx"

	// Rebuild schedule, 06:00 IST daily unless overridden.
	DefaultRebuildSchedule = "0 6 * * *"

	// Sessions expire after eight hours without activity.
	SessionIdleHours    = 8
	SessionCookieName   = "session_id"
	SessionCookieMaxAge = 28800

	CaptchaLength = 6

	MinPasswordLength = 6
)

// DataDir returns the directory holding the source workbooks.
func DataDir() string {
	if dir := os.Getenv("DATA_DIR"); dir != "" {
		return dir
	}
	return "."
}

// ImagesDir returns the folder holding the login page artwork.
func ImagesDir() string {
	if dir := os.Getenv("IMAGES_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(DataDir(), "Image")
}

// GatewayPort returns the public listener port.
func GatewayPort() string {
	if p := os.Getenv("GATEWAY_PORT"); p != "" {
		return p
	}
	return DefaultGatewayPort
}

// WarrantyPort returns the warranty service listener port.
func WarrantyPort() string {
	if p := os.Getenv("WARRANTY_SERVICE_PORT"); p != "" {
		return p
	}
	return DefaultWarrantyPort
}

// RebuildSchedule returns the cron spec for the scheduled dataset rebuild.
func RebuildSchedule() string {
	if s := os.Getenv("WARRANTY_REBUILD_CRON"); s != "" {
		return s
	}
	return DefaultRebuildSchedule
}
