package constants

import "fmt"

// ============================================================================
// AUTHENTICATION & SESSION ERRORS
// ============================================================================

const (
	ErrInvalidSession   = "Your session has expired or is invalid. Please login again"
	ErrInvalidUserID    = "Invalid User ID"
	ErrInvalidPassword  = "Invalid Password"
	ErrNotAuthenticated = "Not authenticated"
	ErrMissingFields    = "Missing required fields"
	ErrCurrentPassword  = "Current password is incorrect"
	ErrPasswordTooShort = "New password must be at least 6 characters"
	ErrPasswordUpdate   = "Failed to update password"
)

// ============================================================================
// EXPORT ERRORS
// ============================================================================

const (
	ErrInvalidExportType = "Invalid export type"
	ErrExportNoData      = "No data available for export"
	ErrExportFailed      = "Export error: %s"
)

// ============================================================================
// SUCCESS MESSAGES
// ============================================================================

const (
	SuccessLogin          = "Login successful"
	SuccessLogout         = "Logged out successfully"
	SuccessPasswordChange = "Password changed successfully! You can now login with your new password."
	SuccessRebuild        = "Dataset rebuild completed"
)

// FormatError formats an error message with additional context
func FormatError(baseError string, context ...interface{}) string {
	if len(context) == 0 {
		return baseError
	}
	return fmt.Sprintf(baseError, context...)
}
