package constants

// Common short messages
const (
	ErrInvalidJSON      = "invalid json or missing fields"
	ErrMethodNotAllowed = "Method Not Allowed"
	ErrPleaseLogin      = "Please login to continue."
)

// Content Types
const (
	ContentTypeJSON   = "application/json"
	ContentTypeText   = "Content-Type"
	ContentTypeXLSX   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	HeaderDisposition = "Content-Disposition"
)

// Headers
const (
	HeaderAccessControlAllowOrigin  = "Access-Control-Allow-Origin"
	HeaderAccessControlAllowHeaders = "Access-Control-Allow-Headers"
)

// Response envelope keys
const (
	ValueSuccess = "success"
	ValueError   = "error"
)

// Date formats
const (
	DateTimeFormat = "2006-01-02 15:04:05"
)
