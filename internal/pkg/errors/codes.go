package errors

import (
	"fmt"
	"net/http"
)

// Code maps a business code to its HTTP status and default message
type Code struct {
	Code    int
	Status  int
	Message string
}

const (
	Success = 0

	// Common errors (1000-1999)
	ErrInternalServer = 1000
	ErrInvalidParams  = 1001
	ErrNotFound       = 1002

	// Search errors (6000-6999)
	ErrSearchQueryRequired = 6000
	ErrSearchQueryTooShort = 6001
	ErrSearchInvalidBody   = 6002

	// Trend errors (7000-7999)
	ErrTrendInvalidLimit = 7000
)

var codeMap = map[int]Code{
	Success: {Success, http.StatusOK, "Success"},

	ErrInternalServer: {ErrInternalServer, http.StatusInternalServerError, "Internal server error"},
	ErrInvalidParams:  {ErrInvalidParams, http.StatusBadRequest, "Invalid parameters"},
	ErrNotFound:       {ErrNotFound, http.StatusNotFound, "Resource not found"},

	ErrSearchQueryRequired: {ErrSearchQueryRequired, http.StatusBadRequest, "Search query is required"},
	ErrSearchQueryTooShort: {ErrSearchQueryTooShort, http.StatusBadRequest, "Search query is too short"},
	ErrSearchInvalidBody:   {ErrSearchInvalidBody, http.StatusBadRequest, "Invalid search request body"},

	ErrTrendInvalidLimit: {ErrTrendInvalidLimit, http.StatusBadRequest, "Invalid trend limit"},
}

func lookup(code int) Code {
	if c, ok := codeMap[code]; ok {
		return c
	}
	return codeMap[ErrInternalServer]
}

// GetHTTPStatus returns the HTTP status for code; unknown codes map to 500
func GetHTTPStatus(code int) int {
	return lookup(code).Status
}

// GetMessage returns the default message for code
func GetMessage(code int) string {
	return lookup(code).Message
}

// IsClientError reports a code that maps to a 4xx status
func IsClientError(code int) bool {
	status := GetHTTPStatus(code)
	return status >= 400 && status < 500
}

// FormatError renders code's message with an optional detail suffix
func FormatError(code int, details ...string) string {
	msg := GetMessage(code)
	if d := first(details); d != "" {
		return fmt.Sprintf("%s: %s", msg, d)
	}
	return msg
}
