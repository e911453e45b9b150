package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
	ErrMissingAPIKey = fmt.Errorf("missing API key")

	// Source (playlist API) errors
	ErrAPIRequest  = fmt.Errorf("API request failed")
	ErrRateLimited = fmt.Errorf("rate limited")

	// Sheet storage errors
	ErrSheetNotFound = fmt.Errorf("sheet not found")
	ErrStorage       = fmt.Errorf("storage failure")
	ErrMissingColumn = fmt.Errorf("missing expected column")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrUnknownGame     = fmt.Errorf("unknown game category")

	ErrServiceUnavailable = fmt.Errorf("service unavailable")
)
