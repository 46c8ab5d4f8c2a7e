package i18nx

// Error message keys, matching locales/*.toml.
const (
	// Client errors
	KeyInvalid          = "invalid"
	KeyValidationFailed = "validation_failed"
	KeyMissingFields    = "missing_fields"
	KeyEmptyFields      = "empty_fields"
	KeyMalformedJSON    = "malformed_json"
	KeyNotFound         = "not_found"
	KeyNotFoundWithType = "not_found_with_type"
	KeyMethodNotAllowed = "method_not_allowed"

	// Server errors
	KeyInternalError        = "internal_error"
	KeyServiceUnavailable   = "service_unavailable"
	KeyUpstreamServiceError = "upstream_service_error"
)
