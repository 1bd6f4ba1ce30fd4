package response

// ErrCode is a typed error code for consistent error identification in
// logs and error pages.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation ErrCode = "VALIDATION_ERROR"
	ErrInvalidID  ErrCode = "INVALID_ID"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrStoreUnavailable ErrCode = "STORE_UNAVAILABLE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetTitle returns the short heading shown on the error page.
func GetTitle(code ErrCode) string {
	switch code {
	case ErrValidation:
		return "Invalid input"
	case ErrInvalidID, ErrNotFound:
		return "Student Not Found"
	case ErrStoreUnavailable:
		return "Database unavailable"
	case ErrRateLimitExceeded:
		return "Slow down"
	default:
		return "Something went wrong"
	}
}

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "The student id is not valid."
	case ErrNotFound:
		return "404: Student Not Found"
	case ErrStoreUnavailable:
		return "The student database cannot be reached right now."
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
