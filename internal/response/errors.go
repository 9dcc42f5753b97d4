package response

import "net/http"

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation ErrCode = "VALIDATION_ERROR"
	ErrInvalidID  ErrCode = "INVALID_ID"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrStudentNotFound  ErrCode = "STUDENT_NOT_FOUND"
	ErrScheduleNotFound ErrCode = "SCHEDULE_NOT_FOUND"
	ErrCourseNotFound   ErrCode = "COURSE_NOT_FOUND"

	// ─── Registration rules ────────────────────────────────────────────
	ErrAlreadyRegistered  ErrCode = "ALREADY_REGISTERED"
	ErrClassFull          ErrCode = "CLASS_FULL"
	ErrPrerequisiteNotMet ErrCode = "PREREQUISITE_NOT_MET"
	ErrNotOwned           ErrCode = "REGISTRATION_NOT_OWNED"
	ErrPaymentLocked      ErrCode = "PAYMENT_LOCKED"

	// ─── Authentication ────────────────────────────────────────────────
	ErrTokenRequired ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid  ErrCode = "TOKEN_INVALID"
	ErrForbidden     ErrCode = "FORBIDDEN"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrDatabaseUnavailable ErrCode = "DATABASE_UNAVAILABLE"
	ErrInternal            ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns the human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrValidation:
		return "Invalid request payload"
	case ErrInvalidID:
		return "Invalid ID format"

	case ErrNotFound:
		return "Resource not found"
	case ErrStudentNotFound:
		return "Student not found"
	case ErrScheduleNotFound:
		return "Schedule not found"
	case ErrCourseNotFound:
		return "Course not found"

	case ErrAlreadyRegistered:
		return "Already registered for this schedule"
	case ErrClassFull:
		return "Class is full (Function blocked)"
	case ErrPrerequisiteNotMet:
		return "Prerequisite not completed (Function blocked)"
	case ErrNotOwned:
		return "Registration not found or unauthorized"
	case ErrPaymentLocked:
		return "Cannot drop course: Payment has been made."

	case ErrTokenRequired:
		return "Authentication token required"
	case ErrTokenInvalid:
		return "Authentication token is invalid"
	case ErrForbidden:
		return "You are not allowed to access this resource"

	case ErrRateLimitExceeded:
		return "Too many requests, please try again later"

	case ErrDatabaseUnavailable:
		return "Database connection failed"
	case ErrInternal:
		return "Internal server error"
	default:
		return "Unexpected error"
	}
}

// GetStatus returns the HTTP status reported for a code in strict mode.
func GetStatus(code ErrCode) int {
	switch code {
	case ErrValidation, ErrInvalidID:
		return http.StatusBadRequest
	case ErrNotFound, ErrStudentNotFound, ErrScheduleNotFound, ErrCourseNotFound, ErrNotOwned:
		return http.StatusNotFound
	case ErrAlreadyRegistered, ErrClassFull, ErrPrerequisiteNotMet, ErrPaymentLocked:
		return http.StatusConflict
	case ErrTokenRequired, ErrTokenInvalid:
		return http.StatusUnauthorized
	case ErrForbidden:
		return http.StatusForbidden
	case ErrRateLimitExceeded:
		return http.StatusTooManyRequests
	case ErrDatabaseUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
