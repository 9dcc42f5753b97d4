package service

import (
	"errors"
	"fmt"

	"github.com/unireg/registrar/internal/database"
)

// Business rejections and lookup failures returned by the services.
var (
	ErrStudentNotFound      = errors.New("student not found")
	ErrInstructorNotFound   = errors.New("instructor not found")
	ErrScheduleNotFound     = errors.New("schedule not found")
	ErrCourseNotFound       = errors.New("course not found")
	ErrAlreadyRegistered    = errors.New("already registered for this schedule")
	ErrClassFull            = errors.New("class is full")
	ErrPrerequisiteNotMet   = errors.New("prerequisite not completed")
	ErrRegistrationNotOwned = errors.New("registration not found or not owned by student")
	ErrPaymentExists        = errors.New("payment exists for registration")
	ErrDatabaseUnavailable  = errors.New("database unavailable")
)

// wrapDB annotates a data access error with the operation that failed and
// marks connection failures with ErrDatabaseUnavailable.
func wrapDB(op string, err error) error {
	if database.IsUnavailable(err) {
		return fmt.Errorf("%s: %w: %w", op, ErrDatabaseUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
