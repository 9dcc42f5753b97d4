package handler

import (
	"errors"
	"slices"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/unireg/registrar/internal/response"
	"github.com/unireg/registrar/internal/service"
)

var errInvalidID = errors.New("invalid id")

// OutcomeRecorder counts workflow outcomes.
type OutcomeRecorder interface {
	Outcome(workflow, outcome string)
}

var codes = []struct {
	err  error
	code response.ErrCode
}{
	{service.ErrStudentNotFound, response.ErrStudentNotFound},
	{service.ErrInstructorNotFound, response.ErrNotFound},
	{service.ErrScheduleNotFound, response.ErrScheduleNotFound},
	{service.ErrCourseNotFound, response.ErrCourseNotFound},
	{service.ErrAlreadyRegistered, response.ErrAlreadyRegistered},
	{service.ErrClassFull, response.ErrClassFull},
	{service.ErrPrerequisiteNotMet, response.ErrPrerequisiteNotMet},
	{service.ErrRegistrationNotOwned, response.ErrNotOwned},
	{service.ErrPaymentExists, response.ErrPaymentLocked},
	{service.ErrDatabaseUnavailable, response.ErrDatabaseUnavailable},
	{errInvalidID, response.ErrInvalidID},
}

// errorCode maps a service error to its response code.
func errorCode(err error) response.ErrCode {
	for _, m := range codes {
		if errors.Is(err, m.err) {
			return m.code
		}
	}
	return response.ErrInternal
}

// logFailure logs errors that are not plain business rejections. They are
// otherwise swallowed into the uniform failure shape.
func logFailure(c *gin.Context, op string, err error) {
	if err == nil {
		return
	}
	switch errorCode(err) {
	case response.ErrInternal, response.ErrDatabaseUnavailable:
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("op", op).Msg("Request failed")
	}
}

// pathID parses a positive integer path parameter.
func pathID(c *gin.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// validationMessage returns required when any of the required fields or the
// body itself failed, and otherwise the message of the first failing field.
func validationMessage(fields map[string]string, required string, names ...string) string {
	if _, ok := fields["body"]; ok {
		return required
	}
	for _, name := range names {
		if _, ok := fields[name]; ok {
			return required
		}
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	if len(keys) == 0 {
		return required
	}
	return fields[keys[0]]
}
