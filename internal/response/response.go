package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Result is the {success, message} envelope every write endpoint answers with.
type Result struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Code    ErrCode           `json:"code,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Responder writes JSON bodies and picks status codes according to the
// configured policy. In compatible mode every body goes out with 200 and
// read failures degrade to [] or {}; in strict mode failures carry the
// status of their ErrCode.
type Responder struct {
	strict bool
}

// NewResponder creates a Responder.
func NewResponder(strict bool) *Responder {
	return &Responder{strict: strict}
}

// Strict reports whether failures are signalled with status codes.
func (r *Responder) Strict() bool {
	return r.strict
}

// OK sends body with 200.
func (r *Responder) OK(c *gin.Context, body interface{}) {
	c.JSON(http.StatusOK, body)
}

// Done sends a successful {success:true, message} result.
func (r *Responder) Done(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Result{Success: true, Message: message})
}

// Fail sends {success:false} with the code's default message.
func (r *Responder) Fail(c *gin.Context, code ErrCode) {
	r.FailMessage(c, code, GetMessage(code))
}

// FailMessage sends {success:false} with an explicit message.
func (r *Responder) FailMessage(c *gin.Context, code ErrCode, message string) {
	c.JSON(r.status(code), Result{Success: false, Message: message, Code: code})
}

// FailWithFields sends {success:false} with field-level validation details.
func (r *Responder) FailWithFields(c *gin.Context, code ErrCode, message string, fields map[string]string) {
	c.JSON(r.status(code), Result{Success: false, Message: message, Code: code, Fields: fields})
}

// AbortFail aborts the middleware chain and sends {success:false}.
func (r *Responder) AbortFail(c *gin.Context, code ErrCode) {
	c.AbortWithStatusJSON(r.status(code), Result{Success: false, Message: GetMessage(code), Code: code})
}

// status reports 200 for every failure in compatible mode, except for the
// authentication and throttling codes, which always carry their status.
func (r *Responder) status(code ErrCode) int {
	switch code {
	case ErrTokenRequired, ErrTokenInvalid, ErrForbidden, ErrRateLimitExceeded:
		return GetStatus(code)
	}
	if !r.strict {
		return http.StatusOK
	}
	return GetStatus(code)
}

// Rows sends a listing. A nil slice is sent as []. When err is non-nil the
// compatible mode sends [] and the strict mode sends the failure for code.
func Rows[T any](r *Responder, c *gin.Context, rows []T, code ErrCode, err error) {
	if err != nil {
		if r.strict {
			r.Fail(c, code)
			return
		}
		rows = nil
	}
	if rows == nil {
		rows = []T{}
	}
	c.JSON(http.StatusOK, rows)
}

// Object sends a single record. When err is non-nil the compatible mode
// sends {} and the strict mode sends the failure for code.
func Object[T any](r *Responder, c *gin.Context, obj *T, code ErrCode, err error) {
	if err != nil || obj == nil {
		if r.strict {
			if err == nil {
				code = ErrNotFound
			}
			r.Fail(c, code)
			return
		}
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, obj)
}
