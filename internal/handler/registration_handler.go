package handler

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/unireg/registrar/internal/database"
	"github.com/unireg/registrar/internal/metrics"
	"github.com/unireg/registrar/internal/model"
	"github.com/unireg/registrar/internal/response"
	"github.com/unireg/registrar/internal/validator"
)

// RegistrationService is the registration behaviour RegistrationHandler needs.
type RegistrationService interface {
	Register(ctx context.Context, studentID, scheduleID int, semester string) (int, error)
	Drop(ctx context.Context, regID, studentID int) error
	UpdateGrade(ctx context.Context, regID int, grade *string) error
	StudentRegistrations(ctx context.Context, studentID int) ([]model.StudentRegistration, error)
	InstructorRegistrations(ctx context.Context, instructorID int) ([]model.RegistrationSummary, error)
	AllRegistrations(ctx context.Context) ([]model.RegistrationSummary, error)
}

// RegistrationHandler serves the register, drop and grade workflows and the
// registration listings.
type RegistrationHandler struct {
	registrations RegistrationService
	resp          *response.Responder
	outcomes      OutcomeRecorder
}

// NewRegistrationHandler creates a new RegistrationHandler.
func NewRegistrationHandler(registrations RegistrationService, resp *response.Responder, outcomes OutcomeRecorder) *RegistrationHandler {
	return &RegistrationHandler{registrations: registrations, resp: resp, outcomes: outcomes}
}

// RegisterResult is the body of a successful registration.
type RegisterResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	RegID   int    `json:"reg_id"`
}

// RegisterCourse godoc
// POST /api/register-course
func (h *RegistrationHandler) RegisterCourse(c *gin.Context) {
	var req model.RegisterCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		h.outcomes.Outcome(metrics.WorkflowRegister, string(response.ErrValidation))
		msg := validationMessage(fields, "student_id and schedule_id required", "student_id", "schedule_id")
		h.resp.FailWithFields(c, response.ErrValidation, msg, fields)
		return
	}

	regID, err := h.registrations.Register(c.Request.Context(), req.StudentID.Int(), req.ScheduleID.Int(), req.Semester)
	if err != nil {
		logFailure(c, "register course", err)
		code := errorCode(err)
		h.outcomes.Outcome(metrics.WorkflowRegister, string(code))
		if code == response.ErrInternal {
			h.resp.FailMessage(c, code, "Registration failed")
			return
		}
		h.resp.Fail(c, code)
		return
	}

	h.outcomes.Outcome(metrics.WorkflowRegister, metrics.OutcomeSuccess)
	h.resp.OK(c, RegisterResult{
		Success: true,
		Message: fmt.Sprintf("Successfully registered! Reg ID: %d", regID),
		RegID:   regID,
	})
}

// DropCourse godoc
// POST /api/drop-course
// Unexpected failures echo the database error text.
func (h *RegistrationHandler) DropCourse(c *gin.Context) {
	var req model.DropCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		h.outcomes.Outcome(metrics.WorkflowDrop, string(response.ErrValidation))
		h.resp.FailWithFields(c, response.ErrValidation, "reg_id and student_id required", fields)
		return
	}

	if err := h.registrations.Drop(c.Request.Context(), req.RegID.Int(), req.StudentID.Int()); err != nil {
		logFailure(c, "drop course", err)
		code := errorCode(err)
		h.outcomes.Outcome(metrics.WorkflowDrop, string(code))
		if code == response.ErrInternal {
			h.resp.FailMessage(c, code, "Failed to drop course: "+database.Message(err))
			return
		}
		h.resp.Fail(c, code)
		return
	}

	h.outcomes.Outcome(metrics.WorkflowDrop, metrics.OutcomeSuccess)
	h.resp.Done(c, fmt.Sprintf("Registration %d dropped successfully", req.RegID.Int()))
}

// UpdateGrade godoc
// POST /api/update-grade
// new_grade "NULL" clears the grade. Procedure errors are surfaced as-is.
func (h *RegistrationHandler) UpdateGrade(c *gin.Context) {
	var req model.UpdateGradeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		h.outcomes.Outcome(metrics.WorkflowGrade, string(response.ErrValidation))
		h.resp.FailWithFields(c, response.ErrValidation, "reg_id required", fields)
		return
	}

	if err := h.registrations.UpdateGrade(c.Request.Context(), req.RegID.Int(), req.NewGrade); err != nil {
		logFailure(c, "update grade", err)
		code := errorCode(err)
		h.outcomes.Outcome(metrics.WorkflowGrade, string(code))
		if code == response.ErrInternal {
			h.resp.FailMessage(c, code, database.Message(err))
			return
		}
		h.resp.Fail(c, code)
		return
	}

	h.outcomes.Outcome(metrics.WorkflowGrade, metrics.OutcomeSuccess)
	h.resp.Done(c, fmt.Sprintf("Grade updated successfully for Reg ID %d", req.RegID.Int()))
}

// StudentRegistrations godoc
// GET /api/student/:id/registrations
func (h *RegistrationHandler) StudentRegistrations(c *gin.Context) {
	id, err := pathID(c, "id")
	var regs []model.StudentRegistration
	if err == nil {
		regs, err = h.registrations.StudentRegistrations(c.Request.Context(), id)
	}
	logFailure(c, "student registrations", err)
	response.Rows(h.resp, c, regs, errorCode(err), err)
}

// InstructorRegistrations godoc
// GET /api/instructor/:id/registrations
func (h *RegistrationHandler) InstructorRegistrations(c *gin.Context) {
	id, err := pathID(c, "id")
	var regs []model.RegistrationSummary
	if err == nil {
		regs, err = h.registrations.InstructorRegistrations(c.Request.Context(), id)
	}
	logFailure(c, "instructor registrations", err)
	response.Rows(h.resp, c, regs, errorCode(err), err)
}

// AllRegistrations godoc
// GET /api/all-registrations
func (h *RegistrationHandler) AllRegistrations(c *gin.Context) {
	regs, err := h.registrations.AllRegistrations(c.Request.Context())
	logFailure(c, "all registrations", err)
	response.Rows(h.resp, c, regs, errorCode(err), err)
}
