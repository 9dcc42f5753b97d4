package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/unireg/registrar/internal/model"
	"github.com/unireg/registrar/internal/response"
)

// ReportService is the report behaviour ReportHandler needs.
type ReportService interface {
	AuditLog(ctx context.Context) ([]model.AuditEntry, error)
	Payments(ctx context.Context) ([]model.PaymentRecord, error)
	SpotlightStudents(ctx context.Context) ([]model.InstructorStudent, error)
	CoursesPerDepartment(ctx context.Context) ([]model.DepartmentCourseCount, error)
}

// ReportHandler serves the audit log and the fixed analytical queries.
type ReportHandler struct {
	reports ReportService
	resp    *response.Responder
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reports ReportService, resp *response.Responder) *ReportHandler {
	return &ReportHandler{reports: reports, resp: resp}
}

// AuditLog godoc
// GET /api/audit-log
func (h *ReportHandler) AuditLog(c *gin.Context) {
	entries, err := h.reports.AuditLog(c.Request.Context())
	logFailure(c, "audit log", err)
	response.Rows(h.resp, c, entries, errorCode(err), err)
}

// QueryJoin godoc
// GET /api/query/join
func (h *ReportHandler) QueryJoin(c *gin.Context) {
	records, err := h.reports.Payments(c.Request.Context())
	logFailure(c, "query join", err)
	response.Rows(h.resp, c, records, errorCode(err), err)
}

// QueryNested godoc
// GET /api/query/nested
func (h *ReportHandler) QueryNested(c *gin.Context) {
	students, err := h.reports.SpotlightStudents(c.Request.Context())
	logFailure(c, "query nested", err)
	response.Rows(h.resp, c, students, errorCode(err), err)
}

// QueryAggregate godoc
// GET /api/query/aggregate
func (h *ReportHandler) QueryAggregate(c *gin.Context) {
	counts, err := h.reports.CoursesPerDepartment(c.Request.Context())
	logFailure(c, "query aggregate", err)
	response.Rows(h.resp, c, counts, errorCode(err), err)
}
