package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/unireg/registrar/internal/database"
	"github.com/unireg/registrar/internal/model"
	"github.com/unireg/registrar/internal/response"
	"github.com/unireg/registrar/internal/validator"
)

// CatalogService is the catalog behaviour CatalogHandler needs.
type CatalogService interface {
	ListStudents(ctx context.Context) ([]model.StudentSummary, error)
	ListInstructors(ctx context.Context) ([]model.InstructorSummary, error)
	GetStudent(ctx context.Context, id int) (*model.StudentDetail, error)
	GetInstructor(ctx context.Context, id int) (*model.InstructorDetail, error)
	AvailableCourses(ctx context.Context, studentID int) ([]model.AvailableCourse, error)
	CheckPrerequisite(ctx context.Context, studentID, courseID int) (*model.PrerequisiteStatus, error)
}

// CatalogHandler serves the student and instructor pickers, detail lookups,
// available courses and the standalone prerequisite check.
type CatalogHandler struct {
	catalog CatalogService
	resp    *response.Responder
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalog CatalogService, resp *response.Responder) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, resp: resp}
}

// ListStudents godoc
// GET /api/students
func (h *CatalogHandler) ListStudents(c *gin.Context) {
	students, err := h.catalog.ListStudents(c.Request.Context())
	logFailure(c, "list students", err)
	response.Rows(h.resp, c, students, errorCode(err), err)
}

// ListInstructors godoc
// GET /api/instructors
func (h *CatalogHandler) ListInstructors(c *gin.Context) {
	instructors, err := h.catalog.ListInstructors(c.Request.Context())
	logFailure(c, "list instructors", err)
	response.Rows(h.resp, c, instructors, errorCode(err), err)
}

// GetStudent godoc
// GET /api/student/:id
// Responds with {} when the student is unknown, or 404 in strict mode.
func (h *CatalogHandler) GetStudent(c *gin.Context) {
	id, err := pathID(c, "id")
	var student *model.StudentDetail
	if err == nil {
		student, err = h.catalog.GetStudent(c.Request.Context(), id)
	}
	logFailure(c, "get student", err)
	response.Object(h.resp, c, student, errorCode(err), err)
}

// GetInstructor godoc
// GET /api/instructor/:id
func (h *CatalogHandler) GetInstructor(c *gin.Context) {
	id, err := pathID(c, "id")
	var instructor *model.InstructorDetail
	if err == nil {
		instructor, err = h.catalog.GetInstructor(c.Request.Context(), id)
	}
	logFailure(c, "get instructor", err)
	response.Object(h.resp, c, instructor, errorCode(err), err)
}

// AvailableCourses godoc
// GET /api/available-courses/:id
// Lists the sections of the student's department with Available_Seats and
// Is_Registered filled in.
func (h *CatalogHandler) AvailableCourses(c *gin.Context) {
	id, err := pathID(c, "id")
	var courses []model.AvailableCourse
	if err == nil {
		courses, err = h.catalog.AvailableCourses(c.Request.Context(), id)
	}
	logFailure(c, "available courses", err)
	response.Rows(h.resp, c, courses, errorCode(err), err)
}

// PrerequisiteResult is the body of a successful prerequisite check.
type PrerequisiteResult struct {
	Success        bool   `json:"success"`
	CourseName     string `json:"course_name"`
	PrerequisiteID *int   `json:"prerequisite_id"`
	HasCompleted   bool   `json:"has_completed"`
}

// CheckPrerequisite godoc
// POST /api/check-prerequisite
func (h *CatalogHandler) CheckPrerequisite(c *gin.Context) {
	var req model.CheckPrerequisiteRequest
	if fields := validator.Bind(c, &req); fields != nil {
		h.resp.FailWithFields(c, response.ErrValidation, "student_id and course_id required", fields)
		return
	}

	status, err := h.catalog.CheckPrerequisite(c.Request.Context(), req.StudentID.Int(), req.CourseID.Int())
	if err != nil {
		logFailure(c, "check prerequisite", err)
		code := errorCode(err)
		if code == response.ErrInternal {
			h.resp.FailMessage(c, code, database.Message(err))
			return
		}
		h.resp.Fail(c, code)
		return
	}

	h.resp.OK(c, PrerequisiteResult{
		Success:        true,
		CourseName:     status.CourseName,
		PrerequisiteID: status.PrerequisiteID,
		HasCompleted:   status.HasCompleted,
	})
}
