package service

import (
	"context"

	"github.com/unireg/registrar/internal/model"
)

// ReportRepository is the data access ReportService depends on.
type ReportRepository interface {
	AuditLog(ctx context.Context) ([]model.AuditEntry, error)
	Payments(ctx context.Context) ([]model.PaymentRecord, error)
	StudentsOfInstructor(ctx context.Context, instructorID int) ([]model.InstructorStudent, error)
	CoursesPerDepartment(ctx context.Context) ([]model.DepartmentCourseCount, error)
}

// ReportService produces the audit trail and the fixed analytical reports.
type ReportService struct {
	repo                  ReportRepository
	spotlightInstructorID int
}

// NewReportService creates a new ReportService. spotlightInstructorID is the
// instructor whose students the nested report lists.
func NewReportService(repo ReportRepository, spotlightInstructorID int) *ReportService {
	return &ReportService{repo: repo, spotlightInstructorID: spotlightInstructorID}
}

// AuditLog returns the grade change audit, newest first, with timestamps
// rendered as "YYYY-MM-DD HH:MM:SS".
func (s *ReportService) AuditLog(ctx context.Context) ([]model.AuditEntry, error) {
	entries, err := s.repo.AuditLog(ctx)
	if err != nil {
		return nil, wrapDB("audit log", err)
	}
	for i := range entries {
		if at := entries[i].ChangedAt; at != nil {
			formatted := at.Format(model.AuditTimeLayout)
			entries[i].ChangeTimestamp = &formatted
		}
	}
	return entries, nil
}

// Payments returns every payment joined with its student and course.
func (s *ReportService) Payments(ctx context.Context) ([]model.PaymentRecord, error) {
	records, err := s.repo.Payments(ctx)
	if err != nil {
		return nil, wrapDB("payments report", err)
	}
	return records, nil
}

// SpotlightStudents returns the students taught by the spotlight instructor.
func (s *ReportService) SpotlightStudents(ctx context.Context) ([]model.InstructorStudent, error) {
	students, err := s.repo.StudentsOfInstructor(ctx, s.spotlightInstructorID)
	if err != nil {
		return nil, wrapDB("spotlight students", err)
	}
	return students, nil
}

// CoursesPerDepartment returns the number of courses per department.
func (s *ReportService) CoursesPerDepartment(ctx context.Context) ([]model.DepartmentCourseCount, error) {
	counts, err := s.repo.CoursesPerDepartment(ctx)
	if err != nil {
		return nil, wrapDB("courses per department", err)
	}
	return counts, nil
}
