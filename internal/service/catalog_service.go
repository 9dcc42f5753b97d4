package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/unireg/registrar/internal/model"
)

// CatalogRepository is the read model behind CatalogService.
type CatalogRepository interface {
	ListStudents(ctx context.Context) ([]model.StudentSummary, error)
	ListInstructors(ctx context.Context) ([]model.InstructorSummary, error)
	GetStudent(ctx context.Context, id int) (*model.StudentDetail, error)
	GetInstructor(ctx context.Context, id int) (*model.InstructorDetail, error)
	StudentDepartment(ctx context.Context, studentID int) (int, error)
	ListDepartmentCourses(ctx context.Context, deptID, studentID int) ([]model.AvailableCourse, error)
	GetCourse(ctx context.Context, courseID int) (*model.Course, error)
}

// PrerequisiteChecker evaluates the external prerequisite routine.
type PrerequisiteChecker interface {
	HasCompletedPrerequisite(ctx context.Context, studentID, courseID int) (bool, error)
}

// CatalogService handles catalog lookups and the standalone prerequisite check.
type CatalogService struct {
	repo   CatalogRepository
	prereq PrerequisiteChecker
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo CatalogRepository, prereq PrerequisiteChecker) *CatalogService {
	return &CatalogService{repo: repo, prereq: prereq}
}

// ListStudents returns every student ordered by name.
func (s *CatalogService) ListStudents(ctx context.Context) ([]model.StudentSummary, error) {
	students, err := s.repo.ListStudents(ctx)
	if err != nil {
		return nil, wrapDB("list students", err)
	}
	return students, nil
}

// ListInstructors returns every instructor ordered by name.
func (s *CatalogService) ListInstructors(ctx context.Context) ([]model.InstructorSummary, error) {
	instructors, err := s.repo.ListInstructors(ctx)
	if err != nil {
		return nil, wrapDB("list instructors", err)
	}
	return instructors, nil
}

// GetStudent retrieves a student's detail.
func (s *CatalogService) GetStudent(ctx context.Context, id int) (*model.StudentDetail, error) {
	student, err := s.repo.GetStudent(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrStudentNotFound
	}
	if err != nil {
		return nil, wrapDB("get student", err)
	}
	return student, nil
}

// GetInstructor retrieves an instructor's detail.
func (s *CatalogService) GetInstructor(ctx context.Context, id int) (*model.InstructorDetail, error) {
	instructor, err := s.repo.GetInstructor(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInstructorNotFound
	}
	if err != nil {
		return nil, wrapDB("get instructor", err)
	}
	return instructor, nil
}

// AvailableCourses lists the sections of the student's department with the
// remaining seats and whether the student is already registered.
func (s *CatalogService) AvailableCourses(ctx context.Context, studentID int) ([]model.AvailableCourse, error) {
	deptID, err := s.repo.StudentDepartment(ctx, studentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrStudentNotFound
	}
	if err != nil {
		return nil, wrapDB("student department", err)
	}

	courses, err := s.repo.ListDepartmentCourses(ctx, deptID, studentID)
	if err != nil {
		return nil, wrapDB("list department courses", err)
	}
	for i := range courses {
		courses[i].AvailableSeats = courses[i].Capacity - courses[i].Enrolled
	}
	return courses, nil
}

// CheckPrerequisite reports whether studentID has completed the prerequisite
// declared by courseID.
func (s *CatalogService) CheckPrerequisite(ctx context.Context, studentID, courseID int) (*model.PrerequisiteStatus, error) {
	course, err := s.repo.GetCourse(ctx, courseID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, wrapDB("get course", err)
	}

	completed, err := s.prereq.HasCompletedPrerequisite(ctx, studentID, courseID)
	if err != nil {
		return nil, wrapDB("check prerequisite", err)
	}

	return &model.PrerequisiteStatus{
		CourseName:     course.CourseName,
		PrerequisiteID: course.PrerequisiteID,
		HasCompleted:   completed,
	}, nil
}
