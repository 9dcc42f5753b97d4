package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/unireg/registrar/internal/model"
)

// CatalogRepository handles read access to students, instructors and the
// courses offered to them.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// ListStudents returns every student ordered by name.
func (r *CatalogRepository) ListStudents(ctx context.Context) ([]model.StudentSummary, error) {
	rows, err := r.pool.Query(ctx, `SELECT student_id, name FROM student ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.StudentSummary])
}

// ListInstructors returns every instructor ordered by name.
func (r *CatalogRepository) ListInstructors(ctx context.Context) ([]model.InstructorSummary, error) {
	rows, err := r.pool.Query(ctx, `SELECT instructor_id, name FROM instructor ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.InstructorSummary])
}

// GetStudent retrieves a student with the department name.
// Returns pgx.ErrNoRows when the student does not exist.
func (r *CatalogRepository) GetStudent(ctx context.Context, id int) (*model.StudentDetail, error) {
	s := &model.StudentDetail{}
	err := r.pool.QueryRow(ctx,
		`SELECT s.student_id, s.name, s.email, s.year, s.phone, d.dept_name
		 FROM student s
		 JOIN department d ON s.department_id = d.department_id
		 WHERE s.student_id = $1`, id,
	).Scan(&s.StudentID, &s.Name, &s.Email, &s.Year, &s.Phone, &s.Department)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetInstructor retrieves an instructor with the department name.
// Returns pgx.ErrNoRows when the instructor does not exist.
func (r *CatalogRepository) GetInstructor(ctx context.Context, id int) (*model.InstructorDetail, error) {
	i := &model.InstructorDetail{}
	err := r.pool.QueryRow(ctx,
		`SELECT i.instructor_id, i.name, i.email, i.specialization, d.dept_name
		 FROM instructor i
		 JOIN department d ON i.department_id = d.department_id
		 WHERE i.instructor_id = $1`, id,
	).Scan(&i.InstructorID, &i.Name, &i.Email, &i.Specialization, &i.Department)
	if err != nil {
		return nil, err
	}
	return i, nil
}

// StudentDepartment returns the department a student belongs to.
// Returns pgx.ErrNoRows when the student does not exist.
func (r *CatalogRepository) StudentDepartment(ctx context.Context, studentID int) (int, error) {
	var deptID int
	err := r.pool.QueryRow(ctx,
		`SELECT department_id FROM student WHERE student_id = $1`, studentID,
	).Scan(&deptID)
	return deptID, err
}

// ListDepartmentCourses returns the sections offered by a department with the
// current enrolment count and whether studentID already holds a registration.
// AvailableSeats is left for the caller to derive.
func (r *CatalogRepository) ListDepartmentCourses(ctx context.Context, deptID, studentID int) ([]model.AvailableCourse, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT
			cs.schedule_id,
			c.course_id,
			c.course_name,
			c.credits,
			c.semester_offered,
			c.prerequisite_id,
			i.instructor_id,
			i.name AS instructor_name,
			cl.room_id,
			cl.capacity,
			cl.location,
			cs.day,
			cs.time,
			(SELECT COUNT(*) FROM registration r WHERE r.schedule_id = cs.schedule_id) AS enrolled,
			EXISTS (
				SELECT 1 FROM registration r
				WHERE r.schedule_id = cs.schedule_id AND r.student_id = $2
			) AS is_registered
		 FROM course_schedule cs
		 JOIN course c ON cs.course_id = c.course_id
		 JOIN instructor i ON cs.instructor_id = i.instructor_id
		 JOIN classroom cl ON cs.room_id = cl.room_id
		 WHERE c.department_id = $1
		 ORDER BY c.course_name, cs.schedule_id`,
		deptID, studentID,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.AvailableCourse])
}

// GetCourse retrieves the name and declared prerequisite of a course.
// Returns pgx.ErrNoRows when the course does not exist.
func (r *CatalogRepository) GetCourse(ctx context.Context, courseID int) (*model.Course, error) {
	c := &model.Course{}
	err := r.pool.QueryRow(ctx,
		`SELECT course_id, course_name, prerequisite_id FROM course WHERE course_id = $1`, courseID,
	).Scan(&c.CourseID, &c.CourseName, &c.PrerequisiteID)
	if err != nil {
		return nil, err
	}
	return c, nil
}
