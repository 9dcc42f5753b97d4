package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/unireg/registrar/internal/model"
)

// ReportRepository runs the staff-facing reports.
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// AuditLog returns the grade change audit trail, newest first.
func (r *ReportRepository) AuditLog(ctx context.Context) ([]model.AuditEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT log_id, reg_id, student_id, old_grade, new_grade, change_timestamp
		 FROM grade_change_audit
		 ORDER BY log_id DESC`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.AuditEntry])
}

// Payments joins every payment with the student and course it pays for.
func (r *ReportRepository) Payments(ctx context.Context) ([]model.PaymentRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT
			s.name AS student_name,
			c.course_name,
			p.amount::float8 AS amount,
			to_char(p.payment_date, 'YYYY-MM-DD') AS payment_date,
			p.method
		 FROM student s
		 JOIN registration r ON s.student_id = r.student_id
		 JOIN payment p ON r.reg_id = p.reg_id
		 JOIN course_schedule cs ON r.schedule_id = cs.schedule_id
		 JOIN course c ON cs.course_id = c.course_id
		 ORDER BY p.payment_date DESC`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.PaymentRecord])
}

// StudentsOfInstructor returns the students registered in any section taught
// by instructorID.
func (r *ReportRepository) StudentsOfInstructor(ctx context.Context, instructorID int) ([]model.InstructorStudent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.student_id, s.name AS student_name
		 FROM student s
		 WHERE s.student_id IN (
			SELECT DISTINCT r.student_id
			FROM registration r
			JOIN course_schedule cs ON r.schedule_id = cs.schedule_id
			WHERE cs.instructor_id = $1
		 )
		 ORDER BY s.name`, instructorID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.InstructorStudent])
}

// CoursesPerDepartment counts the courses each department offers.
func (r *ReportRepository) CoursesPerDepartment(ctx context.Context) ([]model.DepartmentCourseCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT d.dept_name AS department_name, COUNT(c.course_id) AS number_of_courses
		 FROM department d
		 JOIN course c ON d.department_id = c.department_id
		 GROUP BY d.dept_name
		 ORDER BY number_of_courses DESC`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.DepartmentCourseCount])
}
