package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/unireg/registrar/internal/database"
	"github.com/unireg/registrar/internal/model"
)

// RegistrationStore is the set of guarded statements the register and drop
// workflows issue inside one transaction.
type RegistrationStore interface {
	StudentExists(ctx context.Context, studentID int) (bool, error)
	// LockSchedule locks the schedule row for the rest of the transaction and
	// returns the course it offers, which may be absent.
	LockSchedule(ctx context.Context, scheduleID int) (courseID *int, found bool, err error)
	RegistrationExists(ctx context.Context, studentID, scheduleID int) (bool, error)
	AvailableSeats(ctx context.Context, scheduleID int) (int, error)
	HasCompletedPrerequisite(ctx context.Context, studentID, courseID int) (bool, error)
	InsertRegistration(ctx context.Context, studentID, scheduleID int, semester string) (int, error)
	// LockOwnedRegistration locks a registration held by studentID and returns
	// its schedule.
	LockOwnedRegistration(ctx context.Context, regID, studentID int) (scheduleID int, found bool, err error)
	PaymentExists(ctx context.Context, regID int) (bool, error)
	DeleteRegistration(ctx context.Context, regID, studentID int) error
}

// querier is satisfied by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// RegistrationRepository handles registration data access.
type RegistrationRepository struct {
	pool *pgxpool.Pool
}

// NewRegistrationRepository creates a new RegistrationRepository.
func NewRegistrationRepository(pool *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{pool: pool}
}

// RunInTx runs fn against a RegistrationStore bound to a single transaction.
func (r *RegistrationRepository) RunInTx(ctx context.Context, fn func(RegistrationStore) error) error {
	return database.WithTx(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return fn(&store{q: tx})
	})
}

// ListByStudent returns a student's registrations joined with schedule,
// course, instructor and classroom.
func (r *RegistrationRepository) ListByStudent(ctx context.Context, studentID int) ([]model.StudentRegistration, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT
			r.reg_id,
			r.semester,
			r.grade,
			c.course_id,
			c.course_name,
			c.credits,
			i.instructor_id,
			i.name AS instructor_name,
			cs.schedule_id,
			cs.day,
			cs.time,
			cl.location
		 FROM registration r
		 JOIN course_schedule cs ON r.schedule_id = cs.schedule_id
		 JOIN course c ON cs.course_id = c.course_id
		 JOIN instructor i ON cs.instructor_id = i.instructor_id
		 JOIN classroom cl ON cs.room_id = cl.room_id
		 WHERE r.student_id = $1
		 ORDER BY r.semester, c.course_name`, studentID,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.StudentRegistration])
}

const summarySelect = `SELECT
		r.reg_id,
		r.student_id,
		s.name AS student_name,
		c.course_id,
		c.course_name,
		r.semester,
		r.grade
	 FROM registration r
	 JOIN student s ON r.student_id = s.student_id
	 JOIN course_schedule cs ON r.schedule_id = cs.schedule_id
	 JOIN course c ON cs.course_id = c.course_id`

// ListByInstructor returns the registrations for sections taught by an instructor.
func (r *RegistrationRepository) ListByInstructor(ctx context.Context, instructorID int) ([]model.RegistrationSummary, error) {
	rows, err := r.pool.Query(ctx,
		summarySelect+` WHERE cs.instructor_id = $1 ORDER BY r.reg_id`, instructorID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.RegistrationSummary])
}

// ListAll returns every registration.
func (r *RegistrationRepository) ListAll(ctx context.Context) ([]model.RegistrationSummary, error) {
	rows, err := r.pool.Query(ctx, summarySelect+` ORDER BY r.reg_id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.RegistrationSummary])
}

// UpdateGrade calls the update_student_grade procedure and returns the
// student holding the registration, or 0 when no such registration exists.
// A nil grade clears it. The audit row is written by the database.
func (r *RegistrationRepository) UpdateGrade(ctx context.Context, regID int, grade *string) (int, error) {
	var studentID int
	err := database.WithTx(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `CALL update_student_grade($1, $2)`, regID, grade); err != nil {
			return err
		}
		err := tx.QueryRow(ctx,
			`SELECT student_id FROM registration WHERE reg_id = $1`, regID,
		).Scan(&studentID)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	})
	return studentID, err
}

// HasCompletedPrerequisite evaluates has_completed_prerequisite outside any
// transaction.
func (r *RegistrationRepository) HasCompletedPrerequisite(ctx context.Context, studentID, courseID int) (bool, error) {
	return (&store{q: r.pool}).HasCompletedPrerequisite(ctx, studentID, courseID)
}

// store implements RegistrationStore on top of a querier.
type store struct {
	q querier
}

func (s *store) StudentExists(ctx context.Context, studentID int) (bool, error) {
	var exists bool
	err := s.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM student WHERE student_id = $1)`, studentID,
	).Scan(&exists)
	return exists, err
}

func (s *store) LockSchedule(ctx context.Context, scheduleID int) (*int, bool, error) {
	var courseID *int
	err := s.q.QueryRow(ctx,
		`SELECT course_id FROM course_schedule WHERE schedule_id = $1 FOR UPDATE`, scheduleID,
	).Scan(&courseID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return courseID, true, nil
}

func (s *store) RegistrationExists(ctx context.Context, studentID, scheduleID int) (bool, error) {
	var exists bool
	err := s.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM registration WHERE student_id = $1 AND schedule_id = $2)`,
		studentID, scheduleID,
	).Scan(&exists)
	return exists, err
}

// AvailableSeats reports a NULL result from get_available_seats as zero.
func (s *store) AvailableSeats(ctx context.Context, scheduleID int) (int, error) {
	var seats *int
	if err := s.q.QueryRow(ctx, `SELECT get_available_seats($1)`, scheduleID).Scan(&seats); err != nil {
		return 0, err
	}
	if seats == nil {
		return 0, nil
	}
	return *seats, nil
}

func (s *store) HasCompletedPrerequisite(ctx context.Context, studentID, courseID int) (bool, error) {
	var completed *bool
	err := s.q.QueryRow(ctx,
		`SELECT has_completed_prerequisite($1, $2)`, studentID, courseID,
	).Scan(&completed)
	if err != nil {
		return false, err
	}
	return completed != nil && *completed, nil
}

func (s *store) InsertRegistration(ctx context.Context, studentID, scheduleID int, semester string) (int, error) {
	var regID int
	err := s.q.QueryRow(ctx,
		`INSERT INTO registration (student_id, schedule_id, semester, grade)
		 VALUES ($1, $2, $3, NULL)
		 RETURNING reg_id`,
		studentID, scheduleID, semester,
	).Scan(&regID)
	return regID, err
}

func (s *store) LockOwnedRegistration(ctx context.Context, regID, studentID int) (int, bool, error) {
	var scheduleID int
	err := s.q.QueryRow(ctx,
		`SELECT schedule_id FROM registration WHERE reg_id = $1 AND student_id = $2 FOR UPDATE`,
		regID, studentID,
	).Scan(&scheduleID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return scheduleID, true, nil
}

func (s *store) PaymentExists(ctx context.Context, regID int) (bool, error) {
	var exists bool
	err := s.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM payment WHERE reg_id = $1)`, regID,
	).Scan(&exists)
	return exists, err
}

func (s *store) DeleteRegistration(ctx context.Context, regID, studentID int) error {
	_, err := s.q.Exec(ctx,
		`DELETE FROM registration WHERE reg_id = $1 AND student_id = $2`, regID, studentID)
	return err
}
