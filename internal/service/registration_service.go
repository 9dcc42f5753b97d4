package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/unireg/registrar/internal/database"
	"github.com/unireg/registrar/internal/model"
	"github.com/unireg/registrar/internal/repository"
)

// RegistrationRepository is the data access RegistrationService depends on.
type RegistrationRepository interface {
	RunInTx(ctx context.Context, fn func(repository.RegistrationStore) error) error
	ListByStudent(ctx context.Context, studentID int) ([]model.StudentRegistration, error)
	ListByInstructor(ctx context.Context, instructorID int) ([]model.RegistrationSummary, error)
	ListAll(ctx context.Context) ([]model.RegistrationSummary, error)
	UpdateGrade(ctx context.Context, regID int, grade *string) (studentID int, err error)
}

// EventPublisher announces registration changes. Implementations must not
// block the caller on delivery failures.
type EventPublisher interface {
	Publish(ctx context.Context, event model.RegistrationEvent)
}

// RegistrationService runs the register, drop and grade workflows.
type RegistrationService struct {
	repo            RegistrationRepository
	publisher       EventPublisher
	defaultSemester string
	log             zerolog.Logger
	now             func() time.Time
}

// NewRegistrationService creates a new RegistrationService.
func NewRegistrationService(
	repo RegistrationRepository,
	publisher EventPublisher,
	defaultSemester string,
	log zerolog.Logger,
) *RegistrationService {
	return &RegistrationService{
		repo:            repo,
		publisher:       publisher,
		defaultSemester: defaultSemester,
		log:             log.With().Str("component", "registration_service").Logger(),
		now:             time.Now,
	}
}

// Register enrols a student in a schedule and returns the new registration ID.
//
// The schedule row is locked for the duration of the transaction, so the
// duplicate and seat checks see every committed registration for it.
// Checks run in order: student, schedule, duplicate, seats, prerequisite.
func (s *RegistrationService) Register(ctx context.Context, studentID, scheduleID int, semester string) (int, error) {
	if strings.TrimSpace(semester) == "" {
		semester = s.defaultSemester
	}

	var regID int
	err := s.repo.RunInTx(ctx, func(st repository.RegistrationStore) error {
		exists, err := st.StudentExists(ctx, studentID)
		if err != nil {
			return wrapDB("check student", err)
		}
		if !exists {
			return ErrStudentNotFound
		}

		courseID, found, err := st.LockSchedule(ctx, scheduleID)
		if err != nil {
			return wrapDB("lock schedule", err)
		}
		if !found {
			return ErrScheduleNotFound
		}

		registered, err := st.RegistrationExists(ctx, studentID, scheduleID)
		if err != nil {
			return wrapDB("check duplicate", err)
		}
		if registered {
			return ErrAlreadyRegistered
		}

		seats, err := st.AvailableSeats(ctx, scheduleID)
		if err != nil {
			return wrapDB("available seats", err)
		}
		if seats <= 0 {
			return ErrClassFull
		}

		if courseID != nil {
			completed, err := st.HasCompletedPrerequisite(ctx, studentID, *courseID)
			if err != nil {
				return wrapDB("check prerequisite", err)
			}
			if !completed {
				return ErrPrerequisiteNotMet
			}
		}

		regID, err = st.InsertRegistration(ctx, studentID, scheduleID, semester)
		if err != nil {
			return insertError(err)
		}
		return nil
	})
	if err != nil {
		s.log.Debug().Err(err).
			Int("student_id", studentID).
			Int("schedule_id", scheduleID).
			Msg("Registration rejected")
		return 0, asWorkflowError("register course", err)
	}

	s.log.Info().
		Int("reg_id", regID).
		Int("student_id", studentID).
		Int("schedule_id", scheduleID).
		Msg("Student registered")

	s.publisher.Publish(ctx, model.RegistrationEvent{
		Event:      model.EventRegistered,
		RegID:      regID,
		StudentID:  studentID,
		ScheduleID: scheduleID,
		At:         s.now().UTC(),
	})
	return regID, nil
}

// Drop deletes a registration owned by studentID unless a payment references it.
func (s *RegistrationService) Drop(ctx context.Context, regID, studentID int) error {
	var scheduleID int
	err := s.repo.RunInTx(ctx, func(st repository.RegistrationStore) error {
		var found bool
		var err error
		scheduleID, found, err = st.LockOwnedRegistration(ctx, regID, studentID)
		if err != nil {
			return wrapDB("lock registration", err)
		}
		if !found {
			return ErrRegistrationNotOwned
		}

		paid, err := st.PaymentExists(ctx, regID)
		if err != nil {
			return wrapDB("check payment", err)
		}
		if paid {
			return ErrPaymentExists
		}

		if err := st.DeleteRegistration(ctx, regID, studentID); err != nil {
			return wrapDB("delete registration", err)
		}
		return nil
	})
	if err != nil {
		return asWorkflowError("drop course", err)
	}

	s.log.Info().Int("reg_id", regID).Int("student_id", studentID).Msg("Registration dropped")

	s.publisher.Publish(ctx, model.RegistrationEvent{
		Event:      model.EventDropped,
		RegID:      regID,
		StudentID:  studentID,
		ScheduleID: scheduleID,
		At:         s.now().UTC(),
	})
	return nil
}

// UpdateGrade sets or clears the grade of a registration through the
// update_student_grade procedure, which also appends the audit record.
func (s *RegistrationService) UpdateGrade(ctx context.Context, regID int, grade *string) error {
	grade = NormalizeGrade(grade)

	studentID, err := s.repo.UpdateGrade(ctx, regID, grade)
	if err != nil {
		return wrapDB("update grade", err)
	}

	s.log.Info().Int("reg_id", regID).Int("student_id", studentID).Msg("Grade updated")

	s.publisher.Publish(ctx, model.RegistrationEvent{
		Event:     model.EventGradeUpdated,
		RegID:     regID,
		StudentID: studentID,
		Grade:     grade,
		At:        s.now().UTC(),
	})
	return nil
}

// StudentRegistrations lists a student's registrations.
func (s *RegistrationService) StudentRegistrations(ctx context.Context, studentID int) ([]model.StudentRegistration, error) {
	regs, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, wrapDB("list student registrations", err)
	}
	return regs, nil
}

// InstructorRegistrations lists the registrations in an instructor's sections.
func (s *RegistrationService) InstructorRegistrations(ctx context.Context, instructorID int) ([]model.RegistrationSummary, error) {
	regs, err := s.repo.ListByInstructor(ctx, instructorID)
	if err != nil {
		return nil, wrapDB("list instructor registrations", err)
	}
	return regs, nil
}

// AllRegistrations lists every registration.
func (s *RegistrationService) AllRegistrations(ctx context.Context) ([]model.RegistrationSummary, error) {
	regs, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, wrapDB("list registrations", err)
	}
	return regs, nil
}

// NormalizeGrade maps a missing grade and the "NULL" literal to nil.
func NormalizeGrade(grade *string) *string {
	if grade == nil || *grade == model.ClearGradeSentinel {
		return nil
	}
	return grade
}

func insertError(err error) error {
	switch {
	case database.IsUniqueViolation(err):
		return ErrAlreadyRegistered
	case database.IsForeignKeyViolation(err):
		if strings.Contains(database.ConstraintName(err), "student") {
			return ErrStudentNotFound
		}
		return ErrScheduleNotFound
	default:
		return wrapDB("insert registration", err)
	}
}

var rejections = []error{
	ErrStudentNotFound,
	ErrScheduleNotFound,
	ErrAlreadyRegistered,
	ErrClassFull,
	ErrPrerequisiteNotMet,
	ErrRegistrationNotOwned,
	ErrPaymentExists,
}

// asWorkflowError passes business rejections through untouched and wraps
// everything else with the workflow name.
func asWorkflowError(op string, err error) error {
	for _, r := range rejections {
		if errors.Is(err, r) {
			return err
		}
	}
	if errors.Is(err, ErrDatabaseUnavailable) {
		return err
	}
	return wrapDB(op, err)
}
