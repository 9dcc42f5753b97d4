package service

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/unireg/registrar/internal/model"
	"github.com/unireg/registrar/internal/repository"
)

type registration struct {
	id, studentID, scheduleID int
	semester                  string
	grade                     *string
}

// fakeDB is an in-memory stand-in for the registration tables and the
// external seat and prerequisite routines.
type fakeDB struct {
	mu sync.Mutex

	students  map[int]bool
	schedules map[int]*int // schedule -> course
	capacity  map[int]int
	completed map[[2]int]bool // (student, course)
	payments  map[int]bool

	regs   []registration
	nextID int

	txErr       error // returned instead of running the transaction
	insertErr   error
	updateErr   error
	listErr     error
	updateCalls []*string
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		students:  map[int]bool{},
		schedules: map[int]*int{},
		capacity:  map[int]int{},
		completed: map[[2]int]bool{},
		payments:  map[int]bool{},
		nextID:    1000,
	}
}

func (f *fakeDB) RunInTx(ctx context.Context, fn func(repository.RegistrationStore) error) error {
	if f.txErr != nil {
		return f.txErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	snapshot := append([]registration(nil), f.regs...)
	next := f.nextID
	if err := fn(&fakeStore{db: f}); err != nil {
		f.regs = snapshot
		f.nextID = next
		return err
	}
	return nil
}

func (f *fakeDB) count(scheduleID int) int {
	n := 0
	for _, r := range f.regs {
		if r.scheduleID == scheduleID {
			n++
		}
	}
	return n
}

func (f *fakeDB) ListByStudent(ctx context.Context, studentID int) ([]model.StudentRegistration, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.StudentRegistration
	for _, r := range f.regs {
		if r.studentID == studentID {
			out = append(out, model.StudentRegistration{RegID: r.id, ScheduleID: r.scheduleID, Semester: r.semester, Grade: r.grade})
		}
	}
	return out, nil
}

func (f *fakeDB) ListByInstructor(ctx context.Context, instructorID int) ([]model.RegistrationSummary, error) {
	return nil, f.listErr
}

func (f *fakeDB) ListAll(ctx context.Context) ([]model.RegistrationSummary, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.RegistrationSummary
	for _, r := range f.regs {
		out = append(out, model.RegistrationSummary{RegID: r.id, StudentID: r.studentID, Semester: r.semester, Grade: r.grade})
	}
	return out, nil
}

func (f *fakeDB) UpdateGrade(ctx context.Context, regID int, grade *string) (int, error) {
	f.updateCalls = append(f.updateCalls, grade)
	if f.updateErr != nil {
		return 0, f.updateErr
	}
	for _, r := range f.regs {
		if r.id == regID {
			return r.studentID, nil
		}
	}
	return 0, nil
}

type fakeStore struct {
	db *fakeDB
}

func (s *fakeStore) StudentExists(ctx context.Context, studentID int) (bool, error) {
	return s.db.students[studentID], nil
}

func (s *fakeStore) LockSchedule(ctx context.Context, scheduleID int) (*int, bool, error) {
	course, ok := s.db.schedules[scheduleID]
	return course, ok, nil
}

func (s *fakeStore) RegistrationExists(ctx context.Context, studentID, scheduleID int) (bool, error) {
	for _, r := range s.db.regs {
		if r.studentID == studentID && r.scheduleID == scheduleID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) AvailableSeats(ctx context.Context, scheduleID int) (int, error) {
	return s.db.capacity[scheduleID] - s.db.count(scheduleID), nil
}

func (s *fakeStore) HasCompletedPrerequisite(ctx context.Context, studentID, courseID int) (bool, error) {
	return s.db.completed[[2]int{studentID, courseID}], nil
}

func (s *fakeStore) InsertRegistration(ctx context.Context, studentID, scheduleID int, semester string) (int, error) {
	if s.db.insertErr != nil {
		return 0, s.db.insertErr
	}
	s.db.nextID++
	s.db.regs = append(s.db.regs, registration{id: s.db.nextID, studentID: studentID, scheduleID: scheduleID, semester: semester})
	return s.db.nextID, nil
}

func (s *fakeStore) LockOwnedRegistration(ctx context.Context, regID, studentID int) (int, bool, error) {
	for _, r := range s.db.regs {
		if r.id == regID && r.studentID == studentID {
			return r.scheduleID, true, nil
		}
	}
	return 0, false, nil
}

func (s *fakeStore) PaymentExists(ctx context.Context, regID int) (bool, error) {
	return s.db.payments[regID], nil
}

func (s *fakeStore) DeleteRegistration(ctx context.Context, regID, studentID int) error {
	kept := s.db.regs[:0]
	for _, r := range s.db.regs {
		if !(r.id == regID && r.studentID == studentID) {
			kept = append(kept, r)
		}
	}
	s.db.regs = kept
	return nil
}

type recordingPublisher struct {
	events []model.RegistrationEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, event model.RegistrationEvent) {
	p.events = append(p.events, event)
}

func pgError(code, constraint string) error {
	return &pgconn.PgError{Code: code, ConstraintName: constraint, Message: "constraint violated"}
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
