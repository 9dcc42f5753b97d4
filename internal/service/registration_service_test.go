package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/unireg/registrar/internal/database"
	"github.com/unireg/registrar/internal/model"
)

func newRegistrationFixture() (*fakeDB, *recordingPublisher, *RegistrationService) {
	db := newFakeDB()
	db.students[1] = true
	db.students[2] = true
	db.schedules[501] = intPtr(301)
	db.capacity[501] = 30
	db.completed[[2]int{1, 301}] = true
	db.completed[[2]int{2, 301}] = true

	// 29 placeholder students already fill the section.
	for i := 0; i < 29; i++ {
		db.regs = append(db.regs, registration{id: i + 1, studentID: 100 + i, scheduleID: 501, semester: "Semester 6"})
	}

	pub := &recordingPublisher{}
	svc := NewRegistrationService(db, pub, "Semester 6", zerolog.Nop())
	return db, pub, svc
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	Convey("Given a section with one seat left", t, func() {
		db, pub, svc := newRegistrationFixture()

		Convey("registering takes the seat and announces it", func() {
			regID, err := svc.Register(ctx, 1, 501, "")
			So(err, ShouldBeNil)
			So(regID, ShouldBeGreaterThan, 0)
			So(db.count(501), ShouldEqual, 30)
			So(db.regs[len(db.regs)-1].semester, ShouldEqual, "Semester 6")

			So(pub.events, ShouldHaveLength, 1)
			So(pub.events[0].Event, ShouldEqual, model.EventRegistered)
			So(pub.events[0].RegID, ShouldEqual, regID)
			So(pub.events[0].ScheduleID, ShouldEqual, 501)

			Convey("a second attempt for the same pair is a duplicate", func() {
				_, err := svc.Register(ctx, 1, 501, "")
				So(errors.Is(err, ErrAlreadyRegistered), ShouldBeTrue)
				So(db.count(501), ShouldEqual, 30)
			})

			Convey("another student finds the class full", func() {
				_, err := svc.Register(ctx, 2, 501, "Semester 5")
				So(errors.Is(err, ErrClassFull), ShouldBeTrue)
				So(db.count(501), ShouldEqual, 30)
			})
		})

		Convey("an explicit semester is kept", func() {
			_, err := svc.Register(ctx, 1, 501, "Semester 3")
			So(err, ShouldBeNil)
			So(db.regs[len(db.regs)-1].semester, ShouldEqual, "Semester 3")
		})

		Convey("unknown students are rejected without inserting", func() {
			_, err := svc.Register(ctx, 99, 501, "")
			So(errors.Is(err, ErrStudentNotFound), ShouldBeTrue)
			So(db.count(501), ShouldEqual, 29)
			So(pub.events, ShouldBeEmpty)
		})

		Convey("unknown schedules are rejected without inserting", func() {
			_, err := svc.Register(ctx, 1, 999, "")
			So(errors.Is(err, ErrScheduleNotFound), ShouldBeTrue)
			So(db.regs, ShouldHaveLength, 29)
		})

		Convey("an incomplete prerequisite blocks the registration", func() {
			db.completed[[2]int{1, 301}] = false
			_, err := svc.Register(ctx, 1, 501, "")
			So(errors.Is(err, ErrPrerequisiteNotMet), ShouldBeTrue)
			So(db.count(501), ShouldEqual, 29)
		})

		Convey("a schedule without a course skips the prerequisite check", func() {
			db.schedules[601] = nil
			db.capacity[601] = 10
			db.completed[[2]int{1, 301}] = false
			_, err := svc.Register(ctx, 1, 601, "")
			So(err, ShouldBeNil)
			So(db.count(601), ShouldEqual, 1)
		})

		Convey("a unique violation on insert reads as a duplicate", func() {
			db.insertErr = fmt.Errorf("insert: %w", pgError("23505", "registration_student_schedule_key"))
			_, err := svc.Register(ctx, 1, 501, "")
			So(errors.Is(err, ErrAlreadyRegistered), ShouldBeTrue)
		})

		Convey("a foreign key violation names the missing side", func() {
			db.insertErr = pgError("23503", "registration_student_id_fkey")
			_, err := svc.Register(ctx, 1, 501, "")
			So(errors.Is(err, ErrStudentNotFound), ShouldBeTrue)

			db.insertErr = pgError("23503", "registration_schedule_id_fkey")
			_, err = svc.Register(ctx, 1, 501, "")
			So(errors.Is(err, ErrScheduleNotFound), ShouldBeTrue)
		})

		Convey("a transaction that cannot start reports the database as unavailable", func() {
			db.txErr = fmt.Errorf("%w: begin transaction: %w", database.ErrUnavailable, errors.New("dial tcp: connection refused"))
			_, err := svc.Register(ctx, 1, 501, "")
			So(errors.Is(err, ErrDatabaseUnavailable), ShouldBeTrue)
			So(pub.events, ShouldBeEmpty)
		})

		Convey("other driver failures are wrapped with the workflow name", func() {
			db.insertErr = errors.New("disk full")
			_, err := svc.Register(ctx, 1, 501, "")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "disk full")
			So(errors.Is(err, ErrDatabaseUnavailable), ShouldBeFalse)
		})
	})
}

func TestDrop(t *testing.T) {
	ctx := context.Background()

	Convey("Given a student holding a registration", t, func() {
		db, pub, svc := newRegistrationFixture()
		regID, err := svc.Register(ctx, 1, 501, "")
		So(err, ShouldBeNil)
		pub.events = nil

		Convey("dropping it removes the row and announces it", func() {
			So(svc.Drop(ctx, regID, 1), ShouldBeNil)
			regs, err := svc.StudentRegistrations(ctx, 1)
			So(err, ShouldBeNil)
			So(regs, ShouldBeEmpty)
			So(pub.events, ShouldHaveLength, 1)
			So(pub.events[0].Event, ShouldEqual, model.EventDropped)
			So(pub.events[0].ScheduleID, ShouldEqual, 501)
		})

		Convey("another student cannot drop it", func() {
			err := svc.Drop(ctx, regID, 2)
			So(errors.Is(err, ErrRegistrationNotOwned), ShouldBeTrue)
			So(db.count(501), ShouldEqual, 30)
		})

		Convey("a payment locks it", func() {
			db.payments[regID] = true
			err := svc.Drop(ctx, regID, 1)
			So(errors.Is(err, ErrPaymentExists), ShouldBeTrue)
			So(db.count(501), ShouldEqual, 30)
			So(pub.events, ShouldBeEmpty)
		})
	})
}

func TestUpdateGrade(t *testing.T) {
	ctx := context.Background()

	Convey("Given the grade procedure", t, func() {
		db, pub, svc := newRegistrationFixture()

		Convey("the NULL sentinel clears the grade", func() {
			So(svc.UpdateGrade(ctx, 7, strPtr("NULL")), ShouldBeNil)
			So(db.updateCalls, ShouldHaveLength, 1)
			So(db.updateCalls[0], ShouldBeNil)
			So(pub.events[0].Event, ShouldEqual, model.EventGradeUpdated)
			So(pub.events[0].Grade, ShouldBeNil)
		})

		Convey("the announcement names the student holding the registration", func() {
			So(svc.UpdateGrade(ctx, 7, strPtr("A")), ShouldBeNil)
			So(pub.events, ShouldHaveLength, 1)
			So(pub.events[0].RegID, ShouldEqual, 7)
			So(pub.events[0].StudentID, ShouldEqual, 106)
			So(*pub.events[0].Grade, ShouldEqual, "A")
		})

		Convey("a missing grade clears it too", func() {
			So(svc.UpdateGrade(ctx, 7, nil), ShouldBeNil)
			So(db.updateCalls[0], ShouldBeNil)
		})

		Convey("any other value is passed through unvalidated", func() {
			So(svc.UpdateGrade(ctx, 7, strPtr("A+")), ShouldBeNil)
			So(*db.updateCalls[0], ShouldEqual, "A+")
		})

		Convey("procedure errors are returned and nothing is announced", func() {
			db.updateErr = pgError("P0001", "")
			err := svc.UpdateGrade(ctx, 7, strPtr("B"))
			So(err, ShouldNotBeNil)
			So(database.Message(err), ShouldEqual, "constraint violated")
			So(pub.events, ShouldBeEmpty)
		})
	})
}

func TestNormalizeGrade(t *testing.T) {
	Convey("NormalizeGrade only clears nil and the sentinel", t, func() {
		So(NormalizeGrade(nil), ShouldBeNil)
		So(NormalizeGrade(strPtr("NULL")), ShouldBeNil)
		So(*NormalizeGrade(strPtr("null")), ShouldEqual, "null")
		So(*NormalizeGrade(strPtr("")), ShouldEqual, "")
	})
}
