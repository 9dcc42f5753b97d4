package service

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/unireg/registrar/internal/model"
)

type fakeReports struct {
	audit        []model.AuditEntry
	instructorID int
}

func (f *fakeReports) AuditLog(ctx context.Context) ([]model.AuditEntry, error) {
	return f.audit, nil
}

func (f *fakeReports) Payments(ctx context.Context) ([]model.PaymentRecord, error) {
	return nil, nil
}

func (f *fakeReports) StudentsOfInstructor(ctx context.Context, instructorID int) ([]model.InstructorStudent, error) {
	f.instructorID = instructorID
	return []model.InstructorStudent{{StudentID: 1, StudentName: "Asha"}}, nil
}

func (f *fakeReports) CoursesPerDepartment(ctx context.Context) ([]model.DepartmentCourseCount, error) {
	return nil, nil
}

func TestReports(t *testing.T) {
	ctx := context.Background()

	Convey("Given the audit trail", t, func() {
		at := time.Date(2025, 3, 4, 9, 5, 7, 123, time.UTC)
		repo := &fakeReports{audit: []model.AuditEntry{
			{LogID: 2, RegID: 10, ChangedAt: &at, NewGrade: strPtr("A")},
			{LogID: 1, RegID: 10},
		}}
		svc := NewReportService(repo, 201)

		Convey("timestamps are rendered as plain text", func() {
			entries, err := svc.AuditLog(ctx)
			So(err, ShouldBeNil)
			So(*entries[0].ChangeTimestamp, ShouldEqual, "2025-03-04 09:05:07")
			So(entries[1].ChangeTimestamp, ShouldBeNil)
		})

		Convey("the nested report uses the configured instructor", func() {
			students, err := svc.SpotlightStudents(ctx)
			So(err, ShouldBeNil)
			So(students, ShouldHaveLength, 1)
			So(repo.instructorID, ShouldEqual, 201)
		})
	})
}
