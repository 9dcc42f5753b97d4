package service

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTokenService(t *testing.T) {
	Convey("Given a token service", t, func() {
		svc := NewTokenService("test-secret", time.Hour)

		Convey("an instructor token round-trips its claims", func() {
			token, err := svc.Issue(RoleInstructor, 201)
			So(err, ShouldBeNil)

			claims, err := svc.Validate(token)
			So(err, ShouldBeNil)
			So(claims.Role, ShouldEqual, RoleInstructor)
			So(claims.InstructorID, ShouldEqual, 201)
			So(claims.Subject, ShouldEqual, "201")
		})

		Convey("admin tokens carry no instructor id", func() {
			token, err := svc.Issue(RoleAdmin, 55)
			So(err, ShouldBeNil)
			claims, err := svc.Validate(token)
			So(err, ShouldBeNil)
			So(claims.InstructorID, ShouldEqual, 0)
		})

		Convey("bad issue requests are refused", func() {
			_, err := svc.Issue(Role("student"), 0)
			So(errors.Is(err, ErrInvalidRole), ShouldBeTrue)
			_, err = svc.Issue(RoleInstructor, 0)
			So(errors.Is(err, ErrInstructorIDEmpty), ShouldBeTrue)
		})

		Convey("tokens signed with another secret are rejected", func() {
			token, err := NewTokenService("other", time.Hour).Issue(RoleAdmin, 0)
			So(err, ShouldBeNil)
			_, err = svc.Validate(token)
			So(err, ShouldNotBeNil)
		})

		Convey("expired tokens are rejected", func() {
			svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
			token, err := svc.Issue(RoleAdmin, 0)
			So(err, ShouldBeNil)
			svc.now = time.Now
			_, err = svc.Validate(token)
			So(err, ShouldNotBeNil)
		})
	})
}
