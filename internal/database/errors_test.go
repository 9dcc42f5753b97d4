package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	. "github.com/smartystreets/goconvey/convey"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestErrorClassification(t *testing.T) {
	Convey("Given errors returned by the driver", t, func() {
		unique := &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
		fk := &pgconn.PgError{Code: "23503", Message: "insert or update violates foreign key constraint"}

		Convey("unique violations are recognised through wrapping", func() {
			So(IsUniqueViolation(fmt.Errorf("insert registration: %w", unique)), ShouldBeTrue)
			So(IsUniqueViolation(fk), ShouldBeFalse)
			So(IsUniqueViolation(errors.New("boom")), ShouldBeFalse)
		})

		Convey("foreign key violations are recognised", func() {
			So(IsForeignKeyViolation(fmt.Errorf("wrapped: %w", fk)), ShouldBeTrue)
			So(IsForeignKeyViolation(unique), ShouldBeFalse)
		})

		Convey("unavailability covers the sentinel and timeouts but not statement errors", func() {
			So(IsUnavailable(nil), ShouldBeFalse)
			So(IsUnavailable(fmt.Errorf("%w: begin: %w", ErrUnavailable, errors.New("refused"))), ShouldBeTrue)
			So(IsUnavailable(timeoutErr{}), ShouldBeTrue)
			So(IsUnavailable(unique), ShouldBeFalse)
			So(IsUnavailable(pgx.ErrNoRows), ShouldBeFalse)
		})

		Convey("Message prefers the server message", func() {
			So(Message(fmt.Errorf("call: %w", fk)), ShouldEqual, fk.Message)
			So(Message(errors.New("plain")), ShouldEqual, "plain")
		})
	})
}

type failingBeginner struct{ err error }

func (f failingBeginner) BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error) {
	return nil, f.err
}

func TestWithTxBeginFailure(t *testing.T) {
	Convey("When a transaction cannot be started", t, func() {
		called := false
		err := WithTx(context.Background(), failingBeginner{err: errors.New("connection refused")}, pgx.TxOptions{}, func(pgx.Tx) error {
			called = true
			return nil
		})

		Convey("the callback never runs and the error reads as unavailable", func() {
			So(called, ShouldBeFalse)
			So(errors.Is(err, ErrUnavailable), ShouldBeTrue)
			So(IsUnavailable(err), ShouldBeTrue)
		})
	})
}
