package model

import "time"

// ClearGradeSentinel is the literal grade value that clears a grade.
const ClearGradeSentinel = "NULL"

// StudentRegistration is a registration joined with its schedule, course,
// instructor and classroom.
type StudentRegistration struct {
	RegID          int     `db:"reg_id" json:"Reg_ID"`
	Semester       string  `db:"semester" json:"Semester"`
	Grade          *string `db:"grade" json:"Grade"`
	CourseID       int     `db:"course_id" json:"Course_ID"`
	CourseName     string  `db:"course_name" json:"Course_Name"`
	Credits        int     `db:"credits" json:"Credits"`
	InstructorID   int     `db:"instructor_id" json:"Instructor_ID"`
	InstructorName string  `db:"instructor_name" json:"Instructor_Name"`
	ScheduleID     int     `db:"schedule_id" json:"Schedule_ID"`
	Day            *string `db:"day" json:"Day"`
	Time           *string `db:"time" json:"Time"`
	Location       *string `db:"location" json:"Location"`
}

// RegistrationSummary is the staff-facing registration row.
type RegistrationSummary struct {
	RegID       int     `db:"reg_id" json:"Reg_ID"`
	StudentID   int     `db:"student_id" json:"Student_ID"`
	StudentName string  `db:"student_name" json:"Student_Name"`
	CourseID    int     `db:"course_id" json:"Course_ID"`
	CourseName  string  `db:"course_name" json:"Course_Name"`
	Semester    string  `db:"semester" json:"Semester"`
	Grade       *string `db:"grade" json:"Grade"`
}

// RegisterCourseRequest is the payload of POST /api/register-course.
type RegisterCourseRequest struct {
	StudentID  ID     `json:"student_id" binding:"required"`
	ScheduleID ID     `json:"schedule_id" binding:"required"`
	Semester   string `json:"semester" binding:"max=20"`
}

// DropCourseRequest is the payload of POST /api/drop-course.
type DropCourseRequest struct {
	RegID     ID `json:"reg_id" binding:"required"`
	StudentID ID `json:"student_id" binding:"required"`
}

// CheckPrerequisiteRequest is the payload of POST /api/check-prerequisite.
type CheckPrerequisiteRequest struct {
	StudentID ID `json:"student_id" binding:"required"`
	CourseID  ID `json:"course_id" binding:"required"`
}

// UpdateGradeRequest is the payload of POST /api/update-grade.
// A missing grade or the literal "NULL" clears the grade.
type UpdateGradeRequest struct {
	RegID    ID      `json:"reg_id" binding:"required"`
	NewGrade *string `json:"new_grade"`
}

// EventType names a registration change published to the feed.
type EventType string

const (
	EventRegistered   EventType = "registered"
	EventDropped      EventType = "dropped"
	EventGradeUpdated EventType = "grade_updated"
)

// RegistrationEvent is published after a registration changes.
type RegistrationEvent struct {
	Event      EventType `json:"event"`
	RegID      int       `json:"reg_id"`
	StudentID  int       `json:"student_id,omitempty"`
	ScheduleID int       `json:"schedule_id,omitempty"`
	Grade      *string   `json:"grade,omitempty"`
	At         time.Time `json:"at"`
}
