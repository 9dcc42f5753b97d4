package model

import "time"

// AuditTimeLayout is the textual layout of audit timestamps.
const AuditTimeLayout = "2006-01-02 15:04:05"

// AuditEntry is one row of GradeChangeAudit. ChangedAt is rendered into
// ChangeTimestamp before the row leaves the service layer.
type AuditEntry struct {
	LogID           int        `db:"log_id" json:"Log_ID"`
	RegID           int        `db:"reg_id" json:"Reg_ID"`
	StudentID       int        `db:"student_id" json:"Student_ID"`
	OldGrade        *string    `db:"old_grade" json:"Old_Grade"`
	NewGrade        *string    `db:"new_grade" json:"New_Grade"`
	ChangedAt       *time.Time `db:"change_timestamp" json:"-"`
	ChangeTimestamp *string    `db:"-" json:"Change_Timestamp"`
}

// PaymentRecord joins a payment with the student and course it pays for.
type PaymentRecord struct {
	StudentName string  `db:"student_name" json:"Student_Name"`
	CourseName  string  `db:"course_name" json:"Course_Name"`
	Amount      float64 `db:"amount" json:"Amount"`
	PaymentDate *string `db:"payment_date" json:"Payment_Date"`
	Method      *string `db:"method" json:"Method"`
}

// InstructorStudent is a student taught by the spotlight instructor.
type InstructorStudent struct {
	StudentID   int    `db:"student_id" json:"Student_ID"`
	StudentName string `db:"student_name" json:"Student_Name"`
}

// DepartmentCourseCount is the number of courses offered per department.
type DepartmentCourseCount struct {
	DepartmentName  string `db:"department_name" json:"Department_Name"`
	NumberOfCourses int    `db:"number_of_courses" json:"Number_of_Courses"`
}
