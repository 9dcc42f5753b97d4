package model

// JSON keys keep the column names the registration frontend already reads.

// StudentSummary is one row of the student picker.
type StudentSummary struct {
	StudentID int    `db:"student_id" json:"Student_ID"`
	Name      string `db:"name" json:"Name"`
}

// StudentDetail is a student joined with the department name.
type StudentDetail struct {
	StudentID  int     `db:"student_id" json:"Student_ID"`
	Name       string  `db:"name" json:"Name"`
	Email      *string `db:"email" json:"Email"`
	Year       *int    `db:"year" json:"Year"`
	Phone      *string `db:"phone" json:"Phone"`
	Department string  `db:"department" json:"Department"`
}

// InstructorSummary is one row of the instructor picker.
type InstructorSummary struct {
	InstructorID int    `db:"instructor_id" json:"Instructor_ID"`
	Name         string `db:"name" json:"Name"`
}

// InstructorDetail is an instructor joined with the department name.
type InstructorDetail struct {
	InstructorID   int     `db:"instructor_id" json:"Instructor_ID"`
	Name           string  `db:"name" json:"Name"`
	Email          *string `db:"email" json:"Email"`
	Specialization *string `db:"specialization" json:"Specialization"`
	Department     string  `db:"department" json:"Department"`
}

// Course carries the fields the prerequisite check needs.
type Course struct {
	CourseID       int    `db:"course_id" json:"Course_ID"`
	CourseName     string `db:"course_name" json:"Course_Name"`
	PrerequisiteID *int   `db:"prerequisite_id" json:"Prerequisite_ID"`
}

// AvailableCourse is an offered section in the student's department.
// AvailableSeats is derived from Capacity and Enrolled after the query.
type AvailableCourse struct {
	ScheduleID      int     `db:"schedule_id" json:"Schedule_ID"`
	CourseID        int     `db:"course_id" json:"Course_ID"`
	CourseName      string  `db:"course_name" json:"Course_Name"`
	Credits         int     `db:"credits" json:"Credits"`
	SemesterOffered *string `db:"semester_offered" json:"Semester_Offered"`
	PrerequisiteID  *int    `db:"prerequisite_id" json:"Prerequisite_ID"`
	InstructorID    int     `db:"instructor_id" json:"Instructor_ID"`
	InstructorName  string  `db:"instructor_name" json:"Instructor_Name"`
	RoomID          int     `db:"room_id" json:"Room_ID"`
	Capacity        int     `db:"capacity" json:"Capacity"`
	Location        *string `db:"location" json:"Location"`
	Day             *string `db:"day" json:"Day"`
	Time            *string `db:"time" json:"Time"`
	Enrolled        int     `db:"enrolled" json:"Enrolled"`
	IsRegistered    bool    `db:"is_registered" json:"Is_Registered"`
	AvailableSeats  int     `db:"-" json:"Available_Seats"`
}

// PrerequisiteStatus is the outcome of a standalone prerequisite check.
type PrerequisiteStatus struct {
	CourseName     string
	PrerequisiteID *int
	HasCompleted   bool
}
