package course

import (
	"time"

	"github.com/Venkatesan-2007/innertia/core"
)

type Course struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Code        string    `gorm:"size:50;uniqueIndex:idx_courses_code_program" json:"code"`
	Name        string    `gorm:"size:255" json:"name"`
	Description string    `json:"description"`
	ProgramID   string    `gorm:"type:uuid;uniqueIndex:idx_courses_code_program;index" json:"program_id"`
	FacultyID   string    `gorm:"type:uuid;index" json:"faculty_id"`
	Semester    int       `json:"semester"`
	Credits     int       `json:"credits"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Course) TableName() string { return "courses" }

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentDropped   EnrollmentStatus = "dropped"
)

func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentActive, EnrollmentCompleted, EnrollmentDropped:
		return true
	}
	return false
}

type Enrollment struct {
	ID         string           `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID  string           `gorm:"type:uuid;uniqueIndex:idx_enrollments_student_course" json:"student_id"`
	CourseID   string           `gorm:"type:uuid;uniqueIndex:idx_enrollments_student_course;index" json:"course_id"`
	Status     EnrollmentStatus `gorm:"size:20" json:"status"`
	EnrolledAt time.Time        `json:"enrolled_at"`
}

func (Enrollment) TableName() string { return "enrollments" }

// NewCourse contains information needed to create a new Course.
// Code is unique within the program; the faculty must hold the faculty role.
type NewCourse struct {
	Code        string `json:"code" validate:"required,notblank,max=50"`
	Name        string `json:"name" validate:"required,notblank"`
	Description string `json:"description"`
	ProgramID   string `json:"program_id" validate:"required,uuid4"`
	FacultyID   string `json:"faculty_id" validate:"required,uuid4"`
	Semester    int    `json:"semester" validate:"required,min=1,max=8"`
	Credits     int    `json:"credits" validate:"omitempty,min=1,max=6"`
}

func (nc *NewCourse) Validate() error {
	nc.Code = core.CleanString(nc.Code, true /* lower */)
	nc.Name = core.CleanString(nc.Name)
	if nc.Credits == 0 {
		nc.Credits = 3
	}
	return core.Validate.Struct(nc)
}

type UpdateEnrollment struct {
	Status EnrollmentStatus `json:"status" validate:"required,enrollment_status"`
}

func (ue *UpdateEnrollment) Validate() error {
	return core.Validate.Struct(ue)
}

type QueryFilter struct {
	Search    string `query:"search"`
	ProgramID string `query:"program_id"`
	FacultyID string `query:"faculty_id"`
	Semester  int    `query:"semester"`

	// enrollments only
	StudentID string           `query:"student_id"`
	CourseID  string           `query:"course_id"`
	Status    EnrollmentStatus `query:"status"`
}

func (f *QueryFilter) Clean() {
	f.Search = core.CleanString(f.Search, true /* lower */)
}
