package assessment

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/Venkatesan-2007/innertia/core"
)

type AssignmentStatus string

const (
	AssignmentDraft     AssignmentStatus = "draft"
	AssignmentPublished AssignmentStatus = "published"
	AssignmentClosed    AssignmentStatus = "closed"
)

func (s AssignmentStatus) Valid() bool {
	switch s {
	case AssignmentDraft, AssignmentPublished, AssignmentClosed:
		return true
	}
	return false
}

type Assignment struct {
	ID          string           `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID    string           `gorm:"type:uuid;index" json:"course_id"`
	Title       string           `gorm:"size:255" json:"title"`
	Description string           `json:"description"`
	DueDate     time.Time        `json:"due_date"`
	Status      AssignmentStatus `gorm:"size:20" json:"status"`
	MaxScore    float64          `json:"max_score"`
	CreatedAt   time.Time        `json:"created_at"`
}

func (Assignment) TableName() string { return "assignments" }

type SubmissionStatus string

const (
	SubmissionSubmitted SubmissionStatus = "submitted"
	SubmissionGraded    SubmissionStatus = "graded"
	SubmissionLate      SubmissionStatus = "late"
)

type Submission struct {
	ID           string           `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID    string           `gorm:"type:uuid;uniqueIndex:idx_submissions_student_assignment" json:"student_id"`
	AssignmentID string           `gorm:"type:uuid;uniqueIndex:idx_submissions_student_assignment;index" json:"assignment_id"`
	Content      string           `json:"content"`
	FileURL      null.String      `json:"file_url"`
	Status       SubmissionStatus `gorm:"size:20" json:"status"`
	Score        null.Float64     `json:"score"`
	Feedback     string           `json:"feedback"`
	SubmittedAt  time.Time        `json:"submitted_at"`
	GradedAt     null.Time        `json:"graded_at"`
}

func (Submission) TableName() string { return "submissions" }

// StudentPerformance is a per-(student, course) rollup of attendance, scores
// and telemetry, recomputed on demand.
type StudentPerformance struct {
	ID                        string    `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID                 string    `gorm:"type:uuid;uniqueIndex:idx_performance_student_course" json:"student_id"`
	CourseID                  string    `gorm:"type:uuid;uniqueIndex:idx_performance_student_course" json:"course_id"`
	TotalAttendancePercentage float64   `json:"total_attendance_percentage"`
	AverageAssignmentScore    float64   `json:"average_assignment_score"`
	ViolationCount            int       `json:"violation_count"`
	TotalFocusHours           float64   `json:"total_focus_hours"`
	LastUpdated               time.Time `json:"last_updated"`
}

func (StudentPerformance) TableName() string { return "student_performance" }

type NewAssignment struct {
	CourseID    string           `json:"course_id" validate:"required,uuid4"`
	Title       string           `json:"title" validate:"required,notblank,max=255"`
	Description string           `json:"description"`
	DueDate     time.Time        `json:"due_date" validate:"required"`
	Status      AssignmentStatus `json:"status" validate:"omitempty,assignment_status"`
	MaxScore    float64          `json:"max_score" validate:"omitempty,gt=0"`
}

func (na *NewAssignment) Validate() error {
	na.Title = core.CleanString(na.Title)
	if na.Status == "" {
		na.Status = AssignmentDraft
	}
	if na.MaxScore == 0 {
		na.MaxScore = 100
	}
	return core.Validate.Struct(na)
}

// NewSubmission contains a student's answer to an assignment; the student is
// the calling actor.
type NewSubmission struct {
	AssignmentID string      `json:"assignment_id" validate:"required,uuid4"`
	Content      string      `json:"content" validate:"required,notblank"`
	FileURL      null.String `json:"file_url"`
}

func (ns *NewSubmission) Validate() error {
	return core.Validate.Struct(ns)
}

type UpdateSubmission struct {
	Content string      `json:"content"`
	FileURL null.String `json:"file_url"`
}

// GradeSubmission carries a score on the (0, 100] scale plus optional
// feedback.
type GradeSubmission struct {
	Score    float64 `json:"score" validate:"required,gt=0,lte=100"`
	Feedback string  `json:"feedback"`
}

func (gs *GradeSubmission) Validate() error {
	return core.Validate.Struct(gs)
}

type QueryFilter struct {
	Search       string `query:"search"`
	CourseID     string `query:"course_id"`
	AssignmentID string `query:"assignment_id"`
	StudentID    string `query:"student_id"`

	AssignmentStatus AssignmentStatus `query:"status"`
	SubmissionStatus SubmissionStatus `query:"submission_status"`
	DueFrom          time.Time        `query:"due_from"`
	DueTo            time.Time        `query:"due_to"`
}

func (f *QueryFilter) Clean() {
	f.Search = core.CleanString(f.Search, true /* lower */)
}
