package assessment

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/Venkatesan-2007/innertia/core"
	"github.com/Venkatesan-2007/innertia/core/classroom"
	"github.com/Venkatesan-2007/innertia/core/course"
	"github.com/Venkatesan-2007/innertia/core/policy"
)

var (
	ErrAssignmentNotFound  = errors.New("assignment not found")
	ErrSubmissionNotFound  = errors.New("submission not found")
	ErrSubmissionExists    = errors.New("this assignment has already been submitted")
	ErrPerformanceNotFound = errors.New("performance record not found")
	ErrAssignmentClosed    = errors.New("assignment is closed for submissions")
)

func init() {
	_ = core.Validate.RegisterValidation("assignment_status", func(fl validator.FieldLevel) bool {
		return AssignmentStatus(fl.Field().String()).Valid()
	})
	core.RegisterCustomTranslation("assignment_status", "invalid assignment status")
}

// PerformanceStats are the raw aggregates a performance rollup is derived
// from, computed over a single (student, course) pair.
type PerformanceStats struct {
	AttendancePercentage float64
	AverageScore         float64
	ViolationCount       int
	FocusMinutes         int
}

type Repository interface {
	CreateAssignment(a Assignment) error
	GetAssignmentByID(id string) (Assignment, error)
	FilterAssignments(scope policy.Scope, filter QueryFilter) ([]Assignment, error)
	UpdateAssignment(a Assignment) (Assignment, error)
	DeleteAssignmentsByID(ids ...string) error

	// CreateSubmission reports ErrSubmissionExists when the student has
	// already submitted for the assignment.
	CreateSubmission(s Submission) error
	GetSubmissionByID(id string) (Submission, error)
	FilterSubmissions(scope policy.Scope, filter QueryFilter) ([]Submission, error)
	UpdateSubmission(s Submission) (Submission, error)

	// PerformanceStatsFor aggregates attendance, graded scores, violations
	// and focus minutes for one student in one course.
	PerformanceStatsFor(studentID, courseID string) (PerformanceStats, error)
	UpsertPerformance(p StudentPerformance) (StudentPerformance, error)
	GetPerformanceByID(id string) (StudentPerformance, error)
	FilterPerformance(scope policy.Scope, filter QueryFilter) ([]StudentPerformance, error)
}

type Service struct {
	repo   Repository
	crsSvc *course.Service
}

func NewService(repo Repository, crsSvc *course.Service) *Service {
	return &Service{repo: repo, crsSvc: crsSvc}
}

func (svc *Service) CreateAssignment(na NewAssignment) (Assignment, error) {
	if _, err := svc.crsSvc.GetByID(na.CourseID); err != nil {
		if err == course.ErrNotFound {
			return Assignment{}, core.NewValidationError(err, core.FieldError{Field: "course_id", Error: err.Error()})
		}
		return Assignment{}, err
	}

	a := Assignment{
		ID:          uuid.NewString(),
		CourseID:    na.CourseID,
		Title:       na.Title,
		Description: na.Description,
		DueDate:     na.DueDate,
		Status:      na.Status,
		MaxScore:    na.MaxScore,
	}
	if err := svc.repo.CreateAssignment(a); err != nil {
		return Assignment{}, err
	}
	return a, nil
}

func (svc *Service) GetAssignmentByID(id string) (Assignment, error) {
	return svc.repo.GetAssignmentByID(id)
}

func (svc *Service) FilterAssignments(scope policy.Scope, filter QueryFilter) ([]Assignment, error) {
	filter.Clean()
	return svc.repo.FilterAssignments(scope, filter)
}

func (svc *Service) UpdateAssignment(id string, na NewAssignment) (Assignment, error) {
	a, err := svc.repo.GetAssignmentByID(id)
	if err != nil {
		return Assignment{}, err
	}
	a.Title = na.Title
	a.Description = na.Description
	a.DueDate = na.DueDate
	a.Status = na.Status
	a.MaxScore = na.MaxScore
	return svc.repo.UpdateAssignment(a)
}

func (svc *Service) DeleteAssignments(ids ...string) error {
	return svc.repo.DeleteAssignmentsByID(ids...)
}

// Submit records a student's answer. Submissions past the due date are
// accepted but flagged late; closed assignments reject outright. One
// submission per (student, assignment); resubmission is a conflict.
func (svc *Service) Submit(studentID string, ns NewSubmission) (Submission, error) {
	a, err := svc.repo.GetAssignmentByID(ns.AssignmentID)
	if err != nil {
		if err == ErrAssignmentNotFound {
			return Submission{}, core.NewValidationError(err, core.FieldError{Field: "assignment_id", Error: err.Error()})
		}
		return Submission{}, err
	}
	if a.Status == AssignmentClosed {
		return Submission{}, core.NewValidationError(ErrAssignmentClosed, core.FieldError{Field: "assignment_id", Error: ErrAssignmentClosed.Error()})
	}

	now := classroom.NowFunc()
	s := Submission{
		ID:           uuid.NewString(),
		StudentID:    studentID,
		AssignmentID: a.ID,
		Content:      ns.Content,
		FileURL:      ns.FileURL,
		Status:       SubmissionSubmitted,
		SubmittedAt:  now,
	}
	if now.After(a.DueDate) {
		s.Status = SubmissionLate
	}
	if err := svc.repo.CreateSubmission(s); err != nil {
		return Submission{}, err
	}
	return s, nil
}

func (svc *Service) GetSubmissionByID(id string) (Submission, error) {
	return svc.repo.GetSubmissionByID(id)
}

func (svc *Service) FilterSubmissions(scope policy.Scope, filter QueryFilter) ([]Submission, error) {
	filter.Clean()
	return svc.repo.FilterSubmissions(scope, filter)
}

// UpdateSubmission lets a student revise content before grading.
func (svc *Service) UpdateSubmission(id string, us UpdateSubmission) (Submission, error) {
	s, err := svc.repo.GetSubmissionByID(id)
	if err != nil {
		return Submission{}, err
	}
	if us.Content != "" {
		s.Content = us.Content
	}
	if us.FileURL.Valid {
		s.FileURL = us.FileURL
	}
	return svc.repo.UpdateSubmission(s)
}

// Grade scores a submission and refreshes the student's course performance
// rollup.
func (svc *Service) Grade(id string, gs GradeSubmission) (Submission, error) {
	s, err := svc.repo.GetSubmissionByID(id)
	if err != nil {
		return Submission{}, err
	}
	s.Score = null.Float64From(gs.Score)
	s.Feedback = gs.Feedback
	s.Status = SubmissionGraded
	s.GradedAt = null.TimeFrom(classroom.NowFunc())
	s, err = svc.repo.UpdateSubmission(s)
	if err != nil {
		return Submission{}, err
	}

	a, err := svc.repo.GetAssignmentByID(s.AssignmentID)
	if err != nil {
		return Submission{}, err
	}
	if _, err := svc.GeneratePerformance(s.StudentID, a.CourseID); err != nil {
		return Submission{}, err
	}
	return s, nil
}

// GeneratePerformance recomputes the (student, course) rollup from current
// attendance, submission, violation and focus rows and stores it.
func (svc *Service) GeneratePerformance(studentID, courseID string) (StudentPerformance, error) {
	if _, err := svc.crsSvc.GetByID(courseID); err != nil {
		return StudentPerformance{}, err
	}

	stats, err := svc.repo.PerformanceStatsFor(studentID, courseID)
	if err != nil {
		return StudentPerformance{}, err
	}
	p := StudentPerformance{
		ID:                        uuid.NewString(),
		StudentID:                 studentID,
		CourseID:                  courseID,
		TotalAttendancePercentage: stats.AttendancePercentage,
		AverageAssignmentScore:    stats.AverageScore,
		ViolationCount:            stats.ViolationCount,
		TotalFocusHours:           float64(stats.FocusMinutes) / 60,
		LastUpdated:               classroom.NowFunc(),
	}
	return svc.repo.UpsertPerformance(p)
}

func (svc *Service) GetPerformanceByID(id string) (StudentPerformance, error) {
	return svc.repo.GetPerformanceByID(id)
}

func (svc *Service) FilterPerformance(scope policy.Scope, filter QueryFilter) ([]StudentPerformance, error) {
	filter.Clean()
	return svc.repo.FilterPerformance(scope, filter)
}
