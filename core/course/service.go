package course

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Venkatesan-2007/innertia/core"
	"github.com/Venkatesan-2007/innertia/core/policy"
	"github.com/Venkatesan-2007/innertia/core/user"
)

var (
	// errors
	ErrNotFound           = errors.New("course not found")
	ErrCodeExists         = errors.New("a course with this code already exists in this program")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrNotFaculty         = errors.New("assigned faculty must hold the faculty role")
	ErrNotStudent         = errors.New("only students can be enrolled")
	ErrFacultyTeaches     = errors.New("faculty cannot be deleted while still assigned to a course")
)

func init() {
	_ = core.Validate.RegisterValidation("enrollment_status", func(fl validator.FieldLevel) bool {
		if s, ok := fl.Field().Interface().(EnrollmentStatus); ok {
			return s.Valid()
		}
		return false
	})
	core.RegisterCustomTranslation("enrollment_status", "invalid enrollment status")
}

type (
	Repository interface {
		CreateCourse(c Course) (Course, error)
		GetCourseByID(id string) (Course, error)
		// FilterCourses narrows to the scope first; filter fields compose with AND on top.
		FilterCourses(scope policy.Scope, filter QueryFilter) ([]Course, error)
		UpdateCourse(c Course) (Course, error)
		DeleteCoursesByID(ids ...string) error

		// GetOrCreateEnrollment atomically fetches or inserts the unique
		// (student, course) row and reports whether it created it.
		GetOrCreateEnrollment(e Enrollment) (Enrollment, bool, error)
		GetEnrollmentByID(id string) (Enrollment, error)
		FilterEnrollments(scope policy.Scope, filter QueryFilter) ([]Enrollment, error)
		UpdateEnrollment(e Enrollment) (Enrollment, error)
		DeleteEnrollmentsByID(ids ...string) error
	}

	Service struct {
		repo   Repository
		usrSvc *user.Service
	}
)

func NewService(repo Repository, usrSvc *user.Service) *Service {
	return &Service{repo: repo, usrSvc: usrSvc}
}

func (svc *Service) Create(nc NewCourse) (Course, error) {
	fac, err := svc.usrSvc.GetByID(nc.FacultyID)
	if err != nil {
		if err == user.ErrNotFound {
			return Course{}, core.NewValidationError(err, core.FieldError{Field: "faculty_id", Error: err.Error()})
		}
		return Course{}, err
	}
	if !fac.IsFaculty() {
		return Course{}, core.NewValidationError(ErrNotFaculty, core.FieldError{Field: "faculty_id", Error: ErrNotFaculty.Error()})
	}

	c := Course{
		ID:          uuid.NewString(),
		Code:        nc.Code,
		Name:        nc.Name,
		Description: nc.Description,
		ProgramID:   nc.ProgramID,
		FacultyID:   nc.FacultyID,
		Semester:    nc.Semester,
		Credits:     nc.Credits,
		CreatedAt:   time.Now().UTC(),
	}
	c, err = svc.repo.CreateCourse(c)
	if err == ErrCodeExists {
		return Course{}, core.NewValidationError(err, core.FieldError{Field: "code", Error: err.Error()})
	}
	return c, err
}

func (svc *Service) GetByID(id string) (Course, error) {
	return svc.repo.GetCourseByID(id)
}

func (svc *Service) Filter(scope policy.Scope, filter QueryFilter) ([]Course, error) {
	return svc.repo.FilterCourses(scope, filter)
}

func (svc *Service) Update(id string, nc NewCourse) (Course, error) {
	return svc.repo.UpdateCourse(Course{
		ID:          id,
		Code:        nc.Code,
		Name:        nc.Name,
		Description: nc.Description,
		ProgramID:   nc.ProgramID,
		FacultyID:   nc.FacultyID,
		Semester:    nc.Semester,
		Credits:     nc.Credits,
	})
}

func (svc *Service) Delete(ids ...string) error {
	return svc.repo.DeleteCoursesByID(ids...)
}

// EnrollStudent enrolls a student in a course. Enrolling an already-enrolled
// student returns the existing row; created reports whether a new one was made.
func (svc *Service) EnrollStudent(courseID, studentID string) (Enrollment, bool, error) {
	stu, err := svc.usrSvc.GetByID(studentID)
	if err != nil {
		return Enrollment{}, false, err
	}
	if !stu.IsStudent() {
		return Enrollment{}, false, core.NewValidationError(ErrNotStudent, core.FieldError{Field: "student_id", Error: ErrNotStudent.Error()})
	}
	if _, err = svc.repo.GetCourseByID(courseID); err != nil {
		return Enrollment{}, false, err
	}

	return svc.repo.GetOrCreateEnrollment(Enrollment{
		ID:         uuid.NewString(),
		StudentID:  studentID,
		CourseID:   courseID,
		Status:     EnrollmentActive,
		EnrolledAt: time.Now().UTC(),
	})
}

// EnrolledStudents lists the active enrollments of a course.
func (svc *Service) EnrolledStudents(courseID string) ([]Enrollment, error) {
	if _, err := svc.repo.GetCourseByID(courseID); err != nil {
		return nil, err
	}
	return svc.repo.FilterEnrollments(
		policy.Scope{All: true},
		QueryFilter{CourseID: courseID, Status: EnrollmentActive},
	)
}

func (svc *Service) GetEnrollmentByID(id string) (Enrollment, error) {
	return svc.repo.GetEnrollmentByID(id)
}

func (svc *Service) FilterEnrollments(scope policy.Scope, filter QueryFilter) ([]Enrollment, error) {
	return svc.repo.FilterEnrollments(scope, filter)
}

func (svc *Service) UpdateEnrollment(id string, ue UpdateEnrollment) (Enrollment, error) {
	return svc.repo.UpdateEnrollment(Enrollment{ID: id, Status: ue.Status})
}

func (svc *Service) DeleteEnrollments(ids ...string) error {
	return svc.repo.DeleteEnrollmentsByID(ids...)
}
