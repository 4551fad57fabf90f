package classroom

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/Venkatesan-2007/innertia/core"
	"github.com/Venkatesan-2007/innertia/core/course"
	"github.com/Venkatesan-2007/innertia/core/policy"
	"github.com/Venkatesan-2007/innertia/core/user"
)

var (
	ErrSessionNotFound    = errors.New("class session not found")
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrViolationNotFound  = errors.New("violation not found")
	ErrReportNotFound     = errors.New("session report not found")
	ErrLockNotFound       = errors.New("no active screen lock for this student and session")
	ErrSessionNotActive   = errors.New("session is not active")

	// NowFunc returns the current time. It is a variable so tests can pin it.
	NowFunc = time.Now
)

type Repository interface {
	CreateSession(s ClassSession) error
	GetSessionByID(id string) (ClassSession, error)
	FilterSessions(scope policy.Scope, filter QueryFilter) ([]ClassSession, error)
	UpdateSession(s ClassSession) (ClassSession, error)
	DeleteSessionsByID(ids ...string) error

	// GetOrCreateAttendance inserts att if no record exists for its
	// (student, session) pair, otherwise returns the existing record.
	// The bool reports whether a new record was created.
	GetOrCreateAttendance(att Attendance) (Attendance, bool, error)
	GetAttendanceByID(id string) (Attendance, error)
	FilterAttendance(scope policy.Scope, filter QueryFilter) ([]Attendance, error)
	AttendanceBySession(sessionID string) ([]Attendance, error)
	UpdateAttendance(att Attendance) (Attendance, error)
	DeleteAttendanceByID(ids ...string) error

	CreateFocusLog(fl FocusLog) error
	FilterFocusLogs(scope policy.Scope, filter QueryFilter) ([]FocusLog, error)

	CreateViolation(v Violation) error
	GetViolationByID(id string) (Violation, error)
	FilterViolations(scope policy.Scope, filter QueryFilter) ([]Violation, error)
	UpdateViolation(v Violation) (Violation, error)
	CountViolationsBySession(sessionID string) (int, error)

	// LockScreen releases any active lock for the (student, session) pair
	// and inserts the new lock in one transaction.
	LockScreen(lock ScreenLock) (ScreenLock, error)
	// UnlockScreen marks the active lock released; ErrLockNotFound when
	// no lock is currently held.
	UnlockScreen(studentID, sessionID string, at time.Time) (ScreenLock, error)
	FilterScreenLocks(scope policy.Scope, filter QueryFilter) ([]ScreenLock, error)

	// UpsertSessionReport replaces the report for r.SessionID, inserting
	// on first generation.
	UpsertSessionReport(r SessionReport) (SessionReport, error)
	GetSessionReportByID(id string) (SessionReport, error)
	FilterSessionReports(scope policy.Scope, filter QueryFilter) ([]SessionReport, error)
}

type Service struct {
	repo   Repository
	usrSvc *user.Service
	crsSvc *course.Service
}

func NewService(repo Repository, usrSvc *user.Service, crsSvc *course.Service) *Service {
	return &Service{repo: repo, usrSvc: usrSvc, crsSvc: crsSvc}
}

// CreateSession schedules a session for a course. The session denormalizes
// the course's faculty so row scoping never needs an extra join hop.
func (svc *Service) CreateSession(ns NewSession) (ClassSession, error) {
	crs, err := svc.crsSvc.GetByID(ns.CourseID)
	if err != nil {
		if err == course.ErrNotFound {
			return ClassSession{}, core.NewValidationError(err, core.FieldError{Field: "course_id", Error: err.Error()})
		}
		return ClassSession{}, err
	}

	s := ClassSession{
		ID:              uuid.NewString(),
		CourseID:        crs.ID,
		FacultyID:       crs.FacultyID,
		SessionDate:     ns.SessionDate,
		DurationMinutes: ns.DurationMinutes,
		Topic:           ns.Topic,
		Status:          SessionScheduled,
		SessionNotes:    ns.SessionNotes,
	}
	if err := svc.repo.CreateSession(s); err != nil {
		return ClassSession{}, err
	}
	return s, nil
}

func (svc *Service) GetSessionByID(id string) (ClassSession, error) {
	return svc.repo.GetSessionByID(id)
}

func (svc *Service) FilterSessions(scope policy.Scope, filter QueryFilter) ([]ClassSession, error) {
	filter.Clean()
	return svc.repo.FilterSessions(scope, filter)
}

func (svc *Service) UpdateSession(id string, us UpdateSession) (ClassSession, error) {
	s, err := svc.repo.GetSessionByID(id)
	if err != nil {
		return ClassSession{}, err
	}
	if !us.SessionDate.IsZero() {
		s.SessionDate = us.SessionDate
	}
	if us.DurationMinutes > 0 {
		s.DurationMinutes = us.DurationMinutes
	}
	if us.Topic != "" {
		s.Topic = us.Topic
	}
	if us.SessionNotes != "" {
		s.SessionNotes = us.SessionNotes
	}
	if us.Status != "" && us.Status != s.Status {
		if !s.Status.CanTransition(us.Status) {
			return ClassSession{}, invalidTransition(s.Status, us.Status)
		}
		s.Status = us.Status
	}
	return svc.repo.UpdateSession(s)
}

// StartSession moves a scheduled session to active.
func (svc *Service) StartSession(id string) (ClassSession, error) {
	return svc.transitionSession(id, SessionActive)
}

// EndSession moves an active session to completed.
func (svc *Service) EndSession(id string) (ClassSession, error) {
	return svc.transitionSession(id, SessionCompleted)
}

func (svc *Service) transitionSession(id string, next SessionStatus) (ClassSession, error) {
	s, err := svc.repo.GetSessionByID(id)
	if err != nil {
		return ClassSession{}, err
	}
	if !s.Status.CanTransition(next) {
		return ClassSession{}, invalidTransition(s.Status, next)
	}
	s.Status = next
	return svc.repo.UpdateSession(s)
}

func invalidTransition(from, to SessionStatus) error {
	err := errors.Errorf("cannot transition session from %s to %s", from, to)
	return core.NewValidationError(err, core.FieldError{Field: "status", Error: err.Error()})
}

func (svc *Service) DeleteSessions(ids ...string) error {
	return svc.repo.DeleteSessionsByID(ids...)
}

// LogFocusEvent appends a focus telemetry event for the given student. The
// session must exist and be active.
func (svc *Service) LogFocusEvent(studentID string, nf NewFocusLog) (FocusLog, error) {
	s, err := svc.repo.GetSessionByID(nf.SessionID)
	if err != nil {
		if err == ErrSessionNotFound {
			return FocusLog{}, core.NewValidationError(err, core.FieldError{Field: "session_id", Error: err.Error()})
		}
		return FocusLog{}, err
	}
	if s.Status != SessionActive {
		return FocusLog{}, core.NewValidationError(ErrSessionNotActive, core.FieldError{Field: "session_id", Error: ErrSessionNotActive.Error()})
	}

	fl := FocusLog{
		ID:        uuid.NewString(),
		StudentID: studentID,
		SessionID: s.ID,
		EventType: nf.EventType,
		Timestamp: NowFunc(),
		Metadata:  nf.Metadata,
	}
	if err := svc.repo.CreateFocusLog(fl); err != nil {
		return FocusLog{}, err
	}
	return fl, nil
}

func (svc *Service) FilterFocusLogs(scope policy.Scope, filter QueryFilter) ([]FocusLog, error) {
	filter.Clean()
	return svc.repo.FilterFocusLogs(scope, filter)
}

func (svc *Service) ReportViolation(nv NewViolation) (Violation, error) {
	if _, err := svc.repo.GetSessionByID(nv.SessionID); err != nil {
		if err == ErrSessionNotFound {
			return Violation{}, core.NewValidationError(err, core.FieldError{Field: "session_id", Error: err.Error()})
		}
		return Violation{}, err
	}
	if err := svc.checkStudent(nv.StudentID); err != nil {
		return Violation{}, err
	}

	v := Violation{
		ID:            uuid.NewString(),
		StudentID:     nv.StudentID,
		SessionID:     nv.SessionID,
		ViolationType: nv.ViolationType,
		Severity:      nv.Severity,
		Description:   nv.Description,
		Timestamp:     NowFunc(),
	}
	if err := svc.repo.CreateViolation(v); err != nil {
		return Violation{}, err
	}
	return v, nil
}

func (svc *Service) GetViolationByID(id string) (Violation, error) {
	return svc.repo.GetViolationByID(id)
}

func (svc *Service) FilterViolations(scope policy.Scope, filter QueryFilter) ([]Violation, error) {
	filter.Clean()
	return svc.repo.FilterViolations(scope, filter)
}

// ResolveViolation marks a violation handled. Resolving an already resolved
// violation only refreshes the notes.
func (svc *Service) ResolveViolation(id string, rv ResolveViolation) (Violation, error) {
	v, err := svc.repo.GetViolationByID(id)
	if err != nil {
		return Violation{}, err
	}
	v.IsResolved = true
	v.ResolutionNotes = rv.ResolutionNotes
	return svc.repo.UpdateViolation(v)
}

// Lock imposes a screen lock on a student for a session. Any lock already
// held for the pair is released first so a single lock is active at a time.
func (svc *Service) Lock(lockedBy user.User, ls LockScreen) (ScreenLock, error) {
	if _, err := svc.repo.GetSessionByID(ls.SessionID); err != nil {
		if err == ErrSessionNotFound {
			return ScreenLock{}, core.NewValidationError(err, core.FieldError{Field: "session_id", Error: err.Error()})
		}
		return ScreenLock{}, err
	}
	if err := svc.checkStudent(ls.StudentID); err != nil {
		return ScreenLock{}, err
	}

	lock := ScreenLock{
		ID:         uuid.NewString(),
		StudentID:  ls.StudentID,
		SessionID:  ls.SessionID,
		LockedByID: null.StringFrom(lockedBy.ID),
		IsLocked:   true,
		LockedAt:   NowFunc(),
		Reason:     ls.Reason,
	}
	return svc.repo.LockScreen(lock)
}

// Unlock releases the active lock for the pair. ErrLockNotFound when the
// student is not currently locked.
func (svc *Service) Unlock(us UnlockScreen) (ScreenLock, error) {
	return svc.repo.UnlockScreen(us.StudentID, us.SessionID, NowFunc())
}

func (svc *Service) FilterScreenLocks(scope policy.Scope, filter QueryFilter) ([]ScreenLock, error) {
	filter.Clean()
	return svc.repo.FilterScreenLocks(scope, filter)
}

func (svc *Service) checkStudent(id string) error {
	usr, err := svc.usrSvc.GetByID(id)
	if err != nil {
		if err == user.ErrNotFound {
			return core.NewValidationError(err, core.FieldError{Field: "student_id", Error: err.Error()})
		}
		return err
	}
	if !usr.IsStudent() {
		err := errors.New("referenced user is not a student")
		return core.NewValidationError(err, core.FieldError{Field: "student_id", Error: err.Error()})
	}
	return nil
}
