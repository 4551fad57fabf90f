package inmem

import (
	"strings"
	"time"

	"github.com/Venkatesan-2007/innertia/core/classroom"
	"github.com/Venkatesan-2007/innertia/core/policy"
	"github.com/volatiletech/null/v8"
)

type classroomRepo struct {
	db *DB
}

var _ classroom.Repository = (*classroomRepo)(nil)

func NewClassroomRepository(db *DB) classroom.Repository {
	return &classroomRepo{db: db}
}

func (repo *classroomRepo) CreateSession(s classroom.ClassSession) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.sessions[s.ID] = &s
	return nil
}

func (repo *classroomRepo) GetSessionByID(id string) (classroom.ClassSession, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if s, ok := repo.db.sessions[id]; ok {
		return *s, nil
	}
	return classroom.ClassSession{}, classroom.ErrSessionNotFound
}

func (repo *classroomRepo) FilterSessions(scope policy.Scope, filter classroom.QueryFilter) ([]classroom.ClassSession, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	ss := make([]classroom.ClassSession, 0)
	for _, s := range repo.db.sessions {
		switch {
		case scope.All:
		case scope.FacultyID != "":
			if s.FacultyID != scope.FacultyID {
				continue
			}
		case scope.StudentID != "":
			if !repo.db.enrolledIn(scope.StudentID, s.CourseID) {
				continue
			}
		default:
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(s.Topic), filter.Search) {
			continue
		}
		if filter.CourseID != "" && s.CourseID != filter.CourseID {
			continue
		}
		if filter.SessionStatus != "" && s.Status != filter.SessionStatus {
			continue
		}
		if !filter.DateFrom.IsZero() && s.SessionDate.Before(filter.DateFrom) {
			continue
		}
		if !filter.DateTo.IsZero() && s.SessionDate.After(filter.DateTo) {
			continue
		}
		ss = append(ss, *s)
	}
	return ss, nil
}

func (repo *classroomRepo) UpdateSession(s classroom.ClassSession) (classroom.ClassSession, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	existing, ok := repo.db.sessions[s.ID]
	if !ok {
		return classroom.ClassSession{}, classroom.ErrSessionNotFound
	}
	*existing = s
	return *existing, nil
}

func (repo *classroomRepo) DeleteSessionsByID(ids ...string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, id := range ids {
		delete(repo.db.sessions, id)
	}
	return nil
}

func (repo *classroomRepo) GetOrCreateAttendance(att classroom.Attendance) (classroom.Attendance, bool, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, existing := range repo.db.attendance {
		if existing.StudentID == att.StudentID && existing.SessionID == att.SessionID {
			return *existing, false, nil
		}
	}
	repo.db.attendance[att.ID] = &att
	return att, true, nil
}

func (repo *classroomRepo) GetAttendanceByID(id string) (classroom.Attendance, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if att, ok := repo.db.attendance[id]; ok {
		return *att, nil
	}
	return classroom.Attendance{}, classroom.ErrAttendanceNotFound
}

// inStudentOrSessionScope applies the shared narrowing for telemetry rows
// keyed by (student, session). Callers must hold the lock.
func (repo *classroomRepo) inStudentOrSessionScope(scope policy.Scope, studentID, sessionID string) bool {
	switch {
	case scope.All:
		return true
	case scope.FacultyID != "":
		return repo.db.sessionFaculty(sessionID) == scope.FacultyID
	case scope.StudentID != "":
		return studentID == scope.StudentID
	}
	return false
}

func (repo *classroomRepo) FilterAttendance(scope policy.Scope, filter classroom.QueryFilter) ([]classroom.Attendance, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	atts := make([]classroom.Attendance, 0)
	for _, att := range repo.db.attendance {
		if !repo.inStudentOrSessionScope(scope, att.StudentID, att.SessionID) {
			continue
		}
		if filter.SessionID != "" && att.SessionID != filter.SessionID {
			continue
		}
		if filter.StudentID != "" && att.StudentID != filter.StudentID {
			continue
		}
		if filter.AttendanceStatus != "" && att.Status != filter.AttendanceStatus {
			continue
		}
		atts = append(atts, *att)
	}
	return atts, nil
}

func (repo *classroomRepo) AttendanceBySession(sessionID string) ([]classroom.Attendance, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	atts := make([]classroom.Attendance, 0)
	for _, att := range repo.db.attendance {
		if att.SessionID == sessionID {
			atts = append(atts, *att)
		}
	}
	return atts, nil
}

func (repo *classroomRepo) UpdateAttendance(att classroom.Attendance) (classroom.Attendance, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	existing, ok := repo.db.attendance[att.ID]
	if !ok {
		return classroom.Attendance{}, classroom.ErrAttendanceNotFound
	}
	*existing = att
	return *existing, nil
}

func (repo *classroomRepo) DeleteAttendanceByID(ids ...string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, id := range ids {
		delete(repo.db.attendance, id)
	}
	return nil
}

func (repo *classroomRepo) CreateFocusLog(fl classroom.FocusLog) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.focusLogs[fl.ID] = &fl
	return nil
}

func (repo *classroomRepo) FilterFocusLogs(scope policy.Scope, filter classroom.QueryFilter) ([]classroom.FocusLog, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	fls := make([]classroom.FocusLog, 0)
	for _, fl := range repo.db.focusLogs {
		if !repo.inStudentOrSessionScope(scope, fl.StudentID, fl.SessionID) {
			continue
		}
		if filter.SessionID != "" && fl.SessionID != filter.SessionID {
			continue
		}
		if filter.StudentID != "" && fl.StudentID != filter.StudentID {
			continue
		}
		if filter.EventType != "" && fl.EventType != filter.EventType {
			continue
		}
		fls = append(fls, *fl)
	}
	return fls, nil
}

func (repo *classroomRepo) CreateViolation(v classroom.Violation) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.violations[v.ID] = &v
	return nil
}

func (repo *classroomRepo) GetViolationByID(id string) (classroom.Violation, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if v, ok := repo.db.violations[id]; ok {
		return *v, nil
	}
	return classroom.Violation{}, classroom.ErrViolationNotFound
}

func (repo *classroomRepo) FilterViolations(scope policy.Scope, filter classroom.QueryFilter) ([]classroom.Violation, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	vs := make([]classroom.Violation, 0)
	for _, v := range repo.db.violations {
		if !repo.inStudentOrSessionScope(scope, v.StudentID, v.SessionID) {
			continue
		}
		if filter.SessionID != "" && v.SessionID != filter.SessionID {
			continue
		}
		if filter.StudentID != "" && v.StudentID != filter.StudentID {
			continue
		}
		if filter.Severity != "" && v.Severity != filter.Severity {
			continue
		}
		if filter.IsResolved != nil && v.IsResolved != *filter.IsResolved {
			continue
		}
		vs = append(vs, *v)
	}
	return vs, nil
}

func (repo *classroomRepo) UpdateViolation(v classroom.Violation) (classroom.Violation, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	existing, ok := repo.db.violations[v.ID]
	if !ok {
		return classroom.Violation{}, classroom.ErrViolationNotFound
	}
	*existing = v
	return *existing, nil
}

func (repo *classroomRepo) CountViolationsBySession(sessionID string) (int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	count := 0
	for _, v := range repo.db.violations {
		if v.SessionID == sessionID {
			count++
		}
	}
	return count, nil
}

func (repo *classroomRepo) LockScreen(lock classroom.ScreenLock) (classroom.ScreenLock, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, existing := range repo.db.screenLocks {
		if existing.StudentID == lock.StudentID && existing.SessionID == lock.SessionID && existing.IsLocked {
			existing.IsLocked = false
			existing.UnlockedAt = null.TimeFrom(lock.LockedAt)
		}
	}
	repo.db.screenLocks[lock.ID] = &lock
	return lock, nil
}

func (repo *classroomRepo) UnlockScreen(studentID, sessionID string, at time.Time) (classroom.ScreenLock, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, lock := range repo.db.screenLocks {
		if lock.StudentID == studentID && lock.SessionID == sessionID && lock.IsLocked {
			lock.IsLocked = false
			lock.UnlockedAt = null.TimeFrom(at)
			return *lock, nil
		}
	}
	return classroom.ScreenLock{}, classroom.ErrLockNotFound
}

func (repo *classroomRepo) FilterScreenLocks(scope policy.Scope, filter classroom.QueryFilter) ([]classroom.ScreenLock, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	locks := make([]classroom.ScreenLock, 0)
	for _, lock := range repo.db.screenLocks {
		if !repo.inStudentOrSessionScope(scope, lock.StudentID, lock.SessionID) {
			continue
		}
		if filter.SessionID != "" && lock.SessionID != filter.SessionID {
			continue
		}
		if filter.StudentID != "" && lock.StudentID != filter.StudentID {
			continue
		}
		if filter.IsLocked != nil && lock.IsLocked != *filter.IsLocked {
			continue
		}
		locks = append(locks, *lock)
	}
	return locks, nil
}

func (repo *classroomRepo) UpsertSessionReport(r classroom.SessionReport) (classroom.SessionReport, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, existing := range repo.db.sessionReports {
		if existing.SessionID == r.SessionID {
			r.ID = existing.ID
			*existing = r
			return *existing, nil
		}
	}
	repo.db.sessionReports[r.ID] = &r
	return r, nil
}

func (repo *classroomRepo) GetSessionReportByID(id string) (classroom.SessionReport, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if r, ok := repo.db.sessionReports[id]; ok {
		return *r, nil
	}
	return classroom.SessionReport{}, classroom.ErrReportNotFound
}

func (repo *classroomRepo) FilterSessionReports(scope policy.Scope, filter classroom.QueryFilter) ([]classroom.SessionReport, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	attended := func(studentID, sessionID string) bool {
		for _, att := range repo.db.attendance {
			if att.StudentID == studentID && att.SessionID == sessionID {
				return true
			}
		}
		return false
	}

	rs := make([]classroom.SessionReport, 0)
	for _, r := range repo.db.sessionReports {
		switch {
		case scope.All:
		case scope.FacultyID != "":
			if repo.db.sessionFaculty(r.SessionID) != scope.FacultyID {
				continue
			}
		case scope.StudentID != "":
			if !attended(scope.StudentID, r.SessionID) {
				continue
			}
		default:
			continue
		}
		if filter.SessionID != "" && r.SessionID != filter.SessionID {
			continue
		}
		rs = append(rs, *r)
	}
	return rs, nil
}
