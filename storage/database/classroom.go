package database

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Venkatesan-2007/innertia/core/classroom"
	"github.com/Venkatesan-2007/innertia/core/course"
	"github.com/Venkatesan-2007/innertia/core/policy"
)

type classroomRepo struct {
	db *gorm.DB
}

var _ classroom.Repository = (*classroomRepo)(nil)

func NewClassroomRepository(db *gorm.DB) classroom.Repository {
	return &classroomRepo{db: db}
}

func (repo *classroomRepo) CreateSession(s classroom.ClassSession) error {
	return repo.db.Create(&s).Error
}

func (repo *classroomRepo) GetSessionByID(id string) (classroom.ClassSession, error) {
	var s classroom.ClassSession
	err := repo.db.First(&s, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return classroom.ClassSession{}, classroom.ErrSessionNotFound
	}
	return s, err
}

func (repo *classroomRepo) scopeSessions(scope policy.Scope) *gorm.DB {
	q := repo.db.Model(&classroom.ClassSession{})
	switch {
	case scope.All:
		return q
	case scope.FacultyID != "":
		return q.Where("class_sessions.faculty_id = ?", scope.FacultyID)
	case scope.StudentID != "":
		// students see sessions of courses they are actively enrolled in
		return q.Joins("JOIN enrollments ON enrollments.course_id = class_sessions.course_id").
			Where("enrollments.student_id = ? AND enrollments.status = ?", scope.StudentID, course.EnrollmentActive)
	}
	return none(q)
}

func (repo *classroomRepo) FilterSessions(scope policy.Scope, filter classroom.QueryFilter) ([]classroom.ClassSession, error) {
	q := repo.scopeSessions(scope)
	if filter.Search != "" {
		needle := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("LOWER(class_sessions.topic) LIKE ?", needle)
	}
	if filter.CourseID != "" {
		q = q.Where("class_sessions.course_id = ?", filter.CourseID)
	}
	if filter.SessionStatus != "" {
		q = q.Where("class_sessions.status = ?", filter.SessionStatus)
	}
	if !filter.DateFrom.IsZero() {
		q = q.Where("class_sessions.session_date >= ?", filter.DateFrom)
	}
	if !filter.DateTo.IsZero() {
		q = q.Where("class_sessions.session_date <= ?", filter.DateTo)
	}

	var ss []classroom.ClassSession
	err := q.Order("class_sessions.session_date DESC").Find(&ss).Error
	return ss, err
}

func (repo *classroomRepo) UpdateSession(s classroom.ClassSession) (classroom.ClassSession, error) {
	res := repo.db.Model(&classroom.ClassSession{}).Where("id = ?", s.ID).Updates(&s)
	if res.Error != nil {
		return classroom.ClassSession{}, res.Error
	}
	if res.RowsAffected == 0 {
		return classroom.ClassSession{}, classroom.ErrSessionNotFound
	}
	return repo.GetSessionByID(s.ID)
}

func (repo *classroomRepo) DeleteSessionsByID(ids ...string) error {
	return repo.db.Delete(&classroom.ClassSession{}, "id IN ?", ids).Error
}

func (repo *classroomRepo) GetOrCreateAttendance(att classroom.Attendance) (classroom.Attendance, bool, error) {
	created := false
	err := repo.db.Transaction(func(tx *gorm.DB) error {
		var existing classroom.Attendance
		err := tx.Where("student_id = ? AND session_id = ?", att.StudentID, att.SessionID).First(&existing).Error
		if err == nil {
			att = existing
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := tx.Create(&att).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return classroom.Attendance{}, false, err
	}
	return att, created, nil
}

func (repo *classroomRepo) GetAttendanceByID(id string) (classroom.Attendance, error) {
	var att classroom.Attendance
	err := repo.db.First(&att, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return classroom.Attendance{}, classroom.ErrAttendanceNotFound
	}
	return att, err
}

func (repo *classroomRepo) scopeByStudentOrFacultySession(q *gorm.DB, scope policy.Scope, table string) *gorm.DB {
	switch {
	case scope.All:
		return q
	case scope.FacultyID != "":
		return q.Joins("JOIN class_sessions ON class_sessions.id = "+table+".session_id").
			Where("class_sessions.faculty_id = ?", scope.FacultyID)
	case scope.StudentID != "":
		return q.Where(table+".student_id = ?", scope.StudentID)
	}
	return none(q)
}

func (repo *classroomRepo) FilterAttendance(scope policy.Scope, filter classroom.QueryFilter) ([]classroom.Attendance, error) {
	q := repo.scopeByStudentOrFacultySession(repo.db.Model(&classroom.Attendance{}), scope, "attendance")
	if filter.SessionID != "" {
		q = q.Where("attendance.session_id = ?", filter.SessionID)
	}
	if filter.StudentID != "" {
		q = q.Where("attendance.student_id = ?", filter.StudentID)
	}
	if filter.AttendanceStatus != "" {
		q = q.Where("attendance.status = ?", filter.AttendanceStatus)
	}

	var atts []classroom.Attendance
	err := q.Order("attendance.recorded_at DESC").Find(&atts).Error
	return atts, err
}

func (repo *classroomRepo) AttendanceBySession(sessionID string) ([]classroom.Attendance, error) {
	var atts []classroom.Attendance
	err := repo.db.Where("session_id = ?", sessionID).Find(&atts).Error
	return atts, err
}

func (repo *classroomRepo) UpdateAttendance(att classroom.Attendance) (classroom.Attendance, error) {
	// Select forces zero-valued aggregates (0 minutes, absent status) through
	res := repo.db.Model(&classroom.Attendance{}).Where("id = ?", att.ID).
		Select("status", "active_minutes", "total_minutes", "attendance_percentage", "check_out_time").
		Updates(&att)
	if res.Error != nil {
		return classroom.Attendance{}, res.Error
	}
	if res.RowsAffected == 0 {
		return classroom.Attendance{}, classroom.ErrAttendanceNotFound
	}
	return repo.GetAttendanceByID(att.ID)
}

func (repo *classroomRepo) DeleteAttendanceByID(ids ...string) error {
	return repo.db.Delete(&classroom.Attendance{}, "id IN ?", ids).Error
}

func (repo *classroomRepo) CreateFocusLog(fl classroom.FocusLog) error {
	return repo.db.Create(&fl).Error
}

func (repo *classroomRepo) FilterFocusLogs(scope policy.Scope, filter classroom.QueryFilter) ([]classroom.FocusLog, error) {
	q := repo.scopeByStudentOrFacultySession(repo.db.Model(&classroom.FocusLog{}), scope, "focus_logs")
	if filter.SessionID != "" {
		q = q.Where("focus_logs.session_id = ?", filter.SessionID)
	}
	if filter.StudentID != "" {
		q = q.Where("focus_logs.student_id = ?", filter.StudentID)
	}
	if filter.EventType != "" {
		q = q.Where("focus_logs.event_type = ?", filter.EventType)
	}

	var fls []classroom.FocusLog
	err := q.Order("focus_logs.timestamp DESC").Find(&fls).Error
	return fls, err
}

func (repo *classroomRepo) CreateViolation(v classroom.Violation) error {
	return repo.db.Create(&v).Error
}

func (repo *classroomRepo) GetViolationByID(id string) (classroom.Violation, error) {
	var v classroom.Violation
	err := repo.db.First(&v, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return classroom.Violation{}, classroom.ErrViolationNotFound
	}
	return v, err
}

func (repo *classroomRepo) FilterViolations(scope policy.Scope, filter classroom.QueryFilter) ([]classroom.Violation, error) {
	q := repo.scopeByStudentOrFacultySession(repo.db.Model(&classroom.Violation{}), scope, "violations")
	if filter.SessionID != "" {
		q = q.Where("violations.session_id = ?", filter.SessionID)
	}
	if filter.StudentID != "" {
		q = q.Where("violations.student_id = ?", filter.StudentID)
	}
	if filter.Severity != "" {
		q = q.Where("violations.severity = ?", filter.Severity)
	}
	if filter.IsResolved != nil {
		q = q.Where("violations.is_resolved = ?", *filter.IsResolved)
	}

	var vs []classroom.Violation
	err := q.Order("violations.timestamp DESC").Find(&vs).Error
	return vs, err
}

func (repo *classroomRepo) UpdateViolation(v classroom.Violation) (classroom.Violation, error) {
	res := repo.db.Model(&classroom.Violation{}).Where("id = ?", v.ID).
		Select("is_resolved", "resolution_notes").
		Updates(&v)
	if res.Error != nil {
		return classroom.Violation{}, res.Error
	}
	if res.RowsAffected == 0 {
		return classroom.Violation{}, classroom.ErrViolationNotFound
	}
	return repo.GetViolationByID(v.ID)
}

func (repo *classroomRepo) CountViolationsBySession(sessionID string) (int, error) {
	var count int64
	err := repo.db.Model(&classroom.Violation{}).Where("session_id = ?", sessionID).Count(&count).Error
	return int(count), err
}

func (repo *classroomRepo) LockScreen(lock classroom.ScreenLock) (classroom.ScreenLock, error) {
	err := repo.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&classroom.ScreenLock{}).
			Where("student_id = ? AND session_id = ? AND is_locked = ?", lock.StudentID, lock.SessionID, true).
			Updates(map[string]interface{}{"is_locked": false, "unlocked_at": lock.LockedAt}).Error
		if err != nil {
			return err
		}
		return tx.Create(&lock).Error
	})
	if err != nil {
		return classroom.ScreenLock{}, err
	}
	return lock, nil
}

func (repo *classroomRepo) UnlockScreen(studentID, sessionID string, at time.Time) (classroom.ScreenLock, error) {
	var lock classroom.ScreenLock
	err := repo.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("student_id = ? AND session_id = ? AND is_locked = ?", studentID, sessionID, true).
			First(&lock).Error
		if err == gorm.ErrRecordNotFound {
			return classroom.ErrLockNotFound
		}
		if err != nil {
			return err
		}
		return tx.Model(&lock).Updates(map[string]interface{}{"is_locked": false, "unlocked_at": at}).Error
	})
	if err != nil {
		return classroom.ScreenLock{}, err
	}
	return repo.getLockByID(lock.ID)
}

func (repo *classroomRepo) getLockByID(id string) (classroom.ScreenLock, error) {
	var lock classroom.ScreenLock
	err := repo.db.First(&lock, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return classroom.ScreenLock{}, classroom.ErrLockNotFound
	}
	return lock, err
}

func (repo *classroomRepo) FilterScreenLocks(scope policy.Scope, filter classroom.QueryFilter) ([]classroom.ScreenLock, error) {
	q := repo.scopeByStudentOrFacultySession(repo.db.Model(&classroom.ScreenLock{}), scope, "screen_locks")
	if filter.SessionID != "" {
		q = q.Where("screen_locks.session_id = ?", filter.SessionID)
	}
	if filter.StudentID != "" {
		q = q.Where("screen_locks.student_id = ?", filter.StudentID)
	}
	if filter.IsLocked != nil {
		q = q.Where("screen_locks.is_locked = ?", *filter.IsLocked)
	}

	var locks []classroom.ScreenLock
	err := q.Order("screen_locks.locked_at DESC").Find(&locks).Error
	return locks, err
}

func (repo *classroomRepo) UpsertSessionReport(r classroom.SessionReport) (classroom.SessionReport, error) {
	err := repo.db.Transaction(func(tx *gorm.DB) error {
		var existing classroom.SessionReport
		err := tx.Where("session_id = ?", r.SessionID).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			return tx.Create(&r).Error
		}
		if err != nil {
			return err
		}
		r.ID = existing.ID
		return tx.Model(&classroom.SessionReport{}).Where("id = ?", r.ID).
			Select("total_students", "present_count", "absent_count",
				"average_attendance_percentage", "violation_count",
				"focus_duration_minutes", "generated_at").
			Updates(&r).Error
	})
	if err != nil {
		return classroom.SessionReport{}, err
	}
	return r, nil
}

func (repo *classroomRepo) GetSessionReportByID(id string) (classroom.SessionReport, error) {
	var r classroom.SessionReport
	err := repo.db.First(&r, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return classroom.SessionReport{}, classroom.ErrReportNotFound
	}
	return r, err
}

func (repo *classroomRepo) FilterSessionReports(scope policy.Scope, filter classroom.QueryFilter) ([]classroom.SessionReport, error) {
	q := repo.db.Model(&classroom.SessionReport{})
	switch {
	case scope.All:
	case scope.FacultyID != "":
		q = q.Joins("JOIN class_sessions ON class_sessions.id = session_reports.session_id").
			Where("class_sessions.faculty_id = ?", scope.FacultyID)
	case scope.StudentID != "":
		// students see reports for sessions they attended
		q = q.Joins("JOIN attendance ON attendance.session_id = session_reports.session_id").
			Where("attendance.student_id = ?", scope.StudentID)
	default:
		q = none(q)
	}
	if filter.SessionID != "" {
		q = q.Where("session_reports.session_id = ?", filter.SessionID)
	}

	var rs []classroom.SessionReport
	err := q.Order("session_reports.generated_at DESC").Find(&rs).Error
	return rs, err
}
