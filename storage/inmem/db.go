// Package inmem implements the domain repositories on in-process maps.
// It backs handler and service tests; it is not meant for production use.
package inmem

import (
	"sync"

	"github.com/Venkatesan-2007/innertia/core/assessment"
	"github.com/Venkatesan-2007/innertia/core/classroom"
	"github.com/Venkatesan-2007/innertia/core/college"
	"github.com/Venkatesan-2007/innertia/core/content"
	"github.com/Venkatesan-2007/innertia/core/course"
	"github.com/Venkatesan-2007/innertia/core/runner"
	"github.com/Venkatesan-2007/innertia/core/user"
)

// DB holds every table under a single lock; contention is irrelevant at
// test scale and one lock keeps the cross-table scoping queries simple.
type DB struct {
	mu sync.RWMutex

	users          map[string]*user.User
	colleges       map[string]*college.College
	programs       map[string]*college.Program
	courses        map[string]*course.Course
	enrollments    map[string]*course.Enrollment
	sessions       map[string]*classroom.ClassSession
	attendance     map[string]*classroom.Attendance
	focusLogs      map[string]*classroom.FocusLog
	violations     map[string]*classroom.Violation
	screenLocks    map[string]*classroom.ScreenLock
	sessionReports map[string]*classroom.SessionReport
	slides         map[string]*content.Slide
	notes          map[string]*content.Note
	doubts         map[string]*content.Doubt
	doubtResponses map[string]*content.DoubtResponse
	assignments    map[string]*assessment.Assignment
	submissions    map[string]*assessment.Submission
	performance    map[string]*assessment.StudentPerformance
	runs           map[string]*runner.CompilerSubmission
}

func Open() *DB {
	return &DB{
		users:          make(map[string]*user.User),
		colleges:       make(map[string]*college.College),
		programs:       make(map[string]*college.Program),
		courses:        make(map[string]*course.Course),
		enrollments:    make(map[string]*course.Enrollment),
		sessions:       make(map[string]*classroom.ClassSession),
		attendance:     make(map[string]*classroom.Attendance),
		focusLogs:      make(map[string]*classroom.FocusLog),
		violations:     make(map[string]*classroom.Violation),
		screenLocks:    make(map[string]*classroom.ScreenLock),
		sessionReports: make(map[string]*classroom.SessionReport),
		slides:         make(map[string]*content.Slide),
		notes:          make(map[string]*content.Note),
		doubts:         make(map[string]*content.Doubt),
		doubtResponses: make(map[string]*content.DoubtResponse),
		assignments:    make(map[string]*assessment.Assignment),
		submissions:    make(map[string]*assessment.Submission),
		performance:    make(map[string]*assessment.StudentPerformance),
		runs:           make(map[string]*runner.CompilerSubmission),
	}
}

// courseFaculty resolves the faculty of a course; empty string when unknown.
// Callers must hold the lock.
func (db *DB) courseFaculty(courseID string) string {
	if c, ok := db.courses[courseID]; ok {
		return c.FacultyID
	}
	return ""
}

// sessionFaculty resolves the faculty of a session; empty string when
// unknown. Callers must hold the lock.
func (db *DB) sessionFaculty(sessionID string) string {
	if s, ok := db.sessions[sessionID]; ok {
		return s.FacultyID
	}
	return ""
}

// enrolledIn reports whether the student has an active enrollment in the
// course. Callers must hold the lock.
func (db *DB) enrolledIn(studentID, courseID string) bool {
	for _, e := range db.enrollments {
		if e.StudentID == studentID && e.CourseID == courseID && e.Status == course.EnrollmentActive {
			return true
		}
	}
	return false
}
