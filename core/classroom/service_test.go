package classroom_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Venkatesan-2007/innertia/core"
	"github.com/Venkatesan-2007/innertia/core/classroom"
	"github.com/Venkatesan-2007/innertia/core/course"
	"github.com/Venkatesan-2007/innertia/core/user"
	emailsvc "github.com/Venkatesan-2007/innertia/services/email"
	"github.com/Venkatesan-2007/innertia/storage/inmem"
)

type testEnv struct {
	svc    *classroom.Service
	usrSvc *user.Service
	crsSvc *course.Service
}

func newTestEnv() testEnv {
	db := inmem.Open()
	usrSvc := user.NewService(inmem.NewUserRepository(db), emailsvc.NewConsoleServiceMock())
	crsSvc := course.NewService(inmem.NewCourseRepository(db), usrSvc)
	svc := classroom.NewService(inmem.NewClassroomRepository(db), usrSvc, crsSvc)
	return testEnv{svc: svc, usrSvc: usrSvc, crsSvc: crsSvc}
}

func (env testEnv) createUser(t *testing.T, uname string, role user.Role) user.User {
	t.Helper()
	usr, err := env.usrSvc.Create(user.NewUser{
		Name:     uname,
		Username: uname,
		Email:    uname + "@test.test",
		Role:     role,
		Password: "secret123",
	})
	require.NoError(t, err)
	return usr
}

func (env testEnv) createCourse(t *testing.T, facultyID string) course.Course {
	t.Helper()
	crs, err := env.crsSvc.Create(course.NewCourse{
		Code:      "cs" + uuid.NewString()[:8],
		Name:      "Data Structures",
		ProgramID: uuid.NewString(),
		FacultyID: facultyID,
		Semester:  3,
		Credits:   4,
	})
	require.NoError(t, err)
	return crs
}

func (env testEnv) createSession(t *testing.T, courseID string, dur int) classroom.ClassSession {
	t.Helper()
	s, err := env.svc.CreateSession(classroom.NewSession{
		CourseID:        courseID,
		SessionDate:     time.Now().UTC(),
		DurationMinutes: dur,
		Topic:           "Binary trees",
	})
	require.NoError(t, err)
	return s
}

func TestSessionLifecycle(t *testing.T) {
	env := newTestEnv()
	fac := env.createUser(t, "fac", user.RoleFaculty)
	crs := env.createCourse(t, fac.ID)

	s := env.createSession(t, crs.ID, 60)
	assert.Equal(t, classroom.SessionScheduled, s.Status)
	assert.Equal(t, fac.ID, s.FacultyID, "session should denormalize the course's faculty")

	// completing a scheduled session skips active and is rejected
	_, err := env.svc.EndSession(s.ID)
	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)

	s, err = env.svc.StartSession(s.ID)
	require.NoError(t, err)
	assert.Equal(t, classroom.SessionActive, s.Status)

	s, err = env.svc.EndSession(s.ID)
	require.NoError(t, err)
	assert.Equal(t, classroom.SessionCompleted, s.Status)

	// a completed session is final
	_, err = env.svc.StartSession(s.ID)
	require.ErrorAs(t, err, &vErr)

	_, err = env.svc.CreateSession(classroom.NewSession{
		CourseID:        uuid.NewString(),
		SessionDate:     time.Now().UTC(),
		DurationMinutes: 60,
		Topic:           "Ghost course",
	})
	require.ErrorAs(t, err, &vErr, "unknown course should fail validation")
}

func TestMarkAttendance(t *testing.T) {
	env := newTestEnv()
	fac := env.createUser(t, "fac", user.RoleFaculty)
	stu := env.createUser(t, "stu", user.RoleStudent)
	crs := env.createCourse(t, fac.ID)
	s := env.createSession(t, crs.ID, 60)

	att, err := env.svc.MarkAttendance(classroom.MarkAttendance{
		StudentID: stu.ID,
		SessionID: s.ID,
		Status:    classroom.AttendancePresent,
	})
	require.NoError(t, err)
	assert.True(t, att.CheckInTime.Valid)
	assert.Equal(t, 60, att.TotalMinutes)
	// no focus minutes recorded yet, so the derived status wins over the
	// caller-supplied "present"
	assert.Equal(t, classroom.AttendanceAbsent, att.Status)
	assert.Zero(t, att.AttendancePercentage)

	// marking again must not create a second record nor reset check-in
	again, err := env.svc.MarkAttendance(classroom.MarkAttendance{
		StudentID: stu.ID,
		SessionID: s.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, att.ID, again.ID)
	assert.Equal(t, att.CheckInTime, again.CheckInTime)

	_, err = env.svc.MarkAttendance(classroom.MarkAttendance{
		StudentID: fac.ID,
		SessionID: s.ID,
	})
	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr, "only students can have attendance")

	_, err = env.svc.MarkAttendance(classroom.MarkAttendance{
		StudentID: stu.ID,
		SessionID: uuid.NewString(),
	})
	assert.Equal(t, classroom.ErrSessionNotFound, err)
}

func TestUpdateAttendanceRecord(t *testing.T) {
	env := newTestEnv()
	fac := env.createUser(t, "fac", user.RoleFaculty)
	stu := env.createUser(t, "stu", user.RoleStudent)
	crs := env.createCourse(t, fac.ID)
	s := env.createSession(t, crs.ID, 60)

	att, err := env.svc.MarkAttendance(classroom.MarkAttendance{StudentID: stu.ID, SessionID: s.ID})
	require.NoError(t, err)

	tests := []struct {
		name       string
		activeMins int
		wantPct    float64
		wantStatus classroom.AttendanceStatus
	}{
		{name: "focused most of the session", activeMins: 48, wantPct: 80, wantStatus: classroom.AttendancePresent},
		{name: "focused half the session", activeMins: 33, wantPct: 55, wantStatus: classroom.AttendanceLate},
		{name: "barely focused", activeMins: 6, wantPct: 10, wantStatus: classroom.AttendanceAbsent},
		{name: "over-reported minutes clamp", activeMins: 90, wantPct: 100, wantStatus: classroom.AttendancePresent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := env.svc.UpdateAttendanceRecord(att.ID, classroom.UpdateAttendance{ActiveMinutes: tt.activeMins})
			require.NoError(t, err)
			assert.Equal(t, tt.wantPct, got.AttendancePercentage)
			assert.Equal(t, tt.wantStatus, got.Status)
		})
	}

	_, err = env.svc.UpdateAttendanceRecord(uuid.NewString(), classroom.UpdateAttendance{ActiveMinutes: 10})
	assert.Equal(t, classroom.ErrAttendanceNotFound, err)
}

func TestGenerateSessionReport(t *testing.T) {
	env := newTestEnv()
	fac := env.createUser(t, "fac", user.RoleFaculty)
	crs := env.createCourse(t, fac.ID)
	s := env.createSession(t, crs.ID, 60)

	students := []struct {
		uname      string
		activeMins int
	}{
		{uname: "alice", activeMins: 54}, // 90%, present
		{uname: "bob", activeMins: 33},   // 55%, late
		{uname: "carol", activeMins: 6},  // 10%, absent
	}
	for _, st := range students {
		stu := env.createUser(t, st.uname, user.RoleStudent)
		att, err := env.svc.MarkAttendance(classroom.MarkAttendance{StudentID: stu.ID, SessionID: s.ID})
		require.NoError(t, err)
		_, err = env.svc.UpdateAttendanceRecord(att.ID, classroom.UpdateAttendance{ActiveMinutes: st.activeMins})
		require.NoError(t, err)
	}

	report, err := env.svc.GenerateSessionReport(s.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalStudents)
	assert.Equal(t, 1, report.PresentCount, "a late student is neither present nor absent")
	assert.Equal(t, 1, report.AbsentCount)
	assert.InDelta(t, (90.0+55+10)/3, report.AverageAttendancePercentage, 0.001)
	assert.Equal(t, 54+33+6, report.FocusDurationMinutes)
	assert.Zero(t, report.ViolationCount)

	// regenerating without new data replaces the stored report in place
	again, err := env.svc.GenerateSessionReport(s.ID)
	require.NoError(t, err)
	assert.Equal(t, report.ID, again.ID)
	assert.Equal(t, report.TotalStudents, again.TotalStudents)

	_, err = env.svc.GenerateSessionReport(uuid.NewString())
	assert.Equal(t, classroom.ErrSessionNotFound, err)
}

func TestFocusLogs(t *testing.T) {
	env := newTestEnv()
	fac := env.createUser(t, "fac", user.RoleFaculty)
	stu := env.createUser(t, "stu", user.RoleStudent)
	crs := env.createCourse(t, fac.ID)
	s := env.createSession(t, crs.ID, 60)

	// focus events are only accepted while the session runs
	_, err := env.svc.LogFocusEvent(stu.ID, classroom.NewFocusLog{
		SessionID: s.ID,
		EventType: classroom.AltTab,
	})
	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)

	_, err = env.svc.StartSession(s.ID)
	require.NoError(t, err)

	fl, err := env.svc.LogFocusEvent(stu.ID, classroom.NewFocusLog{
		SessionID: s.ID,
		EventType: classroom.AltTab,
	})
	require.NoError(t, err)
	assert.Equal(t, stu.ID, fl.StudentID)
	assert.False(t, fl.Timestamp.IsZero())
}

func TestViolations(t *testing.T) {
	env := newTestEnv()
	fac := env.createUser(t, "fac", user.RoleFaculty)
	stu := env.createUser(t, "stu", user.RoleStudent)
	crs := env.createCourse(t, fac.ID)
	s := env.createSession(t, crs.ID, 60)

	v, err := env.svc.ReportViolation(classroom.NewViolation{
		StudentID:     stu.ID,
		SessionID:     s.ID,
		ViolationType: "tab_switch",
		Severity:      classroom.SeverityHigh,
	})
	require.NoError(t, err)
	assert.False(t, v.IsResolved)

	v, err = env.svc.ResolveViolation(v.ID, classroom.ResolveViolation{ResolutionNotes: "warned the student"})
	require.NoError(t, err)
	assert.True(t, v.IsResolved)
	assert.Equal(t, "warned the student", v.ResolutionNotes)

	// resolving again only refreshes the notes
	v, err = env.svc.ResolveViolation(v.ID, classroom.ResolveViolation{ResolutionNotes: "second warning"})
	require.NoError(t, err)
	assert.True(t, v.IsResolved)
	assert.Equal(t, "second warning", v.ResolutionNotes)

	report, err := env.svc.GenerateSessionReport(s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, report.ViolationCount)
}

func TestScreenLocks(t *testing.T) {
	env := newTestEnv()
	fac := env.createUser(t, "fac", user.RoleFaculty)
	stu := env.createUser(t, "stu", user.RoleStudent)
	crs := env.createCourse(t, fac.ID)
	s := env.createSession(t, crs.ID, 60)

	_, err := env.svc.Unlock(classroom.UnlockScreen{StudentID: stu.ID, SessionID: s.ID})
	assert.Equal(t, classroom.ErrLockNotFound, err)

	first, err := env.svc.Lock(fac, classroom.LockScreen{
		StudentID: stu.ID,
		SessionID: s.ID,
		Reason:    "repeated tab switching",
	})
	require.NoError(t, err)
	assert.True(t, first.IsLocked)
	assert.Equal(t, fac.ID, first.LockedByID.String)

	// a second lock supersedes the first so only one stays active
	second, err := env.svc.Lock(fac, classroom.LockScreen{StudentID: stu.ID, SessionID: s.ID})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	unlocked, err := env.svc.Unlock(classroom.UnlockScreen{StudentID: stu.ID, SessionID: s.ID})
	require.NoError(t, err)
	assert.Equal(t, second.ID, unlocked.ID)
	assert.False(t, unlocked.IsLocked)
	assert.True(t, unlocked.UnlockedAt.Valid)

	_, err = env.svc.Unlock(classroom.UnlockScreen{StudentID: stu.ID, SessionID: s.ID})
	assert.Equal(t, classroom.ErrLockNotFound, err)
}
