package assessment_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Venkatesan-2007/innertia/core"
	"github.com/Venkatesan-2007/innertia/core/assessment"
	"github.com/Venkatesan-2007/innertia/core/classroom"
	"github.com/Venkatesan-2007/innertia/core/course"
	"github.com/Venkatesan-2007/innertia/core/policy"
	"github.com/Venkatesan-2007/innertia/core/user"
	emailsvc "github.com/Venkatesan-2007/innertia/services/email"
	"github.com/Venkatesan-2007/innertia/storage/inmem"
)

type testEnv struct {
	svc    *assessment.Service
	usrSvc *user.Service
	crsSvc *course.Service
	clsSvc *classroom.Service
}

func newTestEnv() testEnv {
	db := inmem.Open()
	usrSvc := user.NewService(inmem.NewUserRepository(db), emailsvc.NewConsoleServiceMock())
	crsSvc := course.NewService(inmem.NewCourseRepository(db), usrSvc)
	clsSvc := classroom.NewService(inmem.NewClassroomRepository(db), usrSvc, crsSvc)
	svc := assessment.NewService(inmem.NewAssessmentRepository(db), crsSvc)
	return testEnv{svc: svc, usrSvc: usrSvc, crsSvc: crsSvc, clsSvc: clsSvc}
}

func (env testEnv) fixtures(t *testing.T) (user.User, user.User, course.Course) {
	t.Helper()
	fac, err := env.usrSvc.Create(user.NewUser{
		Name: "fac", Username: "fac", Email: "fac@test.test", Role: user.RoleFaculty, Password: "secret123",
	})
	require.NoError(t, err)
	stu, err := env.usrSvc.Create(user.NewUser{
		Name: "stu", Username: "stu", Email: "stu@test.test", Role: user.RoleStudent, Password: "secret123",
	})
	require.NoError(t, err)
	crs, err := env.crsSvc.Create(course.NewCourse{
		Code: "cs101", Name: "Introduction to Programming",
		ProgramID: uuid.NewString(), FacultyID: fac.ID, Semester: 1,
	})
	require.NoError(t, err)
	return fac, stu, crs
}

func (env testEnv) createAssignment(t *testing.T, courseID string, due time.Time, status assessment.AssignmentStatus) assessment.Assignment {
	t.Helper()
	a, err := env.svc.CreateAssignment(assessment.NewAssignment{
		CourseID: courseID,
		Title:    "Problem set 1",
		DueDate:  due,
		Status:   status,
		MaxScore: 100,
	})
	require.NoError(t, err)
	return a
}

func TestCreateAssignment(t *testing.T) {
	env := newTestEnv()
	_, _, crs := env.fixtures(t)

	a := env.createAssignment(t, crs.ID, time.Now().Add(24*time.Hour), assessment.AssignmentPublished)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, crs.ID, a.CourseID)

	_, err := env.svc.CreateAssignment(assessment.NewAssignment{
		CourseID: uuid.NewString(),
		Title:    "Orphan",
		DueDate:  time.Now(),
	})
	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr, "unknown course should fail validation")
}

func TestSubmit(t *testing.T) {
	env := newTestEnv()
	_, stu, crs := env.fixtures(t)

	open := env.createAssignment(t, crs.ID, time.Now().Add(24*time.Hour), assessment.AssignmentPublished)

	s, err := env.svc.Submit(stu.ID, assessment.NewSubmission{
		AssignmentID: open.ID,
		Content:      "my answer",
	})
	require.NoError(t, err)
	assert.Equal(t, assessment.SubmissionSubmitted, s.Status)
	assert.False(t, s.Score.Valid)

	// one submission per student per assignment
	_, err = env.svc.Submit(stu.ID, assessment.NewSubmission{AssignmentID: open.ID, Content: "again"})
	assert.Equal(t, assessment.ErrSubmissionExists, err)

	// past the due date submissions are accepted but flagged
	overdue := env.createAssignment(t, crs.ID, time.Now().Add(-time.Hour), assessment.AssignmentPublished)
	late, err := env.svc.Submit(stu.ID, assessment.NewSubmission{AssignmentID: overdue.ID, Content: "sorry"})
	require.NoError(t, err)
	assert.Equal(t, assessment.SubmissionLate, late.Status)

	// closed assignments reject outright
	closed := env.createAssignment(t, crs.ID, time.Now().Add(24*time.Hour), assessment.AssignmentClosed)
	_, err = env.svc.Submit(stu.ID, assessment.NewSubmission{AssignmentID: closed.ID, Content: "too late"})
	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, assessment.ErrAssignmentClosed, vErr.Err)

	_, err = env.svc.Submit(stu.ID, assessment.NewSubmission{AssignmentID: uuid.NewString(), Content: "x"})
	require.ErrorAs(t, err, &vErr)
}

func TestGradeRefreshesPerformance(t *testing.T) {
	env := newTestEnv()
	_, stu, crs := env.fixtures(t)
	a := env.createAssignment(t, crs.ID, time.Now().Add(24*time.Hour), assessment.AssignmentPublished)

	s, err := env.svc.Submit(stu.ID, assessment.NewSubmission{AssignmentID: a.ID, Content: "my answer"})
	require.NoError(t, err)

	s, err = env.svc.Grade(s.ID, assessment.GradeSubmission{Score: 85, Feedback: "solid work"})
	require.NoError(t, err)
	assert.Equal(t, assessment.SubmissionGraded, s.Status)
	assert.Equal(t, 85.0, s.Score.Float64)
	assert.True(t, s.GradedAt.Valid)

	perf, err := env.svc.FilterPerformance(policy.Scope{StudentID: stu.ID}, assessment.QueryFilter{CourseID: crs.ID})
	require.NoError(t, err)
	require.Len(t, perf, 1)
	assert.Equal(t, 85.0, perf[0].AverageAssignmentScore)
	assert.Zero(t, perf[0].ViolationCount)

	_, err = env.svc.Grade(uuid.NewString(), assessment.GradeSubmission{Score: 50})
	assert.Equal(t, assessment.ErrSubmissionNotFound, err)
}

func TestGeneratePerformance(t *testing.T) {
	env := newTestEnv()
	_, stu, crs := env.fixtures(t)

	session, err := env.clsSvc.CreateSession(classroom.NewSession{
		CourseID:        crs.ID,
		SessionDate:     time.Now().UTC(),
		DurationMinutes: 60,
		Topic:           "Recursion",
	})
	require.NoError(t, err)

	att, err := env.clsSvc.MarkAttendance(classroom.MarkAttendance{StudentID: stu.ID, SessionID: session.ID})
	require.NoError(t, err)
	_, err = env.clsSvc.UpdateAttendanceRecord(att.ID, classroom.UpdateAttendance{ActiveMinutes: 54})
	require.NoError(t, err)

	_, err = env.clsSvc.ReportViolation(classroom.NewViolation{
		StudentID:     stu.ID,
		SessionID:     session.ID,
		ViolationType: "alt_tab",
	})
	require.NoError(t, err)

	p, err := env.svc.GeneratePerformance(stu.ID, crs.ID)
	require.NoError(t, err)
	assert.Equal(t, 90.0, p.TotalAttendancePercentage)
	assert.Equal(t, 1, p.ViolationCount)
	assert.InDelta(t, 54.0/60, p.TotalFocusHours, 0.001)

	// regeneration replaces the rollup instead of stacking rows
	again, err := env.svc.GeneratePerformance(stu.ID, crs.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID)

	_, err = env.svc.GeneratePerformance(stu.ID, uuid.NewString())
	assert.Equal(t, course.ErrNotFound, err)
}
