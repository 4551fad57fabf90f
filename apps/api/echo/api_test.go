package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Venkatesan-2007/innertia/core/assessment"
	"github.com/Venkatesan-2007/innertia/core/classroom"
	"github.com/Venkatesan-2007/innertia/core/college"
	"github.com/Venkatesan-2007/innertia/core/content"
	"github.com/Venkatesan-2007/innertia/core/course"
	"github.com/Venkatesan-2007/innertia/core/runner"
	"github.com/Venkatesan-2007/innertia/core/user"
	emailsvc "github.com/Venkatesan-2007/innertia/services/email"
	logsvc "github.com/Venkatesan-2007/innertia/services/logger"
	"github.com/Venkatesan-2007/innertia/storage/inmem"
)

type testApp struct {
	server Server
	usrSvc *user.Service
	crsSvc *course.Service
	clsSvc *classroom.Service

	admin, faculty, student user.User
}

func setup(t *testing.T) *testApp {
	t.Helper()
	db := inmem.Open()
	mailSvc := emailsvc.NewConsoleServiceMock()

	usrSvc := user.NewService(inmem.NewUserRepository(db), mailSvc)
	colSvc := college.NewService(inmem.NewCollegeRepository(db))
	crsSvc := course.NewService(inmem.NewCourseRepository(db), usrSvc)
	clsSvc := classroom.NewService(inmem.NewClassroomRepository(db), usrSvc, crsSvc)
	cntSvc := content.NewService(inmem.NewContentRepository(db), clsSvc)
	assSvc := assessment.NewService(inmem.NewAssessmentRepository(db), crsSvc)
	runSvc := runner.NewService(inmem.NewRunnerRepository(db), clsSvc, logsvc.NewNopLogger())

	app := &testApp{
		server: NewServer(&Options{
			DisableReqLogs: true,
			Logger:         logsvc.NewNopLogger(),
			UserSvc:        usrSvc,
			CollegeSvc:     colSvc,
			CourseSvc:      crsSvc,
			ClassroomSvc:   clsSvc,
			ContentSvc:     cntSvc,
			AssessmentSvc:  assSvc,
			RunnerSvc:      runSvc,
		}),
		usrSvc: usrSvc,
		crsSvc: crsSvc,
		clsSvc: clsSvc,
	}
	app.admin = app.createUser(t, "admin", user.RoleAdmin)
	app.faculty = app.createUser(t, "faculty", user.RoleFaculty)
	app.student = app.createUser(t, "student", user.RoleStudent)
	return app
}

func (app *testApp) createUser(t *testing.T, uname string, role user.Role) user.User {
	t.Helper()
	usr, err := app.usrSvc.Create(user.NewUser{
		Name:     uname,
		Username: uname,
		Email:    uname + "@test.test",
		Role:     role,
		Password: "LePassword123",
	})
	require.NoError(t, err)
	return usr
}

func (app *testApp) token(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := GenerateToken(GetUserClaims(usr))
	require.NoError(t, err)
	return token
}

func (app *testApp) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.server.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), into))
}

func TestHome(t *testing.T) {
	app := setup(t)
	rec := app.request(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin(t *testing.T) {
	app := setup(t)

	rec := app.request(t, http.MethodPost, "/v1/users/login", "", LoginRequest{
		Username: "student",
		Password: "LePassword123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp LoginResponse
	decode(t, rec, &resp)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, app.student.ID, resp.User.ID)

	// email works as the login identifier too
	rec = app.request(t, http.MethodPost, "/v1/users/login", "", LoginRequest{
		Username: "student@test.test",
		Password: "LePassword123",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = app.request(t, http.MethodPost, "/v1/users/login", "", LoginRequest{
		Username: "student",
		Password: "wrong",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// deactivated accounts cannot log in
	inactive := false
	_, err := app.usrSvc.Update(app.student.ID, user.UpdateUser{IsActive: &inactive})
	require.NoError(t, err)
	rec = app.request(t, http.MethodPost, "/v1/users/login", "", LoginRequest{
		Username: "student",
		Password: "LePassword123",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	app := setup(t)

	for _, path := range []string{
		"/v1/users/me",
		"/v1/courses",
		"/v1/sessions",
		"/v1/attendance",
		"/v1/assignments",
		"/v1/compiler/submissions",
	} {
		rec := app.request(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	rec := app.request(t, http.MethodGet, "/v1/users/me", app.token(t, app.student), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me user.User
	decode(t, rec, &me)
	assert.Equal(t, app.student.ID, me.ID)
}

func TestUserAccess(t *testing.T) {
	app := setup(t)
	adminToken := app.token(t, app.admin)
	studentToken := app.token(t, app.student)

	// registration is open: no token required
	body := user.NewUser{
		Name: "New Guy", Username: "newguy", Email: "newguy@test.test",
		Role: user.RoleStudent, Password: "LePassword456", PasswordConfirm: "LePassword456",
	}
	rec := app.request(t, http.MethodPost, "/v1/users/register", "", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = app.request(t, http.MethodPost, "/v1/users/login", "", LoginRequest{
		Username: "newguy",
		Password: "LePassword456",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	// but usernames stay unique
	rec = app.request(t, http.MethodPost, "/v1/users/register", "", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// non-admins listing users only ever see themselves
	rec = app.request(t, http.MethodGet, "/v1/users", studentToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var users []user.User
	decode(t, rec, &users)
	require.Len(t, users, 1)
	assert.Equal(t, app.student.ID, users[0].ID)

	// someone else's profile does not exist as far as a student knows
	rec = app.request(t, http.MethodGet, "/v1/users/"+app.faculty.ID, studentToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = app.request(t, http.MethodGet, "/v1/users/"+app.student.ID, studentToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = app.request(t, http.MethodGet, "/v1/users/"+app.student.ID, adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// no self-deletion
	rec = app.request(t, http.MethodDelete, "/v1/users/"+app.admin.ID, adminToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func (app *testApp) createCourse(t *testing.T) course.Course {
	t.Helper()
	crs, err := app.crsSvc.Create(course.NewCourse{
		Code: "cs101", Name: "Introduction to Programming",
		ProgramID: uuid.NewString(), FacultyID: app.faculty.ID, Semester: 1,
	})
	require.NoError(t, err)
	return crs
}

func TestCourseAPI(t *testing.T) {
	app := setup(t)
	facultyToken := app.token(t, app.faculty)
	studentToken := app.token(t, app.student)

	// students cannot create courses
	body := course.NewCourse{
		Code: "cs101", Name: "Introduction to Programming",
		ProgramID: uuid.NewString(), FacultyID: app.faculty.ID, Semester: 1,
	}
	rec := app.request(t, http.MethodPost, "/v1/courses", studentToken, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.request(t, http.MethodPost, "/v1/courses", facultyToken, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var crs course.Course
	decode(t, rec, &crs)

	// faculty cannot create a course on behalf of another faculty
	other := app.createUser(t, "otherfac", user.RoleFaculty)
	body.Code = "cs102"
	body.FacultyID = other.ID
	rec = app.request(t, http.MethodPost, "/v1/courses", facultyToken, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// students only see courses they are enrolled in
	rec = app.request(t, http.MethodGet, "/v1/courses", studentToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var courses []course.Course
	decode(t, rec, &courses)
	assert.Empty(t, courses)

	// self-enrollment; repeating it is idempotent
	rec = app.request(t, http.MethodPost, "/v1/courses/"+crs.ID+"/enroll", studentToken, EnrollRequest{})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = app.request(t, http.MethodPost, "/v1/courses/"+crs.ID+"/enroll", studentToken, EnrollRequest{})
	assert.Equal(t, http.StatusOK, rec.Code)

	// a student cannot enroll someone else
	other2 := app.createUser(t, "stu2", user.RoleStudent)
	rec = app.request(t, http.MethodPost, "/v1/courses/"+crs.ID+"/enroll", studentToken, EnrollRequest{StudentID: other2.ID})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.request(t, http.MethodGet, "/v1/courses", studentToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &courses)
	require.Len(t, courses, 1)
	assert.Equal(t, crs.ID, courses[0].ID)
}

func TestAttendanceAPI(t *testing.T) {
	app := setup(t)
	facultyToken := app.token(t, app.faculty)
	studentToken := app.token(t, app.student)
	crs := app.createCourse(t)

	rec := app.request(t, http.MethodPost, "/v1/sessions", facultyToken, classroom.NewSession{
		CourseID:        crs.ID,
		SessionDate:     time.Now().UTC(),
		DurationMinutes: 60,
		Topic:           "Slices and maps",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var session classroom.ClassSession
	decode(t, rec, &session)

	// a faculty who does not teach the course cannot run its sessions
	outsider := app.createUser(t, "outsider", user.RoleFaculty)
	rec = app.request(t, http.MethodPost, "/v1/sessions/"+session.ID+"/start", app.token(t, outsider), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.request(t, http.MethodPost, "/v1/sessions/"+session.ID+"/start", facultyToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// students cannot mark attendance
	mark := classroom.MarkAttendance{StudentID: app.student.ID, SessionID: session.ID}
	rec = app.request(t, http.MethodPost, "/v1/attendance", studentToken, mark)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.request(t, http.MethodPost, "/v1/attendance", facultyToken, mark)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var att classroom.Attendance
	decode(t, rec, &att)
	assert.Equal(t, classroom.AttendanceAbsent, att.Status)

	// the student sees their own record; other students get a 404
	rec = app.request(t, http.MethodGet, "/v1/attendance/"+att.ID, studentToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	other := app.createUser(t, "stu2", user.RoleStudent)
	rec = app.request(t, http.MethodGet, "/v1/attendance/"+att.ID, app.token(t, other), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.request(t, http.MethodPut, "/v1/attendance/"+att.ID, facultyToken, classroom.UpdateAttendance{ActiveMinutes: 54})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &att)
	assert.Equal(t, classroom.AttendancePresent, att.Status)

	rec = app.request(t, http.MethodPost, "/v1/sessions/"+session.ID+"/report", facultyToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var report classroom.SessionReport
	decode(t, rec, &report)
	assert.Equal(t, 1, report.TotalStudents)
	assert.Equal(t, 1, report.PresentCount)
}

func TestRetrieveScoping(t *testing.T) {
	app := setup(t)
	facultyToken := app.token(t, app.faculty)
	studentToken := app.token(t, app.student)
	crs := app.createCourse(t)

	session, err := app.clsSvc.CreateSession(classroom.NewSession{
		CourseID:        crs.ID,
		SessionDate:     time.Now().UTC(),
		DurationMinutes: 60,
		Topic:           "Goroutines",
	})
	require.NoError(t, err)
	_, _, err = app.crsSvc.EnrollStudent(crs.ID, app.student.ID)
	require.NoError(t, err)

	att, err := app.clsSvc.MarkAttendance(classroom.MarkAttendance{
		StudentID: app.student.ID, SessionID: session.ID,
	})
	require.NoError(t, err)
	violation, err := app.clsSvc.ReportViolation(classroom.NewViolation{
		StudentID: app.student.ID, SessionID: session.ID, ViolationType: "tab_switch",
	})
	require.NoError(t, err)

	outsiderFac := app.token(t, app.createUser(t, "otherfac", user.RoleFaculty))
	outsiderStu := app.token(t, app.createUser(t, "otherstu", user.RoleStudent))

	// sessions read as not found outside the actor's scope
	rec := app.request(t, http.MethodGet, "/v1/sessions/"+session.ID, outsiderStu, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = app.request(t, http.MethodGet, "/v1/sessions/"+session.ID, outsiderFac, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = app.request(t, http.MethodGet, "/v1/sessions/"+session.ID, studentToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = app.request(t, http.MethodGet, "/v1/sessions/"+session.ID, facultyToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// attendance and violations are invisible to faculty of other courses
	rec = app.request(t, http.MethodGet, "/v1/attendance/"+att.ID, outsiderFac, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = app.request(t, http.MethodGet, "/v1/attendance/"+att.ID, facultyToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = app.request(t, http.MethodGet, "/v1/violations/"+violation.ID, outsiderFac, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = app.request(t, http.MethodGet, "/v1/violations/"+violation.ID, facultyToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = app.request(t, http.MethodGet, "/v1/violations/"+violation.ID, app.token(t, app.admin), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// the attendance report rides on the same session scope
	rec = app.request(t, http.MethodGet, "/v1/sessions/"+session.ID+"/attendance-report", outsiderStu, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = app.request(t, http.MethodGet, "/v1/sessions/"+session.ID+"/attendance-report", facultyToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var records []classroom.Attendance
	decode(t, rec, &records)
	require.Len(t, records, 1)
	assert.Equal(t, att.ID, records[0].ID)
}

func TestCompilerAPI(t *testing.T) {
	app := setup(t)

	// execution is a student-only surface
	body := runner.ExecuteCode{Language: runner.Java, Code: "class X {}"}
	rec := app.request(t, http.MethodPost, "/v1/compiler/execute", app.token(t, app.faculty), body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// java is rejected before anything runs
	rec = app.request(t, http.MethodPost, "/v1/compiler/execute", app.token(t, app.student), body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTokenRefresh(t *testing.T) {
	app := setup(t)

	rec := app.request(t, http.MethodPost, "/v1/users/token-refresh", app.token(t, app.student), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp TokenResponse
	decode(t, rec, &resp)
	assert.NotEmpty(t, resp.Token)

	// a deactivated user cannot refresh
	inactive := false
	_, err := app.usrSvc.Update(app.student.ID, user.UpdateUser{IsActive: &inactive})
	require.NoError(t, err)
	rec = app.request(t, http.MethodPost, "/v1/users/token-refresh", app.token(t, app.student), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
