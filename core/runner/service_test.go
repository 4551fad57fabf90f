package runner_test

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Venkatesan-2007/innertia/core"
	"github.com/Venkatesan-2007/innertia/core/classroom"
	"github.com/Venkatesan-2007/innertia/core/course"
	"github.com/Venkatesan-2007/innertia/core/policy"
	"github.com/Venkatesan-2007/innertia/core/runner"
	"github.com/Venkatesan-2007/innertia/core/user"
	emailsvc "github.com/Venkatesan-2007/innertia/services/email"
	logsvc "github.com/Venkatesan-2007/innertia/services/logger"
	"github.com/Venkatesan-2007/innertia/storage/inmem"
)

type testEnv struct {
	svc    *runner.Service
	usrSvc *user.Service
	crsSvc *course.Service
	clsSvc *classroom.Service
}

func newTestEnv() testEnv {
	db := inmem.Open()
	usrSvc := user.NewService(inmem.NewUserRepository(db), emailsvc.NewConsoleServiceMock())
	crsSvc := course.NewService(inmem.NewCourseRepository(db), usrSvc)
	clsSvc := classroom.NewService(inmem.NewClassroomRepository(db), usrSvc, crsSvc)
	svc := runner.NewService(inmem.NewRunnerRepository(db), clsSvc, logsvc.NewNopLogger())
	return testEnv{svc: svc, usrSvc: usrSvc, crsSvc: crsSvc, clsSvc: clsSvc}
}

func requirePython(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 not installed")
	}
}

func TestExecuteJavaRejected(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.Execute(context.Background(), uuid.NewString(), runner.ExecuteCode{
		Language: runner.Java,
		Code:     `System.out.println("hi");`,
	})
	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, runner.ErrJavaUnsupported, vErr.Err)
}

func TestExecuteCodeValidation(t *testing.T) {
	tests := []struct {
		name string
		ec   runner.ExecuteCode
		err  bool
	}{
		{name: "valid", ec: runner.ExecuteCode{Language: runner.Python, Code: "print(1)"}},
		{name: "unknown language", ec: runner.ExecuteCode{Language: "cobol", Code: "x"}, err: true},
		{name: "blank code", ec: runner.ExecuteCode{Language: runner.Python, Code: "   "}, err: true},
		{name: "bad session ref", ec: runner.ExecuteCode{Language: runner.Python, Code: "print(1)", SessionID: "nope"}, err: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ec.Validate()
			if tt.err {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExecutePython(t *testing.T) {
	requirePython(t)
	env := newTestEnv()

	res, err := env.svc.Execute(context.Background(), uuid.NewString(), runner.ExecuteCode{
		Language: runner.Python,
		Code:     `print("hello")`,
	})
	require.NoError(t, err)
	assert.Equal(t, runner.RunExecuted, res.Status)
	assert.Equal(t, "hello\n", res.Stdout)
	assert.Empty(t, res.Stderr)

	res, err = env.svc.Execute(context.Background(), uuid.NewString(), runner.ExecuteCode{
		Language: runner.Python,
		Code:     `raise SystemExit(3)`,
	})
	require.NoError(t, err)
	assert.Equal(t, runner.RunFailed, res.Status)
	assert.Equal(t, 3, res.ExitCode)
}

func TestExecuteRecordsSessionRuns(t *testing.T) {
	requirePython(t)
	env := newTestEnv()

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
	s, err := env.clsSvc.CreateSession(classroom.NewSession{
		CourseID:        crs.ID,
		SessionDate:     time.Now().UTC(),
		DurationMinutes: 60,
		Topic:           "Loops",
	})
	require.NoError(t, err)

	// a run tied to a live session is recorded
	_, err = env.svc.Execute(context.Background(), stu.ID, runner.ExecuteCode{
		Language:  runner.Python,
		Code:      `print(2 + 2)`,
		SessionID: s.ID,
	})
	require.NoError(t, err)

	// a dangling session reference runs fine but is not recorded
	_, err = env.svc.Execute(context.Background(), stu.ID, runner.ExecuteCode{
		Language:  runner.Python,
		Code:      `print(0)`,
		SessionID: uuid.NewString(),
	})
	require.NoError(t, err)

	// ad hoc runs with no session are not recorded either
	_, err = env.svc.Execute(context.Background(), stu.ID, runner.ExecuteCode{
		Language: runner.Python,
		Code:     `print(1)`,
	})
	require.NoError(t, err)

	runs, err := env.svc.FilterRuns(policy.Scope{StudentID: stu.ID}, runner.QueryFilter{})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, s.ID, runs[0].SessionID)
	assert.Equal(t, "4\n", runs[0].Stdout)

	_, err = env.svc.GetRunByID(uuid.NewString())
	assert.Equal(t, runner.ErrRunNotFound, err)
}
