package course_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Venkatesan-2007/innertia/core"
	"github.com/Venkatesan-2007/innertia/core/course"
	"github.com/Venkatesan-2007/innertia/core/policy"
	"github.com/Venkatesan-2007/innertia/core/user"
	emailsvc "github.com/Venkatesan-2007/innertia/services/email"
	"github.com/Venkatesan-2007/innertia/storage/inmem"
)

func newServices() (*course.Service, *user.Service) {
	db := inmem.Open()
	usrSvc := user.NewService(inmem.NewUserRepository(db), emailsvc.NewConsoleServiceMock())
	return course.NewService(inmem.NewCourseRepository(db), usrSvc), usrSvc
}

func createUser(t *testing.T, usrSvc *user.Service, uname string, role user.Role) user.User {
	t.Helper()
	usr, err := usrSvc.Create(user.NewUser{
		Name:     uname,
		Username: uname,
		Email:    uname + "@test.test",
		Role:     role,
		Password: "secret123",
	})
	require.NoError(t, err)
	return usr
}

func TestCreateCourse(t *testing.T) {
	svc, usrSvc := newServices()
	fac := createUser(t, usrSvc, "fac", user.RoleFaculty)
	stu := createUser(t, usrSvc, "stu", user.RoleStudent)
	programID := uuid.NewString()

	nc := course.NewCourse{
		Code:      "cs101",
		Name:      "Introduction to Programming",
		ProgramID: programID,
		FacultyID: fac.ID,
		Semester:  1,
		Credits:   4,
	}
	crs, err := svc.Create(nc)
	require.NoError(t, err)
	assert.NotEmpty(t, crs.ID)
	assert.Equal(t, fac.ID, crs.FacultyID)

	var vErr *core.ValidationError

	// code is unique per program
	_, err = svc.Create(nc)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, course.ErrCodeExists, vErr.Err)

	// same code in another program is fine
	nc.ProgramID = uuid.NewString()
	_, err = svc.Create(nc)
	require.NoError(t, err)

	// the assigned faculty must hold the faculty role
	nc.Code = "cs102"
	nc.FacultyID = stu.ID
	_, err = svc.Create(nc)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, course.ErrNotFaculty, vErr.Err)

	nc.FacultyID = uuid.NewString()
	_, err = svc.Create(nc)
	require.ErrorAs(t, err, &vErr)
}

func TestEnrollStudent(t *testing.T) {
	svc, usrSvc := newServices()
	fac := createUser(t, usrSvc, "fac", user.RoleFaculty)
	stu := createUser(t, usrSvc, "stu", user.RoleStudent)

	crs, err := svc.Create(course.NewCourse{
		Code:      "cs101",
		Name:      "Introduction to Programming",
		ProgramID: uuid.NewString(),
		FacultyID: fac.ID,
		Semester:  1,
	})
	require.NoError(t, err)

	enr, created, err := svc.EnrollStudent(crs.ID, stu.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, course.EnrollmentActive, enr.Status)

	// enrolling twice returns the existing row
	again, created, err := svc.EnrollStudent(crs.ID, stu.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, enr.ID, again.ID)

	var vErr *core.ValidationError
	_, _, err = svc.EnrollStudent(crs.ID, fac.ID)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, course.ErrNotStudent, vErr.Err)

	_, _, err = svc.EnrollStudent(uuid.NewString(), stu.ID)
	assert.Equal(t, course.ErrNotFound, err)

	// dropping frees up the enrollment row without deleting it
	enr, err = svc.UpdateEnrollment(enr.ID, course.UpdateEnrollment{Status: course.EnrollmentDropped})
	require.NoError(t, err)
	assert.Equal(t, course.EnrollmentDropped, enr.Status)
}

func TestCourseScoping(t *testing.T) {
	svc, usrSvc := newServices()
	fac1 := createUser(t, usrSvc, "fac1", user.RoleFaculty)
	fac2 := createUser(t, usrSvc, "fac2", user.RoleFaculty)
	stu := createUser(t, usrSvc, "stu", user.RoleStudent)
	programID := uuid.NewString()

	mkCourse := func(code string, facultyID string) course.Course {
		crs, err := svc.Create(course.NewCourse{
			Code:      code,
			Name:      "Course " + code,
			ProgramID: programID,
			FacultyID: facultyID,
			Semester:  1,
		})
		require.NoError(t, err)
		return crs
	}
	c1 := mkCourse("cs101", fac1.ID)
	mkCourse("cs102", fac2.ID)

	_, _, err := svc.EnrollStudent(c1.ID, stu.ID)
	require.NoError(t, err)

	all, err := svc.Filter(policy.Scope{All: true}, course.QueryFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := svc.Filter(policy.Scope{FacultyID: fac1.ID}, course.QueryFilter{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, c1.ID, mine[0].ID)

	enrolled, err := svc.Filter(policy.Scope{StudentID: stu.ID}, course.QueryFilter{})
	require.NoError(t, err)
	require.Len(t, enrolled, 1)
	assert.Equal(t, c1.ID, enrolled[0].ID)

	// the zero scope matches nothing
	none, err := svc.Filter(policy.Scope{}, course.QueryFilter{})
	require.NoError(t, err)
	assert.Empty(t, none)
}
