package college_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Venkatesan-2007/innertia/core"
	"github.com/Venkatesan-2007/innertia/core/college"
	"github.com/Venkatesan-2007/innertia/storage/inmem"
)

func newService() *college.Service {
	return college.NewService(inmem.NewCollegeRepository(inmem.Open()))
}

func TestCreateCollege(t *testing.T) {
	svc := newService()

	nc := college.NewCollege{
		Name:    "Innertia Institute of Technology",
		Code:    "iit",
		City:    "Chennai",
		Country: "India",
	}
	c, err := svc.Create(nc)
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.False(t, c.AdminID.Valid)

	var vErr *core.ValidationError
	_, err = svc.Create(nc)
	require.ErrorAs(t, err, &vErr, "college codes are globally unique")
	assert.Equal(t, college.ErrCodeExists, vErr.Err)

	got, err := svc.GetByID(c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Name, got.Name)

	_, err = svc.GetByID("missing")
	assert.Equal(t, college.ErrNotFound, err)
}

func TestPrograms(t *testing.T) {
	svc := newService()

	c, err := svc.Create(college.NewCollege{
		Name: "Innertia Institute of Technology", Code: "iit", City: "Chennai", Country: "India",
	})
	require.NoError(t, err)
	other, err := svc.Create(college.NewCollege{
		Name: "Northern Polytechnic", Code: "np", City: "Delhi", Country: "India",
	})
	require.NoError(t, err)

	np := college.NewProgram{
		Name:              "B.Tech Computer Science",
		Code:              "btech-cs",
		CollegeID:         c.ID,
		DurationSemesters: 8,
	}
	p, err := svc.CreateProgram(np)
	require.NoError(t, err)
	assert.Equal(t, c.ID, p.CollegeID)

	// program codes are unique per college, not globally
	var vErr *core.ValidationError
	_, err = svc.CreateProgram(np)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, college.ErrProgramExists, vErr.Err)

	np.CollegeID = other.ID
	_, err = svc.CreateProgram(np)
	require.NoError(t, err)

	np.CollegeID = "missing"
	_, err = svc.CreateProgram(np)
	assert.Equal(t, college.ErrNotFound, err)

	ps, err := svc.FilterPrograms(college.QueryFilter{CollegeID: c.ID})
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, p.ID, ps[0].ID)
}
