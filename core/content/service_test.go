package content_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Venkatesan-2007/innertia/core"
	"github.com/Venkatesan-2007/innertia/core/classroom"
	"github.com/Venkatesan-2007/innertia/core/content"
	"github.com/Venkatesan-2007/innertia/core/course"
	"github.com/Venkatesan-2007/innertia/core/policy"
	"github.com/Venkatesan-2007/innertia/core/user"
	emailsvc "github.com/Venkatesan-2007/innertia/services/email"
	"github.com/Venkatesan-2007/innertia/storage/inmem"
)

type testEnv struct {
	svc    *content.Service
	usrSvc *user.Service
	crsSvc *course.Service
	clsSvc *classroom.Service
}

func newTestEnv() testEnv {
	db := inmem.Open()
	usrSvc := user.NewService(inmem.NewUserRepository(db), emailsvc.NewConsoleServiceMock())
	crsSvc := course.NewService(inmem.NewCourseRepository(db), usrSvc)
	clsSvc := classroom.NewService(inmem.NewClassroomRepository(db), usrSvc, crsSvc)
	svc := content.NewService(inmem.NewContentRepository(db), clsSvc)
	return testEnv{svc: svc, usrSvc: usrSvc, crsSvc: crsSvc, clsSvc: clsSvc}
}

func (env testEnv) createSession(t *testing.T) (user.User, classroom.ClassSession) {
	t.Helper()
	fac, err := env.usrSvc.Create(user.NewUser{
		Name: "fac", Username: "fac", Email: "fac@test.test", Role: user.RoleFaculty, Password: "secret123",
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
		Topic:           "Pointers",
	})
	require.NoError(t, err)

	stu, err := env.usrSvc.Create(user.NewUser{
		Name: "stu", Username: "stu", Email: "stu@test.test", Role: user.RoleStudent, Password: "secret123",
	})
	require.NoError(t, err)
	return stu, s
}

func TestSlides(t *testing.T) {
	env := newTestEnv()
	_, s := env.createSession(t)

	ns := content.NewSlide{
		SessionID:   s.ID,
		SlideNumber: 1,
		Title:       "Memory layout",
		Content:     "stack vs heap",
	}
	slide, err := env.svc.CreateSlide(ns)
	require.NoError(t, err)
	assert.NotEmpty(t, slide.ID)

	// slide numbers are unique within a session
	var vErr *core.ValidationError
	_, err = env.svc.CreateSlide(ns)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, content.ErrSlideExists, vErr.Err)

	ns.SlideNumber = 2
	_, err = env.svc.CreateSlide(ns)
	require.NoError(t, err)

	ns.SessionID = uuid.NewString()
	_, err = env.svc.CreateSlide(ns)
	require.ErrorAs(t, err, &vErr, "unknown session should fail validation")

	slides, err := env.svc.FilterSlides(content.QueryFilter{SessionID: s.ID})
	require.NoError(t, err)
	assert.Len(t, slides, 2)
}

func TestNotes(t *testing.T) {
	env := newTestEnv()
	stu, s := env.createSession(t)

	note, err := env.svc.CreateNote(stu.ID, content.NewNote{
		SessionID: s.ID,
		Title:     "Scribbles",
		Content:   "remember the nil map gotcha",
	})
	require.NoError(t, err)
	assert.Equal(t, stu.ID, note.StudentID)
	assert.False(t, note.IsPublic)

	isPublic := true
	note, err = env.svc.UpdateNote(note.ID, content.UpdateNote{
		Content:  "remember the nil map write panic",
		IsPublic: &isPublic,
	})
	require.NoError(t, err)
	assert.True(t, note.IsPublic)
	assert.Equal(t, "Scribbles", note.Title, "unset fields keep their value")

	mine, err := env.svc.FilterNotes(policy.Scope{StudentID: stu.ID}, content.QueryFilter{})
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	require.NoError(t, env.svc.DeleteNotes(note.ID))
	_, err = env.svc.GetNoteByID(note.ID)
	assert.Equal(t, content.ErrNoteNotFound, err)
}

func TestDoubtLifecycle(t *testing.T) {
	env := newTestEnv()
	stu, s := env.createSession(t)

	d, err := env.svc.AskDoubt(stu.ID, content.NewDoubt{
		SessionID: s.ID,
		Question:  "why does append sometimes reallocate?",
	})
	require.NoError(t, err)
	assert.Equal(t, content.DoubtOpen, d.Status)

	r, err := env.svc.RespondToDoubt(content.NewDoubtResponse{
		DoubtID:         d.ID,
		Answer:          "capacity growth; see the slides on slices",
		ConfidenceScore: 0.92,
		GeneratedByAI:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, d.ID, r.DoubtID)

	d, err = env.svc.GetDoubtByID(d.ID)
	require.NoError(t, err)
	assert.Equal(t, content.DoubtAnswered, d.Status)

	// one response per doubt
	_, err = env.svc.RespondToDoubt(content.NewDoubtResponse{DoubtID: d.ID, Answer: "again"})
	assert.Equal(t, content.ErrResponseExists, err)

	d, err = env.svc.ResolveDoubt(d.ID)
	require.NoError(t, err)
	assert.Equal(t, content.DoubtResolved, d.Status)
	assert.True(t, d.ResolvedAt.Valid)

	var vErr *core.ValidationError
	_, err = env.svc.RespondToDoubt(content.NewDoubtResponse{DoubtID: uuid.NewString(), Answer: "?"})
	require.ErrorAs(t, err, &vErr)
}
