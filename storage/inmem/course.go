package inmem

import (
	"strings"

	"github.com/Venkatesan-2007/innertia/core/course"
	"github.com/Venkatesan-2007/innertia/core/policy"
)

type courseRepo struct {
	db *DB
}

var _ course.Repository = (*courseRepo)(nil)

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepo{db: db}
}

func (repo *courseRepo) CreateCourse(c course.Course) (course.Course, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, existing := range repo.db.courses {
		if existing.Code == c.Code && existing.ProgramID == c.ProgramID {
			return course.Course{}, course.ErrCodeExists
		}
	}
	repo.db.courses[c.ID] = &c
	return c, nil
}

func (repo *courseRepo) GetCourseByID(id string) (course.Course, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if c, ok := repo.db.courses[id]; ok {
		return *c, nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepo) FilterCourses(scope policy.Scope, filter course.QueryFilter) ([]course.Course, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	cs := make([]course.Course, 0)
	for _, c := range repo.db.courses {
		switch {
		case scope.All:
		case scope.FacultyID != "":
			if c.FacultyID != scope.FacultyID {
				continue
			}
		case scope.StudentID != "":
			if !repo.db.enrolledIn(scope.StudentID, c.ID) {
				continue
			}
		default:
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(c.Name), filter.Search) &&
			!strings.Contains(strings.ToLower(c.Code), filter.Search) {
			continue
		}
		if filter.ProgramID != "" && c.ProgramID != filter.ProgramID {
			continue
		}
		if filter.FacultyID != "" && c.FacultyID != filter.FacultyID {
			continue
		}
		if filter.Semester > 0 && c.Semester != filter.Semester {
			continue
		}
		cs = append(cs, *c)
	}
	return cs, nil
}

func (repo *courseRepo) UpdateCourse(c course.Course) (course.Course, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	existing, ok := repo.db.courses[c.ID]
	if !ok {
		return course.Course{}, course.ErrNotFound
	}
	for _, other := range repo.db.courses {
		if other.ID != c.ID && other.Code == c.Code && other.ProgramID == c.ProgramID {
			return course.Course{}, course.ErrCodeExists
		}
	}
	*existing = c
	return *existing, nil
}

func (repo *courseRepo) DeleteCoursesByID(ids ...string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, id := range ids {
		delete(repo.db.courses, id)
	}
	return nil
}

func (repo *courseRepo) GetOrCreateEnrollment(e course.Enrollment) (course.Enrollment, bool, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, existing := range repo.db.enrollments {
		if existing.StudentID == e.StudentID && existing.CourseID == e.CourseID {
			return *existing, false, nil
		}
	}
	repo.db.enrollments[e.ID] = &e
	return e, true, nil
}

func (repo *courseRepo) GetEnrollmentByID(id string) (course.Enrollment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if e, ok := repo.db.enrollments[id]; ok {
		return *e, nil
	}
	return course.Enrollment{}, course.ErrEnrollmentNotFound
}

func (repo *courseRepo) FilterEnrollments(scope policy.Scope, filter course.QueryFilter) ([]course.Enrollment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	es := make([]course.Enrollment, 0)
	for _, e := range repo.db.enrollments {
		switch {
		case scope.All:
		case scope.FacultyID != "":
			if repo.db.courseFaculty(e.CourseID) != scope.FacultyID {
				continue
			}
		case scope.StudentID != "":
			if e.StudentID != scope.StudentID {
				continue
			}
		default:
			continue
		}
		if filter.StudentID != "" && e.StudentID != filter.StudentID {
			continue
		}
		if filter.CourseID != "" && e.CourseID != filter.CourseID {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		es = append(es, *e)
	}
	return es, nil
}

func (repo *courseRepo) UpdateEnrollment(e course.Enrollment) (course.Enrollment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	existing, ok := repo.db.enrollments[e.ID]
	if !ok {
		return course.Enrollment{}, course.ErrEnrollmentNotFound
	}
	*existing = e
	return *existing, nil
}

func (repo *courseRepo) DeleteEnrollmentsByID(ids ...string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, id := range ids {
		delete(repo.db.enrollments, id)
	}
	return nil
}
