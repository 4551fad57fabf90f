package database

import (
	"strings"

	"gorm.io/gorm"

	"github.com/Venkatesan-2007/innertia/core/course"
	"github.com/Venkatesan-2007/innertia/core/policy"
)

type courseRepo struct {
	db *gorm.DB
}

var _ course.Repository = (*courseRepo)(nil)

func NewCourseRepository(db *gorm.DB) course.Repository {
	return &courseRepo{db: db}
}

// none forces a query to match nothing; used when a scope carries neither
// a role-wide grant nor an identity.
func none(q *gorm.DB) *gorm.DB { return q.Where("1 = 0") }

func (repo *courseRepo) CreateCourse(c course.Course) (course.Course, error) {
	if err := repo.db.Create(&c).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return course.Course{}, course.ErrCodeExists
		}
		return course.Course{}, err
	}
	return c, nil
}

func (repo *courseRepo) GetCourseByID(id string) (course.Course, error) {
	var c course.Course
	err := repo.db.First(&c, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return course.Course{}, course.ErrNotFound
	}
	return c, err
}

func (repo *courseRepo) scopeCourses(scope policy.Scope) *gorm.DB {
	q := repo.db.Model(&course.Course{})
	switch {
	case scope.All:
		return q
	case scope.FacultyID != "":
		return q.Where("courses.faculty_id = ?", scope.FacultyID)
	case scope.StudentID != "":
		return q.Joins("JOIN enrollments ON enrollments.course_id = courses.id").
			Where("enrollments.student_id = ? AND enrollments.status = ?", scope.StudentID, course.EnrollmentActive)
	}
	return none(q)
}

func (repo *courseRepo) FilterCourses(scope policy.Scope, filter course.QueryFilter) ([]course.Course, error) {
	q := repo.scopeCourses(scope)
	if filter.Search != "" {
		needle := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("LOWER(courses.name) LIKE ? OR LOWER(courses.code) LIKE ?", needle, needle)
	}
	if filter.ProgramID != "" {
		q = q.Where("courses.program_id = ?", filter.ProgramID)
	}
	if filter.FacultyID != "" {
		q = q.Where("courses.faculty_id = ?", filter.FacultyID)
	}
	if filter.Semester > 0 {
		q = q.Where("courses.semester = ?", filter.Semester)
	}

	var cs []course.Course
	err := q.Order("courses.code").Find(&cs).Error
	return cs, err
}

func (repo *courseRepo) UpdateCourse(c course.Course) (course.Course, error) {
	res := repo.db.Model(&course.Course{}).Where("id = ?", c.ID).Updates(&c)
	if res.Error != nil {
		if res.Error == gorm.ErrDuplicatedKey {
			return course.Course{}, course.ErrCodeExists
		}
		return course.Course{}, res.Error
	}
	if res.RowsAffected == 0 {
		return course.Course{}, course.ErrNotFound
	}
	return repo.GetCourseByID(c.ID)
}

func (repo *courseRepo) DeleteCoursesByID(ids ...string) error {
	return repo.db.Delete(&course.Course{}, "id IN ?", ids).Error
}

func (repo *courseRepo) GetOrCreateEnrollment(e course.Enrollment) (course.Enrollment, bool, error) {
	created := false
	err := repo.db.Transaction(func(tx *gorm.DB) error {
		var existing course.Enrollment
		err := tx.Where("student_id = ? AND course_id = ?", e.StudentID, e.CourseID).First(&existing).Error
		if err == nil {
			e = existing
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := tx.Create(&e).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return course.Enrollment{}, false, err
	}
	return e, created, nil
}

func (repo *courseRepo) GetEnrollmentByID(id string) (course.Enrollment, error) {
	var e course.Enrollment
	err := repo.db.First(&e, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return course.Enrollment{}, course.ErrEnrollmentNotFound
	}
	return e, err
}

func (repo *courseRepo) scopeEnrollments(scope policy.Scope) *gorm.DB {
	q := repo.db.Model(&course.Enrollment{})
	switch {
	case scope.All:
		return q
	case scope.FacultyID != "":
		return q.Joins("JOIN courses ON courses.id = enrollments.course_id").
			Where("courses.faculty_id = ?", scope.FacultyID)
	case scope.StudentID != "":
		return q.Where("enrollments.student_id = ?", scope.StudentID)
	}
	return none(q)
}

func (repo *courseRepo) FilterEnrollments(scope policy.Scope, filter course.QueryFilter) ([]course.Enrollment, error) {
	q := repo.scopeEnrollments(scope)
	if filter.StudentID != "" {
		q = q.Where("enrollments.student_id = ?", filter.StudentID)
	}
	if filter.CourseID != "" {
		q = q.Where("enrollments.course_id = ?", filter.CourseID)
	}
	if filter.Status != "" {
		q = q.Where("enrollments.status = ?", filter.Status)
	}

	var es []course.Enrollment
	err := q.Order("enrollments.enrolled_at DESC").Find(&es).Error
	return es, err
}

func (repo *courseRepo) UpdateEnrollment(e course.Enrollment) (course.Enrollment, error) {
	res := repo.db.Model(&course.Enrollment{}).Where("id = ?", e.ID).Updates(&e)
	if res.Error != nil {
		return course.Enrollment{}, res.Error
	}
	if res.RowsAffected == 0 {
		return course.Enrollment{}, course.ErrEnrollmentNotFound
	}
	return repo.GetEnrollmentByID(e.ID)
}

func (repo *courseRepo) DeleteEnrollmentsByID(ids ...string) error {
	return repo.db.Delete(&course.Enrollment{}, "id IN ?", ids).Error
}
