package database

import (
	"gorm.io/gorm"

	"github.com/Venkatesan-2007/innertia/core/policy"
	"github.com/Venkatesan-2007/innertia/core/runner"
)

type runnerRepo struct {
	db *gorm.DB
}

var _ runner.Repository = (*runnerRepo)(nil)

func NewRunnerRepository(db *gorm.DB) runner.Repository {
	return &runnerRepo{db: db}
}

func (repo *runnerRepo) CreateRun(cs runner.CompilerSubmission) error {
	return repo.db.Create(&cs).Error
}

func (repo *runnerRepo) GetRunByID(id string) (runner.CompilerSubmission, error) {
	var cs runner.CompilerSubmission
	err := repo.db.First(&cs, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return runner.CompilerSubmission{}, runner.ErrRunNotFound
	}
	return cs, err
}

func (repo *runnerRepo) FilterRuns(scope policy.Scope, filter runner.QueryFilter) ([]runner.CompilerSubmission, error) {
	q := repo.db.Model(&runner.CompilerSubmission{})
	switch {
	case scope.All:
	case scope.FacultyID != "":
		q = q.Joins("JOIN class_sessions ON class_sessions.id = compiler_submissions.session_id").
			Where("class_sessions.faculty_id = ?", scope.FacultyID)
	case scope.StudentID != "":
		q = q.Where("compiler_submissions.student_id = ?", scope.StudentID)
	default:
		q = none(q)
	}
	if filter.SessionID != "" {
		q = q.Where("compiler_submissions.session_id = ?", filter.SessionID)
	}
	if filter.StudentID != "" {
		q = q.Where("compiler_submissions.student_id = ?", filter.StudentID)
	}
	if filter.Language != "" {
		q = q.Where("compiler_submissions.language = ?", filter.Language)
	}
	if filter.Status != "" {
		q = q.Where("compiler_submissions.status = ?", filter.Status)
	}

	var runs []runner.CompilerSubmission
	err := q.Order("compiler_submissions.created_at DESC").Find(&runs).Error
	return runs, err
}
