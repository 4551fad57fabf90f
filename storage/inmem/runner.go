package inmem

import (
	"github.com/Venkatesan-2007/innertia/core/policy"
	"github.com/Venkatesan-2007/innertia/core/runner"
)

type runnerRepo struct {
	db *DB
}

var _ runner.Repository = (*runnerRepo)(nil)

func NewRunnerRepository(db *DB) runner.Repository {
	return &runnerRepo{db: db}
}

func (repo *runnerRepo) CreateRun(cs runner.CompilerSubmission) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.runs[cs.ID] = &cs
	return nil
}

func (repo *runnerRepo) GetRunByID(id string) (runner.CompilerSubmission, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if cs, ok := repo.db.runs[id]; ok {
		return *cs, nil
	}
	return runner.CompilerSubmission{}, runner.ErrRunNotFound
}

func (repo *runnerRepo) FilterRuns(scope policy.Scope, filter runner.QueryFilter) ([]runner.CompilerSubmission, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	runs := make([]runner.CompilerSubmission, 0)
	for _, cs := range repo.db.runs {
		switch {
		case scope.All:
		case scope.FacultyID != "":
			if repo.db.sessionFaculty(cs.SessionID) != scope.FacultyID {
				continue
			}
		case scope.StudentID != "":
			if cs.StudentID != scope.StudentID {
				continue
			}
		default:
			continue
		}
		if filter.SessionID != "" && cs.SessionID != filter.SessionID {
			continue
		}
		if filter.StudentID != "" && cs.StudentID != filter.StudentID {
			continue
		}
		if filter.Language != "" && cs.Language != filter.Language {
			continue
		}
		if filter.Status != "" && cs.Status != filter.Status {
			continue
		}
		runs = append(runs, *cs)
	}
	return runs, nil
}
