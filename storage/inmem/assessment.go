package inmem

import (
	"strings"

	"github.com/Venkatesan-2007/innertia/core/assessment"
	"github.com/Venkatesan-2007/innertia/core/policy"
)

type assessmentRepo struct {
	db *DB
}

var _ assessment.Repository = (*assessmentRepo)(nil)

func NewAssessmentRepository(db *DB) assessment.Repository {
	return &assessmentRepo{db: db}
}

func (repo *assessmentRepo) CreateAssignment(a assessment.Assignment) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.assignments[a.ID] = &a
	return nil
}

func (repo *assessmentRepo) GetAssignmentByID(id string) (assessment.Assignment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if a, ok := repo.db.assignments[id]; ok {
		return *a, nil
	}
	return assessment.Assignment{}, assessment.ErrAssignmentNotFound
}

func (repo *assessmentRepo) FilterAssignments(scope policy.Scope, filter assessment.QueryFilter) ([]assessment.Assignment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	as := make([]assessment.Assignment, 0)
	for _, a := range repo.db.assignments {
		switch {
		case scope.All:
		case scope.FacultyID != "":
			if repo.db.courseFaculty(a.CourseID) != scope.FacultyID {
				continue
			}
		case scope.StudentID != "":
			if !repo.db.enrolledIn(scope.StudentID, a.CourseID) || a.Status == assessment.AssignmentDraft {
				continue
			}
		default:
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(a.Title), filter.Search) &&
			!strings.Contains(strings.ToLower(a.Description), filter.Search) {
			continue
		}
		if filter.CourseID != "" && a.CourseID != filter.CourseID {
			continue
		}
		if filter.AssignmentStatus != "" && a.Status != filter.AssignmentStatus {
			continue
		}
		if !filter.DueFrom.IsZero() && a.DueDate.Before(filter.DueFrom) {
			continue
		}
		if !filter.DueTo.IsZero() && a.DueDate.After(filter.DueTo) {
			continue
		}
		as = append(as, *a)
	}
	return as, nil
}

func (repo *assessmentRepo) UpdateAssignment(a assessment.Assignment) (assessment.Assignment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	existing, ok := repo.db.assignments[a.ID]
	if !ok {
		return assessment.Assignment{}, assessment.ErrAssignmentNotFound
	}
	*existing = a
	return *existing, nil
}

func (repo *assessmentRepo) DeleteAssignmentsByID(ids ...string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, id := range ids {
		delete(repo.db.assignments, id)
	}
	return nil
}

func (repo *assessmentRepo) CreateSubmission(s assessment.Submission) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, existing := range repo.db.submissions {
		if existing.StudentID == s.StudentID && existing.AssignmentID == s.AssignmentID {
			return assessment.ErrSubmissionExists
		}
	}
	repo.db.submissions[s.ID] = &s
	return nil
}

func (repo *assessmentRepo) GetSubmissionByID(id string) (assessment.Submission, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if s, ok := repo.db.submissions[id]; ok {
		return *s, nil
	}
	return assessment.Submission{}, assessment.ErrSubmissionNotFound
}

func (repo *assessmentRepo) FilterSubmissions(scope policy.Scope, filter assessment.QueryFilter) ([]assessment.Submission, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	assignmentFaculty := func(assignmentID string) string {
		if a, ok := repo.db.assignments[assignmentID]; ok {
			return repo.db.courseFaculty(a.CourseID)
		}
		return ""
	}

	ss := make([]assessment.Submission, 0)
	for _, s := range repo.db.submissions {
		switch {
		case scope.All:
		case scope.FacultyID != "":
			if assignmentFaculty(s.AssignmentID) != scope.FacultyID {
				continue
			}
		case scope.StudentID != "":
			if s.StudentID != scope.StudentID {
				continue
			}
		default:
			continue
		}
		if filter.AssignmentID != "" && s.AssignmentID != filter.AssignmentID {
			continue
		}
		if filter.StudentID != "" && s.StudentID != filter.StudentID {
			continue
		}
		if filter.SubmissionStatus != "" && s.Status != filter.SubmissionStatus {
			continue
		}
		ss = append(ss, *s)
	}
	return ss, nil
}

func (repo *assessmentRepo) UpdateSubmission(s assessment.Submission) (assessment.Submission, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	existing, ok := repo.db.submissions[s.ID]
	if !ok {
		return assessment.Submission{}, assessment.ErrSubmissionNotFound
	}
	*existing = s
	return *existing, nil
}

func (repo *assessmentRepo) PerformanceStatsFor(studentID, courseID string) (assessment.PerformanceStats, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var stats assessment.PerformanceStats

	var pctSum float64
	var attCount int
	for _, att := range repo.db.attendance {
		if att.StudentID != studentID {
			continue
		}
		s, ok := repo.db.sessions[att.SessionID]
		if !ok || s.CourseID != courseID {
			continue
		}
		pctSum += att.AttendancePercentage
		stats.FocusMinutes += att.ActiveMinutes
		attCount++
	}
	if attCount > 0 {
		stats.AttendancePercentage = pctSum / float64(attCount)
	}

	var scoreSum float64
	var scoreCount int
	for _, sub := range repo.db.submissions {
		if sub.StudentID != studentID || sub.Status != assessment.SubmissionGraded {
			continue
		}
		a, ok := repo.db.assignments[sub.AssignmentID]
		if !ok || a.CourseID != courseID {
			continue
		}
		scoreSum += sub.Score.Float64
		scoreCount++
	}
	if scoreCount > 0 {
		stats.AverageScore = scoreSum / float64(scoreCount)
	}

	for _, v := range repo.db.violations {
		if v.StudentID != studentID {
			continue
		}
		if s, ok := repo.db.sessions[v.SessionID]; ok && s.CourseID == courseID {
			stats.ViolationCount++
		}
	}
	return stats, nil
}

func (repo *assessmentRepo) UpsertPerformance(p assessment.StudentPerformance) (assessment.StudentPerformance, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, existing := range repo.db.performance {
		if existing.StudentID == p.StudentID && existing.CourseID == p.CourseID {
			p.ID = existing.ID
			*existing = p
			return *existing, nil
		}
	}
	repo.db.performance[p.ID] = &p
	return p, nil
}

func (repo *assessmentRepo) GetPerformanceByID(id string) (assessment.StudentPerformance, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if p, ok := repo.db.performance[id]; ok {
		return *p, nil
	}
	return assessment.StudentPerformance{}, assessment.ErrPerformanceNotFound
}

func (repo *assessmentRepo) FilterPerformance(scope policy.Scope, filter assessment.QueryFilter) ([]assessment.StudentPerformance, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	ps := make([]assessment.StudentPerformance, 0)
	for _, p := range repo.db.performance {
		switch {
		case scope.All:
		case scope.FacultyID != "":
			if repo.db.courseFaculty(p.CourseID) != scope.FacultyID {
				continue
			}
		case scope.StudentID != "":
			if p.StudentID != scope.StudentID {
				continue
			}
		default:
			continue
		}
		if filter.CourseID != "" && p.CourseID != filter.CourseID {
			continue
		}
		if filter.StudentID != "" && p.StudentID != filter.StudentID {
			continue
		}
		ps = append(ps, *p)
	}
	return ps, nil
}
