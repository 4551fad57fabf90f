package database

import (
	"strings"

	"gorm.io/gorm"

	"github.com/Venkatesan-2007/innertia/core/assessment"
	"github.com/Venkatesan-2007/innertia/core/policy"
)

type assessmentRepo struct {
	db *gorm.DB
}

var _ assessment.Repository = (*assessmentRepo)(nil)

func NewAssessmentRepository(db *gorm.DB) assessment.Repository {
	return &assessmentRepo{db: db}
}

func (repo *assessmentRepo) CreateAssignment(a assessment.Assignment) error {
	return repo.db.Create(&a).Error
}

func (repo *assessmentRepo) GetAssignmentByID(id string) (assessment.Assignment, error) {
	var a assessment.Assignment
	err := repo.db.First(&a, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return assessment.Assignment{}, assessment.ErrAssignmentNotFound
	}
	return a, err
}

func (repo *assessmentRepo) FilterAssignments(scope policy.Scope, filter assessment.QueryFilter) ([]assessment.Assignment, error) {
	q := repo.db.Model(&assessment.Assignment{})
	switch {
	case scope.All:
	case scope.FacultyID != "":
		q = q.Joins("JOIN courses ON courses.id = assignments.course_id").
			Where("courses.faculty_id = ?", scope.FacultyID)
	case scope.StudentID != "":
		// students see published assignments of their enrolled courses
		q = q.Joins("JOIN enrollments ON enrollments.course_id = assignments.course_id").
			Where("enrollments.student_id = ?", scope.StudentID).
			Where("assignments.status <> ?", assessment.AssignmentDraft)
	default:
		q = none(q)
	}
	if filter.Search != "" {
		needle := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("LOWER(assignments.title) LIKE ? OR LOWER(assignments.description) LIKE ?", needle, needle)
	}
	if filter.CourseID != "" {
		q = q.Where("assignments.course_id = ?", filter.CourseID)
	}
	if filter.AssignmentStatus != "" {
		q = q.Where("assignments.status = ?", filter.AssignmentStatus)
	}
	if !filter.DueFrom.IsZero() {
		q = q.Where("assignments.due_date >= ?", filter.DueFrom)
	}
	if !filter.DueTo.IsZero() {
		q = q.Where("assignments.due_date <= ?", filter.DueTo)
	}

	var as []assessment.Assignment
	err := q.Order("assignments.due_date DESC").Find(&as).Error
	return as, err
}

func (repo *assessmentRepo) UpdateAssignment(a assessment.Assignment) (assessment.Assignment, error) {
	res := repo.db.Model(&assessment.Assignment{}).Where("id = ?", a.ID).Updates(&a)
	if res.Error != nil {
		return assessment.Assignment{}, res.Error
	}
	if res.RowsAffected == 0 {
		return assessment.Assignment{}, assessment.ErrAssignmentNotFound
	}
	return repo.GetAssignmentByID(a.ID)
}

func (repo *assessmentRepo) DeleteAssignmentsByID(ids ...string) error {
	return repo.db.Delete(&assessment.Assignment{}, "id IN ?", ids).Error
}

func (repo *assessmentRepo) CreateSubmission(s assessment.Submission) error {
	err := repo.db.Create(&s).Error
	if err == gorm.ErrDuplicatedKey {
		return assessment.ErrSubmissionExists
	}
	return err
}

func (repo *assessmentRepo) GetSubmissionByID(id string) (assessment.Submission, error) {
	var s assessment.Submission
	err := repo.db.First(&s, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return assessment.Submission{}, assessment.ErrSubmissionNotFound
	}
	return s, err
}

func (repo *assessmentRepo) FilterSubmissions(scope policy.Scope, filter assessment.QueryFilter) ([]assessment.Submission, error) {
	q := repo.db.Model(&assessment.Submission{})
	switch {
	case scope.All:
	case scope.FacultyID != "":
		q = q.Joins("JOIN assignments ON assignments.id = submissions.assignment_id").
			Joins("JOIN courses ON courses.id = assignments.course_id").
			Where("courses.faculty_id = ?", scope.FacultyID)
	case scope.StudentID != "":
		q = q.Where("submissions.student_id = ?", scope.StudentID)
	default:
		q = none(q)
	}
	if filter.AssignmentID != "" {
		q = q.Where("submissions.assignment_id = ?", filter.AssignmentID)
	}
	if filter.StudentID != "" {
		q = q.Where("submissions.student_id = ?", filter.StudentID)
	}
	if filter.SubmissionStatus != "" {
		q = q.Where("submissions.status = ?", filter.SubmissionStatus)
	}

	var ss []assessment.Submission
	err := q.Order("submissions.submitted_at DESC").Find(&ss).Error
	return ss, err
}

func (repo *assessmentRepo) UpdateSubmission(s assessment.Submission) (assessment.Submission, error) {
	res := repo.db.Model(&assessment.Submission{}).Where("id = ?", s.ID).Updates(&s)
	if res.Error != nil {
		return assessment.Submission{}, res.Error
	}
	if res.RowsAffected == 0 {
		return assessment.Submission{}, assessment.ErrSubmissionNotFound
	}
	return repo.GetSubmissionByID(s.ID)
}

// PerformanceStatsFor runs the four aggregates the rollup needs. Attendance
// and focus figures come from sessions of the course; scores from graded
// submissions of the course's assignments.
func (repo *assessmentRepo) PerformanceStatsFor(studentID, courseID string) (assessment.PerformanceStats, error) {
	var stats assessment.PerformanceStats

	type attRow struct {
		AvgPct       float64
		FocusMinutes int
	}
	var att attRow
	err := repo.db.Table("attendance").
		Select("COALESCE(AVG(attendance.attendance_percentage), 0) AS avg_pct, COALESCE(SUM(attendance.active_minutes), 0) AS focus_minutes").
		Joins("JOIN class_sessions ON class_sessions.id = attendance.session_id").
		Where("attendance.student_id = ? AND class_sessions.course_id = ?", studentID, courseID).
		Scan(&att).Error
	if err != nil {
		return stats, err
	}
	stats.AttendancePercentage = att.AvgPct
	stats.FocusMinutes = att.FocusMinutes

	var avgScore float64
	err = repo.db.Table("submissions").
		Select("COALESCE(AVG(submissions.score), 0)").
		Joins("JOIN assignments ON assignments.id = submissions.assignment_id").
		Where("submissions.student_id = ? AND assignments.course_id = ? AND submissions.status = ?",
			studentID, courseID, assessment.SubmissionGraded).
		Scan(&avgScore).Error
	if err != nil {
		return stats, err
	}
	stats.AverageScore = avgScore

	var violations int64
	err = repo.db.Table("violations").
		Joins("JOIN class_sessions ON class_sessions.id = violations.session_id").
		Where("violations.student_id = ? AND class_sessions.course_id = ?", studentID, courseID).
		Count(&violations).Error
	if err != nil {
		return stats, err
	}
	stats.ViolationCount = int(violations)

	return stats, nil
}

func (repo *assessmentRepo) UpsertPerformance(p assessment.StudentPerformance) (assessment.StudentPerformance, error) {
	err := repo.db.Transaction(func(tx *gorm.DB) error {
		var existing assessment.StudentPerformance
		err := tx.Where("student_id = ? AND course_id = ?", p.StudentID, p.CourseID).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			return tx.Create(&p).Error
		}
		if err != nil {
			return err
		}
		p.ID = existing.ID
		return tx.Model(&assessment.StudentPerformance{}).Where("id = ?", p.ID).
			Select("total_attendance_percentage", "average_assignment_score",
				"violation_count", "total_focus_hours", "last_updated").
			Updates(&p).Error
	})
	if err != nil {
		return assessment.StudentPerformance{}, err
	}
	return p, nil
}

func (repo *assessmentRepo) GetPerformanceByID(id string) (assessment.StudentPerformance, error) {
	var p assessment.StudentPerformance
	err := repo.db.First(&p, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return assessment.StudentPerformance{}, assessment.ErrPerformanceNotFound
	}
	return p, err
}

func (repo *assessmentRepo) FilterPerformance(scope policy.Scope, filter assessment.QueryFilter) ([]assessment.StudentPerformance, error) {
	q := repo.db.Model(&assessment.StudentPerformance{})
	switch {
	case scope.All:
	case scope.FacultyID != "":
		q = q.Joins("JOIN courses ON courses.id = student_performance.course_id").
			Where("courses.faculty_id = ?", scope.FacultyID)
	case scope.StudentID != "":
		q = q.Where("student_performance.student_id = ?", scope.StudentID)
	default:
		q = none(q)
	}
	if filter.CourseID != "" {
		q = q.Where("student_performance.course_id = ?", filter.CourseID)
	}
	if filter.StudentID != "" {
		q = q.Where("student_performance.student_id = ?", filter.StudentID)
	}

	var ps []assessment.StudentPerformance
	err := q.Order("student_performance.last_updated DESC").Find(&ps).Error
	return ps, err
}
