package classroom

import (
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/Venkatesan-2007/innertia/core/policy"
)

// Attendance thresholds, in percent of session duration spent focused.
const (
	PresentThreshold = 80.0
	LateThreshold    = 50.0
)

// Percentage computes the focus percentage for active minutes over a session
// duration, clamped to [0, 100]. A zero or negative duration yields 0 rather
// than a division error.
func Percentage(activeMinutes, durationMinutes int) float64 {
	if durationMinutes <= 0 {
		return 0
	}
	pct := float64(activeMinutes) / float64(durationMinutes) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// StatusFor derives the attendance status from a focus percentage.
func StatusFor(pct float64) AttendanceStatus {
	switch {
	case pct >= PresentThreshold:
		return AttendancePresent
	case pct >= LateThreshold:
		return AttendanceLate
	default:
		return AttendanceAbsent
	}
}

// MarkAttendance upserts the attendance record for a (student, session) pair
// and recomputes its percentage and status from the session duration. The
// check-in time is set only when the record is first created. The derived
// status always wins over the caller-supplied one.
func (svc *Service) MarkAttendance(ma MarkAttendance) (Attendance, error) {
	s, err := svc.repo.GetSessionByID(ma.SessionID)
	if err != nil {
		return Attendance{}, err
	}
	if err := svc.checkStudent(ma.StudentID); err != nil {
		return Attendance{}, err
	}

	now := NowFunc()
	att, _, err := svc.repo.GetOrCreateAttendance(Attendance{
		ID:          uuid.NewString(),
		StudentID:   ma.StudentID,
		SessionID:   ma.SessionID,
		Status:      ma.Status,
		CheckInTime: null.TimeFrom(now),
		RecordedAt:  now,
	})
	if err != nil {
		return Attendance{}, err
	}

	att.TotalMinutes = s.DurationMinutes
	att.AttendancePercentage = Percentage(att.ActiveMinutes, s.DurationMinutes)
	att.Status = StatusFor(att.AttendancePercentage)
	return svc.repo.UpdateAttendance(att)
}

// UpdateAttendanceRecord records focus minutes reported for an existing
// attendance record and re-derives its percentage and status.
func (svc *Service) UpdateAttendanceRecord(id string, ua UpdateAttendance) (Attendance, error) {
	att, err := svc.repo.GetAttendanceByID(id)
	if err != nil {
		return Attendance{}, err
	}
	s, err := svc.repo.GetSessionByID(att.SessionID)
	if err != nil {
		return Attendance{}, err
	}

	if ua.ActiveMinutes > 0 {
		att.ActiveMinutes = ua.ActiveMinutes
	}
	if ua.CheckOutTime.Valid {
		att.CheckOutTime = ua.CheckOutTime
	}
	att.TotalMinutes = s.DurationMinutes
	att.AttendancePercentage = Percentage(att.ActiveMinutes, s.DurationMinutes)
	att.Status = StatusFor(att.AttendancePercentage)
	return svc.repo.UpdateAttendance(att)
}

func (svc *Service) GetAttendanceByID(id string) (Attendance, error) {
	return svc.repo.GetAttendanceByID(id)
}

func (svc *Service) FilterAttendance(scope policy.Scope, filter QueryFilter) ([]Attendance, error) {
	filter.Clean()
	return svc.repo.FilterAttendance(scope, filter)
}

func (svc *Service) DeleteAttendance(ids ...string) error {
	return svc.repo.DeleteAttendanceByID(ids...)
}

// GenerateSessionReport recomputes the aggregate report for a session from
// its current attendance and violation rows and stores it, replacing any
// previous report. Generating twice without new data yields the same report.
func (svc *Service) GenerateSessionReport(sessionID string) (SessionReport, error) {
	if _, err := svc.repo.GetSessionByID(sessionID); err != nil {
		return SessionReport{}, err
	}

	atts, err := svc.repo.AttendanceBySession(sessionID)
	if err != nil {
		return SessionReport{}, err
	}
	violations, err := svc.repo.CountViolationsBySession(sessionID)
	if err != nil {
		return SessionReport{}, err
	}

	report := SessionReport{
		ID:             uuid.NewString(),
		SessionID:      sessionID,
		TotalStudents:  len(atts),
		ViolationCount: violations,
		GeneratedAt:    NowFunc(),
	}
	var pctSum float64
	for _, att := range atts {
		// late students count toward the total only
		switch att.Status {
		case AttendancePresent:
			report.PresentCount++
		case AttendanceAbsent:
			report.AbsentCount++
		}
		pctSum += att.AttendancePercentage
		report.FocusDurationMinutes += att.ActiveMinutes
	}
	if len(atts) > 0 {
		report.AverageAttendancePercentage = pctSum / float64(len(atts))
	}
	return svc.repo.UpsertSessionReport(report)
}

func (svc *Service) GetSessionReportByID(id string) (SessionReport, error) {
	return svc.repo.GetSessionReportByID(id)
}

func (svc *Service) FilterSessionReports(scope policy.Scope, filter QueryFilter) ([]SessionReport, error) {
	filter.Clean()
	return svc.repo.FilterSessionReports(scope, filter)
}
