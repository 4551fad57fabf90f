package classroom

import (
	"time"

	"github.com/volatiletech/null/v8"
	"gorm.io/datatypes"

	"github.com/Venkatesan-2007/innertia/core"
)

type SessionStatus string

const (
	SessionScheduled SessionStatus = "scheduled"
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

func (s SessionStatus) Valid() bool {
	switch s {
	case SessionScheduled, SessionActive, SessionCompleted, SessionCancelled:
		return true
	}
	return false
}

// CanTransition reports whether the linear session lifecycle admits a move
// from s to next: scheduled→active→completed, with cancelled reachable from
// scheduled or active.
func (s SessionStatus) CanTransition(next SessionStatus) bool {
	switch s {
	case SessionScheduled:
		return next == SessionActive || next == SessionCancelled
	case SessionActive:
		return next == SessionCompleted || next == SessionCancelled
	case SessionCompleted, SessionCancelled:
		return false
	}
	return false
}

type ClassSession struct {
	ID              string        `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID        string        `gorm:"type:uuid;index" json:"course_id"`
	FacultyID       string        `gorm:"type:uuid;index" json:"faculty_id"`
	SessionDate     time.Time     `json:"session_date"`
	DurationMinutes int           `json:"duration_minutes"`
	Topic           string        `gorm:"size:255" json:"topic"`
	Status          SessionStatus `gorm:"size:20" json:"status"`
	SessionNotes    string        `json:"session_notes"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

func (ClassSession) TableName() string { return "class_sessions" }

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
		return true
	}
	return false
}

type Attendance struct {
	ID                   string           `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID            string           `gorm:"type:uuid;uniqueIndex:idx_attendance_student_session" json:"student_id"`
	SessionID            string           `gorm:"type:uuid;uniqueIndex:idx_attendance_student_session;index" json:"session_id"`
	Status               AttendanceStatus `gorm:"size:20" json:"status"`
	ActiveMinutes        int              `json:"active_minutes"`
	TotalMinutes         int              `json:"total_minutes"`
	AttendancePercentage float64          `json:"attendance_percentage"`
	CheckInTime          null.Time        `json:"check_in_time"`
	CheckOutTime         null.Time        `json:"check_out_time"`
	RecordedAt           time.Time        `json:"recorded_at"`
}

func (Attendance) TableName() string { return "attendance" }

type FocusEventType string

const (
	FocusGained    FocusEventType = "focus_gained"
	FocusLost      FocusEventType = "focus_lost"
	FullscreenExit FocusEventType = "fullscreen_exit"
	AltTab         FocusEventType = "alt_tab"
	AppSwitch      FocusEventType = "app_switch"
	Minimized      FocusEventType = "minimized"
)

func (t FocusEventType) Valid() bool {
	switch t {
	case FocusGained, FocusLost, FullscreenExit, AltTab, AppSwitch, Minimized:
		return true
	}
	return false
}

// FocusLog rows are append-only telemetry; nothing updates or deletes them.
type FocusLog struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID string         `gorm:"type:uuid;index:idx_focus_logs_student_session" json:"student_id"`
	SessionID string         `gorm:"type:uuid;index:idx_focus_logs_student_session" json:"session_id"`
	EventType FocusEventType `gorm:"size:50" json:"event_type"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  datatypes.JSON `json:"metadata"`
}

func (FocusLog) TableName() string { return "focus_logs" }

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Violation rows are append-only except for resolution.
type Violation struct {
	ID              string    `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID       string    `gorm:"type:uuid;index:idx_violations_student_session" json:"student_id"`
	SessionID       string    `gorm:"type:uuid;index:idx_violations_student_session" json:"session_id"`
	ViolationType   string    `gorm:"size:100" json:"violation_type"`
	Severity        Severity  `gorm:"size:20" json:"severity"`
	Description     string    `json:"description"`
	Timestamp       time.Time `json:"timestamp"`
	IsResolved      bool      `gorm:"index" json:"is_resolved"`
	ResolutionNotes string    `json:"resolution_notes"`
}

func (Violation) TableName() string { return "violations" }

// ScreenLock is an actor-imposed, session-scoped lock. At most one row per
// (student, session) is locked at a time; prior locks stay as history.
type ScreenLock struct {
	ID         string      `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID  string      `gorm:"type:uuid;index:idx_screen_locks_student_session" json:"student_id"`
	SessionID  string      `gorm:"type:uuid;index:idx_screen_locks_student_session" json:"session_id"`
	LockedByID null.String `gorm:"type:uuid" json:"locked_by_id"`
	IsLocked   bool        `json:"is_locked"`
	LockedAt   time.Time   `json:"locked_at"`
	UnlockedAt null.Time   `json:"unlocked_at"`
	Reason     string      `json:"reason"`
}

func (ScreenLock) TableName() string { return "screen_locks" }

// SessionReport is a materialized aggregate over a session's attendance and
// violation rows, recomputed on demand rather than maintained incrementally.
type SessionReport struct {
	ID                          string    `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID                   string    `gorm:"type:uuid;uniqueIndex" json:"session_id"`
	TotalStudents               int       `json:"total_students"`
	PresentCount                int       `json:"present_count"`
	AbsentCount                 int       `json:"absent_count"`
	AverageAttendancePercentage float64   `json:"average_attendance_percentage"`
	ViolationCount              int       `json:"violation_count"`
	FocusDurationMinutes        int       `json:"focus_duration_minutes"`
	GeneratedAt                 time.Time `json:"generated_at"`
}

func (SessionReport) TableName() string { return "session_reports" }

// NewSession contains information needed to schedule a new ClassSession.
type NewSession struct {
	CourseID        string    `json:"course_id" validate:"required,uuid4"`
	SessionDate     time.Time `json:"session_date" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"omitempty,min=1"`
	Topic           string    `json:"topic" validate:"required,notblank,max=255"`
	SessionNotes    string    `json:"session_notes"`
}

func (ns *NewSession) Validate() error {
	ns.Topic = core.CleanString(ns.Topic)
	if ns.DurationMinutes == 0 {
		ns.DurationMinutes = 60
	}
	return core.Validate.Struct(ns)
}

type UpdateSession struct {
	SessionDate     time.Time     `json:"session_date"`
	DurationMinutes int           `json:"duration_minutes" validate:"omitempty,min=1"`
	Topic           string        `json:"topic"`
	Status          SessionStatus `json:"status" validate:"omitempty,session_status"`
	SessionNotes    string        `json:"session_notes"`
}

func (us *UpdateSession) Validate() error {
	us.Topic = core.CleanString(us.Topic)
	return core.Validate.Struct(us)
}

// MarkAttendance identifies the (student, session) record to upsert. The
// caller-supplied status is a hint only: once the focus percentage is known
// it is overridden by the derived status.
type MarkAttendance struct {
	StudentID string           `json:"student_id" validate:"required,uuid4"`
	SessionID string           `json:"session_id" validate:"required,uuid4"`
	Status    AttendanceStatus `json:"status" validate:"omitempty,attendance_status"`
}

func (ma *MarkAttendance) Validate() error {
	if ma.Status == "" {
		ma.Status = AttendancePresent
	}
	return core.Validate.Struct(ma)
}

type UpdateAttendance struct {
	ActiveMinutes int       `json:"active_minutes" validate:"omitempty,min=0"`
	CheckOutTime  null.Time `json:"check_out_time"`
}

func (ua *UpdateAttendance) Validate() error {
	return core.Validate.Struct(ua)
}

// NewFocusLog contains a single focus telemetry event; the student is always
// the calling actor.
type NewFocusLog struct {
	SessionID string         `json:"session_id" validate:"required,uuid4"`
	EventType FocusEventType `json:"event_type" validate:"required,focus_event"`
	Metadata  datatypes.JSON `json:"metadata"`
}

func (nf *NewFocusLog) Validate() error {
	return core.Validate.Struct(nf)
}

type NewViolation struct {
	StudentID     string   `json:"student_id" validate:"required,uuid4"`
	SessionID     string   `json:"session_id" validate:"required,uuid4"`
	ViolationType string   `json:"violation_type" validate:"required,notblank,max=100"`
	Severity      Severity `json:"severity" validate:"omitempty,severity"`
	Description   string   `json:"description"`
}

func (nv *NewViolation) Validate() error {
	nv.ViolationType = core.CleanString(nv.ViolationType, true /* lower */)
	if nv.Severity == "" {
		nv.Severity = SeverityMedium
	}
	return core.Validate.Struct(nv)
}

type ResolveViolation struct {
	ResolutionNotes string `json:"resolution_notes"`
}

// LockScreen identifies the (student, session) pair to lock.
type LockScreen struct {
	StudentID string `json:"student_id" validate:"required,uuid4"`
	SessionID string `json:"session_id" validate:"required,uuid4"`
	Reason    string `json:"reason"`
}

func (ls *LockScreen) Validate() error {
	return core.Validate.Struct(ls)
}

type UnlockScreen struct {
	StudentID string `json:"student_id" validate:"required,uuid4"`
	SessionID string `json:"session_id" validate:"required,uuid4"`
}

func (us *UnlockScreen) Validate() error {
	return core.Validate.Struct(us)
}

type GenerateReport struct {
	SessionID string `json:"session_id" validate:"required,uuid4"`
}

func (gr *GenerateReport) Validate() error {
	return core.Validate.Struct(gr)
}

type QueryFilter struct {
	Search    string `query:"search"`
	CourseID  string `query:"course_id"`
	SessionID string `query:"session_id"`
	StudentID string `query:"student_id"`

	SessionStatus    SessionStatus    `query:"status"`
	AttendanceStatus AttendanceStatus `query:"attendance_status"`
	EventType        FocusEventType   `query:"event_type"`
	Severity         Severity         `query:"severity"`
	IsResolved       *bool            `query:"is_resolved"`
	IsLocked         *bool            `query:"is_locked"`
	DateFrom         time.Time        `query:"date_from"`
	DateTo           time.Time        `query:"date_to"`
}

func (f *QueryFilter) Clean() {
	f.Search = core.CleanString(f.Search, true /* lower */)
}
