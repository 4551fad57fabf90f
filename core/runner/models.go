package runner

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/Venkatesan-2007/innertia/core"
)

type Language string

const (
	Python     Language = "python"
	Javascript Language = "javascript"
	Java       Language = "java"
)

func (l Language) Valid() bool {
	switch l {
	case Python, Javascript, Java:
		return true
	}
	return false
}

type RunStatus string

const (
	RunPending  RunStatus = "pending"
	RunExecuted RunStatus = "executed"
	RunFailed   RunStatus = "failed"
	RunTimeout  RunStatus = "timeout"
)

// CompilerSubmission records one sandboxed execution tied to a session.
// Ad hoc runs with no session are executed but not stored.
type CompilerSubmission struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID     string    `gorm:"type:uuid;index:idx_compiler_student_session" json:"student_id"`
	SessionID     string    `gorm:"type:uuid;index:idx_compiler_student_session" json:"session_id"`
	Language      Language  `gorm:"size:20" json:"language"`
	Code          string    `json:"code"`
	Stdout        string    `json:"stdout"`
	Stderr        string    `json:"stderr"`
	ExecutionTime float64   `json:"execution_time"`
	Status        RunStatus `gorm:"size:20" json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	ExecutedAt    null.Time `json:"executed_at"`
}

func (CompilerSubmission) TableName() string { return "compiler_submissions" }

// ExecuteCode is a request to run a snippet; SessionID is optional and, when
// present, makes the run part of the session's record.
type ExecuteCode struct {
	Language  Language `json:"language" validate:"required,language"`
	Code      string   `json:"code" validate:"required,notblank"`
	SessionID string   `json:"session_id" validate:"omitempty,uuid4"`
}

func (ec *ExecuteCode) Validate() error {
	return core.Validate.Struct(ec)
}

// Result is the outcome of one execution.
type Result struct {
	Language      Language  `json:"language"`
	Stdout        string    `json:"stdout"`
	Stderr        string    `json:"stderr"`
	ExitCode      int       `json:"exitcode"`
	Status        RunStatus `json:"status"`
	ExecutionTime float64   `json:"execution_time"`
}

type QueryFilter struct {
	SessionID string    `query:"session_id"`
	StudentID string    `query:"student_id"`
	Language  Language  `query:"language"`
	Status    RunStatus `query:"status"`
}
