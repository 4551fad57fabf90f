package runner

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/Venkatesan-2007/innertia/core"
	"github.com/Venkatesan-2007/innertia/core/classroom"
	"github.com/Venkatesan-2007/innertia/core/policy"
)

var (
	ErrRunNotFound     = errors.New("compiler submission not found")
	ErrJavaUnsupported = errors.New("java execution is not supported")
)

func init() {
	_ = core.Validate.RegisterValidation("language", func(fl validator.FieldLevel) bool {
		return Language(fl.Field().String()).Valid()
	})
	core.RegisterCustomTranslation("language", "invalid language")
}

type Repository interface {
	CreateRun(cs CompilerSubmission) error
	GetRunByID(id string) (CompilerSubmission, error)
	FilterRuns(scope policy.Scope, filter QueryFilter) ([]CompilerSubmission, error)
}

type Service struct {
	repo     Repository
	classSvc *classroom.Service
	log      core.Logger
}

func NewService(repo Repository, classSvc *classroom.Service, log core.Logger) *Service {
	return &Service{repo: repo, classSvc: classSvc, log: log}
}

// Execute runs a snippet under the language's interpreter with a hard
// per-language timeout. Java needs a compile step and is rejected up front.
// When the request names a session that exists, the run is recorded against
// it; a dangling session reference skips recording rather than failing the
// run.
func (svc *Service) Execute(ctx context.Context, studentID string, ec ExecuteCode) (Result, error) {
	var cmd func(ctx context.Context) *exec.Cmd
	var timeout = core.Conf.Runner.JavascriptTimeout

	switch ec.Language {
	case Python:
		timeout = core.Conf.Runner.PythonTimeout
		cmd = func(ctx context.Context) *exec.Cmd {
			return exec.CommandContext(ctx, "python3", "-c", ec.Code)
		}
	case Javascript:
		cmd = func(ctx context.Context) *exec.Cmd {
			return exec.CommandContext(ctx, "node", "-e", ec.Code)
		}
	case Java:
		return Result{}, core.NewValidationError(ErrJavaUnsupported, core.FieldError{Field: "language", Error: ErrJavaUnsupported.Error()})
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	c := cmd(runCtx)
	c.Stdout = &stdout
	c.Stderr = &stderr

	started := classroom.NowFunc()
	err := c.Run()
	elapsed := classroom.NowFunc().Sub(started).Seconds()

	res := Result{
		Language:      ec.Language,
		Stdout:        stdout.String(),
		Stderr:        stderr.String(),
		Status:        RunExecuted,
		ExecutionTime: elapsed,
	}
	switch {
	case runCtx.Err() == context.DeadlineExceeded:
		res.Status = RunTimeout
		res.Stderr = "execution timed out"
	case err != nil:
		res.Status = RunFailed
		if exitErr, ok := err.(*exec.ExitError); ok {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.ExitCode = -1
			res.Stderr = err.Error()
		}
	}

	svc.record(studentID, ec, res)
	return res, nil
}

func (svc *Service) record(studentID string, ec ExecuteCode, res Result) {
	if ec.SessionID == "" {
		return
	}
	if _, err := svc.classSvc.GetSessionByID(ec.SessionID); err != nil {
		return
	}

	cs := CompilerSubmission{
		ID:            uuid.NewString(),
		StudentID:     studentID,
		SessionID:     ec.SessionID,
		Language:      ec.Language,
		Code:          ec.Code,
		Stdout:        res.Stdout,
		Stderr:        res.Stderr,
		ExecutionTime: res.ExecutionTime,
		Status:        res.Status,
		ExecutedAt:    null.TimeFrom(classroom.NowFunc()),
	}
	if err := svc.repo.CreateRun(cs); err != nil {
		svc.log.Error("failed to record compiler submission", err)
	}
}

func (svc *Service) GetRunByID(id string) (CompilerSubmission, error) {
	return svc.repo.GetRunByID(id)
}

func (svc *Service) FilterRuns(scope policy.Scope, filter QueryFilter) ([]CompilerSubmission, error) {
	return svc.repo.FilterRuns(scope, filter)
}
