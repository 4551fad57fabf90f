package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Venkatesan-2007/innertia/core/classroom"
	"github.com/Venkatesan-2007/innertia/core/policy"
)

// proctorApi exposes the in-session monitoring surface: focus telemetry,
// violations and screen locks.
type proctorApi struct {
	svc *classroom.Service
}

func registerProctorAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *classroom.Service) {
	api := proctorApi{svc: svc}

	fg := g.Group("/focus-logs", jwt)
	fg.POST("", api.log, authorize(policy.ResourceFocusLog, policy.VerbLog))
	fg.GET("", api.queryLogs, authorize(policy.ResourceFocusLog, policy.VerbList))

	vg := g.Group("/violations", jwt)
	vg.POST("", api.report, authorize(policy.ResourceViolation, policy.VerbCreate))
	vg.GET("", api.queryViolations, authorize(policy.ResourceViolation, policy.VerbList))
	vg.GET("/:id", api.retrieveViolation, authorize(policy.ResourceViolation, policy.VerbRead))
	vg.POST("/:id/resolve", api.resolveViolation, authorize(policy.ResourceViolation, policy.VerbResolve))

	lg := g.Group("/screen-locks", jwt)
	lg.POST("/lock", api.lock, authorize(policy.ResourceScreenLock, policy.VerbLock))
	lg.POST("/unlock", api.unlock, authorize(policy.ResourceScreenLock, policy.VerbUnlock))
	lg.GET("", api.queryLocks, authorize(policy.ResourceScreenLock, policy.VerbList))
}

// Focus logs

func (api *proctorApi) log(ctx echo.Context) error {
	var data classroom.NewFocusLog
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFocusLog")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	fl, err := api.svc.LogFocusEvent(actor.ID, data)
	if err != nil {
		return errors.Wrap(err, "logging focus event")
	}
	return ctx.JSON(http.StatusCreated, fl)
}

func (api *proctorApi) queryLogs(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	filter := new(classroom.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []classroom.FocusLog{})
	}
	filter.Clean()

	logs, err := api.svc.FilterFocusLogs(policy.ScopeFor(actor), *filter)
	if err != nil {
		return errors.Wrap(err, "querying focus logs")
	}
	if logs == nil {
		logs = []classroom.FocusLog{}
	}
	return ctx.JSON(http.StatusOK, logs)
}

// Violations

func (api *proctorApi) report(ctx echo.Context) error {
	var data classroom.NewViolation
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewViolation")
	}

	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	// the proctoring client reports against its own student only
	if actor.IsStudent() {
		if data.StudentID != "" && data.StudentID != actor.ID {
			return errHttpForbidden
		}
		data.StudentID = actor.ID
	}
	if err := data.Validate(); err != nil {
		return err
	}

	v, err := api.svc.ReportViolation(data)
	if err != nil {
		return errors.Wrap(err, "reporting violation")
	}
	return ctx.JSON(http.StatusCreated, v)
}

func (api *proctorApi) queryViolations(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	filter := new(classroom.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []classroom.Violation{})
	}
	filter.Clean()

	violations, err := api.svc.FilterViolations(policy.ScopeFor(actor), *filter)
	if err != nil {
		return errors.Wrap(err, "querying violations")
	}
	if violations == nil {
		violations = []classroom.Violation{}
	}
	return ctx.JSON(http.StatusOK, violations)
}

func (api *proctorApi) retrieveViolation(ctx echo.Context) error {
	v, err := api.svc.GetViolationByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding violation by ID")
	}

	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	switch {
	case actor.IsAdmin():
	case actor.IsStudent():
		if !policy.Owns(actor, v.StudentID) {
			return errHttpNotFound
		}
	default:
		s, err := api.svc.GetSessionByID(v.SessionID)
		if err != nil {
			return errors.Wrap(err, "finding session by ID")
		}
		if !policy.Owns(actor, s.FacultyID) {
			return errHttpNotFound
		}
	}
	return ctx.JSON(http.StatusOK, v)
}

func (api *proctorApi) resolveViolation(ctx echo.Context) error {
	v, err := api.svc.GetViolationByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding violation by ID")
	}
	if err := api.teachesSession(ctx, v.SessionID); err != nil {
		return err
	}

	var data classroom.ResolveViolation
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResolveViolation")
	}

	v, err = api.svc.ResolveViolation(v.ID, data)
	if err != nil {
		return errors.Wrap(err, "resolving violation")
	}
	return ctx.JSON(http.StatusOK, v)
}

// Screen locks

func (api *proctorApi) lock(ctx echo.Context) error {
	var data classroom.LockScreen
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LockScreen")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	if err := api.teachesSession(ctx, data.SessionID); err != nil {
		return err
	}

	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	lock, err := api.svc.Lock(actor, data)
	if err != nil {
		return errors.Wrap(err, "locking screen")
	}
	return ctx.JSON(http.StatusCreated, lock)
}

func (api *proctorApi) unlock(ctx echo.Context) error {
	var data classroom.UnlockScreen
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UnlockScreen")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	if err := api.teachesSession(ctx, data.SessionID); err != nil {
		return err
	}

	lock, err := api.svc.Unlock(data)
	if err != nil {
		return errors.Wrap(err, "unlocking screen")
	}
	return ctx.JSON(http.StatusOK, lock)
}

func (api *proctorApi) queryLocks(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	filter := new(classroom.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []classroom.ScreenLock{})
	}
	filter.Clean()

	locks, err := api.svc.FilterScreenLocks(policy.ScopeFor(actor), *filter)
	if err != nil {
		return errors.Wrap(err, "querying screen locks")
	}
	if locks == nil {
		locks = []classroom.ScreenLock{}
	}
	return ctx.JSON(http.StatusOK, locks)
}

// teachesSession mirrors classroomApi.teachesSession for the proctoring
// endpoints.
func (api *proctorApi) teachesSession(ctx echo.Context, sessionID string) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	s, err := api.svc.GetSessionByID(sessionID)
	if err != nil {
		return errors.Wrap(err, "finding session by ID")
	}
	if !policy.Teaches(actor, s.FacultyID) {
		return errHttpForbidden
	}
	return nil
}
