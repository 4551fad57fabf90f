package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Venkatesan-2007/innertia/core/classroom"
	"github.com/Venkatesan-2007/innertia/core/course"
	"github.com/Venkatesan-2007/innertia/core/policy"
	"github.com/Venkatesan-2007/innertia/core/user"
)

type classroomApi struct {
	svc    *classroom.Service
	crsSvc *course.Service
}

func registerClassroomAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *classroom.Service, crsSvc *course.Service) {
	api := classroomApi{svc: svc, crsSvc: crsSvc}

	sg := g.Group("/sessions", jwt)
	sg.POST("", api.create, authorize(policy.ResourceSession, policy.VerbCreate))
	sg.GET("", api.query, authorize(policy.ResourceSession, policy.VerbList))
	sg.GET("/:id", api.retrieve, authorize(policy.ResourceSession, policy.VerbRead))
	sg.PUT("/:id", api.update, authorize(policy.ResourceSession, policy.VerbUpdate))
	sg.DELETE("", api.destroyMultiple, authorize(policy.ResourceSession, policy.VerbDelete))
	sg.POST("/:id/start", api.start, authorize(policy.ResourceSession, policy.VerbStart))
	sg.POST("/:id/end", api.end, authorize(policy.ResourceSession, policy.VerbEnd))
	sg.POST("/:id/report", api.generateReport, authorize(policy.ResourceSessionReport, policy.VerbGenerate))
	sg.GET("/:id/attendance-report", api.attendanceReport, authorize(policy.ResourceAttendance, policy.VerbList))

	ag := g.Group("/attendance", jwt)
	ag.POST("", api.mark, authorize(policy.ResourceAttendance, policy.VerbMark))
	ag.GET("", api.queryAttendance, authorize(policy.ResourceAttendance, policy.VerbList))
	ag.GET("/:id", api.retrieveAttendance, authorize(policy.ResourceAttendance, policy.VerbRead))
	ag.PUT("/:id", api.updateAttendance, authorize(policy.ResourceAttendance, policy.VerbUpdate))
	ag.DELETE("", api.destroyAttendance, authorize(policy.ResourceAttendance, policy.VerbDelete))

	rg := g.Group("/session-reports", jwt)
	rg.GET("", api.queryReports, authorize(policy.ResourceSessionReport, policy.VerbList))
	rg.GET("/:id", api.retrieveReport, authorize(policy.ResourceSessionReport, policy.VerbRead))
}

// teachesSession returns errHttpForbidden unless the actor may manage the
// session's classroom (its faculty of record, or an admin).
func (api *classroomApi) teachesSession(ctx echo.Context, sessionID string) error {
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

func (api *classroomApi) create(ctx echo.Context) error {
	var data classroom.NewSession
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSession")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	// faculty may only schedule sessions for their own courses
	if crs, err := api.crsSvc.GetByID(data.CourseID); err == nil && !policy.Teaches(actor, crs.FacultyID) {
		return errHttpForbidden
	}

	s, err := api.svc.CreateSession(data)
	if err != nil {
		return errors.Wrap(err, "creating session")
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *classroomApi) query(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	filter := new(classroom.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []classroom.ClassSession{})
	}
	filter.Clean()

	sessions, err := api.svc.FilterSessions(policy.ScopeFor(actor), *filter)
	if err != nil {
		return errors.Wrap(err, "querying sessions")
	}
	if sessions == nil {
		sessions = []classroom.ClassSession{}
	}
	return ctx.JSON(http.StatusOK, sessions)
}

func (api *classroomApi) retrieve(ctx echo.Context) error {
	s, err := api.getSession(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, s)
}

// getSession resolves the route's session, hiding sessions outside the
// actor's scope behind a 404: faculty see their own sessions, students
// those of courses they are actively enrolled in.
func (api *classroomApi) getSession(ctx echo.Context) (classroom.ClassSession, error) {
	s, err := api.svc.GetSessionByID(ctx.Param("id"))
	if err != nil {
		return classroom.ClassSession{}, errors.Wrap(err, "finding session by ID")
	}

	actor, err := contextActor(ctx)
	if err != nil {
		return classroom.ClassSession{}, errors.Wrap(err, "getting context actor")
	}
	visible, err := api.sessionVisible(actor, s)
	if err != nil {
		return classroom.ClassSession{}, err
	}
	if !visible {
		return classroom.ClassSession{}, errHttpNotFound
	}
	return s, nil
}

func (api *classroomApi) sessionVisible(actor user.User, s classroom.ClassSession) (bool, error) {
	switch {
	case actor.IsAdmin():
		return true, nil
	case actor.IsStudent():
		ss, err := api.svc.FilterSessions(policy.ScopeFor(actor), classroom.QueryFilter{CourseID: s.CourseID})
		if err != nil {
			return false, errors.Wrap(err, "scoping session")
		}
		for _, v := range ss {
			if v.ID == s.ID {
				return true, nil
			}
		}
		return false, nil
	default:
		return policy.Teaches(actor, s.FacultyID), nil
	}
}

func (api *classroomApi) update(ctx echo.Context) error {
	if err := api.teachesSession(ctx, ctx.Param("id")); err != nil {
		return err
	}

	var data classroom.UpdateSession
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSession")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	s, err := api.svc.UpdateSession(ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating session")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *classroomApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	for _, id := range query.IDs {
		if err := api.teachesSession(ctx, id); err != nil {
			return err
		}
	}
	if err := api.svc.DeleteSessions(query.IDs...); err != nil {
		return errors.Wrap(err, "deleting sessions")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *classroomApi) start(ctx echo.Context) error {
	if err := api.teachesSession(ctx, ctx.Param("id")); err != nil {
		return err
	}
	s, err := api.svc.StartSession(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "starting session")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *classroomApi) end(ctx echo.Context) error {
	if err := api.teachesSession(ctx, ctx.Param("id")); err != nil {
		return err
	}
	s, err := api.svc.EndSession(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "ending session")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *classroomApi) generateReport(ctx echo.Context) error {
	if err := api.teachesSession(ctx, ctx.Param("id")); err != nil {
		return err
	}
	report, err := api.svc.GenerateSessionReport(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "generating session report")
	}
	return ctx.JSON(http.StatusOK, report)
}

// attendanceReport lists a session's attendance rows; students only ever
// see their own row through the scope.
func (api *classroomApi) attendanceReport(ctx echo.Context) error {
	s, err := api.getSession(ctx)
	if err != nil {
		return err
	}

	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	records, err := api.svc.FilterAttendance(policy.ScopeFor(actor), classroom.QueryFilter{SessionID: s.ID})
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	if records == nil {
		records = []classroom.Attendance{}
	}
	return ctx.JSON(http.StatusOK, records)
}

// Attendance

func (api *classroomApi) mark(ctx echo.Context) error {
	var data classroom.MarkAttendance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MarkAttendance")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	if err := api.teachesSession(ctx, data.SessionID); err != nil {
		return err
	}

	att, err := api.svc.MarkAttendance(data)
	if err != nil {
		return errors.Wrap(err, "marking attendance")
	}
	return ctx.JSON(http.StatusOK, att)
}

func (api *classroomApi) queryAttendance(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	filter := new(classroom.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []classroom.Attendance{})
	}
	filter.Clean()

	records, err := api.svc.FilterAttendance(policy.ScopeFor(actor), *filter)
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	if records == nil {
		records = []classroom.Attendance{}
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *classroomApi) retrieveAttendance(ctx echo.Context) error {
	att, err := api.svc.GetAttendanceByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding attendance by ID")
	}

	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	switch {
	case actor.IsAdmin():
	case actor.IsStudent():
		if !policy.Owns(actor, att.StudentID) {
			return errHttpNotFound
		}
	default:
		s, err := api.svc.GetSessionByID(att.SessionID)
		if err != nil {
			return errors.Wrap(err, "finding session by ID")
		}
		if !policy.Owns(actor, s.FacultyID) {
			return errHttpNotFound
		}
	}
	return ctx.JSON(http.StatusOK, att)
}

func (api *classroomApi) updateAttendance(ctx echo.Context) error {
	att, err := api.svc.GetAttendanceByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding attendance by ID")
	}
	if err := api.teachesSession(ctx, att.SessionID); err != nil {
		return err
	}

	var data classroom.UpdateAttendance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAttendance")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	att, err = api.svc.UpdateAttendanceRecord(att.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating attendance")
	}
	return ctx.JSON(http.StatusOK, att)
}

func (api *classroomApi) destroyAttendance(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if err := api.svc.DeleteAttendance(query.IDs...); err != nil {
		return errors.Wrap(err, "deleting attendance")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Session reports

func (api *classroomApi) queryReports(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	filter := new(classroom.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []classroom.SessionReport{})
	}
	filter.Clean()

	reports, err := api.svc.FilterSessionReports(policy.ScopeFor(actor), *filter)
	if err != nil {
		return errors.Wrap(err, "querying session reports")
	}
	if reports == nil {
		reports = []classroom.SessionReport{}
	}
	return ctx.JSON(http.StatusOK, reports)
}

func (api *classroomApi) retrieveReport(ctx echo.Context) error {
	report, err := api.svc.GetSessionReportByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding session report by ID")
	}

	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	if !actor.IsAdmin() {
		// visibility runs through the scope: a report outside it is a 404
		visible, err := api.svc.FilterSessionReports(
			policy.ScopeFor(actor), classroom.QueryFilter{SessionID: report.SessionID})
		if err != nil {
			return errors.Wrap(err, "scoping session report")
		}
		if len(visible) == 0 {
			return errHttpNotFound
		}
	}
	return ctx.JSON(http.StatusOK, report)
}
