package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Venkatesan-2007/innertia/core"
	"github.com/Venkatesan-2007/innertia/core/assessment"
	"github.com/Venkatesan-2007/innertia/core/course"
	"github.com/Venkatesan-2007/innertia/core/policy"
)

type assessmentApi struct {
	svc    *assessment.Service
	crsSvc *course.Service
}

func registerAssessmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *assessment.Service, crsSvc *course.Service) {
	api := assessmentApi{svc: svc, crsSvc: crsSvc}

	ag := g.Group("/assignments", jwt)
	ag.POST("", api.create, authorize(policy.ResourceAssignment, policy.VerbCreate))
	ag.GET("", api.query, authorize(policy.ResourceAssignment, policy.VerbList))
	ag.GET("/:id", api.retrieve, authorize(policy.ResourceAssignment, policy.VerbRead))
	ag.PUT("/:id", api.update, authorize(policy.ResourceAssignment, policy.VerbUpdate))
	ag.DELETE("", api.destroyMultiple, authorize(policy.ResourceAssignment, policy.VerbDelete))
	ag.POST("/:id/submit", api.submit, authorize(policy.ResourceSubmission, policy.VerbCreate))

	sg := g.Group("/submissions", jwt)
	sg.GET("", api.querySubmissions, authorize(policy.ResourceSubmission, policy.VerbList))
	sg.GET("/:id", api.retrieveSubmission, authorize(policy.ResourceSubmission, policy.VerbRead))
	sg.PUT("/:id", api.updateSubmission, authorize(policy.ResourceSubmission, policy.VerbUpdate))
	sg.POST("/:id/grade", api.grade, authorize(policy.ResourceSubmission, policy.VerbGrade))

	pg := g.Group("/performance", jwt)
	pg.GET("", api.queryPerformance, authorize(policy.ResourcePerformance, policy.VerbList))
	pg.GET("/:id", api.retrievePerformance, authorize(policy.ResourcePerformance, policy.VerbRead))
	pg.POST("/generate", api.generatePerformance, authorize(policy.ResourcePerformance, policy.VerbGenerate))
}

// teachesCourse returns errHttpForbidden unless the actor teaches the course
// (or is an admin).
func (api *assessmentApi) teachesCourse(ctx echo.Context, courseID string) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	crs, err := api.crsSvc.GetByID(courseID)
	if err != nil {
		return errors.Wrap(err, "finding course by ID")
	}
	if !policy.Teaches(actor, crs.FacultyID) {
		return errHttpForbidden
	}
	return nil
}

// Assignments

func (api *assessmentApi) create(ctx echo.Context) error {
	var data assessment.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	if err := api.teachesCourse(ctx, data.CourseID); err != nil {
		return err
	}

	a, err := api.svc.CreateAssignment(data)
	if err != nil {
		return errors.Wrap(err, "creating assignment")
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *assessmentApi) query(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	filter := new(assessment.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []assessment.Assignment{})
	}
	filter.Clean()

	assignments, err := api.svc.FilterAssignments(policy.ScopeFor(actor), *filter)
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	if assignments == nil {
		assignments = []assessment.Assignment{}
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *assessmentApi) retrieve(ctx echo.Context) error {
	a, err := api.svc.GetAssignmentByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding assignment by ID")
	}

	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	// drafts are staff-only
	if actor.IsStudent() && a.Status == assessment.AssignmentDraft {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *assessmentApi) update(ctx echo.Context) error {
	a, err := api.svc.GetAssignmentByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding assignment by ID")
	}
	if err := api.teachesCourse(ctx, a.CourseID); err != nil {
		return err
	}

	var data assessment.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	a, err = api.svc.UpdateAssignment(a.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating assignment")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *assessmentApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if err := api.svc.DeleteAssignments(query.IDs...); err != nil {
		return errors.Wrap(err, "deleting assignments")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Submissions

func (api *assessmentApi) submit(ctx echo.Context) error {
	var data assessment.NewSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubmission")
	}
	data.AssignmentID = ctx.Param("id")
	if err := data.Validate(); err != nil {
		return err
	}

	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	s, err := api.svc.Submit(actor.ID, data)
	if err != nil {
		return errors.Wrap(err, "submitting assignment")
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *assessmentApi) querySubmissions(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	filter := new(assessment.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []assessment.Submission{})
	}
	filter.Clean()

	submissions, err := api.svc.FilterSubmissions(policy.ScopeFor(actor), *filter)
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	if submissions == nil {
		submissions = []assessment.Submission{}
	}
	return ctx.JSON(http.StatusOK, submissions)
}

func (api *assessmentApi) retrieveSubmission(ctx echo.Context) error {
	s, err := api.svc.GetSubmissionByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding submission by ID")
	}

	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	if actor.IsStudent() && !policy.Owns(actor, s.StudentID) {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *assessmentApi) updateSubmission(ctx echo.Context) error {
	s, err := api.svc.GetSubmissionByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding submission by ID")
	}

	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	if !policy.Owns(actor, s.StudentID) {
		return errHttpNotFound
	}

	var data assessment.UpdateSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSubmission")
	}

	s, err = api.svc.UpdateSubmission(s.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating submission")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *assessmentApi) grade(ctx echo.Context) error {
	s, err := api.svc.GetSubmissionByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding submission by ID")
	}
	a, err := api.svc.GetAssignmentByID(s.AssignmentID)
	if err != nil {
		return errors.Wrap(err, "finding assignment by ID")
	}
	if err := api.teachesCourse(ctx, a.CourseID); err != nil {
		return err
	}

	var data assessment.GradeSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GradeSubmission")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	s, err = api.svc.Grade(s.ID, data)
	if err != nil {
		return errors.Wrap(err, "grading submission")
	}
	return ctx.JSON(http.StatusOK, s)
}

// Performance

func (api *assessmentApi) queryPerformance(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	filter := new(assessment.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []assessment.StudentPerformance{})
	}
	filter.Clean()

	records, err := api.svc.FilterPerformance(policy.ScopeFor(actor), *filter)
	if err != nil {
		return errors.Wrap(err, "querying performance")
	}
	if records == nil {
		records = []assessment.StudentPerformance{}
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *assessmentApi) retrievePerformance(ctx echo.Context) error {
	p, err := api.svc.GetPerformanceByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding performance by ID")
	}

	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	if actor.IsStudent() && !policy.Owns(actor, p.StudentID) {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *assessmentApi) generatePerformance(ctx echo.Context) error {
	var data GeneratePerformanceRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GeneratePerformanceRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	if err := api.teachesCourse(ctx, data.CourseID); err != nil {
		return err
	}

	p, err := api.svc.GeneratePerformance(data.StudentID, data.CourseID)
	if err != nil {
		return errors.Wrap(err, "generating performance")
	}
	return ctx.JSON(http.StatusOK, p)
}

type GeneratePerformanceRequest struct {
	StudentID string `json:"student_id" validate:"required,uuid4"`
	CourseID  string `json:"course_id" validate:"required,uuid4"`
}

func (gp *GeneratePerformanceRequest) Validate() error {
	return core.Validate.Struct(gp)
}
