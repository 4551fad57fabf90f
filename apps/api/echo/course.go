package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Venkatesan-2007/innertia/core"
	"github.com/Venkatesan-2007/innertia/core/course"
	"github.com/Venkatesan-2007/innertia/core/policy"
)

type courseApi struct {
	svc *course.Service
}

func registerCourseAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *course.Service) {
	api := courseApi{svc: svc}

	cg := g.Group("/courses", jwt)
	cg.POST("", api.create, authorize(policy.ResourceCourse, policy.VerbCreate))
	cg.GET("", api.query, authorize(policy.ResourceCourse, policy.VerbList))
	cg.GET("/:id", api.retrieve, authorize(policy.ResourceCourse, policy.VerbRead))
	cg.PUT("/:id", api.update, authorize(policy.ResourceCourse, policy.VerbUpdate))
	cg.DELETE("", api.destroyMultiple, authorize(policy.ResourceCourse, policy.VerbDelete))
	cg.POST("/:id/enroll", api.enroll, authorize(policy.ResourceEnrollment, policy.VerbCreate))
	cg.GET("/:id/students", api.enrolledStudents, authorize(policy.ResourceEnrollment, policy.VerbList))

	eg := g.Group("/enrollments", jwt)
	eg.GET("", api.queryEnrollments, authorize(policy.ResourceEnrollment, policy.VerbList))
	eg.GET("/:id", api.retrieveEnrollment, authorize(policy.ResourceEnrollment, policy.VerbRead))
	eg.PUT("/:id", api.updateEnrollment, authorize(policy.ResourceEnrollment, policy.VerbUpdate))
	eg.DELETE("", api.destroyEnrollments, authorize(policy.ResourceEnrollment, policy.VerbDelete))
}

func (api *courseApi) create(ctx echo.Context) error {
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	// faculty can only create courses they teach
	if actor.IsFaculty() && data.FacultyID != actor.ID {
		return errHttpForbidden
	}

	crs, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, crs)
}

func (api *courseApi) query(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	filter := new(course.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []course.Course{})
	}
	filter.Clean()

	courses, err := api.svc.Filter(policy.ScopeFor(actor), *filter)
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	if courses == nil {
		courses = []course.Course{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	crs, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding course by ID")
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *courseApi) update(ctx echo.Context) error {
	crs, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding course by ID")
	}

	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	if !policy.Teaches(actor, crs.FacultyID) {
		return errHttpForbidden
	}

	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	crs, err = api.svc.Update(crs.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating course")
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *courseApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if err := api.svc.Delete(query.IDs...); err != nil {
		return errors.Wrap(err, "deleting courses")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *courseApi) enroll(ctx echo.Context) error {
	var data EnrollRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EnrollRequest")
	}

	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	// students may only enroll themselves
	if actor.IsStudent() {
		if data.StudentID != "" && data.StudentID != actor.ID {
			return errHttpForbidden
		}
		data.StudentID = actor.ID
	}
	if err := data.Validate(); err != nil {
		return err
	}

	enr, created, err := api.svc.EnrollStudent(ctx.Param("id"), data.StudentID)
	if err != nil {
		return errors.Wrap(err, "enrolling student")
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return ctx.JSON(status, enr)
}

func (api *courseApi) enrolledStudents(ctx echo.Context) error {
	enrollments, err := api.svc.EnrolledStudents(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "listing enrolled students")
	}
	if enrollments == nil {
		enrollments = []course.Enrollment{}
	}
	return ctx.JSON(http.StatusOK, enrollments)
}

func (api *courseApi) queryEnrollments(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	filter := new(course.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []course.Enrollment{})
	}
	filter.Clean()

	enrollments, err := api.svc.FilterEnrollments(policy.ScopeFor(actor), *filter)
	if err != nil {
		return errors.Wrap(err, "querying enrollments")
	}
	if enrollments == nil {
		enrollments = []course.Enrollment{}
	}
	return ctx.JSON(http.StatusOK, enrollments)
}

func (api *courseApi) retrieveEnrollment(ctx echo.Context) error {
	enr, err := api.svc.GetEnrollmentByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding enrollment by ID")
	}

	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	if actor.IsStudent() && !policy.Owns(actor, enr.StudentID) {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, enr)
}

func (api *courseApi) updateEnrollment(ctx echo.Context) error {
	enr, err := api.svc.GetEnrollmentByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding enrollment by ID")
	}

	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	// a student may only drop their own enrollment
	if actor.IsStudent() && !policy.Owns(actor, enr.StudentID) {
		return errHttpNotFound
	}

	var data course.UpdateEnrollment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateEnrollment")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	if actor.IsStudent() && data.Status != course.EnrollmentDropped {
		return errHttpForbidden
	}

	enr, err = api.svc.UpdateEnrollment(enr.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating enrollment")
	}
	return ctx.JSON(http.StatusOK, enr)
}

func (api *courseApi) destroyEnrollments(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if err := api.svc.DeleteEnrollments(query.IDs...); err != nil {
		return errors.Wrap(err, "deleting enrollments")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type EnrollRequest struct {
	StudentID string `json:"student_id" validate:"required,uuid4"`
}

func (er *EnrollRequest) Validate() error {
	return core.Validate.Struct(er)
}
