package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Venkatesan-2007/innertia/core/college"
	"github.com/Venkatesan-2007/innertia/core/policy"
)

type collegeApi struct {
	svc *college.Service
}

func registerCollegeAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *college.Service) {
	api := collegeApi{svc: svc}

	cg := g.Group("/colleges", jwt)
	cg.POST("", api.create, authorize(policy.ResourceCollege, policy.VerbCreate))
	cg.GET("", api.query, authorize(policy.ResourceCollege, policy.VerbList))
	cg.GET("/:id", api.retrieve, authorize(policy.ResourceCollege, policy.VerbRead))
	cg.PUT("/:id", api.update, authorize(policy.ResourceCollege, policy.VerbUpdate))
	cg.DELETE("", api.destroyMultiple, authorize(policy.ResourceCollege, policy.VerbDelete))

	pg := g.Group("/programs", jwt)
	pg.POST("", api.createProgram, authorize(policy.ResourceProgram, policy.VerbCreate))
	pg.GET("", api.queryPrograms, authorize(policy.ResourceProgram, policy.VerbList))
	pg.GET("/:id", api.retrieveProgram, authorize(policy.ResourceProgram, policy.VerbRead))
	pg.PUT("/:id", api.updateProgram, authorize(policy.ResourceProgram, policy.VerbUpdate))
	pg.DELETE("", api.destroyPrograms, authorize(policy.ResourceProgram, policy.VerbDelete))
}

func (api *collegeApi) create(ctx echo.Context) error {
	var data college.NewCollege
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCollege")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	col, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating college")
	}
	return ctx.JSON(http.StatusCreated, col)
}

func (api *collegeApi) query(ctx echo.Context) error {
	filter := new(college.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []college.College{})
	}
	filter.Clean()

	colleges, err := api.svc.Filter(*filter)
	if err != nil {
		return errors.Wrap(err, "querying colleges")
	}
	if colleges == nil {
		colleges = []college.College{}
	}
	return ctx.JSON(http.StatusOK, colleges)
}

func (api *collegeApi) retrieve(ctx echo.Context) error {
	col, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding college by ID")
	}
	return ctx.JSON(http.StatusOK, col)
}

func (api *collegeApi) update(ctx echo.Context) error {
	var data college.UpdateCollege
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCollege")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	col, err := api.svc.Update(ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating college")
	}
	return ctx.JSON(http.StatusOK, col)
}

func (api *collegeApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if err := api.svc.Delete(query.IDs...); err != nil {
		return errors.Wrap(err, "deleting colleges")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Programs

func (api *collegeApi) createProgram(ctx echo.Context) error {
	var data college.NewProgram
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewProgram")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	prog, err := api.svc.CreateProgram(data)
	if err != nil {
		return errors.Wrap(err, "creating program")
	}
	return ctx.JSON(http.StatusCreated, prog)
}

func (api *collegeApi) queryPrograms(ctx echo.Context) error {
	filter := new(college.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []college.Program{})
	}
	filter.Clean()

	programs, err := api.svc.FilterPrograms(*filter)
	if err != nil {
		return errors.Wrap(err, "querying programs")
	}
	if programs == nil {
		programs = []college.Program{}
	}
	return ctx.JSON(http.StatusOK, programs)
}

func (api *collegeApi) retrieveProgram(ctx echo.Context) error {
	prog, err := api.svc.GetProgramByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding program by ID")
	}
	return ctx.JSON(http.StatusOK, prog)
}

func (api *collegeApi) updateProgram(ctx echo.Context) error {
	var data college.NewProgram
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewProgram")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	prog, err := api.svc.UpdateProgram(ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating program")
	}
	return ctx.JSON(http.StatusOK, prog)
}

func (api *collegeApi) destroyPrograms(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if err := api.svc.DeletePrograms(query.IDs...); err != nil {
		return errors.Wrap(err, "deleting programs")
	}
	return ctx.NoContent(http.StatusNoContent)
}
