package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Venkatesan-2007/innertia/core/policy"
	"github.com/Venkatesan-2007/innertia/core/runner"
)

type compilerApi struct {
	svc *runner.Service
}

func registerCompilerAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *runner.Service) {
	api := compilerApi{svc: svc}

	cg := g.Group("/compiler", jwt)
	cg.POST("/execute", api.execute, authorize(policy.ResourceCompilerRun, policy.VerbExecute))
	cg.GET("/submissions", api.query, authorize(policy.ResourceCompilerRun, policy.VerbList))
	cg.GET("/submissions/:id", api.retrieve, authorize(policy.ResourceCompilerRun, policy.VerbRead))
}

func (api *compilerApi) execute(ctx echo.Context) error {
	var data runner.ExecuteCode
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ExecuteCode")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	res, err := api.svc.Execute(ctx.Request().Context(), actor.ID, data)
	if err != nil {
		return errors.Wrap(err, "executing code")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *compilerApi) query(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	filter := new(runner.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []runner.CompilerSubmission{})
	}

	runs, err := api.svc.FilterRuns(policy.ScopeFor(actor), *filter)
	if err != nil {
		return errors.Wrap(err, "querying compiler submissions")
	}
	if runs == nil {
		runs = []runner.CompilerSubmission{}
	}
	return ctx.JSON(http.StatusOK, runs)
}

func (api *compilerApi) retrieve(ctx echo.Context) error {
	run, err := api.svc.GetRunByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding compiler submission by ID")
	}

	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	if actor.IsStudent() && !policy.Owns(actor, run.StudentID) {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, run)
}
