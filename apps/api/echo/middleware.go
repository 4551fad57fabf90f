package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Venkatesan-2007/innertia/core/policy"
)

// authorize gates a route on the capability matrix. Object-level ownership
// checks still happen in the handlers.
func authorize(res policy.Resource, verb policy.Verb) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			actor, err := contextActor(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context actor")
			}
			if err := policy.Authorize(actor, res, verb); err != nil {
				return err
			}
			return next(ctx)
		}
	}
}
