package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/Venkatesan-2007/innertia/core"
	"github.com/Venkatesan-2007/innertia/core/assessment"
	"github.com/Venkatesan-2007/innertia/core/classroom"
	"github.com/Venkatesan-2007/innertia/core/college"
	"github.com/Venkatesan-2007/innertia/core/content"
	"github.com/Venkatesan-2007/innertia/core/course"
	"github.com/Venkatesan-2007/innertia/core/policy"
	"github.com/Venkatesan-2007/innertia/core/runner"
	"github.com/Venkatesan-2007/innertia/core/user"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, "authentication failed")
	errAccountDeactivated   = echo.NewHTTPError(http.StatusForbidden, "account deactivated")
	errRefreshExpired       = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
	errHttpForbidden        = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound         = echo.NewHTTPError(http.StatusNotFound, "not found")
)

// notFoundErrs are domain sentinels that map to a 404.
var notFoundErrs = []error{
	user.ErrNotFound,
	college.ErrNotFound,
	college.ErrProgramNotFound,
	course.ErrNotFound,
	course.ErrEnrollmentNotFound,
	classroom.ErrSessionNotFound,
	classroom.ErrAttendanceNotFound,
	classroom.ErrViolationNotFound,
	classroom.ErrReportNotFound,
	classroom.ErrLockNotFound,
	content.ErrSlideNotFound,
	content.ErrNoteNotFound,
	content.ErrDoubtNotFound,
	content.ErrResponseNotFound,
	assessment.ErrAssignmentNotFound,
	assessment.ErrSubmissionNotFound,
	assessment.ErrPerformanceNotFound,
	runner.ErrRunNotFound,
}

// conflictErrs are domain sentinels that map to a 409.
var conflictErrs = []error{
	user.ErrUsernameExists,
	user.ErrEmailExists,
	college.ErrCodeExists,
	college.ErrProgramExists,
	course.ErrCodeExists,
	content.ErrSlideExists,
	content.ErrResponseExists,
	assessment.ErrSubmissionExists,
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if err == target {
			return true
		}
	}
	return false
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		cause := errors.Cause(err)
		switch origErr := cause.(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = origErr.Message
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(core.Translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if fldErrs := origErr.FieldMap(); fldErrs != nil {
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default:
			switch {
			case cause == policy.ErrForbidden:
				code = http.StatusForbidden
				message = cause.Error()
			case isAny(cause, notFoundErrs):
				code = http.StatusNotFound
				message = cause.Error()
			case isAny(cause, conflictErrs):
				code = http.StatusConflict
				message = cause.Error()
			default: // any other error is a server error
				code = http.StatusInternalServerError
				msg := http.StatusText(http.StatusInternalServerError)
				message = msg

				var usr user.User
				if claims, cErr := getContextClaims(ctx); cErr == nil {
					usr.ID = claims.Subject
					usr.Username = claims.Username
					usr.Email = claims.Email
				}
				logger.Error(msg, errors.Wrap(err, msg), usr)

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		} else if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
