package logsvc

import (
	"log"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/Venkatesan-2007/innertia/core"
	"github.com/Venkatesan-2007/innertia/core/user"
)

type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{std: std}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// setPerson attaches the first user.User found in args to the rollbar
// scope and returns the remaining args. The person is cleared when no
// user is present so stale identities never leak across events.
func (l RollbarLogger) setPerson(args []interface{}) []interface{} {
	rest := args[:0:0]
	var pinned bool
	for _, arg := range args {
		usr, ok := arg.(user.User)
		if !ok {
			rest = append(rest, arg)
			continue
		}
		if !pinned {
			rollbar.SetPerson(usr.ID, usr.Username, usr.Email)
			pinned = true
		}
	}
	if !pinned {
		rollbar.ClearPerson()
	}
	return rest
}

func (l RollbarLogger) report(send func(...interface{}), msg string, args []interface{}) {
	rest := l.setPerson(args)
	send(append([]interface{}{msg}, rest...)...)

	l.std.Println(msg)
	for _, arg := range args {
		l.std.Printf("  %+v", arg)
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	l.report(rollbar.Debug, msg, args)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	l.report(rollbar.Info, msg, args)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	l.report(rollbar.Warning, msg, args)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	l.report(rollbar.Error, msg, args)
}

func (l RollbarLogger) Critical(msg string, args ...interface{}) {
	l.report(rollbar.Critical, msg, args)
}
