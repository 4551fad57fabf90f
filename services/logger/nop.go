package logsvc

import "github.com/Venkatesan-2007/innertia/core"

// NopLogger discards everything. Meant for tests and tooling that must
// satisfy core.Logger without producing output.
type NopLogger struct{}

var _ core.Logger = (*NopLogger)(nil)

func NewNopLogger() *NopLogger { return &NopLogger{} }

func (NopLogger) Enable(bool) {}
func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{}) {}
func (NopLogger) Warn(string, ...interface{}) {}
func (NopLogger) Error(string, ...interface{}) {}
func (NopLogger) Critical(string, ...interface{}) {}
