package classroom

import (
	"github.com/go-playground/validator/v10"

	"github.com/Venkatesan-2007/innertia/core"
)

func init() {
	_ = core.Validate.RegisterValidation("session_status", func(fl validator.FieldLevel) bool {
		return SessionStatus(fl.Field().String()).Valid()
	})
	core.RegisterCustomTranslation("session_status", "invalid session status")

	_ = core.Validate.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		return AttendanceStatus(fl.Field().String()).Valid()
	})
	core.RegisterCustomTranslation("attendance_status", "invalid attendance status")

	_ = core.Validate.RegisterValidation("focus_event", func(fl validator.FieldLevel) bool {
		return FocusEventType(fl.Field().String()).Valid()
	})
	core.RegisterCustomTranslation("focus_event", "invalid focus event type")

	_ = core.Validate.RegisterValidation("severity", func(fl validator.FieldLevel) bool {
		return Severity(fl.Field().String()).Valid()
	})
	core.RegisterCustomTranslation("severity", "invalid severity")
}
