// Package database implements the domain repositories on PostgreSQL via GORM.
package database

import (
	"fmt"
	"net/url"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Venkatesan-2007/innertia/core"
	"github.com/Venkatesan-2007/innertia/core/assessment"
	"github.com/Venkatesan-2007/innertia/core/classroom"
	"github.com/Venkatesan-2007/innertia/core/college"
	"github.com/Venkatesan-2007/innertia/core/content"
	"github.com/Venkatesan-2007/innertia/core/course"
	"github.com/Venkatesan-2007/innertia/core/runner"
	"github.com/Venkatesan-2007/innertia/core/user"
)

// databaseURL renders a postgres DSN. Port stays a string end to end so a
// value straight from the environment never hits a numeric format verb.
func databaseURL(conf core.DatabaseConfig, sslMode string) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		url.QueryEscape(conf.User),
		url.QueryEscape(conf.Password),
		conf.Host,
		conf.Port,
		conf.Name,
		sslMode,
	)
}

// Conn builds the DSN from the app config and opens a pooled connection.
// TranslateError is on so unique and FK violations surface as gorm
// sentinels the repositories can map to domain errors.
func Conn() (*gorm.DB, error) {
	sslMode := "require"
	if core.Conf.Database.DisableTLS {
		sslMode = "disable"
	}
	dsn := databaseURL(core.Conf.Database, sslMode)

	logLevel := logger.Warn
	if core.Conf.Debug {
		logLevel = logger.Info
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, errors.Wrap(err, "opening database connection")
	}
	return db, nil
}

// Migrate creates or updates the schema for every domain model.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&user.User{},
		&college.College{},
		&college.Program{},
		&course.Course{},
		&course.Enrollment{},
		&classroom.ClassSession{},
		&classroom.Attendance{},
		&classroom.FocusLog{},
		&classroom.Violation{},
		&classroom.ScreenLock{},
		&classroom.SessionReport{},
		&content.Slide{},
		&content.Note{},
		&content.Doubt{},
		&content.DoubtResponse{},
		&assessment.Assignment{},
		&assessment.Submission{},
		&assessment.StudentPerformance{},
		&runner.CompilerSubmission{},
	)
	return errors.Wrap(err, "migrating schema")
}
