package main

import (
	"log"
	"os"

	echoapi "github.com/Venkatesan-2007/innertia/apps/api/echo"
	"github.com/Venkatesan-2007/innertia/core"
	"github.com/Venkatesan-2007/innertia/core/assessment"
	"github.com/Venkatesan-2007/innertia/core/classroom"
	"github.com/Venkatesan-2007/innertia/core/college"
	"github.com/Venkatesan-2007/innertia/core/content"
	"github.com/Venkatesan-2007/innertia/core/course"
	"github.com/Venkatesan-2007/innertia/core/runner"
	"github.com/Venkatesan-2007/innertia/core/user"
	emailsvc "github.com/Venkatesan-2007/innertia/services/email"
	logsvc "github.com/Venkatesan-2007/innertia/services/logger"
	"github.com/Venkatesan-2007/innertia/storage/database"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lshortfile)

	logger := logsvc.NewRollbarLogger(std, &core.Conf)
	logger.Enable(!(core.Conf.Debug || core.Conf.TestMode))

	// set up DB
	db, err := database.Conn()
	if err != nil {
		std.Fatalf("connecting to database: %+v", err)
	}
	if err = database.Migrate(db); err != nil {
		std.Fatalf("migrating database: %+v", err)
	}

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	usrSvc := user.NewService(database.NewUserRepository(db), mailSvc)
	colSvc := college.NewService(database.NewCollegeRepository(db))
	crsSvc := course.NewService(database.NewCourseRepository(db), usrSvc)
	clsSvc := classroom.NewService(database.NewClassroomRepository(db), usrSvc, crsSvc)
	cntSvc := content.NewService(database.NewContentRepository(db), clsSvc)
	assSvc := assessment.NewService(database.NewAssessmentRepository(db), crsSvc)
	runSvc := runner.NewService(database.NewRunnerRepository(db), clsSvc, logger)

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Address:       core.Conf.Server.Address(),
			Logger:        logger,
			UserSvc:       usrSvc,
			CollegeSvc:    colSvc,
			CourseSvc:     crsSvc,
			ClassroomSvc:  clsSvc,
			ContentSvc:    cntSvc,
			AssessmentSvc: assSvc,
			RunnerSvc:     runSvc,
		},
	)
	app.Start()
}
