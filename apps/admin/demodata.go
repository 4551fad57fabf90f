package main

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/Venkatesan-2007/innertia/core/college"
	"github.com/Venkatesan-2007/innertia/core/course"
	"github.com/Venkatesan-2007/innertia/core/user"
)

// demoData seeds a small, self-consistent data set for local development:
// one college with one program and course, plus one account per role, all
// with the password "demo1234".
func (cli *commandLine) demoData() error {
	now := time.Now().UTC()

	newUser := func(uname, name string, role user.Role) (user.User, error) {
		usr := user.User{
			ID:        uuid.NewString(),
			Name:      name,
			Username:  uname,
			Email:     uname + "@demo.local",
			Role:      role,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := usr.SetPassword("demo1234"); err != nil {
			return user.User{}, err
		}
		return cli.usrRepo.CreateUser(usr)
	}

	admin, err := newUser("admin", "Demo Admin", user.RoleAdmin)
	if err != nil {
		return err
	}
	fac, err := newUser("faculty", "Demo Faculty", user.RoleFaculty)
	if err != nil {
		return err
	}
	stu, err := newUser("student", "Demo Student", user.RoleStudent)
	if err != nil {
		return err
	}

	col, err := cli.colRepo.CreateCollege(college.College{
		ID:        uuid.NewString(),
		Name:      "Demo Institute of Technology",
		Code:      "demo",
		City:      "Chennai",
		Country:   "India",
		AdminID:   null.StringFrom(admin.ID),
		CreatedAt: now,
	})
	if err != nil {
		return err
	}

	prog, err := cli.colRepo.CreateProgram(college.Program{
		ID:                uuid.NewString(),
		Name:              "B.Tech Computer Science",
		Code:              "btech-cs",
		CollegeID:         col.ID,
		DurationSemesters: 8,
		CreatedAt:         now,
	})
	if err != nil {
		return err
	}

	crs, err := cli.crsRepo.CreateCourse(course.Course{
		ID:        uuid.NewString(),
		Code:      "cs101",
		Name:      "Introduction to Programming",
		ProgramID: prog.ID,
		FacultyID: fac.ID,
		Semester:  1,
		Credits:   4,
		CreatedAt: now,
	})
	if err != nil {
		return err
	}

	_, _, err = cli.crsRepo.GetOrCreateEnrollment(course.Enrollment{
		ID:         uuid.NewString(),
		StudentID:  stu.ID,
		CourseID:   crs.ID,
		Status:     course.EnrollmentActive,
		EnrolledAt: now,
	})
	return err
}
