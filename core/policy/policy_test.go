package policy

import (
	"testing"

	"github.com/Venkatesan-2007/innertia/core/user"
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		name string
		role user.Role
		res  Resource
		verb Verb
		want bool
	}{
		{name: "admin creates user", role: user.RoleAdmin, res: ResourceUser, verb: VerbCreate, want: true},
		{name: "faculty creates user", role: user.RoleFaculty, res: ResourceUser, verb: VerbCreate, want: false},
		{name: "student creates user", role: user.RoleStudent, res: ResourceUser, verb: VerbCreate, want: false},
		{name: "faculty creates course", role: user.RoleFaculty, res: ResourceCourse, verb: VerbCreate, want: true},
		{name: "student creates course", role: user.RoleStudent, res: ResourceCourse, verb: VerbCreate, want: false},
		{name: "student creates enrollment", role: user.RoleStudent, res: ResourceEnrollment, verb: VerbCreate, want: true},
		{name: "student starts session", role: user.RoleStudent, res: ResourceSession, verb: VerbStart, want: false},
		{name: "faculty starts session", role: user.RoleFaculty, res: ResourceSession, verb: VerbStart, want: true},
		{name: "faculty marks attendance", role: user.RoleFaculty, res: ResourceAttendance, verb: VerbMark, want: true},
		{name: "student marks attendance", role: user.RoleStudent, res: ResourceAttendance, verb: VerbMark, want: false},
		{name: "student logs focus event", role: user.RoleStudent, res: ResourceFocusLog, verb: VerbLog, want: true},
		{name: "faculty logs focus event", role: user.RoleFaculty, res: ResourceFocusLog, verb: VerbLog, want: false},
		{name: "student reports violation", role: user.RoleStudent, res: ResourceViolation, verb: VerbCreate, want: true},
		{name: "student resolves violation", role: user.RoleStudent, res: ResourceViolation, verb: VerbResolve, want: false},
		{name: "faculty resolves violation", role: user.RoleFaculty, res: ResourceViolation, verb: VerbResolve, want: true},
		{name: "student creates note", role: user.RoleStudent, res: ResourceNote, verb: VerbCreate, want: true},
		{name: "faculty creates note", role: user.RoleFaculty, res: ResourceNote, verb: VerbCreate, want: false},
		{name: "student asks doubt", role: user.RoleStudent, res: ResourceDoubt, verb: VerbCreate, want: true},
		{name: "faculty asks doubt", role: user.RoleFaculty, res: ResourceDoubt, verb: VerbCreate, want: false},
		{name: "faculty responds to doubt", role: user.RoleFaculty, res: ResourceDoubtResponse, verb: VerbCreate, want: true},
		{name: "student grades submission", role: user.RoleStudent, res: ResourceSubmission, verb: VerbGrade, want: false},
		{name: "faculty grades submission", role: user.RoleFaculty, res: ResourceSubmission, verb: VerbGrade, want: true},
		{name: "student submits", role: user.RoleStudent, res: ResourceSubmission, verb: VerbCreate, want: true},
		{name: "student lists screen locks", role: user.RoleStudent, res: ResourceScreenLock, verb: VerbList, want: false},
		{name: "faculty locks screen", role: user.RoleFaculty, res: ResourceScreenLock, verb: VerbLock, want: true},
		{name: "student executes code", role: user.RoleStudent, res: ResourceCompilerRun, verb: VerbExecute, want: true},
		{name: "faculty executes code", role: user.RoleFaculty, res: ResourceCompilerRun, verb: VerbExecute, want: false},
		{name: "unknown resource denies", role: user.RoleAdmin, res: Resource("nope"), verb: VerbList, want: false},
		{name: "unknown verb denies", role: user.RoleAdmin, res: ResourceUser, verb: Verb("nope"), want: false},
		{name: "unknown role denies", role: user.Role("nope"), res: ResourceUser, verb: VerbList, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Allowed(tt.role, tt.res, tt.verb); got != tt.want {
				t.Errorf("Allowed(%s, %s, %s) = %v, want %v", tt.role, tt.res, tt.verb, got, tt.want)
			}
		})
	}
}

func TestAuthorize(t *testing.T) {
	student := user.User{ID: "s1", Role: user.RoleStudent}
	if err := Authorize(student, ResourceCourse, VerbCreate); err != ErrForbidden {
		t.Errorf("Authorize() error = %v, want %v", err, ErrForbidden)
	}
	if err := Authorize(student, ResourceCourse, VerbList); err != nil {
		t.Errorf("Authorize() error = %v, want nil", err)
	}
}

func TestScopeFor(t *testing.T) {
	admin := user.User{ID: "a1", Role: user.RoleAdmin}
	fac := user.User{ID: "f1", Role: user.RoleFaculty}
	stu := user.User{ID: "s1", Role: user.RoleStudent}
	nobody := user.User{ID: "n1"}

	if s := ScopeFor(admin); !s.All {
		t.Errorf("ScopeFor(admin) = %+v, want All", s)
	}
	if s := ScopeFor(fac); s.FacultyID != fac.ID || s.All || s.StudentID != "" {
		t.Errorf("ScopeFor(faculty) = %+v, want FacultyID=%s", s, fac.ID)
	}
	if s := ScopeFor(stu); s.StudentID != stu.ID || s.All || s.FacultyID != "" {
		t.Errorf("ScopeFor(student) = %+v, want StudentID=%s", s, stu.ID)
	}
	if s := ScopeFor(nobody); !s.Empty() {
		t.Errorf("ScopeFor(unknown role) = %+v, want empty", s)
	}
}

func TestOwnershipChecks(t *testing.T) {
	admin := user.User{ID: "a1", Role: user.RoleAdmin}
	fac := user.User{ID: "f1", Role: user.RoleFaculty}
	stu := user.User{ID: "s1", Role: user.RoleStudent}

	if !Owns(stu, "s1") || Owns(stu, "s2") {
		t.Error("Owns() mismatch")
	}
	if Owns(user.User{}, "") {
		t.Error("Owns() must deny empty actor IDs")
	}
	if !OwnsOrAdmin(admin, "someone-else") {
		t.Error("OwnsOrAdmin() must pass admins")
	}
	if OwnsOrAdmin(fac, "someone-else") {
		t.Error("OwnsOrAdmin() must not pass non-owning faculty")
	}
	if !Teaches(fac, "f1") || Teaches(fac, "f2") {
		t.Error("Teaches() mismatch")
	}
	if !Teaches(admin, "f2") {
		t.Error("Teaches() must pass admins")
	}
	if Teaches(stu, "s1") {
		t.Error("Teaches() must deny students")
	}
}
