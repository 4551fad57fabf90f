// Package policy is the access decision point: a closed capability matrix
// gating every action on every resource class, plus object-level ownership
// checks and row-level scopes for list queries.
package policy

import (
	"errors"

	"github.com/Venkatesan-2007/innertia/core/user"
)

var ErrForbidden = errors.New("permission denied")

type Resource string

const (
	ResourceUser          Resource = "user"
	ResourceCollege       Resource = "college"
	ResourceProgram       Resource = "program"
	ResourceCourse        Resource = "course"
	ResourceEnrollment    Resource = "enrollment"
	ResourceSession       Resource = "session"
	ResourceAttendance    Resource = "attendance"
	ResourceFocusLog      Resource = "focus_log"
	ResourceViolation     Resource = "violation"
	ResourceSlide         Resource = "slide"
	ResourceNote          Resource = "note"
	ResourceDoubt         Resource = "doubt"
	ResourceDoubtResponse Resource = "doubt_response"
	ResourceAssignment    Resource = "assignment"
	ResourceSubmission    Resource = "submission"
	ResourceSessionReport Resource = "session_report"
	ResourcePerformance   Resource = "performance"
	ResourceScreenLock    Resource = "screen_lock"
	ResourceCompilerRun   Resource = "compiler_run"
)

type Verb string

const (
	VerbList   Verb = "list"
	VerbRead   Verb = "read"
	VerbCreate Verb = "create"
	VerbUpdate Verb = "update"
	VerbDelete Verb = "delete"

	// non-CRUD actions
	VerbEnroll   Verb = "enroll"
	VerbStart    Verb = "start"
	VerbEnd      Verb = "end"
	VerbMark     Verb = "mark"
	VerbLog      Verb = "log"
	VerbResolve  Verb = "resolve"
	VerbGrade    Verb = "grade"
	VerbGenerate Verb = "generate"
	VerbLock     Verb = "lock"
	VerbUnlock   Verb = "unlock"
	VerbExecute  Verb = "execute"
)

// roleSet is a bit set over the three closed roles.
type roleSet uint8

const (
	admin roleSet = 1 << iota
	faculty
	student

	nobody        roleSet = 0
	everybody             = admin | faculty | student
	staff                 = admin | faculty
	adminOnly             = admin
	studentOnly           = student
)

func (s roleSet) has(r user.Role) bool {
	switch r {
	case user.RoleAdmin:
		return s&admin != 0
	case user.RoleFaculty:
		return s&faculty != 0
	case user.RoleStudent:
		return s&student != 0
	}
	return false
}

// rules is the class-level capability matrix. A missing entry means deny;
// object-level ownership narrowing happens on top of it in the services.
var rules = map[Resource]map[Verb]roleSet{
	ResourceUser: {
		VerbList:   everybody, // scoped: non-admins only see themselves
		VerbRead:   everybody,
		VerbCreate: adminOnly, // open registration is handled outside the matrix
		VerbUpdate: everybody, // self or admin, object-checked
		VerbDelete: adminOnly,
	},
	ResourceCollege: {
		VerbList:   everybody,
		VerbRead:   everybody,
		VerbCreate: adminOnly,
		VerbUpdate: adminOnly,
		VerbDelete: adminOnly,
	},
	ResourceProgram: {
		VerbList:   everybody,
		VerbRead:   everybody,
		VerbCreate: adminOnly,
		VerbUpdate: adminOnly,
		VerbDelete: adminOnly,
	},
	ResourceCourse: {
		VerbList:   everybody,
		VerbRead:   everybody,
		VerbCreate: staff,
		VerbUpdate: staff,
		VerbDelete: staff,
		VerbEnroll: staff,
	},
	ResourceEnrollment: {
		VerbList:   everybody,
		VerbRead:   everybody,
		VerbCreate: everybody, // students may only enroll themselves, object-checked
		VerbUpdate: everybody,
		VerbDelete: staff,
	},
	ResourceSession: {
		VerbList:   everybody,
		VerbRead:   everybody,
		VerbCreate: staff,
		VerbUpdate: staff,
		VerbDelete: staff,
		VerbStart:  staff,
		VerbEnd:    staff,
	},
	ResourceAttendance: {
		VerbList:   everybody, // students read own rows only, via scope
		VerbRead:   everybody,
		VerbMark:   staff,
		VerbUpdate: staff,
		VerbDelete: staff,
	},
	ResourceFocusLog: {
		VerbList: everybody,
		VerbRead: everybody,
		VerbLog:  studentOnly, // self, write only
	},
	ResourceViolation: {
		VerbList:    everybody,
		VerbRead:    everybody,
		VerbCreate:  everybody, // students may only report against themselves, object-checked
		VerbResolve: staff,
	},
	ResourceSlide: {
		VerbList:   everybody,
		VerbRead:   everybody,
		VerbCreate: staff,
		VerbUpdate: staff,
		VerbDelete: staff,
	},
	ResourceNote: {
		VerbList:   everybody,
		VerbRead:   everybody,
		VerbCreate: studentOnly,
		VerbUpdate: studentOnly, // author only, object-checked
		VerbDelete: studentOnly,
	},
	ResourceDoubt: {
		VerbList:    everybody,
		VerbRead:    everybody,
		VerbCreate:  studentOnly, // ask-doubt, self
		VerbResolve: everybody,
	},
	ResourceDoubtResponse: {
		VerbList:   everybody,
		VerbRead:   everybody,
		VerbCreate: staff,
		VerbUpdate: staff,
		VerbDelete: staff,
	},
	ResourceAssignment: {
		VerbList:   everybody,
		VerbRead:   everybody,
		VerbCreate: staff,
		VerbUpdate: staff,
		VerbDelete: staff,
	},
	ResourceSubmission: {
		VerbList:   everybody,
		VerbRead:   everybody,
		VerbCreate: studentOnly,
		VerbUpdate: studentOnly,
		VerbGrade:  staff,
	},
	ResourceSessionReport: {
		VerbList:     everybody,
		VerbRead:     everybody,
		VerbGenerate: staff,
	},
	ResourcePerformance: {
		VerbList:     everybody,
		VerbRead:     everybody,
		VerbGenerate: staff,
	},
	ResourceScreenLock: {
		VerbList:   staff,
		VerbRead:   staff,
		VerbLock:   staff,
		VerbUnlock: staff,
	},
	ResourceCompilerRun: {
		VerbList:    everybody,
		VerbRead:    everybody,
		VerbExecute: studentOnly,
	},
}

// Allowed reports whether a role may perform verb on a resource class.
// Unknown resource/verb combinations deny.
func Allowed(role user.Role, res Resource, verb Verb) bool {
	verbs, ok := rules[res]
	if !ok {
		return false
	}
	return verbs[verb].has(role)
}

// Authorize is the class-level gate: ErrForbidden unless the matrix allows.
func Authorize(actor user.User, res Resource, verb Verb) error {
	if !Allowed(actor.Role, res, verb) {
		return ErrForbidden
	}
	return nil
}

// Owns reports whether the actor is the owner (student/author) of an object.
// Unlike OwnsOrAdmin it does not special-case admins: some actions (note
// edits) belong to the author alone.
func Owns(actor user.User, ownerID string) bool {
	return actor.ID != "" && actor.ID == ownerID
}

// OwnsOrAdmin reports whether the actor owns the object or is an admin.
func OwnsOrAdmin(actor user.User, ownerID string) bool {
	return actor.IsAdmin() || Owns(actor, ownerID)
}

// Teaches reports whether the actor is the faculty of record for an object,
// given the object's resolved Course/Session faculty. Admins pass.
func Teaches(actor user.User, facultyID string) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.IsFaculty() && actor.ID == facultyID
}
