package user

import (
	"time"

	"github.com/volatiletech/null/v8"
	"golang.org/x/crypto/bcrypt"

	"github.com/Venkatesan-2007/innertia/core"
)

// Role is the closed set of actor roles. A user holds exactly one role and
// it never changes after assignment; every authorization decision switches
// exhaustively over these three values.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleFaculty Role = "faculty"
	RoleStudent Role = "student"
)

var AllRoles = []Role{RoleAdmin, RoleFaculty, RoleStudent}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleFaculty, RoleStudent:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

type User struct {
	ID           string      `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string      `gorm:"size:255" json:"name"`
	Username     string      `gorm:"size:150;uniqueIndex" json:"username"`
	Email        string      `gorm:"size:254;uniqueIndex" json:"email"`
	Role         Role        `gorm:"size:20;index" json:"role"`
	CollegeID    null.String `gorm:"type:uuid" json:"college_id"`
	Phone        string      `gorm:"size:20" json:"phone"`
	IsActive     bool        `json:"is_active"`
	PasswordHash []byte      `json:"-"`
	CreatedAt    time.Time   `json:"created_at"` // UTC
	UpdatedAt    time.Time   `json:"updated_at"` // UTC
	LastLogin    time.Time   `json:"last_login"` // UTC
}

func (User) TableName() string { return "users" }

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u *User) IsFaculty() bool { return u.Role == RoleFaculty }
func (u *User) IsStudent() bool { return u.Role == RoleStudent }

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name            string `json:"name" validate:"required"`
	Username        string `json:"username" validate:"required,min=3,max=150"`
	Email           string `json:"email" validate:"required,email"`
	Role            Role   `json:"role" validate:"required,role"`
	CollegeID       string `json:"college_id" validate:"omitempty,uuid4"`
	Phone           string `json:"phone" validate:"omitempty,max=20"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (nu *NewUser) Validate(svc *Service) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Email = core.CleanString(nu.Email, true /* lower */)

	if err := core.Validate.Struct(nu); err != nil {
		return err
	}
	if err := validatePassword(nu.Password, nu.Username, nu.Email, nu.Name); err != nil {
		return err
	}
	return svc.checkUniqueness(nu.Username, nu.Email)
}

// UpdateUser defines what information may be provided to modify an existing
// User. Role is deliberately absent: it is immutable post-assignment.
type UpdateUser struct {
	Name            string `json:"name"`
	Username        string `json:"username" validate:"omitempty,min=3,max=150"`
	Email           string `json:"email" validate:"omitempty,email"`
	Phone           string `json:"phone" validate:"omitempty,max=20"`
	IsActive        *bool  `json:"is_active"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm" validate:"required_with=Password,eqfield=Password"`
}

func (uu *UpdateUser) Validate(origUsr User, svc *Service) error {
	uu.Name = core.CleanString(uu.Name)
	if uu.Name == "" {
		uu.Name = origUsr.Name
	}
	uu.Username = core.CleanString(uu.Username, true /* lower */)
	if uu.Username == "" {
		uu.Username = origUsr.Username
	}
	uu.Email = core.CleanString(uu.Email, true /* lower */)
	if uu.Email == "" {
		uu.Email = origUsr.Email
	}

	if err := core.Validate.Struct(uu); err != nil {
		return err
	}
	if uu.Password != "" {
		if err := validatePassword(uu.Password, uu.Username, uu.Email, uu.Name); err != nil {
			return err
		}
	}
	return svc.checkUniqueness(uu.Username, uu.Email, origUsr)
}

// ResetUserPassword contains information needed to reset a user's forgotten password.
type ResetUserPassword struct {
	UID             string `json:"uid" validate:"required"`
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (rp *ResetUserPassword) Validate() error {
	return core.Validate.Struct(rp)
}

// QueryFilter fields compose with AND; Search matches one of Name, Username
// or Email case-insensitively.
type QueryFilter struct {
	Search      string    `query:"search"`
	Role        Role      `query:"role"`
	CollegeID   string    `query:"college_id"`
	IsActive    *bool     `query:"is_active"`
	CreatedFrom time.Time `query:"created_from"`
	CreatedTo   time.Time `query:"created_to"`
}

func (f *QueryFilter) Clean() {
	f.Search = core.CleanString(f.Search, true /* lower */)
}
