package user_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Venkatesan-2007/innertia/core"
	"github.com/Venkatesan-2007/innertia/core/user"
	emailsvc "github.com/Venkatesan-2007/innertia/services/email"
	"github.com/Venkatesan-2007/innertia/storage/inmem"
)

func newService() *user.Service {
	db := inmem.Open()
	return user.NewService(inmem.NewUserRepository(db), emailsvc.NewConsoleServiceMock())
}

func TestCreateUser(t *testing.T) {
	svc := newService()

	usr, err := svc.Create(user.NewUser{
		Name:     "Jane Doe",
		Username: "jane",
		Email:    "jane@test.test",
		Role:     user.RoleStudent,
		Password: "LePassword123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, usr.ID)
	assert.True(t, usr.IsActive)
	assert.NotEmpty(t, usr.PasswordHash, "password must be hashed")
	require.NoError(t, usr.CheckPassword("LePassword123"))
	assert.Error(t, usr.CheckPassword("nope"))

	got, err := svc.GetByUsername("JANE")
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.ID, "username lookup is case-insensitive")

	got, err = svc.GetByUsernameOrEmail("Jane@Test.test")
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.ID)

	_, err = svc.GetByUsername("nobody")
	assert.Equal(t, user.ErrNotFound, err)
}

func TestNewUserValidation(t *testing.T) {
	svc := newService()
	_, err := svc.Create(user.NewUser{
		Name:     "Jane Doe",
		Username: "jane",
		Email:    "jane@test.test",
		Role:     user.RoleStudent,
		Password: "LePassword123",
	})
	require.NoError(t, err)

	base := user.NewUser{
		Name:            "John Smith",
		Username:        "john",
		Email:           "john@test.test",
		Role:            user.RoleStudent,
		Password:        "LePassword123",
		PasswordConfirm: "LePassword123",
	}

	tests := []struct {
		name   string
		tweak  func(nu *user.NewUser)
		errMsg string
	}{
		{name: "valid", tweak: func(nu *user.NewUser) {}},
		{
			name:   "short password",
			tweak:  func(nu *user.NewUser) { nu.Password, nu.PasswordConfirm = "ab1", "ab1" },
			errMsg: "password must contain at least 8 characters",
		},
		{
			name:   "numeric password",
			tweak:  func(nu *user.NewUser) { nu.Password, nu.PasswordConfirm = "12345678", "12345678" },
			errMsg: "password cannot be entirely numeric",
		},
		{
			name:   "password similar to username",
			tweak:  func(nu *user.NewUser) { nu.Username, nu.Password, nu.PasswordConfirm = "lepassword12", "LePassword123", "LePassword123" },
			errMsg: "password cannot be similar to user attributes",
		},
		{
			name:   "taken username",
			tweak:  func(nu *user.NewUser) { nu.Username = "jane" },
			errMsg: user.ErrUsernameExists.Error(),
		},
		{
			name:   "taken email",
			tweak:  func(nu *user.NewUser) { nu.Email = "jane@test.test" },
			errMsg: user.ErrEmailExists.Error(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nu := base
			tt.tweak(&nu)
			err := nu.Validate(svc)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *core.ValidationError
			require.ErrorAs(t, err, &vErr)
			found := vErr.Error() == tt.errMsg
			for _, fld := range vErr.Fields {
				if fld.Error == tt.errMsg {
					found = true
				}
			}
			assert.True(t, found, "expected %q in %v", tt.errMsg, err)
		})
	}
}

func TestUpdateUser(t *testing.T) {
	svc := newService()

	usr, err := svc.Create(user.NewUser{
		Name:     "Jane Doe",
		Username: "jane",
		Email:    "jane@test.test",
		Role:     user.RoleStudent,
		Password: "LePassword123",
	})
	require.NoError(t, err)

	// zero fields keep their value
	got, err := svc.Update(usr.ID, user.UpdateUser{Phone: "+254700000000"})
	require.NoError(t, err)
	assert.Equal(t, "jane", got.Username)
	assert.Equal(t, "+254700000000", got.Phone)
	assert.Equal(t, user.RoleStudent, got.Role)
	assert.True(t, got.IsActive)

	// deactivation needs an explicit pointer since false is meaningful
	inactive := false
	got, err = svc.Update(usr.ID, user.UpdateUser{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	_, err = svc.Update("missing", user.UpdateUser{Name: "X"})
	assert.Equal(t, user.ErrNotFound, err)
}

func TestResetPassword(t *testing.T) {
	svc := newService()

	usr, err := svc.Create(user.NewUser{
		Name:     "Jane Doe",
		Username: "jane",
		Email:    "jane@test.test",
		Role:     user.RoleStudent,
		Password: "LePassword123",
	})
	require.NoError(t, err)

	err = svc.ResetPassword(user.ResetUserPassword{
		UID:             user.EncodeUID(usr),
		Token:           user.MakeToken(usr),
		Password:        "NewSecret456",
		PasswordConfirm: "NewSecret456",
	})
	require.NoError(t, err)

	usr, err = svc.GetByID(usr.ID)
	require.NoError(t, err)
	require.NoError(t, usr.CheckPassword("NewSecret456"))

	// the token was bound to the old password hash and died with it
	var vErr *core.ValidationError
	err = svc.ResetPassword(user.ResetUserPassword{
		UID:             user.EncodeUID(usr),
		Token:           "bogus-token",
		Password:        "OtherSecret789",
		PasswordConfirm: "OtherSecret789",
	})
	require.ErrorAs(t, err, &vErr)

	err = svc.ResetPassword(user.ResetUserPassword{
		UID:             "%%%",
		Token:           "whatever",
		Password:        "OtherSecret789",
		PasswordConfirm: "OtherSecret789",
	})
	require.ErrorAs(t, err, &vErr)
}

func TestRequestPasswordReset(t *testing.T) {
	svc := newService()

	_, err := svc.Create(user.NewUser{
		Name:     "Jane Doe",
		Username: "jane",
		Email:    "jane@test.test",
		Role:     user.RoleStudent,
		Password: "LePassword123",
	})
	require.NoError(t, err)

	require.NoError(t, svc.RequestPasswordReset("jane@test.test"))
	assert.Equal(t, user.ErrNotFound, svc.RequestPasswordReset("ghost@test.test"))
}
