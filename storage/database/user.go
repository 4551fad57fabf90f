package database

import (
	"strings"

	"gorm.io/gorm"

	"github.com/Venkatesan-2007/innertia/core/user"
)

type userRepo struct {
	db *gorm.DB
}

var _ user.Repository = (*userRepo)(nil)

func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepo{db: db}
}

func (repo *userRepo) CheckUsernameUniqueness(username, email string, excludedUsers ...user.User) error {
	exclIDs := make([]string, 0, len(excludedUsers))
	for _, usr := range excludedUsers {
		exclIDs = append(exclIDs, usr.ID)
	}

	check := func(column, value string) (bool, error) {
		var count int64
		q := repo.db.Model(&user.User{}).Where(column+" = ?", value)
		if len(exclIDs) > 0 {
			q = q.Where("id NOT IN ?", exclIDs)
		}
		if err := q.Count(&count).Error; err != nil {
			return false, err
		}
		return count > 0, nil
	}

	if taken, err := check("username", username); err != nil {
		return err
	} else if taken {
		return user.ErrUsernameExists
	}
	if taken, err := check("email", email); err != nil {
		return err
	} else if taken {
		return user.ErrEmailExists
	}
	return nil
}

func (repo *userRepo) CreateUser(usr user.User) (user.User, error) {
	if err := repo.db.Create(&usr).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return user.User{}, user.ErrUsernameExists
		}
		return user.User{}, err
	}
	return usr, nil
}

func (repo *userRepo) getUser(query string, args ...interface{}) (user.User, error) {
	var usr user.User
	err := repo.db.Where(query, args...).First(&usr).Error
	if err == gorm.ErrRecordNotFound {
		return user.User{}, user.ErrNotFound
	}
	return usr, err
}

func (repo *userRepo) GetUserByID(id string) (user.User, error) {
	return repo.getUser("id = ?", id)
}

func (repo *userRepo) GetUserByUsername(username string) (user.User, error) {
	return repo.getUser("username = ?", username)
}

func (repo *userRepo) GetUserByEmail(email string) (user.User, error) {
	return repo.getUser("email = ?", email)
}

func (repo *userRepo) GetUserByUsernameOrEmail(username string) (user.User, error) {
	return repo.getUser("username = ? OR email = ?", username, username)
}

func (repo *userRepo) FilterUsers(filter user.QueryFilter) ([]user.User, error) {
	q := repo.db.Model(&user.User{})
	if filter.Search != "" {
		needle := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(username) LIKE ? OR LOWER(email) LIKE ?", needle, needle, needle)
	}
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	if filter.CollegeID != "" {
		q = q.Where("college_id = ?", filter.CollegeID)
	}
	if filter.IsActive != nil {
		q = q.Where("is_active = ?", *filter.IsActive)
	}
	if !filter.CreatedFrom.IsZero() {
		q = q.Where("created_at >= ?", filter.CreatedFrom)
	}
	if !filter.CreatedTo.IsZero() {
		q = q.Where("created_at <= ?", filter.CreatedTo)
	}

	var usrs []user.User
	err := q.Order("created_at DESC").Find(&usrs).Error
	return usrs, err
}

// UpdateUser applies the non-zero fields of usr. isActive is separate since
// false is a meaningful value.
func (repo *userRepo) UpdateUser(usr user.User, isActive *bool) (user.User, error) {
	updates := map[string]interface{}{}
	if usr.Name != "" {
		updates["name"] = usr.Name
	}
	if usr.Username != "" {
		updates["username"] = usr.Username
	}
	if usr.Email != "" {
		updates["email"] = usr.Email
	}
	if usr.Phone != "" {
		updates["phone"] = usr.Phone
	}
	if usr.PasswordHash != nil {
		updates["password_hash"] = usr.PasswordHash
	}
	if !usr.LastLogin.IsZero() {
		updates["last_login"] = usr.LastLogin
	}
	if !usr.UpdatedAt.IsZero() {
		updates["updated_at"] = usr.UpdatedAt
	}
	if isActive != nil {
		updates["is_active"] = *isActive
	}

	res := repo.db.Model(&user.User{}).Where("id = ?", usr.ID).Updates(updates)
	if res.Error != nil {
		if res.Error == gorm.ErrDuplicatedKey {
			return user.User{}, user.ErrUsernameExists
		}
		return user.User{}, res.Error
	}
	if res.RowsAffected == 0 {
		return user.User{}, user.ErrNotFound
	}
	return repo.GetUserByID(usr.ID)
}

func (repo *userRepo) DeleteUsersByID(ids ...string) error {
	return repo.db.Delete(&user.User{}, "id IN ?", ids).Error
}
