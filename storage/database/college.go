package database

import (
	"strings"

	"gorm.io/gorm"

	"github.com/Venkatesan-2007/innertia/core/college"
)

type collegeRepo struct {
	db *gorm.DB
}

var _ college.Repository = (*collegeRepo)(nil)

func NewCollegeRepository(db *gorm.DB) college.Repository {
	return &collegeRepo{db: db}
}

func (repo *collegeRepo) CreateCollege(c college.College) (college.College, error) {
	if err := repo.db.Create(&c).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return college.College{}, college.ErrCodeExists
		}
		return college.College{}, err
	}
	return c, nil
}

func (repo *collegeRepo) GetCollegeByID(id string) (college.College, error) {
	var c college.College
	err := repo.db.First(&c, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return college.College{}, college.ErrNotFound
	}
	return c, err
}

func (repo *collegeRepo) FilterColleges(filter college.QueryFilter) ([]college.College, error) {
	q := repo.db.Model(&college.College{})
	if filter.Search != "" {
		needle := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ? OR LOWER(city) LIKE ?", needle, needle, needle)
	}
	if filter.City != "" {
		q = q.Where("LOWER(city) = ?", strings.ToLower(filter.City))
	}

	var cs []college.College
	err := q.Order("name").Find(&cs).Error
	return cs, err
}

func (repo *collegeRepo) UpdateCollege(c college.College) (college.College, error) {
	res := repo.db.Model(&college.College{}).Where("id = ?", c.ID).Updates(&c)
	if res.Error != nil {
		if res.Error == gorm.ErrDuplicatedKey {
			return college.College{}, college.ErrCodeExists
		}
		return college.College{}, res.Error
	}
	if res.RowsAffected == 0 {
		return college.College{}, college.ErrNotFound
	}
	return repo.GetCollegeByID(c.ID)
}

func (repo *collegeRepo) DeleteCollegesByID(ids ...string) error {
	return repo.db.Delete(&college.College{}, "id IN ?", ids).Error
}

func (repo *collegeRepo) CreateProgram(p college.Program) (college.Program, error) {
	if err := repo.db.Create(&p).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return college.Program{}, college.ErrProgramExists
		}
		return college.Program{}, err
	}
	return p, nil
}

func (repo *collegeRepo) GetProgramByID(id string) (college.Program, error) {
	var p college.Program
	err := repo.db.First(&p, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return college.Program{}, college.ErrProgramNotFound
	}
	return p, err
}

func (repo *collegeRepo) FilterPrograms(filter college.QueryFilter) ([]college.Program, error) {
	q := repo.db.Model(&college.Program{})
	if filter.Search != "" {
		needle := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ?", needle, needle)
	}
	if filter.CollegeID != "" {
		q = q.Where("college_id = ?", filter.CollegeID)
	}

	var ps []college.Program
	err := q.Order("name").Find(&ps).Error
	return ps, err
}

func (repo *collegeRepo) UpdateProgram(p college.Program) (college.Program, error) {
	res := repo.db.Model(&college.Program{}).Where("id = ?", p.ID).Updates(&p)
	if res.Error != nil {
		if res.Error == gorm.ErrDuplicatedKey {
			return college.Program{}, college.ErrProgramExists
		}
		return college.Program{}, res.Error
	}
	if res.RowsAffected == 0 {
		return college.Program{}, college.ErrProgramNotFound
	}
	return repo.GetProgramByID(p.ID)
}

func (repo *collegeRepo) DeleteProgramsByID(ids ...string) error {
	return repo.db.Delete(&college.Program{}, "id IN ?", ids).Error
}
