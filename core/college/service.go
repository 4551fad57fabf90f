package college

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/Venkatesan-2007/innertia/core"
)

var (
	// errors
	ErrNotFound        = errors.New("college not found")
	ErrCodeExists      = errors.New("a college with this code already exists")
	ErrProgramNotFound = errors.New("program not found")
	ErrProgramExists   = errors.New("a program with this code already exists in this college")
)

type (
	Repository interface {
		CreateCollege(c College) (College, error)
		GetCollegeByID(id string) (College, error)
		FilterColleges(filter QueryFilter) ([]College, error)
		UpdateCollege(c College) (College, error)
		DeleteCollegesByID(ids ...string) error

		CreateProgram(p Program) (Program, error)
		GetProgramByID(id string) (Program, error)
		FilterPrograms(filter QueryFilter) ([]Program, error)
		UpdateProgram(p Program) (Program, error)
		DeleteProgramsByID(ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(nc NewCollege) (College, error) {
	c := College{
		ID:        uuid.NewString(),
		Name:      nc.Name,
		Code:      nc.Code,
		Address:   nc.Address,
		City:      nc.City,
		Country:   nc.Country,
		AdminID:   null.NewString(nc.AdminID, nc.AdminID != ""),
		CreatedAt: time.Now().UTC(),
	}
	c, err := svc.repo.CreateCollege(c)
	if err == ErrCodeExists {
		return College{}, core.NewValidationError(err, core.FieldError{Field: "code", Error: err.Error()})
	}
	return c, err
}

func (svc *Service) GetByID(id string) (College, error) {
	return svc.repo.GetCollegeByID(id)
}

func (svc *Service) Filter(filter QueryFilter) ([]College, error) {
	return svc.repo.FilterColleges(filter)
}

func (svc *Service) Update(id string, uc UpdateCollege) (College, error) {
	return svc.repo.UpdateCollege(College{
		ID:      id,
		Name:    uc.Name,
		Address: uc.Address,
		City:    uc.City,
		Country: uc.Country,
		AdminID: null.NewString(uc.AdminID, uc.AdminID != ""),
	})
}

func (svc *Service) Delete(ids ...string) error {
	return svc.repo.DeleteCollegesByID(ids...)
}

func (svc *Service) CreateProgram(np NewProgram) (Program, error) {
	if _, err := svc.repo.GetCollegeByID(np.CollegeID); err != nil {
		return Program{}, err
	}
	p := Program{
		ID:                uuid.NewString(),
		Name:              np.Name,
		Code:              np.Code,
		CollegeID:         np.CollegeID,
		DurationSemesters: np.DurationSemesters,
		CreatedAt:         time.Now().UTC(),
	}
	p, err := svc.repo.CreateProgram(p)
	if err == ErrProgramExists {
		return Program{}, core.NewValidationError(err, core.FieldError{Field: "code", Error: err.Error()})
	}
	return p, err
}

func (svc *Service) GetProgramByID(id string) (Program, error) {
	return svc.repo.GetProgramByID(id)
}

func (svc *Service) FilterPrograms(filter QueryFilter) ([]Program, error) {
	return svc.repo.FilterPrograms(filter)
}

func (svc *Service) UpdateProgram(id string, np NewProgram) (Program, error) {
	return svc.repo.UpdateProgram(Program{
		ID:                id,
		Name:              np.Name,
		Code:              np.Code,
		CollegeID:         np.CollegeID,
		DurationSemesters: np.DurationSemesters,
	})
}

func (svc *Service) DeletePrograms(ids ...string) error {
	return svc.repo.DeleteProgramsByID(ids...)
}
