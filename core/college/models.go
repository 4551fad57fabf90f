package college

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/Venkatesan-2007/innertia/core"
)

type College struct {
	ID        string      `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string      `gorm:"size:255" json:"name"`
	Code      string      `gorm:"size:50;uniqueIndex" json:"code"`
	Address   string      `json:"address"`
	City      string      `gorm:"size:100" json:"city"`
	Country   string      `gorm:"size:100" json:"country"`
	AdminID   null.String `gorm:"type:uuid;uniqueIndex" json:"admin_id"`
	CreatedAt time.Time   `json:"created_at"`
}

func (College) TableName() string { return "colleges" }

type Program struct {
	ID                string    `gorm:"type:uuid;primaryKey;" json:"id"`
	Name              string    `gorm:"size:255" json:"name"`
	Code              string    `gorm:"size:50;uniqueIndex:idx_programs_code_college" json:"code"`
	CollegeID         string    `gorm:"type:uuid;uniqueIndex:idx_programs_code_college;index" json:"college_id"`
	DurationSemesters int       `json:"duration_semesters"`
	CreatedAt         time.Time `json:"created_at"`
}

func (Program) TableName() string { return "programs" }

// NewCollege contains information needed to create a new College.
type NewCollege struct {
	Name    string `json:"name" validate:"required,notblank"`
	Code    string `json:"code" validate:"required,notblank,max=50"`
	Address string `json:"address"`
	City    string `json:"city" validate:"required"`
	Country string `json:"country" validate:"required"`
	AdminID string `json:"admin_id" validate:"omitempty,uuid4"`
}

func (nc *NewCollege) Validate() error {
	nc.Name = core.CleanString(nc.Name)
	nc.Code = core.CleanString(nc.Code, true /* lower */)
	nc.City = core.CleanString(nc.City)
	nc.Country = core.CleanString(nc.Country)
	return core.Validate.Struct(nc)
}

type UpdateCollege struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
	AdminID string `json:"admin_id" validate:"omitempty,uuid4"`
}

func (uc *UpdateCollege) Validate() error {
	uc.Name = core.CleanString(uc.Name)
	return core.Validate.Struct(uc)
}

// NewProgram contains information needed to create a new Program.
// Code is unique within the college.
type NewProgram struct {
	Name              string `json:"name" validate:"required,notblank"`
	Code              string `json:"code" validate:"required,notblank,max=50"`
	CollegeID         string `json:"college_id" validate:"required,uuid4"`
	DurationSemesters int    `json:"duration_semesters" validate:"omitempty,min=1,max=12"`
}

func (np *NewProgram) Validate() error {
	np.Name = core.CleanString(np.Name)
	np.Code = core.CleanString(np.Code, true /* lower */)
	if np.DurationSemesters == 0 {
		np.DurationSemesters = 8
	}
	return core.Validate.Struct(np)
}

type QueryFilter struct {
	Search    string `query:"search"`
	City      string `query:"city"`
	Country   string `query:"country"`
	CollegeID string `query:"college_id"` // programs only
}

func (f *QueryFilter) Clean() {
	f.Search = core.CleanString(f.Search, true /* lower */)
}
