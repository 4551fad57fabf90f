package inmem

import (
	"strings"

	"github.com/Venkatesan-2007/innertia/core/college"
)

type collegeRepo struct {
	db *DB
}

var _ college.Repository = (*collegeRepo)(nil)

func NewCollegeRepository(db *DB) college.Repository {
	return &collegeRepo{db: db}
}

func (repo *collegeRepo) CreateCollege(c college.College) (college.College, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, existing := range repo.db.colleges {
		if existing.Code == c.Code {
			return college.College{}, college.ErrCodeExists
		}
	}
	repo.db.colleges[c.ID] = &c
	return c, nil
}

func (repo *collegeRepo) GetCollegeByID(id string) (college.College, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if c, ok := repo.db.colleges[id]; ok {
		return *c, nil
	}
	return college.College{}, college.ErrNotFound
}

func (repo *collegeRepo) FilterColleges(filter college.QueryFilter) ([]college.College, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	cs := make([]college.College, 0, len(repo.db.colleges))
	for _, c := range repo.db.colleges {
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(c.Name), filter.Search) &&
			!strings.Contains(strings.ToLower(c.Code), filter.Search) &&
			!strings.Contains(strings.ToLower(c.City), filter.Search) {
			continue
		}
		if filter.City != "" && !strings.EqualFold(c.City, filter.City) {
			continue
		}
		cs = append(cs, *c)
	}
	return cs, nil
}

func (repo *collegeRepo) UpdateCollege(c college.College) (college.College, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	existing, ok := repo.db.colleges[c.ID]
	if !ok {
		return college.College{}, college.ErrNotFound
	}
	for _, other := range repo.db.colleges {
		if other.ID != c.ID && other.Code == c.Code {
			return college.College{}, college.ErrCodeExists
		}
	}
	*existing = c
	return *existing, nil
}

func (repo *collegeRepo) DeleteCollegesByID(ids ...string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, id := range ids {
		delete(repo.db.colleges, id)
	}
	return nil
}

func (repo *collegeRepo) CreateProgram(p college.Program) (college.Program, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, existing := range repo.db.programs {
		if existing.Code == p.Code && existing.CollegeID == p.CollegeID {
			return college.Program{}, college.ErrProgramExists
		}
	}
	repo.db.programs[p.ID] = &p
	return p, nil
}

func (repo *collegeRepo) GetProgramByID(id string) (college.Program, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if p, ok := repo.db.programs[id]; ok {
		return *p, nil
	}
	return college.Program{}, college.ErrProgramNotFound
}

func (repo *collegeRepo) FilterPrograms(filter college.QueryFilter) ([]college.Program, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	ps := make([]college.Program, 0, len(repo.db.programs))
	for _, p := range repo.db.programs {
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(p.Name), filter.Search) &&
			!strings.Contains(strings.ToLower(p.Code), filter.Search) {
			continue
		}
		if filter.CollegeID != "" && p.CollegeID != filter.CollegeID {
			continue
		}
		ps = append(ps, *p)
	}
	return ps, nil
}

func (repo *collegeRepo) UpdateProgram(p college.Program) (college.Program, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	existing, ok := repo.db.programs[p.ID]
	if !ok {
		return college.Program{}, college.ErrProgramNotFound
	}
	for _, other := range repo.db.programs {
		if other.ID != p.ID && other.Code == p.Code && other.CollegeID == p.CollegeID {
			return college.Program{}, college.ErrProgramExists
		}
	}
	*existing = p
	return *existing, nil
}

func (repo *collegeRepo) DeleteProgramsByID(ids ...string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, id := range ids {
		delete(repo.db.programs, id)
	}
	return nil
}
