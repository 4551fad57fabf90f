package inmem

import (
	"strings"

	"github.com/Venkatesan-2007/innertia/core/content"
	"github.com/Venkatesan-2007/innertia/core/policy"
)

type contentRepo struct {
	db *DB
}

var _ content.Repository = (*contentRepo)(nil)

func NewContentRepository(db *DB) content.Repository {
	return &contentRepo{db: db}
}

func (repo *contentRepo) CreateSlide(s content.Slide) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, existing := range repo.db.slides {
		if existing.SessionID == s.SessionID && existing.SlideNumber == s.SlideNumber {
			return content.ErrSlideExists
		}
	}
	repo.db.slides[s.ID] = &s
	return nil
}

func (repo *contentRepo) GetSlideByID(id string) (content.Slide, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if s, ok := repo.db.slides[id]; ok {
		return *s, nil
	}
	return content.Slide{}, content.ErrSlideNotFound
}

func (repo *contentRepo) FilterSlides(filter content.QueryFilter) ([]content.Slide, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	ss := make([]content.Slide, 0)
	for _, s := range repo.db.slides {
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(s.Title), filter.Search) &&
			!strings.Contains(strings.ToLower(s.Content), filter.Search) {
			continue
		}
		if filter.SessionID != "" && s.SessionID != filter.SessionID {
			continue
		}
		ss = append(ss, *s)
	}
	return ss, nil
}

func (repo *contentRepo) UpdateSlide(s content.Slide) (content.Slide, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	existing, ok := repo.db.slides[s.ID]
	if !ok {
		return content.Slide{}, content.ErrSlideNotFound
	}
	for _, other := range repo.db.slides {
		if other.ID != s.ID && other.SessionID == s.SessionID && other.SlideNumber == s.SlideNumber {
			return content.Slide{}, content.ErrSlideExists
		}
	}
	*existing = s
	return *existing, nil
}

func (repo *contentRepo) DeleteSlidesByID(ids ...string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, id := range ids {
		delete(repo.db.slides, id)
	}
	return nil
}

func (repo *contentRepo) CreateNote(n content.Note) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.notes[n.ID] = &n
	return nil
}

func (repo *contentRepo) GetNoteByID(id string) (content.Note, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if n, ok := repo.db.notes[id]; ok {
		return *n, nil
	}
	return content.Note{}, content.ErrNoteNotFound
}

func (repo *contentRepo) FilterNotes(scope policy.Scope, filter content.QueryFilter) ([]content.Note, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	ns := make([]content.Note, 0)
	for _, n := range repo.db.notes {
		switch {
		case scope.All:
		case scope.FacultyID != "":
			if repo.db.sessionFaculty(n.SessionID) != scope.FacultyID && !n.IsPublic {
				continue
			}
		case scope.StudentID != "":
			if n.StudentID != scope.StudentID && !n.IsPublic {
				continue
			}
		default:
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(n.Title), filter.Search) &&
			!strings.Contains(strings.ToLower(n.Content), filter.Search) {
			continue
		}
		if filter.SessionID != "" && n.SessionID != filter.SessionID {
			continue
		}
		if filter.StudentID != "" && n.StudentID != filter.StudentID {
			continue
		}
		if filter.IsPublic != nil && n.IsPublic != *filter.IsPublic {
			continue
		}
		ns = append(ns, *n)
	}
	return ns, nil
}

func (repo *contentRepo) UpdateNote(n content.Note) (content.Note, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	existing, ok := repo.db.notes[n.ID]
	if !ok {
		return content.Note{}, content.ErrNoteNotFound
	}
	*existing = n
	return *existing, nil
}

func (repo *contentRepo) DeleteNotesByID(ids ...string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, id := range ids {
		delete(repo.db.notes, id)
	}
	return nil
}

func (repo *contentRepo) CreateDoubt(d content.Doubt) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.doubts[d.ID] = &d
	return nil
}

func (repo *contentRepo) GetDoubtByID(id string) (content.Doubt, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if d, ok := repo.db.doubts[id]; ok {
		return *d, nil
	}
	return content.Doubt{}, content.ErrDoubtNotFound
}

func (repo *contentRepo) FilterDoubts(scope policy.Scope, filter content.QueryFilter) ([]content.Doubt, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	ds := make([]content.Doubt, 0)
	for _, d := range repo.db.doubts {
		switch {
		case scope.All:
		case scope.FacultyID != "":
			if repo.db.sessionFaculty(d.SessionID) != scope.FacultyID {
				continue
			}
		case scope.StudentID != "":
			if d.StudentID != scope.StudentID {
				continue
			}
		default:
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(d.Question), filter.Search) {
			continue
		}
		if filter.SessionID != "" && d.SessionID != filter.SessionID {
			continue
		}
		if filter.StudentID != "" && d.StudentID != filter.StudentID {
			continue
		}
		if filter.Status != "" && d.Status != filter.Status {
			continue
		}
		ds = append(ds, *d)
	}
	return ds, nil
}

func (repo *contentRepo) UpdateDoubt(d content.Doubt) (content.Doubt, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	existing, ok := repo.db.doubts[d.ID]
	if !ok {
		return content.Doubt{}, content.ErrDoubtNotFound
	}
	*existing = d
	return *existing, nil
}

func (repo *contentRepo) CreateDoubtResponse(r content.DoubtResponse) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, existing := range repo.db.doubtResponses {
		if existing.DoubtID == r.DoubtID {
			return content.ErrResponseExists
		}
	}
	repo.db.doubtResponses[r.ID] = &r
	return nil
}

func (repo *contentRepo) GetDoubtResponseByID(id string) (content.DoubtResponse, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if r, ok := repo.db.doubtResponses[id]; ok {
		return *r, nil
	}
	return content.DoubtResponse{}, content.ErrResponseNotFound
}

func (repo *contentRepo) GetResponseByDoubt(doubtID string) (content.DoubtResponse, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, r := range repo.db.doubtResponses {
		if r.DoubtID == doubtID {
			return *r, nil
		}
	}
	return content.DoubtResponse{}, content.ErrResponseNotFound
}

func (repo *contentRepo) FilterDoubtResponses(scope policy.Scope, filter content.QueryFilter) ([]content.DoubtResponse, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	doubtVisible := func(doubtID string) bool {
		d, ok := repo.db.doubts[doubtID]
		if !ok {
			return false
		}
		switch {
		case scope.All:
			return true
		case scope.FacultyID != "":
			return repo.db.sessionFaculty(d.SessionID) == scope.FacultyID
		case scope.StudentID != "":
			return d.StudentID == scope.StudentID
		}
		return false
	}

	rs := make([]content.DoubtResponse, 0)
	for _, r := range repo.db.doubtResponses {
		if !doubtVisible(r.DoubtID) {
			continue
		}
		if filter.DoubtID != "" && r.DoubtID != filter.DoubtID {
			continue
		}
		rs = append(rs, *r)
	}
	return rs, nil
}

func (repo *contentRepo) UpdateDoubtResponse(r content.DoubtResponse) (content.DoubtResponse, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	existing, ok := repo.db.doubtResponses[r.ID]
	if !ok {
		return content.DoubtResponse{}, content.ErrResponseNotFound
	}
	*existing = r
	return *existing, nil
}

func (repo *contentRepo) DeleteDoubtResponsesByID(ids ...string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, id := range ids {
		delete(repo.db.doubtResponses, id)
	}
	return nil
}
