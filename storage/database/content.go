package database

import (
	"strings"

	"gorm.io/gorm"

	"github.com/Venkatesan-2007/innertia/core/content"
	"github.com/Venkatesan-2007/innertia/core/policy"
)

type contentRepo struct {
	db *gorm.DB
}

var _ content.Repository = (*contentRepo)(nil)

func NewContentRepository(db *gorm.DB) content.Repository {
	return &contentRepo{db: db}
}

func (repo *contentRepo) CreateSlide(s content.Slide) error {
	err := repo.db.Create(&s).Error
	if err == gorm.ErrDuplicatedKey {
		return content.ErrSlideExists
	}
	return err
}

func (repo *contentRepo) GetSlideByID(id string) (content.Slide, error) {
	var s content.Slide
	err := repo.db.First(&s, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return content.Slide{}, content.ErrSlideNotFound
	}
	return s, err
}

func (repo *contentRepo) FilterSlides(filter content.QueryFilter) ([]content.Slide, error) {
	q := repo.db.Model(&content.Slide{})
	if filter.Search != "" {
		needle := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", needle, needle)
	}
	if filter.SessionID != "" {
		q = q.Where("session_id = ?", filter.SessionID)
	}

	var ss []content.Slide
	err := q.Order("slide_number").Find(&ss).Error
	return ss, err
}

func (repo *contentRepo) UpdateSlide(s content.Slide) (content.Slide, error) {
	res := repo.db.Model(&content.Slide{}).Where("id = ?", s.ID).Updates(&s)
	if res.Error != nil {
		if res.Error == gorm.ErrDuplicatedKey {
			return content.Slide{}, content.ErrSlideExists
		}
		return content.Slide{}, res.Error
	}
	if res.RowsAffected == 0 {
		return content.Slide{}, content.ErrSlideNotFound
	}
	return repo.GetSlideByID(s.ID)
}

func (repo *contentRepo) DeleteSlidesByID(ids ...string) error {
	return repo.db.Delete(&content.Slide{}, "id IN ?", ids).Error
}

func (repo *contentRepo) CreateNote(n content.Note) error {
	return repo.db.Create(&n).Error
}

func (repo *contentRepo) GetNoteByID(id string) (content.Note, error) {
	var n content.Note
	err := repo.db.First(&n, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return content.Note{}, content.ErrNoteNotFound
	}
	return n, err
}

func (repo *contentRepo) FilterNotes(scope policy.Scope, filter content.QueryFilter) ([]content.Note, error) {
	q := repo.db.Model(&content.Note{})
	switch {
	case scope.All:
	case scope.FacultyID != "":
		q = q.Joins("JOIN class_sessions ON class_sessions.id = notes.session_id").
			Where("class_sessions.faculty_id = ? OR notes.is_public = ?", scope.FacultyID, true)
	case scope.StudentID != "":
		// own notes plus anything shared publicly
		q = q.Where("notes.student_id = ? OR notes.is_public = ?", scope.StudentID, true)
	default:
		q = none(q)
	}
	if filter.Search != "" {
		needle := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("LOWER(notes.title) LIKE ? OR LOWER(notes.content) LIKE ?", needle, needle)
	}
	if filter.SessionID != "" {
		q = q.Where("notes.session_id = ?", filter.SessionID)
	}
	if filter.StudentID != "" {
		q = q.Where("notes.student_id = ?", filter.StudentID)
	}
	if filter.IsPublic != nil {
		q = q.Where("notes.is_public = ?", *filter.IsPublic)
	}

	var ns []content.Note
	err := q.Order("notes.created_at DESC").Find(&ns).Error
	return ns, err
}

func (repo *contentRepo) UpdateNote(n content.Note) (content.Note, error) {
	res := repo.db.Model(&content.Note{}).Where("id = ?", n.ID).
		Select("title", "content", "tags", "is_public").
		Updates(&n)
	if res.Error != nil {
		return content.Note{}, res.Error
	}
	if res.RowsAffected == 0 {
		return content.Note{}, content.ErrNoteNotFound
	}
	return repo.GetNoteByID(n.ID)
}

func (repo *contentRepo) DeleteNotesByID(ids ...string) error {
	return repo.db.Delete(&content.Note{}, "id IN ?", ids).Error
}

func (repo *contentRepo) CreateDoubt(d content.Doubt) error {
	return repo.db.Create(&d).Error
}

func (repo *contentRepo) GetDoubtByID(id string) (content.Doubt, error) {
	var d content.Doubt
	err := repo.db.First(&d, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return content.Doubt{}, content.ErrDoubtNotFound
	}
	return d, err
}

func (repo *contentRepo) scopeDoubts(scope policy.Scope) *gorm.DB {
	q := repo.db.Model(&content.Doubt{})
	switch {
	case scope.All:
		return q
	case scope.FacultyID != "":
		return q.Joins("JOIN class_sessions ON class_sessions.id = doubts.session_id").
			Where("class_sessions.faculty_id = ?", scope.FacultyID)
	case scope.StudentID != "":
		return q.Where("doubts.student_id = ?", scope.StudentID)
	}
	return none(q)
}

func (repo *contentRepo) FilterDoubts(scope policy.Scope, filter content.QueryFilter) ([]content.Doubt, error) {
	q := repo.scopeDoubts(scope)
	if filter.Search != "" {
		needle := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("LOWER(doubts.question) LIKE ?", needle)
	}
	if filter.SessionID != "" {
		q = q.Where("doubts.session_id = ?", filter.SessionID)
	}
	if filter.StudentID != "" {
		q = q.Where("doubts.student_id = ?", filter.StudentID)
	}
	if filter.Status != "" {
		q = q.Where("doubts.status = ?", filter.Status)
	}

	var ds []content.Doubt
	err := q.Order("doubts.asked_at DESC").Find(&ds).Error
	return ds, err
}

func (repo *contentRepo) UpdateDoubt(d content.Doubt) (content.Doubt, error) {
	res := repo.db.Model(&content.Doubt{}).Where("id = ?", d.ID).Updates(&d)
	if res.Error != nil {
		return content.Doubt{}, res.Error
	}
	if res.RowsAffected == 0 {
		return content.Doubt{}, content.ErrDoubtNotFound
	}
	return repo.GetDoubtByID(d.ID)
}

func (repo *contentRepo) CreateDoubtResponse(r content.DoubtResponse) error {
	err := repo.db.Create(&r).Error
	if err == gorm.ErrDuplicatedKey {
		return content.ErrResponseExists
	}
	return err
}

func (repo *contentRepo) GetDoubtResponseByID(id string) (content.DoubtResponse, error) {
	var r content.DoubtResponse
	err := repo.db.First(&r, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return content.DoubtResponse{}, content.ErrResponseNotFound
	}
	return r, err
}

func (repo *contentRepo) GetResponseByDoubt(doubtID string) (content.DoubtResponse, error) {
	var r content.DoubtResponse
	err := repo.db.First(&r, "doubt_id = ?", doubtID).Error
	if err == gorm.ErrRecordNotFound {
		return content.DoubtResponse{}, content.ErrResponseNotFound
	}
	return r, err
}

func (repo *contentRepo) FilterDoubtResponses(scope policy.Scope, filter content.QueryFilter) ([]content.DoubtResponse, error) {
	q := repo.db.Model(&content.DoubtResponse{})
	switch {
	case scope.All:
	case scope.FacultyID != "":
		q = q.Joins("JOIN doubts ON doubts.id = doubt_responses.doubt_id").
			Joins("JOIN class_sessions ON class_sessions.id = doubts.session_id").
			Where("class_sessions.faculty_id = ?", scope.FacultyID)
	case scope.StudentID != "":
		q = q.Joins("JOIN doubts ON doubts.id = doubt_responses.doubt_id").
			Where("doubts.student_id = ?", scope.StudentID)
	default:
		q = none(q)
	}
	if filter.DoubtID != "" {
		q = q.Where("doubt_responses.doubt_id = ?", filter.DoubtID)
	}

	var rs []content.DoubtResponse
	err := q.Order("doubt_responses.responded_at DESC").Find(&rs).Error
	return rs, err
}

func (repo *contentRepo) UpdateDoubtResponse(r content.DoubtResponse) (content.DoubtResponse, error) {
	res := repo.db.Model(&content.DoubtResponse{}).Where("id = ?", r.ID).
		Select("answer", "source_slide_id", "source_snippet", "confidence_score",
			"generated_by_ai", "faculty_verified").
		Updates(&r)
	if res.Error != nil {
		return content.DoubtResponse{}, res.Error
	}
	if res.RowsAffected == 0 {
		return content.DoubtResponse{}, content.ErrResponseNotFound
	}
	return repo.GetDoubtResponseByID(r.ID)
}

func (repo *contentRepo) DeleteDoubtResponsesByID(ids ...string) error {
	return repo.db.Delete(&content.DoubtResponse{}, "id IN ?", ids).Error
}
