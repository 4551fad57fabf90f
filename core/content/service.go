package content

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/Venkatesan-2007/innertia/core"
	"github.com/Venkatesan-2007/innertia/core/classroom"
	"github.com/Venkatesan-2007/innertia/core/policy"
)

var (
	ErrSlideNotFound    = errors.New("slide not found")
	ErrSlideExists      = errors.New("a slide with this number already exists for this session")
	ErrNoteNotFound     = errors.New("note not found")
	ErrDoubtNotFound    = errors.New("doubt not found")
	ErrResponseNotFound = errors.New("doubt response not found")
	ErrResponseExists   = errors.New("this doubt already has a response")
)

type Repository interface {
	// CreateSlide reports ErrSlideExists when the (session, number) pair
	// is taken.
	CreateSlide(s Slide) error
	GetSlideByID(id string) (Slide, error)
	FilterSlides(filter QueryFilter) ([]Slide, error)
	UpdateSlide(s Slide) (Slide, error)
	DeleteSlidesByID(ids ...string) error

	CreateNote(n Note) error
	GetNoteByID(id string) (Note, error)
	// FilterNotes restricts students to their own notes plus public ones.
	FilterNotes(scope policy.Scope, filter QueryFilter) ([]Note, error)
	UpdateNote(n Note) (Note, error)
	DeleteNotesByID(ids ...string) error

	CreateDoubt(d Doubt) error
	GetDoubtByID(id string) (Doubt, error)
	FilterDoubts(scope policy.Scope, filter QueryFilter) ([]Doubt, error)
	UpdateDoubt(d Doubt) (Doubt, error)

	// CreateDoubtResponse reports ErrResponseExists when the doubt already
	// has an answer.
	CreateDoubtResponse(r DoubtResponse) error
	GetDoubtResponseByID(id string) (DoubtResponse, error)
	GetResponseByDoubt(doubtID string) (DoubtResponse, error)
	FilterDoubtResponses(scope policy.Scope, filter QueryFilter) ([]DoubtResponse, error)
	UpdateDoubtResponse(r DoubtResponse) (DoubtResponse, error)
	DeleteDoubtResponsesByID(ids ...string) error
}

type Service struct {
	repo     Repository
	classSvc *classroom.Service
}

func NewService(repo Repository, classSvc *classroom.Service) *Service {
	return &Service{repo: repo, classSvc: classSvc}
}

func (svc *Service) checkSession(id string) error {
	if _, err := svc.classSvc.GetSessionByID(id); err != nil {
		if err == classroom.ErrSessionNotFound {
			return core.NewValidationError(err, core.FieldError{Field: "session_id", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) CreateSlide(ns NewSlide) (Slide, error) {
	if err := svc.checkSession(ns.SessionID); err != nil {
		return Slide{}, err
	}

	s := Slide{
		ID:            uuid.NewString(),
		SessionID:     ns.SessionID,
		SlideNumber:   ns.SlideNumber,
		Title:         ns.Title,
		Content:       ns.Content,
		ImageURL:      ns.ImageURL,
		FileURL:       ns.FileURL,
		AISummary:     ns.AISummary,
		AIDefinitions: ns.AIDefinitions,
		AIQuestions:   ns.AIQuestions,
	}
	if err := svc.repo.CreateSlide(s); err != nil {
		if err == ErrSlideExists {
			return Slide{}, core.NewValidationError(err, core.FieldError{Field: "slide_number", Error: err.Error()})
		}
		return Slide{}, err
	}
	return s, nil
}

func (svc *Service) GetSlideByID(id string) (Slide, error) {
	return svc.repo.GetSlideByID(id)
}

func (svc *Service) FilterSlides(filter QueryFilter) ([]Slide, error) {
	filter.Clean()
	return svc.repo.FilterSlides(filter)
}

func (svc *Service) UpdateSlide(id string, ns NewSlide) (Slide, error) {
	s, err := svc.repo.GetSlideByID(id)
	if err != nil {
		return Slide{}, err
	}
	s.SlideNumber = ns.SlideNumber
	s.Title = ns.Title
	s.Content = ns.Content
	s.ImageURL = ns.ImageURL
	s.FileURL = ns.FileURL
	s.AISummary = ns.AISummary
	s.AIDefinitions = ns.AIDefinitions
	s.AIQuestions = ns.AIQuestions
	return svc.repo.UpdateSlide(s)
}

func (svc *Service) DeleteSlides(ids ...string) error {
	return svc.repo.DeleteSlidesByID(ids...)
}

// CreateNote records a note authored by the given student.
func (svc *Service) CreateNote(studentID string, nn NewNote) (Note, error) {
	if err := svc.checkSession(nn.SessionID); err != nil {
		return Note{}, err
	}

	n := Note{
		ID:        uuid.NewString(),
		StudentID: studentID,
		SessionID: nn.SessionID,
		SlideID:   nn.SlideID,
		Title:     nn.Title,
		Content:   nn.Content,
		Tags:      nn.Tags,
		IsPublic:  nn.IsPublic,
	}
	if err := svc.repo.CreateNote(n); err != nil {
		return Note{}, err
	}
	return n, nil
}

func (svc *Service) GetNoteByID(id string) (Note, error) {
	return svc.repo.GetNoteByID(id)
}

func (svc *Service) FilterNotes(scope policy.Scope, filter QueryFilter) ([]Note, error) {
	filter.Clean()
	return svc.repo.FilterNotes(scope, filter)
}

func (svc *Service) UpdateNote(id string, un UpdateNote) (Note, error) {
	n, err := svc.repo.GetNoteByID(id)
	if err != nil {
		return Note{}, err
	}
	if un.Title != "" {
		n.Title = un.Title
	}
	if un.Content != "" {
		n.Content = un.Content
	}
	if un.Tags != nil {
		n.Tags = un.Tags
	}
	if un.IsPublic != nil {
		n.IsPublic = *un.IsPublic
	}
	return svc.repo.UpdateNote(n)
}

func (svc *Service) DeleteNotes(ids ...string) error {
	return svc.repo.DeleteNotesByID(ids...)
}

// AskDoubt records a question from the given student against a session.
func (svc *Service) AskDoubt(studentID string, nd NewDoubt) (Doubt, error) {
	if err := svc.checkSession(nd.SessionID); err != nil {
		return Doubt{}, err
	}

	d := Doubt{
		ID:        uuid.NewString(),
		StudentID: studentID,
		SessionID: nd.SessionID,
		Question:  nd.Question,
		Status:    DoubtOpen,
		AskedAt:   classroom.NowFunc(),
	}
	if err := svc.repo.CreateDoubt(d); err != nil {
		return Doubt{}, err
	}
	return d, nil
}

func (svc *Service) GetDoubtByID(id string) (Doubt, error) {
	return svc.repo.GetDoubtByID(id)
}

func (svc *Service) FilterDoubts(scope policy.Scope, filter QueryFilter) ([]Doubt, error) {
	filter.Clean()
	return svc.repo.FilterDoubts(scope, filter)
}

// ResolveDoubt marks a doubt settled. Resolving twice is a no-op beyond
// refreshing the timestamp.
func (svc *Service) ResolveDoubt(id string) (Doubt, error) {
	d, err := svc.repo.GetDoubtByID(id)
	if err != nil {
		return Doubt{}, err
	}
	d.Status = DoubtResolved
	d.ResolvedAt = null.TimeFrom(classroom.NowFunc())
	return svc.repo.UpdateDoubt(d)
}

// RespondToDoubt attaches the single answer to a doubt and moves the doubt
// to answered. A second response for the same doubt is a conflict.
func (svc *Service) RespondToDoubt(nr NewDoubtResponse) (DoubtResponse, error) {
	d, err := svc.repo.GetDoubtByID(nr.DoubtID)
	if err != nil {
		if err == ErrDoubtNotFound {
			return DoubtResponse{}, core.NewValidationError(err, core.FieldError{Field: "doubt_id", Error: err.Error()})
		}
		return DoubtResponse{}, err
	}

	r := DoubtResponse{
		ID:              uuid.NewString(),
		DoubtID:         d.ID,
		Answer:          nr.Answer,
		SourceSlideID:   nr.SourceSlideID,
		SourceSnippet:   nr.SourceSnippet,
		ConfidenceScore: nr.ConfidenceScore,
		GeneratedByAI:   nr.GeneratedByAI,
		FacultyVerified: nr.FacultyVerified,
		RespondedAt:     classroom.NowFunc(),
	}
	if err := svc.repo.CreateDoubtResponse(r); err != nil {
		return DoubtResponse{}, err
	}

	if d.Status == DoubtOpen {
		d.Status = DoubtAnswered
		if _, err := svc.repo.UpdateDoubt(d); err != nil {
			return DoubtResponse{}, err
		}
	}
	return r, nil
}

func (svc *Service) GetDoubtResponseByID(id string) (DoubtResponse, error) {
	return svc.repo.GetDoubtResponseByID(id)
}

func (svc *Service) FilterDoubtResponses(scope policy.Scope, filter QueryFilter) ([]DoubtResponse, error) {
	filter.Clean()
	return svc.repo.FilterDoubtResponses(scope, filter)
}

func (svc *Service) UpdateDoubtResponse(id string, nr NewDoubtResponse) (DoubtResponse, error) {
	r, err := svc.repo.GetDoubtResponseByID(id)
	if err != nil {
		return DoubtResponse{}, err
	}
	r.Answer = nr.Answer
	r.SourceSlideID = nr.SourceSlideID
	r.SourceSnippet = nr.SourceSnippet
	r.ConfidenceScore = nr.ConfidenceScore
	r.GeneratedByAI = nr.GeneratedByAI
	r.FacultyVerified = nr.FacultyVerified
	return svc.repo.UpdateDoubtResponse(r)
}

func (svc *Service) DeleteDoubtResponses(ids ...string) error {
	return svc.repo.DeleteDoubtResponsesByID(ids...)
}
