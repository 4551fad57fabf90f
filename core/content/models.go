package content

import (
	"time"

	"github.com/volatiletech/null/v8"
	"gorm.io/datatypes"

	"github.com/Venkatesan-2007/innertia/core"
)

// Slide is a single deck page for a session, with text extracted at upload
// time and optional AI study aids generated ahead of class.
type Slide struct {
	ID            string         `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID     string         `gorm:"type:uuid;uniqueIndex:idx_slides_session_number" json:"session_id"`
	SlideNumber   int            `gorm:"uniqueIndex:idx_slides_session_number" json:"slide_number"`
	Title         string         `gorm:"size:255" json:"title"`
	Content       string         `json:"content"`
	ImageURL      null.String    `json:"image_url"`
	FileURL       null.String    `json:"file_url"`
	AISummary     string         `json:"ai_summary"`
	AIDefinitions datatypes.JSON `json:"ai_definitions"`
	AIQuestions   datatypes.JSON `json:"ai_questions"`
	CreatedAt     time.Time      `json:"created_at"`
}

func (Slide) TableName() string { return "slides" }

// Note is a student's own writeup for a session, optionally anchored to a
// slide and optionally shared with classmates.
type Note struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID string         `gorm:"type:uuid;index" json:"student_id"`
	SessionID string         `gorm:"type:uuid;index" json:"session_id"`
	SlideID   null.String    `gorm:"type:uuid" json:"slide_id"`
	Title     string         `gorm:"size:255" json:"title"`
	Content   string         `json:"content"`
	Tags      datatypes.JSON `json:"tags"`
	IsPublic  bool           `json:"is_public"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (Note) TableName() string { return "notes" }

type DoubtStatus string

const (
	DoubtOpen     DoubtStatus = "open"
	DoubtAnswered DoubtStatus = "answered"
	DoubtResolved DoubtStatus = "resolved"
	DoubtClosed   DoubtStatus = "closed"
)

func (s DoubtStatus) Valid() bool {
	switch s {
	case DoubtOpen, DoubtAnswered, DoubtResolved, DoubtClosed:
		return true
	}
	return false
}

type Doubt struct {
	ID         string      `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID  string      `gorm:"type:uuid;index" json:"student_id"`
	SessionID  string      `gorm:"type:uuid;index" json:"session_id"`
	Question   string      `json:"question"`
	Status     DoubtStatus `gorm:"size:20" json:"status"`
	AskedAt    time.Time   `json:"asked_at"`
	ResolvedAt null.Time   `json:"resolved_at"`
}

func (Doubt) TableName() string { return "doubts" }

// DoubtResponse is the single answer attached to a doubt, AI-generated by
// default and optionally verified by faculty afterwards.
type DoubtResponse struct {
	ID              string      `gorm:"type:uuid;primaryKey" json:"id"`
	DoubtID         string      `gorm:"type:uuid;uniqueIndex" json:"doubt_id"`
	Answer          string      `json:"answer"`
	SourceSlideID   null.String `gorm:"type:uuid" json:"source_slide_id"`
	SourceSnippet   string      `json:"source_snippet"`
	ConfidenceScore float64     `json:"confidence_score"`
	GeneratedByAI   bool        `json:"generated_by_ai"`
	FacultyVerified bool        `json:"faculty_verified"`
	RespondedAt     time.Time   `json:"responded_at"`
}

func (DoubtResponse) TableName() string { return "doubt_responses" }

type NewSlide struct {
	SessionID     string         `json:"session_id" validate:"required,uuid4"`
	SlideNumber   int            `json:"slide_number" validate:"required,min=1"`
	Title         string         `json:"title" validate:"required,notblank,max=255"`
	Content       string         `json:"content"`
	ImageURL      null.String    `json:"image_url" validate:"omitempty"`
	FileURL       null.String    `json:"file_url" validate:"omitempty"`
	AISummary     string         `json:"ai_summary"`
	AIDefinitions datatypes.JSON `json:"ai_definitions"`
	AIQuestions   datatypes.JSON `json:"ai_questions"`
}

func (ns *NewSlide) Validate() error {
	ns.Title = core.CleanString(ns.Title)
	return core.Validate.Struct(ns)
}

type NewNote struct {
	SessionID string         `json:"session_id" validate:"required,uuid4"`
	SlideID   null.String    `json:"slide_id"`
	Title     string         `json:"title" validate:"required,notblank,max=255"`
	Content   string         `json:"content" validate:"required,notblank"`
	Tags      datatypes.JSON `json:"tags"`
	IsPublic  bool           `json:"is_public"`
}

func (nn *NewNote) Validate() error {
	nn.Title = core.CleanString(nn.Title)
	return core.Validate.Struct(nn)
}

type UpdateNote struct {
	Title    string         `json:"title" validate:"omitempty,max=255"`
	Content  string         `json:"content"`
	Tags     datatypes.JSON `json:"tags"`
	IsPublic *bool          `json:"is_public"`
}

func (un *UpdateNote) Validate() error {
	un.Title = core.CleanString(un.Title)
	return core.Validate.Struct(un)
}

// NewDoubt contains a student's question; the student is the calling actor.
type NewDoubt struct {
	SessionID string `json:"session_id" validate:"required,uuid4"`
	Question  string `json:"question" validate:"required,notblank"`
}

func (nd *NewDoubt) Validate() error {
	nd.Question = core.CleanString(nd.Question)
	return core.Validate.Struct(nd)
}

type NewDoubtResponse struct {
	DoubtID         string      `json:"doubt_id" validate:"required,uuid4"`
	Answer          string      `json:"answer" validate:"required,notblank"`
	SourceSlideID   null.String `json:"source_slide_id"`
	SourceSnippet   string      `json:"source_snippet"`
	ConfidenceScore float64     `json:"confidence_score" validate:"min=0,max=1"`
	GeneratedByAI   bool        `json:"generated_by_ai"`
	FacultyVerified bool        `json:"faculty_verified"`
}

func (nr *NewDoubtResponse) Validate() error {
	return core.Validate.Struct(nr)
}

type QueryFilter struct {
	Search    string `query:"search"`
	SessionID string `query:"session_id"`
	StudentID string `query:"student_id"`
	SlideID   string `query:"slide_id"`
	DoubtID   string `query:"doubt_id"`

	Status   DoubtStatus `query:"status"`
	IsPublic *bool       `query:"is_public"`
}

func (f *QueryFilter) Clean() {
	f.Search = core.CleanString(f.Search, true /* lower */)
}
