// Package resume turns uploaded resume files into structured profile fields:
// plain-text extraction from PDF/DOCX followed by generative field parsing.
package resume

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("resume not found")

// Resume holds the metadata of an uploaded file together with the text
// extracted from it at upload time.
type Resume struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"ownerId"`
	Filename  string    `json:"filename"`
	MimeType  string    `json:"mimeType"`
	Size      int64     `json:"size"`
	Text      string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// ParseResult is the field patch extracted from a resume. Every field is
// optional; absent fields stay empty and the caller decides what to merge
// into the student profile.
type ParseResult struct {
	StudentNo         string `json:"studentNo,omitempty"`
	Grade             string `json:"grade,omitempty"`
	Major             string `json:"major,omitempty"`
	GPA               string `json:"gpa,omitempty"`
	Skills            string `json:"skills,omitempty"`
	ResearchInterests string `json:"researchInterests,omitempty"`
	ProjectExperience string `json:"projectExperience,omitempty"`
	AvailableTime     string `json:"availableTime,omitempty"`
}

// IsEmpty reports whether no field was extracted at all.
func (r ParseResult) IsEmpty() bool {
	return r == ParseResult{}
}

// DocumentParseError wraps extraction failures so handlers can distinguish a
// bad upload from an internal fault.
type DocumentParseError struct {
	Filename string
	Err      error
}

func (e *DocumentParseError) Error() string {
	return fmt.Sprintf("parse resume %q: %v", e.Filename, e.Err)
}

func (e *DocumentParseError) Unwrap() error { return e.Err }

// Repository is the persistence port for uploaded resumes.
type Repository interface {
	Create(ctx context.Context, r Resume) error
	GetForOwner(ctx context.Context, ownerID, id uuid.UUID) (Resume, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]Resume, error)
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error
}
