package journal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Validation and workflow errors. These are detected locally and never
// reach an external collaborator.
var (
	ErrTitleRequired    = errors.New("title is required")
	ErrStoryRequired    = errors.New("story is required")
	ErrNotAuthenticated = errors.New("you must be logged in to save an adventure")
	ErrAborted          = errors.New("submission abandoned after image upload failure")
)

// EntryInserter is the slice of the remote entry store the submission
// workflow needs.
type EntryInserter interface {
	Insert(ctx context.Context, entry Entry) (string, error)
}

// ImageFile is a draft attachment handed to the image host.
type ImageFile struct {
	Name     string
	MIMEType string
	Size     int64
	Data     io.Reader
}

// ImageHost uploads an image and returns its public URL.
type ImageHost interface {
	Upload(ctx context.Context, img ImageFile) (string, error)
}

// Draft is an in-progress, unsaved entry.
type Draft struct {
	Title    string
	Story    string
	Date     string // DateLayout; defaults to today when empty
	Location *Location
	Image    *ImageFile
}

// Decision is the operator's choice after a failed image upload.
type Decision int

const (
	// DecisionDiscard abandons the submission entirely.
	DecisionDiscard Decision = iota
	// DecisionSaveWithoutImage persists the entry with no image.
	DecisionSaveWithoutImage
)

// DecideFunc supplies the operator's upload-failure decision. The original
// UI blocks on a confirmation dialog here; modeling it as a callback lets
// HTTP clients declare the policy up front and tests answer programmatically.
type DecideFunc func(uploadErr error) Decision

// UploadFailedError reports an image upload failure on the discard path, so
// the caller can show the reason and offer a manual retry.
type UploadFailedError struct {
	Reason error
}

func (e *UploadFailedError) Error() string {
	return fmt.Sprintf("image upload failed: %v", e.Reason)
}

func (e *UploadFailedError) Unwrap() error { return ErrAborted }

// Submitter runs the entry submission workflow against its collaborators.
type Submitter struct {
	Store  EntryInserter
	Images ImageHost
	Logger *zap.SugaredLogger
	Now    func() time.Time // defaults to time.Now
}

func (s *Submitter) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Submit validates the draft, uploads the attached image if any, and
// persists the resulting entry. It is single-shot: persistence failures are
// returned classified, never retried. A failed upload does not abort
// outright; decide chooses between saving without the image and discarding
// the whole submission. A nil decide discards.
func (s *Submitter) Submit(ctx context.Context, draft Draft, identity Identity, decide DecideFunc) (*Entry, error) {
	title := strings.TrimSpace(draft.Title)
	story := strings.TrimSpace(draft.Story)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if story == "" {
		return nil, ErrStoryRequired
	}
	if identity.IsZero() {
		return nil, ErrNotAuthenticated
	}

	now := s.now()

	imageURL := ""
	if draft.Image != nil {
		url, err := s.Images.Upload(ctx, *draft.Image)
		if err != nil {
			s.logw("image upload failed", "error", err, "user_uid", identity.UID)
			choice := DecisionDiscard
			if decide != nil {
				choice = decide(err)
			}
			if choice != DecisionSaveWithoutImage {
				return nil, &UploadFailedError{Reason: err}
			}
			s.logw("saving adventure without image", "user_uid", identity.UID)
		} else {
			imageURL = url
		}
	}

	date := draft.Date
	if date == "" {
		date = now.Format(DateLayout)
	}

	entry := Entry{
		Title:      title,
		Story:      story,
		Date:       date,
		Location:   draft.Location,
		ImageURL:   imageURL,
		OwnerID:    identity.UID,
		OwnerEmail: identity.Email,
		OwnerName:  identity.ResolveName(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	id, err := s.Store.Insert(ctx, entry)
	if err != nil {
		return nil, err
	}
	entry.ID = id
	return &entry, nil
}

func (s *Submitter) logw(msg string, kv ...interface{}) {
	if s.Logger != nil {
		s.Logger.Warnw(msg, kv...)
	}
}
