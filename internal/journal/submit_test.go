package journal

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	inserts   []Entry
	insertErr error
}

func (f *fakeStore) Insert(ctx context.Context, entry Entry) (string, error) {
	if f.insertErr != nil {
		return "", f.insertErr
	}
	f.inserts = append(f.inserts, entry)
	return "entry-1", nil
}

type fakeImages struct {
	url   string
	err   error
	calls int
}

func (f *fakeImages) Upload(ctx context.Context, img ImageFile) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

var testIdentity = Identity{
	UID:         "user-1",
	Email:       "ada@example.com",
	DisplayName: "Ada",
}

func newTestSubmitter(st *fakeStore, im *fakeImages) *Submitter {
	return &Submitter{
		Store:  st,
		Images: im,
		Now: func() time.Time {
			return time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
		},
	}
}

func testImage() *ImageFile {
	return &ImageFile{
		Name:     "sunset.jpg",
		MIMEType: "image/jpeg",
		Size:     1024,
		Data:     strings.NewReader("jpeg-bytes"),
	}
}

func TestSubmitValidationShortCircuits(t *testing.T) {
	tests := []struct {
		name  string
		draft Draft
		want  error
	}{
		{"empty title", Draft{Title: "", Story: "a story"}, ErrTitleRequired},
		{"whitespace title", Draft{Title: "   ", Story: "a story"}, ErrTitleRequired},
		{"empty story", Draft{Title: "a title", Story: ""}, ErrStoryRequired},
		{"whitespace story", Draft{Title: "a title", Story: "\n\t "}, ErrStoryRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &fakeStore{}
			im := &fakeImages{}
			s := newTestSubmitter(st, im)

			// Attach an image to prove no collaborator is contacted
			tt.draft.Image = testImage()

			_, err := s.Submit(context.Background(), tt.draft, testIdentity, nil)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, st.inserts)
			assert.Zero(t, im.calls)
		})
	}
}

func TestSubmitRequiresIdentity(t *testing.T) {
	st := &fakeStore{}
	s := newTestSubmitter(st, &fakeImages{})

	_, err := s.Submit(context.Background(), Draft{Title: "t", Story: "s"}, Identity{}, nil)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Empty(t, st.inserts)
}

func TestSubmitWithoutImage(t *testing.T) {
	st := &fakeStore{}
	im := &fakeImages{}
	s := newTestSubmitter(st, im)

	draft := Draft{
		Title: "  Hiking in Patagonia  ",
		Story: "  Three days on the W trek.  ",
		Date:  "2024-06-20",
		Location: &Location{
			Latitude:  f64(-50.9423),
			Longitude: f64(-73.4068),
			Address:   "Torres del Paine",
		},
	}

	entry, err := s.Submit(context.Background(), draft, testIdentity, nil)
	require.NoError(t, err)
	require.Len(t, st.inserts, 1)
	assert.Zero(t, im.calls)

	assert.Equal(t, "entry-1", entry.ID)
	assert.Equal(t, "Hiking in Patagonia", entry.Title)
	assert.Equal(t, "Three days on the W trek.", entry.Story)
	assert.Equal(t, "2024-06-20", entry.Date)
	assert.Empty(t, entry.ImageURL)
	assert.Equal(t, "user-1", entry.OwnerID)
	assert.Equal(t, "ada@example.com", entry.OwnerEmail)
	assert.Equal(t, "Ada", entry.OwnerName)
	assert.Equal(t, time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC), entry.CreatedAt)
	assert.Equal(t, entry.CreatedAt, entry.UpdatedAt)
}

func TestSubmitDefaultsDateToToday(t *testing.T) {
	st := &fakeStore{}
	s := newTestSubmitter(st, &fakeImages{})

	entry, err := s.Submit(context.Background(), Draft{Title: "t", Story: "s"}, testIdentity, nil)
	require.NoError(t, err)
	assert.Equal(t, "2024-07-01", entry.Date)
}

func TestSubmitUploadSuccess(t *testing.T) {
	st := &fakeStore{}
	im := &fakeImages{url: "https://i.ibb.co/abc/sunset.jpg"}
	s := newTestSubmitter(st, im)

	draft := Draft{Title: "t", Story: "s", Image: testImage()}
	entry, err := s.Submit(context.Background(), draft, testIdentity, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, im.calls)
	assert.Equal(t, "https://i.ibb.co/abc/sunset.jpg", entry.ImageURL)
}

func TestSubmitUploadFailureDeclined(t *testing.T) {
	st := &fakeStore{}
	im := &fakeImages{err: errors.New("service down")}
	s := newTestSubmitter(st, im)

	decide := func(uploadErr error) Decision {
		assert.ErrorContains(t, uploadErr, "service down")
		return DecisionDiscard
	}

	draft := Draft{Title: "t", Story: "s", Image: testImage()}
	_, err := s.Submit(context.Background(), draft, testIdentity, decide)

	assert.ErrorIs(t, err, ErrAborted)
	var uploadFailed *UploadFailedError
	require.ErrorAs(t, err, &uploadFailed)
	assert.ErrorContains(t, uploadFailed.Reason, "service down")
	assert.Empty(t, st.inserts, "declined submission must never reach the store")
}

func TestSubmitUploadFailureNilDecideDiscards(t *testing.T) {
	st := &fakeStore{}
	im := &fakeImages{err: errors.New("service down")}
	s := newTestSubmitter(st, im)

	draft := Draft{Title: "t", Story: "s", Image: testImage()}
	_, err := s.Submit(context.Background(), draft, testIdentity, nil)
	assert.ErrorIs(t, err, ErrAborted)
	assert.Empty(t, st.inserts)
}

func TestSubmitUploadFailureAccepted(t *testing.T) {
	st := &fakeStore{}
	im := &fakeImages{err: errors.New("service down")}
	s := newTestSubmitter(st, im)

	decide := func(error) Decision { return DecisionSaveWithoutImage }

	draft := Draft{Title: "t", Story: "s", Image: testImage()}
	entry, err := s.Submit(context.Background(), draft, testIdentity, decide)

	require.NoError(t, err)
	require.Len(t, st.inserts, 1)
	assert.Empty(t, entry.ImageURL, "accepted fallback saves with no image")
	assert.Empty(t, st.inserts[0].ImageURL)
}

func TestSubmitInsertFailurePropagates(t *testing.T) {
	insertErr := errors.New("permission denied")
	st := &fakeStore{insertErr: insertErr}
	s := newTestSubmitter(st, &fakeImages{})

	_, err := s.Submit(context.Background(), Draft{Title: "t", Story: "s"}, testIdentity, nil)
	assert.ErrorIs(t, err, insertErr)
}

func TestIdentityResolveName(t *testing.T) {
	tests := []struct {
		name     string
		identity Identity
		want     string
	}{
		{"display name wins", Identity{UID: "u", Email: "a@b.c", DisplayName: "Ada"}, "Ada"},
		{"email local part", Identity{UID: "u", Email: "ada.lovelace@example.com"}, "ada.lovelace"},
		{"fallback", Identity{UID: "u"}, "User"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.identity.ResolveName())
		})
	}
}
