package journal

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date format entries carry. Dates have no time
// component; comparisons are done on the parsed day.
const DateLayout = "2006-01-02"

// Location is an optional place attached to an entry. Coordinates are
// pointers so a partially filled location (address only) is representable;
// filters that need coordinates require both to be set.
type Location struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Address   string   `json:"address,omitempty"`
}

// HasCoordinates reports whether both latitude and longitude are present.
func (l *Location) HasCoordinates() bool {
	return l != nil && l.Latitude != nil && l.Longitude != nil
}

// Entry is a single journal record. Owner fields are denormalized at
// creation time and never updated afterwards.
type Entry struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Story      string    `json:"story"`
	Date       string    `json:"date"` // DateLayout
	Location   *Location `json:"location,omitempty"`
	ImageURL   string    `json:"imageUrl,omitempty"`
	OwnerID    string    `json:"userId"`
	OwnerEmail string    `json:"userEmail"`
	OwnerName  string    `json:"userName"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// DateValue parses the entry's calendar date. The zero time is returned for
// an unparseable date.
func (e *Entry) DateValue() time.Time {
	t, err := time.Parse(DateLayout, e.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Identity is the authenticated user as seen by the submission workflow.
// It is passed explicitly; the workflow keeps no ambient auth state.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
}

// IsZero reports whether no authenticated identity is present.
func (id Identity) IsZero() bool {
	return id.UID == ""
}

// ResolveName returns the display name to denormalize onto a new entry:
// the profile display name, else the email local part, else "User".
func (id Identity) ResolveName() string {
	if id.DisplayName != "" {
		return id.DisplayName
	}
	if id.Email != "" {
		if at := strings.Index(id.Email, "@"); at > 0 {
			return id.Email[:at]
		}
		return id.Email
	}
	return "User"
}
