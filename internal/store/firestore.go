package store

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"io.winapps.explorerdiary/internal/journal"
)

const entriesCollection = "entries"

// FirestoreStore implements EntryStore on top of Cloud Firestore, the
// backend the journal was originally built against.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore wraps an initialized Firestore client.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

type locationDoc struct {
	Latitude  *float64 `firestore:"latitude"`
	Longitude *float64 `firestore:"longitude"`
	Address   string   `firestore:"address"`
}

type entryDoc struct {
	Title      string       `firestore:"title"`
	Story      string       `firestore:"story"`
	Date       string       `firestore:"date"`
	Location   *locationDoc `firestore:"location,omitempty"`
	ImageURL   string       `firestore:"imageUrl"`
	OwnerID    string       `firestore:"userId"`
	OwnerEmail string       `firestore:"userEmail"`
	OwnerName  string       `firestore:"userName"`
	CreatedAt  time.Time    `firestore:"createdAt"`
	UpdatedAt  time.Time    `firestore:"updatedAt"`
}

func toDoc(e journal.Entry) entryDoc {
	doc := entryDoc{
		Title:      e.Title,
		Story:      e.Story,
		Date:       e.Date,
		ImageURL:   e.ImageURL,
		OwnerID:    e.OwnerID,
		OwnerEmail: e.OwnerEmail,
		OwnerName:  e.OwnerName,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
	if e.Location != nil {
		doc.Location = &locationDoc{
			Latitude:  e.Location.Latitude,
			Longitude: e.Location.Longitude,
			Address:   e.Location.Address,
		}
	}
	return doc
}

func fromDoc(id string, doc entryDoc) journal.Entry {
	e := journal.Entry{
		ID:         id,
		Title:      doc.Title,
		Story:      doc.Story,
		Date:       doc.Date,
		ImageURL:   doc.ImageURL,
		OwnerID:    doc.OwnerID,
		OwnerEmail: doc.OwnerEmail,
		OwnerName:  doc.OwnerName,
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}
	if doc.Location != nil {
		e.Location = &journal.Location{
			Latitude:  doc.Location.Latitude,
			Longitude: doc.Location.Longitude,
			Address:   doc.Location.Address,
		}
	}
	return e
}

func (s *FirestoreStore) Insert(ctx context.Context, entry journal.Entry) (string, error) {
	ref, _, err := s.client.Collection(entriesCollection).Add(ctx, toDoc(entry))
	if err != nil {
		return "", classifyFirestore("insert", err)
	}
	return ref.ID, nil
}

func (s *FirestoreStore) Get(ctx context.Context, ownerID, id string) (*journal.Entry, error) {
	snap, err := s.client.Collection(entriesCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, classifyFirestore("get", err)
	}
	var doc entryDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, &Error{Code: CodeOther, Op: "get", Err: err}
	}
	if doc.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	e := fromDoc(snap.Ref.ID, doc)
	return &e, nil
}

func (s *FirestoreStore) Delete(ctx context.Context, ownerID, id string) error {
	// Ownership check first so a stranger's delete reads as not-found.
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}
	if _, err := s.client.Collection(entriesCollection).Doc(id).Delete(ctx); err != nil {
		return classifyFirestore("delete", err)
	}
	return nil
}

func (s *FirestoreStore) QueryByOwner(ctx context.Context, ownerID string, order Order, limit int) ([]journal.Entry, error) {
	dir := firestore.Desc
	if order.Direction == journal.SortAscending {
		dir = firestore.Asc
	}
	field := "date"
	if order.Field == "createdAt" {
		field = "createdAt"
	}

	q := s.client.Collection(entriesCollection).
		Where("userId", "==", ownerID).
		OrderBy(field, dir)
	if field != "createdAt" {
		q = q.OrderBy("createdAt", dir)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var entries []journal.Entry
	iter := q.Documents(ctx)
	defer iter.Stop()
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, classifyFirestore("queryByOwner", err)
		}
		var doc entryDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, &Error{Code: CodeOther, Op: "queryByOwner", Err: err}
		}
		entries = append(entries, fromDoc(snap.Ref.ID, doc))
	}
	return entries, nil
}

// classifyFirestore maps a Firestore RPC failure onto the store error
// taxonomy using its gRPC status code.
func classifyFirestore(op string, err error) error {
	code := CodeOther
	switch status.Code(err) {
	case codes.PermissionDenied:
		code = CodePermissionDenied
	case codes.Unavailable:
		code = CodeUnavailable
	case codes.Unauthenticated:
		code = CodeUnauthenticated
	case codes.ResourceExhausted:
		code = CodeQuotaExceeded
	case codes.DeadlineExceeded, codes.Canceled:
		code = CodeNetwork
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		code = CodeNetwork
	}
	return &Error{Code: code, Op: op, Err: err}
}
