package store

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"io.winapps.explorerdiary/internal/journal"
)

// PostgresStore implements EntryStore on a PostgreSQL pool, for
// deployments that keep the journal in their own database instead of a
// hosted document store.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an initialized connection pool. The schema is
// bootstrapped by db.InitPostgres.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Insert(ctx context.Context, entry journal.Entry) (string, error) {
	entryDate, err := time.Parse(journal.DateLayout, entry.Date)
	if err != nil {
		return "", &Error{Code: CodeOther, Op: "insert", Err: fmt.Errorf("invalid entry date %q: %w", entry.Date, err)}
	}

	id := uuid.New().String()

	var lat, lng *float64
	var address *string
	if entry.Location != nil {
		lat = entry.Location.Latitude
		lng = entry.Location.Longitude
		if entry.Location.Address != "" {
			address = &entry.Location.Address
		}
	}

	query := `
		INSERT INTO entries (id, owner_uid, owner_email, owner_name, title, story, entry_date, latitude, longitude, address, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = s.pool.Exec(ctx, query,
		id,
		entry.OwnerID,
		entry.OwnerEmail,
		entry.OwnerName,
		entry.Title,
		entry.Story,
		entryDate,
		lat,
		lng,
		address,
		nullableString(entry.ImageURL),
		entry.CreatedAt,
		entry.UpdatedAt,
	)
	if err != nil {
		return "", classifyPostgres("insert", err)
	}
	return id, nil
}

const entryColumns = `id, owner_uid, owner_email, owner_name, title, story, entry_date, latitude, longitude, address, image_url, created_at, updated_at`

func (s *PostgresStore) Get(ctx context.Context, ownerID, id string) (*journal.Entry, error) {
	query := fmt.Sprintf(`SELECT %s FROM entries WHERE id = $1 AND owner_uid = $2`, entryColumns)
	row := s.pool.QueryRow(ctx, query, id, ownerID)
	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, classifyPostgres("get", err)
	}
	return entry, nil
}

func (s *PostgresStore) Delete(ctx context.Context, ownerID, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM entries WHERE id = $1 AND owner_uid = $2`, id, ownerID)
	if err != nil {
		return classifyPostgres("delete", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) QueryByOwner(ctx context.Context, ownerID string, order Order, limit int) ([]journal.Entry, error) {
	dir := "DESC"
	if order.Direction == journal.SortAscending {
		dir = "ASC"
	}
	orderBy := fmt.Sprintf("ORDER BY entry_date %s, created_at %s", dir, dir)
	if order.Field == "createdAt" {
		orderBy = fmt.Sprintf("ORDER BY created_at %s", dir)
	}

	query := fmt.Sprintf(`SELECT %s FROM entries WHERE owner_uid = $1 %s`, entryColumns, orderBy)
	args := []interface{}{ownerID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, classifyPostgres("queryByOwner", err)
	}
	defer rows.Close()

	var entries []journal.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, classifyPostgres("queryByOwner", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyPostgres("queryByOwner", err)
	}
	return entries, nil
}

func scanEntry(row pgx.Row) (*journal.Entry, error) {
	var (
		e         journal.Entry
		entryDate time.Time
		lat, lng  *float64
		address   *string
		imageURL  *string
	)
	err := row.Scan(
		&e.ID,
		&e.OwnerID,
		&e.OwnerEmail,
		&e.OwnerName,
		&e.Title,
		&e.Story,
		&entryDate,
		&lat,
		&lng,
		&address,
		&imageURL,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Date = entryDate.Format(journal.DateLayout)
	if lat != nil || lng != nil || address != nil {
		e.Location = &journal.Location{Latitude: lat, Longitude: lng}
		if address != nil {
			e.Location.Address = *address
		}
	}
	if imageURL != nil {
		e.ImageURL = *imageURL
	}
	return &e, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// classifyPostgres maps a pgx failure onto the store error taxonomy by
// SQLSTATE class.
func classifyPostgres(op string, err error) error {
	code := CodeOther

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "42501": // insufficient_privilege
			code = CodePermissionDenied
		case strings.HasPrefix(pgErr.Code, "28"): // invalid authorization
			code = CodeUnauthenticated
		case pgErr.Code == "53100" || pgErr.Code == "53200": // disk full, out of memory
			code = CodeQuotaExceeded
		case strings.HasPrefix(pgErr.Code, "53") || strings.HasPrefix(pgErr.Code, "57"): // resources, operator intervention
			code = CodeUnavailable
		case strings.HasPrefix(pgErr.Code, "08"): // connection exception
			code = CodeNetwork
		}
		return &Error{Code: code, Op: op, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		code = CodeNetwork
	}
	return &Error{Code: code, Op: op, Err: err}
}
