package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("insert failed: %w", &Error{Code: CodeQuotaExceeded, Op: "insert", Err: errors.New("full")})
	assert.Equal(t, CodeQuotaExceeded, CodeOf(wrapped))
	assert.Equal(t, CodeOther, CodeOf(errors.New("anything else")))
}

func TestMessagesAreDistinct(t *testing.T) {
	codes := []Code{
		CodePermissionDenied,
		CodeUnavailable,
		CodeUnauthenticated,
		CodeQuotaExceeded,
		CodeNetwork,
		CodeOther,
	}
	seen := make(map[string]Code)
	for _, code := range codes {
		msg := Message(code)
		assert.NotEmpty(t, msg)
		prev, dup := seen[msg]
		assert.False(t, dup, "codes %s and %s share a message", prev, code)
		seen[msg] = code
	}
}

func TestClassifyFirestore(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"permission denied", status.Error(codes.PermissionDenied, "denied"), CodePermissionDenied},
		{"unavailable", status.Error(codes.Unavailable, "down"), CodeUnavailable},
		{"unauthenticated", status.Error(codes.Unauthenticated, "expired"), CodeUnauthenticated},
		{"quota", status.Error(codes.ResourceExhausted, "quota"), CodeQuotaExceeded},
		{"deadline", status.Error(codes.DeadlineExceeded, "slow"), CodeNetwork},
		{"canceled context", context.Canceled, CodeNetwork},
		{"unknown", errors.New("boom"), CodeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyFirestore("insert", tt.err)
			assert.Equal(t, tt.want, CodeOf(err))
			assert.ErrorContains(t, err, "insert")
		})
	}
}

func TestClassifyPostgres(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"insufficient privilege", &pgconn.PgError{Code: "42501"}, CodePermissionDenied},
		{"invalid auth", &pgconn.PgError{Code: "28P01"}, CodeUnauthenticated},
		{"disk full", &pgconn.PgError{Code: "53100"}, CodeQuotaExceeded},
		{"out of memory", &pgconn.PgError{Code: "53200"}, CodeQuotaExceeded},
		{"too many connections", &pgconn.PgError{Code: "53300"}, CodeUnavailable},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, CodeUnavailable},
		{"connection failure", &pgconn.PgError{Code: "08006"}, CodeNetwork},
		{"context deadline", context.DeadlineExceeded, CodeNetwork},
		{"unknown pg error", &pgconn.PgError{Code: "23505"}, CodeOther},
		{"plain error", errors.New("boom"), CodeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyPostgres("queryByOwner", tt.err)
			assert.Equal(t, tt.want, CodeOf(err))
		})
	}
}
