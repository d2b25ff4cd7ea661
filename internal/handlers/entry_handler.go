package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"io.winapps.explorerdiary/internal/journal"
	"io.winapps.explorerdiary/internal/store"
)

// EntryHandler serves the journal entry endpoints. The entry store and
// image host are collaborators behind narrow interfaces; all decision
// logic lives in the journal package.
type EntryHandler struct {
	store     store.EntryStore
	submitter *journal.Submitter
	redis     *redis.Client
	logger    *zap.SugaredLogger
}

// NewEntryHandler creates a new entry handler
func NewEntryHandler(entryStore store.EntryStore, images journal.ImageHost, redisClient *redis.Client, logger *zap.SugaredLogger) *EntryHandler {
	return &EntryHandler{
		store: entryStore,
		submitter: &journal.Submitter{
			Store:  entryStore,
			Images: images,
			Logger: logger,
		},
		redis:  redisClient,
		logger: logger,
	}
}

// storeErrorStatus maps a classified store failure to an HTTP status.
func storeErrorStatus(code store.Code) int {
	switch code {
	case store.CodePermissionDenied:
		return http.StatusForbidden
	case store.CodeUnauthenticated:
		return http.StatusUnauthorized
	case store.CodeQuotaExceeded:
		return http.StatusTooManyRequests
	case store.CodeUnavailable:
		return http.StatusServiceUnavailable
	case store.CodeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondStoreError converts a store failure into the user-facing message
// for its classification. Not-found gets its own response.
func (h *EntryHandler) respondStoreError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found or access denied"})
		return
	}
	code := store.CodeOf(err)
	h.logError(c, err, "store operation failed", "store_code", string(code))
	c.JSON(storeErrorStatus(code), gin.H{"error": store.Message(code)})
}

// authenticatedUID pulls the uid set by the auth middleware, failing the
// request when absent.
func authenticatedUID(c *gin.Context) (string, bool) {
	uid, exists := c.Get("uid")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return "", false
	}
	userUID, ok := uid.(string)
	if !ok || userUID == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user context"})
		return "", false
	}
	return userUID, true
}
