package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	firebaseutil "io.winapps.explorerdiary/internal/firebase"
	"io.winapps.explorerdiary/internal/journal"
)

const identityCacheTTL = 10 * time.Minute

type cachedIdentity struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AuthMiddleware verifies the Bearer ID token with Firebase Auth and sets
// the authenticated identity on the request context. Verified identities
// are cached in Redis keyed by token hash so repeated requests skip the
// round trip to Firebase.
func AuthMiddleware(firebaseApp *firebase.App, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must start with 'Bearer '"})
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, bearerPrefix)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is required"})
			c.Abort()
			return
		}

		ctx := context.Background()
		cacheKey := identityCacheKey(token)

		// Try the Redis identity cache first
		if cached, err := redisClient.Get(ctx, cacheKey).Result(); err == nil {
			var ident cachedIdentity
			if err := json.Unmarshal([]byte(cached), &ident); err == nil && ident.UID != "" {
				setIdentity(c, ident)
				c.Next()
				return
			}
		}

		// Fall back to verifying the ID token with Firebase
		authClient, err := firebaseutil.GetAuthClient(firebaseApp)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initialize auth client"})
			c.Abort()
			return
		}

		idToken, err := authClient.VerifyIDToken(ctx, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		ident := cachedIdentity{UID: idToken.UID}
		if email, ok := idToken.Claims["email"].(string); ok {
			ident.Email = email
		}
		if name, ok := idToken.Claims["name"].(string); ok {
			ident.Name = name
		}

		// Cache the verified identity, best effort
		if data, err := json.Marshal(ident); err == nil {
			redisClient.Set(ctx, cacheKey, data, identityCacheTTL)
		}

		setIdentity(c, ident)
		c.Next()
	}
}

func identityCacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "auth_identity:" + hex.EncodeToString(sum[:])
}

func setIdentity(c *gin.Context, ident cachedIdentity) {
	c.Set("uid", ident.UID)
	c.Set("email", ident.Email)
	c.Set("name", ident.Name)
}

// IdentityFromContext extracts the authenticated identity placed on the
// context by AuthMiddleware. The zero Identity means not authenticated.
func IdentityFromContext(c *gin.Context) journal.Identity {
	return journal.Identity{
		UID:         c.GetString("uid"),
		Email:       c.GetString("email"),
		DisplayName: c.GetString("name"),
	}
}
