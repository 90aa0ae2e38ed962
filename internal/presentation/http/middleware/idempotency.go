package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/kasir-api/internal/domain/entity"
	"github.com/sangkips/kasir-api/internal/domain/repository"
	"github.com/sangkips/kasir-api/internal/presentation/http/dto/response"
	"github.com/sangkips/kasir-api/pkg/apperror"
	"github.com/sangkips/kasir-api/pkg/logger"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
)

var (
	errKeyInProgress = apperror.NewConflictError("A request with this Idempotency-Key is still in progress")
	errKeyReused     = apperror.NewUnprocessableError("Idempotency-Key was already used with a different request body")
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
	TTL  time.Duration
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when a request is retried with the
// same Idempotency-Key. The key is reserved before the handler runs, so a
// retry that arrives while the first request is still printing gets 409.
// Only successful responses are kept; a failed print releases the key and can
// be retried. Reusing a key with a different body is rejected with 422.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	ttl := config.TTL
	if ttl <= 0 {
		ttl = IdempotencyKeyTTL
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		value, _ := c.Get(ContextUserID)
		userID, ok := value.(uuid.UUID)
		if !ok {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.BadRequest(c, "Failed to read request body")
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		hash := requestHash(body)

		ctx := c.Request.Context()
		existing, err := config.Repo.GetByKey(ctx, key, userID)
		if err != nil {
			logger.Error("idempotency", "Lookup failed", "key", key, "error", err)
			response.InternalServerError(c, "Failed to check idempotency key")
			c.Abort()
			return
		}

		if existing != nil && existing.IsExpired() {
			if err := config.Repo.DeleteExpired(ctx); err != nil {
				logger.Warn("idempotency", "Failed to purge expired keys", "error", err)
			}
			existing = nil
		}

		if existing != nil {
			answerExisting(c, existing, hash)
			return
		}

		ikey := &entity.IdempotencyKey{
			Key:         key,
			UserID:      userID,
			Endpoint:    c.Request.Method + " " + c.FullPath(),
			RequestHash: hash,
			ExpiresAt:   time.Now().Add(ttl),
		}
		reserved, err := config.Repo.Reserve(ctx, ikey)
		if err != nil {
			logger.Error("idempotency", "Reserve failed", "key", key, "error", err)
			response.InternalServerError(c, "Failed to reserve idempotency key")
			c.Abort()
			return
		}
		if !reserved {
			// lost the insert to a concurrent request
			if holder, err := config.Repo.GetByKey(ctx, key, userID); err == nil && holder != nil {
				answerExisting(c, holder, hash)
				return
			}
			response.Error(c, errKeyInProgress)
			c.Abort()
			return
		}

		blw := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		// the request context may already be cancelled once the handler returns
		storeCtx := context.WithoutCancel(ctx)
		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			if err := config.Repo.Release(storeCtx, key, userID); err != nil {
				logger.Warn("idempotency", "Failed to release key", "key", key, "error", err)
			}
			return
		}

		ikey.ResponseCode = status
		ikey.ResponseBody = blw.body.String()
		ikey.ExpiresAt = time.Now().Add(ttl)
		if err := config.Repo.Complete(storeCtx, ikey); err != nil {
			logger.Warn("idempotency", "Failed to store response", "key", key, "error", err)
		}
	}
}

// answerExisting replays a finished key, or rejects the request when the key
// belongs to another body or is still running.
func answerExisting(c *gin.Context, existing *entity.IdempotencyKey, hash string) {
	switch {
	case !existing.Matches(hash):
		response.Error(c, errKeyReused)
	case existing.IsPending():
		response.Error(c, errKeyInProgress)
	default:
		c.Header("X-Idempotency-Replayed", "true")
		c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
	}
	c.Abort()
}

func requestHash(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
