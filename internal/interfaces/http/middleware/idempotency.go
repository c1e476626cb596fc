package middleware

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/bewloop/quark-system/internal/domain/shared"
	"github.com/bewloop/quark-system/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader carries the client-chosen key for a create request
const IdempotencyKeyHeader = "Idempotency-Key"

// IdempotencyReplayedHeader is set on responses served from the store
const IdempotencyReplayedHeader = "Idempotent-Replayed"

// MaxIdempotencyKeyLength bounds the client key
const MaxIdempotencyKeyLength = 128

// idempotencyStoreTimeout bounds each store call made outside the request context
const idempotencyStoreTimeout = 3 * time.Second

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Store  shared.IdempotencyStore
	TTL    time.Duration
	Logger *zap.Logger
}

// Idempotency replays the first successful response for a repeated
// Idempotency-Key so retried creates do not consume a second document number.
// It is mounted on create routes only, so replays answer 201. Requests
// without the header pass through untouched.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if cfg.Store == nil {
		return func(c *gin.Context) { c.Next() }
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		clientKey := c.GetHeader(IdempotencyKeyHeader)
		if clientKey == "" {
			c.Next()
			return
		}
		if len(clientKey) > MaxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.CodeBadRequest, "Idempotency-Key is too long", GetRequestID(c)))
			return
		}

		key := idempotencyScope(c, clientKey)

		// Store calls outlive the request: a client that disconnects after the
		// order commits must still find its response on retry.
		storeCtx := func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.WithoutCancel(c.Request.Context()), idempotencyStoreTimeout)
		}

		ctx, cancel := storeCtx()
		reserved, err := cfg.Store.Reserve(ctx, key, cfg.TTL)
		cancel()
		if err != nil {
			// Store outage degrades to plain processing
			log.Warn("idempotency reserve failed", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		if !reserved {
			replayIdempotent(c, cfg.Store, key, log)
			return
		}

		completed := false
		// Runs on failure responses, failed completes and panics unwinding
		// through c.Next alike
		defer func() {
			if completed {
				return
			}
			ctx, cancel := storeCtx()
			defer cancel()
			if err := cfg.Store.Release(ctx, key); err != nil {
				log.Warn("idempotency release failed", zap.String("key", key), zap.Error(err))
			}
		}()

		rec := &recordingWriter{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		if rec.Status() < http.StatusOK || rec.Status() >= http.StatusMultipleChoices {
			return
		}
		ctx, cancel = storeCtx()
		defer cancel()
		if err := cfg.Store.Complete(ctx, key, rec.body.Bytes(), cfg.TTL); err != nil {
			log.Warn("idempotency complete failed", zap.String("key", key), zap.Error(err))
			return
		}
		completed = true
	}
}

func replayIdempotent(c *gin.Context, store shared.IdempotencyStore, key string, log *zap.Logger) {
	resp, found, err := store.Lookup(c.Request.Context(), key)
	if err != nil {
		log.Warn("idempotency lookup failed", zap.String("key", key), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.CodeInternal, "An unexpected error occurred", GetRequestID(c)))
		return
	}
	if !found || resp == nil {
		body := dto.NewErrorResponse(dto.CodeRequestInFlight,
			"A request with this Idempotency-Key is still being processed", GetRequestID(c))
		body.Error.Retryable = true
		c.AbortWithStatusJSON(http.StatusConflict, body)
		return
	}
	c.Header(IdempotencyReplayedHeader, "true")
	c.Data(http.StatusCreated, "application/json; charset=utf-8", resp)
	c.Abort()
}

// idempotencyScope keeps keys from colliding across users and endpoints
func idempotencyScope(c *gin.Context, key string) string {
	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}
	return GetJWTUserID(c) + ":" + c.Request.Method + ":" + route + ":" + key
}

type recordingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *recordingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
