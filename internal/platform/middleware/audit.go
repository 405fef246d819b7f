package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eduislas84/CuidarTek-Api/internal/platform/auth"
)

// AccessEntry captures who accessed what, when, and from where. Entries are
// persisted by an AccessRecorder and always mirrored to the structured log.
type AccessEntry struct {
	UserID    string
	Role      string
	Action    string // read, create, update, delete
	Resource  string
	Path      string
	Method    string
	IPAddress string
	UserAgent string
	Status    int
	RequestID string
	Timestamp time.Time
}

// AccessRecorder persists access entries. The accesslog domain implements it;
// tests substitute a mock.
type AccessRecorder interface {
	RecordAccess(entry AccessEntry) error
}

// AccessRecorderFunc adapts a function to AccessRecorder.
type AccessRecorderFunc func(entry AccessEntry) error

func (f AccessRecorderFunc) RecordAccess(entry AccessEntry) error { return f(entry) }

// Audit logs every /api/v1 access after the handler runs. Recorder failures
// are logged and never fail the request; this is the only place a persistence
// error is deliberately not propagated.
func Audit(logger zerolog.Logger, recorder AccessRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if !strings.HasPrefix(path, "/api/v1/") {
				return next(c)
			}

			err := next(c)

			req := c.Request()
			actor := auth.ActorFromContext(req.Context())
			entry := AccessEntry{
				Role:      string(actor.Role),
				Action:    methodToAction(req.Method),
				Resource:  resourceFromPath(path),
				Path:      path,
				Method:    req.Method,
				IPAddress: c.RealIP(),
				UserAgent: req.UserAgent(),
				Status:    c.Response().Status,
				Timestamp: time.Now().UTC(),
			}
			if actor.ID != uuid.Nil {
				entry.UserID = actor.ID.String()
			}
			if rid, ok := c.Get("request_id").(string); ok {
				entry.RequestID = rid
			}

			if recorder != nil {
				if recErr := recorder.RecordAccess(entry); recErr != nil {
					logger.Error().Err(recErr).
						Str("request_id", entry.RequestID).
						Msg("failed to record access entry")
				}
			}

			logger.Info().
				Str("type", "access_audit").
				Str("request_id", entry.RequestID).
				Str("user_id", entry.UserID).
				Str("role", entry.Role).
				Str("action", entry.Action).
				Str("resource", entry.Resource).
				Str("method", entry.Method).
				Str("path", entry.Path).
				Str("remote_ip", entry.IPAddress).
				Int("status", entry.Status).
				Msg("record_access")

			return err
		}
	}
}

func methodToAction(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead:
		return "read"
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}

// resourceFromPath extracts the first path segment after /api/v1/, e.g.
// /api/v1/patients/123 -> patients.
func resourceFromPath(path string) string {
	segments := strings.Split(strings.TrimPrefix(path, "/api/v1/"), "/")
	if len(segments) > 0 && segments[0] != "" {
		return segments[0]
	}
	return "unknown"
}
