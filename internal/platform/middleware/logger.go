package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eduislas84/CuidarTek-Api/internal/platform/auth"
)

// Logger emits one structured log line per request, carrying the actor the
// same way the audit line does so the two correlate by request_id.
func Logger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			rid, _ := c.Get("request_id").(string)

			err := next(c)

			evt := logger.Info()
			if err != nil {
				evt = logger.Error().Err(err)
			}
			// Re-read the request: the auth middleware downstream swaps in
			// a context that carries the actor.
			if actor := auth.ActorFromContext(c.Request().Context()); actor.ID != uuid.Nil {
				evt = evt.
					Str("user_id", actor.ID.String()).
					Str("role", string(actor.Role))
			}
			evt.
				Str("request_id", rid).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", c.Response().Status).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP()).
				Msg("request")

			return err
		}
	}
}
