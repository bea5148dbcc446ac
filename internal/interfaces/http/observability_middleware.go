package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-ledger/pkg/logger"
	"github.com/jhoicas/pos-ledger/pkg/metrics"
)

// RequestObserver mide la duración de cada request y deja una línea de access log.
func RequestObserver(m *metrics.HTTPMetrics, log *logger.Logger) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		elapsed := time.Since(start)

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		route := c.Route().Path
		m.Observe(c.Method(), route, status, elapsed)

		ev := log.Debug()
		if status >= fiber.StatusInternalServerError {
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("route", route).
			Int("status", status).
			Dur("elapsed", elapsed).
			Str("actor", GetUserID(c)).
			Msg("http request")
		return err
	}
}
