package server

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// NewLogger builds the process-wide structured logger.
func NewLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// AuthLogger adapts slog to the printf-style logger the auth package uses.
type AuthLogger struct {
	logger *slog.Logger
}

func NewAuthLogger(logger *slog.Logger) AuthLogger {
	return AuthLogger{logger: logger}
}

func (l AuthLogger) Debug(format string, args ...any) { l.logger.Debug(fmt.Sprintf(format, args...)) }
func (l AuthLogger) Info(format string, args ...any)  { l.logger.Info(fmt.Sprintf(format, args...)) }
func (l AuthLogger) Warn(format string, args ...any)  { l.logger.Warn(fmt.Sprintf(format, args...)) }
func (l AuthLogger) Error(format string, args ...any) { l.logger.Error(fmt.Sprintf(format, args...)) }

// RequestTimer logs each request and reports the handling time back to the
// client in the X-Process-Time header.
func RequestTimer(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		elapsed := time.Since(start)
		c.Set("X-Process-Time", strconv.FormatFloat(elapsed.Seconds(), 'f', 4, 64))

		logger.Info("request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"duration", elapsed.String(),
			"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
		)

		return err
	}
}
