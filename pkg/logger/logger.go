package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestIDKey is the gin context key holding the request id
const RequestIDKey = "request_id"

// Logger wraps slog.Logger with additional functionality
type Logger struct {
	*slog.Logger
}

// New creates a new logger instance writing to stdout
func New() *Logger {
	return NewWithWriter(os.Stdout)
}

// NewWithWriter creates a logger writing to w
func NewWithWriter(w io.Writer) *Logger {
	// Get log level from environment
	level := getLogLevel(os.Getenv("LOG_LEVEL"))

	// Create handler options
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	// Create handler based on environment
	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		// Use text handler for development (more readable)
		handler = slog.NewTextHandler(w, opts)
	} else {
		// Use JSON handler for production (structured)
		handler = slog.NewJSONHandler(w, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// getLogLevel converts string to slog.Level
func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID adds request ID to logger context
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("request_id", requestID)),
	}
}

// WithUserID adds user ID to logger context
func (l *Logger) WithUserID(userID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("user_id", userID)),
	}
}

// WithError adds error to logger context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("error", err.Error())),
	}
}

// WithFields adds multiple fields to logger context
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	return &Logger{
		Logger: l.Logger.With(args...),
	}
}

// HTTP logging methods

// LogHTTPRequest logs an HTTP request
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"HTTP Request",
		slog.String("request_id", c.GetString(RequestIDKey)),
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.String("user_agent", c.Request.UserAgent()),
		slog.Int("size", c.Writer.Size()),
	)
}

// LogHTTPError logs an HTTP error
func (l *Logger) LogHTTPError(c *gin.Context, err error, statusCode int) {
	l.Logger.ErrorContext(c.Request.Context(),
		"HTTP Error",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Int("status", statusCode),
		slog.String("error", err.Error()),
		slog.String("ip", c.ClientIP()),
	)
}

// Reservation logging methods

// LogHoldPlaced logs a successful seat hold
func (l *Logger) LogHoldPlaced(ctx context.Context, holder string, seatID, showtimeID uint, reservedUntil time.Time) {
	l.Logger.InfoContext(ctx,
		"Hold Placed",
		slog.String("holder", holder),
		slog.Uint64("seat_id", uint64(seatID)),
		slog.Uint64("showtime_id", uint64(showtimeID)),
		slog.Time("reserved_until", reservedUntil),
	)
}

// LogHoldConflict logs a rejected hold attempt
func (l *Logger) LogHoldConflict(ctx context.Context, holder string, seatID, showtimeID uint) {
	l.Logger.WarnContext(ctx,
		"Hold Conflict",
		slog.String("holder", holder),
		slog.Uint64("seat_id", uint64(seatID)),
		slog.Uint64("showtime_id", uint64(showtimeID)),
	)
}

// LogHoldsSwept logs a sweep that removed expired carts
func (l *Logger) LogHoldsSwept(ctx context.Context, carts, holds int64) {
	l.Logger.DebugContext(ctx,
		"Expired Holds Swept",
		slog.Int64("carts", carts),
		slog.Int64("holds", holds),
	)
}

// LogBookingFinalized logs when a booking is created from a captured payment
func (l *Logger) LogBookingFinalized(ctx context.Context, bookingID, orderID string, seats int, replayed bool) {
	l.Logger.InfoContext(ctx,
		"Booking Finalized",
		slog.String("booking_id", bookingID),
		slog.String("order_id", orderID),
		slog.Int("seats", seats),
		slog.Bool("replayed", replayed),
	)
}

// LogFinalizeConflict logs a finalize attempt rejected because a seat was taken
func (l *Logger) LogFinalizeConflict(ctx context.Context, orderID string, err error) {
	l.Logger.WarnContext(ctx,
		"Finalize Conflict",
		slog.String("order_id", orderID),
		slog.String("error", err.Error()),
	)
}

// LogPaymentCaptured logs the payment collaborator's capture result
func (l *Logger) LogPaymentCaptured(ctx context.Context, orderID, status string, amount float64) {
	l.Logger.InfoContext(ctx,
		"Payment Captured",
		slog.String("order_id", orderID),
		slog.String("status", status),
		slog.Float64("amount", amount),
	)
}

// Security logging methods

// LogAuthFailure logs a rejected bearer token
func (l *Logger) LogAuthFailure(ctx context.Context, reason, ip string) {
	l.Logger.WarnContext(ctx,
		"Authentication Failure",
		slog.String("reason", reason),
		slog.String("ip", ip),
	)
}

// LogRateLimitExceeded logs rate limit exceeded
func (l *Logger) LogRateLimitExceeded(ctx context.Context, ip, endpoint string) {
	l.Logger.WarnContext(ctx,
		"Rate Limit Exceeded",
		slog.String("ip", ip),
		slog.String("endpoint", endpoint),
	)
}

// Helper methods for common patterns

// InfoWithContext logs an info message with context
func (l *Logger) InfoWithContext(ctx context.Context, msg string, fields map[string]interface{}) {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	l.Logger.InfoContext(ctx, msg, args...)
}

// ErrorWithContext logs an error message with context
func (l *Logger) ErrorWithContext(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	args := make([]interface{}, 0, len(fields)*2+2)
	args = append(args, slog.String("error", err.Error()))
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	l.Logger.ErrorContext(ctx, msg, args...)
}

// DebugWithContext logs a debug message with context
func (l *Logger) DebugWithContext(ctx context.Context, msg string, fields map[string]interface{}) {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	l.Logger.DebugContext(ctx, msg, args...)
}

// Global logger instance (can be replaced with dependency injection)
var defaultLogger = New()

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}
