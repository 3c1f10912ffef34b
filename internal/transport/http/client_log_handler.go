package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"complaintreport/internal/errors"
)

// maxClientLogBytes bounds a single client log entry.
const maxClientLogBytes = 16 << 10

// ClientLogHandler records errors reported by the report page
type ClientLogHandler struct {
	logger       *slog.Logger
	errorHandler *errors.ErrorHandler
}

// NewClientLogHandler creates a new client log handler
func NewClientLogHandler(logger *slog.Logger, errorHandler *errors.ErrorHandler) *ClientLogHandler {
	return &ClientLogHandler{
		logger:       logger.With(slog.String("handler", "client_log")),
		errorHandler: errorHandler,
	}
}

// LogRequest represents a client log entry
type LogRequest struct {
	Level   string                 `json:"level"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Source  string                 `json:"source,omitempty"`
}

// Handle processes POST /api/client-log
func (h *ClientLogHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req LogRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxClientLogBytes)).Decode(&req); err != nil {
		h.errorHandler.HandleError(w, r, errors.InvalidRequestWithError(err))
		return
	}
	if req.Message == "" {
		h.errorHandler.HandleError(w, r, errors.ErrValidation("message", "message is required"))
		return
	}

	attrs := []slog.Attr{
		slog.String("client_source", req.Source),
		slog.String("user_agent", r.UserAgent()),
	}
	if req.Data != nil {
		attrs = append(attrs, slog.Any("data", req.Data))
	}

	h.logger.LogAttrs(r.Context(), clientLevel(req.Level), req.Message, attrs...)

	render.JSON(w, r, map[string]interface{}{
		"success": true,
	})
}

// clientLevel maps a client level name; unknown names log at info.
func clientLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
