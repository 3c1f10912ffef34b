package http

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
)

//go:embed web/index.html
var webFS embed.FS

var indexTemplate = template.Must(template.ParseFS(webFS, "web/index.html"))

// pageData is the data rendered into the report page
type pageData struct {
	Title               string
	Version             string
	ReferenceConfigured bool
}

// PageHandler serves the report page
type PageHandler struct {
	data   pageData
	logger *slog.Logger
}

// NewPageHandler creates a page handler. referenceConfigured marks the MOP
// list upload as optional.
func NewPageHandler(version string, referenceConfigured bool, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		data: pageData{
			Title:               "Complaint Report by Branch",
			Version:             version,
			ReferenceConfigured: referenceConfigured,
		},
		logger: logger.With(slog.String("handler", "page")),
	}
}

// ServeIndex handles GET /
func (h *PageHandler) ServeIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, h.data); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render page", slog.String("error", err.Error()))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(buf.Bytes())
}
