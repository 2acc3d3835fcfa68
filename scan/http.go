package scan

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/lewtec/drivescan/internal/domain"
	"github.com/lewtec/drivescan/internal/editor"
	"github.com/lewtec/drivescan/internal/selection"
	"github.com/rs/zerolog/log"
)

// maxUploadMemory bounds the multipart form kept in memory
const maxUploadMemory = 64 << 20

// DriveApp serves the drive over HTTP
type DriveApp struct {
	Drive  *Drive
	Engine *editor.Engine
}

func (a *DriveApp) GetHTTPHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", a.handleIndex)
	mux.HandleFunc("GET /help", a.handleHelp)
	mux.HandleFunc("POST /documents", a.handleCreate)
	mux.HandleFunc("GET /documents/{id}", a.handleOpen)
	mux.HandleFunc("GET /documents/{id}/download", a.handleDownload)
	mux.HandleFunc("POST /documents/{id}/delete", a.handleDelete)
	mux.HandleFunc("POST /clear", a.handleClear)

	var handler http.Handler = mux
	handler = HTTPLogger(handler)
	return handler
}

func (a *DriveApp) handleIndex(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	docs, err := a.Drive.Search(r.Context(), query)
	if err != nil {
		httpError(w, r, "while listing documents", err)
		return
	}
	count, err := a.Drive.Count(r.Context())
	if err != nil {
		httpError(w, r, "while counting documents", err)
		return
	}
	err = RenderPage(w, "drive.html", "Drive", map[string]any{
		"Query":     query,
		"Documents": docs,
		"Count":     count,
		"Filters":   editor.Filters,
	})
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("while rendering drive page")
	}
}

func (a *DriveApp) handleHelp(w http.ResponseWriter, r *http.Request) {
	if err := RenderPage(w, "help.html", "Help", map[string]any{"Content": HelpHTML()}); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("while rendering help page")
	}
}

func (a *DriveApp) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		http.Error(w, "invalid upload", http.StatusBadRequest)
		return
	}
	filter, err := editor.ParseFilter(r.FormValue("filter"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	list, err := selection.New()
	if err != nil {
		httpError(w, r, "while preparing selection", err)
		return
	}
	for _, fh := range r.MultipartForm.File["images"] {
		f, err := fh.Open()
		if err != nil {
			httpError(w, r, "while reading upload", err)
			return
		}
		img, err := DecodeImage(f)
		f.Close()
		if err != nil {
			http.Error(w, fmt.Sprintf("%s: %v", fh.Filename, err), http.StatusBadRequest)
			return
		}
		if err := list.Append(domain.NewImageRecord(img)); err != nil {
			httpError(w, r, "while adding image", err)
			return
		}
	}
	if filter != editor.FilterNone {
		err := EditAll(list, a.Engine, func(s *editor.Session) error {
			return s.SetFilter(filter)
		})
		if err != nil {
			httpError(w, r, "while applying filter", err)
			return
		}
	}
	_, err = a.Drive.CreateDocument(r.Context(), list, r.FormValue("name"))
	if errors.Is(err, domain.ErrEmptyDocument) {
		http.Error(w, "no images selected", http.StatusBadRequest)
		return
	}
	if err != nil {
		httpError(w, r, "while creating document", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *DriveApp) handleOpen(w http.ResponseWriter, r *http.Request) {
	a.servePDF(w, r, "inline")
}

func (a *DriveApp) handleDownload(w http.ResponseWriter, r *http.Request) {
	a.servePDF(w, r, "attachment")
}

func (a *DriveApp) servePDF(w http.ResponseWriter, r *http.Request, disposition string) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		http.NotFound(w, r)
		return
	}
	artifact, err := a.Drive.Get(r.Context(), id)
	if err != nil {
		httpError(w, r, "while fetching document", err)
		return
	}
	if artifact == nil {
		log.Ctx(r.Context()).Debug().Str("artifact_id", id).Msg("document not found")
		http.NotFound(w, r)
		return
	}
	filename := FileName(artifact.Name)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{
		"filename": filename,
	}))
	w.Header().Set("ETag", `"`+Checksum(artifact.Content)+`"`)
	http.ServeContent(w, r, filename, artifact.CreatedAt, bytes.NewReader(artifact.Content))
}

func (a *DriveApp) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.Drive.Delete(r.Context(), r.PathValue("id")); err != nil {
		httpError(w, r, "while deleting document", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *DriveApp) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := a.Drive.Clear(r.Context()); err != nil {
		httpError(w, r, "while clearing drive", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func httpError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	log.Ctx(r.Context()).Error().Err(err).Msg(msg)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// HTTPLogger logs every request with its status and duration, and attaches a
// request scoped logger to the context
func HTTPLogger(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := log.With().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()
		wr := NewStatusCodeRecorderResponseWriter(w)
		handler.ServeHTTP(wr, r.WithContext(logger.WithContext(r.Context())))
		event := logger.Info()
		if wr.Status >= 500 {
			event = logger.Error()
		}
		event.Int("status", wr.Status).Dur("duration", time.Since(start)).Msg("http request served")
	})
}

type StatusCodeRecorderResponseWriter struct {
	http.ResponseWriter
	Status int
}

func (r *StatusCodeRecorderResponseWriter) WriteHeader(status int) {
	r.Status = status
	r.ResponseWriter.WriteHeader(status)
}

func NewStatusCodeRecorderResponseWriter(w http.ResponseWriter) *StatusCodeRecorderResponseWriter {
	return &StatusCodeRecorderResponseWriter{ResponseWriter: w, Status: http.StatusOK}
}
