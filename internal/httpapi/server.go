package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/joelkehle/homeassess/internal/homeassess"
	"github.com/joelkehle/homeassess/internal/intake"
	"github.com/joelkehle/homeassess/internal/logging"
	"github.com/joelkehle/homeassess/internal/report"
)

// Request bodies carry inline base64 images, so the limit is generous.
const maxBodyBytes = 64 << 20

const (
	msgNoImages         = "At least one image is required"
	msgNotConfigured    = "AI service not configured. Please set ANTHROPIC_API_KEY environment variable."
	msgNoAssessment     = "Assessment data is required"
	msgNoClientName     = "Client name is required"
	msgInvalidJSON      = "invalid JSON body"
	msgPDFUnavailable   = "pdf renderer unavailable"
	msgInvalidDate      = "assessmentDate must be an ISO date"
	msgEmailUnavailable = "email delivery not configured"
)

type Options struct {
	Analyzer *homeassess.Analyzer
	// PDF may be nil; PDF endpoints then answer 503.
	PDF report.PDFRenderer
	// Email may be nil; summaries are still built but never sent.
	Email  report.EmailSender
	Logger *zap.Logger
}

type Server struct {
	analyzer *homeassess.Analyzer
	pdf      report.PDFRenderer
	email    report.EmailSender
	logger   *zap.Logger
	now      func() time.Time
}

func NewServer(opts Options) http.Handler {
	return newServer(opts).routes()
}

func newServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	analyzer := opts.Analyzer
	if analyzer == nil {
		analyzer = homeassess.NewAnalyzer(nil, nil, logger)
	}
	return &Server{
		analyzer: analyzer,
		pdf:      opts.PDF,
		email:    opts.Email,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/assess", s.handleAssess)
	mux.HandleFunc("/api/assessments/federal/report", s.handleReport)
	mux.HandleFunc("/api/assessments/federal/complete", s.handleComplete)
	mux.HandleFunc("/api/assessments/federal/export/xlsx", s.handleExportXLSX)
	mux.HandleFunc("/api/assessments/federal/export/email", s.handleExportEmail)
	mux.HandleFunc("/healthz", s.handleHealth)
	return logging.Middleware(s.logger, mux)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError is the bare {error} shape used by /api/assess.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

// writeFailure is the {success:false, error} envelope of the federal endpoints.
func writeFailure(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return []byte("{}"), nil
	}
	blob, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if len(blob) == 0 {
		blob = []byte("{}")
	}
	return blob, nil
}

func decodeBody(r *http.Request, dst any) error {
	blob, err := readBody(r)
	if err != nil {
		return err
	}
	return json.Unmarshal(blob, dst)
}

// postOrDocs serves the endpoint documentation on GET and reports whether
// the request is a POST that should be handled.
func postOrDocs(w http.ResponseWriter, r *http.Request, docs map[string]any) bool {
	switch r.Method {
	case http.MethodPost:
		return true
	case http.MethodGet:
		writeJSON(w, http.StatusOK, docs)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
	return false
}

func methodOnly(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// statusFor maps pipeline errors onto HTTP status codes. Problems with the
// submitted data are client errors; everything else is a server error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, intake.ErrNoImages),
		errors.Is(err, intake.ErrInvalidProgramType),
		errors.Is(err, intake.ErrInvalidAssessment),
		errors.Is(err, homeassess.ErrInvalidImage):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func parseAssessmentDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New(msgInvalidDate)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":              true,
		"aiConfigured":    s.analyzer.Configured(),
		"pdfConfigured":   s.pdf != nil,
		"emailConfigured": s.email != nil,
	})
}
