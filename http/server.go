package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/pagesmith"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Server limits and names.
const (
	MaxUploadBytes  = 50 << 20
	ArchiveFilename = "landing-page.zip"
	ShutdownTimeout = 10 * time.Second

	// multipartMemory is how much of a multipart body is held in memory
	// before file parts spill to disk.
	multipartMemory = 32 << 20
)

// RouteGenerate is the template rewrite endpoint.
const RouteGenerate = "/api/generate-dynamic"

// RequestIDHeader carries the request id on responses.
const RequestIDHeader = "X-Request-ID"

// RequestObserver records per-request metrics.
type RequestObserver interface {
	ObserveRequest(route string, status int, d time.Duration)
}

// Server serves the pagesmith HTTP API.
type Server struct {
	server *http.Server
	router chi.Router

	// Addr is the listen address, e.g. ":8080".
	Addr string

	TemplateLoader   pagesmith.TemplateLoader
	TemplateRewriter pagesmith.TemplateRewriter

	Logger *slog.Logger

	// Metrics, when set, is served on /metrics.
	Metrics http.Handler

	// Observer, when set, records every request.
	Observer RequestObserver
}

// NewServer returns a Server with its routes registered.
func NewServer() *Server {
	s := &Server{
		server: &http.Server{ReadHeaderTimeout: 10 * time.Second},
		router: chi.NewRouter(),
		Logger: slog.New(slog.DiscardHandler),
	}
	s.server.Handler = s.router

	s.router.Use(s.requestID)
	s.router.Use(s.observe)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/metrics", s.handleMetrics)
	s.router.Post(RouteGenerate, s.handleGenerate)

	return s
}

// ServeHTTP dispatches to the router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on Addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.Logger.Info("listening", "addr", ln.Addr().String())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.server.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// requestID assigns every request a UUID and echoes it on the response.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

type requestIDKey struct{}

// RequestIDFromContext returns the request id assigned by the server.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// observe logs one line per request and reports it to the Observer.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		begin := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "other"
		}
		duration := time.Since(begin)

		s.Logger.Info("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", duration,
			"request_id", RequestIDFromContext(r.Context()),
		)
		if s.Observer != nil {
			s.Observer.ObserveRequest(route, status, duration)
		}
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if s.Metrics == nil {
		http.NotFound(w, r)
		return
	}
	s.Metrics.ServeHTTP(w, r)
}

// handleGenerate rewrites an uploaded template and responds with the ZIP.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.Error(w, r, pagesmith.Errorf(pagesmith.ETOOLARGE, "upload exceeds %d bytes", MaxUploadBytes))
			return
		}
		s.Error(w, r, pagesmith.Errorf(pagesmith.EINVALID, "invalid multipart form: %v", err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	brief := BriefFromForm(r)
	if err := brief.Validate(); err != nil {
		s.Error(w, r, err)
		return
	}

	tmpl, err := s.loadTemplate(r)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	out, stats, err := s.TemplateRewriter.RewriteTemplate(r.Context(), tmpl, brief)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if stats != nil {
		s.Logger.Info("template rewritten",
			"request_id", RequestIDFromContext(r.Context()),
			"fingerprint", tmpl.Fingerprint,
			"groups", stats.Groups,
			"calls", stats.Calls,
			"fallbacks", stats.Fallbacks,
		)
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ArchiveFilename))
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// BriefFromForm reads the brief fields of a parsed form.
func BriefFromForm(r *http.Request) pagesmith.Brief {
	return pagesmith.Brief{
		UserInput:   r.FormValue("userInput"),
		CompanyName: strings.TrimSpace(r.FormValue("companyName")),
		CTALink:     strings.TrimSpace(r.FormValue("ctaLink")),
		Tone:        strings.TrimSpace(r.FormValue("tone")),
		Location:    strings.TrimSpace(r.FormValue("location")),
		Humanize:    r.FormValue("humanize") == "true",
	}
}

// loadTemplate reads the template named by the mode field.
func (s *Server) loadTemplate(r *http.Request) (*pagesmith.Template, error) {
	switch mode := r.FormValue("mode"); mode {
	case "zip":
		f, _, err := r.FormFile("templateZip")
		if err != nil {
			return nil, pagesmith.Errorf(pagesmith.EINVALID, "templateZip file required")
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("read templateZip: %w", err)
		}
		return s.TemplateLoader.LoadArchive(data)
	case "html":
		html := r.FormValue("templateHtml")
		if strings.TrimSpace(html) == "" {
			return nil, pagesmith.Errorf(pagesmith.EINVALID, "templateHtml required")
		}
		return s.TemplateLoader.LoadHTML(html)
	default:
		return nil, pagesmith.Errorf(pagesmith.EINVALID, "unsupported mode %q: expected zip or html", mode)
	}
}

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Error writes err as a JSON error response. Internal errors are logged.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error) {
	code, message := pagesmith.ErrorCode(err), pagesmith.ErrorMessage(err)
	status := ErrorStatusCode(code)
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", RequestIDFromContext(r.Context()),
			"error", err,
		)
	}
	writeJSON(w, status, &ErrorResponse{Error: code, Message: message})
}

// codes maps application error codes to HTTP status codes.
var codes = map[string]int{
	pagesmith.EINVALID:  http.StatusBadRequest,
	pagesmith.ENOTFOUND: http.StatusNotFound,
	pagesmith.ETOOLARGE: http.StatusRequestEntityTooLarge,
	pagesmith.ECONFIG:   http.StatusInternalServerError,
	pagesmith.EINTERNAL: http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status code for an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
