package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/modelcycles/yongent/internal/config"
	"github.com/modelcycles/yongent/internal/jobs"
	"github.com/modelcycles/yongent/internal/logging"
)

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon

	listener net.Listener
	server   *http.Server
}

type downloadRequest struct {
	Query     string `json:"query"`
	URL       string `json:"url"`
	OutputDir string `json:"output_dir"`
}

type downloadResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

type jobResponse struct {
	JobID     string       `json:"job_id"`
	Status    string       `json:"status"`
	Step      string       `json:"step"`
	Query     string       `json:"query,omitempty"`
	URL       string       `json:"url,omitempty"`
	Error     string       `json:"error,omitempty"`
	Result    *jobs.Result `json:"result,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type jobListResponse struct {
	Jobs []jobResponse `json:"jobs"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) *apiServer {
	srv := &apiServer{
		bind:   strings.TrimSpace(cfg.Paths.APIBind),
		logger: logger.With(logging.String(logging.FieldComponent, "api")),
		daemon: d,
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Post("/api/download", srv.handleDownload)
	router.Get("/api/status/{job_id}", srv.handleStatus)
	router.Get("/api/jobs", srv.handleJobs)
	router.Get("/healthz", srv.handleHealth)

	srv.server = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

func (s *apiServer) start(ctx context.Context) error {
	if s.bind == "" {
		return fmt.Errorf("api bind address required")
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleDownload(w http.ResponseWriter, r *http.Request) {
	var req downloadRequest
	if r.Body != nil {
		// A missing or malformed body is tolerated; query parameters may
		// still carry the request.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.Query == "" {
		req.Query = r.URL.Query().Get("q")
	}
	if req.URL == "" {
		req.URL = r.URL.Query().Get("u")
	}

	if strings.TrimSpace(req.Query) == "" && strings.TrimSpace(req.URL) == "" {
		s.writeError(w, http.StatusUnprocessableEntity, "query or url required")
		return
	}

	job, err := s.daemon.submitter.Submit(r.Context(), req.Query, req.URL, req.OutputDir)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, downloadResponse{JobID: job.ID, Status: string(job.Status)})
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")
	job, err := s.daemon.store.GetByID(r.Context(), jobID)
	if errors.Is(err, jobs.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "job not found")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, toJobResponse(job))
}

func (s *apiServer) handleJobs(w http.ResponseWriter, r *http.Request) {
	var statuses []jobs.Status
	for _, value := range r.URL.Query()["status"] {
		status, ok := jobs.ParseStatus(value)
		if !ok {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", value))
			return
		}
		statuses = append(statuses, status)
	}

	list, err := s.daemon.store.List(r.Context(), statuses...)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	payload := jobListResponse{Jobs: make([]jobResponse, 0, len(list))}
	for _, job := range list {
		payload.Jobs = append(payload.Jobs, toJobResponse(job))
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *apiServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func toJobResponse(job *jobs.Job) jobResponse {
	return jobResponse{
		JobID:     job.ID,
		Status:    string(job.Status),
		Step:      job.Step,
		Query:     job.Query,
		URL:       job.SourceURL,
		Error:     job.ErrorMessage,
		Result:    job.Result,
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.UpdatedAt,
	}
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}
