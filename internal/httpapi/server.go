package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ggufconv/internal/jobs"
	"ggufconv/internal/planner"
	"ggufconv/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
// *jobs.Runner satisfies it.
type Service interface {
	Formats() types.FormatsResponse
	Plan(req types.PlanRequest) (types.PlanResponse, error)
	Convert(ctx context.Context, req types.PlanRequest, w io.Writer, flush func()) error
	Status() types.StatusResponse
	Busy() bool
}

// NewMux builds the router for svc.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	r.Use(MetricsMiddleware)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if corsEnabled {
		methods := corsAllowedMethods
		if len(methods) == 0 {
			methods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
		}
		headers := corsAllowedHeaders
		if len(headers) == 0 {
			headers = []string{"Content-Type"}
		}
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: methods,
			AllowedHeaders: headers,
			MaxAge:         300,
		}))
	}
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	h := &handlers{svc: svc}
	r.Get("/healthz", h.healthz)
	r.Get("/readyz", h.readyz)
	r.Get("/formats", h.formats)
	r.Get("/status", h.status)
	r.With(inflight).Post("/plan", h.plan)
	r.With(inflight).Post("/convert", h.convert)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	MountSwagger(r)
	return r
}

type handlers struct {
	svc Service
}

// healthz godoc
// @Summary      Liveness probe
// @Tags         system
// @Produce      plain
// @Success      200  {string}  string  "ok"
// @Router       /healthz [get]
func (h *handlers) healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// readyz godoc
// @Summary      Readiness probe; 503 while a conversion run is active
// @Tags         system
// @Produce      plain
// @Success      200  {string}  string  "ready"
// @Failure      503  {string}  string  "busy"
// @Router       /readyz [get]
func (h *handlers) readyz(w http.ResponseWriter, r *http.Request) {
	if h.svc.Busy() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("busy"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// formats godoc
// @Summary      List known quantization formats
// @Tags         conversion
// @Produce      json
// @Success      200  {object}  types.FormatsResponse
// @Router       /formats [get]
func (h *handlers) formats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.Formats())
}

// status godoc
// @Summary      Active or most recent conversion run
// @Tags         conversion
// @Produce      json
// @Success      200  {object}  types.StatusResponse
// @Router       /status [get]
func (h *handlers) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.Status())
}

// plan godoc
// @Summary      Build a conversion plan without running it
// @Tags         conversion
// @Accept       json
// @Produce      json
// @Param        request  body      types.PlanRequest  true  "Inputs and formats"
// @Success      200      {object}  types.PlanResponse
// @Failure      400      {object}  types.ErrorResponse
// @Failure      415      {object}  types.ErrorResponse
// @Router       /plan [post]
func (h *handlers) plan(w http.ResponseWriter, r *http.Request) {
	req, ok := decodePlanRequest(w, r)
	if !ok {
		return
	}
	resp, err := h.svc.Plan(req)
	if err != nil {
		writeJSONError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, resp)
}

// convert godoc
// @Summary      Run a conversion and stream progress as NDJSON
// @Description  Each line is a ProgressEvent. The last line has kind "done" or "failed".
// @Tags         conversion
// @Accept       json
// @Produce      x-ndjson
// @Param        request  body      types.PlanRequest  true  "Inputs and formats"
// @Success      200      {object}  types.ProgressEvent
// @Failure      400      {object}  types.ErrorResponse
// @Failure      409      {object}  types.ErrorResponse
// @Failure      503      {object}  types.ErrorResponse
// @Router       /convert [post]
func (h *handlers) convert(w http.ResponseWriter, r *http.Request) {
	req, ok := decodePlanRequest(w, r)
	if !ok {
		return
	}
	lvl := requestLogLevel(r)
	log := zlog.With().Str("path", r.URL.Path).Str("request_id", middleware.GetReqID(r.Context())).Logger()

	ctx, cancel := joinContexts(r.Context(), serverBaseCtx)
	defer cancel()
	if convertTimeout > 0 {
		var tcancel context.CancelFunc
		ctx, tcancel = context.WithTimeout(ctx, convertTimeout)
		defer tcancel()
	}

	// Headers are sent lazily so an early error can still set its status.
	sw := &streamWriter{w: w}
	var out io.Writer = sw
	if lvl >= LevelDebug {
		out = io.MultiWriter(sw, &loggingLineWriter{log: log})
	}
	var flush func()
	if f, ok := w.(http.Flusher); ok {
		flush = f.Flush
	}

	start := time.Now()
	if lvl >= LevelInfo {
		log.Info().Int("inputs", len(req.Inputs)).Strs("formats", req.Formats).Msg("convert start")
	}
	err := h.svc.Convert(ctx, req, out, flush)
	if err != nil && !sw.started {
		status := statusFor(err)
		switch status {
		case http.StatusConflict:
			IncrementRejected("busy")
		case http.StatusBadRequest:
			IncrementRejected("invalid")
		}
		writeJSONError(w, status, err.Error())
		if lvl >= LevelError {
			log.Info().Int("status", status).Dur("dur", time.Since(start)).Err(err).Msg("convert end")
		}
		return
	}
	if err != nil && lvl >= LevelError {
		log.Error().Err(err).Dur("dur", time.Since(start)).Msg("convert stream aborted")
		return
	}
	if lvl >= LevelInfo {
		log.Info().Int("status", http.StatusOK).Dur("dur", time.Since(start)).Msg("convert end")
	}
}

// streamWriter sets the NDJSON content type on first write.
type streamWriter struct {
	w       http.ResponseWriter
	started bool
}

func (s *streamWriter) Write(p []byte) (int, error) {
	if !s.started {
		s.started = true
		s.w.Header().Set("Content-Type", "application/x-ndjson")
		s.w.WriteHeader(http.StatusOK)
	}
	return s.w.Write(p)
}

func decodePlanRequest(w http.ResponseWriter, r *http.Request) (types.PlanRequest, bool) {
	var req types.PlanRequest
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return req, false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return req, false
	}
	if len(req.Inputs) == 0 {
		writeJSONError(w, http.StatusBadRequest, planner.ErrNoInputs.Error())
		return req, false
	}
	return req, true
}

var _ Service = (*jobs.Runner)(nil)
