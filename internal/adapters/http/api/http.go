// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"github.com/okian/universus/internal/adapters/http/swagger"
	"github.com/okian/universus/internal/domain/model"
	"github.com/okian/universus/internal/domain/types"
	"github.com/okian/universus/internal/roster"
	"github.com/okian/universus/pkg/logger"
)

// MaxBodySize limits the size of request bodies to 1MB.
const MaxBodySize = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Sports() []model.Sport
	WeightClasses() []model.WeightClass

	Players() ([]types.Player, error)
	Player(name string) (types.Player, error)
	UpsertPlayer(ctx context.Context, req roster.UpsertRequest) (types.Player, error)
	DeletePlayer(ctx context.Context, name string) error

	SimulateSingle(ctx context.Context, sport string, side1, side2 []string) (model.MatchResult, error)
	SimulateMultisport(ctx context.Context, roster1, roster2 []string) (model.MultisportResult, error)

	// SubmitJob queues a match. The bool reports a repeated request id.
	SubmitJob(ctx context.Context, requestID string, req model.MatchRequest) (types.Job, bool, error)
	Job(id string) (types.Job, error)
}

// Option configures a Server.
type Option func(*Server)

// WithAllowedOrigins sets the CORS origins. Empty allows any origin.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		s.origins = append([]string(nil), origins...)
	}
}

// WithLogger sets the server logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// Server wires HTTP routes for the business API.
type Server struct {
	deps     Dependencies
	validate *validator.Validate
	log      logger.Logger
	origins  []string

	healthHandler *HealthHandler
	statsHandler  *StatsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		deps:          deps,
		validate:      validator.New(),
		log:           logger.NewNop(),
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the full router with CORS, panic recovery and the API
// docs.
func (s *Server) Handler() http.Handler {
	origins := s.origins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Idempotency-Key"},
		MaxAge:         300,
	}))
	s.Register(r)
	swagger.Register(r)
	return r
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/metrics", s.healthHandler.HandleMetrics)
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	r.Get("/sports", MetricsMiddleware(s.handleSports, "sports"))

	r.Route("/players", func(r chi.Router) {
		r.Get("/", MetricsMiddleware(s.handleListPlayers, "players"))
		r.Get("/{name}", MetricsMiddleware(s.handleGetPlayer, "player"))
		r.Put("/{name}", MetricsMiddleware(s.handlePutPlayer, "player"))
		r.Delete("/{name}", MetricsMiddleware(s.handleDeletePlayer, "player"))
	})

	r.Post("/matches/single", MetricsMiddleware(s.handleSingle, "match_single"))
	r.Post("/matches/multisport", MetricsMiddleware(s.handleMultisport, "match_multisport"))

	r.Post("/jobs", MetricsMiddleware(s.handleSubmitJob, "jobs"))
	r.Get("/jobs/{id}", MetricsMiddleware(s.handleGetJob, "job"))
}

type errorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Field   string   `json:"field,omitempty"`
	Names   []string `json:"names,omitempty"`
}

// decode reads a JSON body into v and validates its struct tags.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if err := s.validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}

// fail writes err with the status its kind maps to.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		s.log.Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.String("requestID", middleware.GetReqID(r.Context())),
			logger.Error(err))
	}
	writeError(w, status, code, err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	resp := errorResponse{Code: code, Message: http.StatusText(status)}
	if err != nil {
		resp.Message = err.Error()
		if field, names, ok := validationDetail(err); ok {
			resp.Field, resp.Names = field, names
		}
	}
	writeJSON(w, status, resp)
}

// pathParam returns the unescaped route parameter key. Chi routes on
// RawPath when it is set, so only then is the value still escaped.
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return raw
	}
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
