package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appanalysis "github.com/dkrysak/chemviz/internal/application/analysis"
	appusers "github.com/dkrysak/chemviz/internal/application/users"
	domanalysis "github.com/dkrysak/chemviz/internal/domain/analysis"
	domusers "github.com/dkrysak/chemviz/internal/domain/users"
	"github.com/dkrysak/chemviz/internal/middleware"
)

type Router struct {
	analysisSvc *appanalysis.Service
	usersSvc    *appusers.Service
	log         *zap.SugaredLogger
}

// Options tune the outer middleware stack.
type Options struct {
	AllowedOrigins    []string
	RateLimitCapacity int
	RateLimitRefill   int
	HealthCheckers    map[string]middleware.HealthChecker
}

// NewRouter wires every endpoint. Paths keep their trailing slash for
// compatibility with the existing clients.
func NewRouter(analysisSvc *appanalysis.Service, usersSvc *appusers.Service, log *zap.SugaredLogger, opts Options) http.Handler {
	r := &Router{analysisSvc: analysisSvc, usersSvc: usersSvc, log: log}
	mux := chi.NewRouter()

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}))
	mux.Use(middleware.Logging(log))
	mux.Use(middleware.MetricsMiddleware)

	mux.Get("/health", middleware.HealthHandler(opts.HealthCheckers))
	mux.Get("/metrics", middleware.MetricsHandler)

	// Credential endpoints stay rate limited per client IP.
	mux.Group(func(pub chi.Router) {
		pub.Use(middleware.RateLimit(opts.RateLimitCapacity, opts.RateLimitRefill))
		pub.Post("/signup/", r.wrap(r.handleSignup))
		pub.Post("/login/", r.wrap(r.handleLogin))
	})

	mux.Group(func(priv chi.Router) {
		priv.Use(middleware.TokenAuth(usersSvc))
		priv.Post("/logout/", r.wrap(r.handleLogout))
		priv.Patch("/update/", r.wrap(r.handleUpdate))
		priv.Post("/upload/", r.wrap(r.handleUpload))
		priv.Get("/record/", r.wrap(r.handleRecords))
		priv.Post("/download/", r.wrap(r.handleDownload))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap maps domain errors onto the HTTP contract once, so handlers just
// return them.
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		var fe appusers.FieldErrors
		switch {
		case errors.As(err, &fe):
			writeJSON(w, http.StatusBadRequest, fe)
		case errors.Is(err, domanalysis.ErrBadInput):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, domusers.ErrInvalidCredentials):
			// Bad credentials answer 403 with an empty body.
			w.WriteHeader(http.StatusForbidden)
		case errors.Is(err, domusers.ErrWrongPassword):
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
		case errors.Is(err, domusers.ErrInvalidToken):
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
		case errors.Is(err, domusers.ErrNotFound), errors.Is(err, sql.ErrNoRows):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		default:
			r.log.Errorw("request failed", "path", req.URL.Path, "err", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
