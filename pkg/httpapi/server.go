// Package httpapi exposes the configurator store as a JSON API.
//
// The API is the boundary between the engine and a rendering front-end:
// it serves the full project snapshot, accepts every mutation, and maps
// structured error codes onto HTTP status codes. Handlers never return
// partial state; a mutation response is always followed by clients
// re-reading the snapshot or applying the returned entity.
//
// # Status Mapping
//
//   - *_NOT_FOUND → 404
//   - INVALID_*   → 400
//   - STRUCTURE_*, PACKING_*, INCOMPLETE_LAYOUT → 409
//   - everything else → 500
package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mailworks/quadplan/pkg/errors"
	"github.com/mailworks/quadplan/pkg/observability"
	"github.com/mailworks/quadplan/pkg/plan"
	"github.com/mailworks/quadplan/pkg/storage"
)

// Server serves one project's configurator store over HTTP.
type Server struct {
	store   *plan.Store
	persist storage.Store
	project string
	log     *log.Logger
}

// Options configures a Server.
type Options struct {
	// Persist receives the snapshot on explicit save requests. Nil
	// disables the save endpoint.
	Persist storage.Store

	// Project is the name saves are stored under. Defaults to "default".
	Project string

	// Logger receives request logs. Defaults to a discarding logger.
	Logger *log.Logger
}

// New creates a server around a configurator store.
func New(store *plan.Store, opts Options) *Server {
	if opts.Project == "" {
		opts.Project = "default"
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Server{
		store:   store,
		persist: opts.Persist,
		project: opts.Project,
		log:     opts.Logger,
	}
}

// Router builds the chi router with all API routes mounted under /api.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Route("/api", func(r chi.Router) {
		r.Get("/project", s.handleGetProject)
		r.Get("/validate", s.handleValidate)
		r.Post("/save", s.handleSave)

		r.Post("/levels", s.handleAddLevel)
		r.Patch("/levels/{levelID}", s.handlePatchLevel)
		r.Delete("/levels/{levelID}", s.handleRemoveLevel)
		r.Post("/levels/{levelID}/walls", s.handleAddWall)

		r.Patch("/walls/{wallID}", s.handlePatchWall)
		r.Delete("/walls/{wallID}", s.handleRemoveWall)
		r.Post("/walls/{wallID}/activate", s.handleActivateWall)
		r.Post("/walls/{wallID}/frames", s.handleAddFrame)

		r.Delete("/frames/{frameID}", s.handleRemoveFrame)
		r.Post("/frames/{frameID}/reorder", s.handleReorderFrame)
		r.Post("/frames/{frameID}/move", s.handleMoveFrame)
		r.Post("/frames/{frameID}/doors/swap", s.handleSwapDoors)
		r.Post("/frames/{frameID}/doors/replace", s.handleReplaceDoors)
		r.Post("/frames/{frameID}/doors/substitute", s.handleSubstituteDoor)

		r.Put("/numbering", s.handleSetNumbering)
		r.Post("/numbering/renumber", s.handleRenumber)
		r.Delete("/numbering", s.handleResetNumbering)

		r.Get("/catalog/doors", s.handleCatalogDoors)
		r.Get("/catalog/frames", s.handleCatalogFrames)
		r.Post("/snap", s.handleSnap)
		r.Post("/measure", s.handleMeasure)
	})
	return r
}

// observe logs each request and feeds the HTTP hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), duration)
		s.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", duration,
		)
	})
}

// =============================================================================
// Responses
// =============================================================================

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	var body errorBody
	body.Error.Code = string(errors.GetCode(err))
	if body.Error.Code == "" {
		body.Error.Code = string(errors.ErrCodeInternal)
	}
	body.Error.Message = errors.UserMessage(err)
	writeJSON(w, statusFor(errors.GetCode(err)), body)
}

// statusFor maps a structured error code onto an HTTP status.
func statusFor(code errors.Code) int {
	switch {
	case strings.HasSuffix(string(code), "_NOT_FOUND"):
		return http.StatusNotFound
	case strings.HasPrefix(string(code), "INVALID_"):
		return http.StatusBadRequest
	case strings.HasPrefix(string(code), "STRUCTURE_"),
		strings.HasPrefix(string(code), "PACKING_"),
		code == errors.ErrCodeIncompleteLayout:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decode parses a JSON request body into v.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse request body")
	}
	return nil
}
