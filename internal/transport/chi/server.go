package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/millsearch/internal/domain"
	"github.com/kailas-cloud/millsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/millsearch/internal/domain/search/request"
	"github.com/kailas-cloud/millsearch/internal/domain/search/result"
	"github.com/kailas-cloud/millsearch/internal/domain/search/sortby"
	logpkg "github.com/kailas-cloud/millsearch/internal/logger"
	healthuc "github.com/kailas-cloud/millsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/millsearch/internal/usecase/search"
)

// maxBodyBytes bounds a search request body.
const maxBodyBytes = 64 << 10

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the search HTTP API.
type Server struct {
	search        *searchuc.Service
	health        *healthuc.Service
	limits        request.Limits
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. Handlers log through the
// request-scoped logger installed by WideEventMiddleware.
func NewServer(search *searchuc.Service, health *healthuc.Service, limits request.Limits) *Server {
	s := &Server{
		search: search,
		health: health,
		limits: limits,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest),
		sentinelHandler(domain.ErrQueryTooShort, http.StatusBadRequest),
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusServiceUnavailable),
	}
	return s
}

// Routes registers the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Post("/api/search", s.SearchJSON)
	r.Get("/api/search", s.SearchQuery)
	r.Get("/api/search/suggestions", s.Suggestions)
	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())
}

// SearchJSON handles POST /api/search.
func (s *Server) SearchJSON(w http.ResponseWriter, r *http.Request) {
	var body searchRequestDTO
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	var requester *int64
	if v := body.ExcludeRequesterID.v; v != nil {
		id := int64(*v)
		requester = &id
	}

	s.serveSearch(w, r, request.Params{
		Query:              body.Query,
		Filters:            body.Filters.toSet(),
		ExcludeRequesterID: requester,
		Page:               atoiOrZero(body.Page.int()),
		PageSize:           atoiOrZero(body.PageSize.int()),
		Sort:               sortby.Sort(body.SortBy),
	})
}

// SearchQuery handles GET /api/search.
func (s *Server) SearchQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var requester *int64
	if v := parseLooseInt(q.Get("excludeRequesterId")); v != nil {
		id := int64(*v)
		requester = &id
	}

	unit := filter.ParseUnit(q.Get("unit"))
	filters := filter.New(filter.Params{
		Makes:  listParam(q, "makes"),
		Grades: listParam(q, "grades"),
		Brands: listParam(q, "brands"),
		GSM:    filter.NewRange(filter.CoerceBound(q.Get("gsmMin")), filter.CoerceBound(q.Get("gsmMax"))),
		Dimensions: filter.NewDimensionRange(
			filter.NewRange(filter.CoerceBound(q.Get("deckleMin")), filter.CoerceBound(q.Get("deckleMax"))),
			filter.NewRange(filter.CoerceBound(q.Get("grainMin")), filter.CoerceBound(q.Get("grainMax"))),
			unit,
		),
		DateRange: filter.ParseDateRange(q.Get("dateRange")),
		Tolerance: parseLooseInt(q.Get("tolerance")),
	})

	s.serveSearch(w, r, request.Params{
		Query:              q.Get("q"),
		Filters:            filters,
		ExcludeRequesterID: requester,
		Page:               atoiOrZero(parseLooseInt(q.Get("page"))),
		PageSize:           atoiOrZero(parseLooseInt(q.Get("pageSize"))),
		Sort:               sortby.Sort(q.Get("sortBy")),
	})
}

func (s *Server) serveSearch(w http.ResponseWriter, r *http.Request, p request.Params) {
	req, err := request.New(p, s.limits)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	out, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	page := out.Page
	data := make([]listingDTO, len(page.Items))
	for i := range page.Items {
		data[i] = listingToDTO(&page.Items[i])
	}

	writeJSON(w, http.StatusOK, searchResponseDTO{
		Success:      true,
		SearchID:     out.ID,
		Cached:       out.Cached,
		Data:         data,
		Total:        page.Total,
		Page:         page.Page,
		PageSize:     page.PageSize,
		TotalPages:   page.TotalPages,
		Aggregations: facetsToDTO(&page.Facets),
	})
}

// Suggestions handles GET /api/search/suggestions.
func (s *Server) Suggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := s.search.Suggest(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]suggestionDTO, len(suggestions))
	for i, sg := range suggestions {
		items[i] = suggestionToDTO(sg)
	}
	writeJSON(w, http.StatusOK, suggestionsResponseDTO{Success: true, Suggestions: items})
}

func suggestionToDTO(sg result.Suggestion) suggestionDTO {
	return suggestionDTO{Text: sg.Text, Type: string(sg.Type), Score: sg.Score}
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponseDTO{
		Status: string(report.Status),
		Checks: checks,
	})
}

// listParam accepts repeated keys and comma-separated values.
func listParam(q url.Values, key string) []string {
	var out []string
	for _, raw := range q[key] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponseDTO{
		Success: false,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidRequest,
		domain.ErrQueryTooShort,
		domain.ErrStoreUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context())
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}
