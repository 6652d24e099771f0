package session

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"bookgen/internal/book"
	"bookgen/internal/content"
	"bookgen/internal/httpx"
	"bookgen/internal/seed"

	"go.uber.org/zap"
)

type HTTPHandler struct {
	registry *Registry
	gen      *book.Generator
	logger   *zap.Logger
	opts     []Option
	maxPage  int
}

// NewHTTPHandler serves the session API. opts apply to the transient
// sessions behind the stateless /v1/books endpoint. Requested counts above
// the WithMaxPageSize cap (DefaultMaxPageSize if unset) are clamped.
func NewHTTPHandler(registry *Registry, gen *book.Generator, logger *zap.Logger, opts ...Option) *HTTPHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	maxPage := o.maxPageSize
	if maxPage <= 0 {
		maxPage = DefaultMaxPageSize
	}
	return &HTTPHandler{registry: registry, gen: gen, logger: logger, opts: opts, maxPage: maxPage}
}

// clamp caps a requested count the way page sizes are capped elsewhere.
// Negative counts pass through so the session rejects them.
func (h *HTTPHandler) clamp(count int) int {
	return min(count, h.maxPage)
}

// Register mounts every route on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/sessions", h.Create)
	mux.HandleFunc("GET /v1/sessions/{id}", h.Get)
	mux.HandleFunc("PUT /v1/sessions/{id}/config", h.ApplyConfig)
	mux.HandleFunc("DELETE /v1/sessions/{id}/config", h.ResetConfig)
	mux.HandleFunc("DELETE /v1/sessions/{id}", h.Delete)
	mux.HandleFunc("GET /v1/sessions/{id}/books", h.ListBooks)
	mux.HandleFunc("GET /v1/sessions/{id}/books/{index}", h.GetBook)
	mux.HandleFunc("GET /v1/books", h.Books)
	mux.HandleFunc("GET /v1/seeds/random", h.RandomSeed)
	mux.HandleFunc("GET /v1/locales", h.Locales)
}

type configRequest struct {
	Locale     string   `json:"locale"`
	Seed       string   `json:"seed"`
	AvgLikes   *float64 `json:"avg_likes"`
	AvgReviews *float64 `json:"avg_reviews"`
}

type createSessionRequest struct {
	configRequest
	Limit int64 `json:"limit" validate:"gte=0"`
}

type SessionResponse struct {
	ID      string       `json:"id"`
	State   State        `json:"state"`
	Config  *book.Config `json:"config,omitempty"`
	Version uint64       `json:"version"`
	Limit   int64        `json:"limit,omitempty"`
	Cached  int          `json:"cached"`
}

func newSessionResponse(id string, s *Session) SessionResponse {
	resp := SessionResponse{
		ID:      id,
		State:   s.State(),
		Version: s.Version(),
		Limit:   s.Limit(),
		Cached:  s.Cached(),
	}
	if cfg, ok := s.Config(); ok {
		resp.Config = &cfg
	}
	return resp
}

// overlay applies the fields present in req on top of base.
func (req configRequest) overlay(base book.Config) (book.Config, error) {
	cfg := base
	if req.Locale != "" {
		locale, err := content.ParseLocale(req.Locale)
		if err != nil {
			return book.Config{}, &book.ValidationError{Fields: []book.FieldError{{Field: "locale", Message: err.Error()}}}
		}
		cfg.Locale = locale
	}
	if req.Seed != "" {
		cfg.Seed = req.Seed
	}
	if req.AvgLikes != nil {
		cfg.AvgLikes = *req.AvgLikes
	}
	if req.AvgReviews != nil {
		cfg.AvgReviews = *req.AvgReviews
	}
	return cfg, nil
}

// Create handles POST /v1/sessions
// @Summary Create a generation session
// @Description Omitted fields take the defaults (en_US, 5 likes, 4.7 reviews, random seed)
// @Tags sessions
// @Accept json
// @Produce json
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /v1/sessions [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", details)
		return
	}

	base := book.DefaultConfig()
	base.Seed = seed.Random()
	cfg, err := req.overlay(base)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	id, s, err := h.registry.Create(cfg, WithLimit(req.Limit))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.JSONCreated(w, r, newSessionResponse(id, s))
}

// Get handles GET /v1/sessions/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s, err := h.registry.Get(id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, newSessionResponse(id, s), nil)
}

// ApplyConfig handles PUT /v1/sessions/{id}/config
// @Summary Replace the session config
// @Description Fields left out keep their current value. Any change starts a new sequence; an invalid config leaves the session untouched.
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/sessions/{id}/config [put]
func (h *HTTPHandler) ApplyConfig(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s, err := h.registry.Get(id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req configRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}

	base, ok := s.Config()
	if !ok {
		base = book.DefaultConfig()
	}
	cfg, err := req.overlay(base)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if _, err := h.registry.Apply(id, cfg); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, newSessionResponse(id, s), nil)
}

// ResetConfig handles DELETE /v1/sessions/{id}/config. The session stays
// registered but serves nothing until a config is applied again.
func (h *HTTPHandler) ResetConfig(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s, err := h.registry.Get(id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	s.Reset()
	httpx.JSONSuccess(w, r, newSessionResponse(id, s), nil)
}

// Delete handles DELETE /v1/sessions/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.Delete(r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONNoContent(w)
}

// ListBooks handles GET /v1/sessions/{id}/books
// @Summary Fetch a range of generated books
// @Description Either start/count for random access or cursor/page_size for incremental paging
// @Tags books
// @Produce json
// @Param id path string true "Session ID"
// @Param start query int false "First index" default(0)
// @Param count query int false "Number of records, capped at the max page size" default(10)
// @Param cursor query string false "Cursor from a previous page"
// @Param page_size query int false "Records per page, capped at the max page size" default(10)
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Failure 503 {object} httpx.ErrorResponse
// @Router /v1/sessions/{id}/books [get]
func (h *HTTPHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	s, err := h.registry.Get(r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	if q.Has("cursor") || q.Has("page_size") {
		size, detail := intQuery(r, "page_size", DefaultPageSize)
		if detail != nil {
			httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_RANGE", "Invalid page size", []httpx.ErrorDetail{*detail})
			return
		}
		page, next, err := s.NextPage(r.Context(), q.Get("cursor"), h.clamp(size))
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		meta := pageMeta(page)
		meta["next_cursor"] = next
		httpx.JSONSuccess(w, r, page.Records, meta)
		return
	}

	start, count, details := rangeQuery(r)
	if len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_RANGE", "Invalid range", details)
		return
	}
	page, err := s.FetchRange(r.Context(), start, h.clamp(count))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, page.Records, pageMeta(page))
}

// GetBook handles GET /v1/sessions/{id}/books/{index}
func (h *HTTPHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	s, err := h.registry.Get(r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	index, err := strconv.ParseInt(r.PathValue("index"), 10, 64)
	if err != nil || index < 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_RANGE", "Index must be a non-negative integer", nil)
		return
	}

	b, err := s.At(r.Context(), index)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Books handles GET /v1/books
// @Summary Generate a range without a session
// @Description The result depends only on the query, so any two identical requests return identical records
// @Tags books
// @Produce json
// @Param seed query string true "Root seed"
// @Param locale query string false "Locale" default(en_US)
// @Param avg_likes query number false "Average likes" default(5)
// @Param avg_reviews query number false "Average reviews" default(4.7)
// @Param start query int false "First index" default(0)
// @Param count query int false "Number of records, capped at the max page size" default(10)
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /v1/books [get]
func (h *HTTPHandler) Books(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := configRequest{Locale: q.Get("locale"), Seed: q.Get("seed")}

	var details []httpx.ErrorDetail
	for key, dst := range map[string]**float64{"avg_likes": &req.AvgLikes, "avg_reviews": &req.AvgReviews} {
		if !q.Has(key) {
			continue
		}
		v, err := strconv.ParseFloat(q.Get(key), 64)
		if err != nil {
			details = append(details, httpx.ErrorDetail{Field: key, Message: key + " must be a number"})
			continue
		}
		*dst = &v
	}
	if len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_CONFIG", "Invalid config", details)
		return
	}

	cfg, err := req.overlay(book.DefaultConfig())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	start, count, details := rangeQuery(r)
	if len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_RANGE", "Invalid range", details)
		return
	}

	opts := append(append([]Option{WithLogger(h.logger)}, h.opts...), WithCacheSize(0))
	s, err := Create(h.gen, cfg, opts...)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	page, err := s.FetchRange(r.Context(), start, h.clamp(count))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, page.Records, pageMeta(page))
}

// RandomSeed handles GET /v1/seeds/random
func (h *HTTPHandler) RandomSeed(w http.ResponseWriter, r *http.Request) {
	httpx.JSONSuccess(w, r, map[string]string{"seed": seed.Random()}, nil)
}

// Locales handles GET /v1/locales
func (h *HTTPHandler) Locales(w http.ResponseWriter, r *http.Request) {
	httpx.JSONSuccess(w, r, content.Locales(), nil)
}

func pageMeta(p Page) map[string]any {
	return map[string]any{
		"start":    p.Start,
		"count":    len(p.Records),
		"next":     p.Next,
		"has_more": p.HasMore,
	}
}

func intQuery(r *http.Request, key string, def int) (int, *httpx.ErrorDetail) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &httpx.ErrorDetail{Field: key, Message: key + " must be an integer"}
	}
	return v, nil
}

func rangeQuery(r *http.Request) (int64, int, []httpx.ErrorDetail) {
	var details []httpx.ErrorDetail

	var start int64
	if raw := strings.TrimSpace(r.URL.Query().Get("start")); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			details = append(details, httpx.ErrorDetail{Field: "start", Message: "start must be an integer"})
		}
		start = v
	}

	count, detail := intQuery(r, "count", DefaultPageSize)
	if detail != nil {
		details = append(details, *detail)
	}
	return start, count, details
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *book.ValidationError
	switch {
	case errors.As(err, &verr):
		details := make([]httpx.ErrorDetail, len(verr.Fields))
		for i, f := range verr.Fields {
			details[i] = httpx.ErrorDetail{Field: f.Field, Message: f.Message}
		}
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_CONFIG", "Invalid config", details)
	case errors.Is(err, book.ErrInvalidConfig):
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_CONFIG", err.Error(), nil)
	case errors.Is(err, ErrInvalidRange):
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_RANGE", err.Error(), nil)
	case errors.Is(err, ErrInvalidCursor), errors.Is(err, ErrCursorMismatch):
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_CURSOR", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Session not found", nil)
	case errors.Is(err, ErrUninitialized):
		httpx.JSONError(w, r, http.StatusConflict, "UNINITIALIZED", "Session has no config", nil)
	case errors.Is(err, ErrFetchFailed):
		w.Header().Set("Retry-After", "1")
		httpx.JSONError(w, r, http.StatusServiceUnavailable, "FETCH_FAILED", "Range fetch failed, retry", nil)
	default:
		h.logger.Error("unhandled error", zap.String("request_id", httpx.RequestIDFrom(r)), zap.Error(err))
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
