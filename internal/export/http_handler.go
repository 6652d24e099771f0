package export

import (
	"errors"
	"net/http"

	"bookgen/internal/book"
	"bookgen/internal/content"
	"bookgen/internal/httpx"
)

type HTTPHandler struct {
	svc    *Service
	secret string
}

func NewHTTPHandler(svc *Service, secret string) *HTTPHandler {
	return &HTTPHandler{svc: svc, secret: secret}
}

// Register mounts the export job behind the internal secret.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.Handle("POST /internal/jobs/export", httpx.InternalSecretMiddleware(h.secret)(http.HandlerFunc(h.Export)))
}

type exportRequest struct {
	Locale     string  `json:"locale" validate:"required"`
	Seed       string  `json:"seed" validate:"required"`
	AvgLikes   float64 `json:"avg_likes"`
	AvgReviews float64 `json:"avg_reviews"`
	Start      int64   `json:"start" validate:"gte=0"`
	Count      int64   `json:"count" validate:"required,gte=1,lte=1000000"`
	BatchSize  int     `json:"batch_size" validate:"gte=0,lte=5000"`
}

// Export handles POST /internal/jobs/export
// @Summary Export a generated range to Postgres
// @Description Generates the range and bulk-loads it into generated_books under a new export run
// @Tags internal
// @Accept json
// @Produce json
// @Param X-Internal-Secret header string true "Internal secret for authentication"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /internal/jobs/export [post]
func (h *HTTPHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", details)
		return
	}

	locale, err := content.ParseLocale(req.Locale)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_CONFIG", err.Error(),
			[]httpx.ErrorDetail{{Field: "locale", Message: err.Error()}})
		return
	}

	run, err := h.svc.Run(r.Context(), Request{
		Config: book.Config{
			Locale:     locale,
			Seed:       req.Seed,
			AvgLikes:   req.AvgLikes,
			AvgReviews: req.AvgReviews,
		},
		Start:     req.Start,
		Count:     req.Count,
		BatchSize: req.BatchSize,
	})
	if err != nil {
		var verr *book.ValidationError
		switch {
		case errors.As(err, &verr):
			details := make([]httpx.ErrorDetail, len(verr.Fields))
			for i, f := range verr.Fields {
				details[i] = httpx.ErrorDetail{Field: f.Field, Message: f.Message}
			}
			httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_CONFIG", "Invalid config", details)
		case errors.Is(err, ErrInvalidRequest):
			httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_RANGE", err.Error(), nil)
		default:
			httpx.JSONError(w, r, http.StatusInternalServerError, "EXPORT_FAILED", err.Error(), nil)
		}
		return
	}

	httpx.JSONSuccess(w, r, run, nil)
}
