package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestWithID(id string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/test", nil)
	if id == "" {
		return r
	}
	return r.WithContext(ContextWithRequestID(r.Context(), id))
}

func TestJSONSuccess(t *testing.T) {
	w := httptest.NewRecorder()

	JSONSuccess(w, requestWithID("req-1"), map[string]string{"key": "value"}, map[string]any{"total": 10})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var response SuccessResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.True(t, response.Success)
	assert.NotNil(t, response.Data)
	assert.Equal(t, "req-1", response.Meta["request_id"])
	assert.Equal(t, float64(10), response.Meta["total"])
}

func TestJSONSuccess_NoMeta(t *testing.T) {
	w := httptest.NewRecorder()

	JSONSuccess(w, requestWithID(""), []int{1}, nil)

	assert.NotContains(t, w.Body.String(), `"meta"`)
}

func TestJSONCreated(t *testing.T) {
	w := httptest.NewRecorder()

	JSONCreated(w, requestWithID("req-2"), map[string]string{"id": "x"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"request_id":"req-2"`)
}

func TestJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	details := []ErrorDetail{{Field: "seed", Message: "seed is required"}}

	JSONError(w, requestWithID("req-3"), http.StatusBadRequest, "INVALID_CONFIG", "Invalid config", details)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.False(t, response.Success)
	assert.Equal(t, "INVALID_CONFIG", response.Error.Code)
	assert.Equal(t, details, response.Error.Details)
	assert.Equal(t, "req-3", response.Meta["request_id"])
}

func TestJSONNoContent(t *testing.T) {
	w := httptest.NewRecorder()

	JSONNoContent(w)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}
