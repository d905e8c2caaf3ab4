package http_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	pkghttp "github.com/rdua-dev/sadhana-tracker/pkg/http"
	"github.com/stretchr/testify/assert"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()

	pkghttp.WriteJSON(w, 201, map[string]string{"id": "abc"}, "created successfully")

	assert.Equal(t, 201, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp struct {
		StatusCode int               `json:"statusCode"`
		Data       map[string]string `json:"data"`
		Message    string            `json:"message"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)
	assert.Equal(t, "abc", resp.Data["id"])
	assert.Equal(t, "created successfully", resp.Message)
}

func TestWriteJSON_NilData(t *testing.T) {
	w := httptest.NewRecorder()

	pkghttp.WriteJSON(w, 200, nil, "ok")

	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)

	// Envelope always carries a data object, never null
	data, ok := resp["data"].(map[string]interface{})
	assert.True(t, ok)
	assert.Empty(t, data)
}

func TestWriteError_StatusMirrorsEnvelope(t *testing.T) {
	tests := []struct {
		name  string
		write func(w *httptest.ResponseRecorder)
		code  int
	}{
		{"bad request", func(w *httptest.ResponseRecorder) { pkghttp.WriteBadRequest(w, "invalid") }, 400},
		{"unauthorized", func(w *httptest.ResponseRecorder) { pkghttp.WriteUnauthorized(w, "no token") }, 401},
		{"forbidden", func(w *httptest.ResponseRecorder) { pkghttp.WriteForbidden(w, "admins only") }, 403},
		{"not found", func(w *httptest.ResponseRecorder) { pkghttp.WriteNotFound(w, "missing") }, 404},
		{"conflict", func(w *httptest.ResponseRecorder) { pkghttp.WriteConflict(w, "exists") }, 409},
		{"too many requests", func(w *httptest.ResponseRecorder) { pkghttp.WriteTooManyRequests(w, "slow down") }, 429},
		{"internal", func(w *httptest.ResponseRecorder) { pkghttp.WriteInternalError(w, "boom") }, 500},
		{"bad gateway", func(w *httptest.ResponseRecorder) { pkghttp.WriteBadGateway(w, "email down") }, 502},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w)

			assert.Equal(t, tt.code, w.Code)

			var resp pkghttp.Response
			err := json.Unmarshal(w.Body.Bytes(), &resp)
			assert.NoError(t, err)
			assert.Equal(t, tt.code, resp.StatusCode)
			assert.NotEmpty(t, resp.Message)
		})
	}
}
