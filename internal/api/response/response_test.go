package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]string{"slug": "frank-vargas"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "frank-vargas", body["slug"])
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusNotFound, "certificate not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "certificate not found", body["error"])
}

func TestWritePaginated(t *testing.T) {
	rec := httptest.NewRecorder()
	WritePaginated(rec, http.StatusOK, []string{"a", "b"}, 42, 50, 10)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body PaginatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 42, body.Total)
	assert.Equal(t, 50, body.Limit)
	assert.Equal(t, 10, body.Offset)
}
