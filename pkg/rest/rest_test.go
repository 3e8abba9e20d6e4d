package rest

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	require.NoError(t, WriteJSON(rec, http.StatusBadGateway, Envelope{"error": "lookup failure"}))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"lookup failure"}`, rec.Body.String())
}

func TestWriteJSONUnsupportedValue(t *testing.T) {
	rec := httptest.NewRecorder()

	assert.Error(t, WriteJSON(rec, http.StatusOK, Envelope{"ch": make(chan int)}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}
