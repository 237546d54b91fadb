package web

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCORSPreflight checks that browsers may POST moves from another origin
func TestCORSPreflight(t *testing.T) {
	_, router := newTestService(t)
	var logs bytes.Buffer
	h := WithMiddleware(router, &logs)

	req := httptest.NewRequest("OPTIONS", "/api/games/abc/moves", nil)
	req.Header.Set("Origin", "http://localhost:8081")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "content-type")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
	assert.Contains(t, logs.String(), "OPTIONS /api/games/abc/moves")
}

func TestCORSSimpleRequest(t *testing.T) {
	_, router := newTestService(t)
	var logs bytes.Buffer
	h := WithMiddleware(router, &logs)

	req := httptest.NewRequest("GET", "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:8081")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.True(t, strings.Contains(logs.String(), "GET /api/health"))
}
