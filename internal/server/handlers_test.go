package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"AAPL", "AAPL", true},
		{" aapl ", "AAPL", true},
		{"BRK.B", "BRK.B", true},
		{"^VIX", "^VIX", true},
		{"", "", false},
		{"...", "", false},
		{"WAY-TOO-LONG-SYMBOL", "", false},
		{"bad symbol", "", false},
	}
	for _, tt := range tests {
		got, ok := normalizeSymbol(tt.raw)
		assert.Equal(t, tt.ok, ok, "input %q", tt.raw)
		if tt.ok {
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestEvaluateRejectsMalformedBody(t *testing.T) {
	s := &Server{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/evaluate", strings.NewReader("{not json"))

	s.handleEvaluate(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "malformed")
}

func TestEvaluateRejectsInvalidSymbol(t *testing.T) {
	s := &Server{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/evaluate", strings.NewReader(`{"symbol":"no way"}`))

	s.handleEvaluate(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid symbol")
}

func TestBatchRejectsEmptyAndOversized(t *testing.T) {
	s := &Server{}

	rec := httptest.NewRecorder()
	s.handleEvaluateBatch(rec, httptest.NewRequest(http.MethodPost, "/api/evaluate/batch", strings.NewReader(`{"symbols":[]}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	many := `{"symbols":[` + strings.Repeat(`"AAPL",`, 50) + `"MSFT"]}`
	rec = httptest.NewRecorder()
	s.handleEvaluateBatch(rec, httptest.NewRequest(http.MethodPost, "/api/evaluate/batch", strings.NewReader(many)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
