package server

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/oakmont/vantage/internal/domain"
)

// symbolPattern accepts ordinary tickers plus class shares (BRK.B) and
// index symbols (^VIX).
var symbolPattern = regexp.MustCompile(`^\^?[A-Z][A-Z0-9.\-]{0,9}$`)

func normalizeSymbol(raw string) (string, bool) {
	symbol := strings.ToUpper(strings.TrimSpace(raw))
	if !symbolPattern.MatchString(symbol) {
		return "", false
	}
	return symbol, true
}

type evaluateRequest struct {
	Symbol       string                 `json:"symbol"`
	Symbols      []string               `json:"symbols"`
	Portfolio    *domain.PortfolioState `json:"portfolio"`
	ForceRefresh bool                   `json:"force_refresh"`
}

func (r evaluateRequest) portfolioState() domain.PortfolioState {
	if r.Portfolio != nil {
		return *r.Portfolio
	}
	return domain.PortfolioState{}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleEvaluate runs the full pipeline for one symbol.
// POST /api/evaluate {"symbol": "AAPL", "portfolio": {...}}
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	symbol, ok := normalizeSymbol(req.Symbol)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "invalid symbol")
		return
	}

	result, err := s.decisions.Evaluate(r.Context(), symbol, req.portfolioState(), req.ForceRefresh)
	if err != nil {
		s.log.Error().Err(err).Str("symbol", symbol).Msg("Evaluation failed")
		s.writeError(w, http.StatusBadGateway, "evaluation failed: no usable market data")
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// handleEvaluateBatch evaluates many symbols and returns the ranked
// dashboard. POST /api/evaluate/batch {"symbols": ["AAPL", "MSFT"]}
func (s *Server) handleEvaluateBatch(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if len(req.Symbols) == 0 || len(req.Symbols) > 50 {
		s.writeError(w, http.StatusBadRequest, "symbols must contain 1-50 entries")
		return
	}

	symbols := make([]string, 0, len(req.Symbols))
	for _, raw := range req.Symbols {
		symbol, ok := normalizeSymbol(raw)
		if !ok {
			s.writeError(w, http.StatusBadRequest, "invalid symbol: "+raw)
			return
		}
		symbols = append(symbols, symbol)
	}

	s.writeJSON(w, http.StatusOK, s.decisions.EvaluateBatch(r.Context(), symbols, req.portfolioState()))
}

// handleMarketContext returns the cached market regime picture.
// GET /api/market/context?refresh=1
func (s *Server) handleMarketContext(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("refresh") == "1" {
		s.market.Invalidate()
	}
	s.writeJSON(w, http.StatusOK, s.market.Context(r.Context()))
}

// handleSectorRegime classifies one sector.
// GET /api/sectors/{sector}/regime
func (s *Server) handleSectorRegime(w http.ResponseWriter, r *http.Request) {
	sector := chi.URLParam(r, "sector")
	if sector == "" {
		s.writeError(w, http.StatusBadRequest, "sector is required")
		return
	}
	s.writeJSON(w, http.StatusOK, s.decisions.SectorRegime(r.Context(), sector))
}

// handleActivePlaybook returns the most recent logged playbook instance for
// a symbol. GET /api/playbooks/active?symbol=AAPL
func (s *Server) handleActivePlaybook(w http.ResponseWriter, r *http.Request) {
	symbol, ok := normalizeSymbol(r.URL.Query().Get("symbol"))
	if !ok {
		s.writeError(w, http.StatusBadRequest, "invalid symbol")
		return
	}

	instances, err := s.playbooks.Instances(symbol, 1)
	if err != nil {
		s.log.Error().Err(err).Str("symbol", symbol).Msg("Playbook lookup failed")
		s.writeError(w, http.StatusInternalServerError, "playbook lookup failed")
		return
	}
	if len(instances) == 0 {
		s.writeJSON(w, http.StatusOK, map[string]interface{}{"active": nil})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"active": instances[0]})
}

// handlePlaybookInstances returns the logged history for a symbol.
// GET /api/playbooks/instances?symbol=AAPL&limit=20
func (s *Server) handlePlaybookInstances(w http.ResponseWriter, r *http.Request) {
	symbol, ok := normalizeSymbol(r.URL.Query().Get("symbol"))
	if !ok {
		s.writeError(w, http.StatusBadRequest, "invalid symbol")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	instances, err := s.playbooks.Instances(symbol, limit)
	if err != nil {
		s.log.Error().Err(err).Str("symbol", symbol).Msg("Playbook history lookup failed")
		s.writeError(w, http.StatusInternalServerError, "playbook lookup failed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"instances": instances})
}

// handlePlaybookSummary returns per-playbook outcome statistics.
// GET /api/playbooks/summary
func (s *Server) handlePlaybookSummary(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.outcomes.Summaries(500)
	if err != nil {
		s.log.Error().Err(err).Msg("Playbook summary failed")
		s.writeError(w, http.StatusInternalServerError, "summary failed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"summaries": summaries})
}
