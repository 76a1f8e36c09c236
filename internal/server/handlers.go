package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rpgo/withdrawal-simulator/internal/calculation"
	"github.com/rpgo/withdrawal-simulator/internal/config"
	"github.com/rpgo/withdrawal-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

const maxBodyBytes = 1 << 20

// SimulateRequest is the body of POST /api/simulate. Strategies extend or
// override the server's built-in strategies.
type SimulateRequest struct {
	Scenario   domain.Scenario   `json:"scenario"`
	Strategies []domain.Strategy `json:"strategies,omitempty"`
	Currency   string            `json:"currency,omitempty"`
}

// SummaryRequest is the body of POST /api/summary.
type SummaryRequest struct {
	StartYear    int                     `json:"start_year"`
	StartCapital decimal.Decimal         `json:"start_capital"`
	Withdrawal   domain.WithdrawalPolicy `json:"withdrawal"`
	Trajectory   []decimal.Decimal       `json:"trajectory"`
	Returns      []decimal.Decimal       `json:"returns"`
}

// DataResponse describes the loaded return dataset.
type DataResponse struct {
	Classes   []domain.AssetClass                                    `json:"classes"`
	StartYear int                                                    `json:"start_year"`
	EndYear   int                                                    `json:"end_year"`
	Datasets  map[domain.AssetClass]calculation.HistoricalStatistics `json:"datasets"`
	Issues    []string                                               `json:"issues"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.strategies)
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	minYear, maxYear, err := s.data.GetAvailableYears()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	issues, err := s.data.ValidateDataQuality()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	resp := DataResponse{
		Classes:   s.data.Classes(),
		StartYear: minYear,
		EndYear:   maxYear,
		Datasets:  make(map[domain.AssetClass]calculation.HistoricalStatistics, len(s.data.Datasets)),
		Issues:    issues,
	}
	for class, ds := range s.data.Datasets {
		resp.Datasets[class] = ds.Statistics
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	cfg, ok := s.decodeConfiguration(w, r)
	if !ok {
		return
	}

	comparison, err := s.engine.RunScenario(r.Context(), cfg)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, comparison)
}

// handleSustainable takes the same body as /api/simulate and reports the
// largest initial withdrawal each selected strategy survives.
func (s *Server) handleSustainable(w http.ResponseWriter, r *http.Request) {
	cfg, ok := s.decodeConfiguration(w, r)
	if !ok {
		return
	}

	analysis, err := s.engine.CalculateSustainableWithdrawals(r.Context(), cfg)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (s *Server) decodeConfiguration(w http.ResponseWriter, r *http.Request) (*domain.Configuration, bool) {
	var req SimulateRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return nil, false
	}

	cfg := &domain.Configuration{
		Scenario:   req.Scenario,
		Strategies: config.MergeStrategies(s.strategies, req.Strategies),
		Data:       domain.DataSettings{Currency: req.Currency},
	}
	if cfg.Data.Currency == "" {
		cfg.Data.Currency = s.currency
	}
	if err := config.NewInputParser().ValidateConfiguration(cfg); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return nil, false
	}
	return cfg, true
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	var req SummaryRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.StartCapital.IsNegative() {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("%w: start capital cannot be negative", calculation.ErrInvalidInput))
		return
	}
	if len(req.Returns) != 0 && len(req.Returns) != len(req.Trajectory) {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("%w: returns and trajectory lengths differ", calculation.ErrInvalidInput))
		return
	}

	proj := &domain.Projection{
		StartYear:  req.StartYear,
		EndYear:    req.StartYear + len(req.Trajectory) - 1,
		Trajectory: req.Trajectory,
		Returns:    req.Returns,
	}
	writeJSON(w, http.StatusOK, calculation.Summarize(proj, req.Withdrawal, req.StartCapital))
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func statusFor(err error) int {
	if errors.Is(err, calculation.ErrInvalidInput) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.log.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
