package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/wonny/marcus/internal/analysis"
	"github.com/wonny/marcus/internal/report"
	"github.com/wonny/marcus/internal/universe"
	"github.com/wonny/marcus/pkg/logger"
)

// ScreenHandler handles screening API endpoints
// ⭐ SSOT: 스크리닝 API 핸들러는 이 구조체에서만
type ScreenHandler struct {
	service *analysis.Service
	logger  *logger.Logger
}

// NewScreenHandler creates a new screen handler
func NewScreenHandler(service *analysis.Service, log *logger.Logger) *ScreenHandler {
	return &ScreenHandler{
		service: service,
		logger:  log,
	}
}

// StrategyInfo describes one strategy for clients
type StrategyInfo struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	MinScore    int    `json:"min_score"`
}

// GetStrategies lists available strategies
// GET /api/strategies
func (h *ScreenHandler) GetStrategies(w http.ResponseWriter, r *http.Request) {
	defs := h.service.Strategies()
	out := make([]StrategyInfo, 0, len(defs))
	for _, d := range defs {
		out = append(out, StrategyInfo{
			Name:        string(d.Name),
			Title:       d.Title,
			Description: d.Description,
			MinScore:    d.MinScore,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

// GetMarkets lists markets and their categories
// GET /api/markets
func (h *ScreenHandler) GetMarkets(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.Universe().Markets)
}

// Screen runs an analysis and returns the JSON report
// GET /api/screen?strategy=value&market=BR&category=dividends&sector=Energy&limit=10
func (h *ScreenHandler) Screen(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.run(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

// ScreenCSV runs an analysis and returns the results as CSV
// GET /api/screen.csv
func (h *ScreenHandler) ScreenCSV(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.run(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("marcus_%s_%s.csv", rep.Strategy, strings.ToLower(rep.Market))))
	w.WriteHeader(http.StatusOK)
	if err := report.WriteCSV(w, rep.Results); err != nil {
		h.logger.WithError(err).Error("Failed to write CSV")
	}
}

func (h *ScreenHandler) run(w http.ResponseWriter, r *http.Request) (*report.Report, bool) {
	req, err := parseRequest(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	rep, err := h.service.Run(r.Context(), req, nil)
	if err != nil {
		var verr analysis.ValidationError
		if errors.As(err, &verr) {
			respondError(w, http.StatusBadRequest, verr.Error())
			return nil, false
		}
		if r.Context().Err() != nil {
			h.logger.WithField("path", r.URL.Path).Warn("Screening cancelled by client")
			return nil, false
		}
		h.logger.WithError(err).Error("Screening failed")
		respondError(w, http.StatusInternalServerError, "Failed to run screening")
		return nil, false
	}
	return rep, true
}

// parseRequest maps query parameters. List parameters may repeat or be comma separated.
func parseRequest(r *http.Request) (analysis.Request, error) {
	q := r.URL.Query()
	req := analysis.Request{
		Strategy:      q.Get("strategy"),
		Market:        q.Get("market"),
		Categories:    splitParam(q["category"]),
		Sectors:       splitParam(q["sector"]),
		CustomTickers: universe.ParseTickers(strings.Join(q["tickers"], ",")),
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, analysis.ValidationError{Field: "limit", Message: "must be an integer"}
		}
		req.MaxResults = n
	}
	if v := q.Get("min_score"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, analysis.ValidationError{Field: "min_score", Message: "must be an integer"}
		}
		req.MinScore = n
	}
	return req, nil
}

func splitParam(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
