package controller

import (
	"net/http"
	"strconv"

	"github.com/congress-network/congressx/pkg/expect"
	"github.com/go-jose/go-jose/v4/json"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// HandleValidationResults lists recent suite runs, newest first.
func (c *Controller) HandleValidationResults(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	results, err := c.App.Engine.ValidationResults(r.Context(), limit)
	if err != nil {
		c.App.Logger.Error("Validation history query failed", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "query failed"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(results)
}

// HandleLatestValidation returns the newest suite run for one table.
func (c *Controller) HandleLatestValidation(w http.ResponseWriter, r *http.Request) {
	table := mux.Vars(r)["table"]

	result, err := c.App.Engine.LatestValidation(r.Context(), table)
	if err != nil {
		c.App.Logger.Error("Validation lookup failed", zap.String("table", table), zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "query failed"})
		return
	}
	if result == nil {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "no validation recorded for table"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}

type validateRequest struct {
	Table  string `json:"table"`
	Suite  string `json:"suite,omitempty"`
	Schema string `json:"schema,omitempty"`
}

// runnerFor returns the shared runner, or a copy pointed at a different
// schema when the request overrides it.
func (c *Controller) runnerFor(schema string) *expect.Runner {
	if schema == "" || schema == c.App.Runner.Schema {
		return c.App.Runner
	}
	runner := *c.App.Runner
	runner.Schema = schema
	return &runner
}

// HandleValidate runs one suite. An empty table runs every suite.
func (c *Controller) HandleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	runner := c.runnerFor(req.Schema)

	if req.Table == "" {
		results, err := runner.RunAll(r.Context())
		for table, result := range results {
			observeValidation(table, result.Success)
		}
		if err != nil {
			c.App.Logger.Error("Validation run failed", zap.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(results)
		return
	}

	if req.Suite != "" {
		named, ok := expect.SuiteByName(runner.Suites, req.Suite)
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "unknown suite"})
			return
		}
		if named.Table != req.Table {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "suite is bound to a different table"})
			return
		}
	} else if _, ok := runner.Suites[req.Table]; !ok {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "no suite for table"})
		return
	}

	result, err := runner.RunTable(r.Context(), req.Table)
	if err != nil {
		c.App.Logger.Error("Validation run failed", zap.String("table", req.Table), zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	observeValidation(req.Table, result.Success)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}
