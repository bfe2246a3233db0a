package controller

import (
	"net/http"
	"strconv"

	"github.com/congress-network/congressx/pkg/db/production"
	"github.com/go-jose/go-jose/v4/json"
	"go.uber.org/zap"
)

// HandlePromotions lists recent promotion attempts, newest first.
func (c *Controller) HandlePromotions(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	promotions, err := c.App.Engine.Promotions(r.Context(), limit)
	if err != nil {
		c.App.Logger.Error("Promotion history query failed", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "query failed"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(promotions)
}

// HandleDiscrepancies lists reconciliation discrepancies, newest first.
func (c *Controller) HandleDiscrepancies(w http.ResponseWriter, r *http.Request) {
	discrepancies, err := c.App.Engine.Discrepancies(r.Context(), 100)
	if err != nil {
		c.App.Logger.Error("Discrepancy query failed", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "query failed"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(discrepancies)
}

type promoteRequest struct {
	Table  string `json:"table"`
	Source string `json:"source,omitempty"`
	Target string `json:"target,omitempty"`
}

// engineFor returns the shared engine, or a copy with the request's
// schema overrides applied.
func (c *Controller) engineFor(source, target string) *production.Engine {
	if (source == "" || source == c.App.Engine.SourceSchema) &&
		(target == "" || target == c.App.Engine.TargetSchema) {
		return c.App.Engine
	}
	engine := *c.App.Engine
	if source != "" {
		engine.SourceSchema = source
	}
	if target != "" {
		engine.TargetSchema = target
	}
	return &engine
}

// HandlePromote validates one table and, on a clean suite, promotes it.
// A failing suite answers 409 and leaves production untouched.
func (c *Controller) HandlePromote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req promoteRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.Table == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "table is required"})
		return
	}
	if !production.IsPromotable(req.Table) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "table is not promotable"})
		return
	}

	runner := c.runnerFor(req.Source)
	if _, ok := runner.Suites[req.Table]; ok {
		result, err := runner.RunTable(ctx, req.Table)
		if err != nil {
			c.App.Logger.Error("Pre-promotion validation failed", zap.String("table", req.Table), zap.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		observeValidation(req.Table, result.Success)
		if !result.Success {
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error":  "validation failed, refusing to promote",
				"result": result,
			})
			return
		}
	}

	promotion, err := c.engineFor(req.Source, req.Target).Promote(ctx, req.Table)
	observePromotion(req.Table, err == nil)
	if c.App.RedisClient != nil {
		c.App.RedisClient.PublishPromotion(ctx, promotion)
	}
	if err != nil {
		c.App.Logger.Error("Promotion failed", zap.String("table", req.Table), zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(promotion)
}
