package controller

import (
	"net/http"
	"time"

	"github.com/congress-network/congressx/pkg/db/models"
	"github.com/go-jose/go-jose/v4/json"
	"go.uber.org/zap"
)

type statusResponse struct {
	UptimeSeconds float64                             `json:"uptime_seconds"`
	Counts        map[string]int64                    `json:"counts"`
	LastUpdated   map[string]*time.Time               `json:"last_updated"`
	Validations   map[string]*models.ValidationResult `json:"latest_validations"`
	Promotions    []models.DataPromotion              `json:"recent_promotions"`
}

// HandleStatus reports staging row counts, write freshness, the latest
// suite outcome per table and recent promotions.
func (c *Controller) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	counts, err := c.App.Staging.TableCounts(ctx)
	if err != nil {
		c.App.Logger.Error("Status query failed", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "status query failed"})
		return
	}

	resp := statusResponse{
		UptimeSeconds: time.Since(c.App.StartedAt).Seconds(),
		Counts:        counts,
		LastUpdated:   map[string]*time.Time{},
		Validations:   map[string]*models.ValidationResult{},
	}

	for table := range c.App.Runner.Suites {
		updated, err := c.App.Staging.LastUpdated(ctx, table)
		if err == nil {
			resp.LastUpdated[table] = updated
		}
		latest, err := c.App.Engine.LatestValidation(ctx, table)
		if err == nil {
			resp.Validations[table] = latest
		}
	}

	promotions, err := c.App.Engine.Promotions(ctx, 10)
	if err != nil {
		c.App.Logger.Warn("Promotion history unavailable", zap.Error(err))
	}
	resp.Promotions = promotions

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
