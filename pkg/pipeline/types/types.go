// Package types holds the input and output shapes passed between pipeline
// workflows and activities. Everything here crosses the Temporal data
// converter, so fields stay plain and JSON-serializable.
package types

import "time"

// IngestInput selects what one ingestion activity pulls.
type IngestInput struct {
	Chamber string `json:"chamber,omitempty"`
}

// IngestOutput summarizes one ingestion activity.
type IngestOutput struct {
	Entity     string  `json:"entity"`
	Fetched    int     `json:"fetched"`
	Created    int     `json:"created"`
	Updated    int     `json:"updated"`
	Failed     int     `json:"failed"`
	Partial    bool    `json:"partial,omitempty"`
	DurationMs float64 `json:"duration_ms"`
}

// RelateOutput summarizes the relationship passes.
type RelateOutput struct {
	Memberships      int     `json:"memberships"`
	ParentsLinked    int     `json:"parents_linked"`
	HearingsAttached int     `json:"hearings_attached"`
	Unmatched        int     `json:"unmatched"`
	DurationMs       float64 `json:"duration_ms"`
}

// ReconcileOutput summarizes one reconciliation run.
type ReconcileOutput struct {
	Renamed            int     `json:"renamed"`
	Added              int     `json:"added"`
	LeadershipRepaired int     `json:"leadership_repaired"`
	Deactivated        int     `json:"deactivated"`
	Discrepancies      int     `json:"discrepancies"`
	DurationMs         float64 `json:"duration_ms"`
}

// ValidateInput names the staging table to validate.
type ValidateInput struct {
	Table string `json:"table"`
}

// ValidateOutput is the outcome of one suite run.
type ValidateOutput struct {
	Table      string  `json:"table"`
	Suite      string  `json:"suite"`
	ResultID   string  `json:"result_id"`
	Success    bool    `json:"success"`
	Passed     int     `json:"passed"`
	Failed     int     `json:"failed"`
	DurationMs float64 `json:"duration_ms"`
}

// ValidateAllOutput aggregates suite runs across tables.
type ValidateAllOutput struct {
	Results    []ValidateOutput `json:"results"`
	AllPassed  bool             `json:"all_passed"`
	RunID      string           `json:"run_id"`
	DurationMs float64          `json:"duration_ms"`
}

// PromoteInput names the table to promote.
type PromoteInput struct {
	Table string `json:"table"`
}

// PromoteOutput is the outcome of one promotion.
type PromoteOutput struct {
	Table      string  `json:"table"`
	Version    string  `json:"version"`
	Rows       int64   `json:"rows"`
	DurationMs float64 `json:"duration_ms"`
}

// PromoteAllOutput aggregates promotions across tables.
type PromoteAllOutput struct {
	Promotions []PromoteOutput `json:"promotions"`
	DurationMs float64         `json:"duration_ms"`
}

// FreshnessOutput reports how stale the staging data is.
type FreshnessOutput struct {
	Fresh       bool       `json:"fresh"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
	AgeSeconds  float64    `json:"age_seconds"`
	DurationMs  float64    `json:"duration_ms"`
}

// CleanupOutput reports dropped stale versions.
type CleanupOutput struct {
	Dropped    int     `json:"dropped"`
	DurationMs float64 `json:"duration_ms"`
}

// PromotionSensorInput carries the validation run a sensor reacts to.
type PromotionSensorInput struct {
	ValidationRunID string `json:"validation_run_id"`
}

// FullPipelineOutput aggregates one end-to-end run.
type FullPipelineOutput struct {
	Members    IngestOutput      `json:"members"`
	Committees IngestOutput      `json:"committees"`
	Hearings   IngestOutput      `json:"hearings"`
	Relate     RelateOutput      `json:"relate"`
	Reconcile  ReconcileOutput   `json:"reconcile"`
	Validation ValidateAllOutput `json:"validation"`
	Promotion  *PromoteAllOutput `json:"promotion,omitempty"`
}
