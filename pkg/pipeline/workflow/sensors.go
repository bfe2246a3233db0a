package workflow

import (
	"github.com/congress-network/congressx/pkg/pipeline/types"
	"go.temporal.io/sdk/workflow"
)

// FreshnessSensorWorkflow checks how recently staging was written. Fresh
// data means something upstream changed, so it requests a validation run
// keyed by timestamp; stale data starts an ingest run instead. Runs hourly.
func (wc *Context) FreshnessSensorWorkflow(ctx workflow.Context, in types.IngestInput) (types.FreshnessOutput, error) {
	logger := workflow.GetLogger(ctx)
	ctx = withDefaultOptions(ctx)

	var out types.FreshnessOutput
	if err := workflow.ExecuteActivity(ctx, wc.ActivityContext.CheckFreshness, in).Get(ctx, &out); err != nil {
		return out, err
	}

	var workflowID string
	if out.Fresh {
		if err := workflow.ExecuteActivity(ctx, wc.ActivityContext.StartValidationRun, in).Get(ctx, &workflowID); err != nil {
			return out, err
		}
		logger.Info("Fresh staging data, validation requested", "workflow_id", workflowID)
		return out, nil
	}

	logger.Warn("Staging data is stale, starting ingest",
		"age_seconds", out.AgeSeconds)
	if err := workflow.ExecuteActivity(ctx, wc.ActivityContext.StartIngestRun, in).Get(ctx, &workflowID); err != nil {
		return out, err
	}
	logger.Info("Ingest started", "workflow_id", workflowID)
	return out, nil
}
