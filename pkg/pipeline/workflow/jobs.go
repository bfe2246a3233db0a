package workflow

import (
	"github.com/congress-network/congressx/pkg/pipeline/types"
	sdktemporal "go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// IngestJobWorkflow pulls members, committees and hearings, then runs the
// relationship and reconciliation passes. Entity ingestion is sequential:
// committees and hearings resolve against rows the earlier steps wrote.
func (wc *Context) IngestJobWorkflow(ctx workflow.Context, in types.IngestInput) (types.FullPipelineOutput, error) {
	logger := workflow.GetLogger(ctx)
	out := types.FullPipelineOutput{}
	ctx = withIngestOptions(ctx)

	if err := workflow.ExecuteActivity(ctx, wc.ActivityContext.IngestMembers, in).Get(ctx, &out.Members); err != nil {
		return out, err
	}
	if err := workflow.ExecuteActivity(ctx, wc.ActivityContext.IngestCommittees, in).Get(ctx, &out.Committees); err != nil {
		return out, err
	}
	if err := workflow.ExecuteActivity(ctx, wc.ActivityContext.IngestHearings, in).Get(ctx, &out.Hearings); err != nil {
		return out, err
	}

	if err := workflow.ExecuteActivity(ctx, wc.ActivityContext.PopulateRelationships, in).Get(ctx, &out.Relate); err != nil {
		return out, err
	}
	if err := workflow.ExecuteActivity(ctx, wc.ActivityContext.Reconcile, in).Get(ctx, &out.Reconcile); err != nil {
		return out, err
	}

	logger.Info("Ingest job complete",
		"members", out.Members.Fetched,
		"committees", out.Committees.Fetched,
		"hearings", out.Hearings.Fetched)
	return out, nil
}

// ValidationJobWorkflow runs every suite and, when all pass, starts the
// deduplicated promotion run keyed by this validation's run ID.
func (wc *Context) ValidationJobWorkflow(ctx workflow.Context, in types.IngestInput) (types.ValidateAllOutput, error) {
	logger := workflow.GetLogger(ctx)
	ctx = withDefaultOptions(ctx)

	var out types.ValidateAllOutput
	if err := workflow.ExecuteActivity(ctx, wc.ActivityContext.ValidateAll, in).Get(ctx, &out); err != nil {
		return out, err
	}

	if !out.AllPassed {
		logger.Warn("Validation failed, promotion not triggered", "run_id", out.RunID)
		return out, nil
	}

	var workflowID string
	err := workflow.ExecuteActivity(ctx, wc.ActivityContext.StartPromotionRun,
		types.PromotionSensorInput{ValidationRunID: out.RunID}).Get(ctx, &workflowID)
	if err != nil {
		return out, err
	}
	logger.Info("Promotion triggered", "workflow_id", workflowID)
	return out, nil
}

// ValidateTableWorkflow runs one table's suite.
func (wc *Context) ValidateTableWorkflow(ctx workflow.Context, in types.ValidateInput) (types.ValidateOutput, error) {
	ctx = withDefaultOptions(ctx)
	var out types.ValidateOutput
	err := workflow.ExecuteActivity(ctx, wc.ActivityContext.ValidateTable, in).Get(ctx, &out)
	return out, err
}

// PromotionJobWorkflow re-validates and promotes everything. Used by the
// deduplicated sensor runs and by manual promotion; the fresh validation
// guards against promoting data that changed since the triggering run.
func (wc *Context) PromotionJobWorkflow(ctx workflow.Context, in types.PromotionSensorInput) (types.PromoteAllOutput, error) {
	logger := workflow.GetLogger(ctx)
	ctx = withDefaultOptions(ctx)

	var validation types.ValidateAllOutput
	if err := workflow.ExecuteActivity(ctx, wc.ActivityContext.ValidateAll, types.IngestInput{}).Get(ctx, &validation); err != nil {
		return types.PromoteAllOutput{}, err
	}
	if !validation.AllPassed {
		return types.PromoteAllOutput{}, sdktemporal.NewApplicationError(
			"validation failed, refusing to promote", "validation_failed", nil)
	}

	var out types.PromoteAllOutput
	if err := workflow.ExecuteActivity(ctx, wc.ActivityContext.PromoteAll, types.IngestInput{}).Get(ctx, &out); err != nil {
		return out, err
	}

	logger.Info("Promotion complete",
		"tables", len(out.Promotions),
		"validation_run", in.ValidationRunID)
	return out, nil
}

// PromoteTableWorkflow validates and promotes a single table.
func (wc *Context) PromoteTableWorkflow(ctx workflow.Context, in types.PromoteInput) (types.PromoteOutput, error) {
	ctx = withDefaultOptions(ctx)

	var validation types.ValidateOutput
	err := workflow.ExecuteActivity(ctx, wc.ActivityContext.ValidateTable,
		types.ValidateInput{Table: in.Table}).Get(ctx, &validation)
	if err == nil && !validation.Success {
		return types.PromoteOutput{}, sdktemporal.NewApplicationError(
			"suite failed for "+in.Table, "validation_failed", nil)
	}
	// Tables without a suite (witnesses, hearing documents) promote on the
	// strength of their parent table's validation.
	if err != nil {
		workflow.GetLogger(ctx).Info("No suite for table, promoting unvalidated", "table", in.Table)
	}

	var out types.PromoteOutput
	if err := workflow.ExecuteActivity(ctx, wc.ActivityContext.PromoteTable, in).Get(ctx, &out); err != nil {
		return out, err
	}
	return out, nil
}

// FullPipelineWorkflow runs ingest, relationships, reconciliation,
// validation and, when everything passes, promotion.
func (wc *Context) FullPipelineWorkflow(ctx workflow.Context, in types.IngestInput) (types.FullPipelineOutput, error) {
	logger := workflow.GetLogger(ctx)

	out, err := wc.IngestJobWorkflow(ctx, in)
	if err != nil {
		return out, err
	}

	ctx = withDefaultOptions(ctx)
	if err := workflow.ExecuteActivity(ctx, wc.ActivityContext.ValidateAll, in).Get(ctx, &out.Validation); err != nil {
		return out, err
	}
	if !out.Validation.AllPassed {
		logger.Warn("Full pipeline stopping before promotion, validation failed",
			"run_id", out.Validation.RunID)
		return out, nil
	}

	var promotion types.PromoteAllOutput
	if err := workflow.ExecuteActivity(ctx, wc.ActivityContext.PromoteAll, in).Get(ctx, &promotion); err != nil {
		return out, err
	}
	out.Promotion = &promotion

	logger.Info("Full pipeline complete", "promoted_tables", len(promotion.Promotions))
	return out, nil
}

// VersionCleanupWorkflow drops stale versioned production tables.
func (wc *Context) VersionCleanupWorkflow(ctx workflow.Context, in types.IngestInput) (types.CleanupOutput, error) {
	ctx = withDefaultOptions(ctx)
	var out types.CleanupOutput
	err := workflow.ExecuteActivity(ctx, wc.ActivityContext.CleanupVersions, in).Get(ctx, &out)
	return out, err
}
