package activity

import (
	"context"
	"errors"

	"github.com/congress-network/congressx/pkg/pipeline/types"
	"go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"
)

// Workflow names started by activities. These must match the names the
// worker registers in pkg/pipeline/workflow.
const (
	promotionJobWorkflowName  = "PromotionJobWorkflow"
	validationJobWorkflowName = "ValidationJobWorkflow"
	ingestJobWorkflowName     = "IngestJobWorkflow"
)

// StartPromotionRun starts the promotion workflow for one validation run.
// The workflow ID embeds the run ID and duplicates are rejected, so a
// validation run triggers at most one promotion no matter how often the
// sensor fires.
func (c *Context) StartPromotionRun(ctx context.Context, in types.PromotionSensorInput) (string, error) {
	workflowID := c.Temporal.GetPromotionRunID(in.ValidationRunID)

	opts := client.StartWorkflowOptions{
		ID:                    workflowID,
		TaskQueue:             c.Temporal.OpsQueue,
		WorkflowIDReusePolicy: enums.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
	}
	_, err := c.Temporal.TClient.ExecuteWorkflow(ctx, opts, promotionJobWorkflowName, in)
	if err != nil {
		var already *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &already) {
			c.Logger.Info("Promotion already running for validation run",
				zap.String("workflow_id", workflowID))
			return workflowID, nil
		}
		return "", err
	}

	c.Logger.Info("Promotion workflow started", zap.String("workflow_id", workflowID))
	return workflowID, nil
}

// StartValidationRun starts a validation job for freshly written staging
// data. The timestamped workflow ID doubles as the run key: two sensor
// firings inside the same second collapse onto one run.
func (c *Context) StartValidationRun(ctx context.Context, in types.IngestInput) (string, error) {
	workflowID := c.Temporal.GetJobWorkflowID("freshness", "all")

	opts := client.StartWorkflowOptions{
		ID:                    workflowID,
		TaskQueue:             c.Temporal.OpsQueue,
		WorkflowIDReusePolicy: enums.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
	}
	_, err := c.Temporal.TClient.ExecuteWorkflow(ctx, opts, validationJobWorkflowName, in)
	if err != nil {
		var already *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &already) {
			c.Logger.Info("Validation already running for this run key",
				zap.String("workflow_id", workflowID))
			return workflowID, nil
		}
		return "", err
	}

	c.Logger.Info("Validation workflow started", zap.String("workflow_id", workflowID))
	return workflowID, nil
}

// StartIngestRun starts an ingest job when staging has gone stale.
func (c *Context) StartIngestRun(ctx context.Context, in types.IngestInput) (string, error) {
	workflowID := c.Temporal.GetJobWorkflowID("stale", "all")

	opts := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: c.Temporal.IngestQueue,
	}
	if _, err := c.Temporal.TClient.ExecuteWorkflow(ctx, opts, ingestJobWorkflowName, in); err != nil {
		return "", err
	}

	c.Logger.Info("Ingest workflow started", zap.String("workflow_id", workflowID))
	return workflowID, nil
}
