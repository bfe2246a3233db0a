// Package workflow defines the pipeline's Temporal workflows: ingestion,
// validation, promotion, the full pipeline and the two sensors.
package workflow

import (
	"time"

	"github.com/congress-network/congressx/pkg/pipeline/activity"
	"github.com/congress-network/congressx/pkg/temporal"
	sdktemporal "go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// Registered workflow names. Sensors start jobs by name so the two sides
// only share strings.
const (
	IngestJobWorkflowName       = "IngestJobWorkflow"
	ValidationJobWorkflowName   = "ValidationJobWorkflow"
	ValidateTableWorkflowName   = "ValidateTableWorkflow"
	PromotionJobWorkflowName    = "PromotionJobWorkflow"
	PromoteTableWorkflowName    = "PromoteTableWorkflow"
	FullPipelineWorkflowName    = "FullPipelineWorkflow"
	FreshnessSensorWorkflowName = "FreshnessSensorWorkflow"
	CleanupWorkflowName         = "VersionCleanupWorkflow"
)

type Context struct {
	TemporalClient  *temporal.Client
	ActivityContext *activity.Context
}

// withDefaultOptions applies the standard activity options: generous
// timeouts for database-heavy work, bounded retries with backoff.
func withDefaultOptions(ctx workflow.Context) workflow.Context {
	info := workflow.GetInfo(ctx)
	return workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Minute,
		RetryPolicy: &sdktemporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    30 * time.Second,
			MaximumAttempts:    5,
		},
		TaskQueue: info.TaskQueueName,
	})
}

// withIngestOptions allows long-running ingestion activities to ride out
// the upstream rate limiter.
func withIngestOptions(ctx workflow.Context) workflow.Context {
	info := workflow.GetInfo(ctx)
	return workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: time.Hour,
		HeartbeatTimeout:    5 * time.Minute,
		RetryPolicy: &sdktemporal.RetryPolicy{
			InitialInterval:    5 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
		TaskQueue: info.TaskQueueName,
	})
}
