// Package temporal wraps the Temporal SDK client with the queue names,
// schedule IDs and workflow ID formats the pipeline uses.
package temporal

import (
	"context"
	"fmt"
	"time"

	"github.com/congress-network/congressx/pkg/utils"
	"go.uber.org/zap"

	"go.temporal.io/api/enums/v1"
	taskqueuepb "go.temporal.io/api/taskqueue/v1"
	workflowservicepb "go.temporal.io/api/workflowservice/v1"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/log"
)

// Cron expressions for the standing schedules.
const (
	DailyValidationCron = "0 6 * * *"
	HourlyFreshnessCron = "0 * * * *"
	WeeklyCleanupCron   = "0 2 * * 0"
)

type Client struct {
	TClient   client.Client
	TSClient  client.ScheduleClient
	Namespace string

	// Task Queues
	IngestQueue string // ingest - ingestion, relationships and reconciliation
	OpsQueue    string // ops - validation, promotion, freshness and cleanup

	// Schedule IDs
	DailyValidationScheduleID string
	HourlyFreshnessScheduleID string
	WeeklyCleanupScheduleID   string

	// Workflow ID formats
	jobWorkflowID string
}

type Health struct {
	ConnectionOK bool                      `json:"connection_ok"`
	IngestQueue  []*taskqueuepb.PollerInfo `json:"ingest_queue"`
	OpsQueue     []*taskqueuepb.PollerInfo `json:"ops_queue"`
}

func NewClient(ctx context.Context, logger *zap.Logger) (*Client, error) {
	host := utils.Env("TEMPORAL_HOSTPORT", "localhost:7233")
	ns := utils.Env("TEMPORAL_NAMESPACE", "congressx")
	loggerWrapper := NewZapAdapter(logger)

	logger.Info("Connecting to Temporal", zap.String("host", host), zap.String("namespace", ns))
	tClient, err := Dial(ctx, host, ns, loggerWrapper)
	if err != nil {
		return nil, err
	}

	if _, err = tClient.CheckHealth(ctx, nil); err != nil {
		return nil, err
	}

	return &Client{
		TClient:   tClient,
		TSClient:  tClient.ScheduleClient(),
		Namespace: ns,
		// for now these are just hardcoded, could be configurable if we need it
		IngestQueue: "ingest",
		OpsQueue:    "ops",
		// schedule IDs
		DailyValidationScheduleID: "daily_validation",
		HourlyFreshnessScheduleID: "hourly_freshness",
		WeeklyCleanupScheduleID:   "weekly_cleanup",
		// workflow IDs
		jobWorkflowID: "%s_%s_%d",
	}, nil
}

// Dial connects to Temporal using the provided hostPort and namespace.
func Dial(ctx context.Context, hostPort, namespace string, logger log.Logger) (client.Client, error) {
	return client.DialContext(
		ctx,
		client.Options{
			HostPort:  hostPort,
			Namespace: namespace,
			Logger:    logger,
		},
	)
}

// GetJobWorkflowID builds a workflow ID from what triggered the run and
// the table it targets, e.g. "manual_members_1721901600".
func (c *Client) GetJobWorkflowID(trigger, table string) string {
	return fmt.Sprintf(c.jobWorkflowID, trigger, table, time.Now().Unix())
}

// GetPromotionRunID builds the dedup workflow ID for a sensor-triggered
// promotion. Temporal's workflow ID uniqueness makes reruns of the same
// validation run a no-op.
func (c *Client) GetPromotionRunID(validationRunID string) string {
	return "promotion_" + validationRunID
}

// CronSpec returns a schedule spec for a cron expression.
func (c *Client) CronSpec(expression string) client.ScheduleSpec {
	return client.ScheduleSpec{CronExpressions: []string{expression}}
}

// IntervalSpec returns a schedule spec for a fixed interval.
func (c *Client) IntervalSpec(interval time.Duration) client.ScheduleSpec {
	return client.ScheduleSpec{Intervals: []client.ScheduleIntervalSpec{{Every: interval}}}
}

// Health returns the health of the Temporal client.
func (c *Client) Health(ctx context.Context) (Health, error) {
	h := Health{ConnectionOK: true}
	ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	svc := c.TClient.WorkflowService()
	if svc != nil {
		if rep, err := svc.DescribeTaskQueue(ctx, &workflowservicepb.DescribeTaskQueueRequest{
			Namespace:     c.Namespace,
			TaskQueue:     &taskqueuepb.TaskQueue{Name: c.IngestQueue},
			TaskQueueType: enums.TASK_QUEUE_TYPE_WORKFLOW,
		}); err == nil {
			h.IngestQueue = rep.GetPollers()
		}
		if rep, err := svc.DescribeTaskQueue(ctx, &workflowservicepb.DescribeTaskQueueRequest{
			Namespace:     c.Namespace,
			TaskQueue:     &taskqueuepb.TaskQueue{Name: c.OpsQueue},
			TaskQueueType: enums.TASK_QUEUE_TYPE_WORKFLOW,
		}); err == nil {
			h.OpsQueue = rep.GetPollers()
		}
	}
	return h, nil
}
