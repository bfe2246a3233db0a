// Package ingestor is the pipeline worker: it hosts the ingest and ops
// task queues and keeps the standing schedules registered.
package ingestor

import (
	"context"
	"errors"
	"time"

	"github.com/congress-network/congressx/pkg/config"
	"github.com/congress-network/congressx/pkg/congress"
	"github.com/congress-network/congressx/pkg/db/postgres"
	"github.com/congress-network/congressx/pkg/db/production"
	"github.com/congress-network/congressx/pkg/db/staging"
	"github.com/congress-network/congressx/pkg/expect"
	"github.com/congress-network/congressx/pkg/logging"
	"github.com/congress-network/congressx/pkg/pipeline/activity"
	"github.com/congress-network/congressx/pkg/pipeline/types"
	"github.com/congress-network/congressx/pkg/pipeline/workflow"
	"github.com/congress-network/congressx/pkg/reconcile"
	"github.com/congress-network/congressx/pkg/redis"
	"github.com/congress-network/congressx/pkg/relate"
	"github.com/congress-network/congressx/pkg/resolve"
	"github.com/congress-network/congressx/pkg/scrape"
	"github.com/congress-network/congressx/pkg/temporal"
	"github.com/congress-network/congressx/pkg/utils"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	temporalworkflow "go.temporal.io/sdk/workflow"
	"go.uber.org/zap"
)

type App struct {
	IngestWorker   worker.Worker
	OpsWorker      worker.Worker
	TemporalClient *temporal.Client
	DB             postgres.Client
	Logger         *zap.Logger
}

// Start starts both workers and blocks until the context is canceled.
func (a *App) Start(ctx context.Context) {
	if err := a.IngestWorker.Start(); err != nil {
		a.Logger.Fatal("Unable to start ingest worker", zap.Error(err))
	}
	if err := a.OpsWorker.Start(); err != nil {
		a.Logger.Fatal("Unable to start ops worker", zap.Error(err))
	}
	<-ctx.Done()
	a.Stop()
}

// Stop stops the workers.
func (a *App) Stop() {
	a.IngestWorker.Stop()
	a.OpsWorker.Stop()
	a.DB.Close()
	time.Sleep(200 * time.Millisecond)
	a.Logger.Info("Worker stopped")
}

// Initialize wires the full pipeline and registers workflows, activities
// and schedules.
func Initialize(ctx context.Context) *App {
	logger, err := logging.New("ingestor")
	if err != nil {
		panic(err)
	}

	cfg := config.FromEnv()
	if err := cfg.RequireDatabase(); err != nil {
		logger.Fatal("Configuration invalid", zap.Error(err))
	}
	if err := cfg.RequireAPIKey(); err != nil {
		logger.Fatal("Configuration invalid", zap.Error(err))
	}

	db, err := postgres.New(ctx, logger, cfg.DatabaseURL, postgres.GetPoolConfigForComponent("ingestor"))
	if err != nil {
		logger.Fatal("Unable to connect to database", zap.Error(err))
	}

	stagingStore := staging.New(&db, cfg.StagingSchema, cfg.CongressNumber, logger)
	if err := stagingStore.InitSchema(ctx); err != nil {
		logger.Fatal("Unable to initialize staging schema", zap.Error(err))
	}

	engine := production.NewEngine(&db, cfg.StagingSchema, cfg.ProductionSchema, cfg.SchemaVersion, cfg.VersionsToKeep, logger)
	if err := engine.InitTables(ctx); err != nil {
		logger.Fatal("Unable to initialize production tables", zap.Error(err))
	}

	resolver := resolve.New(stagingStore, logger)
	resolver.MatchThreshold = cfg.FuzzyMatchThreshold
	resolver.SimplifiedThreshold = cfg.FuzzySimplifiedThreshold

	congressClient, err := congress.NewClient(congress.Opts{
		BaseURL:      cfg.CongressAPIBaseURL,
		APIKey:       cfg.CongressAPIKey,
		DailyQuota:   cfg.DailyQuota,
		RequestDelay: cfg.RequestDelay,
		Logger:       logger,
	})
	if err != nil {
		logger.Fatal("Unable to build congress.gov client", zap.Error(err))
	}

	scrapeOpts := scrape.Opts{Delay: cfg.ScrapeDelay, Timeout: cfg.ScrapeTimeout, Logger: logger}
	house := scrape.NewHouseScraper(scrapeOpts)
	senate := scrape.NewSenateScraper(scrapeOpts)

	populator := relate.NewPopulator(stagingStore, resolver, congressClient, logger)
	populator.MaxConcurrent = cfg.MaxConcurrent
	populator.MinParentOverlap = cfg.HierarchyWordOverlap

	suites, err := expect.LoadSuites(utils.Env("VALIDATION_SUITES_PATH", ""))
	if err != nil {
		logger.Fatal("Unable to load validation suites", zap.Error(err))
	}
	runner := expect.NewRunner(&db, engine, cfg.StagingSchema, suites, logger)
	runner.MaxConcurrent = cfg.MaxConcurrent

	// The catalog drives reconciliation; the encyclopedic snapshot only
	// adds named leadership, so a missing file is not fatal.
	wikiData, err := reconcile.LoadWikipediaData(cfg.WikipediaDataPath)
	if err != nil {
		logger.Warn("Reference snapshot unavailable, reconciling without named leadership",
			zap.String("path", cfg.WikipediaDataPath), zap.Error(err))
		wikiData = reconcile.WikipediaData{}
	}
	reconciler := reconcile.NewReconciler(stagingStore, engine, resolver, wikiData, logger)
	reconciler.RenameThreshold = cfg.FuzzyMatchThreshold

	var events *redis.Client
	if utils.EnvBool("REDIS_ENABLED", false) {
		events, err = redis.NewClient(ctx, logger)
		if err != nil {
			logger.Warn("Redis unavailable, events disabled", zap.Error(err))
			events = nil
		}
	}
	if events != nil {
		runner.Publisher = events
	}

	temporalClient, err := temporal.NewClient(ctx, logger)
	if err != nil {
		logger.Fatal("Unable to establish temporal connection", zap.Error(err))
	}

	activityContext := &activity.Context{
		Logger:     logger,
		Config:     cfg,
		DB:         &db,
		Staging:    stagingStore,
		Production: engine,
		Resolver:   resolver,
		Congress:   congressClient,
		House:      house,
		Senate:     senate,
		Populator:  populator,
		Runner:     runner,
		Reconciler: reconciler,
		Events:     events,
		Temporal:   temporalClient,
	}
	workflowContext := workflow.Context{
		TemporalClient:  temporalClient,
		ActivityContext: activityContext,
	}

	ingestWorker := worker.New(
		temporalClient.TClient,
		temporalClient.IngestQueue,
		worker.Options{
			MaxConcurrentActivityExecutionSize: cfg.MaxConcurrent,
			WorkerStopTimeout:                  1 * time.Minute,
		},
	)
	ingestWorker.RegisterWorkflowWithOptions(
		workflowContext.IngestJobWorkflow,
		temporalworkflow.RegisterOptions{Name: workflow.IngestJobWorkflowName},
	)
	ingestWorker.RegisterWorkflowWithOptions(
		workflowContext.FullPipelineWorkflow,
		temporalworkflow.RegisterOptions{Name: workflow.FullPipelineWorkflowName},
	)
	ingestWorker.RegisterActivity(activityContext.IngestMembers)
	ingestWorker.RegisterActivity(activityContext.IngestCommittees)
	ingestWorker.RegisterActivity(activityContext.IngestHearings)
	ingestWorker.RegisterActivity(activityContext.PopulateRelationships)
	ingestWorker.RegisterActivity(activityContext.Reconcile)
	ingestWorker.RegisterActivity(activityContext.ValidateAll)
	ingestWorker.RegisterActivity(activityContext.PromoteAll)

	opsWorker := worker.New(
		temporalClient.TClient,
		temporalClient.OpsQueue,
		worker.Options{
			MaxConcurrentWorkflowTaskPollers: 5,
			MaxConcurrentActivityTaskPollers: 5,
			WorkerStopTimeout:                1 * time.Minute,
		},
	)
	opsWorker.RegisterWorkflowWithOptions(
		workflowContext.ValidationJobWorkflow,
		temporalworkflow.RegisterOptions{Name: workflow.ValidationJobWorkflowName},
	)
	opsWorker.RegisterWorkflowWithOptions(
		workflowContext.ValidateTableWorkflow,
		temporalworkflow.RegisterOptions{Name: workflow.ValidateTableWorkflowName},
	)
	opsWorker.RegisterWorkflowWithOptions(
		workflowContext.PromotionJobWorkflow,
		temporalworkflow.RegisterOptions{Name: workflow.PromotionJobWorkflowName},
	)
	opsWorker.RegisterWorkflowWithOptions(
		workflowContext.PromoteTableWorkflow,
		temporalworkflow.RegisterOptions{Name: workflow.PromoteTableWorkflowName},
	)
	opsWorker.RegisterWorkflowWithOptions(
		workflowContext.FreshnessSensorWorkflow,
		temporalworkflow.RegisterOptions{Name: workflow.FreshnessSensorWorkflowName},
	)
	opsWorker.RegisterWorkflowWithOptions(
		workflowContext.VersionCleanupWorkflow,
		temporalworkflow.RegisterOptions{Name: workflow.CleanupWorkflowName},
	)
	opsWorker.RegisterActivity(activityContext.ValidateTable)
	opsWorker.RegisterActivity(activityContext.ValidateAll)
	opsWorker.RegisterActivity(activityContext.PromoteTable)
	opsWorker.RegisterActivity(activityContext.PromoteAll)
	opsWorker.RegisterActivity(activityContext.CheckFreshness)
	opsWorker.RegisterActivity(activityContext.CleanupVersions)
	opsWorker.RegisterActivity(activityContext.StartPromotionRun)
	opsWorker.RegisterActivity(activityContext.StartValidationRun)
	opsWorker.RegisterActivity(activityContext.StartIngestRun)

	app := &App{
		IngestWorker:   ingestWorker,
		OpsWorker:      opsWorker,
		TemporalClient: temporalClient,
		DB:             db,
		Logger:         logger,
	}

	if err := app.ensureSchedules(ctx); err != nil {
		logger.Fatal("Unable to ensure schedules", zap.Error(err))
	}

	return app
}

// ensureSchedules registers the three standing schedules, skipping any
// that already exist.
func (a *App) ensureSchedules(ctx context.Context) error {
	schedules := []struct {
		id       string
		cron     string
		workflow string
	}{
		{a.TemporalClient.DailyValidationScheduleID, temporal.DailyValidationCron, workflow.ValidationJobWorkflowName},
		{a.TemporalClient.HourlyFreshnessScheduleID, temporal.HourlyFreshnessCron, workflow.FreshnessSensorWorkflowName},
		{a.TemporalClient.WeeklyCleanupScheduleID, temporal.WeeklyCleanupCron, workflow.CleanupWorkflowName},
	}

	for _, s := range schedules {
		if err := a.ensureSchedule(ctx, s.id, s.cron, s.workflow); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) ensureSchedule(ctx context.Context, id, cron, workflowName string) error {
	h := a.TemporalClient.TSClient.GetHandle(ctx, id)
	_, err := h.Describe(ctx)
	if err == nil {
		a.Logger.Info("Schedule already exists",
			zap.String("id", id),
			zap.String("namespace", a.TemporalClient.Namespace))
		return nil
	}

	var notFound *serviceerror.NotFound
	if errors.As(err, &notFound) {
		a.Logger.Info("Creating schedule",
			zap.String("id", id),
			zap.String("cron", cron))
		_, scheduleErr := a.TemporalClient.TSClient.Create(
			ctx, client.ScheduleOptions{
				ID:   id,
				Spec: a.TemporalClient.CronSpec(cron),
				Action: &client.ScheduleWorkflowAction{
					Workflow:                 workflowName,
					Args:                     []interface{}{types.IngestInput{}},
					TaskQueue:                a.TemporalClient.OpsQueue,
					WorkflowExecutionTimeout: 10 * time.Minute,
					WorkflowTaskTimeout:      2 * time.Minute,
				},
			},
		)
		return scheduleErr
	}
	return err
}
