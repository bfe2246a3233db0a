package workflow

import (
	"testing"

	"github.com/congress-network/congressx/pkg/pipeline/activity"
	"github.com/congress-network/congressx/pkg/pipeline/types"
	"github.com/congress-network/congressx/pkg/temporal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"
)

func newTestContext() (*Context, *activity.Context) {
	activityCtx := &activity.Context{}
	return &Context{
		TemporalClient:  &temporal.Client{IngestQueue: "ingest", OpsQueue: "ops"},
		ActivityContext: activityCtx,
	}, activityCtx
}

func passingValidation() types.ValidateAllOutput {
	return types.ValidateAllOutput{
		AllPassed: true,
		RunID:     "run-1",
		Results: []types.ValidateOutput{
			{Table: "members", Suite: "member_suite", Success: true, Passed: 10},
			{Table: "committees", Suite: "committee_suite", Success: true, Passed: 4},
		},
	}
}

func failingValidation() types.ValidateAllOutput {
	return types.ValidateAllOutput{
		AllPassed: false,
		RunID:     "run-2",
		Results: []types.ValidateOutput{
			{Table: "members", Suite: "member_suite", Success: false, Passed: 8, Failed: 2},
		},
	}
}

func TestValidationJobTriggersPromotionWhenAllPass(t *testing.T) {
	suite := testsuite.WorkflowTestSuite{}
	env := suite.NewTestWorkflowEnvironment()
	wfCtx, activityCtx := newTestContext()

	env.RegisterWorkflow(wfCtx.ValidationJobWorkflow)
	env.RegisterActivity(activityCtx.ValidateAll)
	env.RegisterActivity(activityCtx.StartPromotionRun)

	env.OnActivity(activityCtx.ValidateAll, mock.Anything, mock.Anything).
		Return(passingValidation(), nil)
	env.OnActivity(activityCtx.StartPromotionRun, mock.Anything,
		types.PromotionSensorInput{ValidationRunID: "run-1"}).
		Return("promotion_run-1", nil).Once()

	env.ExecuteWorkflow(wfCtx.ValidationJobWorkflow, types.IngestInput{})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out types.ValidateAllOutput
	require.NoError(t, env.GetWorkflowResult(&out))
	require.True(t, out.AllPassed)
	env.AssertExpectations(t)
}

func TestValidationJobSkipsPromotionOnFailure(t *testing.T) {
	suite := testsuite.WorkflowTestSuite{}
	env := suite.NewTestWorkflowEnvironment()
	wfCtx, activityCtx := newTestContext()

	env.RegisterWorkflow(wfCtx.ValidationJobWorkflow)
	env.RegisterActivity(activityCtx.ValidateAll)
	env.RegisterActivity(activityCtx.StartPromotionRun)

	env.OnActivity(activityCtx.ValidateAll, mock.Anything, mock.Anything).
		Return(failingValidation(), nil)

	env.ExecuteWorkflow(wfCtx.ValidationJobWorkflow, types.IngestInput{})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	env.AssertNotCalled(t, "StartPromotionRun", mock.Anything, mock.Anything)
}

func TestPromotionJobRefusesWhenValidationFails(t *testing.T) {
	suite := testsuite.WorkflowTestSuite{}
	env := suite.NewTestWorkflowEnvironment()
	wfCtx, activityCtx := newTestContext()

	env.RegisterWorkflow(wfCtx.PromotionJobWorkflow)
	env.RegisterActivity(activityCtx.ValidateAll)
	env.RegisterActivity(activityCtx.PromoteAll)

	env.OnActivity(activityCtx.ValidateAll, mock.Anything, mock.Anything).
		Return(failingValidation(), nil)

	env.ExecuteWorkflow(wfCtx.PromotionJobWorkflow, types.PromotionSensorInput{ValidationRunID: "run-2"})

	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
	env.AssertNotCalled(t, "PromoteAll", mock.Anything, mock.Anything)
}

func TestPromotionJobPromotesWhenValidationPasses(t *testing.T) {
	suite := testsuite.WorkflowTestSuite{}
	env := suite.NewTestWorkflowEnvironment()
	wfCtx, activityCtx := newTestContext()

	env.RegisterWorkflow(wfCtx.PromotionJobWorkflow)
	env.RegisterActivity(activityCtx.ValidateAll)
	env.RegisterActivity(activityCtx.PromoteAll)

	env.OnActivity(activityCtx.ValidateAll, mock.Anything, mock.Anything).
		Return(passingValidation(), nil)
	env.OnActivity(activityCtx.PromoteAll, mock.Anything, mock.Anything).
		Return(types.PromoteAllOutput{Promotions: []types.PromoteOutput{
			{Table: "members", Version: "v20250708", Rows: 535},
		}}, nil).Once()

	env.ExecuteWorkflow(wfCtx.PromotionJobWorkflow, types.PromotionSensorInput{ValidationRunID: "run-1"})

	require.NoError(t, env.GetWorkflowError())
	var out types.PromoteAllOutput
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Len(t, out.Promotions, 1)
	require.Equal(t, int64(535), out.Promotions[0].Rows)
	env.AssertExpectations(t)
}

func TestFullPipelineStopsBeforePromotionOnFailure(t *testing.T) {
	suite := testsuite.WorkflowTestSuite{}
	env := suite.NewTestWorkflowEnvironment()
	wfCtx, activityCtx := newTestContext()

	env.RegisterWorkflow(wfCtx.FullPipelineWorkflow)
	env.RegisterActivity(activityCtx.IngestMembers)
	env.RegisterActivity(activityCtx.IngestCommittees)
	env.RegisterActivity(activityCtx.IngestHearings)
	env.RegisterActivity(activityCtx.PopulateRelationships)
	env.RegisterActivity(activityCtx.Reconcile)
	env.RegisterActivity(activityCtx.ValidateAll)
	env.RegisterActivity(activityCtx.PromoteAll)

	env.OnActivity(activityCtx.IngestMembers, mock.Anything, mock.Anything).
		Return(types.IngestOutput{Entity: "members", Fetched: 535}, nil)
	env.OnActivity(activityCtx.IngestCommittees, mock.Anything, mock.Anything).
		Return(types.IngestOutput{Entity: "committees", Fetched: 43}, nil)
	env.OnActivity(activityCtx.IngestHearings, mock.Anything, mock.Anything).
		Return(types.IngestOutput{Entity: "hearings", Fetched: 120}, nil)
	env.OnActivity(activityCtx.PopulateRelationships, mock.Anything, mock.Anything).
		Return(types.RelateOutput{Memberships: 900}, nil)
	env.OnActivity(activityCtx.Reconcile, mock.Anything, mock.Anything).
		Return(types.ReconcileOutput{Renamed: 1}, nil)
	env.OnActivity(activityCtx.ValidateAll, mock.Anything, mock.Anything).
		Return(failingValidation(), nil)

	env.ExecuteWorkflow(wfCtx.FullPipelineWorkflow, types.IngestInput{})

	require.NoError(t, env.GetWorkflowError())
	var out types.FullPipelineOutput
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Nil(t, out.Promotion)
	require.Equal(t, 535, out.Members.Fetched)
	env.AssertNotCalled(t, "PromoteAll", mock.Anything, mock.Anything)
}

func TestFreshnessSensorRequestsValidationWhenFresh(t *testing.T) {
	suite := testsuite.WorkflowTestSuite{}
	env := suite.NewTestWorkflowEnvironment()
	wfCtx, activityCtx := newTestContext()

	env.RegisterWorkflow(wfCtx.FreshnessSensorWorkflow)
	env.RegisterActivity(activityCtx.CheckFreshness)
	env.RegisterActivity(activityCtx.StartValidationRun)
	env.RegisterActivity(activityCtx.StartIngestRun)

	env.OnActivity(activityCtx.CheckFreshness, mock.Anything, mock.Anything).
		Return(types.FreshnessOutput{Fresh: true, AgeSeconds: 60}, nil)
	env.OnActivity(activityCtx.StartValidationRun, mock.Anything, mock.Anything).
		Return("freshness_all_1721901600", nil).Once()

	env.ExecuteWorkflow(wfCtx.FreshnessSensorWorkflow, types.IngestInput{})

	require.NoError(t, env.GetWorkflowError())
	env.AssertNotCalled(t, "StartIngestRun", mock.Anything, mock.Anything)
	env.AssertExpectations(t)
}

func TestFreshnessSensorStartsIngestWhenStale(t *testing.T) {
	suite := testsuite.WorkflowTestSuite{}
	env := suite.NewTestWorkflowEnvironment()
	wfCtx, activityCtx := newTestContext()

	env.RegisterWorkflow(wfCtx.FreshnessSensorWorkflow)
	env.RegisterActivity(activityCtx.CheckFreshness)
	env.RegisterActivity(activityCtx.StartValidationRun)
	env.RegisterActivity(activityCtx.StartIngestRun)

	env.OnActivity(activityCtx.CheckFreshness, mock.Anything, mock.Anything).
		Return(types.FreshnessOutput{Fresh: false, AgeSeconds: 7200}, nil)
	env.OnActivity(activityCtx.StartIngestRun, mock.Anything, mock.Anything).
		Return("stale_all_1721901600", nil).Once()

	env.ExecuteWorkflow(wfCtx.FreshnessSensorWorkflow, types.IngestInput{})

	require.NoError(t, env.GetWorkflowError())
	env.AssertNotCalled(t, "StartValidationRun", mock.Anything, mock.Anything)
	env.AssertExpectations(t)
}
