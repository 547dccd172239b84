package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunMatrixShape(t *testing.T) {
	wf := DefaultWorkflow()

	// The trigger kind never alters the matrix shape.
	push := NewRun(wf, Event{Kind: EventPush, Branch: "main", Revision: "abc"})
	pr := NewRun(wf, Event{Kind: EventPullRequest, Revision: "abc"})

	require.Len(t, push.Instances, 16)
	require.Len(t, pr.Instances, 16)

	ids := func(r *Run) []string {
		var out []string
		for _, ji := range r.Instances {
			out = append(out, ji.ID())
		}
		return out
	}
	assert.Equal(t, ids(push), ids(pr))
	assert.Equal(t, "abc", push.Revision)
	assert.NotEqual(t, push.ID, pr.ID)
}

func TestRunVerdict(t *testing.T) {
	wf := &Workflow{
		Name: "v",
		Families: []FamilySpec{{
			Name:  "f",
			Axes:  []Axis{{Name: "n", Values: []string{"1", "2", "3"}}},
			Steps: []Step{{Name: "s", Run: "true"}},
		}},
	}
	run := NewRun(wf, Event{Kind: EventPush, Branch: "main"})
	require.Len(t, run.Instances, 3)

	assert.Equal(t, OutcomePending, run.Verdict())

	run.publish(run.Instances[0], nil, OutcomeSuccess)
	run.publish(run.Instances[1], nil, OutcomeSuccess)
	assert.Equal(t, OutcomePending, run.Verdict(),
		"the aggregator waits for every instance")

	run.publish(run.Instances[2], []StepResult{{
		Name:    "s",
		Outcome: OutcomeFailure,
		Status:  "failure",
		Reason:  "exit status 1",
	}}, OutcomeFailure)

	// One failing instance among N fails the run while the others keep
	// their individual outcomes.
	assert.Equal(t, OutcomeFailure, run.Verdict())
	assert.Equal(t, OutcomeSuccess, run.Instances[0].Outcome)

	failures := run.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "f/3", failures[0].Instance)
	assert.Contains(t, failures[0].Reason, "exit status 1")
}

func TestRunReport(t *testing.T) {
	wf := &Workflow{
		Name: "r",
		Families: []FamilySpec{{
			Name:  "f",
			Steps: []Step{{Name: "s", Run: "true"}},
		}},
	}
	run := NewRun(wf, Event{Kind: EventPullRequest, Revision: "deadbeef"})
	run.publish(run.Instances[0], []StepResult{{Name: "s", Outcome: OutcomeSuccess, Status: "success"}}, OutcomeSuccess)

	rep := run.Report()
	assert.Equal(t, run.ID, rep.ID)
	assert.Equal(t, "pull_request", rep.Kind)
	assert.Equal(t, "deadbeef", rep.Revision)
	assert.Equal(t, "success", rep.Verdict)
	require.Len(t, rep.Instances, 1)
	assert.Equal(t, "f", rep.Instances[0].ID)
	require.Len(t, rep.Instances[0].Steps, 1)
}
