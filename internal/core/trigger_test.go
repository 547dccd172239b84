package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRules() TriggerRules {
	return TriggerRules{
		PullRequest: true,
		Push:        []string{"main"},
		Schedule:    "0 0 */2 * *",
	}
}

func TestEvaluatorAccepts(t *testing.T) {
	eval, err := NewEvaluator(testRules())
	require.NoError(t, err)

	midnightDay3 := time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		event  Event
		accept bool
	}{
		{"PullRequestAnyBranch", Event{Kind: EventPullRequest, Branch: "feature/x"}, true},
		{"PullRequestNoBranch", Event{Kind: EventPullRequest}, true},
		{"PushToMain", Event{Kind: EventPush, Branch: "main"}, true},
		{"PushToFeatureBranch", Event{Kind: EventPush, Branch: "feature/x"}, false},
		{"ScheduleOnCadence", Event{Kind: EventSchedule, OccurredAt: midnightDay3}, true},
		{"ScheduleOffCadenceDay", Event{Kind: EventSchedule, OccurredAt: midnightDay3.AddDate(0, 0, 1)}, false},
		{"ScheduleOffCadenceMinute", Event{Kind: EventSchedule, OccurredAt: midnightDay3.Add(time.Minute)}, false},
		{"UnrelatedEventKind", Event{Kind: "issue_comment"}, false},
		{"EmptyEventKind", Event{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.accept, eval.Accepts(tc.event))
		})
	}
}

func TestEvaluatorWithoutSchedule(t *testing.T) {
	eval, err := NewEvaluator(TriggerRules{PullRequest: true})
	require.NoError(t, err)

	assert.False(t, eval.Accepts(Event{Kind: EventSchedule, OccurredAt: time.Now()}))
	assert.False(t, eval.Accepts(Event{Kind: EventPush, Branch: "main"}))
	assert.True(t, eval.Accepts(Event{Kind: EventPullRequest}))
}

func TestNewEvaluatorRejectsBadCadence(t *testing.T) {
	_, err := NewEvaluator(TriggerRules{Schedule: "not a cron"})
	require.Error(t, err)
}
