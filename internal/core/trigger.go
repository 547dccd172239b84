package core

import (
	"time"
)

// EventKind identifies the kind of event delivered to the trigger
// surface.
type EventKind string

const (
	EventPullRequest EventKind = "pull_request"
	EventPush        EventKind = "push"
	EventSchedule    EventKind = "schedule"
)

// Event is one incoming occurrence from the hosting event source.
// Events are immutable and consumed once by the evaluator.
type Event struct {
	Kind       EventKind `json:"kind"`
	Branch     string    `json:"branch,omitempty"` // push target branch
	Revision   string    `json:"revision"`
	OccurredAt time.Time `json:"occurredAt"`
}

// TriggerRules declares which events start a run.
type TriggerRules struct {
	PullRequest bool     `yaml:"pull_request"`
	Push        []string `yaml:"push"`     // branch names
	Schedule    string   `yaml:"schedule"` // cron cadence
}

// Evaluator decides start/ignore for incoming events. It is a pure
// predicate over event metadata: a mismatch is not an error, there is
// simply no run.
type Evaluator struct {
	rules TriggerRules
	cron  *CronExpr // nil when no schedule declared
}

// NewEvaluator compiles the trigger rules. The only possible error is a
// malformed schedule cadence.
func NewEvaluator(rules TriggerRules) (*Evaluator, error) {
	e := &Evaluator{rules: rules}
	if rules.Schedule != "" {
		c, err := ParseCron(rules.Schedule)
		if err != nil {
			return nil, err
		}
		e.cron = c
	}
	return e, nil
}

// Accepts reports whether the event qualifies to start a run.
func (e *Evaluator) Accepts(ev Event) bool {
	switch ev.Kind {
	case EventPullRequest:
		// Any target branch qualifies.
		return e.rules.PullRequest
	case EventPush:
		for _, branch := range e.rules.Push {
			if ev.Branch == branch {
				return true
			}
		}
		return false
	case EventSchedule:
		if e.cron == nil {
			return false
		}
		at := ev.OccurredAt
		if at.IsZero() {
			at = time.Now()
		}
		return e.cron.Matches(at)
	default:
		return false
	}
}
