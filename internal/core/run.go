package core

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Snapshot is the read-only source checkout a run executes against.
// Every instance receives its own copy of Dir; no instance may mutate
// state visible to another.
type Snapshot struct {
	Revision string
	Dir      string
}

// Run is one full invocation of the CI plan, triggered by a single
// qualifying event. It owns the snapshot revision and every spawned
// instance.
type Run struct {
	ID        string
	Event     Event
	Revision  string
	CreatedAt time.Time
	Env       map[string]string
	Instances []*JobInstance

	// mu guards instance outcome publication. Instances are only
	// mutated by their own execution goroutine and become visible to
	// readers in one piece when they finish.
	mu sync.RWMutex
}

// NewRun binds one run to a qualifying event: every family in the
// workflow expands its own matrix, and all resulting instances belong
// to this run. Instance identities depend only on the workflow, so
// re-instantiating against an unchanged plan yields the same set.
func NewRun(wf *Workflow, ev Event) *Run {
	run := &Run{
		ID:        uuid.New().String(),
		Event:     ev,
		Revision:  ev.Revision,
		CreatedAt: time.Now().UTC(),
		Env:       wf.Env,
	}
	for _, fam := range wf.Families {
		run.Instances = append(run.Instances, fam.Instances()...)
	}
	return run
}

// publish makes a finished instance's results visible.
func (r *Run) publish(ji *JobInstance, results []StepResult, outcome Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ji.Results = results
	ji.Outcome = outcome
}

// Verdict reduces every instance outcome into the run verdict: success
// only if every instance succeeded. Any pending instance keeps the run
// pending, since the aggregator must wait for all instances regardless
// of early failures.
func (r *Run) Verdict() Outcome {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.verdictLocked()
}

func (r *Run) verdictLocked() Outcome {
	verdict := OutcomeSuccess
	for _, ji := range r.Instances {
		switch ji.Outcome {
		case OutcomeFailure:
			return OutcomeFailure
		case OutcomePending:
			verdict = OutcomePending
		}
	}
	return verdict
}

// InstanceFailure is one entry of the failure surface.
type InstanceFailure struct {
	Instance string `json:"instance"`
	Reason   string `json:"reason"`
}

// Failures returns every failed instance with its failing step, so one
// run surfaces all independent failures at once instead of stopping at
// the first break.
func (r *Run) Failures() []InstanceFailure {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.failuresLocked()
}

func (r *Run) failuresLocked() []InstanceFailure {
	var out []InstanceFailure
	for _, ji := range r.Instances {
		if ji.Outcome == OutcomeFailure {
			out = append(out, InstanceFailure{
				Instance: ji.ID(),
				Reason:   ji.FailureReason(),
			})
		}
	}
	return out
}

// Instance returns the instance with the given identity, or nil.
func (r *Run) Instance(id string) *JobInstance {
	for _, ji := range r.Instances {
		if ji.ID() == id {
			return ji
		}
	}
	return nil
}

// RunReport is the read-only view of a run for APIs and the CLI.
type RunReport struct {
	ID        string            `json:"id"`
	Kind      string            `json:"kind"`
	Revision  string            `json:"revision"`
	CreatedAt time.Time         `json:"createdAt"`
	Verdict   string            `json:"verdict"`
	Instances []InstanceReport  `json:"instances"`
	Failures  []InstanceFailure `json:"failures,omitempty"`
}

// InstanceReport is one instance inside a RunReport.
type InstanceReport struct {
	ID     string       `json:"id"`
	Family string       `json:"family"`
	Status string       `json:"status"`
	Steps  []StepResult `json:"steps,omitempty"`
}

// Report takes a consistent snapshot of the run's state.
func (r *Run) Report() RunReport {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rep := RunReport{
		ID:        r.ID,
		Kind:      string(r.Event.Kind),
		Revision:  r.Revision,
		CreatedAt: r.CreatedAt,
		Verdict:   r.verdictLocked().String(),
		Failures:  r.failuresLocked(),
	}
	for _, ji := range r.Instances {
		rep.Instances = append(rep.Instances, InstanceReport{
			ID:     ji.ID(),
			Family: ji.Family,
			Status: ji.Outcome.String(),
			Steps:  append([]StepResult(nil), ji.Results...),
		})
	}
	return rep
}

// Summary is a one-line human description of the run state.
func (r *Run) Summary() string {
	return fmt.Sprintf("run %s: %d instances, %d failed, verdict %s",
		r.ID, len(r.Instances), len(r.Failures()), r.Verdict())
}
