package core

import (
	"fmt"
	"time"
)

// Outcome is the lifecycle state of an instance or step.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeSuccess
	OutcomeFailure
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "pending"
	}
}

// Step is a single command to execute inside a job instance.
type Step struct {
	Name string            `yaml:"name"`
	Run  string            `yaml:"run"`  // command, run via sh -c
	Env  map[string]string `yaml:"env,omitempty"`

	// KeepGoing marks a checkpoint step: it still runs even if an
	// earlier step in the same instance already failed. Steps without
	// it are skipped once the instance is failing.
	KeepGoing bool `yaml:"keep_going,omitempty"`
}

// StepResult records one executed (or skipped) step.
type StepResult struct {
	Name     string        `json:"name"`
	Outcome  Outcome       `json:"-"`
	Status   string        `json:"status"`
	Output   string        `json:"-"`
	LogPath  string        `json:"logPath,omitempty"`
	Reason   string        `json:"reason,omitempty"`
	Duration time.Duration `json:"duration"`
}

// JobInstance is one concrete (family, axis-value-tuple) execution unit.
// Instances are created at matrix expansion time, mutated only by their
// own step execution, and discarded at run end.
type JobInstance struct {
	Family  string
	Tuple   Tuple
	Steps   []Step
	Results []StepResult
	Outcome Outcome
}

// ID is the deterministic identity of the instance. Re-expanding the
// same workflow yields the same IDs.
func (ji *JobInstance) ID() string {
	if len(ji.Tuple) == 0 {
		return ji.Family
	}
	return fmt.Sprintf("%s/%s", ji.Family, ji.Tuple.Slug())
}

// FailureReason returns the first failing step's reason, for reporting.
func (ji *JobInstance) FailureReason() string {
	for _, res := range ji.Results {
		if res.Outcome == OutcomeFailure {
			return fmt.Sprintf("step %q: %s", res.Name, res.Reason)
		}
	}
	return ""
}
