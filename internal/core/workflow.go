package core

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Workflow is the declarative CI plan: the triggers that start a run,
// the environment passed uniformly to every job, and the job families
// with their axes and step templates.
type Workflow struct {
	Name     string            `yaml:"name"`
	On       TriggerRules      `yaml:"on"`
	Env      map[string]string `yaml:"env,omitempty"`
	Families []FamilySpec      `yaml:"jobs"`
}

// FamilySpec declares one job family. Axes are per family: families may
// use different value sets or omit an axis entirely.
type FamilySpec struct {
	Name  string `yaml:"name"`
	Axes  []Axis `yaml:"axes,omitempty"`
	Steps []Step `yaml:"steps"`

	// FailFast is parsed for completeness but must stay false: a
	// failing instance never cancels its siblings.
	FailFast bool `yaml:"fail_fast,omitempty"`
}

// ParseWorkflow parses YAML content into a Workflow and validates it.
func ParseWorkflow(data []byte) (*Workflow, error) {
	var wf Workflow
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("parse workflow: %w", err)
	}
	if err := wf.Validate(); err != nil {
		return nil, err
	}
	return &wf, nil
}

// LoadWorkflow reads a workflow YAML file.
func LoadWorkflow(path string) (*Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflow: %w", err)
	}
	return ParseWorkflow(data)
}

// Validate checks structural requirements on the workflow.
func (w *Workflow) Validate() error {
	if len(w.Families) == 0 {
		return fmt.Errorf("workflow %q: no job families declared", w.Name)
	}
	seen := make(map[string]bool)
	for _, fam := range w.Families {
		if fam.Name == "" {
			return fmt.Errorf("workflow %q: job family with empty name", w.Name)
		}
		if seen[fam.Name] {
			return fmt.Errorf("workflow %q: duplicate job family %q", w.Name, fam.Name)
		}
		seen[fam.Name] = true
		if fam.FailFast {
			return fmt.Errorf("job family %q: fail_fast is not supported", fam.Name)
		}
		if len(fam.Steps) == 0 {
			return fmt.Errorf("job family %q: no steps declared", fam.Name)
		}
		for _, axis := range fam.Axes {
			if axis.Name == "" {
				return fmt.Errorf("job family %q: axis with empty name", fam.Name)
			}
			if len(axis.Values) == 0 {
				return fmt.Errorf("job family %q: axis %q has no values", fam.Name, axis.Name)
			}
		}
	}
	if _, err := NewEvaluator(w.On); err != nil {
		return err
	}
	return nil
}

// Instances expands one family into its job instances: the full
// cross-product of the declared axes, each with the family's steps
// rendered against that tuple. Expansion is pure, so the same family
// always expands to the same instance identities.
func (f FamilySpec) Instances() []*JobInstance {
	tuples := Expand(f.Axes)
	instances := make([]*JobInstance, 0, len(tuples))
	for _, tuple := range tuples {
		steps := make([]Step, len(f.Steps))
		for i, step := range f.Steps {
			steps[i] = step.render(tuple)
		}
		instances = append(instances, &JobInstance{
			Family:  f.Name,
			Tuple:   tuple,
			Steps:   steps,
			Outcome: OutcomePending,
		})
	}
	return instances
}

// render substitutes ${axis} references in the step command and env
// with the tuple's values. Unknown references are left untouched so
// genuine shell variables pass through.
func (s Step) render(tuple Tuple) Step {
	expand := func(in string) string {
		return os.Expand(in, func(name string) string {
			if v := tuple.Value(name); v != "" {
				return v
			}
			return "${" + name + "}"
		})
	}

	out := s
	out.Run = expand(s.Run)
	if len(s.Env) > 0 {
		out.Env = make(map[string]string, len(s.Env))
		for k, v := range s.Env {
			out.Env[k] = expand(v)
		}
	}
	return out
}
