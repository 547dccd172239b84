package core

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"time"
)

// Executor runs steps (commands) inside an instance's working
// directory.
type Executor struct{}

func NewExecutor() *Executor {
	return &Executor{}
}

// RunStep executes a single step and returns its combined output plus
// error. The step runs in a shell (sh -c "cmd") inside dir, with the
// run-wide env and the step's own env merged over the process
// environment.
func (e *Executor) RunStep(ctx context.Context, step Step, dir string, env map[string]string, timeout time.Duration) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", step.Run)
	cmd.Dir = dir
	cmd.Env = mergeEnv(env, step.Env)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	if err != nil && ctx.Err() == context.DeadlineExceeded {
		err = fmt.Errorf("step %q timed out after %s", step.Name, timeout)
	}
	return out.String(), err
}

// mergeEnv layers the run env then the step env over the process
// environment, sorted for stable ordering in logs.
func mergeEnv(runEnv, stepEnv map[string]string) []string {
	merged := os.Environ()

	overlay := make(map[string]string, len(runEnv)+len(stepEnv))
	for k, v := range runEnv {
		overlay[k] = v
	}
	for k, v := range stepEnv {
		overlay[k] = v
	}

	keys := make([]string, 0, len(overlay))
	for k := range overlay {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		merged = append(merged, k+"="+overlay[k])
	}
	return merged
}
