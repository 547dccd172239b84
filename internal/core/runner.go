package core

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"matrixci/internal/ledger"
	"matrixci/internal/storage"
	"matrixci/pkg/utils"
)

// Runner executes a run: every instance in parallel, each in its own
// isolated copy of the source snapshot, with fail-fast disabled
// throughout. It ties together Executor + log storage + ledger.
type Runner struct {
	Executor    *Executor
	Logs        *storage.LogStorage
	Ledger      *ledger.Ledger // nil disables outcome recording
	PrivKey     ed25519.PrivateKey
	PubKey      ed25519.PublicKey
	StepTimeout time.Duration
	Logger      *zap.Logger
}

// NewRunner builds a runner. logger may be nil.
func NewRunner(logs *storage.LogStorage, led *ledger.Ledger, priv ed25519.PrivateKey, pub ed25519.PublicKey, stepTimeout time.Duration, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		Executor:    NewExecutor(),
		Logs:        logs,
		Ledger:      led,
		PrivKey:     priv,
		PubKey:      pub,
		StepTimeout: stepTimeout,
		Logger:      logger,
	}
}

// Execute runs every instance of the run against the snapshot and
// blocks until all of them finish. A failing instance never cancels
// its siblings, so the run always reports its complete failure
// surface. The returned error covers orchestration problems only; job
// failures are reflected in the run verdict.
func (r *Runner) Execute(ctx context.Context, run *Run, snap Snapshot) error {
	scratch, err := os.MkdirTemp("", "matrixci-run-")
	if err != nil {
		return fmt.Errorf("create run scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	r.Logger.Info("run started",
		zap.String("run_id", run.ID),
		zap.String("revision", run.Revision),
		zap.Int("instances", len(run.Instances)))

	var wg sync.WaitGroup
	for _, ji := range run.Instances {
		wg.Add(1)
		go func(ji *JobInstance) {
			defer wg.Done()
			r.runInstance(ctx, run, ji, snap, scratch)
		}(ji)
	}
	wg.Wait()

	verdict := run.Verdict()
	r.Logger.Info("run finished",
		zap.String("run_id", run.ID),
		zap.String("verdict", verdict.String()),
		zap.Int("failed", len(run.Failures())))
	return nil
}

// runInstance executes the instance's steps strictly in declared
// order. A failing step aborts only this instance; checkpoint steps
// marked keep_going still run afterwards, and the instance's final
// status is the worst outcome among its steps.
func (r *Runner) runInstance(ctx context.Context, run *Run, ji *JobInstance, snap Snapshot, scratch string) {
	log := r.Logger.With(
		zap.String("run_id", run.ID),
		zap.String("instance", ji.ID()))

	workdir, err := r.isolate(ji, snap, scratch)
	if err != nil {
		log.Error("workspace setup failed", zap.Error(err))
		run.publish(ji, []StepResult{{
			Name:    "workspace",
			Outcome: OutcomeFailure,
			Status:  OutcomeFailure.String(),
			Reason:  err.Error(),
		}}, OutcomeFailure)
		return
	}

	var results []StepResult
	failed := false
	for seq, step := range ji.Steps {
		if failed && !step.KeepGoing {
			results = append(results, StepResult{
				Name:    step.Name,
				Outcome: OutcomeSkipped,
				Status:  OutcomeSkipped.String(),
			})
			continue
		}

		started := time.Now()
		output, runErr := r.Executor.RunStep(ctx, step, workdir, run.Env, r.StepTimeout)

		res := StepResult{
			Name:     step.Name,
			Outcome:  OutcomeSuccess,
			Output:   output,
			Duration: time.Since(started),
		}
		if runErr != nil {
			res.Outcome = OutcomeFailure
			res.Reason = runErr.Error()
			failed = true
			log.Warn("step failed",
				zap.String("step", step.Name),
				zap.Error(runErr))
		}
		res.Status = res.Outcome.String()

		r.record(run, ji, &res, seq, log)
		results = append(results, res)
	}

	outcome := OutcomeSuccess
	if failed {
		outcome = OutcomeFailure
	}
	run.publish(ji, results, outcome)
	log.Info("instance finished", zap.String("outcome", outcome.String()))
}

// isolate gives the instance its own working directory. When the
// snapshot has a source directory it is copied in full, so no instance
// can mutate state visible to another.
func (r *Runner) isolate(ji *JobInstance, snap Snapshot, scratch string) (string, error) {
	workdir := filepath.Join(scratch, filepath.FromSlash(ji.ID()))
	if err := os.MkdirAll(workdir, 0o755); err != nil {
		return "", err
	}
	if snap.Dir != "" {
		if err := os.CopyFS(workdir, os.DirFS(snap.Dir)); err != nil {
			return "", fmt.Errorf("copy snapshot %s: %w", snap.Revision, err)
		}
	}
	return workdir, nil
}

// record saves the step log and appends a signed ledger record.
// Both are best-effort: recording problems never fail the step.
func (r *Runner) record(run *Run, ji *JobInstance, res *StepResult, seq int, log *zap.Logger) {
	if r.Logs != nil {
		path, err := r.Logs.SaveStepLog(run.ID, ji.ID(), res.Name, seq, res.Output)
		if err != nil {
			log.Warn("cannot save step log", zap.Error(err))
		} else {
			res.LogPath = path
		}
	}

	if r.Ledger == nil {
		return
	}
	logHash := utils.HashString(res.Output)
	if res.LogPath != "" {
		if h, err := utils.HashFile(res.LogPath); err == nil {
			logHash = h
		}
	}
	rec := ledger.NewRecord(run.ID, ji.ID(), res.Name, res.Outcome.String(), res.LogPath, logHash)
	if err := r.Ledger.Append(rec, r.PrivKey, r.PubKey); err != nil {
		log.Warn("cannot append ledger record", zap.Error(err))
	}
}
