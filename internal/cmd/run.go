package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"matrixci/internal/core"
	"matrixci/internal/observability"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Deliver one event and execute the resulting run",
	Long: `Deliver one event to the trigger evaluator. A qualifying event
(pull_request, push to a configured branch, or a schedule tick matching
the cadence) spawns exactly one run; anything else is ignored without
error.

Example:
  matrixci run --event push --branch main --rev 4f2a91c
  matrixci run --event pull_request --rev 4f2a91c
  matrixci run --event schedule`,
	RunE: execRun,
}

var (
	runEventKind string
	runBranch    string
	runRevision  string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runEventKind, "event", "e", "", "Event kind (pull_request|push|schedule|...)")
	runCmd.Flags().StringVarP(&runBranch, "branch", "b", "", "Target branch for push events")
	runCmd.Flags().StringVar(&runRevision, "rev", "", "Source revision the run is bound to")

	_ = runCmd.MarkFlagRequired("event")
}

func execRun(cmd *cobra.Command, args []string) error {
	wf, err := loadWorkflow()
	if err != nil {
		return err
	}
	eval, err := core.NewEvaluator(wf.On)
	if err != nil {
		return err
	}

	ev := core.Event{
		Kind:       core.EventKind(runEventKind),
		Branch:     runBranch,
		Revision:   runRevision,
		OccurredAt: time.Now(),
	}

	if !eval.Accepts(ev) {
		// Not an error: trigger mismatch simply means no run.
		fmt.Printf("event %q ignored, no run started\n", runEventKind)
		return nil
	}

	runner, err := buildRunner()
	if err != nil {
		return err
	}

	run := core.NewRun(wf, ev)
	observability.Logger.Info("event accepted",
		zap.String("kind", runEventKind),
		zap.String("run_id", run.ID))

	snap := core.Snapshot{Revision: runRevision, Dir: cfg.Workspace}
	if err := runner.Execute(cmd.Context(), run, snap); err != nil {
		return err
	}

	printReport(run.Report())
	if run.Verdict() != core.OutcomeSuccess {
		return fmt.Errorf("run %s failed", run.ID)
	}
	return nil
}

func printReport(rep core.RunReport) {
	fmt.Printf("Run %s (%s @ %s): %s\n", rep.ID, rep.Kind, rep.Revision, rep.Verdict)
	for _, inst := range rep.Instances {
		fmt.Printf("  %-45s %s\n", inst.ID, inst.Status)
	}
	if len(rep.Failures) > 0 {
		fmt.Println("Failures:")
		for _, f := range rep.Failures {
			fmt.Printf("  %s: %s\n", f.Instance, f.Reason)
		}
	}
}
