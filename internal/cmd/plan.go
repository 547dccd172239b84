package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the expanded instance set without executing",
	Long: `Expand every job family's axis cross-product and print the
resulting instance identities. Nothing is executed; the same workflow
always expands to the same plan.

Example:
  matrixci plan
  matrixci plan --workflow ci.yaml`,
	RunE: execPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func execPlan(cmd *cobra.Command, args []string) error {
	wf, err := loadWorkflow()
	if err != nil {
		return err
	}

	fmt.Printf("Workflow: %s\n", wf.Name)
	fmt.Printf("Triggers: pull_request=%v push=%v schedule=%q\n\n",
		wf.On.PullRequest, wf.On.Push, wf.On.Schedule)

	total := 0
	for _, fam := range wf.Families {
		instances := fam.Instances()
		total += len(instances)
		fmt.Printf("%s (%d instances)\n", fam.Name, len(instances))
		for _, ji := range instances {
			fmt.Printf("  %-45s %d steps\n", ji.ID(), len(ji.Steps))
		}
	}
	fmt.Printf("\n%d instances total\n", total)
	return nil
}
