package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"matrixci/internal/ledger"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect and verify the outcome ledger",
}

var ledgerVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Recompute every record hash, link and signature",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := ledger.Open(cfg.LedgerPath)
		if err != nil {
			return err
		}
		if err := l.VerifyChain(); err != nil {
			return fmt.Errorf("ledger verification failed: %w", err)
		}
		fmt.Printf("ledger ok (%d records)\n", l.Len())
		return nil
	},
}

var ledgerInspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print every ledger record",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := ledger.Open(cfg.LedgerPath)
		if err != nil {
			return err
		}
		for _, rec := range l.Records() {
			fmt.Println(rec)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ledgerCmd)
	ledgerCmd.AddCommand(ledgerVerifyCmd)
	ledgerCmd.AddCommand(ledgerInspectCmd)
}
