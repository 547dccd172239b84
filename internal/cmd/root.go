package cmd

import (
	"crypto/ed25519"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"matrixci/internal/config"
	"matrixci/internal/core"
	"matrixci/internal/ledger"
	"matrixci/internal/observability"
	"matrixci/internal/security"
	"matrixci/internal/storage"
)

var (
	cfgFile      string
	workflowFile string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "matrixci",
	Short: "Declarative CI matrix orchestrator",
	Long: `matrixci expands a declarative workflow (triggers, job families,
axes) into independent job instances, executes them fully in parallel
with fail-fast disabled, and reduces all outcomes to one verdict.
Step outcomes are appended to a signed, tamper-evident ledger.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		if workflowFile != "" {
			cfg.WorkflowPath = workflowFile
		}
		_, err = observability.Init(cfg.LogLevel)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVarP(&workflowFile, "workflow", "w", "", "Path to workflow YAML (default: built-in plan)")
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadWorkflow returns the configured workflow file or the built-in
// plan.
func loadWorkflow() (*core.Workflow, error) {
	if cfg.WorkflowPath != "" {
		return core.LoadWorkflow(cfg.WorkflowPath)
	}
	return core.DefaultWorkflow(), nil
}

// ensureKeys loads the signing key pair, generating one on first use.
func ensureKeys() (ed25519.PublicKey, ed25519.PrivateKey, error) {
	pubPath := filepath.Join(cfg.KeysDir, "matrixci.pub")
	privPath := filepath.Join(cfg.KeysDir, "matrixci.priv")

	if _, err := os.Stat(privPath); os.IsNotExist(err) {
		pub, priv, err := security.GenerateKeyPair()
		if err != nil {
			return nil, nil, err
		}
		if err := os.MkdirAll(cfg.KeysDir, 0o700); err != nil {
			return nil, nil, err
		}
		if err := security.SaveKeyPair(pub, priv, pubPath, privPath); err != nil {
			return nil, nil, err
		}
		observability.Logger.Info("generated new signing keys", zap.String("dir", cfg.KeysDir))
		return pub, priv, nil
	}

	pub, err := security.LoadPublicKey(pubPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load public key: %w", err)
	}
	priv, err := security.LoadPrivateKey(privPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load private key: %w", err)
	}
	return pub, priv, nil
}

// buildRunner wires executor, log storage, ledger and keys from the
// process config.
func buildRunner() (*core.Runner, error) {
	led, err := ledger.Open(cfg.LedgerPath)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	pub, priv, err := ensureKeys()
	if err != nil {
		return nil, err
	}
	logs := storage.NewLogStorage(cfg.LogsDir)
	return core.NewRunner(logs, led, priv, pub, cfg.StepTimeout, observability.Logger), nil
}
