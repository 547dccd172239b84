package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"matrixci/internal/security"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage the ledger signing key pair",
}

var keysGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a fresh ed25519 key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		pub, priv, err := security.GenerateKeyPair()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(cfg.KeysDir, 0o700); err != nil {
			return err
		}
		pubPath := filepath.Join(cfg.KeysDir, "matrixci.pub")
		privPath := filepath.Join(cfg.KeysDir, "matrixci.priv")
		if err := security.SaveKeyPair(pub, priv, pubPath, privPath); err != nil {
			return err
		}
		fmt.Printf("wrote %s and %s\n", pubPath, privPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)
	keysCmd.AddCommand(keysGenerateCmd)
}
