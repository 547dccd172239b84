package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"matrixci/internal/core"
	"matrixci/internal/observability"
	"matrixci/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP event server",
	Long: `Listen for events over HTTP. POST /events delivers an event to
the trigger evaluator; qualifying events spawn runs executed in the
background. GET /runs and GET /runs/{id} report status, GET
/ledger/verify rechecks the outcome chain.`,
	RunE: execServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func execServe(cmd *cobra.Command, args []string) error {
	wf, err := loadWorkflow()
	if err != nil {
		return err
	}
	runner, err := buildRunner()
	if err != nil {
		return err
	}

	snap := core.Snapshot{Dir: cfg.Workspace}
	srv, err := server.New(wf, runner, snap, observability.Logger)
	if err != nil {
		return err
	}

	observability.Logger.Info("matrixci event server listening",
		zap.String("addr", cfg.ListenAddr))
	return http.ListenAndServe(cfg.ListenAddr, srv.Router())
}
