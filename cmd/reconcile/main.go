package main

import (
	"os"

	"github.com/PeterTHA/bo-resource-management/internal/app"
	"github.com/PeterTHA/bo-resource-management/internal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Verify cached request statuses against the approval log",
	Long: `Reconcile pages through every leave and overtime request, recomputes its
status from the approval log and reports rows whose cached status drifted.
With --repair the drifted rows are rewritten under the request row lock.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		repair, _ := cmd.Flags().GetBool("repair")
		return app.RunReconcile(cmd.Context(), config.Load(), repair, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.Flags().Bool("repair", false, "rewrite drifted cached statuses")
}

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := rootCmd.Execute(); err != nil {
		logger.Error("reconcile failed", zap.Error(err))
		os.Exit(1)
	}
}
