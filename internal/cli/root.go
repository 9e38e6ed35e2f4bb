package cli

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kolah/tessa/internal/config"
)

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "tessa",
		Short:   "Tessa - a try-it console for OpenAPI specs",
		Version: "1.0.0",

		SilenceUsage:  true,
		SilenceErrors: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	config.BindCommonFlags(root)

	root.AddCommand(
		NewValidateCmd(),
		NewOpsCmd(),
		NewExampleCmd(),
		NewCallCmd(),
		NewExportCmd(),
		NewConsoleCmd(),
	)

	return root
}

func applyLogging(cfg *config.Config) {
	if cfg.Verbose {
		log.SetLevel(log.DebugLevel)
	}
}
