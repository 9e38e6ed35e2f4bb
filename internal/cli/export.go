package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kolah/tessa/internal/config"
)

func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <spec>",
		Short: "Save a spec's raw document to a file",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}
	cmd.Flags().StringP("output", "o", "openapi.yaml", "Output file path")
	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}
	applyLogging(cfg)

	res, _, err := loadSpec(cmd, cfg, args[0])
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if err := os.WriteFile(output, res.Raw, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	cmd.PrintErrf("Written: %s\n", output)
	return nil
}
