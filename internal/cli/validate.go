package cli

import (
	"github.com/spf13/cobra"

	"github.com/kolah/tessa/internal/config"
)

func NewValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <spec>",
		Short: "Parse a spec and report what it declares",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}
	applyLogging(cfg)

	res, name, err := loadSpec(cmd, cfg, args[0])
	if err != nil {
		return err
	}

	spec := res.Spec
	cmd.Printf("%s: %s v%s (OpenAPI %s)\n", name, spec.Info.Title, spec.Info.Version, res.Version)
	cmd.Printf("  Operations: %d\n", len(spec.Operations()))
	cmd.Printf("  Schemas: %d\n", spec.Schemas.Len())
	cmd.Printf("  Servers: %d\n", len(spec.Servers))
	if len(res.Warnings) > 0 {
		cmd.Printf("  Warnings: %d\n", len(res.Warnings))
	}
	return nil
}
