package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kolah/tessa/internal/config"
	"github.com/kolah/tessa/internal/sample"
)

func NewExampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example <spec> <operation>",
		Short: "Print a synthesized JSON request body for an operation",
		Args:  cobra.ExactArgs(2),
		RunE:  runExample,
	}
}

func runExample(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}
	applyLogging(cfg)

	res, _, err := loadSpec(cmd, cfg, args[0])
	if err != nil {
		return err
	}

	op, _, err := findOperation(res.Spec, args[1])
	if err != nil {
		return err
	}
	if op.RequestBody == nil || !op.RequestBody.HasJSON() {
		return fmt.Errorf("%s takes no JSON request body", op.Name())
	}

	body, err := sample.New().Body(res.Spec, op.RequestBody.JSONSchema())
	if err != nil {
		return fmt.Errorf("synthesizing example: %w", err)
	}
	cmd.Println(body.JSONIndent())
	return nil
}
