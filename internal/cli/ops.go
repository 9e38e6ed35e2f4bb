package cli

import (
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kolah/tessa/internal/config"
)

func NewOpsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ops <spec>",
		Short: "List the operations a spec declares",
		Args:  cobra.ExactArgs(1),
		RunE:  runOps,
	}
	cmd.Flags().StringP("tag", "t", "", "Only operations carrying this tag")
	return cmd
}

func runOps(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}
	applyLogging(cfg)

	res, _, err := loadSpec(cmd, cfg, args[0])
	if err != nil {
		return err
	}
	tag, _ := cmd.Flags().GetString("tag")

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "METHOD\tPATH\tID\tSUMMARY")
	for _, op := range res.Spec.Operations() {
		if tag != "" && !slices.Contains(op.Tags, tag) {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", op.Method, op.Path, op.ID, op.Summary)
	}
	return w.Flush()
}
