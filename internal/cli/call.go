package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kolah/tessa/internal/config"
	"github.com/kolah/tessa/internal/model"
	"github.com/kolah/tessa/internal/request"
	"github.com/kolah/tessa/internal/session"
)

func NewCallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call <spec> <operation>",
		Short: "Build and send a request for an operation",
		Args:  cobra.ExactArgs(2),
		RunE:  runCall,
	}

	flags := cmd.Flags()
	flags.StringArrayP("param", "p", nil, "Parameter value as name=value, repeatable")
	flags.StringArrayP("query", "q", nil, "Extra query parameter as name=value, repeatable")
	flags.String("body", "", "Request body text, or @file to read it from a file")
	flags.Bool("dry-run", false, "Print the request instead of sending it")

	return cmd
}

func runCall(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}
	applyLogging(cfg)

	res, name, err := loadSpec(cmd, cfg, args[0])
	if err != nil {
		return err
	}

	sess := session.New()
	sess.Add(name, res)

	op, captured, err := findOperation(res.Spec, args[1])
	if err != nil {
		return err
	}

	draft, err := sess.SelectOperation(op)
	if err != nil {
		cmd.PrintErrf("Warning: %s\n", err)
	}

	if cfg.Server != "" {
		draft.Server = cfg.Server
	}
	for _, name := range sortedKeys(captured) {
		draft.Set(name, model.LocationPath, captured[name])
	}
	for _, name := range sortedKeys(cfg.Headers) {
		draft.Set(name, model.LocationHeader, cfg.Headers[name])
	}
	if err := applyParamFlags(cmd, draft); err != nil {
		return err
	}

	body, err := bodyFlag(cmd)
	if err != nil {
		return err
	}
	if body != "" {
		draft.Body = body
	}

	req, err := request.Build(draft)
	if err != nil {
		return err
	}

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		printRequest(cmd, req)
		return nil
	}

	exec := request.NewExecutor(request.NewClient(cfg.Timeout, cfg.Insecure))
	token := sess.BeginRequest()
	rec := exec.Do(cmd.Context(), req)
	sess.CompleteRequest(token, rec)

	printRecord(cmd, rec)
	return nil
}

func applyParamFlags(cmd *cobra.Command, draft *request.Draft) error {
	params, _ := cmd.Flags().GetStringArray("param")
	for _, p := range params {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return fmt.Errorf("invalid parameter %q (want name=value)", p)
		}
		draft.Set(name, "", value)
	}

	queries, _ := cmd.Flags().GetStringArray("query")
	for _, q := range queries {
		name, value, ok := strings.Cut(q, "=")
		if !ok || name == "" {
			return fmt.Errorf("invalid query parameter %q (want name=value)", q)
		}
		draft.Set(name, model.LocationQuery, value)
	}
	return nil
}

func bodyFlag(cmd *cobra.Command) (string, error) {
	body, _ := cmd.Flags().GetString("body")
	if strings.HasPrefix(body, "@") {
		data, err := os.ReadFile(body[1:])
		if err != nil {
			return "", fmt.Errorf("reading body file: %w", err)
		}
		return string(data), nil
	}
	return body, nil
}
