package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kolah/tessa/internal/config"
	"github.com/kolah/tessa/internal/document"
	"github.com/kolah/tessa/internal/model"
	"github.com/kolah/tessa/internal/request"
	"github.com/kolah/tessa/internal/source"
)

// loadSpec reads and parses the spec at ref, printing parser warnings to
// stderr. The returned name is the short display name of the source.
func loadSpec(cmd *cobra.Command, cfg *config.Config, ref string) (*document.Result, string, error) {
	client := request.NewClient(cfg.Timeout, cfg.Insecure)
	data, name, err := source.Read(cmd.Context(), client, ref)
	if err != nil {
		return nil, "", err
	}

	res, err := document.Parse(data)
	if err != nil {
		return nil, "", fmt.Errorf("parsing spec: %w", err)
	}
	for _, w := range res.Warnings {
		cmd.PrintErrf("Warning: %s\n", w)
	}
	return res, name, nil
}

// findOperation resolves a selector: an operationId, or "METHOD /path"
// where the path may be the declared template or a concrete path whose
// segments fill the template's parameters.
func findOperation(spec *model.Spec, selector string) (*model.Operation, map[string]string, error) {
	if op := spec.OperationByID(selector); op != nil {
		return op, nil, nil
	}

	if fields := strings.Fields(selector); len(fields) == 2 {
		if method, ok := model.ParseMethod(fields[0]); ok {
			path := fields[1]
			if i := strings.IndexByte(path, '?'); i >= 0 {
				path = path[:i]
			}
			for _, op := range spec.Operations() {
				if op.Method == method && op.Path == path {
					return op, nil, nil
				}
			}
			if op, captured, ok := document.Match(spec, method, path); ok {
				return op, captured, nil
			}
		}
	}

	return nil, nil, fmt.Errorf("no operation matching %q", selector)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
