package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/kolah/tessa/internal/request"
)

func printRequest(cmd *cobra.Command, req *request.HTTPRequest) {
	cmd.Printf("%s %s\n", req.Method, req.URL)
	for _, h := range req.Headers {
		cmd.Printf("%s: %s\n", h.Name, h.Value)
	}
	if req.Body != "" {
		cmd.Printf("\n%s\n", req.Body)
	}
}

func printRecord(cmd *cobra.Command, rec *request.Record) {
	cmd.Printf("%d %s (%s)\n", rec.Status, rec.StatusText, rec.Duration.Round(time.Millisecond))
	for _, h := range rec.Headers {
		cmd.Printf("%s: %s\n", h.Name, h.Value)
	}
	if rec.Note != "" {
		cmd.Printf("Note: %s\n", rec.Note)
	}
	if rec.Body != "" {
		cmd.Printf("\n%s\n", rec.Body)
	}
}
