package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	resty "gopkg.in/resty.v1"

	"github.com/kolah/tessa/internal/config"
	"github.com/kolah/tessa/internal/document"
	"github.com/kolah/tessa/internal/model"
	"github.com/kolah/tessa/internal/request"
	"github.com/kolah/tessa/internal/session"
	"github.com/kolah/tessa/internal/source"
)

const consoleHelp = `Commands:
  load <file or URL>     load a spec
  specs                  list loaded specs (* marks the active one)
  use <index>            switch the active spec
  ops [tag]              list operations of the active spec
  sel <operation>        select an operation (operationId or METHOD /path)
  set <name> <value>     set a parameter (prefix path:, query: or header: to pick a location)
  header <Name>: <value> set a request header
  server [index or URL]  list servers, or pick one
  body [text or @file]   show or replace the request body
  show                   print the request that would be sent
  send                   send the request
  resp                   print the last response again
  clear                  forget the last response
  quit                   leave the console`

func NewConsoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "console [spec...]",
		Short: "Explore specs and send requests interactively",
		RunE:  runConsole,
	}
}

type console struct {
	cmd    *cobra.Command
	cfg    *config.Config
	sess   *session.Session
	exec   *request.Executor
	client *resty.Client
}

func runConsole(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}
	applyLogging(cfg)

	client := request.NewClient(cfg.Timeout, cfg.Insecure)
	c := &console{
		cmd:    cmd,
		cfg:    cfg,
		sess:   session.New(),
		exec:   request.NewExecutor(client),
		client: client,
	}

	for _, ref := range args {
		if err := c.load(ref); err != nil {
			cmd.PrintErrf("Error: %s\n", err)
		}
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		name, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		if name == "quit" || name == "exit" || name == "q" {
			break
		}
		if err := c.dispatch(name, arg); err != nil {
			cmd.PrintErrf("Error: %s\n", err)
		}
	}
	return scanner.Err()
}

func (c *console) dispatch(name, arg string) error {
	switch name {
	case "help", "?":
		c.cmd.Println(consoleHelp)
		return nil
	case "load":
		if arg == "" {
			return errors.New("usage: load <file or URL>")
		}
		return c.load(arg)
	case "specs":
		return c.listSpecs()
	case "use":
		return c.use(arg)
	case "ops":
		return c.listOps(arg)
	case "sel":
		return c.selectOp(arg)
	case "set":
		return c.setParam(arg)
	case "header":
		return c.setHeader(arg)
	case "server":
		return c.setServer(arg)
	case "body":
		return c.setBody(arg)
	case "show":
		return c.show()
	case "send":
		return c.send()
	case "resp":
		return c.showResponse()
	case "clear":
		c.sess.ClearResponse()
		return nil
	}
	return fmt.Errorf("unknown command %q (try help)", name)
}

func (c *console) load(ref string) error {
	data, name, err := source.Read(c.cmd.Context(), c.client, ref)
	if err != nil {
		return err
	}
	res, err := document.Parse(data)
	if err != nil {
		return fmt.Errorf("parsing spec: %w", err)
	}
	for _, w := range res.Warnings {
		c.cmd.PrintErrf("Warning: %s\n", w)
	}

	c.sess.Add(name, res)
	c.cmd.Printf("Loaded %s: %s v%s (%d operations)\n",
		name, res.Spec.Info.Title, res.Spec.Info.Version, len(res.Spec.Operations()))
	return nil
}

func (c *console) listSpecs() error {
	entries := c.sess.Entries()
	if len(entries) == 0 {
		c.cmd.Println("no specs loaded")
		return nil
	}
	_, active := c.sess.Active()
	for i, e := range entries {
		marker := " "
		if i == active {
			marker = "*"
		}
		c.cmd.Printf("%s %d: %s (%s v%s)\n",
			marker, i, e.Name, e.Result.Spec.Info.Title, e.Result.Spec.Info.Version)
	}
	return nil
}

func (c *console) use(arg string) error {
	i, err := strconv.Atoi(arg)
	if err != nil {
		return errors.New("usage: use <index>")
	}
	entry, err := c.sess.Select(i)
	if err != nil {
		return err
	}
	c.cmd.Printf("Using %s\n", entry.Name)
	return nil
}

func (c *console) listOps(tag string) error {
	spec := c.sess.Spec()
	if spec == nil {
		return errors.New("no spec loaded")
	}
	w := tabwriter.NewWriter(c.cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, op := range spec.Operations() {
		if tag != "" && !slices.Contains(op.Tags, tag) {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", op.Method, op.Path, op.Summary)
	}
	return w.Flush()
}

func (c *console) selectOp(arg string) error {
	spec := c.sess.Spec()
	if spec == nil {
		return errors.New("no spec loaded")
	}
	if arg == "" {
		return errors.New("usage: sel <operationId or METHOD /path>")
	}

	op, captured, err := findOperation(spec, arg)
	if err != nil {
		return err
	}
	draft, err := c.sess.SelectOperation(op)
	if err != nil {
		c.cmd.PrintErrf("Warning: %s\n", err)
	}

	if c.cfg.Server != "" {
		draft.Server = c.cfg.Server
	}
	for _, name := range sortedKeys(captured) {
		draft.Set(name, model.LocationPath, captured[name])
	}
	for _, name := range sortedKeys(c.cfg.Headers) {
		draft.Set(name, model.LocationHeader, c.cfg.Headers[name])
	}

	c.cmd.Printf("Selected %s\n", op.Name())
	return nil
}

func (c *console) setParam(arg string) error {
	draft := c.sess.Draft()
	if draft == nil {
		return errors.New("no operation selected")
	}
	name, value, ok := strings.Cut(arg, " ")
	if !ok || name == "" {
		return errors.New("usage: set <name> <value>")
	}

	var in model.ParameterLocation
	if prefix, rest, found := strings.Cut(name, ":"); found {
		in = model.ParameterLocation(prefix)
		name = rest
	}
	draft.Set(name, in, strings.TrimSpace(value))
	return nil
}

func (c *console) setHeader(arg string) error {
	draft := c.sess.Draft()
	if draft == nil {
		return errors.New("no operation selected")
	}
	name, value, ok := config.SplitHeader(arg)
	if !ok {
		return errors.New("usage: header <Name>: <value>")
	}
	draft.Set(name, model.LocationHeader, value)
	return nil
}

func (c *console) setServer(arg string) error {
	draft := c.sess.Draft()
	if draft == nil {
		return errors.New("no operation selected")
	}
	spec := c.sess.Spec()

	if arg == "" {
		for i, s := range spec.Servers {
			c.cmd.Printf("%d: %s", i, s.URL)
			if s.Description != "" {
				c.cmd.Printf(" (%s)", s.Description)
			}
			c.cmd.Println()
		}
		return nil
	}
	if i, err := strconv.Atoi(arg); err == nil {
		if i < 0 || i >= len(spec.Servers) {
			return fmt.Errorf("no server at index %d", i)
		}
		draft.Server = spec.Servers[i].URL
		return nil
	}
	draft.Server = arg
	return nil
}

func (c *console) setBody(arg string) error {
	draft := c.sess.Draft()
	if draft == nil {
		return errors.New("no operation selected")
	}
	if arg == "" {
		c.cmd.Println(draft.Body)
		return nil
	}
	if strings.HasPrefix(arg, "@") {
		data, err := os.ReadFile(arg[1:])
		if err != nil {
			return fmt.Errorf("reading body file: %w", err)
		}
		draft.Body = string(data)
		return nil
	}
	draft.Body = arg
	return nil
}

func (c *console) show() error {
	draft := c.sess.Draft()
	if draft == nil {
		return errors.New("no operation selected")
	}
	req, err := request.Build(draft)
	if err != nil {
		return err
	}
	printRequest(c.cmd, req)
	return nil
}

func (c *console) send() error {
	draft := c.sess.Draft()
	if draft == nil {
		return errors.New("no operation selected")
	}
	req, err := request.Build(draft)
	if err != nil {
		return err
	}

	token := c.sess.BeginRequest()
	rec := c.exec.Do(c.cmd.Context(), req)
	if c.sess.CompleteRequest(token, rec) {
		printRecord(c.cmd, rec)
	}
	return nil
}

func (c *console) showResponse() error {
	rec := c.sess.Response()
	if rec == nil {
		return errors.New("no response yet")
	}
	printRecord(c.cmd, rec)
	return nil
}
