package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/broady/crudy"
	"github.com/broady/crudy/config"
	"github.com/broady/crudy/middleware"
)

type CLI struct {
	Config    string `help:"Resource config file." default:"crudy.yaml" env:"CRUDY_CONFIG" short:"c" type:"path"`
	LogLevel  string `help:"Log level (debug, info, warn, error)." default:"warn" enum:"debug,info,warn,error"`
	LogFormat string `help:"Log format (text, json)." default:"text" enum:"text,json"`

	Resources ResourcesCmd `cmd:"" help:"List configured resources."`
	Get       GetCmd       `cmd:"" help:"Fetch one record."`
	List      ListCmd      `cmd:"" help:"Fetch a collection."`
	Create    CreateCmd    `cmd:"" help:"Create a record."`
	Update    UpdateCmd    `cmd:"" help:"Replace a record."`
	Delete    DeleteCmd    `cmd:"" help:"Delete a record."`
	Version   VersionCmd   `cmd:"" help:"Print version information."`
}

// app carries what every command needs once flags are parsed.
type app struct {
	cli    *CLI
	stdin  io.Reader
	stdout io.Writer
	logger *slog.Logger
}

func (a *app) config() (*config.Config, error) {
	return config.Load(a.cli.Config)
}

func (a *app) resource(name string) (*crudy.Resource, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	reg, err := cfg.Registry(
		crudy.WithLogger(a.logger),
		crudy.WithMiddleware(middleware.RequestID(""), middleware.Logging(a.logger)),
		crudy.WithHooks(middleware.LoggingHooks(a.logger)),
	)
	if err != nil {
		return nil, err
	}
	return reg.Lookup(name)
}

func (a *app) print(v any) error {
	if v == nil {
		return nil
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.stdout, string(out))
	return err
}

// readJSON decodes a JSON argument: inline text, @file, or - for stdin.
func (a *app) readJSON(arg string) (any, error) {
	var data []byte
	var err error
	switch {
	case arg == "-":
		data, err = io.ReadAll(a.stdin)
	case strings.HasPrefix(arg, "@"):
		data, err = os.ReadFile(arg[1:])
	default:
		data = []byte(arg)
	}
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	return v, nil
}

func parseQuery(params []string) (crudy.Query, error) {
	var q crudy.Query
	for _, p := range params {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid query parameter %q, want key=value", p)
		}
		q = q.Add(k, v)
	}
	return q, nil
}

type ResourcesCmd struct{}

func (c *ResourcesCmd) Run(a *app) error {
	cfg, err := a.config()
	if err != nil {
		return err
	}
	endpoints := cfg.Endpoints()
	reg := crudy.NewRegistry(endpoints)
	for _, name := range reg.Names() {
		fmt.Fprintf(a.stdout, "%s\t%s\n", name, reg[name].URL())
	}
	return nil
}

type GetCmd struct {
	Resource string   `arg:"" help:"Resource name."`
	ID       string   `arg:"" help:"Record id."`
	Query    []string `help:"Query parameter as key=value." short:"q" sep:"none"`
}

func (c *GetCmd) Run(ctx context.Context, a *app) error {
	q, err := parseQuery(c.Query)
	if err != nil {
		return err
	}
	r, err := a.resource(c.Resource)
	if err != nil {
		return err
	}
	res, err := r.Get(ctx, c.ID, q)
	if err != nil {
		return err
	}
	return a.print(res)
}

type ListCmd struct {
	Resource string   `arg:"" help:"Resource name."`
	Query    []string `help:"Query parameter as key=value." short:"q" sep:"none"`
}

func (c *ListCmd) Run(ctx context.Context, a *app) error {
	q, err := parseQuery(c.Query)
	if err != nil {
		return err
	}
	r, err := a.resource(c.Resource)
	if err != nil {
		return err
	}
	res, err := r.List(ctx, q)
	if err != nil {
		return err
	}
	return a.print(res)
}

type CreateCmd struct {
	Resource string `arg:"" help:"Resource name."`
	Data     string `arg:"" help:"JSON body, @file, or - for stdin."`
}

func (c *CreateCmd) Run(ctx context.Context, a *app) error {
	body, err := a.readJSON(c.Data)
	if err != nil {
		return err
	}
	r, err := a.resource(c.Resource)
	if err != nil {
		return err
	}
	res, err := r.Create(ctx, body)
	if err != nil {
		return err
	}
	return a.print(res)
}

type UpdateCmd struct {
	Resource string `arg:"" help:"Resource name."`
	ID       string `arg:"" help:"Record id."`
	Data     string `arg:"" help:"JSON body, @file, or - for stdin."`
}

func (c *UpdateCmd) Run(ctx context.Context, a *app) error {
	body, err := a.readJSON(c.Data)
	if err != nil {
		return err
	}
	r, err := a.resource(c.Resource)
	if err != nil {
		return err
	}
	res, err := r.Update(ctx, c.ID, body)
	if err != nil {
		return err
	}
	return a.print(res)
}

type DeleteCmd struct {
	Resource string   `arg:"" help:"Resource name."`
	ID       string   `arg:"" help:"Record id."`
	Query    []string `help:"Query parameter as key=value." short:"q" sep:"none"`
}

func (c *DeleteCmd) Run(ctx context.Context, a *app) error {
	q, err := parseQuery(c.Query)
	if err != nil {
		return err
	}
	r, err := a.resource(c.Resource)
	if err != nil {
		return err
	}
	res, err := r.Delete(ctx, c.ID, q)
	if err != nil {
		return err
	}
	return a.print(res)
}

type VersionCmd struct{}

func (c *VersionCmd) Run(a *app) error {
	_, err := fmt.Fprintln(a.stdout, Version())
	return err
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("crudy"),
		kong.Description("Call REST resources described by a config file."),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	a := &app{
		cli:    cli,
		stdin:  stdin,
		stdout: stdout,
		logger: newLogger(stderr, cli.LogLevel, cli.LogFormat),
	}
	return kctx.Run(a)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "crudy: %v\n", err)
		var httpErr *crudy.HTTPError
		if errors.As(err, &httpErr) && len(httpErr.Body) > 0 {
			fmt.Fprintf(os.Stderr, "%s\n", httpErr.Body)
		}
		os.Exit(1)
	}
}
