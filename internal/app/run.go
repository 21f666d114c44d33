package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gi8lino/deskkit/internal/config"
	"github.com/gi8lino/deskkit/internal/endpoint"
	"github.com/gi8lino/deskkit/internal/flag"
	"github.com/gi8lino/deskkit/internal/jira"
	"github.com/gi8lino/deskkit/internal/jql"
	"github.com/gi8lino/deskkit/internal/logging"
	"github.com/gi8lino/deskkit/internal/request"

	"github.com/containeroo/tinyflags"
)

var stdin io.Reader = os.Stdin

// Run parses args, loads the configuration and executes one command.
// Command output goes to stdout, logs to stderr.
func Run(ctx context.Context, version, commit string, args []string, stdout, stderr io.Writer, getEnv func(string) string) error {
	// Create a new context that listens for interrupt signals
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Parse command-line flags
	flags, err := flag.ParseArgs(version, args, stdout, getEnv)
	if err != nil {
		if tinyflags.IsHelpRequested(err) || tinyflags.IsVersionRequested(err) {
			fmt.Fprint(stdout, err.Error()) // nolint:errcheck
			return nil
		}
		return fmt.Errorf("parsing error: %w", err)
	}

	// Setup logger
	logger := logging.SetupLogger(flags.LogFormat, flags.Debug, stderr)
	logger.Debug("starting deskkit", "version", version, "commit", commit, "command", flags.Command)

	cmd, ok := commands[flags.Command]
	if !ok {
		return fmt.Errorf("unknown command %q (known: %s)", flags.Command, commandNames())
	}

	// Load config
	var cfg config.Config
	if cmd.needs&needsConfig != 0 {
		if cfg, err = config.LoadConfig(flags.Config); err != nil {
			return fmt.Errorf("loading config error: %w", err)
		}
		if err := config.ValidateConfig(&cfg); err != nil {
			return fmt.Errorf("validating config error: %w", err)
		}
	}

	env := &environment{
		flags:  flags,
		cfg:    cfg,
		logger: logger,
		out:    stdout,
		errOut: stderr,
		getEnv: getEnv,
		jql:    jql.NewEngine(cfg.JQL.Fragments),
		usage:  flags.Command + " " + cmd.usage,
	}

	if cmd.needs&needsRegistry != 0 {
		if env.registry, err = loadRegistry(cfg.Jira, logger); err != nil {
			return err
		}
	}
	if cmd.needs&needsJira != 0 {
		if env.api, err = newAPI(cfg.Jira, env.registry, logger); err != nil {
			return err
		}
	}

	return cmd.run(ctx, env, flags.Args)
}

// loadRegistry loads the endpoint document. Without one, every call uses literal paths.
func loadRegistry(j config.Jira, logger *slog.Logger) (*endpoint.Registry, error) {
	if j.Endpoints == "" {
		logger.Debug("no endpoint document configured")
		return nil, nil
	}
	reg, err := endpoint.Load(j.Endpoints)
	if err != nil {
		return nil, fmt.Errorf("loading endpoints error: %w", err)
	}
	logger.Debug("endpoints loaded", "path", j.Endpoints, "count", reg.Len())
	return reg, nil
}

// newAPI wires credentials, request builder and HTTP client.
func newAPI(j config.Jira, reg *endpoint.Registry, logger *slog.Logger) (*jira.API, error) {
	if err := config.ValidateJira(j); err != nil {
		return nil, fmt.Errorf("validating config error: %w", err)
	}

	base, err := request.ParseBase(j.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid jira url: %w", err)
	}

	creds, err := config.LoadCredentials(j.Credentials)
	if err != nil {
		return nil, fmt.Errorf("loading credentials error: %w", err)
	}
	auth, method, err := jira.ResolveAuth(creds)
	if err != nil {
		return nil, err
	}

	logger.Debug("jira auth", "base", base.String(), "method", method)

	client := jira.NewClient(auth, j.SkipTLSVerify, j.Timeout).WithLogger(logger)
	return jira.NewAPI(request.NewBuilder(base, reg), client), nil
}
