package flag

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/containeroo/tinyflags"
	"github.com/gi8lino/deskkit/internal/logging"
)

// Config aggregates CLI flags and positionals after parsing.
type Config struct {
	Debug      bool              // Enables debug logging
	LogFormat  logging.LogFormat // Log output format (text or json)
	Config     string            // Path to config file
	Method     string            // HTTP method for search commands
	Raw        bool              // Print JSON instead of a report table
	All        bool              // Follow search pagination
	Inline     bool              // Display images inline
	PathParams map[string]string // Placeholder values for the api command
	Command    string            // First positional
	Args       []string          // Tokens after the command, never parsed as flags
}

// valueFlags take their value from the next token unless written as --name=value.
var valueFlags = map[string]bool{
	"--config": true, "-c": true,
	"--method": true, "-m": true,
	"--path-param": true, "-p": true,
	"--log-format": true, "-l": true,
}

// ParseArgs parses CLI arguments into Config, handling version/help flags.
// Only the tokens before the command are flags; the rest is passed through
// as command input, so JQL like "resolved >= -1w" needs no quoting.
func ParseArgs(version string, args []string, out io.Writer, getEnv func(string) string) (Config, error) {
	var cfg Config
	flagArgs, command, rest := splitCommand(args)

	tf := tinyflags.NewFlagSet("deskkit", tinyflags.ContinueOnError)
	tf.Version(version)
	tf.SetGetEnvFn(getEnv)
	tf.EnvPrefix("DESKKIT")
	tf.SetOutput(out)

	tf.StringVar(&cfg.Config, "config", "config.yaml", "Path to config file").Short("c").Value()

	// Jira
	method := tf.String("method", "get", "HTTP method used by search commands").
		Choices("get", "post").
		Finalize(strings.ToLower).
		Short("m").
		Value()
	tf.BoolVar(&cfg.Raw, "raw", false, "Print the JSON response instead of a table").Value()
	tf.BoolVar(&cfg.All, "all", false, "Follow pagination and merge every page of a search").Value()
	pathParams := tf.StringSlice("path-param", nil, "Path placeholder value for the api command (repeatable)").
		Placeholder("KEY=VALUE").
		Short("p").
		Value()

	// Images
	tf.BoolVar(&cfg.Inline, "inline", true, "Display images inline instead of as downloads").Value()

	// Logging
	tf.BoolVar(&cfg.Debug, "debug", false, "Enable debug logging").Value()
	logFormat := tf.String("log-format", "text", "Log format").Choices("text", "json").Short("l").Value()

	// Parse
	if err := tf.Parse(flagArgs); err != nil {
		return Config{}, err
	}

	// Post-parse
	cfg.LogFormat = logging.LogFormat(*logFormat)
	cfg.Method = *method

	params, err := parsePathParams(*pathParams)
	if err != nil {
		return Config{}, err
	}
	cfg.PathParams = params

	if command == "" {
		return Config{}, errors.New("missing command")
	}
	cfg.Command = command
	cfg.Args = rest

	return cfg, nil
}

// splitCommand returns the flag tokens, the command and everything after it.
// "--" ends the flags explicitly; the token following it is the command.
func splitCommand(args []string) (flags []string, command string, rest []string) {
	for i := 0; i < len(args); i++ {
		tok := args[i]
		switch {
		case tok == "--":
			if i+1 < len(args) {
				return args[:i], args[i+1], args[i+2:]
			}
			return args[:i], "", nil
		case strings.HasPrefix(tok, "-") && len(tok) > 1:
			if valueFlags[tok] {
				i++ // value is the next token
			}
		default:
			return args[:i], tok, args[i+1:]
		}
	}
	return args, "", nil
}

// parsePathParams turns KEY=VALUE pairs into a map. Later pairs win.
func parsePathParams(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid --path-param %q: expected KEY=VALUE", p)
		}
		out[strings.TrimSpace(k)] = v
	}
	return out, nil
}
