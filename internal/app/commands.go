package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/gi8lino/deskkit/internal/args"
	"github.com/gi8lino/deskkit/internal/config"
	"github.com/gi8lino/deskkit/internal/endpoint"
	"github.com/gi8lino/deskkit/internal/flag"
	"github.com/gi8lino/deskkit/internal/jira"
	"github.com/gi8lino/deskkit/internal/jql"
	"github.com/gi8lino/deskkit/internal/report"
	"github.com/gi8lino/deskkit/internal/scratch"
	"github.com/gi8lino/deskkit/internal/termimg"
)

// requirement flags which collaborators a command needs.
type requirement uint8

const (
	needsConfig requirement = 1 << iota
	needsRegistry
	needsJira
)

// command is one CLI subcommand.
type command struct {
	usage string
	needs requirement
	run   func(ctx context.Context, env *environment, argv []string) error
}

// environment carries everything a command may use.
type environment struct {
	flags    flag.Config
	cfg      config.Config
	logger   *slog.Logger
	out      io.Writer
	errOut   io.Writer
	getEnv   func(string) string
	jql      *jql.Engine
	registry *endpoint.Registry
	api      *jira.API
	usage    string
}

// usageError reports wrong arguments for the running command.
func (e *environment) usageError() error {
	return fmt.Errorf("usage: deskkit %s", strings.TrimSpace(e.usage))
}

const jiraCommand = needsConfig | needsRegistry | needsJira

var commands = map[string]command{
	"api":           {usage: "[METHOD] <endpoint-id|path> [key&=value...] [key@=value...]", needs: jiraCommand, run: runAPI},
	"issue":         {usage: "<KEY>", needs: jiraCommand, run: runIssue},
	"search":        {usage: "<jql template>", needs: jiraCommand, run: runSearch},
	"me":            presetCommand("me"),
	"today-closed":  presetCommand("today-closed"),
	"related":       presetCommand("related"),
	"last-resolved": presetCommand("last-resolved"),
	"createmeta":    {usage: "[projectKeys&=KEY] [issuetypeNames&=Task] [expand&=...]", needs: jiraCommand, run: runCreateMeta},
	"create-task":   {usage: "<summary>", needs: jiraCommand, run: runCreateTask},
	"group":         {usage: "<group name>", needs: jiraCommand, run: runGroup},
	"teams":         {usage: "[query]", needs: jiraCommand, run: runTeams},
	"fragments":     {usage: "", needs: needsConfig, run: runFragments},
	"docs":          {usage: "<jira|confluence>", run: runDocs},
	"endpoints":     {usage: "", needs: needsConfig | needsRegistry, run: runEndpoints},
	"scratch":       {usage: "[list | new [category]]", needs: needsConfig, run: runScratch},
	"img":           {usage: "<file|base64>", run: runImage},
}

// commandNames returns the sorted command names.
func commandNames() string {
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// presetCommand runs one of the canned JQL searches.
func presetCommand(name string) command {
	return command{
		needs: jiraCommand,
		run: func(ctx context.Context, env *environment, argv []string) error {
			if len(argv) != 0 {
				return env.usageError()
			}
			return search(ctx, env, jql.Presets[name])
		},
	}
}

func runAPI(ctx context.Context, env *environment, argv []string) error {
	var method, target string
	switch {
	case len(argv) >= 1 && isRegistered(env.registry, argv[0]):
		target, argv = argv[0], argv[1:]
	case len(argv) >= 2:
		method, target, argv = argv[0], argv[1], argv[2:]
	default:
		return env.usageError()
	}

	parsed, err := args.Parse(argv)
	if err != nil {
		return err
	}

	env.logger.Debug("api call", "target", target, "method", method, "query", parsed.Query)
	res, err := env.api.Call(ctx, target, method, env.flags.PathParams, parsed.Query, parsed.Body)
	if err != nil {
		return err
	}
	return printJSON(env, res)
}

func runIssue(ctx context.Context, env *environment, argv []string) error {
	if len(argv) != 1 {
		return env.usageError()
	}
	res, err := env.api.GetIssue(ctx, argv[0])
	if err != nil {
		return err
	}
	return printJSON(env, res)
}

func runSearch(ctx context.Context, env *environment, argv []string) error {
	if len(argv) == 0 {
		return env.usageError()
	}
	return search(ctx, env, strings.Join(argv, " "))
}

// search expands tmpl, runs it and prints a report or the raw response.
func search(ctx context.Context, env *environment, tmpl string) error {
	query, err := env.jql.Expand(tmpl)
	if err != nil {
		return err
	}
	env.logger.Debug("jql", "query", query, "all", env.flags.All)

	var res any
	if env.flags.All {
		res, err = env.api.SearchAll(ctx, query, env.cfg.Jira.PageSize)
	} else {
		res, err = env.api.Search(ctx, query, env.flags.Method)
	}
	if err != nil {
		return err
	}

	if env.flags.Raw {
		return printJSON(env, res)
	}

	// empty 2xx body
	if res == nil {
		return report.Render(env.out, report.Report{}, env.cfg.Report.Template)
	}

	rep, err := report.Summarize(res, report.NewJQExtractor())
	if err != nil {
		return fmt.Errorf("summarize search: %w", err)
	}
	return report.Render(env.out, rep, env.cfg.Report.Template)
}

func runCreateMeta(ctx context.Context, env *environment, argv []string) error {
	parsed, err := args.Parse(argv)
	if err != nil {
		return err
	}
	if len(parsed.Body) > 0 {
		return env.usageError()
	}

	opts, err := createMetaOptions(parsed.Query)
	if err != nil {
		return err
	}
	res, err := env.api.CreateMeta(ctx, opts)
	if err != nil {
		return err
	}
	return printJSON(env, res)
}

// createMetaOptions maps query parameters onto the createmeta filters.
func createMetaOptions(q map[string]string) (jira.CreateMetaOptions, error) {
	var opts jira.CreateMetaOptions
	fields := map[string]*string{
		"projectIds":     &opts.ProjectIDs,
		"projectKeys":    &opts.ProjectKeys,
		"issuetypeIds":   &opts.IssueTypeIDs,
		"issuetypeNames": &opts.IssueTypeNames,
		"expand":         &opts.Expand,
	}
	for k, v := range q {
		field, ok := fields[k]
		if !ok {
			return jira.CreateMetaOptions{}, fmt.Errorf("unknown createmeta parameter %q", k)
		}
		*field = v
	}
	return opts, nil
}

func runCreateTask(ctx context.Context, env *environment, argv []string) error {
	summary := strings.TrimSpace(strings.Join(argv, " "))
	if summary == "" {
		return env.usageError()
	}
	if err := config.ValidateTask(env.cfg.Task); err != nil {
		return fmt.Errorf("validating config error: %w", err)
	}

	created, err := env.api.CreateTask(ctx, env.cfg.Task, summary, time.Now())
	if err != nil {
		return err
	}
	env.logger.Info("issue created", "key", created.Key)
	_, err = fmt.Fprintf(env.out, "%s\t%s\n", created.Key, created.Self)
	return err
}

func runGroup(ctx context.Context, env *environment, argv []string) error {
	if len(argv) != 1 {
		return env.usageError()
	}
	res, err := env.api.GroupMembers(ctx, env.flags.Method, argv[0])
	if err != nil {
		return err
	}
	return printJSON(env, res)
}

func runTeams(ctx context.Context, env *environment, argv []string) error {
	res, err := env.api.GroupUserPicker(ctx, strings.Join(argv, " "))
	if err != nil {
		return err
	}
	return printJSON(env, res)
}

func runFragments(_ context.Context, env *environment, argv []string) error {
	if len(argv) != 0 {
		return env.usageError()
	}
	tw := tabwriter.NewWriter(env.out, 0, 0, 2, ' ', 0)
	for _, name := range env.jql.Names() {
		frag, _ := env.jql.Fragment(name)
		fmt.Fprintf(tw, "{%s}\t%s\n", name, frag) // nolint:errcheck
	}
	return tw.Flush()
}

func runDocs(_ context.Context, env *environment, argv []string) error {
	if len(argv) != 1 {
		return env.usageError()
	}
	link, err := jira.DocsURL(argv[0])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(env.out, link)
	return err
}

func runEndpoints(_ context.Context, env *environment, argv []string) error {
	if len(argv) != 0 {
		return env.usageError()
	}
	if env.registry == nil {
		return fmt.Errorf("no endpoint document configured (jira.endpoints)")
	}

	tw := tabwriter.NewWriter(env.out, 0, 0, 2, ' ', 0)
	for _, id := range env.registry.IDs() {
		spec, _ := env.registry.Lookup(id)
		fmt.Fprintf(tw, "%s\t%s\t%s\n", spec.ID, spec.Method, spec.Path) // nolint:errcheck
	}
	return tw.Flush()
}

func runScratch(ctx context.Context, env *environment, argv []string) error {
	store := newStore(env)

	sub := "list"
	if len(argv) > 0 {
		sub, argv = argv[0], argv[1:]
	}

	switch {
	case sub == "list" && len(argv) == 0:
		files, err := store.List()
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(env.out, 0, 0, 2, ' ', 0)
		for _, f := range files {
			fmt.Fprintf(tw, "%s\t%s\n", f.ModTime.Format(time.DateTime), f.Path) // nolint:errcheck
		}
		return tw.Flush()

	case sub == "new" && len(argv) <= 1:
		category := "md"
		if len(argv) == 1 {
			category = argv[0]
		}
		file, ok, err := store.New(ctx, category)
		if err != nil {
			return err
		}
		if !ok {
			env.logger.Info("not edited, removed file", "path", file.Path)
			return nil
		}
		_, err = fmt.Fprintln(env.out, file.Path)
		return err

	default:
		return env.usageError()
	}
}

// newStore builds the journal store. The editor falls back to $EDITOR, then vi.
func newStore(env *environment) *scratch.Store {
	sc := env.cfg.Scratch
	editor := sc.Editor
	if editor == "" {
		editor = env.getEnv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}
	return &scratch.Store{
		Root:       sc.Root,
		Editor:     editor,
		EditorArgs: sc.EditorArgs,
		Categories: sc.Categories,
		Templates:  sc.Templates,
		Launcher:   scratch.ExecLauncher{Stdin: stdin, Stdout: env.out, Stderr: env.errOut},
	}
}

func runImage(_ context.Context, env *environment, argv []string) error {
	if len(argv) != 1 {
		return env.usageError()
	}
	content, err := termimg.Load(argv[0])
	if err != nil {
		return err
	}
	_, err = env.out.Write(termimg.Encode(content, env.flags.Inline, termimg.IsMultiplexed(env.getEnv("TERM"))))
	return err
}

// isRegistered reports whether id names an endpoint of reg.
func isRegistered(reg *endpoint.Registry, id string) bool {
	_, ok := reg.Lookup(id)
	return ok
}

// printJSON writes v indented. An empty response prints nothing.
func printJSON(env *environment, v any) error {
	if v == nil {
		env.logger.Debug("empty response")
		return nil
	}
	enc := json.NewEncoder(env.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
