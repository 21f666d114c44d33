package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/containeroo/tinyflags"
	"github.com/gi8lino/deskkit/internal/logging"
	"github.com/gi8lino/deskkit/internal/placeholder"
	"github.com/gi8lino/deskkit/internal/server"
	"gopkg.in/yaml.v3"
)

// Config is the mock Jira configuration root.
type Config struct {
	Port    int     `yaml:"port"`
	DataDir string  `yaml:"dataDir"`
	Routes  []Route `yaml:"routes"`
}

// Route serves one JSON file for a request pattern.
type Route struct {
	Pattern    string `yaml:"pattern"`              // e.g. "GET /rest/api/2/issue/{issueIdOrKey}"
	File       string `yaml:"file"`                 // e.g. "issue-{issueIdOrKey}.json", placeholders from path or query
	Status     int    `yaml:"status,omitempty"`     // default 200
	ItemsField string `yaml:"itemsField,omitempty"` // array sliced by startAt/maxResults; empty disables paging
}

// main starts a local Jira stand-in for trying deskkit without a real instance.
func main() {
	var configPath string

	tf := tinyflags.NewFlagSet("mock-jira", tinyflags.ExitOnError)
	tf.StringVar(&configPath, "config", "", "Path to mock config.yaml (required)").Value()
	debug := tf.Bool("debug", false, "Log every request").Value()
	logFormat := tf.String("log-format", "text", "Log format").Choices("text", "json").Value()

	if err := tf.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err) // nolint:errcheck
		os.Exit(2)
	}

	logger := logging.SetupLogger(logging.LogFormat(*logFormat), *debug, os.Stderr)

	if strings.TrimSpace(configPath) == "" {
		logger.Error("missing required --config=<path to yaml>")
		os.Exit(2)
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		logger.Error("config error", "error", err)
		os.Exit(1)
	}

	mux, err := newMux(cfg, logger)
	if err != nil {
		logger.Error("route error", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	addr := ":" + strconv.Itoa(cfg.Port)
	logger.Info("mock jira", "dataDir", cfg.DataDir, "routes", len(cfg.Routes))
	if err := server.Run(ctx, server.LogRequests(mux, logger), addr, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// loadConfig reads the YAML configuration and fills defaults. A relative
// dataDir is resolved against the config file directory.
func loadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, err
	}

	if cfg.Port == 0 {
		cfg.Port = 8081
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = "./data"
	}
	if !filepath.IsAbs(cfg.DataDir) {
		cfg.DataDir = filepath.Join(filepath.Dir(path), cfg.DataDir)
	}
	for i := range cfg.Routes {
		if cfg.Routes[i].Status == 0 {
			cfg.Routes[i].Status = http.StatusOK
		}
	}
	return cfg, nil
}

// newMux mounts every route.
func newMux(cfg Config, logger *slog.Logger) (*http.ServeMux, error) {
	mux := http.NewServeMux()
	for _, rt := range cfg.Routes {
		if strings.TrimSpace(rt.Pattern) == "" || strings.TrimSpace(rt.File) == "" {
			return nil, fmt.Errorf("route %q: pattern and file are required", rt.Pattern)
		}
		mux.HandleFunc(rt.Pattern, func(w http.ResponseWriter, r *http.Request) {
			serveRoute(w, r, cfg.DataDir, rt)
		})
		logger.Debug("route mounted", "pattern", rt.Pattern, "file", rt.File)
	}
	return mux, nil
}

// serveRoute resolves the data file for r and writes it, paged when configured.
func serveRoute(w http.ResponseWriter, r *http.Request, dataDir string, rt Route) {
	values := map[string]string{}
	for _, name := range placeholder.Names(rt.File) {
		v := r.PathValue(name)
		if v == "" {
			v = r.URL.Query().Get(name)
		}
		values[name] = v
	}
	name, err := placeholder.Expand(rt.File, values)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	raw, err := os.ReadFile(filepath.Join(dataDir, filepath.Clean("/"+name)))
	if err != nil {
		writeJSON(w, http.StatusNotFound, []byte(`{"errorMessages":["Issue does not exist or you do not have permission to see it."]}`))
		return
	}

	if rt.ItemsField == "" {
		writeJSON(w, rt.Status, raw)
		return
	}

	page, err := paginate(raw, rt.ItemsField, queryInt(r, "startAt", 0), queryInt(r, "maxResults", 50))
	if err != nil {
		http.Error(w, "paginate error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, rt.Status, page)
}

// paginate slices the array under field and sets startAt/maxResults/total.
func paginate(raw []byte, field string, start, limit int) ([]byte, error) {
	var obj map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	items, ok := obj[field].([]any)
	if !ok {
		return nil, errors.New("field " + strconv.Quote(field) + " is not an array")
	}

	total := len(items)
	start = min(max(start, 0), total)
	limit = max(limit, 1)
	end := min(start+limit, total)

	out := make(map[string]any, len(obj)+3)
	maps.Copy(out, obj)
	out[field] = items[start:end]
	out["startAt"] = start
	out["maxResults"] = limit
	out["total"] = total
	return json.Marshal(out)
}

// queryInt returns the non-negative integer query parameter key or def.
func queryInt(r *http.Request, key string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 0 {
		return def
	}
	return n
}

// writeJSON writes a JSON response with status and bytes.
func writeJSON(w http.ResponseWriter, status int, raw []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(raw)
}
