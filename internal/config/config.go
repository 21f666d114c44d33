package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimeout  = 15 * time.Second
	defaultPageSize = 50
	defaultDueIn    = 7 * 24 * time.Hour
	defaultRoot     = "~/bio"
)

// LoadConfig reads the YAML configuration at path, fills defaults and resolves
// relative document paths against the directory of the config file.
func LoadConfig(path string) (Config, error) {
	cfg := Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}

	setDefaults(&cfg)

	dir := filepath.Dir(path)
	cfg.Jira.Endpoints = resolvePath(dir, cfg.Jira.Endpoints)
	cfg.Jira.Credentials = resolvePath(dir, cfg.Jira.Credentials)
	cfg.Scratch.Root = resolvePath(dir, cfg.Scratch.Root)
	for k, v := range cfg.Scratch.Templates {
		cfg.Scratch.Templates[k] = resolvePath(dir, v)
	}

	return cfg, nil
}

// ValidateConfig checks settings that must hold for any command.
func ValidateConfig(cfg *Config) error {
	var errs []string

	if cfg.Jira.Timeout < 0 {
		errs = append(errs, "jira.timeout must be >= 0")
	}
	if cfg.Jira.PageSize < 0 {
		errs = append(errs, "jira.pageSize must be >= 0")
	}
	if cfg.Task.DueIn < 0 {
		errs = append(errs, "task.dueIn must be >= 0")
	}
	for name, frag := range cfg.JQL.Fragments {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, "jql.fragments: empty fragment name")
			continue
		}
		if strings.TrimSpace(frag) == "" {
			errs = append(errs, fmt.Sprintf("jql.fragments.%s: fragment is empty", name))
		}
	}

	return joinErrors(errs)
}

// ValidateJira checks the settings required to talk to Jira.
func ValidateJira(j Jira) error {
	var errs []string

	if strings.TrimSpace(j.URL) == "" {
		errs = append(errs, "jira.url is required")
	} else if _, err := url.Parse(j.URL); err != nil {
		errs = append(errs, fmt.Sprintf("jira.url %q is invalid: %v", j.URL, err))
	}
	if strings.TrimSpace(j.Credentials) == "" {
		errs = append(errs, "jira.credentials is required")
	}

	return joinErrors(errs)
}

// ValidateTask checks the settings required by create-task.
func ValidateTask(t Task) error {
	var errs []string

	if t.ProjectID == "" {
		errs = append(errs, "task.projectID is required")
	}
	if t.IssueTypeID == "" {
		errs = append(errs, "task.issueTypeID is required")
	}
	if t.Reporter == "" {
		errs = append(errs, "task.reporter is required")
	}
	if t.Assignee == "" {
		errs = append(errs, "task.assignee is required")
	}

	return joinErrors(errs)
}

// joinErrors renders collected messages as a single error, or nil.
func joinErrors(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("config has errors:\n  - %s", strings.Join(errs, "\n  - "))
}

// setDefaults fills in missing fields with default values.
func setDefaults(cfg *Config) {
	if cfg.Jira.Timeout == 0 {
		cfg.Jira.Timeout = defaultTimeout
	}
	if cfg.Jira.PageSize == 0 {
		cfg.Jira.PageSize = defaultPageSize
	}
	if cfg.Task.DueIn == 0 {
		cfg.Task.DueIn = defaultDueIn
	}
	if cfg.Scratch.Root == "" {
		cfg.Scratch.Root = defaultRoot
	}
}

// resolvePath expands a leading "~/" and makes relative paths relative to dir.
func resolvePath(dir, p string) string {
	if p == "" {
		return ""
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(dir, p)
	}
	return p
}
