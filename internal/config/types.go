package config

import "time"

// Config is the root of the YAML configuration file.
type Config struct {
	Jira    Jira    `yaml:"jira"`
	JQL     JQL     `yaml:"jql"`
	Task    Task    `yaml:"task"`
	Report  Report  `yaml:"report"`
	Scratch Scratch `yaml:"scratch"`
}

// Jira configures the REST API connection.
type Jira struct {
	URL           string        `yaml:"url"`           // host, scheme defaults to https
	Endpoints     string        `yaml:"endpoints"`     // endpoint document (JSON)
	Credentials   string        `yaml:"credentials"`   // credentials document (JSON)
	Timeout       time.Duration `yaml:"timeout"`       // per-request cap
	SkipTLSVerify bool          `yaml:"skipTLSVerify"` // dev only
	PageSize      int           `yaml:"pageSize"`      // maxResults when paginating
}

// JQL holds fragment overrides for the template engine.
type JQL struct {
	Fragments map[string]string `yaml:"fragments"`
}

// Task configures the create-task command.
type Task struct {
	ProjectID   string        `yaml:"projectID"`
	IssueTypeID string        `yaml:"issueTypeID"`
	Reporter    string        `yaml:"reporter"` // display name
	Assignee    string        `yaml:"assignee"` // display name
	Labels      []string      `yaml:"labels"`
	DueIn       time.Duration `yaml:"dueIn"`
}

// Report configures how search results are printed.
type Report struct {
	Template string `yaml:"template"` // text/template; empty uses the built-in table
}

// Scratch configures the journal scratchpad.
type Scratch struct {
	Root       string            `yaml:"root"`
	Editor     string            `yaml:"editor"`
	EditorArgs []string          `yaml:"editorArgs"`
	Categories map[string]string `yaml:"categories"` // category -> file suffix
	Templates  map[string]string `yaml:"templates"`  // category -> template file
}

// Credentials authenticate every Jira call.
type Credentials struct {
	Username    string `json:"username"`
	Token       string `json:"token"`
	BearerToken string `json:"bearerToken,omitempty"`
}
