package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gi8lino/deskkit/internal/config"
	"github.com/gi8lino/deskkit/internal/request"
)

const (
	issueEndpointID = "api/2/issue-getIssue"
	issuePath       = "/rest/api/2/issue/{issueIdOrKey}"
	searchPath      = "/rest/api/3/search"
	usersPath       = "/rest/api/3/users/search"
	createIssuePath = "/rest/api/3/issue"
	createMetaPath  = "/rest/api/3/issue/createmeta"
	groupMemberPath = "/rest/api/3/group/member"
	groupPickerPath = "/rest/api/3/groupuserpicker"

	usersPageSize = 500
)

var docLinks = map[string]string{
	"confluence": "https://developer.atlassian.com/cloud/confluence/rest/",
	"jira":       "https://developer.atlassian.com/cloud/jira/platform/rest/v3/",
}

// API composes request building and authenticated execution for every endpoint.
type API struct {
	builder *request.Builder
	exec    Executor
}

// NewAPI returns an API building requests with b and sending them through exec.
func NewAPI(b *request.Builder, exec Executor) *API {
	return &API{builder: b, exec: exec}
}

// Call builds the request for idOrPath and executes it.
func (a *API) Call(ctx context.Context, idOrPath, method string, format, query map[string]string, body map[string]any) (any, error) {
	d, err := a.builder.Build(idOrPath, method, format, query, body)
	if err != nil {
		return nil, err
	}
	return a.exec.Execute(ctx, d)
}

// Search runs a JQL search with the given HTTP method.
func (a *API) Search(ctx context.Context, jql, method string) (any, error) {
	return a.Call(ctx, searchPath, method, nil, map[string]string{"jql": jql}, nil)
}

// GetIssue fetches a single issue by id or key. The registered endpoint id is
// preferred; without an endpoint document the well-known path is used.
func (a *API) GetIssue(ctx context.Context, key string) (any, error) {
	target := issueEndpointID
	if !a.builder.Known(target) {
		target = issuePath
	}
	return a.Call(ctx, target, http.MethodGet, map[string]string{"issueIdOrKey": key}, nil, nil)
}

// CreateMeta returns the create metadata for projects and issue types.
func (a *API) CreateMeta(ctx context.Context, opts CreateMetaOptions) (any, error) {
	return a.Call(ctx, createMetaPath, http.MethodGet, nil, opts.query(), nil)
}

// UsersSearch lists up to max users.
func (a *API) UsersSearch(ctx context.Context, max int) ([]User, error) {
	raw, err := a.Call(ctx, usersPath, http.MethodGet, nil, map[string]string{"maxResults": fmt.Sprint(max)}, nil)
	if err != nil {
		return nil, err
	}
	var users []User
	if err := decodeInto(raw, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

// CreateTask creates an issue from the task template. Reporter and assignee are
// display names resolved to account ids; the due date is now + DueIn.
func (a *API) CreateTask(ctx context.Context, tmpl config.Task, summary string, now time.Time) (CreatedIssue, error) {
	users, err := a.UsersSearch(ctx, usersPageSize)
	if err != nil {
		return CreatedIssue{}, err
	}
	byName := make(map[string]string, len(users))
	for _, u := range users {
		byName[u.DisplayName] = u.AccountID
	}

	reporter, ok := byName[tmpl.Reporter]
	if !ok {
		return CreatedIssue{}, fmt.Errorf("unknown reporter %q", tmpl.Reporter)
	}
	assignee, ok := byName[tmpl.Assignee]
	if !ok {
		return CreatedIssue{}, fmt.Errorf("unknown assignee %q", tmpl.Assignee)
	}

	labels := tmpl.Labels
	if labels == nil {
		labels = []string{}
	}

	body := map[string]any{
		"fields": map[string]any{
			"summary":   summary,
			"issuetype": map[string]any{"id": tmpl.IssueTypeID},
			"project":   map[string]any{"id": tmpl.ProjectID},
			"reporter":  map[string]any{"id": reporter},
			"assignee":  map[string]any{"id": assignee},
			"labels":    labels,
			"duedate":   now.Add(tmpl.DueIn).Format(time.DateOnly),
		},
	}

	raw, err := a.Call(ctx, createIssuePath, http.MethodPost, nil, nil, body)
	if err != nil {
		return CreatedIssue{}, err
	}
	var created CreatedIssue
	if err := decodeInto(raw, &created); err != nil {
		return CreatedIssue{}, fmt.Errorf("decode created issue: %w", err)
	}
	return created, nil
}

// GroupMembers lists the members of a group.
func (a *API) GroupMembers(ctx context.Context, method, group string) (any, error) {
	return a.Call(ctx, groupMemberPath, method, nil, map[string]string{"groupname": group}, nil)
}

// GroupUserPicker searches users and groups; an empty query lists everything
// the server returns by default.
func (a *API) GroupUserPicker(ctx context.Context, query string) (any, error) {
	q := map[string]string{}
	if query != "" {
		q["query"] = query
	}
	return a.Call(ctx, groupPickerPath, http.MethodGet, nil, q, nil)
}

// DocsURL returns the REST documentation link for product.
func DocsURL(product string) (string, error) {
	link, ok := docLinks[product]
	if !ok {
		return "", fmt.Errorf("no documentation for %q (known: confluence, jira)", product)
	}
	return link, nil
}

// decodeInto converts a decoded JSON value into out.
func decodeInto(v any, out any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}
