package jira

// User is an entry of the users/search response.
type User struct {
	AccountID   string `json:"accountId"`
	DisplayName string `json:"displayName"`
	Active      bool   `json:"active"`
}

// CreatedIssue is the response of a successful issue creation.
type CreatedIssue struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

// CreateMetaOptions filters the createmeta endpoint. Empty fields are omitted.
type CreateMetaOptions struct {
	ProjectIDs     string
	ProjectKeys    string
	IssueTypeIDs   string
	IssueTypeNames string
	Expand         string
}

// query returns the non-empty options as query parameters.
func (o CreateMetaOptions) query() map[string]string {
	q := map[string]string{}
	for k, v := range map[string]string{
		"projectIds":     o.ProjectIDs,
		"projectKeys":    o.ProjectKeys,
		"issuetypeIds":   o.IssueTypeIDs,
		"issuetypeNames": o.IssueTypeNames,
		"expand":         o.Expand,
	} {
		if v != "" {
			q[k] = v
		}
	}
	return q
}
