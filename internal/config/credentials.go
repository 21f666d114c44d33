package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/containeroo/resolver"
)

// LoadCredentials reads the JSON credentials document at path. Every value may
// be an indirection understood by resolver, e.g. "env:JIRA_TOKEN" or "file:/run/secrets/jira".
func LoadCredentials(path string) (Credentials, error) {
	var creds Credentials

	data, err := os.ReadFile(path)
	if err != nil {
		return creds, fmt.Errorf("failed to read credentials file: %w", err)
	}
	if err := json.Unmarshal(data, &creds); err != nil {
		return creds, fmt.Errorf("invalid credentials file: %w", err)
	}

	for name, field := range map[string]*string{
		"username":    &creds.Username,
		"token":       &creds.Token,
		"bearerToken": &creds.BearerToken,
	} {
		if *field == "" {
			continue
		}
		v, err := resolver.ResolveVariable(*field)
		if err != nil {
			return Credentials{}, fmt.Errorf("resolve credentials %s: %w", name, err)
		}
		*field = v
	}

	return creds, nil
}
