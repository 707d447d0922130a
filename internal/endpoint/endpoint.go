// Package endpoint validates where the todo API lives.
package endpoint

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// DefaultBaseURL is where the development API listens.
	DefaultBaseURL = "http://localhost:4000"

	// CollectionPath is the todo collection below the base URL.
	CollectionPath = "/todos"
)

// Parse accepts an absolute http(s) URL. A trailing /todos is stripped so
// both the API root and the collection URL work.
func Parse(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("api url is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid api url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid api url %q: missing host", raw)
	}
	u.Path = strings.TrimSuffix(strings.TrimSuffix(u.Path, "/"), CollectionPath)
	return u, nil
}
