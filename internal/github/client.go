// Package github implements the remote hosting collaborator: REST API
// calls for repository creation and policy configuration, and sealed
// secret upload for CI tokens.
package github

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/jayanthkoushik/shiny-pyseed/internal/shell"
	"github.com/jayanthkoushik/shiny-pyseed/internal/ui"
)

const (
	defaultBaseURL = "https://api.github.com"
	apiVersion     = "2022-11-28"
)

// Client calls the GitHub REST API.
type Client struct {
	http *resty.Client
	log  *ui.ActionLog
}

// NewClient creates a Client authenticated with token.
func NewClient(token string, log *ui.ActionLog) *Client {
	http := resty.New().
		SetBaseURL(defaultBaseURL).
		SetAuthToken(token).
		SetHeader("Accept", "application/vnd.github+json").
		SetHeader("X-GitHub-Api-Version", apiVersion)
	return &Client{http: http, log: log}
}

// SetBaseURL overrides the API base URL (used in tests).
func (c *Client) SetBaseURL(url string) {
	c.http.SetBaseURL(url)
}

// apiError wraps err as a github collaborator failure.
func apiError(err error) error {
	return &shell.CollaboratorError{Collaborator: "github", Err: err}
}

// Call performs one API request and decodes the JSON response. An empty
// response body decodes to an empty map. Non-2xx responses and
// malformed bodies are collaborator failures.
func (c *Client) Call(ctx context.Context, method, endpoint string, payload map[string]any) (map[string]any, error) {
	c.log.Action("CALL", fmt.Sprintf("%s %s/%s", method, defaultBaseURL, endpoint))

	req := c.http.R().SetContext(ctx)
	if payload != nil {
		req.SetBody(payload)
	}

	resp, err := req.Execute(method, "/"+endpoint)
	if err != nil {
		return nil, apiError(err)
	}
	if resp.IsError() {
		return nil, apiError(fmt.Errorf("%s %s: %s: %s", method, endpoint, resp.Status(), resp.String()))
	}

	body := resp.Body()
	if len(body) == 0 {
		return map[string]any{}, nil
	}
	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, apiError(fmt.Errorf("decode response: %w", err))
	}
	return data, nil
}

// strField extracts a nested string field from an API response,
// failing as a collaborator error when absent. path elements index
// into nested objects.
func strField(data map[string]any, path ...string) (string, error) {
	cur := any(data)
	for _, p := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return "", apiError(fmt.Errorf("response missing %q:\n%v", p, data))
		}
		cur, ok = obj[p]
		if !ok {
			return "", apiError(fmt.Errorf("response missing %q:\n%v", p, data))
		}
	}
	s, ok := cur.(string)
	if !ok {
		return "", apiError(fmt.Errorf("response field %v is not a string", path))
	}
	return s, nil
}
