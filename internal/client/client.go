package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/agentbuilder-dev/agentbuilder/internal/frameworks/jaf"
	"github.com/agentbuilder-dev/agentbuilder/pkg/models"
)

// Client is a thin HTTP client for the agent builder API
type Client struct {
	BaseURL    string
	httpClient *http.Client
}

const (
	defaultBaseURL = "http://localhost:8080/v0"
	pageLimit      = 100
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Status     string
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("unexpected status: %s", e.Status)
	}
	return fmt.Sprintf("unexpected status: %s, %s", e.Status, e.Detail)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	return asHTTPStatus(err) == http.StatusNotFound
}

// ImportResponse is the result of importing a JAF module.
type ImportResponse struct {
	Parsed jaf.ParsedAgent `json:"parsed"`
	Agent  *models.Agent   `json:"agent,omitempty"`
}

// ModelsResponse lists the model catalog.
type ModelsResponse struct {
	Models  []models.ModelOption `json:"models"`
	Default string               `json:"default"`
}

// VersionResponse is the server build metadata.
type VersionResponse struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
}

// Export is a downloaded agent export.
type Export struct {
	Filename    string
	ContentType string
	Content     []byte
}

// NewClientFromEnv constructs a client from ABCTL_API_BASE_URL and verifies connectivity.
func NewClientFromEnv() (*Client, error) {
	base := os.Getenv("ABCTL_API_BASE_URL")
	c := NewClient(base)
	if err := c.Ping(); err != nil {
		return nil, fmt.Errorf("failed to reach API at %s: %w", c.BaseURL, err)
	}
	return c, nil
}

// NewClient constructs a client with an explicit base URL
func NewClient(baseURL string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		BaseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) newRequest(method, pathWithQuery string) (*http.Request, error) {
	fullURL := strings.TrimRight(c.BaseURL, "/") + pathWithQuery
	return http.NewRequest(method, fullURL, nil)
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer func() { _ = resp.Body.Close() }()
		// read up to 1KB of body for error message
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Detail: problemDetail(errBody)}
	}
	return resp, nil
}

func (c *Client) doJSON(req *http.Request, out any) error {
	if out != nil {
		req.Header.Set("Accept", "application/json")
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) doJSONRequest(method, pathWithQuery string, in, out any) error {
	req, err := c.newRequest(method, pathWithQuery)
	if err != nil {
		return err
	}
	if in != nil {
		inBytes, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal %T: %w", in, err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Body = io.NopCloser(bytes.NewReader(inBytes))
		req.ContentLength = int64(len(inBytes))
	}
	return c.doJSON(req, out)
}

// Ping checks connectivity to the API
func (c *Client) Ping() error {
	req, err := c.newRequest(http.MethodGet, "/ping")
	if err != nil {
		return err
	}
	return c.doJSON(req, nil)
}

// Version returns the server build metadata
func (c *Client) Version() (*VersionResponse, error) {
	var out VersionResponse
	if err := c.doJSONRequest(http.MethodGet, "/version", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AgentListOptions filters ListAgents.
type AgentListOptions struct {
	Search string
	Status string
}

// ListAgents follows cursors until every matching agent is fetched.
func (c *Client) ListAgents(opts AgentListOptions) ([]models.Agent, error) {
	cursor := ""
	var all []models.Agent

	for {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(pageLimit))
		if cursor != "" {
			q.Set("cursor", cursor)
		}
		if opts.Search != "" {
			q.Set("search", opts.Search)
		}
		if opts.Status != "" {
			q.Set("status", opts.Status)
		}

		var resp models.AgentListResponse
		if err := c.doJSONRequest(http.MethodGet, "/agents?"+q.Encode(), nil, &resp); err != nil {
			return nil, err
		}
		all = append(all, resp.Agents...)
		if resp.Metadata.NextCursor == "" {
			break
		}
		cursor = resp.Metadata.NextCursor
	}

	return all, nil
}

// GetAgent returns an agent by id
func (c *Client) GetAgent(id string) (*models.Agent, error) {
	var out models.Agent
	if err := c.doJSONRequest(http.MethodGet, "/agents/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, fmt.Errorf("failed to get agent: %w", err)
	}
	return &out, nil
}

// CreateAgent stores a new agent
func (c *Client) CreateAgent(cfg *models.AgentConfig) (*models.Agent, error) {
	var out models.Agent
	if err := c.doJSONRequest(http.MethodPost, "/agents", cfg, &out); err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}
	return &out, nil
}

// UpdateAgent replaces an agent's configuration
func (c *Client) UpdateAgent(id string, cfg *models.AgentConfig) (*models.Agent, error) {
	var out models.Agent
	if err := c.doJSONRequest(http.MethodPut, "/agents/"+url.PathEscape(id), cfg, &out); err != nil {
		return nil, fmt.Errorf("failed to update agent: %w", err)
	}
	return &out, nil
}

// DeleteAgent removes an agent
func (c *Client) DeleteAgent(id string) error {
	if err := c.doJSONRequest(http.MethodDelete, "/agents/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete agent: %w", err)
	}
	return nil
}

// ExportAgent downloads an agent in the given format ("jaf" or "json").
func (c *Client) ExportAgent(id, format string) (*Export, error) {
	path := "/agents/" + url.PathEscape(id) + "/export"
	if format != "" {
		path += "?format=" + url.QueryEscape(format)
	}
	req, err := c.newRequest(http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to export agent: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read export: %w", err)
	}
	return &Export{
		Filename:    attachmentFilename(resp.Header.Get("Content-Disposition")),
		ContentType: resp.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}

// ImportAgent parses a JAF module on the server, optionally storing it as a draft.
func (c *Client) ImportAgent(source string, create bool) (*ImportResponse, error) {
	body := map[string]any{"source": source, "create": create}
	var out ImportResponse
	if err := c.doJSONRequest(http.MethodPost, "/agents/import", body, &out); err != nil {
		return nil, fmt.Errorf("failed to import agent: %w", err)
	}
	return &out, nil
}

// ListTools returns the tool catalog, optionally restricted to a category.
func (c *Client) ListTools(category string) ([]models.Tool, error) {
	path := "/tools"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}
	var resp models.ToolListResponse
	if err := c.doJSONRequest(http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tools, nil
}

// GetTool returns a tool by id
func (c *Client) GetTool(id string) (*models.Tool, error) {
	var out models.Tool
	if err := c.doJSONRequest(http.MethodGet, "/tools/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, fmt.Errorf("failed to get tool: %w", err)
	}
	return &out, nil
}

// CreateTool adds a custom tool to the catalog
func (c *Client) CreateTool(tool *models.ToolJSON) (*models.Tool, error) {
	var out models.Tool
	if err := c.doJSONRequest(http.MethodPost, "/tools", tool, &out); err != nil {
		return nil, fmt.Errorf("failed to create tool: %w", err)
	}
	return &out, nil
}

// ListModels returns the model catalog
func (c *Client) ListModels() (*ModelsResponse, error) {
	var out ModelsResponse
	if err := c.doJSONRequest(http.MethodGet, "/models", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func asHTTPStatus(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

// problemDetail pulls the detail out of an RFC 9457 problem body, falling back to the raw text.
func problemDetail(body []byte) string {
	var problem struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &problem); err == nil && problem.Detail != "" {
		return problem.Detail
	}
	return strings.TrimSpace(string(body))
}

func attachmentFilename(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}
