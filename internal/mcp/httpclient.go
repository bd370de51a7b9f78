package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/ironcycle/internal/engine"
	"github.com/meltforce/ironcycle/internal/models"
	"github.com/meltforce/ironcycle/internal/storage"
)

// HTTPClient implements DataSource by calling the IronCycle REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// cycle state lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL. The
// API key is only sent on mutating calls.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, payload any) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("httpclient: encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, data)
	}

	return data, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, params, nil)
}

func (c *HTTPClient) CurrentCycle(ctx context.Context) (*models.Cycle, error) {
	body, err := c.get(ctx, "/api/v1/cycles/current", nil)
	if err != nil {
		return nil, err
	}

	var cycle models.Cycle
	if err := json.Unmarshal(body, &cycle); err != nil {
		return nil, fmt.Errorf("httpclient: decode cycle: %w", err)
	}
	return &cycle, nil
}

func (c *HTTPClient) ListTemplates(ctx context.Context) ([]storage.TemplateSummary, error) {
	body, err := c.get(ctx, "/api/v1/templates", nil)
	if err != nil {
		return nil, err
	}

	var summaries []storage.TemplateSummary
	if err := json.Unmarshal(body, &summaries); err != nil {
		return nil, fmt.Errorf("httpclient: decode templates: %w", err)
	}
	return summaries, nil
}

func (c *HTTPClient) GetTemplate(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	body, err := c.get(ctx, "/api/v1/templates/"+id.String(), nil)
	if err != nil {
		return nil, err
	}

	var tpl models.Template
	if err := json.Unmarshal(body, &tpl); err != nil {
		return nil, fmt.Errorf("httpclient: decode template: %w", err)
	}
	return &tpl, nil
}

func (c *HTTPClient) GetTrainingMaxes(ctx context.Context, cycleID uuid.UUID) (map[string]float64, error) {
	body, err := c.get(ctx, "/api/v1/cycles/"+cycleID.String()+"/maxes", nil)
	if err != nil {
		return nil, err
	}

	var maxes map[string]float64
	if err := json.Unmarshal(body, &maxes); err != nil {
		return nil, fmt.Errorf("httpclient: decode training maxes: %w", err)
	}
	return maxes, nil
}

func (c *HTTPClient) QueryLiftLogs(ctx context.Context, cycleID uuid.UUID, lift string) ([]models.LiftLog, error) {
	params := url.Values{}
	if lift != "" {
		params.Set("lift", lift)
	}

	body, err := c.get(ctx, "/api/v1/cycles/"+cycleID.String()+"/logs", params)
	if err != nil {
		return nil, err
	}

	var logs []models.LiftLog
	if err := json.Unmarshal(body, &logs); err != nil {
		return nil, fmt.Errorf("httpclient: decode lift logs: %w", err)
	}
	return logs, nil
}

func (c *HTTPClient) DayPlan(ctx context.Context, cycleID uuid.UUID, week, day int) ([]engine.ResolvedItem, error) {
	params := url.Values{}
	params.Set("week", strconv.Itoa(week))
	params.Set("day", strconv.Itoa(day))

	body, err := c.get(ctx, "/api/v1/cycles/"+cycleID.String()+"/plan", params)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Items []engine.ResolvedItem `json:"items"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("httpclient: decode day plan: %w", err)
	}
	return resp.Items, nil
}

func (c *HTTPClient) LogStructuredSet(ctx context.Context, cycleID uuid.UUID, lift string, week, day, setIndex, reps int) (*float64, error) {
	payload := map[string]any{
		"lift":      lift,
		"week":      week,
		"day":       day,
		"set_index": setIndex,
		"reps":      reps,
	}

	body, err := c.do(ctx, http.MethodPut, "/api/v1/cycles/"+cycleID.String()+"/set-logs", nil, payload)
	if err != nil {
		return nil, err
	}

	var resp struct {
		NewTrainingMax *float64 `json:"new_training_max"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("httpclient: decode set log response: %w", err)
	}
	return resp.NewTrainingMax, nil
}

func (c *HTTPClient) QuerySetHistory(ctx context.Context, start, end time.Time, lift string) ([]models.SetArchiveRow, error) {
	params := url.Values{}
	if !start.IsZero() {
		params.Set("start", start.Format(time.RFC3339))
	}
	if !end.IsZero() {
		params.Set("end", end.Format(time.RFC3339))
	}
	if lift != "" {
		params.Set("lift", lift)
	}

	body, err := c.get(ctx, "/api/v1/archive/sets", params)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Sets []models.SetArchiveRow `json:"sets"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("httpclient: decode set history: %w", err)
	}
	return resp.Sets, nil
}
