package simload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/okian/universus/internal/domain/model"
	"github.com/okian/universus/internal/domain/types"
)

// ErrStatus reports an unexpected HTTP status.
var ErrStatus = errors.New("unexpected status")

// Client calls the simulator API.
type Client struct {
	base   string
	client *http.Client
}

// NewClient returns a Client for baseURL with a per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		base:   baseURL,
		client: &http.Client{Timeout: timeout},
	}
}

type playerBody struct {
	Tiers       model.TierVector  `json:"tiers"`
	WeightClass model.WeightClass `json:"weight_class,omitempty"`
}

type sidesBody struct {
	Side1 []string `json:"side1"`
	Side2 []string `json:"side2"`
}

type jobBody struct {
	Kind  model.MatchKind `json:"kind"`
	Side1 []string        `json:"side1"`
	Side2 []string        `json:"side2"`
}

// JobAck is the response to a job submission.
type JobAck struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
	JobID     string `json:"job_id"`
}

// Health checks the service liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil, nil, http.StatusOK)
}

type sportsBody struct {
	WeightClasses []model.WeightClass `json:"weight_classes"`
}

// WeightClasses lists the weight classes the service knows.
func (c *Client) WeightClasses(ctx context.Context) ([]model.WeightClass, error) {
	var out sportsBody
	err := c.do(ctx, http.MethodGet, "/sports", nil, nil, &out, http.StatusOK)
	return out.WeightClasses, err
}

// Players lists the whole roster.
func (c *Client) Players(ctx context.Context) ([]types.Player, error) {
	var out []types.Player
	err := c.do(ctx, http.MethodGet, "/players", nil, nil, &out, http.StatusOK)
	return out, err
}

// PutPlayer creates or replaces a community player.
func (c *Client) PutPlayer(ctx context.Context, name string, tiers model.TierVector, wc model.WeightClass) (types.Player, error) {
	var out types.Player
	err := c.do(ctx, http.MethodPut, "/players/"+url.PathEscape(name), nil,
		playerBody{Tiers: tiers, WeightClass: wc}, &out, http.StatusOK)
	return out, err
}

// DeletePlayer removes a community player.
func (c *Client) DeletePlayer(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, "/players/"+url.PathEscape(name), nil, nil, nil, http.StatusNoContent)
}

// Multisport plays a best-of-five contest synchronously.
func (c *Client) Multisport(ctx context.Context, side1, side2 []string) (model.MultisportResult, error) {
	var out model.MultisportResult
	err := c.do(ctx, http.MethodPost, "/matches/multisport", nil, sidesBody{Side1: side1, Side2: side2}, &out, http.StatusOK)
	return out, err
}

// SubmitMultisport queues a contest under an idempotency key.
func (c *Client) SubmitMultisport(ctx context.Context, key string, side1, side2 []string) (JobAck, error) {
	var out JobAck
	hdr := http.Header{"Idempotency-Key": []string{key}}
	err := c.do(ctx, http.MethodPost, "/jobs", hdr,
		jobBody{Kind: model.MultisportMatch, Side1: side1, Side2: side2}, &out,
		http.StatusAccepted, http.StatusOK)
	return out, err
}

// Job fetches a job's status.
func (c *Client) Job(ctx context.Context, id string) (types.Job, error) {
	var out types.Job
	err := c.do(ctx, http.MethodGet, "/jobs/"+url.PathEscape(id), nil, nil, &out, http.StatusOK)
	return out, err
}

// WaitJob polls a job until it is terminal or ctx ends.
func (c *Client) WaitJob(ctx context.Context, id string, every time.Duration) (types.Job, error) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		j, err := c.Job(ctx, id)
		if err != nil {
			return types.Job{}, err
		}
		if j.Terminal() {
			return j, nil
		}
		select {
		case <-ctx.Done():
			return types.Job{}, fmt.Errorf("wait for job %s: %w", id, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (c *Client) do(ctx context.Context, method, path string, hdr http.Header, in, out any, want ...int) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	for k, v := range hdr {
		req.Header[k] = v
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}
	if !slices.Contains(want, resp.StatusCode) {
		return fmt.Errorf("%w: %s %s returned %d: %s", ErrStatus, method, path, resp.StatusCode, bytes.TrimSpace(data))
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
