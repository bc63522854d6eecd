// Package client talks to the job tracker api on behalf of a signed-in user.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	api "github.com/kubev2v/job-tracker/api/v1alpha1"
	"github.com/kubev2v/job-tracker/internal/auth"
	"github.com/kubev2v/job-tracker/pkg/requestid"
	"github.com/pkg/errors"
)

const defaultTimeout = 30 * time.Second

// APIError is a non-2xx response decoded from the api error body.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
	RequestID  string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%d %s", e.StatusCode, e.Message)
	for _, f := range slices.Sorted(maps.Keys(e.Fields)) {
		msg += fmt.Sprintf("; %s %s", f, e.Fields[f])
	}
	return msg
}

type Client struct {
	server     *url.URL
	httpClient *http.Client
	userID     string
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithUserID makes every jobs request on behalf of userID.
func WithUserID(userID string) Option {
	return func(cl *Client) {
		cl.userID = userID
	}
}

func New(serverURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(serverURL, "/"))
	if err != nil {
		return nil, errors.Wrapf(err, "parsing server url %q", serverURL)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("server url %q must be absolute", serverURL)
	}

	c := &Client{
		server:     u,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *Client) SignIn(ctx context.Context) (*api.User, error) {
	var out api.SignInResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/google", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) ListJobs(ctx context.Context) ([]api.Job, error) {
	var out api.JobList
	if err := c.do(ctx, http.MethodGet, "/api/jobs", nil, &out); err != nil {
		return nil, err
	}
	return out.Jobs, nil
}

func (c *Client) CreateJob(ctx context.Context, job api.JobCreate) (*api.Job, error) {
	var out api.JobResponse
	if err := c.do(ctx, http.MethodPost, "/api/jobs", job, &out); err != nil {
		return nil, err
	}
	return &out.Job, nil
}

func (c *Client) UpdateJob(ctx context.Context, id string, update api.JobUpdate) (*api.Job, error) {
	var out api.JobResponse
	if err := c.do(ctx, http.MethodPut, "/api/jobs/"+url.PathEscape(id), update, &out); err != nil {
		return nil, err
	}
	return &out.Job, nil
}

func (c *Client) DeleteJob(ctx context.Context, id string) error {
	var out api.DeleteResponse
	return c.do(ctx, http.MethodDelete, "/api/jobs/"+url.PathEscape(id), nil, &out)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encoding request")
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.server.String()+path, body)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userID != "" {
		req.Header.Set(auth.UserIDHeader, c.userID)
	}
	requestid.Inject(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var e api.Error
		if err := json.NewDecoder(resp.Body).Decode(&e); err == nil && e.Error != "" {
			apiErr.Message = e.Error
			apiErr.Fields = e.Fields
			apiErr.RequestID = e.RequestId
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decoding response")
	}
	return nil
}
