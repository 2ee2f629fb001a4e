package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kralphs/testcontainers-couchbase/pkg/spec"
)

// HTTPClient implements Client against a live node. It holds two
// sessions: one bound to the management port for administration calls
// and one bound to the query port for statement execution. Both carry
// basic auth on every request; the unconfigured node ignores the
// credentials and /settings/web later fixes them to the same pair, so
// a single pair spans the whole bootstrap.
type HTTPClient struct {
	mgmtBase  string
	queryBase string
	username  string
	password  string
	mgmt      *http.Client
	query     *http.Client
}

// HTTPOption configures an HTTPClient.
type HTTPOption func(*HTTPClient)

// WithTransportRetry overrides the bounded transport retry budget on
// both sessions.
func WithTransportRetry(attempts int, delay time.Duration) HTTPOption {
	return func(c *HTTPClient) {
		c.mgmt.Transport = &RetryTransport{Base: http.DefaultTransport, Attempts: attempts, Delay: delay}
		c.query.Transport = &RetryTransport{Base: http.DefaultTransport, Attempts: attempts, Delay: delay}
	}
}

// WithHTTPTimeout overrides the per-request timeout on both sessions.
func WithHTTPTimeout(d time.Duration) HTTPOption {
	return func(c *HTTPClient) {
		c.mgmt.Timeout = d
		c.query.Timeout = d
	}
}

// NewHTTPClient creates a client for the node reachable at host with
// the given mapped management and query ports.
func NewHTTPClient(host string, mgmtPort, queryPort int, username, password string, opts ...HTTPOption) *HTTPClient {
	c := &HTTPClient{
		mgmtBase:  fmt.Sprintf("http://%s:%d", host, mgmtPort),
		queryBase: fmt.Sprintf("http://%s:%d", host, queryPort),
		username:  username,
		password:  password,
		mgmt:      &http.Client{Transport: NewRetryTransport(nil), Timeout: 2 * time.Minute},
		query:     &http.Client{Transport: NewRetryTransport(nil), Timeout: 2 * time.Minute},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClusterInfo implements NodeManager.
func (c *HTTPClient) ClusterInfo(ctx context.Context) (*PoolsInfo, error) {
	var info PoolsInfo
	if err := c.getJSON(ctx, "/pools", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// RenameNode implements NodeManager.
func (c *HTTPClient) RenameNode(ctx context.Context, hostname string) error {
	return c.submitForm(ctx, http.MethodPost, "/node/controller/rename", url.Values{
		"hostname": {hostname},
	})
}

// InitializeServices implements NodeManager.
func (c *HTTPClient) InitializeServices(ctx context.Context, services []spec.Service) error {
	idents := make([]string, 0, len(services))
	for _, svc := range services {
		idents = append(idents, string(svc))
	}
	return c.submitForm(ctx, http.MethodPost, "/node/controller/setupServices", url.Values{
		"services": {strings.Join(idents, ",")},
	})
}

// SetMemoryQuotas implements NodeManager.
func (c *HTTPClient) SetMemoryQuotas(ctx context.Context, quotas map[spec.Service]int) error {
	form := url.Values{}
	for svc, mb := range quotas {
		field := svc.QuotaField()
		if field == "" {
			continue
		}
		form.Set(field, strconv.Itoa(mb))
	}
	return c.submitForm(ctx, http.MethodPost, "/pools/default", form)
}

// SetAdminCredentials implements NodeManager.
func (c *HTTPClient) SetAdminCredentials(ctx context.Context, username, password string) error {
	return c.submitForm(ctx, http.MethodPost, "/settings/web", url.Values{
		"username": {username},
		"password": {password},
		"port":     {"SAME"},
	})
}

// SetExternalAddresses implements NodeManager.
func (c *HTTPClient) SetExternalAddresses(ctx context.Context, hostname string, ports map[string]int) error {
	form := url.Values{"hostname": {hostname}}
	for field, port := range ports {
		form.Set(field, strconv.Itoa(port))
	}
	return c.submitForm(ctx, http.MethodPut, "/node/controller/setupAlternateAddresses/external", form)
}

// ConfigureIndexer implements NodeManager.
func (c *HTTPClient) ConfigureIndexer(ctx context.Context, storageMode string) error {
	return c.submitForm(ctx, http.MethodPost, "/settings/indexes", url.Values{
		"storageMode": {storageMode},
	})
}

// CreateBucket implements BucketManager.
func (c *HTTPClient) CreateBucket(ctx context.Context, name string, quotaMB int, flushEnabled bool) error {
	flush := "0"
	if flushEnabled {
		flush = "1"
	}
	return c.submitForm(ctx, http.MethodPost, "/pools/default/buckets", url.Values{
		"name":         {name},
		"ramQuotaMB":   {strconv.Itoa(quotaMB)},
		"flushEnabled": {flush},
	})
}

// BucketConfig implements BucketManager.
func (c *HTTPClient) BucketConfig(ctx context.Context, name string) (*TerseConfig, error) {
	var cfg TerseConfig
	if err := c.getJSON(ctx, "/pools/default/b/"+url.PathEscape(name), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// CreateScope implements BucketManager.
func (c *HTTPClient) CreateScope(ctx context.Context, bucket, scope string) error {
	path := fmt.Sprintf("/pools/default/buckets/%s/scopes", url.PathEscape(bucket))
	return c.submitForm(ctx, http.MethodPost, path, url.Values{"name": {scope}})
}

// CreateCollection implements BucketManager.
func (c *HTTPClient) CreateCollection(ctx context.Context, bucket, scope, collection string, maxTTL int) error {
	path := fmt.Sprintf("/pools/default/buckets/%s/scopes/%s/collections", url.PathEscape(bucket), url.PathEscape(scope))
	form := url.Values{"name": {collection}}
	if maxTTL > 0 {
		form.Set("maxTTL", strconv.Itoa(maxTTL))
	}
	return c.submitForm(ctx, http.MethodPost, path, form)
}

// Query implements QueryRunner.
func (c *HTTPClient) Query(ctx context.Context, statement string) (*QueryResult, error) {
	form := url.Values{"statement": {statement}}
	req, err := c.newRequest(ctx, http.MethodPost, c.queryBase+"/query/service", form)
	if err != nil {
		return nil, err
	}

	resp, err := c.query.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var result QueryResult
	if jsonErr := json.Unmarshal(body, &result); jsonErr != nil {
		// Query failures still arrive as JSON envelopes; anything else
		// is surfaced as a plain HTTP error.
		return nil, &APIError{Method: http.MethodPost, Path: "/query/service", StatusCode: resp.StatusCode, Body: string(body)}
	}

	if len(result.Errors) > 0 {
		return &result, &QueryError{Statement: statement, Problems: result.Errors}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Method: http.MethodPost, Path: "/query/service", StatusCode: resp.StatusCode, Body: string(body)}
	}
	return &result, nil
}

func (c *HTTPClient) newRequest(ctx context.Context, method, rawURL string, form url.Values) (*http.Request, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.SetBasicAuth(c.username, c.password)
	return req, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, c.mgmtBase+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.mgmt.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Method: http.MethodGet, Path: path, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return json.Unmarshal(body, out)
}

func (c *HTTPClient) submitForm(ctx context.Context, method, path string, form url.Values) error {
	req, err := c.newRequest(ctx, method, c.mgmtBase+path, form)
	if err != nil {
		return err
	}

	resp, err := c.mgmt.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return nil
}
