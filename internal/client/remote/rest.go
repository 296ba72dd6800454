package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/avasiljevs/healthsync/internal/common"
	"github.com/avasiljevs/healthsync/internal/logging"
)

const requestTimeout = 12 * time.Second

// RESTClient talks JSON over HTTP to the backend. It holds the session
// token of the current account and attaches it to authenticated calls.
type RESTClient struct {
	baseURL string
	http    *http.Client
	log     logging.Logger

	mu    sync.Mutex
	token string
}

var _ Client = (*RESTClient)(nil)

// NewRESTClient builds a client for the given base URL (scheme://host:port).
func NewRESTClient(baseURL string, log logging.Logger) *RESTClient {
	return &RESTClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
		log:     log,
	}
}

func (c *RESTClient) SetSessionToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *RESTClient) sessionToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

type apiError struct {
	Error string `json:"error"`
}

// doJSON issues one request and decodes the 2xx response body into out
// (out may be nil). Non-2xx and transport failures come back classified.
func (c *RESTClient) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.sessionToken(); token != "" {
		req.Header.Set(common.SessionTokenHeaderName, token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrNetworkUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var ae apiError
		_ = json.NewDecoder(resp.Body).Decode(&ae)
		return classifyStatus(resp.StatusCode, ae.Error)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// classifyStatus maps a non-2xx response to the shared error taxonomy.
func classifyStatus(status int, msg string) error {
	var base error
	switch {
	case status == http.StatusUnauthorized:
		base = common.ErrUnauthorized
	case status == http.StatusNotFound:
		base = common.ErrNotFound
	case status >= 500:
		base = common.ErrServer
	default:
		base = common.ErrRequest
	}
	if msg == "" {
		return fmt.Errorf("%w (status %d)", base, status)
	}
	return fmt.Errorf("%w: %s", base, msg)
}

func (c *RESTClient) Ping(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/1/ping", nil, nil)
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *RESTClient) SignUp(ctx context.Context, username, password string) (*Account, error) {
	var acc Account
	if err := c.doJSON(ctx, http.MethodPost, "/1/users", credentials{username, password}, &acc); err != nil {
		return nil, err
	}
	c.SetSessionToken(acc.SessionToken)
	return &acc, nil
}

func (c *RESTClient) Login(ctx context.Context, username, password string) (*Account, error) {
	var acc Account
	if err := c.doJSON(ctx, http.MethodPost, "/1/login", credentials{username, password}, &acc); err != nil {
		return nil, err
	}
	c.SetSessionToken(acc.SessionToken)
	return &acc, nil
}

func (c *RESTClient) CurrentAccount(ctx context.Context) (*Account, error) {
	var acc Account
	if err := c.doJSON(ctx, http.MethodGet, "/1/accounts/me", nil, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

type recordList struct {
	Results []*Record `json:"results"`
}

func (c *RESTClient) QueryRecords(ctx context.Context, accountID string) ([]*Record, error) {
	var list recordList
	path := "/1/records?accountId=" + url.QueryEscape(accountID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return list.Results, nil
}

type createRecordRequest struct {
	AccountID string `json:"accountId"`
	Fields    Fields `json:"fields"`
}

func (c *RESTClient) CreateRecord(ctx context.Context, accountID string, fields Fields) (*Record, error) {
	var rec Record
	if err := c.doJSON(ctx, http.MethodPost, "/1/records", createRecordRequest{accountID, fields}, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

type updateRecordRequest struct {
	Fields Fields `json:"fields"`
}

func (c *RESTClient) UpdateRecord(ctx context.Context, recordID string, fields Fields) (*Record, error) {
	var rec Record
	path := "/1/records/" + url.PathEscape(recordID)
	if err := c.doJSON(ctx, http.MethodPut, path, updateRecordRequest{fields}, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *RESTClient) DeleteRecord(ctx context.Context, recordID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/1/records/"+url.PathEscape(recordID), nil, nil)
}
