package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	custom_error "github.com/Alejano1/GestInvLab-proyecto/pkg/errors"
	"github.com/Alejano1/GestInvLab-proyecto/pkg/models"

	"go.uber.org/zap"
)

const loginPath = "/api-token-auth/"

var ErrInvalidCredentials = errors.New("invalid username or password")

// Credential is the session state the gateway reads the token from and
// tears down when the API answers 401. Once invalidated it sends nothing more.
type Credential interface {
	Token() string
	Invalidate()
	Invalidated() bool
}

// Requester is what every screen module needs from the gateway.
type Requester interface {
	Do(ctx context.Context, cred Credential, method, path string, body, result interface{}) error
}

type Client struct {
	baseURL    string
	scheme     string
	httpClient *http.Client
	logger     *zap.Logger
	onExpire   func(Credential)
	onReach    func(reachable bool)
}

func NewClient(baseURL, scheme string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    baseURL,
		scheme:     scheme,
		httpClient: httpClient,
		logger:     logger,
	}
}

// OnSessionExpired registers the hook run after a credential was invalidated.
func (c *Client) OnSessionExpired(fn func(Credential)) {
	c.onExpire = fn
}

// OnReachability registers the hook told after every round trip whether the
// API answered at all.
func (c *Client) OnReachability(fn func(reachable bool)) {
	c.onReach = fn
}

func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	var auth models.AuthResponse

	status, body, err := c.send(ctx, nil, http.MethodPost, loginPath, creds)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, &custom_error.APIError{Status: status, Body: body})
	}
	if err := json.Unmarshal(body, &auth); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	if auth.Token == "" {
		return nil, fmt.Errorf("%w: response carried no token", ErrInvalidCredentials)
	}

	return &auth, nil
}

// Do sends one JSON request. A 401 invalidates cred and yields ErrSessionExpired;
// an already invalidated cred yields it without sending.
func (c *Client) Do(ctx context.Context, cred Credential, method, path string, body, result interface{}) error {
	if cred != nil && cred.Invalidated() {
		return custom_error.ErrSessionExpired
	}

	status, respBody, err := c.send(ctx, cred, method, path, body)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized {
		c.logger.Warn("Inventory API rejected the session token", zap.String("method", method), zap.String("path", path))
		if cred != nil {
			cred.Invalidate()
			if c.onExpire != nil {
				c.onExpire(cred)
			}
		}
		return custom_error.ErrSessionExpired
	}

	if status < 200 || status > 299 {
		c.logger.Warn("Inventory API request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
		return &custom_error.APIError{Status: status, Body: respBody}
	}

	if result == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		c.logger.Warn("Inventory API accepted the request but its response is unreadable",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Error(err),
		)
		return fmt.Errorf("%w: decode %s %s response: %v", custom_error.ErrUnreadableResponse, method, path, err)
	}

	return nil
}

func (c *Client) Get(ctx context.Context, cred Credential, path string, result interface{}) error {
	return c.Do(ctx, cred, http.MethodGet, path, nil, result)
}

func (c *Client) Post(ctx context.Context, cred Credential, path string, body, result interface{}) error {
	return c.Do(ctx, cred, http.MethodPost, path, body, result)
}

func (c *Client) Patch(ctx context.Context, cred Credential, path string, body, result interface{}) error {
	return c.Do(ctx, cred, http.MethodPatch, path, body, result)
}

func (c *Client) send(ctx context.Context, cred Credential, method, path string, body interface{}) (int, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if cred != nil {
		if token := cred.Token(); token != "" {
			req.Header.Set("Authorization", c.scheme+" "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	c.reachable(err == nil)
	if err != nil {
		return 0, nil, &custom_error.TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &custom_error.TransportError{Op: "read " + path, Err: err}
	}

	return resp.StatusCode, respBody, nil
}

func (c *Client) reachable(ok bool) {
	if c.onReach != nil {
		c.onReach(ok)
	}
}
