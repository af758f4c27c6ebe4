// Package untis provides a WebUntis JSON-RPC client for fetching school years, classes and timetables.
package untis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CookieName is the session cookie WebUntis expects after authentication.
const CookieName = "JSESSIONID"

// codeNotAuthenticated is the JSON-RPC error code for a missing or expired session.
const codeNotAuthenticated = -8520

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNoSchoolYear     = errors.New("no current school year")
)

// RPCError is an error returned by the JSON-RPC endpoint.
type RPCError struct {
	Method  string `json:"-"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("webuntis %s: %s (code %d)", e.Method, e.Message, e.Code)
}

func (e *RPCError) Unwrap() error {
	if e.Code == codeNotAuthenticated {
		return ErrNotAuthenticated
	}
	return nil
}

// Config holds everything needed to talk to a WebUntis server.
type Config struct {
	// Server is a host name such as "herakles.webuntis.com" or a full base URL.
	Server    string
	School    string
	Username  string
	Password  string
	UserAgent string
	// Location is used to interpret the local dates and times WebUntis returns.
	Location   *time.Location
	HTTPClient *http.Client
}

type Client struct {
	httpClient *http.Client
	endpoint   string
	cfg        Config

	mu        sync.RWMutex
	sessionID string
}

func NewClient(cfg Config) *Client {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	base := cfg.Server
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	return &Client{
		httpClient: httpClient,
		endpoint: fmt.Sprintf("%s/WebUntis/jsonrpc.do?school=%s",
			strings.TrimSuffix(base, "/"), url.QueryEscape(cfg.School)),
		cfg: cfg,
	}
}

// School returns the configured school name.
func (c *Client) School() string {
	return c.cfg.School
}

type rpcRequest struct {
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
	JSONRPC string `json:"jsonrpc"`
}

type rpcResponse struct {
	ID     string          `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

func (c *Client) call(ctx context.Context, method string, params any, result any) error {
	if params == nil {
		params = struct{}{}
	}
	body, err := json.Marshal(rpcRequest{
		ID:      uuid.NewString(),
		Method:  method,
		Params:  params,
		JSONRPC: "2.0",
	})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	if c.cfg.UserAgent != "" {
		request.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	c.mu.RLock()
	if c.sessionID != "" {
		request.AddCookie(&http.Cookie{Name: CookieName, Value: c.sessionID})
	}
	c.mu.RUnlock()

	slog.Debug("webuntis request", "method", method)

	resp, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("failed to send %s request: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webuntis %s returned status %d", method, resp.StatusCode)
	}

	var response rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if response.Error != nil {
		response.Error.Method = method
		return response.Error
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(response.Result, result); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	return nil
}

// Login authenticates and keeps the session for subsequent calls.
func (c *Client) Login(ctx context.Context) error {
	var result struct {
		SessionID string `json:"sessionId"`
	}
	params := map[string]string{
		"user":     c.cfg.Username,
		"password": c.cfg.Password,
		"client":   c.cfg.UserAgent,
	}
	if err := c.call(ctx, "authenticate", params, &result); err != nil {
		return fmt.Errorf("login as %s: %w", c.cfg.Username, err)
	}
	if result.SessionID == "" {
		return fmt.Errorf("login as %s: %w", c.cfg.Username, ErrNotAuthenticated)
	}

	c.mu.Lock()
	c.sessionID = result.SessionID
	c.mu.Unlock()
	return nil
}

// Logout ends the session. It is a no-op when not logged in.
func (c *Client) Logout(ctx context.Context) error {
	c.mu.RLock()
	loggedIn := c.sessionID != ""
	c.mu.RUnlock()
	if !loggedIn {
		return nil
	}
	err := c.call(ctx, "logout", nil, nil)

	c.mu.Lock()
	c.sessionID = ""
	c.mu.Unlock()
	return err
}
