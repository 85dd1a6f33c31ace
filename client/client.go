// Package client provides a Go client for the Mini Store admin API and the
// canvas state machine the builder UI drives. The Client handles transport
// concerns (session token, save nonce, response envelope); Canvas holds the
// in-memory field list between saves.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Field is a palette entry from the server's field catalog.
type Field struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
	Icon        string `json:"icon"`
	Kind        string `json:"type"`
}

// SavedField is one entry of the persisted checkout configuration.
type SavedField struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
	Required    bool   `json:"required"`
	Order       int    `json:"order"`
}

// FieldSubmission is the wire format of one entry in a save request.
// Required is carried as "1"/"0" the way the builder form encodes it.
type FieldSubmission struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
	Required    string `json:"required"`
	Order       int    `json:"order"`
}

// Bootstrap is the payload the builder page loads on open.
type Bootstrap struct {
	Action     string       `json:"action"`
	NonceField string       `json:"nonceField"`
	Nonce      string       `json:"nonce"`
	Fields     []Field      `json:"fields"`
	Saved      []SavedField `json:"saved"`
}

// Client talks to the Mini Store admin API. Safe for use from a single
// goroutine; the Canvas serializes saves on top of it.
type Client struct {
	baseURL string
	http    *http.Client
	token   string

	// save coordinates from the last Bootstrap call
	action     string
	nonceField string
	nonce      string
}

// New creates a client for the API rooted at baseURL (e.g.
// "http://127.0.0.1:8080").
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Login authenticates and stores the session token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var res struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login",
		map[string]string{"email": email, "password": password}, &res)
	if err != nil {
		return err
	}
	c.token = res.Token
	return nil
}

// LoadBuilder fetches the builder bootstrap payload and remembers the save
// nonce it carries.
func (c *Client) LoadBuilder(ctx context.Context) (*Bootstrap, error) {
	var boot Bootstrap
	if err := c.do(ctx, http.MethodGet, "/api/v1/builder", nil, &boot); err != nil {
		return nil, err
	}
	c.action = boot.Action
	c.nonceField = boot.NonceField
	c.nonce = boot.Nonce
	return &boot, nil
}

// SaveFields submits the full field list, replacing the stored
// configuration. LoadBuilder must have been called first so the request can
// carry the server-issued nonce.
func (c *Client) SaveFields(ctx context.Context, fields []FieldSubmission) error {
	if c.nonce == "" {
		return fmt.Errorf("client: no save nonce, call LoadBuilder first")
	}
	if fields == nil {
		fields = []FieldSubmission{}
	}
	body := map[string]any{
		"action": c.action,
		"fields": fields,
	}
	body[c.nonceField] = c.nonce

	var res struct {
		Message string `json:"message"`
	}
	return c.do(ctx, http.MethodPost, "/api/v1/builder/fields", body, &res)
}

// do performs one request and decodes either the plain JSON response or the
// {"success":..., "data":...} envelope the save endpoints use.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var raw struct {
		Success *bool           `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	dec := json.NewDecoder(resp.Body)

	// Envelope responses carry their own success flag; everything else is
	// judged by status code.
	var payload json.RawMessage
	if err := dec.Decode(&payload); err != nil {
		return fmt.Errorf("client: %s %s: unreadable response (status %d)", method, path, resp.StatusCode)
	}
	if err := json.Unmarshal(payload, &raw); err == nil && raw.Success != nil {
		if !*raw.Success {
			var data struct {
				Message string `json:"message"`
			}
			json.Unmarshal(raw.Data, &data)
			if data.Message == "" {
				data.Message = fmt.Sprintf("request failed with status %d", resp.StatusCode)
			}
			return fmt.Errorf("client: %s %s: %s", method, path, data.Message)
		}
		if out != nil {
			return json.Unmarshal(raw.Data, out)
		}
		return nil
	}

	if resp.StatusCode >= 400 {
		if raw.Error != "" {
			return fmt.Errorf("client: %s %s: %s", method, path, raw.Error)
		}
		return fmt.Errorf("client: %s %s: status %d", method, path, resp.StatusCode)
	}
	if out != nil {
		return json.Unmarshal(payload, out)
	}
	return nil
}
