// Package client talks to the phonestore HTTP API and keeps the operator's
// local copy of the inventory in step with the server's responses.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"phonestore/internal/inventory"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("api returned status %d: %s", e.StatusCode, e.Message)
}

// Is lets errors.Is match a 404 against inventory.ErrNotFound.
func (e *APIError) Is(target error) bool {
	return target == inventory.ErrNotFound && e.StatusCode == http.StatusNotFound
}

// APIClient is a typed client for the /api/phones routes.
type APIClient struct {
	baseURL string
	http    *http.Client
}

// NewAPIClient creates a client for the API at baseURL.
// A non-positive timeout leaves requests bounded only by their context.
func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// List fetches the full collection.
func (c *APIClient) List(ctx context.Context) ([]inventory.Phone, error) {
	var phones []inventory.Phone
	if err := c.do(ctx, http.MethodGet, "/api/phones", nil, &phones); err != nil {
		return nil, fmt.Errorf("listing phones: %w", err)
	}
	if phones == nil {
		phones = []inventory.Phone{}
	}
	return phones, nil
}

// Create submits a new phone and returns the stored record.
func (c *APIClient) Create(ctx context.Context, p inventory.Phone) (inventory.Phone, error) {
	var created inventory.Phone
	if err := c.do(ctx, http.MethodPost, "/api/phones", p, &created); err != nil {
		return inventory.Phone{}, fmt.Errorf("creating phone: %w", err)
	}
	return created, nil
}

// Update sends a partial update and returns the merged record.
func (c *APIClient) Update(ctx context.Context, id int64, patch inventory.Patch) (inventory.Phone, error) {
	var updated inventory.Phone
	if err := c.do(ctx, http.MethodPut, phonePath(id), patch, &updated); err != nil {
		return inventory.Phone{}, fmt.Errorf("updating phone %d: %w", id, err)
	}
	return updated, nil
}

// Delete removes the phone with the given id.
func (c *APIClient) Delete(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, phonePath(id), nil, nil); err != nil {
		return fmt.Errorf("deleting phone %d: %w", id, err)
	}
	return nil
}

func phonePath(id int64) string {
	return "/api/phones/" + strconv.FormatInt(id, 10)
}

// do sends one request. in is encoded as the JSON body when non-nil; a 2xx
// body is decoded into out when out is non-nil.
func (c *APIClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var eb struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&eb) == nil {
			apiErr.Message = eb.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
