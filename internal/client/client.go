// Package client talks to the formatting service over HTTP. FormatClient
// satisfies notify.Formatter and also uploads finished documents as exports.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/pfscgen/internal/domain"
)

// FormatClient calls POST /generate and POST /exports on a formatting service.
type FormatClient struct {
	baseURL string
	format  domain.Format
	http    *http.Client
}

// Option configures a FormatClient.
type Option func(*FormatClient)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(fc *FormatClient) { fc.http = c }
}

// WithFormat asks the service for the given document syntax.
func WithFormat(f domain.Format) Option {
	return func(fc *FormatClient) { fc.format = f }
}

// New returns a FormatClient for the service at baseURL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) *FormatClient {
	c := &FormatClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		format:  domain.FormatJSON,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// generateResponse is the body of every /generate answer, success or not.
type generateResponse struct {
	Success bool   `json:"success"`
	Config  string `json:"config"`
	Error   string `json:"error"`
}

// Format posts records and returns the document text.
// The body is decoded whatever the HTTP status, because the service reports
// refusals as {"success":false,"error":...}; those come back as
// *domain.CollaboratorError. Everything else is a transport failure.
func (c *FormatClient) Format(ctx context.Context, records []domain.Record) (string, error) {
	body, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("client.FormatClient.Format: encode: %w", err)
	}

	u := c.baseURL + "/generate"
	if c.format != domain.FormatJSON {
		u += "?" + url.Values{"format": {string(c.format)}}.Encode()
	}

	var out generateResponse
	if _, err := c.do(ctx, u, body, &out); err != nil {
		return "", fmt.Errorf("client.FormatClient.Format: %w", err)
	}
	if !out.Success {
		return "", &domain.CollaboratorError{Message: out.Error}
	}
	return out.Config, nil
}

// exportRequest and exportResponse mirror the /exports wire types.
type exportRequest struct {
	Config string `json:"config"`
}

type exportResponse struct {
	ID        uuid.UUID `json:"id"`
	Filename  string    `json:"filename"`
	CreatedAt time.Time `json:"created_at"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateExport uploads an exportable document and returns the stored export.
func (c *FormatClient) CreateExport(ctx context.Context, config string) (domain.Export, error) {
	body, err := json.Marshal(exportRequest{Config: config})
	if err != nil {
		return domain.Export{}, fmt.Errorf("client.FormatClient.CreateExport: encode: %w", err)
	}

	raw, err := c.do(ctx, c.baseURL+"/exports", body, nil)
	if err != nil {
		return domain.Export{}, fmt.Errorf("client.FormatClient.CreateExport: %w", err)
	}
	if raw.status != http.StatusCreated {
		var e errorResponse
		_ = json.Unmarshal(raw.body, &e)
		return domain.Export{}, fmt.Errorf("client.FormatClient.CreateExport: status %d: %s", raw.status, e.Error.Message)
	}

	var out exportResponse
	if err := json.Unmarshal(raw.body, &out); err != nil {
		return domain.Export{}, fmt.Errorf("client.FormatClient.CreateExport: decode: %w", err)
	}
	return domain.Export{
		ID:          out.ID,
		Filename:    out.Filename,
		ContentType: domain.ExportContentType,
		Config:      config,
		CreatedAt:   out.CreatedAt,
	}, nil
}

type rawResponse struct {
	status int
	body   []byte
}

// do posts a JSON body. When into is non-nil the response is decoded into it.
func (c *FormatClient) do(ctx context.Context, u string, body []byte, into any) (rawResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return rawResponse{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return rawResponse{}, err
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return rawResponse{}, fmt.Errorf("read response: %w", err)
	}
	raw := rawResponse{status: resp.StatusCode, body: buf.Bytes()}

	if into != nil {
		if err := json.Unmarshal(raw.body, into); err != nil {
			return raw, fmt.Errorf("decode response (status %d): %w", raw.status, err)
		}
	}
	return raw, nil
}
