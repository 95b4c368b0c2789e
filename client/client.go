// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/danielhkuo/tierboard/middleware"
	"github.com/danielhkuo/tierboard/models"
)

const defaultTimeout = 30 * time.Second

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// File is a downloaded attachment.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Upload is one image sent to the catalog.
type Upload struct {
	Filename string
	Body     io.Reader
}

type Client struct {
	base     string
	h        *http.Client
	adminKey string
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.h = h }
}

// WithAdminKey sets the key sent on catalog management calls.
func WithAdminKey(key string) Option {
	return func(c *Client) { c.adminKey = key }
}

func New(base string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(base, "/"),
		h:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) GetProject(ctx context.Context, projectID string) (models.ProjectWithItems, error) {
	var out models.ProjectWithItems
	err := c.doJSON(ctx, http.MethodGet, projectPath(projectID), nil, nil, &out)
	return out, err
}

// MyBoard returns the participant's stored board fitted to the current catalog.
func (c *Client) MyBoard(ctx context.Context, projectID, participantID string) (models.MyBoardResponse, error) {
	var out models.MyBoardResponse
	err := c.doJSON(ctx, http.MethodGet, projectPath(projectID, "submissions", "me"), participantHeader(participantID), nil, &out)
	return out, err
}

func (c *Client) Submit(ctx context.Context, projectID, participantID, name string, b models.Board) (models.SubmitBoardResponse, error) {
	var out models.SubmitBoardResponse
	body := models.SubmitBoardRequest{ParticipantName: name, Board: b}
	err := c.doJSON(ctx, http.MethodPut, projectPath(projectID, "submissions", "me"), participantHeader(participantID), body, &out)
	return out, err
}

func (c *Client) Results(ctx context.Context, projectID string) (models.ProjectResults, error) {
	var out models.ProjectResults
	err := c.doJSON(ctx, http.MethodGet, projectPath(projectID, "results"), nil, nil, &out)
	return out, err
}

func (c *Client) ResultsWorkbook(ctx context.Context, projectID string) (*File, error) {
	return c.download(ctx, http.MethodGet, projectPath(projectID)+"/results.xlsx", nil)
}

func (c *Client) ResultsChart(ctx context.Context, projectID string) (*File, error) {
	return c.download(ctx, http.MethodGet, projectPath(projectID, "results", "chart.png"), nil)
}

// Export renders b as a PNG on the server.
func (c *Client) Export(ctx context.Context, projectID, name string, b models.Board) (*File, error) {
	raw, err := json.Marshal(models.ExportBoardRequest{ParticipantName: name, Board: b})
	if err != nil {
		return nil, err
	}
	return c.download(ctx, http.MethodPost, projectPath(projectID, "export"), raw)
}

// Admin calls

func (c *Client) UpdateProject(ctx context.Context, projectID, title string) (models.Project, error) {
	var out models.Project
	body := models.UpdateProjectRequest{Title: title}
	err := c.doJSON(ctx, http.MethodPut, projectPath(projectID), c.adminHeader(), body, &out)
	return out, err
}

// AddItems uploads images. A non-empty name overrides the item names; with
// several files the server numbers them.
func (c *Client) AddItems(ctx context.Context, projectID, name string, files []Upload) ([]models.Item, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := mw.CreateFormFile("files", f.Filename)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, f.Body); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.Filename, err)
		}
	}
	if name != "" {
		if err := mw.WriteField("name", name); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, projectPath(projectID, "items"), &buf, c.adminHeader())
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out models.AddItemsResponse
	if err := c.send(req, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) RemoveItem(ctx context.Context, projectID, itemID string) error {
	return c.doJSON(ctx, http.MethodDelete, projectPath(projectID, "items", itemID), c.adminHeader(), nil, nil)
}

func (c *Client) Submissions(ctx context.Context, projectID string) ([]models.Submission, error) {
	var out []models.Submission
	err := c.doJSON(ctx, http.MethodGet, projectPath(projectID, "submissions"), c.adminHeader(), nil, &out)
	return out, err
}

func (c *Client) adminHeader() http.Header {
	h := http.Header{}
	h.Set(middleware.AdminKeyHeader, c.adminKey)
	return h
}

func participantHeader(id string) http.Header {
	h := http.Header{}
	h.Set(middleware.ParticipantHeader, id)
	return h
}

func projectPath(projectID string, rest ...string) string {
	p := "/projects/" + url.PathEscape(projectID)
	for _, r := range rest {
		p += "/" + url.PathEscape(r)
	}
	return p
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, header http.Header) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, err
	}
	for k, v := range header {
		req.Header[k] = v
	}
	return req, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, header http.Header, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := c.newRequest(ctx, method, path, body, header)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.h.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) download(ctx context.Context, method, path string, jsonBody []byte) (*File, error) {
	var body io.Reader
	if jsonBody != nil {
		body = bytes.NewReader(jsonBody)
	}
	req, err := c.newRequest(ctx, method, path, body, nil)
	if err != nil {
		return nil, err
	}
	if jsonBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.h.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	f := &File{ContentType: resp.Header.Get("Content-Type"), Data: data}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		f.Name = params["filename"]
	}
	return f, nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var body models.ErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err == nil {
		apiErr.Message = body.Message
		if apiErr.Message == "" {
			apiErr.Message = body.Error
		}
	}
	return apiErr
}
