// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package imagefetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrMissingURL    = errors.New("url is required")
	ErrForbiddenHost = errors.New("host is not allowed")
	ErrUpstream      = errors.New("upstream fetch failed")
)

const (
	// CacheControl is sent with every proxied image.
	CacheControl = "public, max-age=3600"

	defaultContentType = "application/octet-stream"
	fetchTimeout       = 15 * time.Second
	maxRedirects       = 3
	maxImageBytes      = 10 << 20
)

// Image is a fetched upstream body.
type Image struct {
	Body        []byte
	ContentType string
}

// Fetcher downloads images from an allow-list of hosts.
type Fetcher struct {
	allowed map[string]struct{}
	client  *http.Client
}

// New builds a Fetcher. A nil client gets a default with a timeout and a
// redirect policy that re-checks the allow-list on every hop.
func New(allowedHosts []string, client *http.Client) *Fetcher {
	f := &Fetcher{allowed: make(map[string]struct{}, len(allowedHosts))}
	for _, h := range allowedHosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			f.allowed[h] = struct{}{}
		}
	}
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}
	c := *client
	c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("too many redirects")
		}
		if !f.hostAllowed(req.URL) {
			return fmt.Errorf("redirect to %s: %w", req.URL.Hostname(), ErrForbiddenHost)
		}
		return nil
	}
	f.client = &c
	return f
}

func (f *Fetcher) hostAllowed(u *url.URL) bool {
	_, ok := f.allowed[strings.ToLower(u.Hostname())]
	return ok
}

// Check parses raw and verifies it points at an allowed host over http(s).
func (f *Fetcher) Check(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrMissingURL
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, ErrForbiddenHost
	}
	if !f.hostAllowed(u) {
		return nil, ErrForbiddenHost
	}
	return u, nil
}

// Fetch downloads raw. Any transport failure or non-2xx status is reported
// as ErrUpstream.
func (f *Fetcher) Fetch(ctx context.Context, raw string) (*Image, error) {
	u, err := f.Check(raw)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("Accept", "image/*, */*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if len(body) > maxImageBytes {
		return nil, fmt.Errorf("%w: image larger than %d bytes", ErrUpstream, maxImageBytes)
	}

	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = defaultContentType
	}
	return &Image{Body: body, ContentType: ct}, nil
}
