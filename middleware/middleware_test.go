// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/tierboard/models"
)

func TestWithLogging_RecordsStatus(t *testing.T) {
	testCases := []struct {
		name   string
		write  func(w http.ResponseWriter)
		status int
	}{
		{"explicit status", func(w http.ResponseWriter) { w.WriteHeader(http.StatusTeapot) }, http.StatusTeapot},
		{"server error", func(w http.ResponseWriter) { w.WriteHeader(http.StatusBadGateway) }, http.StatusBadGateway},
		{"implicit ok", func(w http.ResponseWriter) { _, _ = w.Write([]byte("ok")) }, http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var rec *statusRecorder
			handler := WithLogging(func(w http.ResponseWriter, r *http.Request) {
				tc.write(w)
				rec = w.(*statusRecorder)
			})

			w := httptest.NewRecorder()
			handler(w, httptest.NewRequest(http.MethodGet, "/projects/demo", nil))

			require.NotNil(t, rec)
			assert.Equal(t, tc.status, rec.status)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	testCases := []struct {
		name     string
		adminKey string
		key      string
		expected int
	}{
		{"correct key", "secret", "secret", http.StatusNoContent},
		{"wrong key", "secret", "nope", http.StatusUnauthorized},
		{"missing key", "secret", "", http.StatusUnauthorized},
		{"unset admin key locks everything", "", "", http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			handler := RequireAdmin(tc.adminKey, func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodDelete, "/projects/demo/items/x", nil)
			if tc.key != "" {
				req.Header.Set(AdminKeyHeader, tc.key)
			}
			w := httptest.NewRecorder()
			handler(w, req)

			assert.Equal(t, tc.expected, w.Code)
			assert.Equal(t, tc.expected == http.StatusNoContent, called)
			if tc.expected == http.StatusUnauthorized {
				var body models.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, "Unauthorized", body.Error)
				assert.Equal(t, "Invalid admin key", body.Message)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="demo.zip"`)
		_, _ = w.Write([]byte("handled"))
	}))

	t.Run("preflight short-circuits", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/projects/demo/submissions", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "Content-Type, X-Admin-Key, X-Participant-ID", w.Header().Get("Access-Control-Allow-Headers"))
		assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	})

	t.Run("downloads expose their filename", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/projects/demo/export", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "handled", w.Body.String())
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "Content-Disposition", w.Header().Get("Access-Control-Expose-Headers"))
		assert.Equal(t, `attachment; filename="demo.zip"`, w.Header().Get("Content-Disposition"))
	})
}

func TestGetClientIP(t *testing.T) {
	testCases := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expected   string
	}{
		{"first hop of a forwarded chain", map[string]string{"X-Forwarded-For": " 203.0.113.195 , 70.41.3.18"}, "127.0.0.1:1", "203.0.113.195"},
		{"real ip header", map[string]string{"X-Real-IP": " 203.0.113.50 "}, "10.0.0.1:1", "203.0.113.50"},
		{"ipv6 remote with port", nil, "[::1]:12345", "::1"},
		{"ipv4 remote with port", nil, "192.168.1.50:54321", "192.168.1.50"},
		{"remote without port", nil, "192.168.1.50", "192.168.1.50"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remoteAddr
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tc.expected, GetClientIP(req))
		})
	}
}
