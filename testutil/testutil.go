// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/tierboard/auth"
	"github.com/danielhkuo/tierboard/blob"
	"github.com/danielhkuo/tierboard/cliparse"
	"github.com/danielhkuo/tierboard/db"
	"github.com/danielhkuo/tierboard/metrics"
	"github.com/danielhkuo/tierboard/models"
)

// TestAdminKey is the shared secret in GetTestConfig
const TestAdminKey = "test-admin-key"

// SetupTestDB creates a fresh in-memory SQLite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// Every pooled connection to :memory: is a separate database
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig(t *testing.T) cliparse.Config {
	t.Helper()
	return cliparse.Config{
		Port:              3318,
		DatabaseURL:       ":memory:",
		DatabaseType:      "sqlite",
		AdminKey:          TestAdminKey,
		ImageDir:          t.TempDir(),
		PublicBaseURL:     "http://tier.test",
		AllowedImageHosts: []string{"tier.test"},
		MaxUploadBytes:    1 << 20,
		RateLimitRPS:      1000,
		RateLimitBurst:    1000,
	}
}

// SetupTestBlobs opens a blob store in the config's image dir
func SetupTestBlobs(t *testing.T, cfg cliparse.Config) *blob.Store {
	t.Helper()

	store, err := blob.Open(cfg.ImageDir, cfg.PublicBaseURL)
	if err != nil {
		t.Fatalf("Failed to open blob store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// TestMetrics returns metrics bound to a throwaway registry
func TestMetrics() *metrics.Metrics {
	return metrics.New(prometheus.NewRegistry())
}

// PNGBytes returns a small valid PNG image
func PNGBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		img.Set(x, x, color.RGBA{R: 0xff, A: 0xff})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	return buf.Bytes()
}

// PNGClaiming returns a tiny PNG whose header declares width x height
func PNGClaiming(t *testing.T, width, height uint32) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	data := buf.Bytes()
	// IHDR follows the 8 byte signature: length, type, 13 bytes of data, CRC
	binary.BigEndian.PutUint32(data[16:20], width)
	binary.BigEndian.PutUint32(data[20:24], height)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

// NewParticipantID returns a fresh valid participant id
func NewParticipantID() string {
	return auth.NewParticipantID()
}

// CreateTestProject creates a project and returns its ID
func CreateTestProject(t *testing.T, conn *sql.DB, title string) string {
	t.Helper()

	projectID, _ := auth.GenerateID(6)
	if _, err := db.NewStore(conn).UpsertProject(context.Background(), projectID, title); err != nil {
		t.Fatalf("Failed to create test project: %v", err)
	}
	return projectID
}

// AddTestItem adds a catalog item and returns it
func AddTestItem(t *testing.T, conn *sql.DB, projectID, name string) models.Item {
	t.Helper()

	it, err := db.NewStore(conn).AddItem(context.Background(), projectID, name, "http://tier.test/images/"+projectID+"/"+name+".png")
	if err != nil {
		t.Fatalf("Failed to create test item: %v", err)
	}
	return it
}

// SubmitTestBoard stores a submission for a participant
func SubmitTestBoard(t *testing.T, conn *sql.DB, projectID, participantID, name string, b models.Board) {
	t.Helper()

	if _, err := db.NewStore(conn).UpsertSubmission(context.Background(), projectID, participantID, name, b); err != nil {
		t.Fatalf("Failed to create test submission: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
