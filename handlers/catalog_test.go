// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danielhkuo/tierboard/models"
	"github.com/danielhkuo/tierboard/testutil"
)

type upload struct {
	filename string
	data     []byte
}

// multipartRequest builds a POST /projects/{id}/items request
func multipartRequest(t *testing.T, projectID, name string, files ...upload) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if name != "" {
		if err := mw.WriteField("name", name); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile("files", f.filename)
		if err != nil {
			t.Fatal(err)
		}
		part.Write(f.data)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("POST", "/projects/"+projectID+"/items", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.SetPathValue("id", projectID)
	return req
}

func newCatalogHandler(t *testing.T) (*CatalogHandler, string) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig(t)
	h := NewCatalogHandler(db, cfg, testutil.SetupTestBlobs(t, cfg), testutil.TestMetrics())
	return h, testutil.CreateTestProject(t, db, "Snacks")
}

func TestGetProject(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig(t)
	handler := NewCatalogHandler(db, cfg, testutil.SetupTestBlobs(t, cfg), testutil.TestMetrics())

	projectID := testutil.CreateTestProject(t, db, "Snacks")
	first := testutil.AddTestItem(t, db, projectID, "chips")
	second := testutil.AddTestItem(t, db, projectID, "pretzels")

	testCases := []struct {
		name           string
		projectID      string
		expectedStatus int
	}{
		{"existing project", projectID, http.StatusOK},
		{"unknown project", "nope", http.StatusNotFound},
		{"invalid id", "bad id!", http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/projects/x", nil)
			req.SetPathValue("id", tc.projectID)
			w := httptest.NewRecorder()

			handler.GetProject(w, req)
			testutil.AssertStatus(t, w, tc.expectedStatus)

			if tc.expectedStatus != http.StatusOK {
				return
			}
			var resp models.ProjectWithItems
			testutil.AssertJSON(t, w, &resp)
			if resp.Project.Title != "Snacks" {
				t.Errorf("Expected title 'Snacks', got '%s'", resp.Project.Title)
			}
			if len(resp.Items) != 2 || resp.Items[0].ID != first.ID || resp.Items[1].ID != second.ID {
				t.Errorf("Expected items in sort order, got %+v", resp.Items)
			}
		})
	}
}

func TestUpdateProject(t *testing.T) {
	handler, _ := newCatalogHandler(t)

	testCases := []struct {
		name           string
		body           string
		expectedStatus int
		expectedTitle  string
	}{
		{"sets title", `{"title":"  Best Snacks  "}`, http.StatusOK, "Best Snacks"},
		{"empty title allowed", `{"title":""}`, http.StatusOK, ""},
		{"invalid JSON", `{title}`, http.StatusBadRequest, ""},
		{"title too long", `{"title":"` + strings.Repeat("x", maxTitleLength+1) + `"}`, http.StatusBadRequest, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("PUT", "/projects/fresh", strings.NewReader(tc.body))
			req.SetPathValue("id", "fresh")
			w := httptest.NewRecorder()

			handler.UpdateProject(w, req)
			testutil.AssertStatus(t, w, tc.expectedStatus)

			if tc.expectedStatus == http.StatusOK {
				var p models.Project
				testutil.AssertJSON(t, w, &p)
				if p.ID != "fresh" || p.Title != tc.expectedTitle {
					t.Errorf("Unexpected project %+v", p)
				}
			}
		})
	}
}

func TestAddItems(t *testing.T) {
	pngData := testutil.PNGBytes(t)

	testCases := []struct {
		name           string
		override       string
		files          []upload
		expectedStatus int
		expectedNames  []string
	}{
		{
			name:           "single file uses override",
			override:       "  Cheese  ",
			files:          []upload{{"a.png", pngData}},
			expectedStatus: http.StatusCreated,
			expectedNames:  []string{"Cheese"},
		},
		{
			name:           "several files are numbered",
			override:       "Fruit",
			files:          []upload{{"a.png", pngData}, {"b.png", pngData}, {"c.png", pngData}},
			expectedStatus: http.StatusCreated,
			expectedNames:  []string{"Fruit_1", "Fruit_2", "Fruit_3"},
		},
		{
			name:           "no override keeps file names",
			files:          []upload{{"apple.png", pngData}, {"pear.png", pngData}},
			expectedStatus: http.StatusCreated,
			expectedNames:  []string{"apple.png", "pear.png"},
		},
		{
			name:           "no files",
			override:       "x",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "not an image",
			files:          []upload{{"notes.txt", []byte("hello there")}},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler, projectID := newCatalogHandler(t)

			req := multipartRequest(t, projectID, tc.override, tc.files...)
			w := httptest.NewRecorder()
			handler.AddItems(w, req)
			testutil.AssertStatus(t, w, tc.expectedStatus)

			if tc.expectedStatus != http.StatusCreated {
				return
			}
			var resp models.AddItemsResponse
			testutil.AssertJSON(t, w, &resp)
			if len(resp.Items) != len(tc.expectedNames) {
				t.Fatalf("Expected %d items, got %d", len(tc.expectedNames), len(resp.Items))
			}
			for i, it := range resp.Items {
				if it.Name != tc.expectedNames[i] {
					t.Errorf("Item %d: expected name '%s', got '%s'", i, tc.expectedNames[i], it.Name)
				}
				if it.SortOrder != i+1 {
					t.Errorf("Item %d: expected sort order %d, got %d", i, i+1, it.SortOrder)
				}
				if !strings.HasPrefix(it.ImageURL, "http://tier.test/images/"+projectID+"/") {
					t.Errorf("Unexpected image URL %s", it.ImageURL)
				}
			}
		})
	}
}

func TestAddItems_ContinuesSortOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig(t)
	handler := NewCatalogHandler(db, cfg, testutil.SetupTestBlobs(t, cfg), testutil.TestMetrics())
	projectID := testutil.CreateTestProject(t, db, "")
	testutil.AddTestItem(t, db, projectID, "existing")

	req := multipartRequest(t, projectID, "", upload{"new.png", testutil.PNGBytes(t)})
	w := httptest.NewRecorder()
	handler.AddItems(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.AddItemsResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Items[0].SortOrder != 2 {
		t.Errorf("Expected sort order 2, got %d", resp.Items[0].SortOrder)
	}
}

// storedImages lists the files written for a project
func storedImages(t *testing.T, imageDir, projectID string) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(imageDir, projectID))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestAddItems_FailedBatchLeavesNoImages(t *testing.T) {
	pngData := testutil.PNGBytes(t)

	t.Run("later file is not an image", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		cfg := testutil.GetTestConfig(t)
		handler := NewCatalogHandler(db, cfg, testutil.SetupTestBlobs(t, cfg), testutil.TestMetrics())
		projectID := testutil.CreateTestProject(t, db, "")

		req := multipartRequest(t, projectID, "", upload{"a.png", pngData}, upload{"b.png", pngData}, upload{"notes.txt", []byte("hello there")})
		w := httptest.NewRecorder()
		handler.AddItems(w, req)
		testutil.AssertStatus(t, w, http.StatusBadRequest)

		if got := storedImages(t, cfg.ImageDir, projectID); len(got) != 0 {
			t.Errorf("Expected no stored images, got %v", got)
		}
	})

	t.Run("database insert fails", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		cfg := testutil.GetTestConfig(t)
		handler := NewCatalogHandler(db, cfg, testutil.SetupTestBlobs(t, cfg), testutil.TestMetrics())
		projectID := testutil.CreateTestProject(t, db, "")
		db.Close()

		req := multipartRequest(t, projectID, "Fruit", upload{"a.png", pngData}, upload{"b.png", pngData})
		w := httptest.NewRecorder()
		handler.AddItems(w, req)
		testutil.AssertStatus(t, w, http.StatusInternalServerError)

		if got := storedImages(t, cfg.ImageDir, projectID); len(got) != 0 {
			t.Errorf("Expected no stored images, got %v", got)
		}
	})
}

func TestAddItems_TooLarge(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig(t)
	cfg.MaxUploadBytes = 1024
	handler := NewCatalogHandler(db, cfg, testutil.SetupTestBlobs(t, cfg), testutil.TestMetrics())

	big := append(testutil.PNGBytes(t), bytes.Repeat([]byte{0}, 4096)...)
	req := multipartRequest(t, "demo", "", upload{"big.png", big})
	w := httptest.NewRecorder()
	handler.AddItems(w, req)
	testutil.AssertStatus(t, w, http.StatusRequestEntityTooLarge)
}

func TestRemoveItem(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig(t)
	handler := NewCatalogHandler(db, cfg, testutil.SetupTestBlobs(t, cfg), testutil.TestMetrics())
	projectID := testutil.CreateTestProject(t, db, "")
	item := testutil.AddTestItem(t, db, projectID, "doomed")

	remove := func(itemID string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("DELETE", "/projects/"+projectID+"/items/"+itemID, nil)
		req.SetPathValue("id", projectID)
		req.SetPathValue("itemID", itemID)
		w := httptest.NewRecorder()
		handler.RemoveItem(w, req)
		return w
	}

	testutil.AssertStatus(t, remove(item.ID), http.StatusNoContent)
	testutil.AssertStatus(t, remove(item.ID), http.StatusNotFound)
	testutil.AssertStatus(t, remove(""), http.StatusBadRequest)
}

func TestItemName(t *testing.T) {
	testCases := []struct {
		override string
		filename string
		i, n     int
		expected string
	}{
		{"", "cat.png", 0, 1, "cat.png"},
		{"", "cat.png", 1, 3, "cat.png"},
		{"Cat", "x.png", 0, 1, "Cat"},
		{"Cat", "x.png", 0, 2, "Cat_1"},
		{"Cat", "x.png", 1, 2, "Cat_2"},
	}
	for _, tc := range testCases {
		if got := itemName(tc.override, tc.filename, tc.i, tc.n); got != tc.expected {
			t.Errorf("itemName(%q, %q, %d, %d) = %q, want %q", tc.override, tc.filename, tc.i, tc.n, got, tc.expected)
		}
	}
}
