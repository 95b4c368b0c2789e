// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"image/png"
	"mime"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/tierboard/db"
	"github.com/danielhkuo/tierboard/export"
	"github.com/danielhkuo/tierboard/imagefetch"
	"github.com/danielhkuo/tierboard/models"
	"github.com/danielhkuo/tierboard/testutil"
)

// storeItem adds an item with an explicit image URL
func storeItem(conn *sql.DB, projectID, name, imageURL string) (models.Item, error) {
	return db.NewStore(conn).AddItem(context.Background(), projectID, name, imageURL)
}

func TestExportBoard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig(t)
	blobs := testutil.SetupTestBlobs(t, cfg)
	handler := NewExportHandler(db, cfg, blobs, imagefetch.New(cfg.AllowedImageHosts, nil))

	projectID := testutil.CreateTestProject(t, db, "Snack: Ranking")
	key, err := blobs.Put(projectID, "chips.png", bytes.NewReader(testutil.PNGBytes(t)))
	if err != nil {
		t.Fatalf("Failed to store blob: %v", err)
	}
	chips, err := storeItem(db, projectID, "chips", blobs.URL(key))
	if err != nil {
		t.Fatalf("Failed to add item: %v", err)
	}
	// Not allow-listed, drawn as a name card
	pretzels, err := storeItem(db, projectID, "pretzels", "https://elsewhere.example.com/p.png")
	if err != nil {
		t.Fatalf("Failed to add item: %v", err)
	}

	testCases := []struct {
		name             string
		projectID        string
		body             interface{}
		expectedStatus   int
		expectedFilename string
	}{
		{
			name:      "named participant",
			projectID: projectID,
			body: models.ExportBoardRequest{
				ParticipantName: "Alice",
				Board:           models.Board{models.TierS: {chips.ID, "deleted"}, models.TierB: {pretzels.ID}},
			},
			expectedStatus:   http.StatusOK,
			expectedFilename: "Alice_Snack_ Ranking_tier.png",
		},
		{
			name:             "anonymous participant",
			projectID:        projectID,
			body:             models.ExportBoardRequest{Board: models.Board{}},
			expectedStatus:   http.StatusOK,
			expectedFilename: "you_Snack_ Ranking_tier.png",
		},
		{
			name:           "missing board",
			projectID:      projectID,
			body:           map[string]string{"participant_name": "Alice"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown project",
			projectID:      "missing",
			body:           models.ExportBoardRequest{Board: models.Board{}},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/projects/"+tc.projectID+"/export", tc.body, nil)
			req.SetPathValue("id", tc.projectID)
			w := httptest.NewRecorder()
			handler.ExportBoard(w, req)

			testutil.AssertStatus(t, w, tc.expectedStatus)
			if tc.expectedStatus != http.StatusOK {
				return
			}

			if ct := w.Header().Get("Content-Type"); ct != "image/png" {
				t.Errorf("Expected image/png, got %s", ct)
			}
			_, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
			if err != nil {
				t.Fatalf("Bad Content-Disposition: %v", err)
			}
			if params["filename"] != tc.expectedFilename {
				t.Errorf("Expected filename '%s', got '%s'", tc.expectedFilename, params["filename"])
			}
			if _, err := png.Decode(bytes.NewReader(w.Body.Bytes())); err != nil {
				t.Errorf("Response is not a PNG: %v", err)
			}
		})
	}
}

func TestExportBoard_OversizedImageDrawnAsName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig(t)
	blobs := testutil.SetupTestBlobs(t, cfg)
	handler := NewExportHandler(db, cfg, blobs, imagefetch.New(cfg.AllowedImageHosts, nil))

	projectID := testutil.CreateTestProject(t, db, "Snacks")
	key, err := blobs.Put(projectID, "huge.png", bytes.NewReader(testutil.PNGClaiming(t, 50000, 50000)))
	if err != nil {
		t.Fatalf("Failed to store blob: %v", err)
	}
	huge, err := storeItem(db, projectID, "huge", blobs.URL(key))
	if err != nil {
		t.Fatalf("Failed to add item: %v", err)
	}

	if _, err := handler.loadImage(context.Background(), huge); !errors.Is(err, export.ErrImageTooLarge) {
		t.Errorf("Expected %v, got %v", export.ErrImageTooLarge, err)
	}

	body := models.ExportBoardRequest{Board: models.Board{models.TierS: {huge.ID}}}
	req := testutil.MakeRequest("POST", "/projects/"+projectID+"/export", body, nil)
	req.SetPathValue("id", projectID)
	w := httptest.NewRecorder()
	handler.ExportBoard(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	if _, err := png.Decode(bytes.NewReader(w.Body.Bytes())); err != nil {
		t.Errorf("Response is not a PNG: %v", err)
	}
}
