// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/tierboard/auth"
	"github.com/danielhkuo/tierboard/board"
	"github.com/danielhkuo/tierboard/models"
)

var ErrNotFound = errors.New("not found")

// Store is the persistence layer for projects, catalog items and submissions.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// NewItem is an item about to be added to a catalog.
type NewItem struct {
	Name     string
	ImageURL string
}

// GetProject returns ErrNotFound when the project does not exist.
func (s *Store) GetProject(ctx context.Context, id string) (models.Project, error) {
	var p models.Project
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, created_at FROM project WHERE id = $1
	`, id).Scan(&p.ID, &p.Title, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Project{}, ErrNotFound
	}
	if err != nil {
		return models.Project{}, fmt.Errorf("failed to query project: %w", err)
	}
	return p, nil
}

// ensureProject creates the project with an empty title unless it exists.
func ensureProject(ctx context.Context, tx *sql.Tx, id string, now time.Time) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO project (id, title, created_at)
		VALUES ($1, '', $2)
		ON CONFLICT (id) DO NOTHING
	`, id, now)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// UpsertProject sets the title of a project, creating it if needed.
func (s *Store) UpsertProject(ctx context.Context, id, title string) (models.Project, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO project (id, title, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET title = excluded.title
	`, id, title, s.now())
	if err != nil {
		return models.Project{}, fmt.Errorf("failed to save project: %w", err)
	}
	return s.GetProject(ctx, id)
}

// ListItems returns the catalog ordered by sort order, then creation time.
func (s *Store) ListItems(ctx context.Context, projectID string) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, name, image_url, sort_order, created_at
		FROM item
		WHERE project_id = $1
		ORDER BY sort_order ASC, created_at ASC, id ASC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		var it models.Item
		if err := rows.Scan(&it.ID, &it.ProjectID, &it.Name, &it.ImageURL, &it.SortOrder, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read items: %w", err)
	}
	return items, nil
}

// AddItem appends one item to the catalog with the next sort order.
func (s *Store) AddItem(ctx context.Context, projectID, name, imageURL string) (models.Item, error) {
	items, err := s.AddItems(ctx, projectID, []NewItem{{Name: name, ImageURL: imageURL}})
	if err != nil {
		return models.Item{}, err
	}
	return items[0], nil
}

// AddItems appends items in one transaction. Sort orders continue from the
// current maximum (or start at 1) in the order given.
func (s *Store) AddItems(ctx context.Context, projectID string, newItems []NewItem) ([]models.Item, error) {
	if len(newItems) == 0 {
		return []models.Item{}, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := s.now()
	if err := ensureProject(ctx, tx, projectID, now); err != nil {
		return nil, err
	}

	var maxOrder int
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(sort_order), 0) FROM item WHERE project_id = $1
	`, projectID).Scan(&maxOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to query sort order: %w", err)
	}

	created := make([]models.Item, 0, len(newItems))
	for i, n := range newItems {
		id, err := auth.GenerateID(12)
		if err != nil {
			return nil, err
		}
		it := models.Item{
			ID:        id,
			ProjectID: projectID,
			Name:      n.Name,
			ImageURL:  n.ImageURL,
			SortOrder: maxOrder + 1 + i,
			CreatedAt: now,
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO item (id, project_id, name, image_url, sort_order, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, it.ID, it.ProjectID, it.Name, it.ImageURL, it.SortOrder, it.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert item: %w", err)
		}
		created = append(created, it)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit items: %w", err)
	}
	return created, nil
}

// RemoveItem deletes a catalog entry. Stored boards keep referencing the id.
func (s *Store) RemoveItem(ctx context.Context, projectID, itemID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM item WHERE id = $1 AND project_id = $2
	`, itemID, projectID)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertSubmission stores a participant's board, replacing any earlier
// board for the same project and participant. created reports whether
// this was the participant's first submission.
func (s *Store) UpsertSubmission(ctx context.Context, projectID, participantID, participantName string, b models.Board) (created bool, err error) {
	payload, err := json.Marshal(board.Normalize(b))
	if err != nil {
		return false, fmt.Errorf("failed to encode board: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := s.now()
	if err := ensureProject(ctx, tx, projectID, now); err != nil {
		return false, err
	}

	var exists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM submission
			WHERE project_id = $1 AND participant_id = $2
		)
	`, projectID, participantID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to query submission: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO submission (project_id, participant_id, participant_name, board, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (project_id, participant_id) DO UPDATE
		SET participant_name = excluded.participant_name,
		    board = excluded.board,
		    updated_at = excluded.updated_at
	`, projectID, participantID, participantName, string(payload), now, now)
	if err != nil {
		return false, fmt.Errorf("failed to save submission: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit submission: %w", err)
	}
	return !exists, nil
}

// GetSubmission returns ErrNotFound when the participant has not submitted.
func (s *Store) GetSubmission(ctx context.Context, projectID, participantID string) (models.Submission, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT project_id, participant_id, participant_name, board, created_at, updated_at
		FROM submission
		WHERE project_id = $1 AND participant_id = $2
	`, projectID, participantID)

	sub, err := scanSubmission(row)
	if err == sql.ErrNoRows {
		return models.Submission{}, ErrNotFound
	}
	if err != nil {
		return models.Submission{}, fmt.Errorf("failed to query submission: %w", err)
	}
	return sub, nil
}

// ListSubmissions returns every submission of a project, oldest first.
func (s *Store) ListSubmissions(ctx context.Context, projectID string) ([]models.Submission, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT project_id, participant_id, participant_name, board, created_at, updated_at
		FROM submission
		WHERE project_id = $1
		ORDER BY created_at ASC, participant_id ASC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	subs := []models.Submission{}
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read submissions: %w", err)
	}
	return subs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row scanner) (models.Submission, error) {
	var sub models.Submission
	var payload string
	err := row.Scan(&sub.ProjectID, &sub.ParticipantID, &sub.ParticipantName, &payload, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return models.Submission{}, err
	}
	if err := json.Unmarshal([]byte(payload), &sub.Board); err != nil {
		return models.Submission{}, fmt.Errorf("failed to decode board: %w", err)
	}
	return sub, nil
}
