// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"context"
	"fmt"
	"time"

	"github.com/danielhkuo/tierboard/board"
	"github.com/danielhkuo/tierboard/identity"
	"github.com/danielhkuo/tierboard/models"
)

// Session is one participant working on one project's board. Edits are
// kept as a local draft until Submit succeeds.
type Session struct {
	c             *Client
	ids           *identity.Store
	participantID string

	Project   models.Project
	Items     []models.Item
	board     models.Board
	state     models.ParticipantState
	updatedAt *time.Time
}

// OpenSession loads the catalog and the participant's board. A local draft
// wins over the stored submission.
func OpenSession(ctx context.Context, c *Client, ids *identity.Store, projectID string) (*Session, error) {
	participantID, err := ids.ParticipantID()
	if err != nil {
		return nil, err
	}

	p, err := c.GetProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	mine, err := c.MyBoard(ctx, projectID, participantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load board: %w", err)
	}

	s := &Session{
		c:             c,
		ids:           ids,
		participantID: participantID,
		Project:       p.Project,
		Items:         p.Items,
		board:         board.Reconcile(mine.Board, p.Items),
		state:         mine.State,
		updatedAt:     mine.UpdatedAt,
	}

	draft, ok, err := ids.Draft(projectID)
	if err != nil {
		return nil, err
	}
	if ok {
		s.board = board.Reconcile(draft.Board, p.Items)
		s.state = models.StateEditing
	}
	return s, nil
}

func (s *Session) State() models.ParticipantState {
	return s.state
}

// Board returns a copy of the current board.
func (s *Session) Board() models.Board {
	return board.Clone(s.board)
}

// UpdatedAt is when the server last stored this participant's board.
func (s *Session) UpdatedAt() *time.Time {
	return s.updatedAt
}

func (s *Session) ParticipantID() string {
	return s.participantID
}

// Apply runs a drag move and saves the result as a draft. It reports
// whether the board changed.
func (s *Session) Apply(m board.Move) (bool, error) {
	return s.update(board.ApplyMove(s.board, m))
}

func (s *Session) Select(itemID string, tier models.Tier) (bool, error) {
	return s.update(board.Select(s.board, itemID, tier))
}

func (s *Session) Reorder(tier models.Tier, from, to int) (bool, error) {
	return s.update(board.Reorder(s.board, tier, from, to))
}

func (s *Session) update(next models.Board) (bool, error) {
	if board.Equal(next, s.board) {
		return false, nil
	}
	if err := s.ids.SaveDraft(s.Project.ID, next); err != nil {
		return false, err
	}
	s.board = next
	s.state = models.StateEditing
	return true, nil
}

// Submit sends the board under the saved participant name. On failure the
// draft is left in place.
func (s *Session) Submit(ctx context.Context) (models.SubmitBoardResponse, error) {
	name, err := s.ids.Name()
	if err != nil {
		return models.SubmitBoardResponse{}, err
	}
	resp, err := s.c.Submit(ctx, s.Project.ID, s.participantID, name, s.board)
	if err != nil {
		return resp, err
	}

	now := time.Now()
	s.updatedAt = &now
	s.state = models.StateSubmitted
	if err := s.ids.ClearDraft(s.Project.ID); err != nil {
		return resp, fmt.Errorf("submitted, but failed to clear draft: %w", err)
	}
	return resp, nil
}

// Discard reloads the stored board and drops the local draft. The draft
// survives when the stored board cannot be fetched.
func (s *Session) Discard(ctx context.Context) error {
	mine, err := s.c.MyBoard(ctx, s.Project.ID, s.participantID)
	if err != nil {
		return err
	}
	if err := s.ids.ClearDraft(s.Project.ID); err != nil {
		return err
	}
	s.board = board.Reconcile(mine.Board, s.Items)
	s.state = mine.State
	s.updatedAt = mine.UpdatedAt
	return nil
}

// Export renders the current board, draft included.
func (s *Session) Export(ctx context.Context) (*File, error) {
	name, err := s.ids.Name()
	if err != nil {
		return nil, err
	}
	return s.c.Export(ctx, s.Project.ID, name, s.board)
}
