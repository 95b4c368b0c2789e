// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/tierboard/auth"
	"github.com/danielhkuo/tierboard/models"
)

func TestParticipantID_ReplacesMalformedID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.yaml")
	require.NoError(t, os.WriteFile(path, []byte("participant_id: not-a-uuid\nparticipant_name: Alice\n"), 0o600))

	s := Open(path)
	id, err := s.ParticipantID()
	require.NoError(t, err)
	assert.NotEqual(t, "not-a-uuid", id)
	assert.NoError(t, auth.ValidateParticipantID(id))

	name, err := s.Name()
	require.NoError(t, err)
	assert.Equal(t, "Alice", name, "the rest of the file survives")

	reopened, err := Open(path).ParticipantID()
	require.NoError(t, err)
	assert.Equal(t, id, reopened)
}

func TestParticipantID_CreatedOnceAndPersisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "identity.yaml")

	s := Open(path)
	id, err := s.ParticipantID()
	require.NoError(t, err)
	assert.NoError(t, auth.ValidateParticipantID(id), "participant id should be accepted by the server")

	again, err := s.ParticipantID()
	require.NoError(t, err)
	assert.Equal(t, id, again)

	// A fresh process reads the same id back
	reopened, err := Open(path).ParticipantID()
	require.NoError(t, err)
	assert.Equal(t, id, reopened)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "participant_id: "+id)
}

func TestParticipantID_Concurrent(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "identity.yaml"))

	const n = 20
	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := s.ParticipantID()
			assert.NoError(t, err)
			ids[i] = id
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id, "concurrent callers must share one id")
	}
}

func TestName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.yaml")
	s := Open(path)

	name, err := s.Name()
	require.NoError(t, err)
	assert.Equal(t, "", name)

	require.NoError(t, s.SetName("Alice"))
	name, err = Open(path).Name()
	require.NoError(t, err)
	assert.Equal(t, "Alice", name)
}

func TestReadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.yaml")
	content := "participant_id: 11111111-2222-3333-4444-555555555555\nparticipant_name: Bob\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	s := Open(path)
	id, err := s.ParticipantID()
	require.NoError(t, err)
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", id)

	name, err := s.Name()
	require.NoError(t, err)
	assert.Equal(t, "Bob", name)
}

func TestCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.yaml")
	require.NoError(t, os.WriteFile(path, []byte("participant_id: [unterminated"), 0o600))

	_, err := Open(path).ParticipantID()
	assert.Error(t, err)
}

func TestDrafts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.yaml")
	s := Open(path)

	_, ok, err := s.Draft("demo")
	require.NoError(t, err)
	assert.False(t, ok)

	b := models.Board{
		models.TierS: {"i1"},
		models.TierA: {},
		models.TierB: {},
		models.TierC: {},
		models.TierD: {"i2", "i3"},
	}
	require.NoError(t, s.SaveDraft("demo", b))

	d, ok, err := Open(path).Draft("demo")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"i1"}, d.Board[models.TierS])
	assert.Equal(t, []string{"i2", "i3"}, d.Board[models.TierD])
	assert.False(t, d.SavedAt.IsZero())

	_, ok, err = s.Draft("other")
	require.NoError(t, err)
	assert.False(t, ok, "drafts are per project")

	require.NoError(t, s.ClearDraft("demo"))
	require.NoError(t, s.ClearDraft("demo"))
	_, ok, err = Open(path).Draft("demo")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDraftsKeepIdentity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.yaml")
	s := Open(path)

	id, err := s.ParticipantID()
	require.NoError(t, err)
	require.NoError(t, s.SaveDraft("demo", models.Board{models.TierD: {"x"}}))
	require.NoError(t, s.ClearDraft("demo"))

	again, err := Open(path).ParticipantID()
	require.NoError(t, err)
	assert.Equal(t, id, again)
}
