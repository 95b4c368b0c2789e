// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/tierboard/board"
	"github.com/danielhkuo/tierboard/identity"
	"github.com/danielhkuo/tierboard/models"
	"github.com/danielhkuo/tierboard/router"
	"github.com/danielhkuo/tierboard/testutil"
)

type harness struct {
	t        *testing.T
	server   string
	identity string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig(t)
	srv := httptest.NewServer(router.NewRouter(conn, cfg, testutil.SetupTestBlobs(t, cfg), prometheus.NewRegistry()))
	t.Cleanup(srv.Close)
	return &harness{t: t, server: srv.URL, identity: filepath.Join(t.TempDir(), "identity.yaml")}
}

// run executes tierctl with the harness server and identity file.
func (h *harness) run(args ...string) (string, error) {
	var out bytes.Buffer
	full := append([]string{"tierctl", "--server", h.server, "--identity", h.identity}, args...)
	err := newApp(&out).Run(full)
	return out.String(), err
}

func (h *harness) admin(args ...string) (string, error) {
	return h.run(append([]string{"--admin-key", testutil.TestAdminKey, "admin"}, args...)...)
}

func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, testutil.PNGBytes(t), 0o644))
	return path
}

func TestCLI_Workflow(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()

	out, err := h.admin("title", "demo", "Best", "Snacks")
	require.NoError(t, err)
	assert.Contains(t, out, `"Best Snacks"`)

	out, err = h.admin("upload", "demo", writePNG(t, dir, "chips.png"), writePNG(t, dir, "pretzels.png"))
	require.NoError(t, err)
	assert.Contains(t, out, "Uploaded 2 images")

	_, err = h.run("name", "Alice")
	require.NoError(t, err)
	out, err = h.run("whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Alice")

	out, err = h.run("show", "demo")
	require.NoError(t, err)
	assert.Contains(t, out, "Best Snacks [not_started]")
	assert.Contains(t, out, "D | 1.chips.png  2.pretzels.png")

	out, err = h.run("select", "demo", "pretzels.png", "s")
	require.NoError(t, err)
	assert.Contains(t, out, "[editing]")
	assert.Contains(t, out, "S | 1.pretzels.png")

	out, err = h.run("move", "demo", "chips.png", "pretzels.png")
	require.NoError(t, err)
	assert.Contains(t, out, "S | 1.pretzels.png  2.chips.png")

	out, err = h.run("reorder", "demo", "S", "2", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "S | 1.chips.png  2.pretzels.png")

	out, err = h.run("submit", "demo")
	require.NoError(t, err)
	assert.Contains(t, out, "Board submitted")

	out, err = h.run("show", "demo")
	require.NoError(t, err)
	assert.Contains(t, out, "[submitted]")

	out, err = h.run("results", "--xlsx", filepath.Join(dir, "r.xlsx"), "demo")
	require.NoError(t, err)
	assert.Contains(t, out, "Best Snacks: 1 submission, 2 items")
	assert.Contains(t, out, "S: Alice")
	_, err = os.Stat(filepath.Join(dir, "r.xlsx"))
	assert.NoError(t, err)

	out, err = h.run("export", "-o", dir, "demo")
	require.NoError(t, err)
	assert.Contains(t, out, "Alice_Best Snacks_tier.png")
	_, err = os.Stat(filepath.Join(dir, "Alice_Best Snacks_tier.png"))
	assert.NoError(t, err)

	out, err = h.admin("submissions", "demo")
	require.NoError(t, err)
	assert.Contains(t, out, "Alice")

	out, err = h.admin("remove", "demo", "chips.png")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed")

	// The stored board still renders after its item is removed
	out, err = h.run("show", "demo")
	require.NoError(t, err)
	assert.Contains(t, out, "S | 1.pretzels.png")
}

func TestCLI_UnchangedMoveKeepsState(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()

	_, err := h.admin("upload", "demo", writePNG(t, dir, "solo.png"))
	require.NoError(t, err)

	out, err := h.run("move", "demo", "solo.png", "solo.png")
	require.NoError(t, err)
	assert.Contains(t, out, "Board unchanged")

	_, ok, err := identity.Open(h.identity).Draft("demo")
	require.NoError(t, err)
	assert.False(t, ok, "no-op moves do not create a draft")
}

func TestCLI_Errors(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("admin", "title", "demo", "x")
	assert.ErrorContains(t, err, "admin-key")

	_, err = h.run("--admin-key", "wrong", "admin", "title", "demo", "x")
	assert.ErrorContains(t, err, "401")

	_, err = h.run("show", "missing")
	assert.ErrorContains(t, err, "404")

	_, err = h.run("select", "demo")
	assert.ErrorContains(t, err, "usage:")

	_, err = h.run("name", "this name is far too long to be accepted by the server at all")
	assert.ErrorContains(t, err, "at most 50")
}

func TestParseTier(t *testing.T) {
	for _, in := range []string{"S", "s", "tier:A", "d"} {
		tier, err := parseTier(in)
		require.NoError(t, err, in)
		assert.True(t, tier.Valid())
	}
	_, err := parseTier("F")
	assert.Error(t, err)
}

func TestResolveItem(t *testing.T) {
	items := []models.Item{
		{ID: "i1", Name: "cat.png"},
		{ID: "i2", Name: "dog.png"},
		{ID: "i3", Name: "dog.png"},
	}

	id, err := resolveItem(items, "i2")
	require.NoError(t, err)
	assert.Equal(t, "i2", id)

	id, err = resolveItem(items, "cat.png")
	require.NoError(t, err)
	assert.Equal(t, "i1", id)

	_, err = resolveItem(items, "dog.png")
	assert.ErrorContains(t, err, "use the id")

	_, err = resolveItem(items, "bird.png")
	assert.Error(t, err)
}

func TestResolveTarget(t *testing.T) {
	items := []models.Item{{ID: "i1", Name: "cat.png"}}

	target, err := resolveTarget(items, "tier:b")
	require.NoError(t, err)
	assert.Equal(t, board.TierTarget(models.TierB), target)

	target, err = resolveTarget(items, "cat.png")
	require.NoError(t, err)
	assert.Equal(t, board.ItemTarget("i1"), target)

	_, err = resolveTarget(items, "tier:Z")
	assert.Error(t, err)
}
