package agents

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "agent.json"), filepath.Join(dir, "personas"))
	clock := int64(1_700_000_000_000)
	s.now = func() time.Time {
		clock += 1000
		return time.UnixMilli(clock)
	}
	return s, dir
}

func writePersona(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestStoreEmpty(t *testing.T) {
	s, _ := newTestStore(t)

	list, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, s.Selected())

	prompt, err := s.Resolve("")
	require.NoError(t, err)
	assert.Empty(t, prompt)
}

func TestStoreAddGetList(t *testing.T) {
	s, _ := newTestStore(t)

	first, err := s.Add(Agent{ID: "reviewer", Name: "Reviewer", Prompt: "Review carefully."})
	require.NoError(t, err)
	assert.NotZero(t, first.CreatedAt)

	second, err := s.Add(Agent{Name: "Generated", Prompt: "p"})
	require.NoError(t, err)
	assert.NotEmpty(t, second.ID)

	got, err := s.Get("reviewer")
	require.NoError(t, err)
	assert.Equal(t, "Review carefully.", got.Prompt)
	assert.False(t, got.ReadOnly())

	list, err := s.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")
	assert.Equal(t, "reviewer", list[1].ID)
}

func TestStoreAddDuplicate(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Add(Agent{ID: "a", Name: "A"})
	require.NoError(t, err)

	_, err = s.Add(Agent{ID: "a", Name: "again"})
	assert.ErrorIs(t, err, ErrExists)
}

func TestStoreUpdate(t *testing.T) {
	s, _ := newTestStore(t)
	added, err := s.Add(Agent{ID: "a", Name: "A", Prompt: "old"})
	require.NoError(t, err)

	prompt := "new"
	updated, err := s.Update("a", Patch{Prompt: &prompt})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Prompt)
	assert.Equal(t, "A", updated.Name)
	assert.Equal(t, added.CreatedAt, updated.CreatedAt)

	_, err = s.Update("missing", Patch{Prompt: &prompt})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreDelete(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Add(Agent{ID: "a", Name: "A"})
	require.NoError(t, err)
	require.NoError(t, s.Select("a"))

	ok, err := s.Delete("a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, s.Selected())

	ok, err = s.Delete("a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreSelectAndResolve(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Add(Agent{ID: "a", Name: "A", Prompt: "alpha"})
	require.NoError(t, err)
	_, err = s.Add(Agent{ID: "b", Name: "B", Prompt: "beta"})
	require.NoError(t, err)

	assert.ErrorIs(t, s.Select("nope"), ErrNotFound)

	require.NoError(t, s.Select("a"))
	assert.Equal(t, "a", s.Selected())

	prompt, err := s.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "alpha", prompt)

	prompt, err = s.Resolve("b")
	require.NoError(t, err)
	assert.Equal(t, "beta", prompt)

	_, err = s.Resolve("nope")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Select(""))
	assert.Empty(t, s.Selected())
}

func TestStorePersistsAcrossInstances(t *testing.T) {
	s, dir := newTestStore(t)
	_, err := s.Add(Agent{ID: "a", Name: "A", Prompt: "alpha"})
	require.NoError(t, err)
	require.NoError(t, s.Select("a"))

	again := NewStore(filepath.Join(dir, "agent.json"), "")
	assert.Equal(t, "a", again.Selected())
	got, err := again.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "alpha", got.Prompt)
}

func TestStoreCorruptFileReadsEmpty(t *testing.T) {
	s, dir := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "agent.json"), []byte("{not json"), 0o644))

	list, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = s.Add(Agent{ID: "a", Name: "A"})
	require.NoError(t, err)
	list, err = s.List()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStoreNullEntryDropped(t *testing.T) {
	s, dir := newTestStore(t)
	raw := `{"agents": {"x": null, "y": {"name": "Y", "prompt": "Be brief."}}, "selectedAgentId": "y"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "agent.json"), []byte(raw), 0o644))

	list, err := s.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "y", list[0].ID)

	_, err = s.Get("x")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Update("x", Patch{})
	assert.ErrorIs(t, err, ErrNotFound)

	prompt, err := s.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "Be brief.", prompt)

	_, err = s.Add(Agent{ID: "x", Name: "X"})
	require.NoError(t, err)
}

func TestStorePersonas(t *testing.T) {
	s, dir := newTestStore(t)
	personaDir := filepath.Join(dir, "personas")
	writePersona(t, personaDir, "security.md", "---\nname: Security Auditor\ndescription: finds holes\n---\nLook for injection bugs.\n")

	got, err := s.Get("security")
	require.NoError(t, err)
	assert.Equal(t, "Security Auditor", got.Name)
	assert.Equal(t, "Look for injection bugs.", got.Prompt)
	assert.True(t, got.ReadOnly())

	require.NoError(t, s.Select("security"))
	prompt, err := s.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "Look for injection bugs.", prompt)

	name := "x"
	_, err = s.Update("security", Patch{Name: &name})
	assert.ErrorIs(t, err, ErrReadOnly)

	_, err = s.Delete("security")
	assert.ErrorIs(t, err, ErrReadOnly)

	_, err = s.Add(Agent{ID: "security", Name: "dup"})
	assert.ErrorIs(t, err, ErrExists)
}
