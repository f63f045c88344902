// internal/runner/prompt_test.go
package runner

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianshen/quickfix/internal/idecontext"
	"github.com/julianshen/quickfix/internal/prompt"
	"github.com/julianshen/quickfix/internal/store"
)

type fakeRecorder struct {
	runs []store.Run
	err  error
}

func (f *fakeRecorder) RecordRun(file, instruction, agent string, promptBytes int) (store.Run, error) {
	if f.err != nil {
		return store.Run{}, f.err
	}
	run := store.Run{ID: "run-" + string(rune('a'+len(f.runs))), File: file, Instruction: instruction, Agent: agent, PromptBytes: promptBytes}
	f.runs = append(f.runs, run)
	return run, nil
}

func TestPromptRunnerQuickFix(t *testing.T) {
	rec := &fakeRecorder{}
	r := NewPromptRunner(rec)
	c := &idecontext.Context{Active: "/src/A.java"}

	res := r.QuickFix(c, "add logging")

	assert.Equal(t, ModeQuickFix, res.Mode)
	assert.Equal(t, prompt.BuildQuickFixPrompt(c, "add logging"), res.Prompt)
	assert.Equal(t, "/src/A.java", res.File)
	assert.Equal(t, "add logging", res.Instruction)
	assert.Equal(t, len(res.Prompt), res.Bytes)
	assert.Equal(t, "run-a", res.RunID)

	require.Len(t, rec.runs, 1)
	assert.Equal(t, "/src/A.java", rec.runs[0].File)
	assert.Equal(t, res.Bytes, rec.runs[0].PromptBytes)
}

func TestPromptRunnerContext(t *testing.T) {
	rec := &fakeRecorder{}
	r := NewPromptRunner(rec)

	res := r.Context(nil, "reviewer", "Be strict.")

	assert.Equal(t, ModeContext, res.Mode)
	assert.True(t, strings.Contains(res.Prompt, "Be strict."))
	assert.Empty(t, res.File)
	assert.Equal(t, "reviewer", res.Agent)
	require.Len(t, rec.runs, 1)
	assert.Equal(t, "reviewer", rec.runs[0].Agent)
}

func TestPromptRunnerWithoutHistory(t *testing.T) {
	res := NewPromptRunner(nil).QuickFix(nil, "x")
	assert.Empty(t, res.RunID)
	assert.NotEmpty(t, res.Prompt)
}

func TestPromptRunnerHistoryFailure(t *testing.T) {
	r := NewPromptRunner(&fakeRecorder{err: errors.New("disk full")})
	res := r.QuickFix(nil, "x")
	assert.Empty(t, res.RunID)
	assert.NotEmpty(t, res.Prompt)
}
