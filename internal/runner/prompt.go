// internal/runner/prompt.go
package runner

import (
	"github.com/rs/zerolog/log"

	"github.com/julianshen/quickfix/internal/idecontext"
	"github.com/julianshen/quickfix/internal/output"
	"github.com/julianshen/quickfix/internal/prompt"
	"github.com/julianshen/quickfix/internal/store"
)

// Result modes.
const (
	ModeQuickFix = "quickfix"
	ModeContext  = "context"
)

// Recorder persists run metadata. *store.Store satisfies it.
type Recorder interface {
	RecordRun(file, instruction, agent string, promptBytes int) (store.Run, error)
}

// PromptRunner builds prompts and records each one in the run history.
type PromptRunner struct {
	history Recorder
}

// NewPromptRunner creates a PromptRunner. history may be nil to skip
// recording.
func NewPromptRunner(history Recorder) *PromptRunner {
	return &PromptRunner{history: history}
}

// QuickFix builds the Quick Fix prompt for c and instruction.
func (r *PromptRunner) QuickFix(c *idecontext.Context, instruction string) *output.Result {
	text := prompt.BuildQuickFixPrompt(c, instruction)
	res := &output.Result{
		Mode:        ModeQuickFix,
		Prompt:      text,
		File:        activeFile(c),
		Instruction: instruction,
		Bytes:       len(text),
	}
	res.RunID = r.record(res)
	return res
}

// Context builds the context section for c with an optional agent role.
// agentID only labels the result; agentPrompt is what gets rendered.
func (r *PromptRunner) Context(c *idecontext.Context, agentID, agentPrompt string) *output.Result {
	text := prompt.BuildContextSection(c, agentPrompt)
	res := &output.Result{
		Mode:   ModeContext,
		Prompt: text,
		File:   activeFile(c),
		Agent:  agentID,
		Bytes:  len(text),
	}
	res.RunID = r.record(res)
	return res
}

// record stores run metadata. History is best effort: a failure is
// logged and the prompt is still returned.
func (r *PromptRunner) record(res *output.Result) string {
	if r.history == nil {
		return ""
	}
	run, err := r.history.RecordRun(res.File, res.Instruction, res.Agent, res.Bytes)
	if err != nil {
		log.Warn().Err(err).Msg("failed to record run history")
		return ""
	}
	return run.ID
}

func activeFile(c *idecontext.Context) string {
	if !c.HasActive() {
		return ""
	}
	return c.Active
}
