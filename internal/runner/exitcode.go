package runner

import (
	"fmt"

	"github.com/julianshen/quickfix/internal/store"
)

// Exit codes for the apply command.
const (
	ExitRejected = 2
	ExitNoCode   = 3
)

// ExitError is returned when a command should exit with a non-zero code.
// Using a typed error instead of os.Exit ensures deferred cleanup runs.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCodeFromOutcome maps a finished run to a process exit code: 0 for an
// applied or still-pending run, ExitRejected when the user declined, and
// ExitNoCode when the reply had nothing to apply.
func ExitCodeFromOutcome(outcome store.Outcome) int {
	switch outcome {
	case store.OutcomeRejected:
		return ExitRejected
	case store.OutcomeNoCode:
		return ExitNoCode
	default:
		return 0
	}
}
