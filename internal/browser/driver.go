package browser

import (
	"context"
	"errors"
)

// ErrAnswerTimeout is returned by drivers when the target site did not finish
// rendering an answer within the submission timeout. The completion endpoint
// absorbs it into an empty-content response.
var ErrAnswerTimeout = errors.New("timed out waiting for the chat answer")

// Driver submits prompts to one specific externally-hosted chat interface and
// extracts its rendered answers. Implementations live under internal/sites and
// share a single Session; callers must serialize Send invocations, the
// underlying tab cannot hold two exchanges at once.
type Driver interface {
	// Name is the site identifier the driver was registered under.
	Name() string

	// Initialize navigates to the target site and blocks until the
	// message-submission control is present. There is deliberately no
	// timeout: the tab may sit at a login page until a human finishes
	// authenticating.
	Initialize(ctx context.Context) error

	// Send delivers prompt into the site's input surface, triggers
	// submission, waits for generation to finish and returns the cleaned
	// answer text. An empty string with a nil error means extraction found
	// nothing to return.
	Send(ctx context.Context, prompt string) (string, error)
}
