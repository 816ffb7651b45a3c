package conversation

import (
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// ErrEmptyTranscript is returned when a request carries no messages at all.
var ErrEmptyTranscript = errors.New("transcript contains no messages")

// Reconcile computes the incremental prompt to submit to the browser
// conversation for an incoming full transcript.
//
// The calling protocol replays the entire chat history on every request while
// the browser tab retains its own history, so resending everything would
// duplicate context. Reconcile scans the transcript from the end toward the
// start for the newest message whose trimmed content has already been
// exchanged (any historical match counts; ties among duplicate content resolve
// by recency). Everything after that replay boundary is rendered as the delta
// prompt, one "[role] content" line per message, blank-line joined.
//
// When nothing matches, or the boundary is the final message and the delta
// comes out empty, the whole transcript is rendered instead.
//
// As a side effect the trimmed content of the last message is always appended
// to mem before returning, so the attempted user turn is recorded even if the
// browser exchange that follows fails mid-flight.
func Reconcile(messages []Message, mem *Memory) (string, error) {
	if len(messages) == 0 {
		return "", ErrEmptyTranscript
	}

	boundary := -1
	for i := len(messages) - 1; i >= 0; i-- {
		if mem.Contains(strings.TrimSpace(messages[i].Content)) {
			boundary = i
			break
		}
	}

	prompt := renderPrompt(messages[boundary+1:])
	mem.Append(strings.TrimSpace(messages[len(messages)-1].Content))
	if prompt == "" {
		log.Debug("can't determine latest messages, sending the whole chat session")
		prompt = renderPrompt(messages)
	}
	return prompt, nil
}

func renderPrompt(messages []Message) string {
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		lines = append(lines, fmt.Sprintf("[%s] %s", msg.Role, msg.Content))
	}
	return strings.Join(lines, "\n\n")
}
