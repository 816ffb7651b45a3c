// Package conversation implements the transcript reconciliation core of the
// proxy: an append-only memory of everything exchanged with the browser tab,
// and the logic that diffs an incoming full chat transcript against it to
// produce the minimal incremental prompt to submit.
package conversation

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Message is a single chat turn from an incoming completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// UnmarshalJSON accepts both the plain-string content form and the segmented
// form ([{type, text}, ...]). Only text-typed segments are kept, blank-line
// joined, so the matching logic downstream always sees one flat string.
func (m *Message) UnmarshalJSON(data []byte) error {
	root := gjson.ParseBytes(data)
	m.Role = root.Get("role").String()
	content := root.Get("content")
	if content.IsArray() {
		var parts []string
		content.ForEach(func(_, item gjson.Result) bool {
			if item.Get("type").String() == "text" {
				parts = append(parts, item.Get("text").String())
			}
			return true
		})
		m.Content = strings.Join(parts, "\n\n")
		return nil
	}
	m.Content = content.String()
	return nil
}
