// Package openai implements the OpenAI-compatible surface of the proxy: the
// chat-completions endpoint that drives the browser exchange, and the models
// listing. The wire shapes follow the chat-completion schema; sampling
// parameters are accepted for compatibility but cannot be forwarded to a
// browser UI.
package openai

import (
	"context"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/sjson"
	"golang.org/x/sync/semaphore"

	"github.com/router-for-me/BrowserProxyAPI/internal/api/middleware"
	"github.com/router-for-me/BrowserProxyAPI/internal/browser"
	"github.com/router-for-me/BrowserProxyAPI/internal/conversation"
)

// placeholderModel is echoed when a request does not name a model.
const placeholderModel = "gpt-3.5-turbo"

// Handler serves the OpenAI-compatible endpoints against one site driver and
// one conversation memory.
type Handler struct {
	driver browser.Driver
	memory *conversation.Memory

	// exchange serializes the whole reconcile -> send -> record cycle. The
	// browser tab is a single shared resource: a second prompt submitted
	// while one is rendering corrupts both exchanges, and the memory's
	// append ordering is only meaningful under strict serialization.
	// Requests queue here rather than being rejected.
	exchange *semaphore.Weighted

	streaming atomic.Bool
}

// NewHandler returns a Handler bound to driver and memory.
func NewHandler(driver browser.Driver, memory *conversation.Memory) *Handler {
	return &Handler{
		driver:   driver,
		memory:   memory,
		exchange: semaphore.NewWeighted(1),
	}
}

// SetStreaming toggles SSE responses. Safe to call at runtime.
func (h *Handler) SetStreaming(on bool) {
	h.streaming.Store(on)
}

type chatCompletionRequest struct {
	Model    string                 `json:"model"`
	Messages []conversation.Message `json:"messages"`

	// Accepted but not forwarded: the target is a browser UI, not a
	// parameterized API.
	Temperature      *float64 `json:"temperature"`
	MaxTokens        *int     `json:"max_tokens"`
	TopP             *float64 `json:"top_p"`
	FrequencyPenalty *float64 `json:"frequency_penalty"`
	PresencePenalty  *float64 `json:"presence_penalty"`
}

// ChatCompletions handles POST /chat/completions.
func (h *Handler) ChatCompletions(c *gin.Context) {
	var req chatCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
		return
	}
	if len(req.Messages) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Field 'messages' is missing or empty"})
		return
	}

	// Queue behind any exchange already in flight. The acquire deliberately
	// ignores the request context: once a caller is in line its turn is
	// taken, and a disconnect must not abort the browser exchange or the
	// memory updates would diverge from what the tab actually saw.
	if err := h.exchange.Acquire(context.Background(), 1); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "exchange lock unavailable"})
		return
	}
	defer h.exchange.Release(1)

	prompt, err := conversation.Reconcile(req.Messages, h.memory)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Field 'messages' is missing or empty"})
		return
	}

	start := time.Now()
	answer, err := h.driver.Send(context.Background(), prompt)
	middleware.ObserveExchange(h.driver.Name(), time.Since(start))
	if err != nil {
		// Timeouts, extraction failures and anything unexpected from the
		// driver all degrade to an empty answer: the caller protocol has no
		// vocabulary for "upstream flaked", and resubmission is the
		// expected remediation.
		log.Warnf("browser exchange failed, returning empty answer: %v", err)
		answer = ""
	}
	if answer != "" {
		h.memory.Append(answer)
	}

	model := req.Model
	if strings.TrimSpace(model) == "" {
		model = placeholderModel
	}
	completionID := "chatcmpl-" + uuid.NewString()
	created := time.Now().Unix()
	promptTokens := len(strings.Fields(prompt))
	completionTokens := len(strings.Fields(answer))

	if h.streaming.Load() {
		h.writeStream(c, completionID, created, model, answer, promptTokens, completionTokens)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":      completionID,
		"object":  "chat.completion",
		"created": created,
		"model":   model,
		"choices": []gin.H{{
			"index": 0,
			"message": gin.H{
				"role":    "assistant",
				"content": answer,
				"refusal": nil,
			},
			"finish_reason": "stop",
		}},
		"usage": gin.H{
			// Whitespace splits, not a real tokenizer. Close enough for
			// clients that only display the numbers.
			"prompt_tokens":     promptTokens,
			"completion_tokens": completionTokens,
			"total_tokens":      promptTokens + completionTokens,
			"cost":              0,
		},
	})
}

// writeStream emits the answer as a single delta chunk followed by the
// terminal sentinel, framed as a server-sent-event stream.
func (h *Handler) writeStream(c *gin.Context, id string, created int64, model, answer string, promptTokens, completionTokens int) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	chunk := `{"object":"chat.completion.chunk"}`
	chunk, _ = sjson.Set(chunk, "id", id)
	chunk, _ = sjson.Set(chunk, "created", created)
	chunk, _ = sjson.Set(chunk, "model", model)
	chunk, _ = sjson.Set(chunk, "choices.0.index", 0)
	chunk, _ = sjson.Set(chunk, "choices.0.delta.role", "assistant")
	chunk, _ = sjson.Set(chunk, "choices.0.delta.content", answer)
	chunk, _ = sjson.Set(chunk, "choices.0.finish_reason", "stop")
	chunk, _ = sjson.Set(chunk, "usage.prompt_tokens", promptTokens)
	chunk, _ = sjson.Set(chunk, "usage.completion_tokens", completionTokens)
	chunk, _ = sjson.Set(chunk, "usage.total_tokens", promptTokens+completionTokens)
	chunk, _ = sjson.Set(chunk, "usage.cost", 0)

	writeSSEData(c.Writer, []byte(chunk))
	writeSSEDone(c.Writer)
	c.Writer.Flush()
}
