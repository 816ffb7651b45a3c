package openai

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// OpenAIModels handles GET /models. The proxy fronts exactly one browser
// conversation, so it advertises a single synthetic model named after the
// driven site.
func (h *Handler) OpenAIModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data": []gin.H{{
			"id":       h.driver.Name(),
			"object":   "model",
			"created":  time.Now().Unix(),
			"owned_by": "browser-proxy",
		}},
	})
}
