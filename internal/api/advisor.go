package api

import (
	"errors"
	"net/http"

	"github.com/alvinbaena/cybershield/internal/advisor"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type advisorApi struct {
	tips      advisor.TipGenerator
	assistant advisor.Assistant
}

func (a *advisorApi) generateTip(c *gin.Context) {
	if a.tips == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cohere API key is not configured"})
		return
	}

	var req tipRequest
	// an empty body asks for a tip on the default topic
	_ = c.ShouldBindJSON(&req)

	tip, err := a.tips.GenerateTip(c.Request.Context(), req.Topic)
	if err != nil {
		advisorError(c, err, "Failed to generate security tip")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tip": tip})
}

func (a *advisorApi) chat(c *gin.Context) {
	if a.assistant == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI service is not configured"})
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Question is required"})
		return
	}

	answer, err := a.assistant.Answer(c.Request.Context(), req.Question)
	if err != nil {
		advisorError(c, err, "Failed to get AI response")
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": answer})
}

func advisorError(c *gin.Context, err error, fallback string) {
	log.Error().Err(err).Msg("advisor request failed")
	switch {
	case errors.Is(err, advisor.ErrRateLimited):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "AI service temporarily unavailable due to rate limits. Please try again later.",
			"details": "API rate limit exceeded",
		})
	case errors.Is(err, advisor.ErrUnauthorized):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "AI service configuration error. Please contact support.",
			"details": "API authentication failed",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   fallback,
			"details": err.Error(),
		})
	}
}

// RegisterAdvisorApi mounts the AI tip and chat endpoints. Nil services answer that the AI
// service is not configured.
func RegisterAdvisorApi(group *gin.RouterGroup, tips advisor.TipGenerator, assistant advisor.Assistant) {
	a := &advisorApi{tips: tips, assistant: assistant}

	group.POST("/tip", a.generateTip)
	group.POST("/chat", a.chat)
}
