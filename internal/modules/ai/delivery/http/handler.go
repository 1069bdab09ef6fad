package handler

import (
	"errors"
	"net/http"

	aiDto "github.com/SahilxSingh/EduConnect/internal/modules/ai/dto"
	ai "github.com/SahilxSingh/EduConnect/internal/modules/ai/service"
	"github.com/SahilxSingh/EduConnect/pkg/response"
	"github.com/gin-gonic/gin"
)

type AIHandler struct {
	service ai.AIService
}

func NewAIHandler(service ai.AIService) *AIHandler {
	return &AIHandler{service: service}
}

// AskDoubt handles POST /api/ai/ask-doubt.
func (h *AIHandler) AskDoubt(c *gin.Context) {
	var req aiDto.AskDoubtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, aiDto.AskDoubtError{Error: "Question is required"})
		return
	}

	answer, err := h.service.AskDoubt(c.Request.Context(), c.ClientIP(), req.Question)
	if err != nil {
		var chainErr *ai.ChainError
		if errors.As(err, &chainErr) {
			c.JSON(http.StatusInternalServerError, aiDto.AskDoubtError{
				Error:           chainErr.Message,
				Details:         chainErr.Details,
				AvailableModels: chainErr.AvailableModels,
			})
			return
		}
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, aiDto.AskDoubtResponse{Answer: answer})
}
