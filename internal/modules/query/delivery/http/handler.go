package handler

import (
	"net/http"

	queryDto "github.com/SahilxSingh/EduConnect/internal/modules/query/dto"
	query "github.com/SahilxSingh/EduConnect/internal/modules/query/service"
	"github.com/SahilxSingh/EduConnect/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type QueryHandler struct {
	service query.QueryService
}

func NewQueryHandler(service query.QueryService) *QueryHandler {
	return &QueryHandler{service: service}
}

func (h *QueryHandler) Submit(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req queryDto.SubmitQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	created, err := h.service.Submit(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *QueryHandler) ListForTeacher(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	queries, err := h.service.ListForTeacher(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"queries": queries})
}

func (h *QueryHandler) ListForStudent(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	queries, err := h.service.ListForStudent(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"queries": queries})
}

func (h *QueryHandler) Answer(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	queryID, err := uuid.Parse(c.Param("queryId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query id"})
		return
	}

	var req queryDto.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	answered, err := h.service.Answer(c.Request.Context(), userID, queryID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, answered)
}
