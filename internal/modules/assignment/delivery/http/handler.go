package handler

import (
	"net/http"

	assignmentDto "github.com/SahilxSingh/EduConnect/internal/modules/assignment/dto"
	assignment "github.com/SahilxSingh/EduConnect/internal/modules/assignment/service"
	"github.com/SahilxSingh/EduConnect/pkg/dto"
	"github.com/SahilxSingh/EduConnect/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AssignmentHandler struct {
	service assignment.AssignmentService
}

func NewAssignmentHandler(service assignment.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: service}
}

// Create handles POST /api/assignments. The teacher is named in the body.
func (h *AssignmentHandler) Create(c *gin.Context) {
	var req assignmentDto.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), req); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// ListForTeacher handles GET /api/assignments?teacherId=.
func (h *AssignmentHandler) ListForTeacher(c *gin.Context) {
	assignments, err := h.service.ListForTeacher(c.Request.Context(), c.Query("teacherId"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"assignments": assignments})
}

func (h *AssignmentHandler) ListForStudent(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	assignments, err := h.service.ListForStudent(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"assignments": assignments})
}

func (h *AssignmentHandler) Submit(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	assignmentID, err := uuid.Parse(c.Param("assignmentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assignment id"})
		return
	}

	var req assignmentDto.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	submission, err := h.service.Submit(c.Request.Context(), userID, assignmentID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

// ListSubmissions handles GET /api/assignments/:assignmentId/submissions.
func (h *AssignmentHandler) ListSubmissions(c *gin.Context) {
	raw := c.Param("assignmentId")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing assignmentId"})
		return
	}
	assignmentID, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assignment id"})
		return
	}

	submissions, err := h.service.ListSubmissions(c.Request.Context(), assignmentID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"submissions": submissions})
}
