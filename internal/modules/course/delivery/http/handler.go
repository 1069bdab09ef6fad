package handler

import (
	"net/http"

	course "github.com/SahilxSingh/EduConnect/internal/modules/course/service"
	"github.com/SahilxSingh/EduConnect/pkg/response"
	"github.com/gin-gonic/gin"
)

type CourseHandler struct {
	service course.CourseService
}

func NewCourseHandler(service course.CourseService) *CourseHandler {
	return &CourseHandler{service: service}
}

func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.service.ListCourses(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"courses": courses})
}
