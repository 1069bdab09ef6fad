package handler

import (
	"net/http"

	noticeDto "github.com/SahilxSingh/EduConnect/internal/modules/notice/dto"
	notice "github.com/SahilxSingh/EduConnect/internal/modules/notice/service"
	"github.com/SahilxSingh/EduConnect/pkg/response"
	"github.com/gin-gonic/gin"
)

type NoticeHandler struct {
	service notice.NoticeService
}

func NewNoticeHandler(service notice.NoticeService) *NoticeHandler {
	return &NoticeHandler{service: service}
}

func (h *NoticeHandler) List(c *gin.Context) {
	var filter noticeDto.NoticeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindError(c, err)
		return
	}

	notices, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notices": notices})
}

func (h *NoticeHandler) Create(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req noticeDto.CreateNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}
