package handler

import (
	"net/http"

	chatDto "github.com/SahilxSingh/EduConnect/internal/modules/chat/dto"
	chat "github.com/SahilxSingh/EduConnect/internal/modules/chat/service"
	"github.com/SahilxSingh/EduConnect/pkg/apperror"
	"github.com/SahilxSingh/EduConnect/pkg/realtime"
	"github.com/SahilxSingh/EduConnect/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type ChatHandler struct {
	service     chat.ChatService
	redisClient *redis.Client
	upgrader    websocket.Upgrader
	log         zerolog.Logger
}

func NewChatHandler(service chat.ChatService, redisClient *redis.Client, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		service:     service,
		redisClient: redisClient,
		upgrader:    realtime.NewUpgrader(),
		log:         log,
	}
}

func chatIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("chatId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *ChatHandler) Start(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req chatDto.StartChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	created, err := h.service.Start(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *ChatHandler) UserChats(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	chats, err := h.service.UserChats(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"chats": chats})
}

func (h *ChatHandler) Send(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}

	var req chatDto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	message, err := h.service.Send(c.Request.Context(), userID, chatID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

func (h *ChatHandler) Messages(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}

	messages, err := h.service.Messages(c.Request.Context(), userID, chatID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// Stream relays new messages of a chat over a websocket.
func (h *ChatHandler) Stream(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}
	if h.redisClient == nil {
		response.ResponseError(c, apperror.Unavailable("realtime chat is not configured"))
		return
	}

	channel, err := h.service.Channel(c.Request.Context(), userID, chatID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("failed to upgrade websocket")
		return
	}

	realtime.Bridge(c.Request.Context(), conn, h.redisClient, channel, h.log)
}
