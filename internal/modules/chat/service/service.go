package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/SahilxSingh/EduConnect/internal/entity"
	chatDto "github.com/SahilxSingh/EduConnect/internal/modules/chat/dto"
	chatRepo "github.com/SahilxSingh/EduConnect/internal/modules/chat/repository"
	userService "github.com/SahilxSingh/EduConnect/internal/modules/user/service"
	"github.com/SahilxSingh/EduConnect/pkg/apperror"
	"github.com/SahilxSingh/EduConnect/pkg/dto"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type ChatService interface {
	Start(ctx context.Context, actorID string, req chatDto.StartChatRequest) (*chatDto.ChatResponse, error)
	Send(ctx context.Context, actorID string, chatID uuid.UUID, req chatDto.SendMessageRequest) (*chatDto.MessageResponse, error)
	Messages(ctx context.Context, actorID string, chatID uuid.UUID) ([]chatDto.MessageResponse, error)
	UserChats(ctx context.Context, actorID string) ([]chatDto.ChatListItem, error)
	// Channel returns the pubsub channel of a chat the caller belongs to.
	Channel(ctx context.Context, actorID string, chatID uuid.UUID) (string, error)
}

type chatService struct {
	repo        chatRepo.ChatRepository
	users       userService.Directory
	redisClient *redis.Client
	log         zerolog.Logger
}

func NewChatService(repo chatRepo.ChatRepository, users userService.Directory, redisClient *redis.Client, log zerolog.Logger) ChatService {
	return &chatService{
		repo:        repo,
		users:       users,
		redisClient: redisClient,
		log:         log,
	}
}

func ChannelName(chatID uuid.UUID) string {
	return fmt.Sprintf("chat:%s", chatID)
}

func (s *chatService) Start(ctx context.Context, actorID string, req chatDto.StartChatRequest) (*chatDto.ChatResponse, error) {
	actor, err := s.users.Resolve(ctx, actorID)
	if err != nil {
		return nil, err
	}

	externalIDs := []string{actor.ClerkID}
	memberIDs := []uuid.UUID{actor.ID}
	seen := map[string]bool{actor.ClerkID: true}
	for _, raw := range req.Participants {
		id := strings.TrimSpace(raw)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		user, err := s.users.Resolve(ctx, id)
		if err != nil {
			return nil, err
		}
		externalIDs = append(externalIDs, user.ClerkID)
		memberIDs = append(memberIDs, user.ID)
	}
	if len(memberIDs) < 2 {
		return nil, apperror.BadRequest("At least two participants are required to start a chat")
	}

	chat := &entity.Chat{
		Name:    trimmedOrNil(req.Name),
		IsGroup: len(memberIDs) > 2,
	}
	if err := s.repo.Create(ctx, chat, memberIDs); err != nil {
		return nil, fmt.Errorf("failed to start chat: %w", err)
	}

	return &chatDto.ChatResponse{
		ID:           chat.ID,
		Name:         chat.Name,
		IsGroup:      chat.IsGroup,
		Participants: externalIDs,
		CreatedAt:    chat.CreatedAt,
	}, nil
}

func (s *chatService) Send(ctx context.Context, actorID string, chatID uuid.UUID, req chatDto.SendMessageRequest) (*chatDto.MessageResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperror.BadRequest("content is required")
	}

	sender, err := s.requireMember(ctx, actorID, chatID)
	if err != nil {
		return nil, err
	}

	message := &entity.Message{
		ChatID:   chatID,
		SenderID: sender.ID,
		Content:  content,
	}
	if err := s.repo.CreateMessage(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	resp := &chatDto.MessageResponse{
		ID:        message.ID,
		ChatID:    message.ChatID,
		UserID:    sender.ClerkID,
		Content:   message.Content,
		CreatedAt: message.CreatedAt,
	}

	if s.redisClient != nil {
		payload, err := json.Marshal(resp)
		if err == nil {
			if err := s.redisClient.Publish(ctx, ChannelName(chatID), payload).Err(); err != nil {
				s.log.Warn().Err(err).Str("chat_id", chatID.String()).Msg("chat publish failed")
			}
		}
	}

	return resp, nil
}

func (s *chatService) Messages(ctx context.Context, actorID string, chatID uuid.UUID) ([]chatDto.MessageResponse, error) {
	if _, err := s.requireMember(ctx, actorID, chatID); err != nil {
		return nil, err
	}

	messages, err := s.repo.ListMessages(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	senderIDs := make([]uuid.UUID, len(messages))
	for i, m := range messages {
		senderIDs[i] = m.SenderID
	}
	senders, err := s.users.Summaries(ctx, senderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load senders: %w", err)
	}

	out := make([]chatDto.MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, chatDto.MessageResponse{
			ID:        m.ID,
			ChatID:    m.ChatID,
			UserID:    senders[m.SenderID].UserID,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	return out, nil
}

// UserChats lists the caller's chats, most recently active first. Chats,
// members and last messages are loaded together for the whole chat set.
func (s *chatService) UserChats(ctx context.Context, actorID string) ([]chatDto.ChatListItem, error) {
	actor, err := s.users.Resolve(ctx, actorID)
	if err != nil {
		return nil, err
	}

	chatIDs, err := s.repo.ChatIDsForUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chats: %w", err)
	}
	out := []chatDto.ChatListItem{}
	if len(chatIDs) == 0 {
		return out, nil
	}

	var (
		chats    []entity.Chat
		members  []entity.ChatMember
		messages []entity.Message
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		chats, err = s.repo.FindByIDs(gctx, chatIDs)
		return err
	})
	g.Go(func() error {
		var err error
		members, err = s.repo.MembersOf(gctx, chatIDs)
		return err
	})
	g.Go(func() error {
		var err error
		messages, err = s.repo.LatestMessages(gctx, chatIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load chats: %w", err)
	}

	userIDs := make([]uuid.UUID, 0, len(members))
	membersByChat := make(map[uuid.UUID][]uuid.UUID, len(chats))
	for _, m := range members {
		userIDs = append(userIDs, m.UserID)
		membersByChat[m.ChatID] = append(membersByChat[m.ChatID], m.UserID)
	}
	summaries, err := s.users.Summaries(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}

	lastByChat := make(map[uuid.UUID]entity.Message, len(messages))
	for _, m := range messages {
		if prev, ok := lastByChat[m.ChatID]; !ok || m.CreatedAt.After(prev.CreatedAt) {
			lastByChat[m.ChatID] = m
		}
	}

	for _, chat := range chats {
		item := chatDto.ChatListItem{
			ID:            chat.ID,
			Name:          chat.Name,
			IsGroup:       chat.IsGroup,
			Participants:  []dto.UserSummary{},
			LastMessageAt: chat.CreatedAt,
		}
		for _, id := range membersByChat[chat.ID] {
			if sum, ok := summaries[id]; ok {
				item.Participants = append(item.Participants, sum)
			}
		}
		item.Participant = otherParticipant(item.Participants, actor.ClerkID)
		if last, ok := lastByChat[chat.ID]; ok {
			item.LastMessage = last.Content
			item.LastMessageAt = last.CreatedAt
		}
		out = append(out, item)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastMessageAt.After(out[j].LastMessageAt)
	})
	return out, nil
}

func (s *chatService) Channel(ctx context.Context, actorID string, chatID uuid.UUID) (string, error) {
	if _, err := s.requireMember(ctx, actorID, chatID); err != nil {
		return "", err
	}
	return ChannelName(chatID), nil
}

func (s *chatService) requireMember(ctx context.Context, actorID string, chatID uuid.UUID) (*entity.User, error) {
	user, err := s.users.Resolve(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByID(ctx, chatID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("chat not found")
		}
		return nil, fmt.Errorf("failed to load chat: %w", err)
	}

	member, err := s.repo.IsMember(ctx, chatID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !member {
		return nil, apperror.Forbidden("you are not a member of this chat")
	}
	return user, nil
}

// otherParticipant is the first participant who is not the caller, or the
// caller when they are alone in the list.
func otherParticipant(participants []dto.UserSummary, callerID string) *dto.UserSummary {
	for i := range participants {
		if participants[i].UserID != callerID {
			return &participants[i]
		}
	}
	if len(participants) > 0 {
		return &participants[0]
	}
	return nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
