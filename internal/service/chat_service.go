package service

import (
	"context"
	"log/slog"
	"strings"

	"gardencircle/internal/models"
	"gardencircle/internal/observability"
	"gardencircle/internal/repository"
)

const (
	maxChatMessageLen  = 2000
	defaultChatHistory = 50
)

// assistantDownReply is stored as the bot turn when the live model cannot
// answer, so every user message in the transcript has a reply.
const assistantDownReply = "I could not reach the garden assistant just now. Please ask again in a moment."

// Replier produces the assistant's answer to one user message given the
// recent conversation.
type Replier interface {
	Reply(ctx context.Context, history []*models.ChatMessage, message string) (string, error)
}

type ChatService struct {
	chatRepo repository.ChatRepository
	replier  Replier
}

// ChatExchange is one completed request/response pair.
type ChatExchange struct {
	UserMessage *models.ChatMessage `json:"userMessage"`
	BotMessage  *models.ChatMessage `json:"botMessage"`
}

func NewChatService(chatRepo repository.ChatRepository, replier Replier) *ChatService {
	return &ChatService{chatRepo: chatRepo, replier: replier}
}

// SendMessage appends the user's message, asks the assistant, and appends
// the reply. The log is append-only; nothing here ever rewrites history.
// When the assistant cannot answer, a stock reply is stored instead of
// failing the request.
func (s *ChatService) SendMessage(ctx context.Context, userID uint, message string) (*ChatExchange, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, models.NewValidationError("Message cannot be empty")
	}
	if len(message) > maxChatMessageLen {
		return nil, models.NewValidationError("Message is too long")
	}

	history, err := s.chatRepo.History(ctx, userID, defaultChatHistory)
	if err != nil {
		return nil, err
	}

	userMsg := &models.ChatMessage{
		UserID:  userID,
		Role:    models.ChatRoleUser,
		Content: message,
	}
	if err := s.chatRepo.Append(ctx, userMsg); err != nil {
		return nil, err
	}

	reply, err := s.replier.Reply(ctx, history, message)
	if err != nil {
		observability.AssistantRequests.WithLabelValues("error").Inc()
		slog.ErrorContext(ctx, "assistant reply failed", "error", err)
		reply = assistantDownReply
	} else {
		observability.AssistantRequests.WithLabelValues("ok").Inc()
	}

	botMsg := &models.ChatMessage{
		UserID:  userID,
		Role:    models.ChatRoleBot,
		Content: reply,
	}
	if err := s.chatRepo.Append(ctx, botMsg); err != nil {
		return nil, err
	}

	return &ChatExchange{UserMessage: userMsg, BotMessage: botMsg}, nil
}

func (s *ChatService) History(ctx context.Context, userID uint, limit int) ([]*models.ChatMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = defaultChatHistory
	}
	return s.chatRepo.History(ctx, userID, limit)
}
