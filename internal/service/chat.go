package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/farmconnect/farmconnect-api/internal/dto"
	"github.com/farmconnect/farmconnect-api/internal/gemini"
	"github.com/farmconnect/farmconnect-api/internal/model"
	"github.com/farmconnect/farmconnect-api/internal/repository"
)

var (
	ErrMessageEmpty    = errors.New("message cannot be empty")
	ErrMessageTooLong  = errors.New("message too long")
	ErrSessionCapped   = errors.New("message limit reached for this session")
	ErrAssistantFailed = errors.New("assistant unavailable")
)

const systemPrompt = "You are FarmBot Pro, an intelligent AI assistant for the FarmConnect Pro " +
	"agricultural marketplace. You are knowledgeable, helpful, and professional. You specialize " +
	"in farming, agriculture, marketplace guidance, and general assistance. Always provide " +
	"accurate, helpful, and well-formatted responses."

// Generator produces an assistant reply for a prompt. *gemini.Client
// satisfies it; tests substitute a fake.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

type ChatService struct {
	chatRepo     repository.ChatRepository
	generator    Generator
	maxLength    int
	maxPerSess   int
	historyDepth int
}

func NewChatService(chatRepo repository.ChatRepository, generator Generator, maxLength, maxPerSession, historyDepth int) *ChatService {
	return &ChatService{
		chatRepo:     chatRepo,
		generator:    generator,
		maxLength:    maxLength,
		maxPerSess:   maxPerSession,
		historyDepth: historyDepth,
	}
}

func (s *ChatService) Send(ctx context.Context, req dto.ChatRequest, userIP, userAgent string) (*dto.ChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrMessageEmpty
	}
	if len(message) > s.maxLength {
		return nil, ErrMessageTooLong
	}

	count, err := s.chatRepo.MessageCount(ctx, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("message count: %w", err)
	}
	if count >= s.maxPerSess {
		return nil, ErrSessionCapped
	}

	if err := s.chatRepo.EnsureSession(ctx, req.SessionID, userIP, userAgent); err != nil {
		return nil, fmt.Errorf("ensure session: %w", err)
	}
	if err := s.chatRepo.SaveMessage(ctx, req.SessionID, "user", message, 0); err != nil {
		return nil, fmt.Errorf("save user message: %w", err)
	}

	history, err := s.chatRepo.History(ctx, req.SessionID, s.historyDepth)
	if err != nil {
		return nil, fmt.Errorf("chat history: %w", err)
	}

	start := time.Now()
	reply, err := s.generator.GenerateContent(ctx, buildPrompt(message, history))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrAssistantFailed, friendlyError(err))
	}
	responseTime := int(time.Since(start).Milliseconds())

	reply = cleanReply(reply)
	if err := s.chatRepo.SaveMessage(ctx, req.SessionID, "bot", reply, responseTime); err != nil {
		return nil, fmt.Errorf("save bot message: %w", err)
	}

	return &dto.ChatResponse{
		Message:      reply,
		ResponseTime: responseTime,
		Model:        s.generator.Model(),
		SessionID:    req.SessionID,
		MessageCount: count + 2,
	}, nil
}

// buildPrompt prepends the system prompt and the tail of the conversation.
// The current user message is already the last entry in history.
func buildPrompt(message string, history []model.ChatMessage) string {
	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\n")

	// Everything before the just-saved user message is prior context.
	if len(history) > 1 {
		b.WriteString("Previous conversation:\n")
		prior := history[:len(history)-1]
		if len(prior) > 3 {
			prior = prior[len(prior)-3:]
		}
		for _, msg := range prior {
			role := "FarmBot Pro"
			if msg.MessageType == "user" {
				role = "User"
			}
			fmt.Fprintf(&b, "%s: %s\n", role, msg.Message)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "User: %s\n\nFarmBot Pro:", message)
	return b.String()
}

func cleanReply(text string) string {
	text = strings.TrimSpace(text)
	for _, prefix := range []string{"FarmBot Pro:", "Assistant:"} {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimSpace(strings.TrimPrefix(text, prefix))
		}
	}
	return text
}

func friendlyError(err error) string {
	switch {
	case errors.Is(err, gemini.ErrBlocked):
		return "I can't provide a response to that question. Please ask about farming, agriculture, or marketplace topics."
	case strings.Contains(err.Error(), "429"):
		return "I'm receiving many questions right now. Please wait a moment and try again."
	case strings.Contains(err.Error(), "401"), strings.Contains(err.Error(), "403"):
		return "I'm having trouble connecting to my knowledge base. Please contact support."
	default:
		return "My AI service is temporarily unavailable. Please try again in a few moments."
	}
}
