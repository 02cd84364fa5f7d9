// Package assistant answers free-form platform questions in chat form, with
// a system prompt picked by the caller's role.
package assistant

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/zhiyanlab/research-match/pkg/llm"
	"github.com/zhiyanlab/research-match/pkg/logger"
)

// FallbackReply is returned whenever the backend cannot answer.
const FallbackReply = "the assistant is temporarily unavailable, please try again later"

// maxHistory bounds how many prior turns are replayed to the model.
const maxHistory = 20

var systemPrompts = map[string]string{
	"student": "You are the assistant of a university research-project matching platform, helping students find suitable research projects, polish applications and plan their research path. Answer concisely and practically.",
	"teacher": "You are the assistant of a university research-project matching platform, helping faculty write project postings, screen applicants and manage research teams. Answer concisely and practically.",
	"admin":   "You are the assistant of a university research-project matching platform, helping administrators run the platform, answer policy questions and resolve user issues. Answer concisely and practically.",
}

const defaultSystemPrompt = "You are the assistant of a university research-project matching platform. Answer concisely and practically."

// Turn is one prior message of the conversation, oldest first.
type Turn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Service relays chat messages through the gateway. Chat never fails; the
// fixed fallback reply stands in for any backend problem. A Service built
// with NewLocalService answers from the canned keyword table instead.
type Service struct {
	gw        llm.Gateway
	logger    *zap.Logger
	maxLogLen int
}

func NewService(gw llm.Gateway, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{gw: gw, logger: log, maxLogLen: 200}
}

// NewLocalService builds the variant used when no generative backend is
// configured. Replies come from the keyword table and never hit the network.
func NewLocalService(log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{logger: log, maxLogLen: 200}
}

func (s *Service) Chat(ctx context.Context, role string, history []Turn, message string) string {
	if s.gw == nil {
		return LocalReply(message)
	}
	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: SystemPromptFor(role)})
	for _, t := range history {
		r := llm.RoleUser
		if t.Role == "assistant" {
			r = llm.RoleAssistant
		}
		messages = append(messages, llm.Message{Role: r, Content: t.Content})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: message})

	res, err := s.gw.Invoke(ctx, llm.Request{Messages: messages})
	if err != nil {
		s.logger.Warn("assistant chat failed, using fallback",
			zap.String("role", role),
			zap.Error(err),
		)
		return FallbackReply
	}
	reply := strings.TrimSpace(res.Text)
	if reply == "" {
		return FallbackReply
	}
	s.logger.Debug("assistant replied",
		zap.String("role", role),
		zap.String("preview", logger.TruncateForLog(reply, s.maxLogLen)),
	)
	return reply
}

// SystemPromptFor returns the role's system prompt, falling back to the
// generic one for unknown roles.
func SystemPromptFor(role string) string {
	if p, ok := systemPrompts[strings.ToLower(role)]; ok {
		return p
	}
	return defaultSystemPrompt
}
