package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rcliao/wellness-profile/internal/model"
)

// ChatPrompt is what the engine hands the chat assistant for one message.
type ChatPrompt struct {
	UserID  string
	Message string
	Context ChatContext
}

// ChatReply is the assistant's answer plus the signals it extracted from
// the user's message. The engine does not parse Text.
type ChatReply struct {
	Text string         `json:"text"`
	Turn model.ChatTurn `json:"turn"`
}

// ChatAssistant produces replies and message analysis. Implementations
// live outside this module.
type ChatAssistant interface {
	Reply(ctx context.Context, prompt ChatPrompt) (ChatReply, error)
}

// Conversation is the outcome of one Converse call.
type Conversation struct {
	Reply  string  `json:"reply"`
	Update *Update `json:"update"`
}

// Converse sends a message to the assistant with the user's session
// context and folds the returned analysis into the profile.
func (e *Engine) Converse(ctx context.Context, userID, message string) (*Conversation, error) {
	if e.assistant == nil {
		return nil, ErrNoAssistant
	}
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: message is required", ErrInvalidInput)
	}
	cc, err := e.SessionContext(ctx, userID)
	if err != nil {
		return nil, err
	}
	reply, err := e.assistant.Reply(ctx, ChatPrompt{UserID: userID, Message: message, Context: *cc})
	if err != nil {
		return nil, fmt.Errorf("chat assistant: %w", err)
	}
	up, err := e.ApplyChatTurn(ctx, userID, reply.Turn)
	if err != nil {
		return nil, err
	}
	return &Conversation{Reply: reply.Text, Update: up}, nil
}
