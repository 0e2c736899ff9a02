package services

import (
	"context"
	"net/http"

	"github.com/quillfox/lmx/internal/api"
)

// ChatProvider is an AI provider the backend can route chat messages to.
type ChatProvider struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// ChatReply is the assistant's answer to a chat message.
type ChatReply struct {
	Response string `json:"response"`
	Provider string `json:"provider"`
}

// ChatService talks to the course-aware AI chat.
type ChatService struct {
	client *api.Client
}

// NewChatService creates a chat service backed by the shared client.
func NewChatService(client *api.Client) *ChatService {
	return &ChatService{client: client}
}

// Providers lists the chat providers configured on the backend.
func (s *ChatService) Providers(ctx context.Context) ([]ChatProvider, error) {
	resp, err := s.client.Call(ctx, "/api/chat/providers", api.CallOptions{})
	if err != nil {
		return nil, err
	}

	var providers []ChatProvider
	if err := resp.Decode(&providers); err != nil {
		return nil, err
	}
	return providers, nil
}

// Send posts a message, optionally scoped to a course for context, and
// returns the assistant's reply.
func (s *ChatService) Send(ctx context.Context, provider, message string, courseID int) (*ChatReply, error) {
	body := map[string]any{"provider": provider, "message": message}
	if courseID > 0 {
		body["course_id"] = courseID
	}

	resp, err := s.client.Call(ctx, "/api/chat/message", api.CallOptions{
		Method: http.MethodPost,
		Body:   body,
	})
	if err != nil {
		return nil, err
	}

	var reply ChatReply
	if err := resp.Decode(&reply); err != nil {
		return nil, err
	}
	return &reply, nil
}
