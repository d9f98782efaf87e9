package googleai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"callrelay/internal/clients/workflow"
	"callrelay/internal/observability"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

// GeminiBackend answers customer messages with Gemini, resending the recent
// conversation on every request.
type GeminiBackend struct {
	client  *genai.Client
	model   string
	history *workflow.History
	logger  *observability.Logger
}

// NewGeminiBackend creates the client. A non-empty baseURL overrides the API
// endpoint.
func NewGeminiBackend(ctx context.Context, apiKey, model, baseURL string, logger *observability.Logger) (*GeminiBackend, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google AI client: %w", err)
	}
	if model == "" {
		model = defaultModel
	}

	return &GeminiBackend{
		client:  client,
		model:   model,
		history: workflow.NewHistory(0),
		logger:  logger,
	}, nil
}

func (g *GeminiBackend) Reply(ctx context.Context, conversationID, message, customerPhone string) (string, error) {
	var contents []*genai.Content
	for _, turn := range g.history.Get(conversationID) {
		contents = append(contents, textContent(turn.Text, turn.Role))
	}
	contents = append(contents, textContent(message, workflow.RoleCustomer))

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: workflow.Instructions + "\nCustomer phone: " + customerPhone}},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.Join(workflow.ErrEmptyReply, errors.New("gemini returned no candidates"))
	}

	var reply strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			reply.WriteString(part.Text)
		}
	}
	if reply.Len() == 0 {
		return "", workflow.ErrEmptyReply
	}

	g.history.Append(conversationID,
		workflow.Turn{Role: workflow.RoleCustomer, Text: message},
		workflow.Turn{Role: workflow.RoleAgent, Text: reply.String()},
	)
	return reply.String(), nil
}

func (g *GeminiBackend) Forget(conversationID string) {
	g.history.Forget(conversationID)
}

// textContent builds one turn; Gemini calls the assistant role "model".
func textContent(text string, role workflow.Role) *genai.Content {
	content := genai.Text(text)[0]
	content.Role = "user"
	if role == workflow.RoleAgent {
		content.Role = "model"
	}
	return content
}
