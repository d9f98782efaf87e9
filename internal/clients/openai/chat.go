package openai

import (
	"context"
	"errors"
	"fmt"

	"callrelay/internal/clients/workflow"
	"callrelay/internal/observability"

	openaisdk "github.com/openai/openai-go"
	openaiOption "github.com/openai/openai-go/option"
)

const defaultChatModel = "gpt-4o-mini"

// ChatBackend answers customer messages with chat completions, resending the
// recent conversation on every request.
type ChatBackend struct {
	complete func(ctx context.Context, params openaisdk.ChatCompletionNewParams) (*openaisdk.ChatCompletion, error)
	model    string
	history  *workflow.History
	logger   *observability.Logger
}

func NewChatBackend(apiKey, model string, logger *observability.Logger, opts ...openaiOption.RequestOption) *ChatBackend {
	if model == "" {
		model = defaultChatModel
	}
	options := append([]openaiOption.RequestOption{openaiOption.WithAPIKey(apiKey)}, opts...)
	client := openaisdk.NewClient(options...)

	return &ChatBackend{
		complete: func(ctx context.Context, params openaisdk.ChatCompletionNewParams) (*openaisdk.ChatCompletion, error) {
			return client.Chat.Completions.New(ctx, params)
		},
		model:   model,
		history: workflow.NewHistory(0),
		logger:  logger,
	}
}

func (b *ChatBackend) Reply(ctx context.Context, conversationID, message, customerPhone string) (string, error) {
	messages := []openaisdk.ChatCompletionMessageParamUnion{
		openaisdk.SystemMessage(workflow.Instructions + "\nCustomer phone: " + customerPhone),
	}
	for _, turn := range b.history.Get(conversationID) {
		if turn.Role == workflow.RoleAgent {
			messages = append(messages, openaisdk.AssistantMessage(turn.Text))
		} else {
			messages = append(messages, openaisdk.UserMessage(turn.Text))
		}
	}
	messages = append(messages, openaisdk.UserMessage(message))

	completion, err := b.complete(ctx, openaisdk.ChatCompletionNewParams{
		Messages: messages,
		Model:    openaisdk.ChatModel(b.model),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", errors.Join(workflow.ErrEmptyReply, fmt.Errorf("completion %s had no content", completion.ID))
	}

	reply := completion.Choices[0].Message.Content
	b.history.Append(conversationID,
		workflow.Turn{Role: workflow.RoleCustomer, Text: message},
		workflow.Turn{Role: workflow.RoleAgent, Text: reply},
	)
	return reply, nil
}

// Forget drops the stored conversation.
func (b *ChatBackend) Forget(conversationID string) {
	b.history.Forget(conversationID)
}
