// ABOUTME: OpenAI chat-completion implementation of the Rewriter interface
// ABOUTME: Single request/response, no streaming, no retries at this layer

package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is used when the config doesn't name one.
const DefaultModel = openai.GPT4oMini

// OpenAIRewriter implements Rewriter with one chat completion per call:
// the instruction as the system message, the input as the user message.
type OpenAIRewriter struct {
	client *openai.Client
	model  string
}

// NewOpenAIRewriter creates a rewriter for the given API key and model.
func NewOpenAIRewriter(apiKey, model string) *OpenAIRewriter {
	if model == "" {
		model = DefaultModel
	}
	return &OpenAIRewriter{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Rewrite performs one completion and returns the trimmed first choice.
func (r *OpenAIRewriter) Rewrite(ctx context.Context, instruction, input string) (string, error) {
	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: instruction},
			{Role: openai.ChatMessageRoleUser, Content: input},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", errors.New("completion returned empty content")
	}
	return out, nil
}
