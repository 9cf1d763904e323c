package clients

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const openAIRequestTimeout = 60 * time.Second

type OpenAIClient struct {
	Client *openai.Client
	Model  string
}

func NewOpenAIClient(apiKey, model string) (*OpenAIClient, error) {
	if apiKey == "" {
		slog.Error("[OpenAIClient] Missing OPENAI_API_KEY in environment variables")
		return nil, errors.New("missing OPENAI_API_KEY")
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(&http.Client{Timeout: openAIRequestTimeout}),
	)
	slog.Info("[OpenAIClient] OpenAI client initialized",
		slog.String("model", model),
		slog.Duration("timeout", openAIRequestTimeout))

	return &OpenAIClient{Client: client, Model: model}, nil
}

// Complete sends a system and user message and returns the first choice's
// content with any Markdown code fence removed.
func (o *OpenAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	chatCompletion, err := o.Client.Chat.Completions.New(ctx,
		openai.ChatCompletionNewParams{
			Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(system),
				openai.UserMessage(user),
			}),
			Model:       openai.F(openai.ChatModel(o.Model)),
			Temperature: openai.Float(0),
		})
	if err != nil {
		return "", err
	}

	if len(chatCompletion.Choices) == 0 || strings.TrimSpace(chatCompletion.Choices[0].Message.Content) == "" {
		return "", errors.New("openai returned an empty response")
	}

	return cleanOpenAIResponse(chatCompletion.Choices[0].Message.Content), nil
}

func cleanOpenAIResponse(response string) string {
	response = strings.TrimSpace(response)

	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")

	// Standardize quotes in case the model outputs them incorrectly
	response = strings.ReplaceAll(response, "“", `"`)
	response = strings.ReplaceAll(response, "”", `"`)

	return strings.TrimSpace(response)
}
