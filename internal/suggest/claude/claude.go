package claude

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/liushuangls/go-anthropic/v2"

	"ecopontos/internal/suggest"
)

// Analyzer asks the Anthropic Messages API which catalog categories a
// collection-point photo shows.
type Analyzer struct {
	client *anthropic.Client
	model  string
}

func New(apiKey, model string) *Analyzer {
	return &Analyzer{
		client: anthropic.NewClient(apiKey),
		model:  model,
	}
}

func (a *Analyzer) Suggest(ctx context.Context, r io.Reader, mimeType string, categories []string) ([]string, error) {
	imageData, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	resp, err := a.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model: anthropic.Model(a.model),
		// The response is at most one short line per catalog category.
		MaxTokens: 256,
		Messages: []anthropic.Message{
			{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					anthropic.NewImageMessageContent(anthropic.NewMessageContentSource(
						anthropic.MessagesContentSourceTypeBase64,
						mimeType,
						base64.StdEncoding.EncodeToString(imageData),
					)),
					anthropic.NewTextMessageContent(suggest.Prompt(categories)),
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("messages request failed: %w", err)
	}

	return suggest.MatchCategories(resp.GetFirstContentText(), categories), nil
}
