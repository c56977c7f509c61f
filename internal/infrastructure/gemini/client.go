package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Client generates icebreaker suggestions for fresh matches. The whole
// feature is best-effort: callers must tolerate a nil client and any error.
type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewClient(apiKey string) (*Client, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-1.5-pro")
	model.SetTemperature(0.7)

	return &Client{
		client: client,
		model:  model,
	}, nil
}

func (c *Client) Close() {
	c.client.Close()
}

// GenerateIcebreakers suggests short opening messages for two van-lifers who
// just matched, based on their bios and travel styles.
func (c *Client) GenerateIcebreakers(ctx context.Context, nameA, bioA, nameB, bioB string) ([]string, error) {
	prompt := fmt.Sprintf(`
		Two van-life travelers just matched on a social app.
		%s: %s
		%s: %s

		Task: Write 3 short, friendly icebreaker messages %s could send to %s.
		Reference road life, travel, or their shared interests when possible.
		Output: a JSON array of 3 strings, nothing else.
	`, nameA, bioA, nameB, bioB, nameA, nameB)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("empty gemini response")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	raw := strings.TrimSpace(sb.String())
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var icebreakers []string
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &icebreakers); err != nil {
		return nil, fmt.Errorf("failed to parse icebreakers: %w", err)
	}
	return icebreakers, nil
}
