// Package assistant answers member questions through the Gemini API, with a
// canned fallback when no API key is configured.
package assistant

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"gardencircle/internal/models"

	"google.golang.org/genai"
)

const systemPrompt = "You are the GardenCircle assistant, a friendly expert on " +
	"home gardening: plants, soil, pests, watering, and seasonal care. Keep " +
	"answers short and practical. If a question is not about gardening, " +
	"politely steer back to the garden."

// GeminiClient talks to the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a live assistant client.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

// Reply sends the conversation so far plus the new message and returns the
// model's answer.
func (c *GeminiClient) Reply(ctx context.Context, history []*models.ChatMessage, message string) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, msg := range history {
		var role genai.Role = genai.RoleUser
		if msg.Role == models.ChatRoleBot {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, role))
	}
	contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty reply")
	}
	return text, nil
}

// FallbackReplier answers with canned gardening tips when no live model is
// configured, so development installs still have a working chat page.
type FallbackReplier struct{}

var fallbackReplies = []string{
	"Most vegetables want at least six hours of direct sun. Watch your spot through a day before planting.",
	"Water deeply and less often. Shallow daily watering keeps roots near the surface.",
	"Mulch two to three inches deep, but keep it off plant stems.",
	"Yellowing lower leaves usually mean overwatering or a nitrogen shortage.",
	"Check the underside of leaves for pests. That is where most of them hide.",
	"Compost improves any soil. Dig in a few inches every season.",
}

func NewFallbackReplier() *FallbackReplier {
	return &FallbackReplier{}
}

// Reply picks a deterministic tip per message so repeated questions get the
// same answer.
func (f *FallbackReplier) Reply(_ context.Context, _ []*models.ChatMessage, message string) (string, error) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(message))))
	tip := fallbackReplies[h.Sum32()%uint32(len(fallbackReplies))]
	return tip + " (The live assistant is not configured; this is a stock tip.)", nil
}
