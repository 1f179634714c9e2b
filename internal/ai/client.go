// Package ai wraps the Anthropic Messages API for one-shot review requests.
package ai

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

// ReviewClient performs one synchronous request/response exchange with the
// completion API. Retries and rate limiting live in the HTTP transport, not
// here.
type ReviewClient struct {
	client      anthropic.Client
	model       anthropic.Model
	temperature float64
	maxTokens   int64
}

func NewReviewClient(client anthropic.Client, model string, temperature float64, maxTokens int64) ReviewClient {
	return ReviewClient{
		client:      client,
		model:       anthropic.Model(model),
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

// RequestReview sends the assembled prompt and returns the model's text
// content as an opaque blob. The caller normalizes it; this layer only
// extracts text and classifies failures.
func (rc ReviewClient) RequestReview(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       rc.model,
		MaxTokens:   rc.maxTokens,
		Temperature: anthropic.Float(rc.temperature),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}

	stream := rc.client.Messages.NewStreaming(ctx, params)
	response := anthropic.Message{}
	for stream.Next() {
		event := stream.Current()
		if err := response.Accumulate(event); err != nil {
			return "", classify(err, "failed to accumulate response content stream")
		}
	}
	if stream.Err() != nil {
		return "", classify(stream.Err(), "failed to stream response")
	}
	if response.StopReason == "" {
		if b, err := json.Marshal(response); err == nil {
			log.Printf("[ai] malformed message: %s", string(b))
		}
		return "", &ModelError{Message: "model returned a malformed message with no stop reason"}
	}

	log.Printf("[ai] token usage - input: %d, output: %d",
		response.Usage.InputTokens, response.Usage.OutputTokens)

	// Concatenate text blocks. Structured thinking blocks are dropped here;
	// inline <thinking> tags inside text are the normalizer's problem.
	var sb strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}
