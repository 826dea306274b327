// Package gemini is a thin HTTP adapter for the external text-generation
// service. It owns the request envelope, timeouts and the finish-reason
// mapping; everything above it treats the service as
// generate(prompt, budget) -> text.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// FinishReason describes how the service ended a generation.
type FinishReason string

const (
	FinishStop      FinishReason = "STOP"
	FinishMaxTokens FinishReason = "MAX_TOKENS"
	FinishSafety    FinishReason = "SAFETY"
	FinishOther     FinishReason = "OTHER"
)

// GenerateResult is one generation outcome. Text may be non-empty even when
// FinishReason is MAX_TOKENS; callers should still attempt to parse the
// partial output.
type GenerateResult struct {
	Text         string
	FinishReason FinishReason
}

// Client calls the Gemini generateContent REST endpoint.
type Client struct {
	apiURL string
	apiKey string
	client *http.Client
}

// NewClient creates a client for the given endpoint. The request timeout
// bounds how long one ladder step can stall the update loop.
func NewClient(apiURL, apiKey string) *Client {
	return &Client{
		apiURL: apiURL,
		apiKey: apiKey,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
	SafetySettings   []safetySetting  `json:"safetySettings"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// Low temperature: the service is used for factual lookups, not creative
// text.
type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	CandidateCount  int     `json:"candidateCount"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

var defaultSafetySettings = []safetySetting{
	{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_ONLY_HIGH"},
	{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_ONLY_HIGH"},
	{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_ONLY_HIGH"},
	{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_ONLY_HIGH"},
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// Generate sends one prompt and returns the generated text with its finish
// reason. Transport failures and non-2xx statuses are returned as errors; a
// safety block is not an error but a result with FinishSafety set.
func (c *Client) Generate(ctx context.Context, prompt string, maxOutputTokens int) (*GenerateResult, error) {
	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     0.1,
			TopK:            1,
			TopP:            0.8,
			MaxOutputTokens: maxOutputTokens,
			CandidateCount:  1,
		},
		SafetySettings: defaultSafetySettings,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"?key="+c.apiKey, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "DealSpy-WebSearch/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	// The whole prompt can be rejected before any candidate is produced.
	if len(parsed.Candidates) == 0 {
		if parsed.PromptFeedback != nil && parsed.PromptFeedback.BlockReason != "" {
			return &GenerateResult{FinishReason: FinishSafety}, nil
		}
		return &GenerateResult{FinishReason: FinishOther}, nil
	}

	candidate := parsed.Candidates[0]
	var sb strings.Builder
	for _, p := range candidate.Content.Parts {
		sb.WriteString(p.Text)
	}

	return &GenerateResult{
		Text:         strings.TrimSpace(sb.String()),
		FinishReason: mapFinishReason(candidate.FinishReason),
	}, nil
}

func mapFinishReason(reason string) FinishReason {
	switch reason {
	case "STOP":
		return FinishStop
	case "MAX_TOKENS":
		return FinishMaxTokens
	case "SAFETY":
		return FinishSafety
	default:
		return FinishOther
	}
}
