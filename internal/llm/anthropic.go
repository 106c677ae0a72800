package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/obsidian-intel/unit734/internal/domain"
)

const (
	anthropicMessagesURL = "https://api.anthropic.com/v1/messages"
	anthropicModel       = "claude-3-5-haiku-20241022"
	anthropicVersion     = "2023-06-01"
)

type AnthropicClient struct {
	apiKey     string
	httpClient *http.Client
}

func NewAnthropicClient(apiKey string) *AnthropicClient {
	return &AnthropicClient{
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

type anthropicContent struct {
	Type   string           `json:"type"`
	Text   string           `json:"text,omitempty"`
	Source *anthropicSource `json:"source,omitempty"`
}

type anthropicSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *AnthropicClient) complete(ctx context.Context, messages []anthropicMessage, maxTokens int) (string, error) {
	body, err := json.Marshal(anthropicRequest{
		Model:     anthropicModel,
		MaxTokens: maxTokens,
		Messages:  messages,
	})
	if err != nil {
		return "", fmt.Errorf("marshal anthropic request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicMessagesURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create anthropic request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read anthropic response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("anthropic API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result anthropicResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("unmarshal anthropic response: %w", err)
	}

	if result.Error != nil {
		return "", fmt.Errorf("anthropic API error: %s", result.Error.Message)
	}

	if len(result.Content) == 0 {
		return "", fmt.Errorf("anthropic API returned no content")
	}

	return strings.TrimSpace(result.Content[0].Text), nil
}

func (c *AnthropicClient) Respond(ctx context.Context, req domain.RespondRequest) (*domain.SuspectReply, error) {
	var transcript strings.Builder
	for _, msg := range req.Conversation {
		transcript.WriteString(msg.Role)
		transcript.WriteString(": ")
		transcript.WriteString(msg.Content)
		transcript.WriteString("\n")
	}

	bundleJSON, _ := json.Marshal(req.Bundle)
	prompt := fmt.Sprintf(responderPrompt,
		req.Persona,
		strings.Join(req.EstablishedFacts, "\n"),
		string(bundleJSON),
		transcript.String())

	var messages []anthropicMessage
	if len(req.ImageBytes) > 0 {
		content := []anthropicContent{
			{Type: "image", Source: &anthropicSource{
				Type:      "base64",
				MediaType: req.ImageMIME,
				Data:      base64.StdEncoding.EncodeToString(req.ImageBytes),
			}},
			{Type: "text", Text: prompt},
		}
		messages = append(messages, anthropicMessage{Role: "user", Content: content})
	} else {
		messages = append(messages, anthropicMessage{Role: "user", Content: prompt})
	}
	if req.MalformedNote != "" {
		messages = append(messages, anthropicMessage{
			Role:    "user",
			Content: fmt.Sprintf(malformedRetryNote, req.MalformedNote),
		})
	}

	result, err := c.complete(ctx, messages, 2048)
	if err != nil {
		return nil, fmt.Errorf("respond: %w", err)
	}

	result = stripFences(result)
	var reply domain.SuspectReply
	if err := json.Unmarshal([]byte(result), &reply); err != nil {
		return nil, fmt.Errorf("parse suspect reply: %w (raw: %s)", err, result)
	}
	return &reply, nil
}

func (c *AnthropicClient) Analyze(ctx context.Context, detectiveText string, tactic domain.PlayerTactic, level domain.CognitiveLevel) (*domain.AnalystInsight, error) {
	messages := []anthropicMessage{
		{Role: "user", Content: fmt.Sprintf(analystPrompt, detectiveText, tactic, level)},
	}

	result, err := c.complete(ctx, messages, 1024)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	result = stripFences(result)
	var insight domain.AnalystInsight
	if err := json.Unmarshal([]byte(result), &insight); err != nil {
		return nil, fmt.Errorf("parse analyst insight: %w (raw: %s)", err, result)
	}
	return &insight, nil
}

// AnalyzeImage examines an evidence exhibit.
func (c *AnthropicClient) AnalyzeImage(ctx context.Context, imageBytes []byte, mime string) (*domain.EvidenceAnalysisResult, error) {
	content := []anthropicContent{
		{Type: "image", Source: &anthropicSource{
			Type:      "base64",
			MediaType: mime,
			Data:      base64.StdEncoding.EncodeToString(imageBytes),
		}},
		{Type: "text", Text: visionPrompt},
	}
	messages := []anthropicMessage{{Role: "user", Content: content}}

	result, err := c.complete(ctx, messages, 1024)
	if err != nil {
		return nil, fmt.Errorf("analyze image: %w", err)
	}

	result = stripFences(result)
	var report domain.EvidenceAnalysisResult
	if err := json.Unmarshal([]byte(result), &report); err != nil {
		return nil, fmt.Errorf("parse vision report: %w (raw: %s)", err, result)
	}
	return &report, nil
}

// AnthropicVision adapts the client to domain.VisionClient.
type AnthropicVision struct {
	Client *AnthropicClient
}

func (v AnthropicVision) Analyze(ctx context.Context, imageBytes []byte, mime string) (*domain.EvidenceAnalysisResult, error) {
	return v.Client.AnalyzeImage(ctx, imageBytes, mime)
}
