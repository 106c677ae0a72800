package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/obsidian-intel/unit734/internal/domain"
)

const (
	openAIChatURL       = "https://api.openai.com/v1/chat/completions"
	openAIImageURL      = "https://api.openai.com/v1/images/generations"
	openAISpeechURL     = "https://api.openai.com/v1/audio/speech"
	openAITranscribeURL = "https://api.openai.com/v1/audio/transcriptions"

	responderModel  = "gpt-4o"
	analystModel    = "gpt-4o-mini"
	imageModel      = "gpt-image-1"
	speechModel     = "tts-1"
	transcribeModel = "whisper-1"
)

type OpenAIClient struct {
	apiKey     string
	httpClient *http.Client
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

// chat types for OpenAI API. Content is string or a part list when an
// image rides along.
type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatImageURL struct {
	URL string `json:"url"`
}

type chatImagePart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *OpenAIClient) complete(ctx context.Context, model string, messages []chatMessage, temp float32) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temp,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIChatURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read chat response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("unmarshal chat response: %w", err)
	}

	if result.Error != nil {
		return "", fmt.Errorf("chat API error: %s", result.Error.Message)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("chat API returned no choices")
	}

	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

// stripFences removes markdown code fences the models like to add.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func respondMessages(req domain.RespondRequest) []chatMessage {
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

	var messages []chatMessage
	if len(req.ImageBytes) > 0 {
		url := fmt.Sprintf("data:%s;base64,%s", req.ImageMIME, base64.StdEncoding.EncodeToString(req.ImageBytes))
		parts := []chatImagePart{
			{Type: "text", Text: prompt},
			{Type: "image_url", ImageURL: &chatImageURL{URL: url}},
		}
		messages = append(messages, chatMessage{Role: "user", Content: parts})
	} else {
		messages = append(messages, chatMessage{Role: "user", Content: prompt})
	}

	if req.MalformedNote != "" {
		messages = append(messages, chatMessage{
			Role:    "user",
			Content: fmt.Sprintf(malformedRetryNote, req.MalformedNote),
		})
	}
	return messages
}

func (c *OpenAIClient) Respond(ctx context.Context, req domain.RespondRequest) (*domain.SuspectReply, error) {
	result, err := c.complete(ctx, responderModel, respondMessages(req), 0.7)
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

func (c *OpenAIClient) Analyze(ctx context.Context, detectiveText string, tactic domain.PlayerTactic, level domain.CognitiveLevel) (*domain.AnalystInsight, error) {
	messages := []chatMessage{
		{Role: "user", Content: fmt.Sprintf(analystPrompt, detectiveText, tactic, level)},
	}

	result, err := c.complete(ctx, analystModel, messages, 0.2)
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

// AnalyzeImage examines an evidence exhibit. It satisfies
// domain.VisionClient through the OpenAIVision wrapper below.
func (c *OpenAIClient) AnalyzeImage(ctx context.Context, imageBytes []byte, mime string) (*domain.EvidenceAnalysisResult, error) {
	url := fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(imageBytes))
	parts := []chatImagePart{
		{Type: "text", Text: visionPrompt},
		{Type: "image_url", ImageURL: &chatImageURL{URL: url}},
	}
	messages := []chatMessage{{Role: "user", Content: parts}}

	result, err := c.complete(ctx, responderModel, messages, 0.1)
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

type imageRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Size   string `json:"size"`
}

type imageResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *OpenAIClient) Generate(ctx context.Context, prompt string) ([]byte, error) {
	body, err := json.Marshal(imageRequest{
		Model:  imageModel,
		Prompt: prompt,
		Size:   "1024x1024",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal image request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIImageURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create image request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read image response: %w", err)
	}

	var result imageResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("unmarshal image response: %w", err)
	}

	if result.Error != nil {
		if strings.Contains(result.Error.Code, "content_policy") || strings.Contains(result.Error.Message, "safety") {
			return nil, domain.ErrRefused
		}
		return nil, fmt.Errorf("image API error: %s", result.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image API returned status %d: %s", resp.StatusCode, string(respBody))
	}
	if len(result.Data) == 0 {
		return nil, fmt.Errorf("image API returned no data")
	}

	img, err := base64.StdEncoding.DecodeString(result.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decode image payload: %w", err)
	}
	return img, nil
}

type transcribeResponse struct {
	Text     string  `json:"text"`
	Duration float64 `json:"duration"`
}

func (c *OpenAIClient) Transcribe(ctx context.Context, audio []byte, mime string) (*domain.Transcription, error) {
	ext := "wav"
	if strings.Contains(mime, "webm") {
		ext = "webm"
	} else if strings.Contains(mime, "mp3") || strings.Contains(mime, "mpeg") {
		ext = "mp3"
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "audio."+ext)
	if err != nil {
		return nil, fmt.Errorf("create audio form: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return nil, fmt.Errorf("write audio form: %w", err)
	}
	if err := w.WriteField("model", transcribeModel); err != nil {
		return nil, fmt.Errorf("write model field: %w", err)
	}
	if err := w.WriteField("response_format", "verbose_json"); err != nil {
		return nil, fmt.Errorf("write format field: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close audio form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAITranscribeURL, &buf)
	if err != nil {
		return nil, fmt.Errorf("create transcribe request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transcribe request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read transcribe response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("transcribe API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result transcribeResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("unmarshal transcribe response: %w", err)
	}

	text := strings.TrimSpace(result.Text)
	confidence := 0.9
	if text == "" {
		text = domain.SilentSentinel
		confidence = 1.0
	}
	return &domain.Transcription{
		Text:       text,
		Duration:   result.Duration,
		Confidence: confidence,
	}, nil
}

type speechRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	Voice          string `json:"voice"`
	ResponseFormat string `json:"response_format"`
}

// Synthesize returns raw 16-bit mono PCM at 24 kHz.
func (c *OpenAIClient) Synthesize(ctx context.Context, script, voice string) ([]byte, error) {
	body, err := json.Marshal(speechRequest{
		Model:          speechModel,
		Input:          script,
		Voice:          voice,
		ResponseFormat: "pcm",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal speech request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAISpeechURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create speech request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read speech response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("speech API returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}

// OpenAIVision adapts the client to domain.VisionClient; the method
// name on the client avoids clashing with the analyst interface.
type OpenAIVision struct {
	Client *OpenAIClient
}

func (v OpenAIVision) Analyze(ctx context.Context, imageBytes []byte, mime string) (*domain.EvidenceAnalysisResult, error) {
	return v.Client.AnalyzeImage(ctx, imageBytes, mime)
}
