package llm

import (
	"fmt"

	"github.com/obsidian-intel/unit734/internal/domain"
)

// Provider constants
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderMock      = "mock"
)

// Clients bundles every external back end the engine uses. Entries may
// be nil when the provider cannot serve them; the orchestrator degrades
// around missing ones.
type Clients struct {
	Suspect domain.SuspectClient
	Analyst domain.AnalystClient
	Vision  domain.VisionClient
	Image   domain.ImageClient
	Speech  domain.SpeechClient
	Voice   domain.VoiceClient
}

// NewClients builds the client bundle for a provider. Image generation
// and audio always ride on OpenAI; when the chat provider is Anthropic,
// openAIKey supplies those side channels and may be empty to disable
// them.
func NewClients(provider, apiKey, openAIKey string) (*Clients, error) {
	switch provider {
	case ProviderOpenAI:
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for OpenAI provider")
		}
		c := NewOpenAIClient(apiKey)
		return &Clients{
			Suspect: c,
			Analyst: c,
			Vision:  OpenAIVision{Client: c},
			Image:   c,
			Speech:  c,
			Voice:   c,
		}, nil

	case ProviderAnthropic:
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is required for Anthropic provider")
		}
		c := NewAnthropicClient(apiKey)
		clients := &Clients{
			Suspect: c,
			Analyst: c,
			Vision:  AnthropicVision{Client: c},
		}
		if openAIKey != "" {
			aux := NewOpenAIClient(openAIKey)
			clients.Image = aux
			clients.Speech = aux
			clients.Voice = aux
		}
		return clients, nil

	case ProviderMock:
		c := NewMockClient()
		return &Clients{
			Suspect: c,
			Analyst: c,
			Vision:  MockVision{Client: c},
			Image:   c,
			Speech:  c,
			Voice:   c,
		}, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (valid options: openai, anthropic, mock)", provider)
	}
}
