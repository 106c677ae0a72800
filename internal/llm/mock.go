package llm

import (
	"context"

	"github.com/obsidian-intel/unit734/internal/domain"
)

// MockClient is a configurable back end for testing and offline runs.
// Set the response fields to control what each method returns.
type MockClient struct {
	RespondResponse    *domain.SuspectReply
	RespondError       error
	AnalyzeResponse    *domain.AnalystInsight
	AnalyzeError       error
	VisionResponse     *domain.EvidenceAnalysisResult
	VisionError        error
	GenerateResponse   []byte
	GenerateError      error
	TranscribeResponse *domain.Transcription
	TranscribeError    error
	SynthesizeResponse []byte
	SynthesizeError    error

	// Call tracking for assertions
	RespondCalls    []domain.RespondRequest
	AnalyzeCalls    []string
	VisionCalls     [][]byte
	GenerateCalls   []string
	TranscribeCalls [][]byte
	SynthesizeCalls []string
}

func NewMockClient() *MockClient {
	c := &MockClient{}
	c.setDefaults()
	return c
}

func (c *MockClient) setDefaults() {
	c.RespondResponse = &domain.SuspectReply{
		InternalMonologue: domain.InternalMonologue{
			SituationAssessment: "Routine question. No exposure.",
			ThreatLevel:         0.2,
			ChosenStrategy:      "paltering",
		},
		VerbalResponse: domain.VerbalResponse{
			Speech: "I was on standby in the maintenance bay. My logs confirm it.",
			Tone:   "flat",
		},
		LieConsistencyCheck: domain.LieConsistencyCheck{
			NewClaims: []domain.NewClaim{
				{Claim: "I was on standby in the maintenance bay", Pillar: domain.PillarAlibi, Type: domain.ClaimAssertion},
			},
		},
		EmotionalState: domain.EmotionCalm,
	}
	c.AnalyzeResponse = &domain.AnalystInsight{
		ReidPhase:       domain.ReidThemeDevelopment,
		PEACEPhase:      domain.PEACEAccount,
		AggressionLevel: 0.2,
		ConfessionRisk:  0.1,
		Recommended:     domain.DeceptionPaltering,
		Fallback:        domain.DeceptionSelectiveMemory,
		Advice:          "Answer narrowly; give nothing to pull on.",
	}
	c.VisionResponse = &domain.EvidenceAnalysisResult{
		Objects:         []string{"corridor", "industrial unit"},
		TextContent:     "CAM-07 02:47",
		Timestamps:      []string{"02:47"},
		PillarRelevance: map[domain.Pillar]float64{domain.PillarAlibi: 0.8},
	}
	c.GenerateResponse = []byte("mock-png-bytes")
	c.TranscribeResponse = &domain.Transcription{
		Text:       "Where were you last night?",
		Duration:   2.1,
		Confidence: 0.95,
	}
	c.SynthesizeResponse = []byte("mock-pcm-bytes")
}

func (c *MockClient) Respond(ctx context.Context, req domain.RespondRequest) (*domain.SuspectReply, error) {
	c.RespondCalls = append(c.RespondCalls, req)
	if c.RespondError != nil {
		return nil, c.RespondError
	}
	return c.RespondResponse, nil
}

func (c *MockClient) Analyze(ctx context.Context, detectiveText string, tactic domain.PlayerTactic, level domain.CognitiveLevel) (*domain.AnalystInsight, error) {
	c.AnalyzeCalls = append(c.AnalyzeCalls, detectiveText)
	if c.AnalyzeError != nil {
		return nil, c.AnalyzeError
	}
	return c.AnalyzeResponse, nil
}

func (c *MockClient) Generate(ctx context.Context, prompt string) ([]byte, error) {
	c.GenerateCalls = append(c.GenerateCalls, prompt)
	if c.GenerateError != nil {
		return nil, c.GenerateError
	}
	return c.GenerateResponse, nil
}

func (c *MockClient) Transcribe(ctx context.Context, audio []byte, mime string) (*domain.Transcription, error) {
	c.TranscribeCalls = append(c.TranscribeCalls, audio)
	if c.TranscribeError != nil {
		return nil, c.TranscribeError
	}
	return c.TranscribeResponse, nil
}

func (c *MockClient) Synthesize(ctx context.Context, script, voice string) ([]byte, error) {
	c.SynthesizeCalls = append(c.SynthesizeCalls, script)
	if c.SynthesizeError != nil {
		return nil, c.SynthesizeError
	}
	return c.SynthesizeResponse, nil
}

// MockVision adapts the mock to domain.VisionClient.
type MockVision struct {
	Client *MockClient
}

func (v MockVision) Analyze(ctx context.Context, imageBytes []byte, mime string) (*domain.EvidenceAnalysisResult, error) {
	v.Client.VisionCalls = append(v.Client.VisionCalls, imageBytes)
	if v.Client.VisionError != nil {
		return nil, v.Client.VisionError
	}
	return v.Client.VisionResponse, nil
}

// Reset clears all recorded calls and restores default responses.
func (c *MockClient) Reset() {
	c.RespondError = nil
	c.AnalyzeError = nil
	c.VisionError = nil
	c.GenerateError = nil
	c.TranscribeError = nil
	c.SynthesizeError = nil
	c.RespondCalls = nil
	c.AnalyzeCalls = nil
	c.VisionCalls = nil
	c.GenerateCalls = nil
	c.TranscribeCalls = nil
	c.SynthesizeCalls = nil
	c.setDefaults()
}
