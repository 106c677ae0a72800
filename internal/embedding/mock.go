package embedding

import (
	"context"
	"crypto/sha256"
)

// MockClient returns a deterministic 1536-dim vector derived from the
// input text, so similarity queries behave consistently in tests.
type MockClient struct {
	EmbedCalls []string
	EmbedError error
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (c *MockClient) Embed(ctx context.Context, text string) ([]float32, error) {
	c.EmbedCalls = append(c.EmbedCalls, text)
	if c.EmbedError != nil {
		return nil, c.EmbedError
	}

	sum := sha256.Sum256([]byte(text))
	vec := make([]float32, 1536)
	for i := range vec {
		vec[i] = float32(sum[i%len(sum)]) / 255.0
	}
	return vec, nil
}
