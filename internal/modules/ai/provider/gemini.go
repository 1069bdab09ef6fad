package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GeminiClient owns the connection shared by every Gemini model.
type GeminiClient struct {
	client *genai.Client
}

func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &GeminiClient{client: client}, nil
}

// Model returns a generator bound to one model name.
func (g *GeminiClient) Model(name string) *GeminiModel {
	model := g.client.GenerativeModel(name)
	model.SetTemperature(0.7)
	return &GeminiModel{name: name, model: model}
}

// ListModels returns the model names the key can see.
func (g *GeminiClient) ListModels(ctx context.Context) ([]string, error) {
	var names []string
	it := g.client.ListModels(ctx)
	for {
		info, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return names, err
		}
		names = append(names, info.Name)
	}
	return names, nil
}

func (g *GeminiClient) Close() {
	g.client.Close()
}

type GeminiModel struct {
	name  string
	model *genai.GenerativeModel
}

func (m *GeminiModel) Name() string {
	return m.name
}

// Generate returns the concatenated text parts of the first candidate.
func (m *GeminiModel) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := m.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response from model %s", m.name)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String(), nil
}
