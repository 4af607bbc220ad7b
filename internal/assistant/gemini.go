package assistant

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	"github.com/Davidnet/BookWise/internal/config"
)

// EmbeddingDimensions is the size of the stored notes embeddings.
const EmbeddingDimensions = 768

// GeminiModel implements Model with the Gemini API.
type GeminiModel struct {
	client         *genai.Client
	textModel      string
	imageModel     string
	embeddingModel string
}

func NewGeminiModel(ctx context.Context, opts *config.Options) (*GeminiModel, error) {
	if opts.GeminiAPIKey == "" {
		return nil, errors.New("Gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Gemini client")
	}
	return &GeminiModel{
		client:         client,
		textModel:      opts.GeminiTextModel,
		imageModel:     opts.GeminiImageModel,
		embeddingModel: opts.GeminiEmbeddingModel,
	}, nil
}

func (m *GeminiModel) GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema, out any) error {
	resp, err := m.client.Models.GenerateContent(ctx, m.textModel, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		return errors.Wrap(err, "generate content")
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return errors.New("empty response")
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return errors.Wrap(err, "decode structured response")
	}
	return nil
}

func (m *GeminiModel) GenerateImage(ctx context.Context, prompt string) (*Image, error) {
	resp, err := m.client.Models.GenerateContent(ctx, m.imageModel, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	})
	if err != nil {
		return nil, errors.Wrap(err, "generate image")
	}
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &Image{Data: part.InlineData.Data, MIMEType: part.InlineData.MIMEType}, nil
			}
		}
	}
	return nil, nil
}

func (m *GeminiModel) Chat(ctx context.Context, system string, history []Message) (string, error) {
	contents := make([]*genai.Content, 0, len(history))
	for _, message := range history {
		if message.Role == "user" {
			contents = append(contents, genai.NewContentFromText(message.Content, genai.RoleUser))
		} else {
			contents = append(contents, genai.NewContentFromText(message.Content, genai.RoleModel))
		}
	}
	resp, err := m.client.Models.GenerateContent(ctx, m.textModel, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	})
	if err != nil {
		return "", errors.Wrap(err, "chat")
	}
	return resp.Text(), nil
}

func (m *GeminiModel) Embed(ctx context.Context, text string) ([]float32, error) {
	dimensions := int32(EmbeddingDimensions)
	result, err := m.client.Models.EmbedContent(ctx,
		m.embeddingModel,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)},
		&genai.EmbedContentConfig{
			OutputDimensionality: &dimensions,
		},
	)
	if err != nil {
		return nil, errors.Wrap(err, "embed content")
	}
	if len(result.Embeddings) == 0 {
		return nil, errors.New("no embeddings returned")
	}
	return result.Embeddings[0].Values, nil
}

var _ Model = (*GeminiModel)(nil)
