package assistant

import (
	"context"

	"google.golang.org/genai"
)

// Image is a generated image payload.
type Image struct {
	Data     []byte
	MIMEType string
}

// Message is one turn of a conversation. Any role other than "user" is
// treated as the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Model is the generative collaborator behind the gateways.
type Model interface {
	// GenerateJSON asks for a JSON answer following schema and decodes it into out.
	GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema, out any) error
	// GenerateImage returns nil without error when no image came back.
	GenerateImage(ctx context.Context, prompt string) (*Image, error)
	Chat(ctx context.Context, system string, history []Message) (string, error)
	Embed(ctx context.Context, text string) ([]float32, error)
}
