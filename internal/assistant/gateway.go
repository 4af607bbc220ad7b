package assistant

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/Davidnet/BookWise/internal/log"
	"github.com/Davidnet/BookWise/internal/model"
	"github.com/Davidnet/BookWise/internal/storage"
)

// ApologyMessage replaces a failed chat reply.
const ApologyMessage = "Sorry, I couldn't get a response. Please try again."

// MaxRelatedBooks caps the number of suggested titles.
const MaxRelatedBooks = 5

const (
	metadataPrompt = `You are a helpful assistant. For the book titled "%s", find the author and its ISBN number. Provide a valid ISBN-10 or ISBN-13. Return the result in the requested format.`
	relatedPrompt  = `You are a librarian. A user is looking at a book titled "%s". Suggest other books a reader might be interested in. Return a list of book titles. Limit the number of suggestions to 5.`
	coverPrompt    = `Generate a book cover for "%s" by %s. The style should be artistic and evocative of the book's themes. The title and author's name must be clearly visible. Do not include any other text.`
	chatPrompt     = `You are a helpful and knowledgeable assistant. The user wants to talk about the book "%s" by %s. Engage in a conversation about the book.`
)

// Metadata is the result of a metadata lookup.
type Metadata struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
}

// BookContext names the book a conversation is about.
type BookContext struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

type relatedBooks struct {
	RelatedBooks []string `json:"relatedBooks"`
}

var metadataSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title":  {Type: genai.TypeString, Description: "The title of the book."},
		"author": {Type: genai.TypeString, Description: "The author of the book."},
		"isbn":   {Type: genai.TypeString, Description: "The ISBN of the book. Should be a valid ISBN-10 or ISBN-13."},
	},
	Required: []string{"title", "author", "isbn"},
}

var relatedSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"relatedBooks": {
			Type:        genai.TypeArray,
			Description: "A list of related book titles.",
			Items:       &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{"relatedBooks"},
}

// Gateway wraps the generative model calls the library offers.
type Gateway struct {
	model         Model
	objects       storage.ObjectStore
	maxCoverWidth int
}

// NewGateway returns a gateway. Covers wider than maxCoverWidth are scaled
// down, zero keeps the generated size.
func NewGateway(m Model, objects storage.ObjectStore, maxCoverWidth int) *Gateway {
	return &Gateway{
		model:         m,
		objects:       objects,
		maxCoverWidth: maxCoverWidth,
	}
}

// PopulateMetadata looks up the author and ISBN of a title.
func (g *Gateway) PopulateMetadata(ctx context.Context, title string) (*Metadata, error) {
	title = strings.TrimSpace(title)
	if err := requireText("title", title); err != nil {
		return nil, err
	}

	var metadata Metadata
	if err := g.model.GenerateJSON(ctx, fmt.Sprintf(metadataPrompt, title), metadataSchema, &metadata); err != nil {
		log.Warn("Metadata lookup failed", zap.String("title", title), zap.Error(err))
		return nil, errors.Wrap(model.ErrGenerationFailed, err.Error())
	}
	metadata.Title = strings.TrimSpace(metadata.Title)
	if metadata.Title == "" {
		metadata.Title = title
	}
	metadata.Author = strings.TrimSpace(metadata.Author)
	metadata.ISBN = model.NormalizeISBN(metadata.ISBN)
	return &metadata, nil
}

// GenerateCover creates a cover image, stores it as the cover object of the
// book and returns its URL.
func (g *Gateway) GenerateCover(ctx context.Context, title, author, bookID string) (string, error) {
	if err := requireText("title", title); err != nil {
		return "", err
	}
	if err := requireText("author", author); err != nil {
		return "", err
	}
	if strings.TrimSpace(bookID) == "" {
		return "", &model.ValidationError{Field: "id", Message: "is required"}
	}

	image, err := g.model.GenerateImage(ctx, fmt.Sprintf(coverPrompt, title, author))
	if err != nil {
		log.Warn("Cover generation failed", zap.String("book_id", bookID), zap.Error(err))
		return "", errors.Wrap(model.ErrGenerationFailed, err.Error())
	}
	if image == nil || len(image.Data) == 0 {
		return "", errors.Wrap(model.ErrGenerationFailed, "no image returned")
	}

	cover, err := normalizeCover(image.Data, g.maxCoverWidth)
	if err != nil {
		return "", errors.Wrap(model.ErrGenerationFailed, err.Error())
	}

	url, err := g.objects.Put(ctx, storage.CoverKey(bookID), bytes.NewReader(cover), "image/png")
	if err != nil {
		log.Error("Cover upload failed", zap.String("book_id", bookID), zap.Error(err))
		return "", errors.Wrap(model.ErrUploadFailed, err.Error())
	}
	return url, nil
}

// SuggestRelated returns up to MaxRelatedBooks titles related to title.
func (g *Gateway) SuggestRelated(ctx context.Context, title string) ([]string, error) {
	title = strings.TrimSpace(title)
	if err := requireText("title", title); err != nil {
		return nil, err
	}

	var related relatedBooks
	if err := g.model.GenerateJSON(ctx, fmt.Sprintf(relatedPrompt, title), relatedSchema, &related); err != nil {
		log.Warn("Related books lookup failed", zap.String("title", title), zap.Error(err))
		return nil, errors.Wrap(model.ErrGenerationFailed, err.Error())
	}

	titles := make([]string, 0, MaxRelatedBooks)
	for _, suggestion := range related.RelatedBooks {
		suggestion = strings.TrimSpace(suggestion)
		if suggestion == "" {
			continue
		}
		titles = append(titles, suggestion)
		if len(titles) == MaxRelatedBooks {
			break
		}
	}
	return titles, nil
}

// Chat answers the last turn of history. The caller resends the whole
// conversation every turn.
func (g *Gateway) Chat(ctx context.Context, history []Message, book BookContext) (string, error) {
	if len(history) == 0 {
		return "", &model.ValidationError{Field: "messages", Message: "must not be empty"}
	}
	if strings.TrimSpace(book.Title) == "" {
		return "", &model.ValidationError{Field: "book", Message: "title is required"}
	}

	reply, err := g.model.Chat(ctx, fmt.Sprintf(chatPrompt, book.Title, book.Author), history)
	if err != nil {
		log.Warn("Chat failed", zap.String("title", book.Title), zap.Error(err))
		return "", errors.Wrap(model.ErrGenerationFailed, err.Error())
	}
	if strings.TrimSpace(reply) == "" {
		return "", errors.Wrap(model.ErrGenerationFailed, "empty reply")
	}
	return reply, nil
}

func requireText(field, value string) error {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < model.MinTextLength {
		return &model.ValidationError{Field: field, Message: "must be at least 2 characters"}
	}
	return nil
}
