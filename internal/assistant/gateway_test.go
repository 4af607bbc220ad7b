package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"google.golang.org/genai"

	"github.com/Davidnet/BookWise/internal/model"
)

type fakeModel struct {
	json     string
	image    *Image
	reply    string
	err      error
	prompts  []string
	system   string
	history  []Message
	embedded []string
}

func (f *fakeModel) GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema, out any) error {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.json), out)
}

func (f *fakeModel) GenerateImage(ctx context.Context, prompt string) (*Image, error) {
	f.prompts = append(f.prompts, prompt)
	return f.image, f.err
}

func (f *fakeModel) Chat(ctx context.Context, system string, history []Message) (string, error) {
	f.system = system
	f.history = history
	return f.reply, f.err
}

func (f *fakeModel) Embed(ctx context.Context, text string) ([]float32, error) {
	f.embedded = append(f.embedded, text)
	return make([]float32, EmbeddingDimensions), f.err
}

type memoryObjects struct {
	objects     map[string][]byte
	contentType string
	err         error
}

func (m *memoryObjects) Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if m.objects == nil {
		m.objects = map[string][]byte{}
	}
	m.objects[key] = data
	m.contentType = contentType
	return "http://objects.test/" + key, nil
}

func (m *memoryObjects) Open(ctx context.Context, key string) (io.ReadSeekCloser, error) {
	return nil, errors.New("not implemented")
}

func testJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestPopulateMetadata(t *testing.T) {
	m := &fakeModel{json: `{"title":"Dune","author":"Frank Herbert","isbn":"978-0-441-01359-3"}`}
	g := NewGateway(m, &memoryObjects{}, 0)

	got, err := g.PopulateMetadata(context.Background(), "  Dune ")
	if err != nil {
		t.Fatalf("PopulateMetadata failed: %v", err)
	}
	want := &Metadata{Title: "Dune", Author: "Frank Herbert", ISBN: "9780441013593"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected metadata (-want +got):\n%s", diff)
	}
	if len(m.prompts) != 1 || !strings.Contains(m.prompts[0], `titled "Dune"`) {
		t.Errorf("unexpected prompt %v", m.prompts)
	}
}

func TestPopulateMetadataErrors(t *testing.T) {
	m := &fakeModel{err: errors.New("quota exceeded")}
	g := NewGateway(m, &memoryObjects{}, 0)

	if _, err := g.PopulateMetadata(context.Background(), "D"); !model.IsValidation(err) {
		t.Errorf("expected ValidationError, got %v", err)
	}
	if len(m.prompts) != 0 {
		t.Error("invalid input must not reach the model")
	}
	_, err := g.PopulateMetadata(context.Background(), "Dune")
	if !errors.Is(err, model.ErrGenerationFailed) {
		t.Errorf("expected ErrGenerationFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("cause should be kept in the message: %v", err)
	}
}

func TestGenerateCover(t *testing.T) {
	m := &fakeModel{image: &Image{Data: testJPEG(t, 64, 96), MIMEType: "image/jpeg"}}
	objects := &memoryObjects{}
	g := NewGateway(m, objects, 32)

	url, err := g.GenerateCover(context.Background(), "Dune", "Frank Herbert", "b1")
	if err != nil {
		t.Fatalf("GenerateCover failed: %v", err)
	}
	if url != "http://objects.test/covers/b1.png" {
		t.Errorf("unexpected url %s", url)
	}
	if objects.contentType != "image/png" {
		t.Errorf("unexpected content type %s", objects.contentType)
	}
	cover, _, err := image.Decode(bytes.NewReader(objects.objects["covers/b1.png"]))
	if err != nil {
		t.Fatalf("stored cover is not decodable: %v", err)
	}
	if cover.Bounds().Dx() != 32 || cover.Bounds().Dy() != 48 {
		t.Errorf("cover should be scaled to 32x48, got %v", cover.Bounds())
	}
	if !strings.Contains(m.prompts[0], `"Dune" by Frank Herbert`) {
		t.Errorf("unexpected prompt %s", m.prompts[0])
	}
}

func TestGenerateCoverErrors(t *testing.T) {
	ctx := context.Background()

	g := NewGateway(&fakeModel{}, &memoryObjects{}, 0)
	if _, err := g.GenerateCover(ctx, "Dune", "Frank Herbert", "b1"); !errors.Is(err, model.ErrGenerationFailed) {
		t.Errorf("missing image should fail generation, got %v", err)
	}

	g = NewGateway(&fakeModel{image: &Image{Data: []byte("not an image")}}, &memoryObjects{}, 0)
	if _, err := g.GenerateCover(ctx, "Dune", "Frank Herbert", "b1"); !errors.Is(err, model.ErrGenerationFailed) {
		t.Errorf("undecodable image should fail generation, got %v", err)
	}

	g = NewGateway(&fakeModel{image: &Image{Data: testJPEG(t, 8, 8)}}, &memoryObjects{err: errors.New("disk full")}, 0)
	_, err := g.GenerateCover(ctx, "Dune", "Frank Herbert", "b1")
	if !errors.Is(err, model.ErrUploadFailed) {
		t.Errorf("expected ErrUploadFailed, got %v", err)
	}
	if errors.Is(err, model.ErrGenerationFailed) {
		t.Error("upload failure is not a generation failure")
	}

	if _, err := g.GenerateCover(ctx, "Dune", "Frank Herbert", ""); !model.IsValidation(err) {
		t.Errorf("expected ValidationError for missing id, got %v", err)
	}
}

func TestSuggestRelatedCapsResults(t *testing.T) {
	m := &fakeModel{json: `{"relatedBooks":["A1","A2"," ","A3","A4","A5","A6"]}`}
	g := NewGateway(m, &memoryObjects{}, 0)

	got, err := g.SuggestRelated(context.Background(), "Dune")
	if err != nil {
		t.Fatalf("SuggestRelated failed: %v", err)
	}
	if diff := cmp.Diff([]string{"A1", "A2", "A3", "A4", "A5"}, got); diff != "" {
		t.Errorf("unexpected suggestions (-want +got):\n%s", diff)
	}

	m.err = errors.New("boom")
	if _, err := g.SuggestRelated(context.Background(), "Dune"); !errors.Is(err, model.ErrGenerationFailed) {
		t.Errorf("expected ErrGenerationFailed, got %v", err)
	}
}

func TestChat(t *testing.T) {
	m := &fakeModel{reply: "It is about spice."}
	g := NewGateway(m, &memoryObjects{}, 0)
	history := []Message{
		{Role: "user", Content: "What is Dune about?"},
	}

	reply, err := g.Chat(context.Background(), history, BookContext{Title: "Dune", Author: "Frank Herbert"})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if reply != "It is about spice." {
		t.Errorf("unexpected reply %q", reply)
	}
	if !strings.Contains(m.system, `the book "Dune" by Frank Herbert`) {
		t.Errorf("unexpected system prompt %q", m.system)
	}
	if diff := cmp.Diff(history, m.history); diff != "" {
		t.Errorf("history should be passed through (-want +got):\n%s", diff)
	}

	m.err = errors.New("boom")
	if _, err := g.Chat(context.Background(), history, BookContext{Title: "Dune", Author: "Frank Herbert"}); !errors.Is(err, model.ErrGenerationFailed) {
		t.Errorf("expected ErrGenerationFailed, got %v", err)
	}
	if _, err := g.Chat(context.Background(), nil, BookContext{Title: "Dune"}); !model.IsValidation(err) {
		t.Errorf("expected ValidationError for empty history, got %v", err)
	}
}
