package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/Davidnet/BookWise/internal/assistant"
	"github.com/Davidnet/BookWise/internal/library"
	"github.com/Davidnet/BookWise/internal/middleware"
	"github.com/Davidnet/BookWise/internal/model"
	"github.com/Davidnet/BookWise/internal/store"
)

// Assistant is the AI surface the handlers call.
type Assistant interface {
	PopulateMetadata(ctx context.Context, title string) (*assistant.Metadata, error)
	GenerateCover(ctx context.Context, title, author, bookID string) (string, error)
	SuggestRelated(ctx context.Context, title string) ([]string, error)
	Chat(ctx context.Context, history []assistant.Message, book assistant.BookContext) (string, error)
}

type Handler struct {
	store      *store.Store
	controller *library.Controller
	// assistant is nil when no Gemini API key is configured.
	assistant Assistant
	// For JWT
	secret   string
	tokenTTL time.Duration
}

// NewHandler is a constructor for the v1.Handler
func NewHandler(store *store.Store, controller *library.Controller, assistant Assistant, secret string, tokenTTL time.Duration) *Handler {
	return &Handler{
		store:      store,
		controller: controller,
		assistant:  assistant,
		secret:     secret,
		tokenTTL:   tokenTTL,
	}
}

func Server(router *mux.Router, handler *Handler) {
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.HandleCORS)
	api.Use(middleware.LoggingRequest)
	// Add authentication middleware
	api.Use(NewAuthInterceptor(handler.store, handler.secret).AuthenticationInterceptor)
	api.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	api.HandleFunc("/talk", handler.talk).Methods(http.MethodPost)

	sr := api.PathPrefix("/v1").Subrouter()
	sr.HandleFunc("/signup", handler.signUp).Methods(http.MethodPost)
	sr.HandleFunc("/signin", handler.signIn).Methods(http.MethodPost)
	sr.HandleFunc("/signout", handler.signOut).Methods(http.MethodPost)

	sr.HandleFunc("/books", handler.listBooks).Methods(http.MethodGet)
	sr.HandleFunc("/books", handler.addBook).Methods(http.MethodPost)
	sr.HandleFunc("/books/{id}", handler.getBook).Methods(http.MethodGet)
	sr.HandleFunc("/books/{id}", handler.updateBook).Methods(http.MethodPut)
	sr.HandleFunc("/books/{id}", handler.deleteBook).Methods(http.MethodDelete)
	sr.HandleFunc("/books/{id}/available", handler.markAvailable).Methods(http.MethodPost)
	sr.HandleFunc("/books/{id}/checkout", handler.checkOut).Methods(http.MethodPost)
	sr.HandleFunc("/books/{id}/archive", handler.archive).Methods(http.MethodPost)
	sr.HandleFunc("/books/{id}/donate", handler.donate).Methods(http.MethodPost)
	sr.HandleFunc("/books/{id}/like", handler.like).Methods(http.MethodPost)
	sr.HandleFunc("/books/{id}/dislike", handler.dislike).Methods(http.MethodPost)
	sr.HandleFunc("/books/{id}/notes", handler.editNotes).Methods(http.MethodPut)
	sr.HandleFunc("/books/{id}/cover", handler.assignCover).Methods(http.MethodPut)
	sr.HandleFunc("/books/{id}/cover/generate", handler.generateCover).Methods(http.MethodPost)
	sr.HandleFunc("/public-books", handler.listPublicBooks).Methods(http.MethodGet)

	sr.HandleFunc("/ai/metadata", handler.populateMetadata).Methods(http.MethodPost)
	sr.HandleFunc("/ai/related", handler.suggestRelated).Methods(http.MethodPost)
}

func (h *Handler) getAssistant() (Assistant, error) {
	if h.assistant == nil {
		return nil, errors.Wrap(model.ErrGenerationFailed, "assistant is not configured")
	}
	return h.assistant, nil
}
