package store

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/Davidnet/BookWise/internal/log"
	"github.com/Davidnet/BookWise/internal/model"
	"github.com/Davidnet/BookWise/internal/util"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ListBooks returns the private collection of the owner sorted by title.
// An empty collection is seeded first.
func (s *Store) ListBooks(ctx context.Context, owner string) ([]*model.Book, error) {
	if owner == "" {
		return nil, model.ErrUnauthenticated
	}
	collection := UserBooksCollection(owner)
	docs, err := s.driver.List(ctx, collection)
	if err != nil {
		return nil, storeError("list books", err)
	}
	if len(docs) == 0 {
		if err := s.ensureSeeded(ctx, owner); err != nil {
			return nil, err
		}
		docs, err = s.driver.List(ctx, collection)
		if err != nil {
			return nil, storeError("list books", err)
		}
	}
	return decodeBooks(docs)
}

func (s *Store) GetBook(ctx context.Context, owner, id string) (*model.Book, error) {
	if owner == "" {
		return nil, model.ErrUnauthenticated
	}
	doc, err := s.driver.Get(ctx, UserBooksCollection(owner), id)
	if err != nil {
		return nil, storeError("get book", err)
	}
	if doc == nil {
		return nil, model.ErrNotFound
	}
	return decodeBook(doc)
}

// CreateBook stores a new book under a generated id with zeroed counters and
// empty notes.
func (s *Store) CreateBook(ctx context.Context, owner string, create *model.Book) (*model.Book, error) {
	if owner == "" {
		return nil, model.ErrUnauthenticated
	}
	book := *create
	book.ID = util.GenUUID()
	if book.Status == "" {
		book.Status = model.StatusAvailable
	}
	book.Likes = 0
	book.Dislikes = 0
	book.Notes = ""
	if err := book.Validate(); err != nil {
		return nil, err
	}

	data, err := encodeBook(&book)
	if err != nil {
		return nil, err
	}
	if err := s.driver.Set(ctx, UserBooksCollection(owner), book.ID, data); err != nil {
		return nil, storeError("create book", err)
	}
	log.Debug("Book created", zap.String("owner", owner), zap.String("book_id", book.ID))
	return &book, nil
}

// UpdateBook overwrites every mutable field of an existing book. Fields the
// book does not carry, such as the notes embedding, are kept.
func (s *Store) UpdateBook(ctx context.Context, owner string, book *model.Book) error {
	if owner == "" {
		return model.ErrUnauthenticated
	}
	if book.ID == "" {
		return &model.ValidationError{Field: "id", Message: "is required"}
	}
	if err := book.Validate(); err != nil {
		return err
	}

	collection := UserBooksCollection(owner)
	prev, err := s.GetBook(ctx, owner, book.ID)
	if err != nil {
		return err
	}
	if err := s.driver.Merge(ctx, collection, book.ID, bookFields(book)); err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return model.ErrNotFound
		}
		return storeError("update book", err)
	}

	if s.listener != nil && book.Notes != "" && book.Notes != prev.Notes {
		s.listener.NotesChanged(owner, book.ID, book.Notes)
	}
	return nil
}

func (s *Store) DeleteBook(ctx context.Context, owner, id string) error {
	if owner == "" {
		return model.ErrUnauthenticated
	}
	if err := s.driver.Delete(ctx, UserBooksCollection(owner), id); err != nil {
		return storeError("delete book", err)
	}
	return nil
}

// PublishBook writes a reset copy of the book into the public collection
// under the same id. An existing public book with that id is overwritten.
func (s *Store) PublishBook(ctx context.Context, owner string, book *model.Book) error {
	if owner == "" {
		return model.ErrUnauthenticated
	}
	public := book.ResetCopy(book.ID)
	data, err := encodeBook(public)
	if err != nil {
		return err
	}
	if err := s.driver.Set(ctx, PublicBooksCollection, public.ID, data); err != nil {
		return storeError("publish book", err)
	}
	log.Info("Book donated", zap.String("owner", owner), zap.String("book_id", public.ID))
	return nil
}

func (s *Store) ListPublicBooks(ctx context.Context, owner string) ([]*model.Book, error) {
	if owner == "" {
		return nil, model.ErrUnauthenticated
	}
	docs, err := s.driver.List(ctx, PublicBooksCollection)
	if err != nil {
		return nil, storeError("list public books", err)
	}
	return decodeBooks(docs)
}

// SetBookEmbedding stores the notes embedding next to the book fields.
func (s *Store) SetBookEmbedding(ctx context.Context, owner, id string, embedding []float32) error {
	if owner == "" {
		return model.ErrUnauthenticated
	}
	err := s.driver.Merge(ctx, UserBooksCollection(owner), id, map[string]any{"embedding": embedding})
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return model.ErrNotFound
		}
		return storeError("set book embedding", err)
	}
	return nil
}

// bookFields maps the mutable fields of a book to document fields. Optional
// fields the book does not carry map to nil so a merge removes them.
func bookFields(book *model.Book) map[string]any {
	fields := map[string]any{
		"title":         book.Title,
		"author":        book.Author,
		"isbn":          book.ISBN,
		"status":        book.Status,
		"likes":         book.Likes,
		"dislikes":      book.Dislikes,
		"notes":         book.Notes,
		"borrower":      nil,
		"checkoutDate":  nil,
		"coverImageUrl": nil,
	}
	if book.Borrower != "" {
		fields["borrower"] = book.Borrower
	}
	if book.CheckoutDate != nil {
		fields["checkoutDate"] = book.CheckoutDate.UTC().Format(time.RFC3339Nano)
	}
	if book.CoverImageURL != "" {
		fields["coverImageUrl"] = book.CoverImageURL
	}
	return fields
}

func encodeBook(book *model.Book) (json.RawMessage, error) {
	data, err := MergeFields(nil, bookFields(book))
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode book")
	}
	return data, nil
}

func decodeBook(doc *Document) (*model.Book, error) {
	book := &model.Book{}
	if err := json.Unmarshal(doc.Data, book); err != nil {
		return nil, storeError("decode book", err)
	}
	book.ID = doc.ID
	return book, nil
}

func decodeBooks(docs []*Document) ([]*model.Book, error) {
	books := make([]*model.Book, 0, len(docs))
	for _, doc := range docs {
		book, err := decodeBook(doc)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	sort.SliceStable(books, func(i, j int) bool {
		return strings.ToLower(books[i].Title) < strings.ToLower(books[j].Title)
	})
	return books, nil
}
