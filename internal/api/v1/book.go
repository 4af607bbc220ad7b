package v1

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Davidnet/BookWise/internal/http/request"
	"github.com/Davidnet/BookWise/internal/http/response"
	"github.com/Davidnet/BookWise/internal/log"
	"github.com/Davidnet/BookWise/internal/model"
)

type checkOutRequest struct {
	Borrower string `json:"borrower"`
}

type notesRequest struct {
	Notes string `json:"notes"`
}

type coverRequest struct {
	CoverImageURL string `json:"coverImageUrl"`
}

func (h *Handler) listBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.controller.List(r.Context(), request.GetAccountID(r))
	if err != nil {
		log.Error("Failed to list books", zap.Error(err))
		writeError(w, r, err)
		return
	}
	response.OK(w, r, books)
}

func (h *Handler) listPublicBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.controller.ListPublic(r.Context(), request.GetAccountID(r))
	if err != nil {
		log.Error("Failed to list public books", zap.Error(err))
		writeError(w, r, err)
		return
	}
	response.OK(w, r, books)
}

func (h *Handler) addBook(w http.ResponseWriter, r *http.Request) {
	create := &model.NewBookRequest{}
	if err := json.NewDecoder(r.Body).Decode(create); err != nil {
		log.Error("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}

	book, err := h.controller.Add(r.Context(), request.GetAccountID(r), create)
	if err != nil {
		writeError(w, r, err)
		return
	}
	log.Debug("Book added", zap.String("book_id", book.ID), zap.String("title", book.Title))
	response.Created(w, r, book)
}

func (h *Handler) getBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.controller.Get(r.Context(), request.GetAccountID(r), request.RouteStringParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, r, book)
}

func (h *Handler) updateBook(w http.ResponseWriter, r *http.Request) {
	patch := &model.BookPatch{}
	if err := json.NewDecoder(r.Body).Decode(patch); err != nil {
		log.Error("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}
	h.writeBook(w, r, func(ctx context.Context, owner, id string) (*model.Book, error) {
		return h.controller.Update(ctx, owner, id, patch)
	})
}

func (h *Handler) deleteBook(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.Delete(r.Context(), request.GetAccountID(r), request.RouteStringParam(r, "id")); err != nil {
		log.Error("Failed to delete book", zap.Error(err))
		writeError(w, r, err)
		return
	}
	response.NoContent(w, r)
}

func (h *Handler) markAvailable(w http.ResponseWriter, r *http.Request) {
	h.writeBook(w, r, h.controller.MarkAvailable)
}

func (h *Handler) checkOut(w http.ResponseWriter, r *http.Request) {
	checkout := &checkOutRequest{}
	if err := json.NewDecoder(r.Body).Decode(checkout); err != nil {
		log.Error("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}
	h.writeBook(w, r, func(ctx context.Context, owner, id string) (*model.Book, error) {
		return h.controller.CheckOut(ctx, owner, id, checkout.Borrower)
	})
}

func (h *Handler) archive(w http.ResponseWriter, r *http.Request) {
	h.writeBook(w, r, h.controller.Archive)
}

func (h *Handler) donate(w http.ResponseWriter, r *http.Request) {
	h.writeBook(w, r, h.controller.Donate)
}

func (h *Handler) like(w http.ResponseWriter, r *http.Request) {
	h.writeBook(w, r, h.controller.Like)
}

func (h *Handler) dislike(w http.ResponseWriter, r *http.Request) {
	h.writeBook(w, r, h.controller.Dislike)
}

func (h *Handler) editNotes(w http.ResponseWriter, r *http.Request) {
	notes := &notesRequest{}
	if err := json.NewDecoder(r.Body).Decode(notes); err != nil {
		log.Error("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}
	h.writeBook(w, r, func(ctx context.Context, owner, id string) (*model.Book, error) {
		return h.controller.EditNotes(ctx, owner, id, notes.Notes)
	})
}

func (h *Handler) assignCover(w http.ResponseWriter, r *http.Request) {
	cover := &coverRequest{}
	if err := json.NewDecoder(r.Body).Decode(cover); err != nil {
		log.Error("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}
	h.writeBook(w, r, func(ctx context.Context, owner, id string) (*model.Book, error) {
		return h.controller.AssignCover(ctx, owner, id, cover.CoverImageURL)
	})
}

// writeBook runs a book action for the route id and answers with the book.
func (h *Handler) writeBook(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, owner, id string) (*model.Book, error)) {
	book, err := action(r.Context(), request.GetAccountID(r), request.RouteStringParam(r, "id"))
	if err != nil {
		log.Debug("Book action failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, r, err)
		return
	}
	response.OK(w, r, book)
}
