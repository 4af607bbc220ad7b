package v1

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Davidnet/BookWise/internal/assistant"
	"github.com/Davidnet/BookWise/internal/http/request"
	"github.com/Davidnet/BookWise/internal/http/response"
	"github.com/Davidnet/BookWise/internal/log"
)

type titleRequest struct {
	Title string `json:"title"`
}

type relatedResponse struct {
	RelatedBooks []string `json:"relatedBooks"`
}

type talkRequest struct {
	Messages []assistant.Message   `json:"messages"`
	Book     assistant.BookContext `json:"book"`
}

type talkResponse struct {
	Response string `json:"response"`
}

func (h *Handler) populateMetadata(w http.ResponseWriter, r *http.Request) {
	title := &titleRequest{}
	if err := json.NewDecoder(r.Body).Decode(title); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	helper, err := h.getAssistant()
	if err != nil {
		writeError(w, r, err)
		return
	}

	metadata, err := helper.PopulateMetadata(r.Context(), title.Title)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, r, metadata)
}

func (h *Handler) suggestRelated(w http.ResponseWriter, r *http.Request) {
	title := &titleRequest{}
	if err := json.NewDecoder(r.Body).Decode(title); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	helper, err := h.getAssistant()
	if err != nil {
		writeError(w, r, err)
		return
	}

	related, err := helper.SuggestRelated(r.Context(), title.Title)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, r, &relatedResponse{RelatedBooks: related})
}

// generateCover creates a cover for the book, stores it and assigns its URL.
func (h *Handler) generateCover(w http.ResponseWriter, r *http.Request) {
	owner := request.GetAccountID(r)
	id := request.RouteStringParam(r, "id")
	helper, err := h.getAssistant()
	if err != nil {
		writeError(w, r, err)
		return
	}

	book, err := h.controller.Get(r.Context(), owner, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	coverURL, err := helper.GenerateCover(r.Context(), book.Title, book.Author, book.ID)
	if err != nil {
		log.Error("Failed to generate cover", zap.String("book_id", id), zap.Error(err))
		writeError(w, r, err)
		return
	}
	book, err = h.controller.AssignCover(r.Context(), owner, id, coverURL)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, r, book)
}

// talk answers with the apology instead of an error body on any failure.
func (h *Handler) talk(w http.ResponseWriter, r *http.Request) {
	talk := &talkRequest{}
	if err := json.NewDecoder(r.Body).Decode(talk); err != nil {
		log.Debug("Failed to decode talk request", zap.Error(err))
		response.JSON(w, r, http.StatusInternalServerError, &talkResponse{Response: assistant.ApologyMessage})
		return
	}
	helper, err := h.getAssistant()
	if err != nil {
		log.Warn("Talk requested without assistant", zap.Error(err))
		response.JSON(w, r, http.StatusInternalServerError, &talkResponse{Response: assistant.ApologyMessage})
		return
	}

	reply, err := helper.Chat(r.Context(), talk.Messages, talk.Book)
	if err != nil {
		log.Error("Failed to chat about book", zap.String("title", talk.Book.Title), zap.Error(err))
		response.JSON(w, r, http.StatusInternalServerError, &talkResponse{Response: assistant.ApologyMessage})
		return
	}
	response.OK(w, r, &talkResponse{Response: reply})
}
