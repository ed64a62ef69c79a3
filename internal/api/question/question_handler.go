package question

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/FACorreiaa/go-quora-api/internal/api"
	"github.com/FACorreiaa/go-quora-api/internal/types"
)

type QuestionHandler struct {
	questionService QuestionService
	logger          *slog.Logger
}

func NewQuestionHandler(questionService QuestionService, logger *slog.Logger) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
		logger:          logger,
	}
}

// Create handles POST /question/create.
func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "Create"))

	var req CreateQuestionRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "GEN-002", err.Error())
		return
	}

	created, err := h.questionService.Create(r.Context(), req.Content, r.Header.Get("authorization"))
	if err != nil {
		l.WarnContext(r.Context(), "Question create failed", slog.Any("error", err))
		api.DomainErrorResponse(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, QuestionResponse{
		ID:     created.UUID,
		Status: "QUESTION CREATED",
	})
}

// GetAll handles GET /question/all.
func (h *QuestionHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "GetAll"))

	questions, err := h.questionService.GetAll(r.Context(), r.Header.Get("authorization"))
	if err != nil {
		l.WarnContext(r.Context(), "Question list failed", slog.Any("error", err))
		api.DomainErrorResponse(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, toDetailsResponses(questions))
}

// GetAllByUser handles GET /question/all/{userId}.
func (h *QuestionHandler) GetAllByUser(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "GetAllByUser"))

	userUUID := chi.URLParam(r, "userId")
	questions, err := h.questionService.GetAllByUser(r.Context(), userUUID, r.Header.Get("authorization"))
	if err != nil {
		l.WarnContext(r.Context(), "User question list failed", slog.Any("error", err))
		api.DomainErrorResponse(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, toDetailsResponses(questions))
}

// Edit handles PUT /question/edit/{questionId}.
func (h *QuestionHandler) Edit(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "Edit"))

	var req EditQuestionRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "GEN-002", err.Error())
		return
	}

	questionUUID := chi.URLParam(r, "questionId")
	edited, err := h.questionService.EditContent(r.Context(), questionUUID, req.Content, r.Header.Get("authorization"))
	if err != nil {
		l.WarnContext(r.Context(), "Question edit failed", slog.Any("error", err))
		api.DomainErrorResponse(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, QuestionResponse{
		ID:     edited.UUID,
		Status: "QUESTION EDITED",
	})
}

// Delete handles DELETE /question/delete/{questionId}.
func (h *QuestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "Delete"))

	questionUUID := chi.URLParam(r, "questionId")
	deleted, err := h.questionService.Delete(r.Context(), questionUUID, r.Header.Get("authorization"))
	if err != nil {
		l.WarnContext(r.Context(), "Question delete failed", slog.Any("error", err))
		api.DomainErrorResponse(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, QuestionResponse{
		ID:     deleted.UUID,
		Status: "QUESTION DELETED",
	})
}

func toDetailsResponses(questions []types.Question) []QuestionDetailsResponse {
	out := make([]QuestionDetailsResponse, 0, len(questions))
	for _, q := range questions {
		out = append(out, QuestionDetailsResponse{ID: q.UUID, Content: q.Content})
	}
	return out
}
