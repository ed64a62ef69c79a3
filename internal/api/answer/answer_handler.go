package answer

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/FACorreiaa/go-quora-api/internal/api"
)

type AnswerHandler struct {
	answerService AnswerService
	logger        *slog.Logger
}

func NewAnswerHandler(answerService AnswerService, logger *slog.Logger) *AnswerHandler {
	return &AnswerHandler{
		answerService: answerService,
		logger:        logger,
	}
}

// Create handles POST /question/{questionId}/answer/create.
func (h *AnswerHandler) Create(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "Create"))

	var req CreateAnswerRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "GEN-002", err.Error())
		return
	}

	questionUUID := chi.URLParam(r, "questionId")
	created, err := h.answerService.Create(r.Context(), req.Answer, questionUUID, r.Header.Get("authorization"))
	if err != nil {
		l.WarnContext(r.Context(), "Answer create failed", slog.Any("error", err))
		api.DomainErrorResponse(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, AnswerResponse{
		ID:     created.UUID,
		Status: "ANSWER CREATED",
	})
}

// Edit handles PUT /answer/edit/{answerId}.
func (h *AnswerHandler) Edit(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "Edit"))

	var req EditAnswerRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "GEN-002", err.Error())
		return
	}

	answerUUID := chi.URLParam(r, "answerId")
	edited, err := h.answerService.EditContent(r.Context(), answerUUID, req.Content, r.Header.Get("authorization"))
	if err != nil {
		l.WarnContext(r.Context(), "Answer edit failed", slog.Any("error", err))
		api.DomainErrorResponse(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, AnswerResponse{
		ID:     edited.UUID,
		Status: "ANSWER EDITED",
	})
}

// Delete handles DELETE /answer/delete/{answerId}.
func (h *AnswerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "Delete"))

	answerUUID := chi.URLParam(r, "answerId")
	deleted, err := h.answerService.Delete(r.Context(), answerUUID, r.Header.Get("authorization"))
	if err != nil {
		l.WarnContext(r.Context(), "Answer delete failed", slog.Any("error", err))
		api.DomainErrorResponse(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, AnswerResponse{
		ID:     deleted.UUID,
		Status: "ANSWER DELETED",
	})
}

// GetAllForQuestion handles GET /answer/all/{questionId}.
func (h *AnswerHandler) GetAllForQuestion(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "GetAllForQuestion"))

	questionUUID := chi.URLParam(r, "questionId")
	answers, err := h.answerService.GetAllForQuestion(r.Context(), questionUUID, r.Header.Get("authorization"))
	if err != nil {
		l.WarnContext(r.Context(), "Answer list failed", slog.Any("error", err))
		api.DomainErrorResponse(w, r, err)
		return
	}

	out := make([]AnswerDetailsResponse, 0, len(answers))
	for _, a := range answers {
		out = append(out, AnswerDetailsResponse{
			ID:              a.UUID,
			AnswerContent:   a.Answer,
			QuestionContent: a.QuestionContent,
		})
	}
	api.WriteJSONResponse(w, r, http.StatusOK, out)
}
