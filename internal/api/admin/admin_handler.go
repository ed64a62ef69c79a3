package admin

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/FACorreiaa/go-quora-api/internal/api"
)

type AdminHandler struct {
	adminService AdminService
	logger       *slog.Logger
}

func NewAdminHandler(adminService AdminService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		logger:       logger,
	}
}

// DeleteUser handles DELETE /admin/user/{userId}.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "DeleteUser"))

	targetUUID := chi.URLParam(r, "userId")
	deleted, err := h.adminService.DeleteUser(r.Context(), targetUUID, r.Header.Get("authorization"))
	if err != nil {
		l.WarnContext(r.Context(), "User delete failed", slog.Any("error", err))
		api.DomainErrorResponse(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, DeleteUserResponse{
		ID:     deleted.UUID,
		Status: "USER SUCCESSFULLY DELETED",
	})
}
