package auth

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/FACorreiaa/go-quora-api/internal/api"
	"github.com/FACorreiaa/go-quora-api/internal/types"
)

type AuthHandler struct {
	authService AuthService
	logger      *slog.Logger
}

func NewAuthHandler(authService AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// SignUp handles POST /user/signup.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "SignUp"))

	var req SignupUserRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "GEN-002", err.Error())
		return
	}

	user := &types.User{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Username:      req.Username,
		Email:         req.Email,
		Country:       req.Country,
		AboutMe:       req.AboutMe,
		DOB:           req.DOB,
		Role:          types.RoleNonAdmin,
		ContactNumber: req.ContactNumber,
	}
	created, err := h.authService.SignUp(r.Context(), user, req.Password)
	if err != nil {
		l.ErrorContext(r.Context(), "Signup failed", slog.Any("error", err))
		api.DomainErrorResponse(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, SignupUserResponse{
		ID:     created.UUID,
		Status: "USER SUCCESSFULLY REGISTERED",
	})
}

// SignIn handles POST /user/signin. Credentials arrive Basic-auth style:
// "Basic base64(username:password)" in the authorization header.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "SignIn"))

	username, password, ok := decodeBasicCredentials(r.Header.Get("authorization"))
	if !ok {
		api.ErrorResponse(w, r, http.StatusBadRequest, "GEN-001",
			"Malformed authorization header, expected 'Basic base64(username:password)'")
		return
	}

	session, err := h.authService.SignIn(r.Context(), username, password)
	if err != nil {
		l.WarnContext(r.Context(), "Signin failed", slog.Any("error", err))
		api.DomainErrorResponse(w, r, err)
		return
	}

	w.Header().Set("access_token", session.AccessToken)
	api.WriteJSONResponse(w, r, http.StatusOK, SigninResponse{
		ID:      session.User.UUID,
		Message: "SIGNED IN SUCCESSFULLY",
	})
}

// SignOut handles POST /user/signout. The authorization header carries the
// raw access token issued at sign-in.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "SignOut"))

	session, err := h.authService.SignOut(r.Context(), r.Header.Get("authorization"))
	if err != nil {
		l.WarnContext(r.Context(), "Signout failed", slog.Any("error", err))
		api.DomainErrorResponse(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, SignoutResponse{
		ID:      session.User.UUID,
		Message: "SIGNED OUT SUCCESSFULLY",
	})
}

// GetUserProfile handles GET /userprofile/{userId}. Any signed-in user may
// view any profile.
func (h *AuthHandler) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "GetUserProfile"))

	userUUID := chi.URLParam(r, "userId")
	user, err := h.authService.GetUserDetails(r.Context(), userUUID, r.Header.Get("authorization"))
	if err != nil {
		l.WarnContext(r.Context(), "Profile fetch failed", slog.Any("error", err))
		api.DomainErrorResponse(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, user)
}

func decodeBasicCredentials(header string) (username, password string, ok bool) {
	const prefix = "Basic "
	if !strings.HasPrefix(header, prefix) {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return "", "", false
	}
	username, password, ok = strings.Cut(string(decoded), ":")
	return username, password, ok
}
