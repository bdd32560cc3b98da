package handler

import (
	"net/http"

	"github.com/rescuelink/api/internal/model"
	"github.com/rescuelink/api/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type authPayload struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, err)
		return
	}

	user, token, err := h.authService.Register(r.Context(), in)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, http.StatusCreated, "Registration successful", authPayload{User: user, Token: token})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in service.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, err)
		return
	}

	user, token, err := h.authService.Login(r.Context(), in)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, http.StatusOK, "Login successful", authPayload{User: user, Token: token})
}
