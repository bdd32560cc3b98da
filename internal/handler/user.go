package handler

import (
	"net/http"

	"github.com/rescuelink/api/internal/ctxkeys"
	"github.com/rescuelink/api/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	user, err := h.userService.ByID(r.Context(), identity.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, http.StatusOK, "User retrieved", user)
}

func (h *UserHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	var in service.LocationInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, err)
		return
	}

	user, err := h.userService.UpdateLocation(r.Context(), identity.UserID, in)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, http.StatusOK, "Location updated", user)
}

func (h *UserHandler) NearbyVolunteers(w http.ResponseWriter, r *http.Request) {
	in, err := nearbyFromRequest(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	in.ExcludeUserID = ctxkeys.Identity(r.Context()).UserID

	users, err := h.userService.NearbyVolunteers(r.Context(), in)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondList(w, "Nearby volunteers retrieved", users)
}
