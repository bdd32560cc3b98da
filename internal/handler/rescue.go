package handler

import (
	"net/http"

	"github.com/rescuelink/api/internal/ctxkeys"
	"github.com/rescuelink/api/internal/service"
)

type RescueCaseHandler struct {
	rescueCaseService *service.RescueCaseService
}

func NewRescueCaseHandler(rescueCaseService *service.RescueCaseService) *RescueCaseHandler {
	return &RescueCaseHandler{
		rescueCaseService: rescueCaseService,
	}
}

// Create reports a new case. An authenticated caller reports as themselves.
func (h *RescueCaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CreateCaseInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, err)
		return
	}

	if identity := ctxkeys.Identity(r.Context()); identity != nil {
		switch in.ReporterUserID {
		case "":
			in.ReporterUserID = identity.UserID
		case identity.UserID:
		default:
			respondError(w, r, service.ErrReporterMismatch)
			return
		}
	}

	rescueCase, err := h.rescueCaseService.Create(r.Context(), in)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, http.StatusCreated, "Rescue case created successfully", rescueCase)
}

func (h *RescueCaseHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	in, err := nearbyFromRequest(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	in.ExcludeUserID = ctxkeys.Identity(r.Context()).UserID

	cases, err := h.rescueCaseService.Nearby(r.Context(), in)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondList(w, "Nearby rescue cases retrieved", cases)
}

func (h *RescueCaseHandler) Assign(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	rescueCase, err := h.rescueCaseService.Assign(r.Context(), r.PathValue("id"), identity.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, http.StatusOK, "Rescue case assigned successfully", rescueCase)
}

func (h *RescueCaseHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	var in service.UpdateCaseStatusInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, err)
		return
	}

	rescueCase, err := h.rescueCaseService.UpdateStatus(r.Context(), r.PathValue("id"), identity.UserID, in)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, http.StatusOK, "Rescue case status updated", rescueCase)
}

func (h *RescueCaseHandler) Show(w http.ResponseWriter, r *http.Request) {
	rescueCase, err := h.rescueCaseService.ByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, http.StatusOK, "Rescue case retrieved", rescueCase)
}

func (h *RescueCaseHandler) Reported(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	page, err := pageFromQuery(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	cases, err := h.rescueCaseService.Reported(r.Context(), identity.UserID, page)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondList(w, "Reported rescue cases retrieved", cases)
}

func (h *RescueCaseHandler) Assigned(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	page, err := pageFromQuery(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	cases, err := h.rescueCaseService.Assigned(r.Context(), identity.UserID, page)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondList(w, "Assigned rescue cases retrieved", cases)
}
