package handler

import (
	"net/http"

	"github.com/rescuelink/api/internal/ctxkeys"
	"github.com/rescuelink/api/internal/service"
)

type DonationHandler struct {
	donationService *service.DonationService
}

func NewDonationHandler(donationService *service.DonationService) *DonationHandler {
	return &DonationHandler{
		donationService: donationService,
	}
}

func (h *DonationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CreateDonationInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, err)
		return
	}

	if identity := ctxkeys.Identity(r.Context()); identity != nil {
		switch in.UserID {
		case "":
			in.UserID = identity.UserID
		case identity.UserID:
		default:
			respondError(w, r, service.ErrOwnerMismatch)
			return
		}
	}

	donation, err := h.donationService.Create(r.Context(), in)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, http.StatusCreated, "Donation request created successfully", donation)
}

func (h *DonationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	donations, err := h.donationService.List(r.Context(), service.ListDonationsInput{
		Status:    r.URL.Query().Get("status"),
		PageInput: page,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondList(w, "Donation requests retrieved", donations)
}

func (h *DonationHandler) Show(w http.ResponseWriter, r *http.Request) {
	donation, err := h.donationService.ByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, http.StatusOK, "Donation request retrieved", donation)
}

func (h *DonationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	var in service.UpdateDonationStatusInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, err)
		return
	}

	donation, err := h.donationService.UpdateStatus(r.Context(), r.PathValue("id"), identity.UserID, in)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, http.StatusOK, "Donation request updated", donation)
}

func (h *DonationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	if err := h.donationService.Delete(r.Context(), r.PathValue("id"), identity.UserID); err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, http.StatusOK, "Donation request deleted", nil)
}
