package handler

import (
	"net/http"

	"github.com/rescuelink/api/internal/ctxkeys"
	"github.com/rescuelink/api/internal/service"
	"github.com/rescuelink/api/internal/validation"
)

type ImageHandler struct {
	imageService *service.ImageService
}

func NewImageHandler(imageService *service.ImageService) *ImageHandler {
	return &ImageHandler{
		imageService: imageService,
	}
}

type imagePayload struct {
	URL string `json:"url"`
}

// Upload accepts a multipart "image" field and returns the URL to put in image_url.
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	if !h.imageService.Enabled() {
		respondError(w, r, service.ErrStorageDisabled)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, validation.MaxImageSize+(1<<20))
	err := r.ParseMultipartForm(validation.MaxImageSize)
	if err != nil {
		respondError(w, r, service.ValidationError([]validation.FieldError{{Field: "image", Message: "image must be a multipart upload of at most 5 MB"}}))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, r, service.ValidationError([]validation.FieldError{{Field: "image", Message: "image is required"}}))
		return
	}
	defer file.Close()

	url, err := h.imageService.Upload(r.Context(), identity.UserID, file, header)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, http.StatusCreated, "Image uploaded", imagePayload{URL: url})
}
