package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/verdant-io/planttracker/internal/plant"
)

// maxUploadBytes caps photo uploads at 10 MiB.
const maxUploadBytes = 10 << 20

// UploadHandler serves the multipart photo uploads. These stay outside the
// typed API layer because the request body is a form, not JSON.
type UploadHandler struct {
	plants *plant.Service
	logger *slog.Logger
}

func NewUploadHandler(plants *plant.Service, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{plants: plants, logger: logger}
}

type uploadResponse struct {
	PhotoURL string `json:"photoUrl"`
}

// UploadPhoto handles POST /api/plants/{id}/upload. The photo is stored under
// the plant's prefix and its URL returned.
func (h *UploadHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, false)
}

// UploadLogPhoto handles POST /api/plants/{id}/logs/upload. The photo is
// stored under the plant's log prefix; the caller attaches the returned URL
// to a log entry itself.
func (h *UploadHandler) UploadLogPhoto(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, true)
}

func (h *UploadHandler) upload(w http.ResponseWriter, r *http.Request, forLog bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid plant id")
		return
	}
	caller := plant.CallerFor(r.URL.Query().Get("username"))

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	var url string
	if forLog {
		url, err = h.plants.AttachLogPhoto(r.Context(), id, header.Filename, contentType, file, caller)
	} else {
		url, err = h.plants.AttachPhoto(r.Context(), id, header.Filename, contentType, file, caller)
	}
	if err != nil {
		switch {
		case errors.Is(err, plant.ErrNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, plant.ErrForbidden):
			writeError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, plant.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("photo upload failed", "plant_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to upload photo")
		}
		return
	}

	writeJSON(w, http.StatusCreated, uploadResponse{PhotoURL: url})
}
