package handlers

import (
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"troopsite/internal/service"
)

// multipart parts beyond this are spooled to temp files
const maxMemory = 8 << 20

func (h *Handlers) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.Storage.MaxUploadSize)

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, "File too large", http.StatusBadRequest)
			return
		}
		WriteError(w, "No file uploaded", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		WriteError(w, "No file uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	caption := r.FormValue("caption")

	_, err = h.UploadService.Upload(r.Context(), header.Filename, file, header.Size, caption)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoFile):
			WriteError(w, "No file uploaded", http.StatusBadRequest)
		case errors.Is(err, service.ErrUnsupportedFileType):
			WriteError(w, "Unsupported file type", http.StatusBadRequest)
		default:
			log.WithError(err).WithField("route", "upload").Error("upload failed")
			WriteError(w, "Upload failed", http.StatusInternalServerError)
		}
		return
	}

	WriteJSON(w, MessageResponse{Message: "Upload successful!"}, http.StatusOK)
}

func (h *Handlers) ListUploads(w http.ResponseWriter, r *http.Request) {
	uploads, err := h.UploadService.ListUploads(r.Context())
	if err != nil {
		log.WithError(err).WithField("route", "uploads").Error("failed to fetch uploads")
		WriteError(w, "Failed to fetch uploads", http.StatusInternalServerError)
		return
	}

	WriteJSON(w, uploads, http.StatusOK)
}
