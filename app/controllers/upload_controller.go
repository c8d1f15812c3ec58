package controllers

import (
	"net/http"

	"inkpress/app/models"
	"inkpress/app/services"
)

// maxUploadMemory caps how much of a multipart body is buffered in memory.
const maxUploadMemory = 32 << 20

// UploadController handles HTTP requests for file uploads.
type UploadController struct {
	uploads *services.UploadService
}

// NewUploadController creates a new UploadController
func NewUploadController(uploads *services.UploadService) *UploadController {
	return &UploadController{uploads: uploads}
}

// Create stores one or more files from a multipart form under the "files"
// field.
func (uc *UploadController) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		sendError(w, services.ErrInvalidState)
		return
	}

	var saved []*models.Upload
	for _, header := range r.MultipartForm.File["files"] {
		file, err := header.Open()
		if err != nil {
			sendError(w, services.ErrDependency)
			return
		}
		upload, err := uc.uploads.Save(header.Filename, file)
		file.Close()
		if err != nil {
			sendError(w, err)
			return
		}
		saved = append(saved, upload)
	}

	sendJSON(w, http.StatusOK, "Files successfully uploaded", saved)
}

// Index lists all upload records.
func (uc *UploadController) Index(w http.ResponseWriter, r *http.Request) {
	uploads, err := uc.uploads.List()
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, "Successfully fetched uploads", uploads)
}

// Show fetches a single upload record.
func (uc *UploadController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "fileId")
	if err != nil {
		sendError(w, services.ErrNotFound)
		return
	}
	upload, err := uc.uploads.Get(id)
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, "Successfully fetched file", upload)
}

// Delete removes an upload record and its stored file.
func (uc *UploadController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "fileId")
	if err != nil {
		sendError(w, services.ErrNotFound)
		return
	}
	upload, err := uc.uploads.Delete(id)
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, upload.Filename+" successfully deleted", upload.Filename)
}
