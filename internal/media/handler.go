package media

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pressroom/service/internal/response"
	"github.com/pressroom/service/internal/storage"
)

// Handler holds HTTP handlers for the media library endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new media Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Upload godoc
//
//	@Summary		Upload images
//	@Description	Upload up to 5 images (5 MB each) under the multipart field "images". Admin only. A single invalid file rejects the whole batch.
//	@Tags			media
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			images	formData	file	true	"Image files"
//	@Success		201		{object}	response.Envelope{data=[]Asset}
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Failure		403		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/media [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	mr, err := r.MultipartReader()
	if err != nil {
		response.BadRequest(w, "multipart form data required")
		return
	}

	assets, err := h.svc.Upload(r.Context(), mr)
	switch {
	case errors.Is(err, ErrTooLarge):
		response.BadRequest(w, "file too large, max 5MB")
		return
	case errors.Is(err, ErrTooMany):
		response.BadRequest(w, "too many files, max 5")
		return
	case errors.Is(err, ErrNotImage):
		response.BadRequest(w, "not an image")
		return
	case err != nil:
		log.Printf("media: upload: %v", err)
		response.InternalError(w)
		return
	}

	response.Created(w, assets)
}

// List godoc
//
//	@Summary		List uploaded images
//	@Description	Enumerates the media library. Order is unspecified. Admin only.
//	@Tags			media
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	response.Envelope{data=[]Asset}
//	@Failure		401	{object}	response.Envelope
//	@Failure		403	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/media [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	assets, err := h.svc.List(r.Context())
	if err != nil {
		log.Printf("media: list: %v", err)
		response.InternalError(w)
		return
	}
	response.OK(w, assets)
}

// Delete godoc
//
//	@Summary		Delete an uploaded image
//	@Description	Removes a stored asset by its generated filename. Admin only.
//	@Tags			media
//	@Produce		json
//	@Security		BearerAuth
//	@Param			filename	path		string	true	"Generated filename"
//	@Success		200			{object}	response.Envelope
//	@Failure		400			{object}	response.Envelope
//	@Failure		401			{object}	response.Envelope
//	@Failure		403			{object}	response.Envelope
//	@Failure		404			{object}	response.Envelope
//	@Failure		500			{object}	response.Envelope
//	@Router			/media/{filename} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	err := h.svc.Delete(r.Context(), filename)
	switch {
	case errors.Is(err, ErrInvalidFilename):
		response.BadRequest(w, "invalid filename")
		return
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "file not found")
		return
	case err != nil:
		log.Printf("media: delete %s: %v", filename, err)
		response.InternalError(w)
		return
	}

	response.OKMessage(w, "File deleted")
}

// ServeAsset returns the handler for GET /uploads/{filename}: raw asset bytes
// from local disk, fetchable without authentication so uploads stay publicly
// embeddable. The cross-origin resource policy header permits embedding from
// any origin.
func ServeAsset(store *storage.LocalStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filename := chi.URLParam(r, "filename")

		f, err := store.Open(filename)
		switch {
		case errors.Is(err, storage.ErrInvalidKey):
			response.BadRequest(w, "invalid filename")
			return
		case errors.Is(err, storage.ErrNotFound):
			response.NotFound(w, "file not found")
			return
		case err != nil:
			log.Printf("media: serve %s: %v", filename, err)
			response.InternalError(w)
			return
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			log.Printf("media: stat %s: %v", filename, err)
			response.InternalError(w)
			return
		}

		w.Header().Set("Cross-Origin-Resource-Policy", "cross-origin")
		http.ServeContent(w, r, filename, info.ModTime(), f)
	}
}
