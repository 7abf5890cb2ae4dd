package api

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/nemo-delft/project-catalog/database"
	"github.com/nemo-delft/project-catalog/errs"
	"github.com/nemo-delft/project-catalog/models"
	"github.com/nemo-delft/project-catalog/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type mediaHandler struct {
	responder   Responder
	logger      zerolog.Logger
	projectRepo *database.ProjectRepo
	mediaRepo   *database.MediaRepo
	storage     *services.Storage
}

func newMediaHandler(db database.Database, storage *services.Storage) mediaHandler {
	logger := log.With().Str("handlerName", "mediaHandler").Logger()

	return mediaHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		projectRepo: db.ProjectRepo(),
		mediaRepo:   db.MediaRepo(),
		storage:     storage,
	}
}

// uploadMedia attaches one uploaded file of the given kind to an existing
// project. The extension is checked before any byte hits disk.
func (h mediaHandler) uploadMedia(kind models.MediaType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := urlParamInt(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projectRepo.FindByID(projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFound("project"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("no file provided"))
			return
		}
		defer file.Close()

		if header.Filename == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("no selected file"))
			return
		}
		if err := services.CheckExtension(header.Filename, kind); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		storedName := services.StoredName(projectID, kind, header.Filename)
		if err := h.storage.Save(kind, storedName, file); err != nil {
			h.logger.Error().Err(err).Str("filename", storedName).Msg("failed to store upload")
			h.responder.WriteError(w, errs.NewInternalError("failed to store uploaded file"))
			return
		}

		media := models.Media{
			ProjectID:    projectID,
			MediaType:    kind,
			Filename:     storedName,
			OriginalName: header.Filename,
		}
		if err := h.mediaRepo.Add(&media); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "media", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{"filename": storedName})
	}
}

// serveMedia streams a stored file of the given kind
func (h mediaHandler) serveMedia(kind models.MediaType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filename := chi.URLParam(r, "filename")
		// Path traversal guard: only flat names exist in the upload dirs.
		if filename == "" || filename != filepath.Base(filename) {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid filename"))
			return
		}
		http.ServeFile(w, r, filepath.Join(h.storage.Dir(kind), filename))
	}
}

// deleteMedia removes a media row and best-effort deletes its backing file
func (h mediaHandler) deleteMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mediaID, err := urlParamInt(r, "mediaID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		media, err := h.mediaRepo.FindByID(mediaID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "media", err))
			return
		}
		if media == nil {
			h.responder.WriteError(w, errs.NewNotFound("media"))
			return
		}

		result := h.storage.Remove(media.MediaType, media.Filename)
		if result.Err != nil {
			h.logger.Warn().Err(result.Err).Str("path", result.Path).Msg("failed to remove media file")
		}

		if err := h.mediaRepo.Delete(mediaID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "media", err))
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
