package api

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/nemo-delft/project-catalog/database"
	"github.com/nemo-delft/project-catalog/errs"
	"github.com/nemo-delft/project-catalog/models"
	"github.com/nemo-delft/project-catalog/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// maxFormMemory bounds how much of a multipart body is held in memory
const maxFormMemory = 32 << 20

type projectHandler struct {
	responder    Responder
	logger       zerolog.Logger
	projectRepo  *database.ProjectRepo
	mediaRepo    *database.MediaRepo
	categoryRepo *database.CategoryRepo
	storage      *services.Storage
}

func newProjectHandler(db database.Database, storage *services.Storage) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		projectRepo:  db.ProjectRepo(),
		mediaRepo:    db.MediaRepo(),
		categoryRepo: db.CategoryRepo(),
		storage:      storage,
	}
}

// listProjects returns the filtered, sorted catalog with media enrichment
func (h projectHandler) listProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		filter := models.ProjectFilter{
			Search:   query.Get("q"),
			Category: query.Get("category"),
			SortBy:   query.Get("sort"),
			Order:    query.Get("order"),
		}
		year, err := queryInt(query.Get("year"), "year")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		filter.Year = year
		rating, err := queryInt(query.Get("rating"), "rating")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		filter.Rating = rating

		projects, err := h.projectRepo.FindAll(filter)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "projects", err))
			return
		}

		h.responder.WriteJSON(w, projects)
	}
}

// createProject creates a new project, optionally attaching one image and
// one video file when the body is multipart.
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := h.decodeCreateRequest(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		cmd, err := req.toCommand()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		// Attached files are extension-checked before the project row is
		// created, so a rejected upload does not leave a half-built record.
		image := formFileHeader(r, "image")
		video := formFileHeader(r, "video")
		if image != nil {
			if err := services.CheckExtension(image.Filename, models.MediaTypeImage); err != nil {
				h.responder.WriteError(w, err)
				return
			}
		}
		if video != nil {
			if err := services.CheckExtension(video.Filename, models.MediaTypeVideo); err != nil {
				h.responder.WriteError(w, err)
				return
			}
		}

		project := cmd.project()
		if err := h.projectRepo.Add(&project); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "project", err))
			return
		}
		h.syncCategories(project.ID, cmd.Categories)

		if image != nil {
			if err := h.attachUpload(project.ID, models.MediaTypeImage, image); err != nil {
				h.responder.WriteError(w, err)
				return
			}
		}
		if video != nil {
			if err := h.attachUpload(project.ID, models.MediaTypeVideo, video); err != nil {
				h.responder.WriteError(w, err)
				return
			}
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, map[string]int{"id": project.ID})
	}
}

// getProject returns one project with its media list, newest first
func (h projectHandler) getProject() http.HandlerFunc {
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

		h.responder.WriteJSON(w, project)
	}
}

// updateProject overwrites exactly the fields present in the payload
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := urlParamInt(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		existing, err := h.projectRepo.FindByID(projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}
		if existing == nil {
			h.responder.WriteError(w, errs.NewNotFound("project"))
			return
		}

		var req updateProjectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode project update body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		update := req.toUpdate()
		if err := h.projectRepo.Update(projectID, update); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "project", err))
			return
		}
		if update.Category != nil {
			h.syncCategories(projectID, *update.Category)
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// deleteProject cascades to media rows, then removes backing files
// best-effort.
func (h projectHandler) deleteProject() http.HandlerFunc {
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

		if err := h.projectRepo.Delete(projectID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "project", err))
			return
		}

		// File cleanup never fails the request; a leftover file is logged
		// and forgotten.
		for _, media := range project.Media {
			result := h.storage.Remove(media.MediaType, media.Filename)
			if result.Err != nil {
				h.logger.Warn().Err(result.Err).Str("path", result.Path).Msg("failed to remove media file")
			}
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// decodeCreateRequest accepts JSON, urlencoded and multipart bodies
func (h projectHandler) decodeCreateRequest(r *http.Request) (*createProjectRequest, error) {
	contentType := r.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(contentType, "multipart/form-data"):
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			return nil, errs.NewBadRequestError("malformed multipart body")
		}
		return createRequestFromForm(r.PostForm)
	case strings.HasPrefix(contentType, "application/x-www-form-urlencoded"):
		if err := r.ParseForm(); err != nil {
			return nil, errs.NewBadRequestError("malformed form body")
		}
		return createRequestFromForm(r.PostForm)
	default:
		var req createProjectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode project request body")
			return nil, errs.NewBadRequestError("malformed request body")
		}
		return &req, nil
	}
}

// attachUpload saves one multipart file and records its media row
func (h projectHandler) attachUpload(projectID int, kind models.MediaType, header *multipart.FileHeader) error {
	file, err := header.Open()
	if err != nil {
		return errs.NewBadRequestError("failed to read uploaded file")
	}
	defer file.Close()

	storedName := services.StoredName(projectID, kind, header.Filename)
	if err := h.storage.Save(kind, storedName, file); err != nil {
		return errs.NewInternalError("failed to store uploaded file")
	}

	media := models.Media{
		ProjectID:    projectID,
		MediaType:    kind,
		Filename:     storedName,
		OriginalName: header.Filename,
	}
	if err := h.mediaRepo.Add(&media); err != nil {
		return wrapDatabaseError("create", "media", err)
	}
	return nil
}

// syncCategories maintains the normalized category tables write-through.
// Failures are logged, never surfaced: the flat column is authoritative.
func (h projectHandler) syncCategories(projectID int, names []string) {
	if err := h.categoryRepo.SyncProject(projectID, names); err != nil {
		h.logger.Warn().Err(err).Int("projectID", projectID).Msg("failed to sync category links")
	}
}

func formFileHeader(r *http.Request, field string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	headers := r.MultipartForm.File[field]
	if len(headers) == 0 || headers[0].Filename == "" {
		return nil
	}
	return headers[0]
}

func urlParamInt(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return 0, errs.NewBadRequestError("missing " + name)
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewBadRequestError("invalid " + name)
	}
	return value, nil
}

func queryInt(raw, field string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errs.NewInvalidFieldError(field, "must be an integer")
	}
	return &value, nil
}
