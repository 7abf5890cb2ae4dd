package api

import (
	"io"
	"net/http"

	"github.com/nemo-delft/project-catalog/database"
	"github.com/nemo-delft/project-catalog/errs"
	"github.com/nemo-delft/project-catalog/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type importHandler struct {
	responder Responder
	logger    zerolog.Logger
	importer  *services.Importer
}

func newImportHandler(db database.Database) importHandler {
	logger := log.With().Str("handlerName", "importHandler").Logger()

	return importHandler{
		responder: NewResponder(logger),
		logger:    logger,
		importer:  services.NewImporter(db.ProjectRepo()),
	}
}

// importProjects runs the best-effort bulk import over an uploaded CSV or
// workbook file. Per-row failures come back in the response; only a file
// that cannot be read at all is an error.
func (h importHandler) importProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("no file provided"))
			return
		}
		defer file.Close()

		if header.Filename == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("empty filename"))
			return
		}

		data, err := io.ReadAll(file)
		if err != nil {
			h.logger.Error().Err(err).Msg("failed to read import upload")
			h.responder.WriteError(w, errs.NewBadRequestError("failed to read file"))
			return
		}

		result, err := h.importer.ImportFile(header.Filename, data)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, result)
	}
}
