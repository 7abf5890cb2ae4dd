package api

import (
	"time"

	"github.com/nemo-delft/project-catalog/database"
	"github.com/nemo-delft/project-catalog/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, storage *services.Storage, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		projectHandler: newProjectHandler(db, storage),
		mediaHandler:   newMediaHandler(db, storage),
		importHandler:  newImportHandler(db),
		statusHandler:  newStatusHandler(startupTime),
	}
}
