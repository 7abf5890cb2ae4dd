package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/nemo-delft/project-catalog/models"
)

// setupRoutes wires the catalog endpoints
func setupRoutes(r chi.Router, handlers *routeHandlers) {
	r.Group(func(r chi.Router) {
		r.Use(HTTPLoggingMiddleware)

		r.Route("/api", func(r chi.Router) {
			r.Get("/status", handlers.statusHandler.status())

			// Project endpoints
			r.Get("/projects", handlers.projectHandler.listProjects())
			r.Post("/projects", handlers.projectHandler.createProject())
			r.Post("/projects/import", handlers.importHandler.importProjects())
			r.Get("/projects/{projectID}", handlers.projectHandler.getProject())
			r.Put("/projects/{projectID}", handlers.projectHandler.updateProject())
			r.Delete("/projects/{projectID}", handlers.projectHandler.deleteProject())

			// Media endpoints
			r.Post("/projects/{projectID}/upload/image", handlers.mediaHandler.uploadMedia(models.MediaTypeImage))
			r.Post("/projects/{projectID}/upload/video", handlers.mediaHandler.uploadMedia(models.MediaTypeVideo))
			r.Delete("/media/{mediaID}", handlers.mediaHandler.deleteMedia())
		})

		// Stored file serving
		r.Get("/uploads/images/{filename}", handlers.mediaHandler.serveMedia(models.MediaTypeImage))
		r.Get("/uploads/videos/{filename}", handlers.mediaHandler.serveMedia(models.MediaTypeVideo))
	})
}
