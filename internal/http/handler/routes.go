package handler

import (
	"github.com/gofiber/fiber/v2"

	"pdfvault/internal/repository"
	"pdfvault/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, store repository.Pinger, docSvc service.DocumentService) {
	app.Get("/health", HealthCheck(store))
	app.Get("/healthz", LivenessProbe())

	docs := app.Group("/documents")
	docs.Get("/", ListDocuments(docSvc))
	docs.Post("/", UploadDocument(docSvc))
	docs.Get("/:name", GetDocument(docSvc))
	docs.Get("/:name/content", DocumentContent(docSvc))
	docs.Get("/:name/download", DownloadDocument(docSvc))
	docs.Delete("/:name", DeleteDocument(docSvc))

	app.Put("/selection", SelectDocument(docSvc))
	app.Get("/selection", GetSelection(docSvc))
	app.Delete("/selection", ClearSelection(docSvc))

	app.Get("/usage", GetUsage(docSvc))
}
