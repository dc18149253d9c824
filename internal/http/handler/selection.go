package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"pdfvault/internal/service"
)

type selectRequest struct {
	Name string `json:"name"`
}

// SelectDocument makes a stored document the current one.
//
// @Summary Select a document
// @Tags selection
// @Accept json
// @Produce json
// @Param request body selectRequest true "Document to select"
// @Success 200 {object} model.DocumentSummary
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /selection [put]
func SelectDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req selectRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		name := strings.TrimSpace(req.Name)
		if name == "" {
			return writeError(c, fiber.StatusBadRequest, "NAME_REQUIRED", "name is required")
		}
		doc, err := svc.Select(c.UserContext(), name)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc.Summary())
	}
}

// GetSelection returns the current document.
//
// @Summary Current selection
// @Tags selection
// @Produce json
// @Success 200 {object} model.DocumentSummary
// @Failure 404 {object} errorPayload
// @Router /selection [get]
func GetSelection(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, ok := svc.Selected()
		if !ok {
			return writeError(c, fiber.StatusNotFound, "NO_SELECTION", "no document selected")
		}
		return c.JSON(doc.Summary())
	}
}

// ClearSelection drops the current document.
//
// @Summary Clear selection
// @Tags selection
// @Success 204
// @Router /selection [delete]
func ClearSelection(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		svc.ClearSelection()
		return c.SendStatus(fiber.StatusNoContent)
	}
}
