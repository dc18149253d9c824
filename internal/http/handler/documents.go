package handler

import (
	"mime"
	"net/url"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"pdfvault/internal/service"
)

// nameParam returns the decoded :name route parameter. Fiber reuses the
// underlying buffer after the handler returns, so the value is copied.
func nameParam(c *fiber.Ctx) (string, bool) {
	name, err := url.PathUnescape(utils.CopyString(c.Params("name")))
	if err != nil || name == "" {
		return "", false
	}
	return name, true
}

// ListDocuments returns summaries of every stored document.
//
// @Summary List documents
// @Tags documents
// @Produce json
// @Success 200 {array} model.DocumentSummary
// @Failure 500 {object} errorPayload
// @Router /documents [get]
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docs, err := svc.List(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(docs)
	}
}

// UploadDocument stores a PDF sent as multipart/form-data (field name: file).
// An optional last_modified form field carries the origin timestamp in unix ms.
//
// @Summary Upload a PDF
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF file"
// @Param last_modified formData integer false "Last modified time in unix milliseconds"
// @Success 201 {object} model.DocumentSummary
// @Failure 400 {object} errorPayload
// @Failure 413 {object} errorPayload
// @Failure 415 {object} errorPayload
// @Router /documents [post]
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		var lastModified time.Time
		if v := c.FormValue("last_modified"); v != "" {
			ms, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_LAST_MODIFIED", "last_modified must be unix milliseconds")
			}
			lastModified = time.UnixMilli(ms)
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		doc, err := svc.Upload(c.UserContext(), f, fh.Filename, ct, lastModified)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc.Summary())
	}
}

// GetDocument returns the full record including its data URI.
//
// @Summary Get a document
// @Tags documents
// @Produce json
// @Param name path string true "Document name"
// @Success 200 {object} model.DocumentRecord
// @Failure 404 {object} errorPayload
// @Router /documents/{name} [get]
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, ok := nameParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_NAME", "invalid document name")
		}
		doc, err := svc.Get(c.UserContext(), name)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DocumentContent serves the decoded bytes for inline display.
//
// @Summary Display a document
// @Tags documents
// @Produce application/pdf
// @Param name path string true "Document name"
// @Success 200 {file} binary
// @Failure 404 {object} errorPayload
// @Router /documents/{name}/content [get]
func DocumentContent(svc service.DocumentService) fiber.Handler {
	return serveContent(svc, "inline")
}

// DownloadDocument serves the decoded bytes as an attachment.
//
// @Summary Download a document
// @Tags documents
// @Produce application/pdf
// @Param name path string true "Document name"
// @Success 200 {file} binary
// @Failure 404 {object} errorPayload
// @Router /documents/{name}/download [get]
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return serveContent(svc, "attachment")
}

func serveContent(svc service.DocumentService, disposition string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, ok := nameParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_NAME", "invalid document name")
		}
		content, err := svc.Content(c.UserContext(), name)
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Set(fiber.HeaderContentType, content.MediaType)
		c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType(disposition, map[string]string{"filename": content.Name}))
		return c.Send(content.Data)
	}
}

// DeleteDocument removes a document. Deleting a missing name succeeds.
//
// @Summary Delete a document
// @Tags documents
// @Param name path string true "Document name"
// @Success 204
// @Failure 500 {object} errorPayload
// @Router /documents/{name} [delete]
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, ok := nameParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_NAME", "invalid document name")
		}
		if err := svc.Delete(c.UserContext(), name); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GetUsage reports the document count and the summed size of all documents.
//
// @Summary Storage usage
// @Tags usage
// @Produce json
// @Success 200 {object} model.Usage
// @Failure 500 {object} errorPayload
// @Router /usage [get]
func GetUsage(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := svc.Usage(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(u)
	}
}
