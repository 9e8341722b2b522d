package handlers

import (
	"encoding/base64"
	"io"

	"github.com/SathwikUK/Virtual-Study-Mugen/internal/httpx"
	"github.com/SathwikUK/Virtual-Study-Mugen/internal/service"
	"github.com/gofiber/fiber/v2"
)

// UploadHandler accepts a raw multipart file ahead of a send and returns
// it re-encoded for transport; the client attaches the result to a
// subsequent send call.
type UploadHandler struct {
	maxBytes int64
}

func NewUploadHandler(maxBytes int64) *UploadHandler {
	return &UploadHandler{maxBytes: maxBytes}
}

func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	if _, err := httpx.LocalUint(c, "userID"); err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return httpx.BadRequest(c, "missing_file", "No file uploaded")
	}
	if fileHeader.Size > h.maxBytes {
		return httpx.Error(c, fiber.StatusRequestEntityTooLarge, "file_too_large", "File exceeds the upload size limit")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return httpx.Internal(c, "read_file_failed")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		return httpx.Internal(c, "read_file_failed")
	}
	if int64(len(data)) > h.maxBytes {
		return httpx.Error(c, fiber.StatusRequestEntityTooLarge, "file_too_large", "File exceeds the upload size limit")
	}

	return c.JSON(fiber.Map{
		"file_data": service.FileInput{
			Data:        base64.StdEncoding.EncodeToString(data),
			ContentType: fileHeader.Header.Get("Content-Type"),
			FileName:    fileHeader.Filename,
		},
	})
}
