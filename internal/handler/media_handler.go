package handler

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/oklog/ulid/v2"
)

// MediaStore abstracts the object store for uploads (S3-compatible)
type MediaStore interface {
	Upload(ctx context.Context, file []byte, key string, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// MediaHandler handles photo uploads for listings, garage logos and offer
// banners. Uploads return a public URL the entity endpoints store as-is.
type MediaHandler struct {
	store MediaStore
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(store MediaStore) *MediaHandler {
	return &MediaHandler{store: store}
}

var allowedMediaTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Upload handles POST /v1/me/media
// Accepts a multipart "file" field and returns the stored public URL
func (h *MediaHandler) Upload(c *fiber.Ctx) error {
	if h.store == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"error":   "media storage unavailable",
		})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "file field is required",
		})
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedMediaTypes[contentType] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "unsupported media type, must be JPEG, PNG or WebP",
		})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "unable to read file",
		})
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "unable to read file",
		})
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	key := fmt.Sprintf("media/%s%s", ulid.Make().String(), ext)

	url, err := h.store.Upload(c.UserContext(), data, key, contentType)
	if err != nil {
		log.Printf("[Media] Upload failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to store file",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"key": key,
			"url": url,
		},
	})
}

// Delete handles DELETE /v1/me/media/:key
func (h *MediaHandler) Delete(c *fiber.Ctx) error {
	if h.store == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"error":   "media storage unavailable",
		})
	}

	key := c.Params("*")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "media key is required",
		})
	}

	if err := h.store.Delete(c.UserContext(), key); err != nil {
		log.Printf("[Media] Delete failed for %s: %v", key, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to delete file",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "media deleted",
	})
}
