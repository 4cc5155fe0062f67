package handler

import (
	"context"
	"errors"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/gofiber/fiber/v3"

	"teamleopard/internal/delivery/http/middleware"
	"teamleopard/internal/infrastructure/storage"
	"teamleopard/internal/pkg/jwt"
)

// SignedObjectReader serves objects behind signed URLs.
type SignedObjectReader interface {
	Authorize(objectPath, token string) error
	Open(ctx context.Context, objectPath string) (io.ReadCloser, error)
}

// FilesHandler serves the URLs produced by storage.FileStore.SignedURL.
type FilesHandler struct {
	store SignedObjectReader
}

func NewFilesHandler(store SignedObjectReader) *FilesHandler {
	return &FilesHandler{store: store}
}

func (h *FilesHandler) RegisterRoutes(r fiber.Router) {
	if r == nil || h.store == nil {
		return
	}
	r.Get(storage.FilesRoute+"*", h.Get)
}

func (h *FilesHandler) Get(c fiber.Ctx) error {
	raw, err := url.PathUnescape(c.Params("*"))
	if err != nil {
		return badRequest(err)
	}
	objectPath := strings.TrimPrefix(raw, "/")

	if err := h.store.Authorize(objectPath, c.Query("token")); err != nil {
		switch {
		case errors.Is(err, storage.ErrInvalidPath):
			return badRequest(err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return middleware.NewAppError(fiber.StatusForbidden, "Link expired", nil, err)
		default:
			return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
		}
	}

	rc, err := h.store.Open(c.Context(), objectPath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return middleware.NewAppError(fiber.StatusNotFound, "File not found", nil, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}

	if ext := path.Ext(objectPath); ext != "" {
		c.Type(strings.TrimPrefix(ext, "."))
	}
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+storage.OriginalName(objectPath)+`"`)
	// fasthttp closes rc once the body is written.
	return c.SendStream(rc)
}
