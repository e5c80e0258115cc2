package handlers

import (
	"errors"
	"regexp"

	"github.com/anjiri1684/quiz_platform/media"
	"github.com/anjiri1684/quiz_platform/services"
	"github.com/gofiber/fiber/v2"
)

var subfolderPattern = regexp.MustCompile(`^[a-z0-9_-]{0,40}$`)

// UploadSignature signs a direct browser upload of question media.
func (h *Handler) UploadSignature(c *fiber.Ctx) error {
	folder := c.Query("folder")
	if !subfolderPattern.MatchString(folder) {
		return &services.Error{Kind: services.KindValidation, Message: "invalid folder"}
	}
	sig, err := h.Media.SignUpload(folder)
	if errors.Is(err, media.ErrNotConfigured) {
		return &services.Error{Kind: services.KindUpstream, Message: "media storage is not configured", Err: err}
	}
	if err != nil {
		return &services.Error{Kind: services.KindUpstream, Message: "failed to sign upload params", Err: err}
	}
	return respond(c, fiber.StatusOK, sig)
}
