package helper

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"phqa_backend/internals/helpers/logger"
)

// FromFiberError mengubah error dari service (biasanya *fiber.Error)
// menjadi response JSON konsisten via JsonError.
// Error lain dianggap error infrastruktur: dicatat, lalu dibalas 500 generik.
func FromFiberError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return ValidationError(c, ve)
	}
	logger.Error("unhandled error", "method", c.Method(), "path", c.Path(), "error", err)
	return JsonError(c, fiber.StatusInternalServerError, "Terjadi kesalahan pada server")
}

// ValidationError memetakan validator.ValidationErrors → field → daftar tag yang gagal
func ValidationError(c *fiber.Ctx, ve validator.ValidationErrors) error {
	fields := make(map[string][]string, len(ve))
	for _, fe := range ve {
		name := strings.ToLower(fe.Field())
		fields[name] = append(fields[name], fe.Tag())
	}
	return JsonValidationError(c, fields)
}
