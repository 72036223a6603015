package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// statusFor traduce un error de dominio al código HTTP y al code del ErrorResponse.
func statusFor(err error) (int, string) {
	var fe *fiber.Error
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrDuplicateBarcode):
		return fiber.StatusConflict, "DUPLICATE_BARCODE"
	case errors.Is(err, domain.ErrBarcodeLocked):
		return fiber.StatusConflict, "BARCODE_LOCKED"
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrAllocationExhausted):
		return fiber.StatusServiceUnavailable, "ALLOCATION_EXHAUSTED"
	case errors.As(err, &fe):
		// Errores propios de Fiber (ruta inexistente, método no permitido, body demasiado grande).
		if fe.Code == fiber.StatusNotFound {
			return fe.Code, "NOT_FOUND"
		}
		if fe.Code < fiber.StatusInternalServerError {
			return fe.Code, "BAD_REQUEST"
		}
		return fe.Code, "INTERNAL"
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// ErrorHandler es el fiber.ErrorHandler de la API: los handlers devuelven el error del caso
// de uso y aquí se convierte en dto.ErrorResponse. Los 5xx se registran con zerolog.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Named("http")
	return func(c *fiber.Ctx, err error) error {
		status, code := statusFor(err)
		msg := err.Error()
		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Int("status", status).
				Msg("error interno")
			if code == "INTERNAL" {
				msg = "error interno del servidor"
			}
		}
		return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
	}
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
