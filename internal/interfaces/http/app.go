package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/pkg/logger"
)

// NewApp crea la aplicación Fiber con los tiempos de espera y el manejador de errores.
// Immutable: los parámetros de ruta y cuerpo se copian y pueden retenerse tras la petición.
func NewApp(name string, log *logger.Logger) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      name,
		Immutable:    true,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler(log),
	})
}
