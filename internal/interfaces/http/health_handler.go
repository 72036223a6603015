package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/dto"
)

// HealthInfo datos del endpoint de salud. Ping es opcional (nil = sin dependencia externa).
type HealthInfo struct {
	Service string
	Storage string
	Ping    func(ctx context.Context) error
}

// Health godoc
// @Summary      Estado del servicio
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Failure      503  {object}  dto.HealthResponse
// @Router       /api/health [get]
func Health(info HealthInfo) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out := dto.HealthResponse{Status: "ok", Service: info.Service, Storage: info.Storage}
		if info.Ping != nil {
			if err := info.Ping(c.Context()); err != nil {
				out.Status = "degraded"
				return c.Status(fiber.StatusServiceUnavailable).JSON(out)
			}
		}
		return c.JSON(out)
	}
}
