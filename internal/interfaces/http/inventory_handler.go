package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
)

const (
	defaultMovementLimit = 100
	maxMovementLimit     = 1000
)

// InventoryHandler endpoints del ledger de movimientos.
type InventoryHandler struct {
	ledger *inventory.RegisterMovementUseCase
	query  *inventory.MovementQueryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.RegisterMovementUseCase, query *inventory.MovementQueryUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, query: query}
}

// RecordMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  Entrada o salida de piezas y/o tarimas. Una salida mayor al stock disponible se rechaza sin cambios.
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "product_id, movement_type (entry|exit), cantidades"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *InventoryHandler) RecordMovement(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.ledger.RecordMovement(c.Context(), inventory.MovementInputFromRequest(in))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar movimientos
// @Tags         movements
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        order       query  string  false  "asc | desc"  default(desc)
// @Param        limit       query  int     false  "Máximo de movimientos (hasta 1000)"  default(100)
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	return h.list(c, strings.TrimSpace(c.Query("product_id")))
}

// ListByProduct godoc
// @Summary      Historial de movimientos de un producto
// @Tags         movements
// @Produce      json
// @Param        product_id  path   string  true   "ID del producto"
// @Param        order       query  string  false  "asc | desc"  default(desc)
// @Param        limit       query  int     false  "Máximo de movimientos (hasta 1000)"  default(100)
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements/{product_id} [get]
func (h *InventoryHandler) ListByProduct(c *fiber.Ctx) error {
	return h.list(c, c.Params("product_id"))
}

func (h *InventoryHandler) list(c *fiber.Ctx, productID string) error {
	var desc bool
	switch strings.ToLower(c.Query("order", "desc")) {
	case "desc":
		desc = true
	case "asc":
	default:
		return badRequest(c, "VALIDATION", "order debe ser asc o desc")
	}
	limit := c.QueryInt("limit", defaultMovementLimit)
	if limit <= 0 {
		limit = defaultMovementLimit
	}
	if limit > maxMovementLimit {
		limit = maxMovementLimit
	}

	out, err := h.query.List(c.Context(), inventory.ListMovementsQuery{
		ProductID:  productID,
		Limit:      limit,
		Descending: desc,
	})
	if err != nil {
		return err
	}
	return c.JSON(out)
}
