package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/barcode"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	codec "github.com/jhoicas/almacen-api/internal/domain/barcode"
)

// BarcodeHandler generación y validación de códigos de barras.
type BarcodeHandler struct {
	allocator *barcode.Allocator
}

// NewBarcodeHandler construye el handler.
func NewBarcodeHandler(allocator *barcode.Allocator) *BarcodeHandler {
	return &BarcodeHandler{allocator: allocator}
}

// Generate godoc
// @Summary      Generar código de barras libre
// @Description  Devuelve un código válido que ningún producto tiene asignado al momento de la consulta.
// @Tags         barcodes
// @Produce      json
// @Param        format  path  string  true  "EAN13 | UPC | CODE128"
// @Success      200  {object}  dto.GenerateBarcodeResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/generate-barcode/{format} [get]
func (h *BarcodeHandler) Generate(c *fiber.Ctx) error {
	out, err := h.allocator.Allocate(c.Context(), c.Params("format"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Validate godoc
// @Summary      Validar código de barras
// @Tags         barcodes
// @Produce      json
// @Param        format  path  string  true  "EAN13 | UPC | CODE128"
// @Param        code    path  string  true  "Código completo"
// @Success      200  {object}  dto.ValidateBarcodeResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/validate-barcode/{format}/{code} [get]
func (h *BarcodeHandler) Validate(c *fiber.Ctx) error {
	scheme, err := codec.ParseScheme(c.Params("format"))
	if err != nil {
		return err
	}
	code := strings.TrimSpace(c.Params("code"))
	return c.JSON(dto.ValidateBarcodeResponse{
		Barcode: code,
		Format:  string(scheme),
		Valid:   codec.Validate(code, scheme),
	})
}
