package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/electro-api/internal/application/dto"
	appinv "github.com/jhoicas/electro-api/internal/application/inventory"
	"github.com/jhoicas/electro-api/internal/domain/entity"
)

// InventoryHandler sirve las lecturas de disponibilidad y la historia del
// libro de movimientos.
type InventoryHandler struct {
	uc *appinv.AvailabilityUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *appinv.AvailabilityUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// VariantAvailability godoc
// @Summary      Disponibilidad de una variante (onHand, reserved, incoming, sellable)
// @Tags         inventory
// @Produce      json
// @Param        id   path  string  true  "ID de la variante"
// @Success      200  {object}  inventory.Availability
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/variants/{id}/availability [get]
func (h *InventoryHandler) VariantAvailability(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	avail, err := h.uc.VariantAvailability(c.Context(), id)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(avail)
}

// ProductAvailability godoc
// @Summary      Disponibilidad agregada de un producto y desglose por variante
// @Tags         inventory
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id}/availability [get]
func (h *InventoryHandler) ProductAvailability(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	total, perVariant, err := h.uc.ProductAvailability(c.Context(), id)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":    total,
		"variants": perVariant,
	})
}

// VariantMovements godoc
// @Summary      Historia del libro de movimientos de una variante
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la variante"
// @Success      200  {array}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/variants/{id}/movements [get]
func (h *InventoryHandler) VariantMovements(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	movs, err := h.uc.VariantMovements(c.Context(), id)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toMovementResponses(movs))
}

// toMovementResponses mapea movimientos del libro al DTO de salida.
func toMovementResponses(movs []entity.Movement) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.MovementResponse{
			ID:         m.ID,
			VariantID:  m.VariantID,
			Source:     m.Source,
			Kind:       m.Kind,
			Status:     m.Status,
			Quantity:   m.Quantity,
			DocumentID: m.DocumentID,
			CreatedAt:  m.CreatedAt,
		})
	}
	return out
}
