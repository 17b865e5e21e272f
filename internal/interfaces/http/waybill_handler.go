package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/electro-api/internal/application/dto"
	"github.com/jhoicas/electro-api/internal/application/order"
)

// WaybillHandler recibe el webhook de la transportadora.
type WaybillHandler struct {
	uc *order.UseCase
}

// NewWaybillHandler construye el handler del webhook.
func NewWaybillHandler(uc *order.UseCase) *WaybillHandler {
	return &WaybillHandler{uc: uc}
}

// CarrierCallback godoc
// @Summary      Webhook de la transportadora (delivered / failed)
// @Tags         waybills
// @Accept       json
// @Param        body  body  dto.CarrierCallbackRequest  true  "tracking_code, event"
// @Success      204
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/waybills/callback [post]
func (h *WaybillHandler) CarrierCallback(c *fiber.Ctx) error {
	var in dto.CarrierCallbackRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.TrackingCode == "" || in.Event == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "tracking_code y event son requeridos"})
	}
	if err := h.uc.HandleCarrierCallback(c.Context(), in.TrackingCode, in.Event); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
