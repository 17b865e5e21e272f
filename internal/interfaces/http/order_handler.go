package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/electro-api/internal/application/dto"
	"github.com/jhoicas/electro-api/internal/application/order"
	"github.com/jhoicas/electro-api/internal/domain/entity"
)

// OrderHandler maneja las órdenes de venta de la tienda.
type OrderHandler struct {
	uc *order.UseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *order.UseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

func toOrderResponse(o *entity.Order, lines []entity.OrderLine) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:        o.ID,
		Code:      o.Code,
		UserID:    o.UserID,
		Status:    o.Status,
		Total:     o.Total,
		CreatedAt: o.CreatedAt,
	}
	for _, ln := range lines {
		resp.Lines = append(resp.Lines, dto.OrderLineResponse{
			VariantID:     ln.VariantID,
			Quantity:      ln.Quantity,
			UnitPrice:     ln.UnitPrice,
			ReservationID: ln.ReservationID,
		})
	}
	return resp
}

// Checkout godoc
// @Summary      Confirmar carrito: reserva stock y crea la orden
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckoutRequest  true  "Líneas del carrito"
// @Success      201   {object}  dto.OrderResponse
// @Failure      409   {object}  dto.ErrorResponse  "Stock insuficiente"
// @Failure      423   {object}  dto.ErrorResponse  "Contención de inventario, reintente"
// @Router       /api/orders [post]
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lines := make([]order.CheckoutLine, 0, len(in.Lines))
	for _, ln := range in.Lines {
		lines = append(lines, order.CheckoutLine{VariantID: ln.VariantID, Quantity: ln.Quantity})
	}
	o, err := h.uc.Checkout(c.Context(), GetUserID(c), lines)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toOrderResponse(o, nil))
}

// GetByID godoc
// @Summary      Obtener orden con sus líneas
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	o, lines, err := h.uc.GetWithLines(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	// El cliente solo ve sus propias órdenes; el staff ve todas.
	if role := GetRole(c); role == entity.RoleCliente && o.UserID != GetUserID(c) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "la orden no pertenece al usuario"})
	}
	return c.JSON(toOrderResponse(o, lines))
}

// ListMine godoc
// @Summary      Listar las órdenes del usuario autenticado
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.OrderResponse
// @Router       /api/orders [get]
func (h *OrderHandler) ListMine(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	orders, err := h.uc.ListByUser(c.Context(), GetUserID(c), limit, offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o, nil))
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar orden (libera las reservas de inmediato)
// @Tags         orders
// @Security     Bearer
// @Param        id   path  string  true  "ID de la orden"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	o, _, err := h.uc.GetWithLines(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	if role := GetRole(c); role == entity.RoleCliente && o.UserID != GetUserID(c) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "la orden no pertenece al usuario"})
	}
	if err := h.uc.Cancel(c.Context(), o.ID); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Ship godoc
// @Summary      Despachar orden: crea el waybill y pasa a DELIVERING
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.ShipOrderRequest  true  "tracking_code"
// @Success      201   {object}  map[string]string
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/ship [post]
func (h *OrderHandler) Ship(c *fiber.Ctx) error {
	var in dto.ShipOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	w, err := h.uc.Ship(c.Context(), c.Params("id"), in.TrackingCode)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"waybill_id":    w.ID,
		"tracking_code": w.TrackingCode,
		"status":        w.Status,
	})
}
