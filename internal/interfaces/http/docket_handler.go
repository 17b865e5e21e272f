package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/electro-api/internal/application/dto"
	appinv "github.com/jhoicas/electro-api/internal/application/inventory"
	"github.com/jhoicas/electro-api/internal/domain/entity"
)

// DocketHandler maneja el ciclo de vida del docket de ajuste de bodega.
type DocketHandler struct {
	uc *appinv.DocketUseCase
}

// NewDocketHandler construye el handler.
func NewDocketHandler(uc *appinv.DocketUseCase) *DocketHandler {
	return &DocketHandler{uc: uc}
}

func toLineInputs(lines []dto.LineRequest) []appinv.LineInput {
	out := make([]appinv.LineInput, 0, len(lines))
	for _, ln := range lines {
		out = append(out, appinv.LineInput{VariantID: ln.VariantID, Quantity: ln.Quantity})
	}
	return out
}

func toDocketResponse(d *entity.Docket, lines []entity.Movement) dto.DocketResponse {
	resp := dto.DocketResponse{
		ID:        d.ID,
		Code:      d.Code,
		Kind:      d.Kind,
		Status:    d.Status,
		Reason:    d.Reason,
		CreatedAt: d.CreatedAt,
	}
	if lines != nil {
		resp.Lines = toMovementResponses(lines)
	}
	return resp
}

// Create godoc
// @Summary      Crear docket en borrador
// @Tags         dockets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDocketRequest  true  "kind, reason, lines"
// @Success      201   {object}  dto.DocketResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/dockets [post]
func (h *DocketHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDocketRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	d, err := h.uc.CreateDraft(c.Context(), GetUserID(c), in.Kind, in.Reason, toLineInputs(in.Lines))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toDocketResponse(d, nil))
}

// GetByID godoc
// @Summary      Obtener docket con sus líneas
// @Tags         dockets
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del docket"
// @Success      200  {object}  dto.DocketResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/dockets/{id} [get]
func (h *DocketHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	d, lines, err := h.uc.GetWithLines(c.Context(), id)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toDocketResponse(d, lines))
}

// List godoc
// @Summary      Listar dockets
// @Tags         dockets
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.DocketResponse
// @Router       /api/dockets [get]
func (h *DocketHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	dockets, err := h.uc.List(c.Context(), limit, offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.DocketResponse, 0, len(dockets))
	for _, d := range dockets {
		out = append(out, toDocketResponse(d, nil))
	}
	return c.JSON(out)
}

// ReplaceLines godoc
// @Summary      Reemplazar líneas de un borrador
// @Tags         dockets
// @Security     Bearer
// @Accept       json
// @Param        id    path  string  true  "ID del docket"
// @Param        body  body  dto.ReplaceDocketLinesRequest  true  "Nuevas líneas"
// @Success      204
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/dockets/{id}/lines [put]
func (h *DocketHandler) ReplaceLines(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.ReplaceDocketLinesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.ReplaceDraftLines(c.Context(), id, toLineInputs(in.Lines)); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Complete godoc
// @Summary      Completar docket (fija las líneas en el libro, atómico)
// @Tags         dockets
// @Security     Bearer
// @Param        id   path  string  true  "ID del docket"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      423  {object}  dto.ErrorResponse
// @Router       /api/dockets/{id}/complete [post]
func (h *DocketHandler) Complete(c *fiber.Ctx) error {
	if err := h.uc.Complete(c.Context(), c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Void godoc
// @Summary      Anular docket en borrador
// @Tags         dockets
// @Security     Bearer
// @Param        id   path  string  true  "ID del docket"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/dockets/{id}/void [post]
func (h *DocketHandler) Void(c *fiber.Ctx) error {
	if err := h.uc.Void(c.Context(), c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete godoc
// @Summary      Eliminar docket en borrador
// @Tags         dockets
// @Security     Bearer
// @Param        id   path  string  true  "ID del docket"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/dockets/{id} [delete]
func (h *DocketHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteDraft(c.Context(), c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PDF godoc
// @Summary      Descargar la representación imprimible del docket
// @Tags         dockets
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del docket"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/dockets/{id}/pdf [get]
func (h *DocketHandler) PDF(c *fiber.Ctx) error {
	data, err := h.uc.GeneratePDF(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(data)
}
