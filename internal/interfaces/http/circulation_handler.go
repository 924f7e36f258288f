package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/labstock-api/internal/application/dto"
	"github.com/jhoicas/labstock-api/internal/application/inventory"
)

// CirculationHandler maneja los formularios de préstamo y devolución.
type CirculationHandler struct {
	uc      *inventory.CirculationUseCase
	receipt inventory.ReceiptGenerator
}

// NewCirculationHandler construye el handler de circulación.
func NewCirculationHandler(uc *inventory.CirculationUseCase, receipt inventory.ReceiptGenerator) *CirculationHandler {
	return &CirculationHandler{uc: uc, receipt: receipt}
}

// Submit godoc
// @Summary      Registrar un préstamo o devolución
// @Tags         circulation
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitCirculationRequest  true  "responsable + líneas"
// @Success      201   {object}  dto.SubmitCirculationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/circulation [post]
func (h *CirculationHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitCirculationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Submit(c.Context(), GetUserID(c), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar formularios con la identidad del registrador
// @Tags         circulation
// @Produce      json
// @Success      200  {array}  dto.CirculationFormSummary
// @Router       /api/circulation [get]
func (h *CirculationHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// GetDetail godoc
// @Summary      Detalle de un formulario con líneas y, en préstamos, tope editable y pool disponible
// @Tags         circulation
// @Produce      json
// @Param        id  path  string  true  "id del formulario"
// @Success      200  {object}  dto.CirculationFormDetail
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/circulation/{id} [get]
func (h *CirculationHandler) GetDetail(c *fiber.Ctx) error {
	out, err := h.uc.GetDetail(c.Context(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar un formulario por reconciliación de líneas
// @Tags         circulation
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "id del formulario"
// @Param        body  body  dto.SubmitCirculationRequest  true  "estado completo deseado"
// @Success      200   {object}  dto.ReconcileResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/circulation/{id} [put]
func (h *CirculationHandler) Update(c *fiber.Ctx) error {
	var in dto.SubmitCirculationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar un formulario revirtiendo su efecto en el ledger
// @Tags         circulation
// @Produce      json
// @Param        id  path  string  true  "id del formulario"
// @Success      200  {object}  dto.DeleteFormResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/circulation/{id} [delete]
func (h *CirculationHandler) Delete(c *fiber.Ctx) error {
	out, err := h.uc.Delete(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Descargar el comprobante PDF de un formulario
// @Tags         circulation
// @Produce      application/pdf
// @Param        id  path  string  true  "id del formulario"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/circulation/{id}/receipt [get]
func (h *CirculationHandler) Receipt(c *fiber.Ctx) error {
	detail, err := h.uc.GetDetail(c.Context(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	pdfBytes, err := h.receipt.GenerateCirculationReceipt(c.Context(), detail)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PDF_GENERATION", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="comprobante-%s.pdf"`, detail.ID))
	return c.Send(pdfBytes)
}
