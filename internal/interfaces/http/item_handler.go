package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/labstock-api/internal/application/dto"
	"github.com/jhoicas/labstock-api/internal/application/inventory"
	"github.com/jhoicas/labstock-api/internal/domain"
	"github.com/jhoicas/labstock-api/internal/domain/repository"
)

// ItemHandler maneja el catálogo jerárquico de ítems.
type ItemHandler struct {
	uc *inventory.ItemUseCase
}

// NewItemHandler construye el handler de ítems.
func NewItemHandler(uc *inventory.ItemUseCase) *ItemHandler {
	return &ItemHandler{uc: uc}
}

// Create godoc
// @Summary      Crear ítems (acepta árboles padre/hijos)
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemsRequest  true  "árboles de ítems"
// @Success      201   {object}  dto.CreateItemsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreateTrees(c.Context(), GetUserID(c), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar ítems raíz activos con hijos embebidos
// @Tags         items
// @Produce      json
// @Param        filter  query  string  false  "all | borrowed | not_borrowed"
// @Success      200  {array}  dto.ItemTreeResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	filter := repository.ItemFilter(c.Query("filter"))
	out, err := h.uc.ListActive(c.Context(), filter)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar un ítem y sincronizar su lista de hijos
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "id del ítem"
// @Param        body  body  dto.UpdateItemRequest  true  "campos + child_ids"
// @Success      200   {object}  dto.UpdateItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
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
// @Summary      Eliminar ítems (soft delete masivo)
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DeleteItemsRequest  true  "ids a eliminar"
// @Success      200   {object}  dto.DeleteItemsResponse
// @Router       /api/items [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	var in dto.DeleteItemsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Delete(c.Context(), GetUserID(c), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// Suggestions godoc
// @Summary      Sugerencias de nombre para autocompletar (un ítem por nombre)
// @Tags         items
// @Produce      json
// @Success      200  {array}  dto.ItemResponse
// @Router       /api/items/suggestions [get]
func (h *ItemHandler) Suggestions(c *fiber.Ctx) error {
	out, err := h.uc.NameSuggestions(c.Context())
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// mapDomainError traduce errores sentinela del dominio a códigos HTTP.
func mapDomainError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "entrada inválida"})
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case domain.ErrDuplicate:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el recurso ya existe"})
	case domain.ErrConflict:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto de estado"})
	case domain.ErrForbidden:
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "operación no permitida"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
