package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/labstock-api/internal/application/dto"
	"github.com/jhoicas/labstock-api/internal/application/grading"
)

// GradingHandler maneja la evaluación de proyectos: grupos, aspectos,
// planillas y consolidados exportables.
type GradingHandler struct {
	uc    *grading.UseCase
	csv   grading.RecapExporter
	excel grading.RecapExporter
}

// NewGradingHandler construye el handler de evaluación.
func NewGradingHandler(uc *grading.UseCase, csv, excel grading.RecapExporter) *GradingHandler {
	return &GradingHandler{uc: uc, csv: csv, excel: excel}
}

// ListGroups godoc
// @Summary      Listar grupos de proyecto con integrantes
// @Tags         grading
// @Produce      json
// @Param        year   query  int     false  "filtrar por año"
// @Param        class  query  string  false  "filtrar por clase"
// @Success      200  {array}  dto.GroupResponse
// @Router       /api/grading/groups [get]
func (h *GradingHandler) ListGroups(c *fiber.Ctx) error {
	out, err := h.uc.ListGroups(c.Context(), yearsFilter(c), classesFilter(c))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// ListAspects godoc
// @Summary      Listar aspectos de evaluación con hijos embebidos
// @Tags         grading
// @Produce      json
// @Param        kind  query  string  true   "group | individual"
// @Param        year  query  int     false  "filtrar por año"
// @Success      200  {array}  dto.AspectResponse
// @Router       /api/grading/aspects [get]
func (h *GradingHandler) ListAspects(c *fiber.Ctx) error {
	out, err := h.uc.ListAspects(c.Context(), c.Query("kind"), yearsFilter(c))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// SubmitGroupScore godoc
// @Summary      Registrar la planilla grupal del evaluador autenticado
// @Tags         grading
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitGroupScoreRequest  true  "planilla"
// @Success      201   {object}  dto.InsertedResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/grading/scores/groups [post]
func (h *GradingHandler) SubmitGroupScore(c *fiber.Ctx) error {
	var in dto.SubmitGroupScoreRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.SubmitGroupScore(c.Context(), GetUserID(c), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetGroupScore godoc
// @Summary      Planilla grupal del evaluador autenticado para un grupo
// @Tags         grading
// @Produce      json
// @Param        groupId  path  string  true  "id del grupo"
// @Success      200  {object}  dto.ScoreSheetResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/grading/scores/groups/{groupId} [get]
func (h *GradingHandler) GetGroupScore(c *fiber.Ctx) error {
	out, err := h.uc.GetGroupScore(c.Context(), c.Params("groupId"), GetUserID(c))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// SubmitIndividualScores godoc
// @Summary      Registrar planillas individuales del evaluador autenticado
// @Tags         grading
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitIndividualScoreRequest  true  "planillas por integrante"
// @Success      201   {object}  dto.InsertedResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/grading/scores/individuals [post]
func (h *GradingHandler) SubmitIndividualScores(c *fiber.Ctx) error {
	var in dto.SubmitIndividualScoreRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.SubmitIndividualScores(c.Context(), GetUserID(c), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetIndividualScore godoc
// @Summary      Planilla individual del evaluador autenticado para un estudiante
// @Tags         grading
// @Produce      json
// @Param        studentId  path  string  true  "id del estudiante"
// @Success      200  {object}  dto.ScoreSheetResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/grading/scores/individuals/{studentId} [get]
func (h *GradingHandler) GetIndividualScore(c *fiber.Ctx) error {
	out, err := h.uc.GetIndividualScore(c.Context(), c.Params("studentId"), GetUserID(c))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// RecapGroups godoc
// @Summary      Consolidado de notas grupales (json, csv o excel)
// @Tags         grading
// @Produce      json
// @Param        year    query  int     false  "filtrar por año"
// @Param        class   query  string  false  "filtrar por clase"
// @Param        format  query  string  false  "json | csv | excel (default json)"
// @Success      200  {array}  dto.GroupRecapRow
// @Router       /api/grading/recap/groups [get]
func (h *GradingHandler) RecapGroups(c *fiber.Ctx) error {
	rows, err := h.uc.RecapGroups(c.Context(), yearsFilter(c), classesFilter(c))
	if err != nil {
		return mapDomainError(c, err)
	}
	exporter, ok := h.exporterFor(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "format debe ser json, csv o excel"})
	}
	if exporter == nil {
		return c.JSON(rows)
	}
	payload, err := exporter.GroupRecap(rows)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "EXPORT", Message: err.Error()})
	}
	return sendExport(c, exporter, "notas-grupales", payload)
}

// RecapIndividuals godoc
// @Summary      Consolidado de notas individuales de una clase y año (json, csv o excel)
// @Tags         grading
// @Produce      json
// @Param        year    query  int     true   "año"
// @Param        class   query  string  true   "clase"
// @Param        format  query  string  false  "json | csv | excel (default json)"
// @Success      200  {array}  dto.IndividualRecapRow
// @Router       /api/grading/recap/individuals [get]
func (h *GradingHandler) RecapIndividuals(c *fiber.Ctx) error {
	year := c.QueryInt("year")
	class := c.Query("class")
	if year == 0 || class == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "year y class son requeridos"})
	}
	rows, err := h.uc.RecapIndividuals(c.Context(), year, class)
	if err != nil {
		return mapDomainError(c, err)
	}
	exporter, ok := h.exporterFor(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "format debe ser json, csv o excel"})
	}
	if exporter == nil {
		return c.JSON(rows)
	}
	payload, err := exporter.IndividualRecap(rows)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "EXPORT", Message: err.Error()})
	}
	return sendExport(c, exporter, "notas-individuales", payload)
}

// exporterFor resuelve el exportador según ?format=. nil significa JSON
// directo; ok=false formato desconocido.
func (h *GradingHandler) exporterFor(c *fiber.Ctx) (grading.RecapExporter, bool) {
	switch c.Query("format", "json") {
	case "json":
		return nil, true
	case "csv":
		return h.csv, true
	case "excel":
		return h.excel, true
	default:
		return nil, false
	}
}

func sendExport(c *fiber.Ctx, exporter grading.RecapExporter, name string, payload []byte) error {
	c.Set(fiber.HeaderContentType, exporter.ContentType())
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s.%s"`, name, exporter.FileExt()))
	return c.Send(payload)
}

func yearsFilter(c *fiber.Ctx) []int {
	if year := c.QueryInt("year"); year != 0 {
		return []int{year}
	}
	return nil
}

func classesFilter(c *fiber.Ctx) []string {
	if class := c.Query("class"); class != "" {
		return []string{class}
	}
	return nil
}
