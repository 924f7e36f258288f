package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/labstock-api/internal/application/auth"
	"github.com/jhoicas/labstock-api/internal/application/grading"
	"github.com/jhoicas/labstock-api/internal/application/inventory"
	"github.com/jhoicas/labstock-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	ItemUC        *inventory.ItemUseCase
	CirculationUC *inventory.CirculationUseCase
	GradingUC     *grading.UseCase
	Receipt       inventory.ReceiptGenerator
	CSVExporter   grading.RecapExporter
	ExcelExporter grading.RecapExporter
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Ítems: catálogo jerárquico (solo staff y admin mutan)
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Get("/", itemHandler.List)
	items.Get("/suggestions", itemHandler.Suggestions)
	items.Post("/", RequireRole(entity.RoleAdmin, entity.RoleStaff), itemHandler.Create)
	items.Put("/:id", RequireRole(entity.RoleAdmin, entity.RoleStaff), itemHandler.Update)
	items.Delete("/", RequireRole(entity.RoleAdmin, entity.RoleStaff), itemHandler.Delete)

	// Circulación: préstamos y devoluciones (solo staff y admin mutan)
	circulation := protected.Group("/circulation")
	circulationHandler := NewCirculationHandler(deps.CirculationUC, deps.Receipt)
	circulation.Get("/", circulationHandler.List)
	circulation.Get("/:id", circulationHandler.GetDetail)
	circulation.Get("/:id/receipt", circulationHandler.Receipt)
	circulation.Post("/", RequireRole(entity.RoleAdmin, entity.RoleStaff), circulationHandler.Submit)
	circulation.Put("/:id", RequireRole(entity.RoleAdmin, entity.RoleStaff), circulationHandler.Update)
	circulation.Delete("/:id", RequireRole(entity.RoleAdmin, entity.RoleStaff), circulationHandler.Delete)

	// Evaluación: los evaluadores capturan planillas; los consolidados son de
	// admin y evaluadores
	gradingGroup := protected.Group("/grading")
	gradingHandler := NewGradingHandler(deps.GradingUC, deps.CSVExporter, deps.ExcelExporter)
	gradingGroup.Get("/groups", gradingHandler.ListGroups)
	gradingGroup.Get("/aspects", gradingHandler.ListAspects)
	gradingGroup.Post("/scores/groups", RequireRole(entity.RoleAdmin, entity.RoleEvaluator), gradingHandler.SubmitGroupScore)
	gradingGroup.Get("/scores/groups/:groupId", RequireRole(entity.RoleAdmin, entity.RoleEvaluator), gradingHandler.GetGroupScore)
	gradingGroup.Post("/scores/individuals", RequireRole(entity.RoleAdmin, entity.RoleEvaluator), gradingHandler.SubmitIndividualScores)
	gradingGroup.Get("/scores/individuals/:studentId", RequireRole(entity.RoleAdmin, entity.RoleEvaluator), gradingHandler.GetIndividualScore)
	gradingGroup.Get("/recap/groups", RequireRole(entity.RoleAdmin, entity.RoleEvaluator), gradingHandler.RecapGroups)
	gradingGroup.Get("/recap/individuals", RequireRole(entity.RoleAdmin, entity.RoleEvaluator), gradingHandler.RecapIndividuals)
}
