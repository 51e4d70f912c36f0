package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/analytics"
	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/reconcile"
	"github.com/jhoicas/almacen-api/internal/application/stock"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/internal/infrastructure/excel"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	MaterialUC  *usecase.MaterialUseCase
	ContactUC   *usecase.ContactUseCase
	RecordUC    *usecase.RecordUseCase
	DashboardUC *analytics.DashboardUseCase
	StockEngine *stock.Service
	Reconciler  *reconcile.Service
	Materials   repository.MaterialRepository
	Importer    *excel.Importer
	Exporter    *excel.Exporter
	JWTSecret   string
}

// Router registra las rutas de la API. Las lecturas requieren cualquier rol
// autenticado; las mutaciones requieren admin u operate.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	canWrite := RequireRole(entity.RoleAdmin, entity.RoleOperate)

	// Materials
	materials := protected.Group("/materials")
	materialHandler := NewMaterialHandler(deps.MaterialUC)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	materials.Get("/", materialHandler.List)
	materials.Get("/:id", materialHandler.GetByID)
	materials.Get("/:id/batches", materialHandler.Batches)
	materials.Get("/:id/stats", dashboardHandler.MaterialStats)
	materials.Get("/:id/trend", dashboardHandler.MaterialTrend)
	materials.Post("/", canWrite, materialHandler.Create)
	materials.Put("/:id", canWrite, materialHandler.Update)
	materials.Delete("/:id", RequireRole(entity.RoleAdmin), materialHandler.Disable)
	materials.Post("/:id/enable", RequireRole(entity.RoleAdmin), materialHandler.Enable)

	// Stock (motor de mutación)
	stockGroup := protected.Group("/stock", canWrite)
	stockHandler := NewStockHandler(deps.StockEngine)
	stockGroup.Post("/in", stockHandler.StockIn)
	stockGroup.Post("/out", stockHandler.StockOut)

	// Diario de movimientos
	records := protected.Group("/records")
	recordHandler := NewRecordHandler(deps.RecordUC)
	records.Get("/", recordHandler.List)
	records.Get("/:id/consumptions", recordHandler.Consumptions)

	// Conciliación por planilla y exportación
	importHandler := NewImportHandler(deps.Importer, deps.Exporter, deps.Reconciler, deps.Materials)
	protected.Post("/import/preview", canWrite, importHandler.Preview)
	protected.Post("/import/confirm", canWrite, importHandler.Confirm)
	protected.Get("/export", importHandler.Export)

	// Contrapartes
	contacts := protected.Group("/contacts")
	contactHandler := NewContactHandler(deps.ContactUC)
	contacts.Get("/", contactHandler.List)
	contacts.Get("/:id", contactHandler.GetByID)
	contacts.Post("/", canWrite, contactHandler.Create)
	contacts.Put("/:id", canWrite, contactHandler.Update)

	// Tablero
	protected.Get("/dashboard", dashboardHandler.Summary)
}
