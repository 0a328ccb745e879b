package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/Salidas-api/internal/application/auth"
	"github.com/jhoicas/Salidas-api/internal/application/inventory"
	"github.com/jhoicas/Salidas-api/internal/application/stockout"
	"github.com/jhoicas/Salidas-api/internal/domain/access"
	"github.com/jhoicas/Salidas-api/pkg/logger"
)

// MetricsExporter middleware de medición y endpoint /metrics (lo implementa metrics.Recorder).
type MetricsExporter interface {
	Middleware() fiber.Handler
	Handler() nethttp.Handler
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase // nil = sin login (tokens emitidos fuera)
	RequestUC   *stockout.RequestUseCase
	ApprovalUC  *stockout.ApprovalUseCase
	ExecutionUC *stockout.ExecutionUseCase
	VoucherUC   *stockout.VoucherUseCase // nil = sin comprobante PDF
	Ledger      *inventory.Ledger
	Events      EventSource
	Metrics     MetricsExporter // nil = sin /metrics
	JWTSecret   string
	ServiceName string
	Log         *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(Tracing(deps.ServiceName))
	if deps.Metrics != nil {
		app.Use(deps.Metrics.Middleware())
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	api := app.Group("/api")
	var authHandler *AuthHandler
	if deps.AuthUC != nil {
		authHandler = NewAuthHandler(deps.AuthUC)
		api.Post("/auth/login", authHandler.Login)
	}
	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	roles := func(a access.Action) fiber.Handler { return RequireRole(access.RolesFor(a)...) }

	if authHandler != nil {
		protected.Post("/users", roles(access.ActionManageUsers), authHandler.Register)
	}

	// Solicitudes de salida
	stockOuts := protected.Group("/stock-outs")
	stockOutHandler := NewStockOutHandler(deps.RequestUC, deps.Events, deps.Log)
	stockOuts.Post("/", roles(access.ActionCreateRequest), stockOutHandler.Create)
	stockOuts.Get("/", stockOutHandler.List)
	stockOuts.Get("/:id", stockOutHandler.GetByID)
	stockOuts.Post("/:id/cancel", stockOutHandler.Cancel)
	stockOuts.Delete("/:id", roles(access.ActionDeactivate), stockOutHandler.Deactivate)
	stockOuts.Get("/:id/approvals", stockOutHandler.History)
	stockOuts.Get("/:id/events", stockOutHandler.Events)
	if deps.VoucherUC != nil {
		stockOuts.Get("/:id/voucher", NewVoucherHandler(deps.VoucherUC).Download)
	}

	// Aprobaciones en dos capas y ejecución
	approvalHandler := NewApprovalHandler(deps.ApprovalUC, deps.ExecutionUC)
	lineItems := protected.Group("/line-items", roles(access.ActionDecideQuantity))
	lineItems.Post("/:id/approve", approvalHandler.ApproveQuantity)
	lineItems.Post("/:id/reject", approvalHandler.RejectQuantity)
	protected.Post("/approvals/:id/assignments", roles(access.ActionAssignWarehouse), approvalHandler.AssignWarehouse)
	protected.Post("/assignments/:id/execute", roles(access.ActionExecute), approvalHandler.Execute)

	// Inventario
	inventoryHandler := NewInventoryHandler(deps.Ledger)
	invGroup := protected.Group("/inventory")
	invGroup.Get("/balance", inventoryHandler.Balance)
	invGroup.Get("/movements", inventoryHandler.Movements)
	invGroup.Post("/receipts", roles(access.ActionReceiveStock), inventoryHandler.Receive)
	protected.Get("/warehouses", inventoryHandler.Warehouses)
}
