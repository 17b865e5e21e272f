package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/electro-api/internal/application/auth"
	appinv "github.com/jhoicas/electro-api/internal/application/inventory"
	"github.com/jhoicas/electro-api/internal/application/order"
	"github.com/jhoicas/electro-api/internal/application/usecase"
	"github.com/jhoicas/electro-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	ProductUC      *usecase.ProductUseCase
	AvailabilityUC *appinv.AvailabilityUseCase
	DocketUC       *appinv.DocketUseCase
	PurchaseUC     *appinv.PurchaseOrderUseCase
	OrderUC        *order.UseCase
	JWTSecret      string
}

// Router registra las rutas de la API. El catálogo y la disponibilidad son
// públicos (la tienda los consulta sin sesión); los dockets y las compras son
// de staff; las órdenes requieren sesión; el webhook del carrier es público.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	staff := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	authd := AuthMiddleware(deps.JWTSecret)

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Catálogo (lectura pública, escritura de staff)
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/slug/:slug", productHandler.GetBySlug)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", authd, staff, productHandler.Create)
	products.Put("/:id", authd, staff, productHandler.Update)
	products.Post("/:id/variants", authd, staff, productHandler.CreateVariant)

	// Disponibilidad (lectura pública) e historia del libro (staff)
	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.AvailabilityUC)
	inv.Get("/variants/:id/availability", inventoryHandler.VariantAvailability)
	inv.Get("/products/:id/availability", inventoryHandler.ProductAvailability)
	inv.Get("/variants/:id/movements", authd, staff, inventoryHandler.VariantMovements)

	// Dockets de ajuste (staff)
	dockets := api.Group("/dockets", authd, staff)
	docketHandler := NewDocketHandler(deps.DocketUC)
	dockets.Post("/", docketHandler.Create)
	dockets.Get("/", docketHandler.List)
	dockets.Get("/:id", docketHandler.GetByID)
	dockets.Get("/:id/pdf", docketHandler.PDF)
	dockets.Put("/:id/lines", docketHandler.ReplaceLines)
	dockets.Post("/:id/complete", docketHandler.Complete)
	dockets.Post("/:id/void", docketHandler.Void)
	dockets.Delete("/:id", docketHandler.Delete)

	// Órdenes de compra (staff)
	purchases := api.Group("/purchase-orders", authd, staff)
	purchaseHandler := NewPurchaseOrderHandler(deps.PurchaseUC)
	purchases.Post("/", purchaseHandler.Create)
	purchases.Get("/", purchaseHandler.List)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Post("/:id/approve", purchaseHandler.Approve)
	purchases.Post("/:id/cancel", purchaseHandler.Cancel)
	purchases.Post("/:id/receive", purchaseHandler.Receive)

	// Órdenes de venta (cualquier usuario autenticado; despacho solo staff)
	orders := api.Group("/orders", authd)
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Post("/", orderHandler.Checkout)
	orders.Get("/", orderHandler.ListMine)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/:id/cancel", orderHandler.Cancel)
	orders.Post("/:id/ship", staff, orderHandler.Ship)

	// Webhook del carrier (público: autentica por conocimiento del tracking)
	waybillHandler := NewWaybillHandler(deps.OrderUC)
	api.Post("/waybills/callback", waybillHandler.CarrierCallback)
}
