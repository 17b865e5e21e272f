package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/electro-api/docs"
	"github.com/jhoicas/electro-api/internal/application/auth"
	"github.com/jhoicas/electro-api/internal/application/inventory"
	"github.com/jhoicas/electro-api/internal/application/order"
	"github.com/jhoicas/electro-api/internal/application/usecase"
	"github.com/jhoicas/electro-api/internal/infrastructure/lock"
	infrapdf "github.com/jhoicas/electro-api/internal/infrastructure/pdf"
	"github.com/jhoicas/electro-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/electro-api/internal/interfaces/http"
	"github.com/jhoicas/electro-api/pkg/config"
	"github.com/jhoicas/electro-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	variantRepo := postgres.NewVariantRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	docketRepo := postgres.NewDocketRepository(pool)
	purchaseRepo := postgres.NewPurchaseOrderRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	waybillRepo := postgres.NewWaybillRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Sección exclusiva por variante: serializa el guard y los ciclos de vida
	// que tocan el libro de una misma variante.
	locker := lock.NewKeyedLocker(cfg.Inventory.LockWait())

	guard := inventory.NewReservationGuard(locker, txRunner)
	availabilityUC := inventory.NewAvailabilityUseCase(movementRepo, variantRepo, log)
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	docketUC := inventory.NewDocketUseCase(locker, txRunner, docketRepo, movementRepo, variantRepo, productRepo, pdfGenerator)
	purchaseUC := inventory.NewPurchaseOrderUseCase(locker, txRunner, purchaseRepo, movementRepo, variantRepo)
	orderUC := order.NewUseCase(guard, locker, txRunner, orderRepo, waybillRepo, variantRepo, log)
	productUC := usecase.NewProductUseCase(productRepo, variantRepo, availabilityUC)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Electro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		ProductUC:      productUC,
		AvailabilityUC: availabilityUC,
		DocketUC:       docketUC,
		PurchaseUC:     purchaseUC,
		OrderUC:        orderUC,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
