package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/FarmHub-api/docs"
	"github.com/jhoicas/FarmHub-api/internal/application/auth"
	"github.com/jhoicas/FarmHub-api/internal/application/dto"
	"github.com/jhoicas/FarmHub-api/internal/application/finance"
	"github.com/jhoicas/FarmHub-api/internal/application/inventory"
	"github.com/jhoicas/FarmHub-api/internal/application/license"
	"github.com/jhoicas/FarmHub-api/internal/application/usecase"
	"github.com/jhoicas/FarmHub-api/internal/domain"
	"github.com/jhoicas/FarmHub-api/internal/domain/access"
	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
	"github.com/jhoicas/FarmHub-api/internal/infrastructure/metrics"
	"github.com/jhoicas/FarmHub-api/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/FarmHub-api/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/FarmHub-api/internal/interfaces/http"
	"github.com/jhoicas/FarmHub-api/pkg/config"
	"github.com/jhoicas/FarmHub-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.StoreDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	repos, err := openRepositories(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer repos.close()

	// Notificaciones: SMTP si está configurado; si no, solo se registran en el log.
	var notifier finance.Notifier = notify.NewLogNotifier(log)
	if cfg.SMTP.Enabled() {
		notifier = notify.NewSMTPNotifier(notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			User:     cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}, log)
	}

	recorder := metrics.NewPrometheusRecorder()
	finOpts := finance.Options{Notifier: notifier, Metrics: recorder, Logger: log}
	quotationUC := finance.NewQuotationUseCase(repos.tx, repos.quotations, repos.customers, finOpts)
	invoiceUC := finance.NewInvoiceUseCase(repos.tx, repos.invoices, repos.customers, finOpts)
	receiptUC := finance.NewReceiptUseCase(repos.tx, repos.receipts, repos.customers, finOpts)
	printUC := finance.NewPrintUseCase(
		repos.quotations, repos.invoices, repos.customers, repos.branches,
		receiptUC, infrapdf.NewMarotoRenderer(),
	)

	branchUC := usecase.NewBranchUseCase(repos.branches, repos.users, repos.customers)
	userUC := usecase.NewUserUseCase(repos.users, repos.branches)
	customerUC := usecase.NewCustomerUseCase(repos.customers, repos.branches)

	invOpts := inventory.Options{Metrics: recorder, Logger: log}
	itemUC := inventory.NewItemUseCase(repos.tx, repos.items, repos.branches, invOpts)
	movementUC := inventory.NewRegisterMovementUseCase(repos.tx, repos.items, repos.movements, invOpts)
	authUC := auth.NewAuthUseCase(repos.users, repos.branches, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	licenseUC := license.NewUseCase(repos.licenses, cfg.License.TrialDays)
	if created, err := licenseUC.EnsureTrial(ctx); err != nil {
		log.Fatal().Err(err).Msg("licencia de prueba")
	} else if created {
		log.Info().Int("days", cfg.License.TrialDays).Msg("licencia de prueba creada")
	}

	if cfg.Admin.Enabled() {
		system := &access.Scope{Role: entity.RoleSuperAdmin}
		_, err := userUC.Create(ctx, system, dto.CreateUserRequest{
			Email:    cfg.Admin.Email,
			Password: cfg.Admin.Password,
			Name:     "Administrador",
			Role:     entity.RoleSuperAdmin.String(),
		})
		switch {
		case err == nil:
			log.Info().Str("email", cfg.Admin.Email).Msg("super_admin inicial creado")
		case errors.Is(err, domain.ErrEmailAlreadyExists):
		default:
			log.Fatal().Err(err).Msg("crear super_admin inicial")
		}
	}

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
		Title:    "FarmHub API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		metricsHandler = recorder.Handler()
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		LicenseUC:   licenseUC,
		BranchUC:    branchUC,
		UserUC:      userUC,
		CustomerUC:  customerUC,
		ItemUC:      itemUC,
		MovementUC:  movementUC,
		SupplierUC:  usecase.NewSupplierUseCase(repos.suppliers, repos.branches),
		AssetUC:     usecase.NewAssetUseCase(repos.assets, repos.branches),
		AttendUC:    usecase.NewAttendanceUseCase(repos.attendance, repos.users),
		ActivityUC:  usecase.NewActivityUseCase(repos.activities, repos.branches),
		QuotationUC: quotationUC,
		InvoiceUC:   invoiceUC,
		ReceiptUC:   receiptUC,
		PrintUC:     printUC,
		JWTSecret:   cfg.JWT.Secret,
		Metrics:     metricsHandler,
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
