package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/FarmHub-api/internal/application/auth"
	"github.com/jhoicas/FarmHub-api/internal/application/finance"
	"github.com/jhoicas/FarmHub-api/internal/application/inventory"
	"github.com/jhoicas/FarmHub-api/internal/application/license"
	"github.com/jhoicas/FarmHub-api/internal/application/usecase"
	"github.com/jhoicas/FarmHub-api/internal/domain/access"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	LicenseUC   *license.UseCase
	BranchUC    *usecase.BranchUseCase
	UserUC      *usecase.UserUseCase
	CustomerUC  *usecase.CustomerUseCase
	ItemUC      *inventory.ItemUseCase
	MovementUC  *inventory.RegisterMovementUseCase
	SupplierUC  *usecase.SupplierUseCase
	AssetUC     *usecase.AssetUseCase
	AttendUC    *usecase.AttendanceUseCase
	ActivityUC  *usecase.ActivityUseCase
	QuotationUC *finance.QuotationUseCase
	InvoiceUC   *finance.InvoiceUseCase
	ReceiptUC   *finance.ReceiptUseCase
	PrintUC     *finance.PrintUseCase
	JWTSecret   string
	// Metrics handler de /metrics; nil lo deshabilita.
	Metrics http.Handler
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Licencia: consultable sin licencia vigente para poder renovarla.
	licenseHandler := NewLicenseHandler(deps.LicenseUC)
	protected.Get("/license", licenseHandler.Status)
	protected.Post("/license/purchase", RequirePermission(access.PermSettings), licenseHandler.Purchase)
	protected.Post("/license/renew", RequirePermission(access.PermSettings), licenseHandler.Renew)

	// A partir de aquí todo exige licencia vigente.
	licensed := protected.Group("/", RequireLicense(deps.LicenseUC))

	session := licensed.Group("/session")
	session.Get("/", authHandler.Session)
	session.Post("/branch", authHandler.SwitchBranch)
	session.Delete("/branch", authHandler.ClearBranch)

	branches := licensed.Group("/branches")
	branchHandler := NewBranchHandler(deps.BranchUC)
	branches.Post("/", RequirePermission(access.PermBranches), branchHandler.Create)
	branches.Get("/", branchHandler.List)
	branches.Get("/:id", branchHandler.GetByID)
	branches.Put("/:id", RequirePermission(access.PermBranches), branchHandler.Update)
	branches.Delete("/:id", RequirePermission(access.PermBranches), branchHandler.Delete)

	users := licensed.Group("/users", RequirePermission(access.PermUsers))
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)

	customers := licensed.Group("/customers", RequirePermission(access.PermCustomers))
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	inv := licensed.Group("/inventory", RequirePermission(access.PermInventory))
	inventoryHandler := NewInventoryHandler(deps.ItemUC, deps.MovementUC)
	inv.Post("/", inventoryHandler.Create)
	inv.Get("/", inventoryHandler.List)
	inv.Get("/:id", inventoryHandler.GetByID)
	inv.Put("/:id", inventoryHandler.Update)
	inv.Delete("/:id", inventoryHandler.Delete)
	inv.Post("/:id/adjust", inventoryHandler.Adjust)
	inv.Get("/:id/movements", inventoryHandler.Movements)

	suppliers := licensed.Group("/suppliers", RequirePermission(access.PermSuppliers))
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", supplierHandler.Delete)
	suppliers.Post("/:id/orders", supplierHandler.RecordOrder)

	assets := licensed.Group("/assets", RequirePermission(access.PermAssets))
	assetHandler := NewAssetHandler(deps.AssetUC)
	assets.Post("/", assetHandler.Create)
	assets.Get("/", assetHandler.List)
	assets.Get("/:id", assetHandler.GetByID)
	assets.Put("/:id", assetHandler.Update)
	assets.Delete("/:id", assetHandler.Delete)
	assets.Post("/:id/maintenance", assetHandler.Maintenance)

	attendance := licensed.Group("/attendance", RequirePermission(access.PermAttendance))
	attendanceHandler := NewAttendanceHandler(deps.AttendUC)
	attendance.Post("/", attendanceHandler.Create)
	attendance.Get("/", attendanceHandler.List)
	attendance.Get("/:id", attendanceHandler.GetByID)
	attendance.Put("/:id", attendanceHandler.Update)
	attendance.Delete("/:id", attendanceHandler.Delete)

	activities := licensed.Group("/activities", RequirePermission(access.PermActivities))
	activityHandler := NewActivityHandler(deps.ActivityUC)
	activities.Post("/", activityHandler.Create)
	activities.Get("/", activityHandler.List)
	activities.Delete("/:id", activityHandler.Delete)

	fin := licensed.Group("/finance", RequirePermission(access.PermFinance))

	quotations := fin.Group("/quotations")
	quotationHandler := NewQuotationHandler(deps.QuotationUC, deps.PrintUC)
	quotations.Post("/", quotationHandler.Create)
	quotations.Get("/", quotationHandler.List)
	quotations.Get("/:id", quotationHandler.GetByID)
	quotations.Put("/:id", quotationHandler.Update)
	quotations.Delete("/:id", quotationHandler.Delete)
	quotations.Post("/:id/send", quotationHandler.Send)
	quotations.Post("/:id/accept", quotationHandler.Accept)
	quotations.Post("/:id/reject", quotationHandler.Reject)
	quotations.Post("/:id/convert", quotationHandler.Convert)
	quotations.Get("/:id/pdf", quotationHandler.PDF)

	invoices := fin.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.PrintUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Delete("/:id", invoiceHandler.Delete)
	invoices.Post("/:id/send", invoiceHandler.Send)
	invoices.Post("/:id/pay", invoiceHandler.MarkPaid)
	invoices.Post("/:id/cancel", invoiceHandler.Cancel)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)

	receipts := fin.Group("/receipts")
	receiptHandler := NewReceiptHandler(deps.ReceiptUC, deps.PrintUC)
	receipts.Post("/", receiptHandler.Create)
	receipts.Get("/", receiptHandler.List)
	receipts.Get("/:id", receiptHandler.GetByID)
	receipts.Put("/:id", receiptHandler.Update)
	receipts.Delete("/:id", receiptHandler.Delete)
	receipts.Post("/:id/print", receiptHandler.Print)
}
