package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/cozyren/catalog-api/internal/application/auth"
	"github.com/cozyren/catalog-api/internal/application/usecase"
)

// RouterDeps dependencies for the router.
type RouterDeps struct {
	ProductUC   *usecase.ProductUseCase
	CategoryUC  *usecase.CategoryUseCase
	BrandUC     *usecase.BrandUseCase
	SyncUC      *usecase.SyncUseCase
	PriceListUC *usecase.PriceListUseCase
	AuthUC      *auth.AuthUseCase
	Ingester    Ingester
	Archive     PayloadArchiver
	DB          Pinger

	WebhookToken   string
	LoginPerMinute int
	LoginBurst     int

	// Gatherer exposes /metrics when set.
	Gatherer prometheus.Gatherer
	Log      zerolog.Logger
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	catalog := NewCatalogHandler(deps.ProductUC, deps.CategoryUC, deps.BrandUC, deps.DB)
	app.Get("/", catalog.Root)

	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// Public catalog
	api := app.Group("/api")
	api.Get("/health", catalog.Health)
	api.Get("/products", catalog.ListProducts)
	api.Get("/products/:id", catalog.GetProduct)
	api.Get("/categories", catalog.ListCategories)
	api.Get("/brands", catalog.ListBrands)
	api.Get("/search", catalog.Search)

	// Webhooks (shared secret, no JWT)
	webhooks := NewWebhookHandler(deps.Ingester, deps.Archive, deps.WebhookToken, deps.Log)
	app.Post("/webhook/price-list", webhooks.PriceList)
	app.Post("/webhook/1c", webhooks.OneC)

	requireAdmin := AdminMiddleware(deps.AuthUC)

	// Login is registered before the protected group so the group middleware never sees it.
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/admin/login", LoginLimiter(deps.LoginPerMinute, deps.LoginBurst), authHandler.Login)

	admin := api.Group("/admin", requireAdmin)

	products := NewProductHandler(deps.ProductUC)
	admin.Post("/products", products.Create)
	admin.Put("/products/:id", products.Update)
	admin.Delete("/products/:id", products.Delete)

	taxonomy := NewTaxonomyHandler(deps.CategoryUC, deps.BrandUC)
	admin.Post("/categories", taxonomy.CreateCategory)
	admin.Put("/categories/:id", taxonomy.UpdateCategory)
	admin.Delete("/categories/:id", taxonomy.DeleteCategory)
	admin.Post("/brands", taxonomy.CreateBrand)
	admin.Put("/brands/:id", taxonomy.UpdateBrand)
	admin.Delete("/brands/:id", taxonomy.DeleteBrand)

	syncHandler := NewSyncHandler(deps.SyncUC, deps.PriceListUC)
	admin.Post("/sync-1c", syncHandler.Trigger1C)
	admin.Get("/sync-status", syncHandler.Status)
	admin.Get("/sync-log", syncHandler.Log)
	admin.Get("/price-list.pdf", syncHandler.PriceListPDF)

	app.Post("/admin/sync/price-list", requireAdmin, webhooks.ManualPriceList)
}
