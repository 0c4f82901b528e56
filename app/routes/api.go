// Package routes declares the HTTP surface and its role gates.
package routes

import (
	"net/http"

	"github.com/duolink/cotizador/app/controllers"
	"github.com/duolink/cotizador/pkg/middleware"
	"github.com/duolink/cotizador/pkg/rbac"
	"github.com/duolink/cotizador/pkg/response"
	"github.com/duolink/cotizador/pkg/router"
)

// Controllers bundles everything the route table needs.
type Controllers struct {
	Auth      *controllers.AuthController
	Products  *controllers.ProductController
	Quotes    *controllers.QuoteController
	Users     *controllers.UserController
	Clients   *controllers.ClientController
	Catalog   *controllers.CatalogController
	Contact   *controllers.ContactController
	Dashboard *controllers.DashboardController
	Website   *controllers.WebsiteController
}

// Register mounts the API. Reads require a signed-in worker; catalogue
// and quote writes require admin; account management and password resets
// require superadmin. The contact form and the health check stay public.
func Register(r *router.Router, c Controllers, profiles middleware.ProfileSource) {
	r.Get("/healthz", "healthz", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})

	api := r.Group("/api")

	api.Post("/login", "auth.login", c.Auth.Login)
	api.Post("/contact", "contact.submit", c.Contact.Submit)
	api.Get("/website-content", "website.content", c.Website.Content)
	api.Get("/public-services", "public_services.index", c.Website.PublicServices)

	authed := api.Group("", middleware.Auth(profiles))
	authed.Get("/profile", "auth.profile", c.Auth.Profile)
	authed.Post("/password", "auth.change_password", c.Auth.ChangePassword)

	worker := authed.Group("", rbac.Require(rbac.RoleWorker))
	worker.Get("/products", "products.index", c.Products.Index)
	worker.Get("/products/{id}", "products.show", c.Products.Show)
	worker.Get("/quotes", "quotes.index", c.Quotes.Index)
	worker.Get("/quotes/{id}", "quotes.show", c.Quotes.Show)
	worker.Get("/quotes/{id}/pdf", "quotes.pdf", c.Quotes.ExportPDF)
	worker.Post("/quotes", "quotes.store", c.Quotes.Store)
	worker.Put("/quotes/{id}", "quotes.update", c.Quotes.Update)
	worker.Get("/clients", "clients.index", c.Clients.Index)
	worker.Get("/clients/{id}", "clients.show", c.Clients.Show)
	worker.Post("/clients", "clients.store", c.Clients.Store)
	worker.Put("/clients/{id}", "clients.update", c.Clients.Update)
	worker.Get("/categories", "categories.index", c.Catalog.Categories)
	worker.Get("/units", "units.index", c.Catalog.Units)
	worker.Get("/services", "services.index", c.Catalog.Services)

	admin := authed.Group("", rbac.Require(rbac.RoleAdmin))
	admin.Post("/products", "products.store", c.Products.Store)
	admin.Put("/products/{id}", "products.update", c.Products.Update)
	admin.Delete("/products/{id}", "products.destroy", c.Products.Destroy)
	admin.Post("/products/{id}/image", "products.image", c.Products.UploadImage)
	admin.Patch("/products/{id}/qty", "products.qty", c.Products.UpdateQty)
	admin.Patch("/quotes/{id}/status", "quotes.status", c.Quotes.SetStatus)
	admin.Delete("/quotes/{id}", "quotes.destroy", c.Quotes.Destroy)
	admin.Delete("/clients/{id}", "clients.destroy", c.Clients.Destroy)
	admin.Post("/categories", "categories.store", c.Catalog.StoreCategory)
	admin.Delete("/categories/{id}", "categories.destroy", c.Catalog.DestroyCategory)
	admin.Post("/units", "units.store", c.Catalog.StoreUnit)
	admin.Delete("/units/{id}", "units.destroy", c.Catalog.DestroyUnit)
	admin.Post("/services", "services.store", c.Catalog.StoreService)
	admin.Put("/services/{id}", "services.update", c.Catalog.UpdateService)
	admin.Delete("/services/{id}", "services.destroy", c.Catalog.DestroyService)
	admin.Get("/dashboard", "dashboard.stats", c.Dashboard.Stats)
	admin.Get("/dashboard/stream", "dashboard.stream", c.Dashboard.Stream)
	admin.Put("/website-content/{section}", "website.update", c.Website.UpdateSection)
	admin.Get("/public-services/all", "public_services.all", c.Website.AllPublicServices)
	admin.Post("/public-services", "public_services.store", c.Website.StorePublicService)
	admin.Put("/public-services/{id}", "public_services.update", c.Website.UpdatePublicService)
	admin.Delete("/public-services/{id}", "public_services.destroy", c.Website.DestroyPublicService)
	admin.Patch("/public-services/{id}/active", "public_services.active", c.Website.SetPublicServiceActive)
	admin.Get("/contact-messages", "contact.index", c.Contact.Index)
	admin.Patch("/contact-messages/{id}/read", "contact.read", c.Contact.MarkRead)
	admin.Patch("/contact-messages/{id}/replied", "contact.replied", c.Contact.MarkReplied)

	super := authed.Group("", rbac.Require(rbac.RoleSuperadmin))
	super.Get("/users", "users.index", c.Users.Index)
	super.Post("/users", "users.store", c.Users.Store)
	super.Patch("/users/{id}/role", "users.role", c.Users.SetRole)
	super.Patch("/users/{id}/active", "users.active", c.Users.SetActive)
	super.Post("/users/{id}/reset-password", "users.reset_password", c.Auth.ResetPassword)
}
