package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/elaia-api/internal/application/auth"
	"github.com/jhoicas/elaia-api/internal/application/order"
	"github.com/jhoicas/elaia-api/internal/application/usecase"
	"github.com/jhoicas/elaia-api/internal/domain/entity"
	"github.com/jhoicas/elaia-api/pkg/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	UserUC     *usecase.UserUseCase
	RoleUC     *usecase.RoleUseCase
	CategoryUC *usecase.CategoryUseCase
	ProductUC  *usecase.ProductUseCase
	OrderUC    *order.UseCase
	Metrics    *metrics.HTTPMetrics
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.AuthUC)

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Products (lectura pública, escritura admin)
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	manageCatalog := []fiber.Handler{requireAuth, RequireCapability(entity.CapManageCatalog)}
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", append(manageCatalog, productHandler.Create)...)
	products.Put("/:id", append(manageCatalog, productHandler.Update)...)
	products.Delete("/:id", append(manageCatalog, productHandler.Delete)...)

	// Categories (lectura pública, escritura admin)
	categories := api.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Post("/", append(manageCatalog, categoryHandler.Create)...)
	categories.Put("/:id", append(manageCatalog, categoryHandler.Update)...)
	categories.Delete("/:id", append(manageCatalog, categoryHandler.Delete)...)

	// Roles (lectura con token, escritura admin)
	roles := api.Group("/roles", requireAuth)
	roleHandler := NewRoleHandler(deps.RoleUC)
	manageRoles := RequireCapability(entity.CapManageRoles)
	roles.Get("/", roleHandler.List)
	roles.Get("/:id", roleHandler.GetByID)
	roles.Post("/", manageRoles, roleHandler.Create)
	roles.Put("/:id", manageRoles, roleHandler.Update)
	roles.Delete("/:id", manageRoles, roleHandler.Delete)

	// Users (admin)
	users := api.Group("/users", requireAuth, RequireCapability(entity.CapManageUsers))
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Post("/", userHandler.Create)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Orders (requiere token; la visibilidad se decide en el caso de uso)
	orders := api.Group("/orders", requireAuth)
	orderHandler := NewOrderHandler(deps.OrderUC, deps.Metrics)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/user/:userId", orderHandler.ListByUser)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Get("/:id/receipt", orderHandler.Receipt)
	orders.Delete("/:id", orderHandler.Delete)
}
