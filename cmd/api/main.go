package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/jhoicas/elaia-api/docs"
	"github.com/jhoicas/elaia-api/internal/application/auth"
	"github.com/jhoicas/elaia-api/internal/application/order"
	"github.com/jhoicas/elaia-api/internal/application/usecase"
	"github.com/jhoicas/elaia-api/internal/domain/repository"
	"github.com/jhoicas/elaia-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/elaia-api/internal/infrastructure/pdf"
	"github.com/jhoicas/elaia-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/elaia-api/internal/interfaces/http"
	"github.com/jhoicas/elaia-api/pkg/config"
	"github.com/jhoicas/elaia-api/pkg/logger"
	"github.com/jhoicas/elaia-api/pkg/metrics"
	"github.com/jhoicas/elaia-api/pkg/migrate"
)

// storage puertos de persistencia del backend elegido con APP_STORAGE.
type storage struct {
	users      repository.UserRepository
	roles      repository.RoleRepository
	categories repository.CategoryRepository
	products   repository.ProductRepository
	orders     repository.OrderRepository
	orderTx    order.TxRunner
	catalogTx  usecase.CatalogTxRunner
	close      func()
}

// @title                      ELAIA API
// @version                    1.0
// @description                API REST de la tienda ELAIA: usuarios, roles, catálogo y pedidos.
// @BasePath                   /
// @securityDefinitions.apikey Bearer
// @in                         header
// @name                       Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar persistencia")
	}
	defer store.close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.NewHTTPMetrics(registry)

	authUC := auth.NewAuthUseCase(store.users, store.roles, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	userUC := usecase.NewUserUseCase(store.users, store.roles)
	roleUC := usecase.NewRoleUseCase(store.roles)
	categoryUC := usecase.NewCategoryUseCase(store.categories)
	productUC := usecase.NewProductUseCase(store.products, store.catalogTx)

	// PDF: comprobante del pedido
	receipts := infrapdf.NewReceiptGenerator(cfg.App.Name)
	orderUC := order.NewUseCase(store.orders, store.orderTx, receipts)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.AllowOrigins,
		AllowHeaders: strings.Join([]string{fiber.HeaderOrigin, fiber.HeaderContentType, fiber.HeaderAccept, fiber.HeaderAuthorization}, ", "),
	}))
	app.Use(httpRouter.RequestLogger(log.Component("http"), httpMetrics))
	app.Use(httpRouter.RequestContext(time.Duration(cfg.HTTP.RequestTimeout) * time.Second))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "ELAIA API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		UserUC:     userUC,
		RoleUC:     roleUC,
		CategoryUC: categoryUC,
		ProductUC:  productUC,
		OrderUC:    orderUC,
		Metrics:    httpMetrics,
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

// openStorage conecta PostgreSQL (aplicando migraciones si DB_AUTO_MIGRATE) o crea el almacén en memoria.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.App.Storage == config.StorageMemory {
		log.Warn().Msg("persistencia en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		tx := memory.NewTxRunner(s)
		return &storage{
			users:      memory.NewUserRepository(s),
			roles:      memory.NewRoleRepository(s),
			categories: memory.NewCategoryRepository(s),
			products:   memory.NewProductRepository(s),
			orders:     memory.NewOrderRepository(s),
			orderTx:    tx,
			catalogTx:  tx,
			close:      func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		db := migrate.OpenDB(pool)
		err := migrate.Up(ctx, db)
		_ = db.Close()
		if err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}
	tx := postgres.NewTxRunner(pool)
	return &storage{
		users:      postgres.NewUserRepository(pool),
		roles:      postgres.NewRoleRepository(pool),
		categories: postgres.NewCategoryRepository(pool),
		products:   postgres.NewProductRepository(pool),
		orders:     postgres.NewOrderRepository(pool),
		orderTx:    tx,
		catalogTx:  tx,
		close:      pool.Close,
	}, nil
}
