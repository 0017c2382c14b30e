package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/produccion-api/internal/application/auth"
	"github.com/jhoicas/produccion-api/internal/application/inventario"
	"github.com/jhoicas/produccion-api/internal/application/receta"
	"github.com/jhoicas/produccion-api/internal/application/usecase"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Items       *inventario.ItemsService
	Stock       *inventario.StockService
	Produccion  *inventario.ProduccionService
	Reversos    *inventario.ReversoService
	Movimientos *inventario.MovimientosService
	RecetaUC    *receta.UseCase
	ProductoUC  *usecase.ProductoUseCase
	AuthUC      *auth.AuthUseCase
	ItemRepo    repository.ItemStockRepository
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	// Las operaciones destructivas (reversos y bajas) exigen rol administrador.
	soloAdmin := RequireRole(entity.RolAdmin, entity.RolSuperAdmin)

	// Items de stock
	items := protected.Group("/items")
	inventarioHandler := NewInventarioHandler(deps.Items, deps.Stock)
	items.Post("/", inventarioHandler.CrearItem)
	items.Get("/", inventarioHandler.ListarItems)
	items.Get("/:id", inventarioHandler.GetItem)
	items.Delete("/:id", soloAdmin, inventarioHandler.DesactivarItem)

	// Movimientos manuales de stock
	invGroup := protected.Group("/inventario")
	invGroup.Post("/entradas", inventarioHandler.RegistrarEntrada)
	invGroup.Post("/salidas", inventarioHandler.RegistrarSalida)
	invGroup.Post("/mermas", inventarioHandler.RegistrarMerma)

	// Producciones
	producciones := protected.Group("/producciones")
	produccionHandler := NewProduccionHandler(deps.Produccion, deps.Reversos)
	producciones.Post("/", produccionHandler.Producir)
	producciones.Delete("/:correlacion_id", soloAdmin, produccionHandler.RevertirEvento)

	// Libro de movimientos
	movimientos := protected.Group("/movimientos")
	movimientoHandler := NewMovimientoHandler(deps.Movimientos, deps.Reversos)
	movimientos.Get("/", movimientoHandler.Listar)
	movimientos.Get("/:id", movimientoHandler.GetByID)
	movimientos.Delete("/:id", soloAdmin, movimientoHandler.Revertir)

	// Recetas
	recetas := protected.Group("/recetas")
	recetaHandler := NewRecetaHandler(deps.RecetaUC, deps.ItemRepo)
	recetas.Post("/", recetaHandler.Crear)
	recetas.Get("/", recetaHandler.Listar)
	recetas.Get("/:id", recetaHandler.GetByID)
	recetas.Post("/:id/iniciar", recetaHandler.Iniciar)
	recetas.Post("/:id/avanzar-fase", recetaHandler.AvanzarFase)
	recetas.Post("/:id/pausar", recetaHandler.Pausar)
	recetas.Post("/:id/reanudar", recetaHandler.Reanudar)
	recetas.Post("/:id/reiniciar", soloAdmin, recetaHandler.Reiniciar)
	recetas.Delete("/:id", soloAdmin, recetaHandler.Desactivar)

	// Catálogo de productos
	productos := protected.Group("/productos")
	productoHandler := NewProductoHandler(deps.ProductoUC)
	productos.Post("/", productoHandler.Crear)
	productos.Get("/", productoHandler.Listar)
	productos.Get("/:id", productoHandler.GetByID)
	productos.Put("/:id", productoHandler.Actualizar)
}
