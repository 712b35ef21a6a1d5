package router

import (
	"context"
	"time"

	"tiendapos/internal/config"
	"tiendapos/internal/handler"
	"tiendapos/internal/infra"
	"tiendapos/internal/middleware"
	"tiendapos/internal/mirror"
	"tiendapos/internal/scanner"
	"tiendapos/internal/service"
	"tiendapos/internal/sincro"
	"tiendapos/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Sync Engine ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, engine *sincro.Engine, espejo *mirror.Store) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	bucketCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	bucket := infra.NewBucketClient(cfg.BucketURL, cfg.BucketMaxBytes, bucketCB)

	clasificador := scanner.New(scanner.Config{
		MinLen:        cfg.ScannerMinLen,
		MaxGap:        time.Duration(cfg.ScannerMaxGapMs) * time.Millisecond,
		Timeout:       time.Duration(cfg.ScannerTimeoutMs) * time.Millisecond,
		CampoBusqueda: "busqueda",
	}, nil)

	// Worker dispatcher — new catalog orders fan out to the alert queue
	dispatcher := worker.NewDispatcher(rdb)
	engine.Suscribir(func(ev sincro.Evento) {
		if ev.Tipo != sincro.EventoPedidoCreado || ev.Pedido == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = dispatcher.EncolarAlertaPedido(ctx, worker.AlertaPedidoPayload{
			PedidoID:      ev.Pedido.ID.String(),
			Cliente:       ev.Pedido.Cliente,
			Total:         ev.Pedido.Total.String(),
			MetodoPago:    ev.Pedido.MetodoPago,
			TiempoLlegada: ev.Pedido.TiempoLlegada,
		})
	})

	// ── Services ─────────────────────────────────────────────────────────────
	productoSvc := service.NewProductoService(engine, bucket)
	carritoSvc := service.NewCarritoService(engine, espejo, cfg.CarritoMaxPorProducto)
	pedidoSvc := service.NewPedidoService(engine)
	ventaSvc := service.NewVentaService(engine, espejo)
	authSvc := service.NewAuthService(cfg.AdminUsuario, cfg.AdminPasswordHash, cfg.JWTSecret, cfg.JWTExpirationHours, espejo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	productosH := handler.NewProductosHandler(productoSvc, cfg.BucketMaxBytes)
	carritoH := handler.NewCarritoHandler(carritoSvc)
	pedidosH := handler.NewPedidosHandler(pedidoSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	reportesH := handler.NewReportesHandler(ventaSvc, cfg.PDFStoragePath)
	authH := handler.NewAuthHandler(authSvc)
	scannerH := handler.NewScannerHandler(clasificador, productoSvc)
	syncH := handler.NewSyncHandler(engine, espejo)
	preferenciasH := handler.NewPreferenciasHandler(espejo)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, engine, bucketCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/logout", authH.Logout)
	}

	v1 := r.Group("/v1")
	{
		// Catalog — public reads, served from the remote store or the mirror
		v1.GET("/productos", productosH.Listar)
		v1.GET("/productos/barcode/:codigo", productosH.PorBarcode)

		// Catalog writes — the station works offline, so no auth gate beyond
		// the LAN; queued writes answer 202
		v1.POST("/productos", productosH.Crear)
		v1.PUT("/productos/:id", productosH.Actualizar)
		v1.PATCH("/productos/:id/stock", productosH.AjustarStock)
		v1.DELETE("/productos/:id", productosH.Eliminar)
		v1.POST("/productos/:id/imagen", productosH.SubirImagen)

		// Cart — persisted per station
		v1.GET("/carrito", carritoH.Ver)
		v1.POST("/carrito/items", carritoH.Agregar)
		v1.PATCH("/carrito/items/:producto_id", carritoH.Modificar)
		v1.DELETE("/carrito/items/:producto_id", carritoH.Quitar)
		v1.DELETE("/carrito", carritoH.Vaciar)

		// POS sales
		v1.POST("/ventas", ventasH.RegistrarVenta)

		// Catalog orders
		v1.POST("/pedidos", pedidosH.Crear)
		v1.GET("/pedidos", pedidosH.Listar)
		v1.GET("/pedidos/:id", pedidosH.Obtener)
		v1.POST("/pedidos/:id/entrega", pedidosH.ConfirmarEntrega)
		v1.POST("/pedidos/:id/cancelar", pedidosH.Cancelar)

		// Scanner classification
		v1.POST("/scanner/tecla", scannerH.Tecla)
		v1.POST("/scanner/codigo", scannerH.Codigo)

		// Sync state
		v1.GET("/sync/estado", syncH.Estado)
		v1.POST("/sync/replay", syncH.Replay)

		// UI preferences
		v1.GET("/preferencias/tab", preferenciasH.ObtenerTab)
		v1.PUT("/preferencias/tab", preferenciasH.GuardarTab)

		// Reports — admin only
		reportes := v1.Group("/reportes", middleware.JWTAuth(cfg.JWTSecret))
		{
			reportes.GET("/ventas", reportesH.VentasPorDia)
			reportes.GET("/ventas/pdf", reportesH.DescargarPDF)
		}
	}

	return r
}
