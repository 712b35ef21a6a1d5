package service

import (
	"context"
	"time"

	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
)

// Motor is the slice of the sync engine the operations layer depends on.
// Services never touch the network directly; every read and write goes
// through the engine's dual-path policy.
type Motor interface {
	Online() bool
	ListarProductos(ctx context.Context) ([]model.Producto, error)
	ObtenerProducto(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	ObtenerPorBarcode(ctx context.Context, codigo string) (*model.Producto, error)
	CrearProducto(ctx context.Context, p *model.Producto) error
	ActualizarProducto(ctx context.Context, p *model.Producto) error
	EliminarProducto(ctx context.Context, id uuid.UUID) error
	DescontarStockLote(ctx context.Context, ajustes []repository.AjusteStock) error
	CrearPedido(ctx context.Context, p *model.Pedido) error
	ObtenerPedido(ctx context.Context, id uuid.UUID) (*model.Pedido, error)
	ListarPedidos(ctx context.Context, estado string) ([]model.Pedido, error)
	ActualizarEstadoPedido(ctx context.Context, id uuid.UUID, estado string) error
	CrearVenta(ctx context.Context, v *model.Venta) error
	VentasPorRango(ctx context.Context, desde, hasta time.Time) ([]model.Venta, error)
}

// CarritoStore is the cart persistence slice of the local mirror.
type CarritoStore interface {
	Carrito(ctx context.Context) ([]model.ItemCarrito, error)
	GuardarCarrito(ctx context.Context, items []model.ItemCarrito) error
}

// SesionStore is the admin session flag slice of the local mirror.
type SesionStore interface {
	GuardarSesionAdmin(ctx context.Context, ttl time.Duration) error
	BorrarSesionAdmin(ctx context.Context) error
}

// Bucket is the blob-storage client slice used by the product service.
type Bucket interface {
	Subir(ctx context.Context, nombre, mimeType string, data []byte) (string, error)
	Eliminar(ctx context.Context, publicURL string) error
}
