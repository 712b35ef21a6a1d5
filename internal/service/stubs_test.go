package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"tiendapos/internal/model"
	"tiendapos/internal/repository"
	"tiendapos/internal/sincro"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func decimalFrom(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubMotor is an in-memory Motor mimicking the engine's gating: offline
// product writes mutate the mirror and queue silently, an online write that
// hits fallaRemota queues and reports ErrEncolado, and order/sale operations
// fail offline with ErrNoDisponibleOffline.
type stubMotor struct {
	online      bool
	fallaRemota error
	productos   map[uuid.UUID]*model.Producto
	pedidos     map[uuid.UUID]*model.Pedido
	ventas      []*model.Venta
	encolados   int
}

func newStubMotor() *stubMotor {
	return &stubMotor{
		online:    true,
		productos: make(map[uuid.UUID]*model.Producto),
		pedidos:   make(map[uuid.UUID]*model.Pedido),
	}
}

func (m *stubMotor) agregarProducto(nombre, barcode string, precio float64, stock int) *model.Producto {
	p := &model.Producto{
		ID:           uuid.New(),
		CodigoBarras: barcode,
		Nombre:       nombre,
		Precio:       decimalFrom(precio),
		Stock:        stock,
		CreatedAt:    time.Now(),
	}
	m.productos[p.ID] = p
	return p
}

func (m *stubMotor) Online() bool { return m.online }

func (m *stubMotor) ListarProductos(_ context.Context) ([]model.Producto, error) {
	out := make([]model.Producto, 0, len(m.productos))
	for _, p := range m.productos {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (m *stubMotor) ObtenerProducto(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := m.productos[id]
	if !ok {
		return nil, sincro.ErrNoEncontrado
	}
	copia := *p
	return &copia, nil
}

func (m *stubMotor) ObtenerPorBarcode(_ context.Context, codigo string) (*model.Producto, error) {
	for _, p := range m.productos {
		if p.CodigoBarras == codigo {
			copia := *p
			return &copia, nil
		}
	}
	return nil, sincro.ErrNoEncontrado
}

// escrituraProducto resolves the queueing outcome shared by all product
// writes: offline queues silently, an online remote failure queues and
// reports ErrEncolado.
func (m *stubMotor) escrituraProducto() error {
	if !m.online {
		m.encolados++
		return nil
	}
	if m.fallaRemota != nil {
		m.encolados++
		return errors.Join(sincro.ErrEncolado, m.fallaRemota)
	}
	return nil
}

func (m *stubMotor) CrearProducto(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	copia := *p
	m.productos[p.ID] = &copia
	return m.escrituraProducto()
}

func (m *stubMotor) ActualizarProducto(_ context.Context, p *model.Producto) error {
	if _, ok := m.productos[p.ID]; !ok {
		return sincro.ErrNoEncontrado
	}
	copia := *p
	m.productos[p.ID] = &copia
	return m.escrituraProducto()
}

func (m *stubMotor) EliminarProducto(_ context.Context, id uuid.UUID) error {
	if _, ok := m.productos[id]; !ok {
		return sincro.ErrNoEncontrado
	}
	delete(m.productos, id)
	return m.escrituraProducto()
}

func (m *stubMotor) DescontarStockLote(_ context.Context, ajustes []repository.AjusteStock) error {
	if !m.online {
		return sincro.ErrNoDisponibleOffline
	}
	for _, a := range ajustes {
		p, ok := m.productos[a.ProductoID]
		if !ok || p.Stock < a.Cantidad {
			return errors.New("stock insuficiente")
		}
	}
	for _, a := range ajustes {
		m.productos[a.ProductoID].Stock -= a.Cantidad
	}
	return nil
}

func (m *stubMotor) CrearPedido(_ context.Context, p *model.Pedido) error {
	if !m.online {
		return sincro.ErrNoDisponibleOffline
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	m.pedidos[p.ID] = p
	return nil
}

func (m *stubMotor) ObtenerPedido(_ context.Context, id uuid.UUID) (*model.Pedido, error) {
	if !m.online {
		return nil, sincro.ErrNoDisponibleOffline
	}
	p, ok := m.pedidos[id]
	if !ok {
		return nil, sincro.ErrNoEncontrado
	}
	copia := *p
	return &copia, nil
}

func (m *stubMotor) ListarPedidos(_ context.Context, estado string) ([]model.Pedido, error) {
	if !m.online {
		return nil, sincro.ErrNoDisponibleOffline
	}
	out := make([]model.Pedido, 0, len(m.pedidos))
	for _, p := range m.pedidos {
		if estado == "" || p.Estado == estado {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *stubMotor) ActualizarEstadoPedido(_ context.Context, id uuid.UUID, estado string) error {
	if !m.online {
		return sincro.ErrNoDisponibleOffline
	}
	p, ok := m.pedidos[id]
	if !ok {
		return sincro.ErrNoEncontrado
	}
	if p.Estado != model.EstadoPendiente {
		return repository.ErrTransicionInvalida
	}
	p.Estado = estado
	return nil
}

func (m *stubMotor) CrearVenta(_ context.Context, v *model.Venta) error {
	if !m.online {
		return sincro.ErrNoDisponibleOffline
	}
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	m.ventas = append(m.ventas, v)
	return nil
}

func (m *stubMotor) VentasPorRango(_ context.Context, desde, hasta time.Time) ([]model.Venta, error) {
	if !m.online {
		return nil, sincro.ErrNoDisponibleOffline
	}
	out := make([]model.Venta, 0)
	for _, v := range m.ventas {
		if !v.CreatedAt.Before(desde) && v.CreatedAt.Before(hasta) {
			out = append(out, *v)
		}
	}
	return out, nil
}

var _ Motor = (*stubMotor)(nil)

// stubCarrito is an in-memory CarritoStore.
type stubCarrito struct {
	items []model.ItemCarrito
}

func (s *stubCarrito) Carrito(_ context.Context) ([]model.ItemCarrito, error) {
	out := make([]model.ItemCarrito, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *stubCarrito) GuardarCarrito(_ context.Context, items []model.ItemCarrito) error {
	s.items = items
	return nil
}

var _ CarritoStore = (*stubCarrito)(nil)

// stubSesiones records the session flag without Redis.
type stubSesiones struct {
	activa bool
	ttl    time.Duration
}

func (s *stubSesiones) GuardarSesionAdmin(_ context.Context, ttl time.Duration) error {
	s.activa = true
	s.ttl = ttl
	return nil
}

func (s *stubSesiones) BorrarSesionAdmin(_ context.Context) error {
	s.activa = false
	return nil
}

var _ SesionStore = (*stubSesiones)(nil)

// stubBucket records uploads and deletions.
type stubBucket struct {
	subidas    []string
	eliminadas []string
	fallaSubir error
}

func (b *stubBucket) Subir(_ context.Context, nombre, _ string, _ []byte) (string, error) {
	if b.fallaSubir != nil {
		return "", b.fallaSubir
	}
	url := "https://bucket.local/objetos/" + nombre
	b.subidas = append(b.subidas, url)
	return url, nil
}

func (b *stubBucket) Eliminar(_ context.Context, publicURL string) error {
	b.eliminadas = append(b.eliminadas, publicURL)
	return nil
}

var _ Bucket = (*stubBucket)(nil)
