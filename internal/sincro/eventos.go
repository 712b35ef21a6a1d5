package sincro

import (
	"time"

	"tiendapos/internal/model"
)

// Tipos de evento publicados por el bus de cambios.
const (
	EventoProductoCambiado = "producto_cambiado"
	EventoPedidoCreado     = "pedido_creado"
)

// Redis pub/sub channels. Every station publishes its successful remote
// writes here and subscribes for everyone else's — including the echo of its
// own, which is why consumers must not assume ordering relative to their own
// writes.
const (
	canalProductos = "cambios:productos"
	canalPedidos   = "cambios:pedidos"
)

// Evento is the typed change notification delivered to subscribers. Exactly
// one of Producto / Pedido is set, according to Tipo.
type Evento struct {
	Tipo      string          `json:"tipo"`
	Operacion string          `json:"operacion,omitempty"` // insert | update | delete
	Producto  *model.Producto `json:"producto,omitempty"`
	Pedido    *model.Pedido   `json:"pedido,omitempty"`
	EmitidoEn time.Time       `json:"emitido_en"`
}
